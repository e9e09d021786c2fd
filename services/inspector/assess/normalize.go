// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package assess implements the damage assessment pipeline stages: prediction
// normalization, body-zone location, severity aggregation, and the
// deterministic fallback synthesizer. All stages are pure functions over the
// injected reference tables; none perform I/O.
package assess

import (
	"log/slog"
	"strings"

	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/datatypes"
	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/reference"
)

// OtherArea is the location reported when no body zone matches.
const OtherArea = "other area"

// Pipeline evaluates raw predictions against the injected reference tables.
// Stateless apart from the read-only tables; safe for concurrent use.
type Pipeline struct {
	tables *reference.Tables
}

// New builds a pipeline over the given reference tables.
func New(tables *reference.Tables) *Pipeline {
	return &Pipeline{tables: tables}
}

// Normalize maps raw provider predictions into the ordered normalized damage
// list. Labels are lower-cased and trimmed before the mapping lookup;
// unmapped labels are dropped and counted, never errored. Confidences are
// clamped into [0,1]. Output order follows the provider's response order.
//
// The second return is the number of dropped predictions, for metrics.
func (p *Pipeline) Normalize(preds []datatypes.RawPrediction, imageWidth, imageHeight int) ([]datatypes.NormalizedDamage, int) {
	damages := make([]datatypes.NormalizedDamage, 0, len(preds))
	dropped := 0

	for _, pred := range preds {
		label := strings.ToLower(strings.TrimSpace(pred.Class))
		damageType, ok := p.tables.MapLabel(label)
		if !ok {
			slog.Debug("Dropping prediction with unmapped class label", "class", label)
			dropped++
			continue
		}

		damages = append(damages, datatypes.NormalizedDamage{
			Type: damageType,
			// The original lower-cased label is kept as the finer-grained
			// severity signal; Type carries the coarse classification.
			Severity:    label,
			Confidence:  datatypes.ClampConfidence(pred.Confidence),
			Location:    p.LocateZone(pred.Box(), imageWidth, imageHeight),
			BoundingBox: pred.Box(),
		})
	}

	return damages, dropped
}

// LocateZone converts a bounding-box center into a normalized position and
// returns the name of the first zone containing it, in table declaration
// order. Declaration order is the tie-break where zones overlap. Returns
// OtherArea when nothing matches or the image dimensions are unusable.
func (p *Pipeline) LocateZone(box datatypes.BoundingBox, imageWidth, imageHeight int) string {
	if imageWidth <= 0 || imageHeight <= 0 {
		return OtherArea
	}

	nx := box.X / float64(imageWidth)
	ny := box.Y / float64(imageHeight)

	for _, zone := range p.tables.Zones {
		if zone.Contains(nx, ny) {
			return zone.Name
		}
	}
	return OtherArea
}
