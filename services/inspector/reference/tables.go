// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package reference holds the inspector's immutable reference tables: the
// vehicle body-zone rectangles and the class-label mapping.
//
// The tables are baked into the binary via the Go embed package
// (tables.yaml), parsed once at startup, and passed explicitly into the
// pipeline components that need them. They are read-only after Load and safe
// for unsynchronized concurrent reads. Tests may construct alternate tables
// directly or parse their own YAML via Parse.
package reference

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/datatypes"
)

// embeddedTables holds the raw byte content of tables.yaml.
//
// Populated at compile time via the embed directive, so the reference data
// is immutable at runtime and travels with the executable.
//
//go:embed tables.yaml
var embeddedTables []byte

// Zone is a named body region with a normalized bounding rectangle.
// All bounds are in [0,1] relative to the inference image dimensions.
type Zone struct {
	Name string  `yaml:"name"`
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`
}

// Contains reports whether the normalized point (nx, ny) lies inside the
// zone rectangle. Bounds are inclusive on both edges.
func (z Zone) Contains(nx, ny float64) bool {
	return nx >= z.XMin && nx <= z.XMax && ny >= z.YMin && ny <= z.YMax
}

// Tables bundles the two reference tables. Zone slice order is significant:
// the location estimator returns the first matching zone.
type Tables struct {
	Zones  []Zone                          `yaml:"zones"`
	Labels map[string]datatypes.DamageType `yaml:"labels"`
}

// Load parses and validates the embedded reference tables.
// Call once at startup; the result must be treated as read-only.
func Load() (*Tables, error) {
	return Parse(embeddedTables)
}

// Parse decodes reference tables from raw YAML and validates them.
func Parse(raw []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse reference tables: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("invalid reference tables: %w", err)
	}
	return &t, nil
}

func (t *Tables) validate() error {
	if len(t.Zones) == 0 {
		return fmt.Errorf("zone table is empty")
	}
	for i, z := range t.Zones {
		if z.Name == "" {
			return fmt.Errorf("zone %d has no name", i)
		}
		if z.XMin < 0 || z.XMax > 1 || z.YMin < 0 || z.YMax > 1 {
			return fmt.Errorf("zone %q bounds outside [0,1]", z.Name)
		}
		if z.XMin >= z.XMax || z.YMin >= z.YMax {
			return fmt.Errorf("zone %q has an empty rectangle", z.Name)
		}
	}

	if len(t.Labels) == 0 {
		return fmt.Errorf("label table is empty")
	}
	for label, dt := range t.Labels {
		if dt != datatypes.DamageScratch && dt != datatypes.DamageDent {
			return fmt.Errorf("label %q maps to unknown damage type %q", label, dt)
		}
	}
	return nil
}

// MapLabel looks up a lower-cased class label in the mapping table.
// The second return is false for labels with no classification; callers
// drop those predictions.
func (t *Tables) MapLabel(label string) (datatypes.DamageType, bool) {
	dt, ok := t.Labels[label]
	return dt, ok
}
