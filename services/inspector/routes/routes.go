// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/assess"
	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/handlers"
	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/middleware"
)

// SetupRoutes registers the inspector endpoints. The detect endpoint carries
// no authentication: it serves the public storefront widget.
func SetupRoutes(router *gin.Engine, detector handlers.Detector, pipeline *assess.Pipeline, maxUploadBytes int64) {
	router.Use(middleware.RequestID())

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.POST("/damage/detect", handlers.DetectDamage(detector, pipeline, maxUploadBytes))
	}
}
