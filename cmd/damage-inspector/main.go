// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command damage-inspector starts the TrueAutoCheck visual damage detection
// HTTP server.
//
// It reads configuration from environment variables (optionally via .env)
// and starts the server.
//
// # Environment Variables
//
//   - INSPECTOR_PORT: HTTP server port (default: 8090)
//   - DETECTION_API_URL: inference provider base URL (default: https://detect.roboflow.com)
//   - DETECTION_MODEL_ID: hosted model path (default: vehicle-damage-detection/3)
//   - DETECTION_API_KEY: provider credential (absent: every request degrades to fallback)
//   - DETECTION_TIMEOUT_SECONDS: inference call timeout in seconds (default: 30)
//   - DETECTION_CONFIDENCE_THRESHOLD: provider-side minimum confidence percent (default: 40)
//   - MAX_UPLOAD_BYTES: upload size limit (default: 20 MiB)
//   - DETECTION_MAX_IN_FLIGHT: concurrent upstream call cap (default: 8)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector (default: otel-collector:4317)
//
// # Usage
//
//	# Build
//	go build -o damage-inspector ./cmd/damage-inspector
//
//	# Run
//	./damage-inspector
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/assess"
	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/config"
	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/inference"
	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/observability"
	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/reference"
	"github.com/sehrish64-crew/TrueAutoCheck-sub000/services/inspector/routes"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		otelEndpoint = "otel-collector:4317"
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("damage-inspector")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	observability.InitMetrics()

	tables, err := reference.Load()
	if err != nil {
		log.Fatalf("FATAL: Could not load the reference tables: %v", err)
	}
	pipeline := assess.New(tables)

	if cfg.DetectionAPIKey == "" {
		slog.Warn("DETECTION_API_KEY is not set; every request will use the synthesized fallback")
	}

	detector := inference.NewClient(inference.Config{
		BaseURL:             cfg.DetectionAPIURL,
		ModelID:             cfg.DetectionModelID,
		APIKey:              cfg.DetectionAPIKey,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		Timeout:             cfg.DetectionTimeout,
		MaxInFlight:         cfg.MaxInFlight,
	}, nil)

	router := gin.Default()
	router.Use(otelgin.Middleware("damage-inspector"))
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	routes.SetupRoutes(router, detector, pipeline, cfg.MaxUploadBytes)

	slog.Info("Starting the damage inspector server",
		"port", cfg.Port,
		"provider", cfg.DetectionAPIURL,
		"model", cfg.DetectionModelID,
		"zones", len(tables.Zones))
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
