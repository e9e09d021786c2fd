// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the inspector service.
//
// The detect endpoint serves the public storefront without authentication,
// so the only middleware here is request-ID assignment for log correlation.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDKey is the context key for storing the request ID.
// Using a service-prefixed key prevents collisions with other context values.
const requestIDKey = "inspector_request_id"

// RequestIDHeader is the response header carrying the assigned request ID.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns a UUID to every request, stores it in the Gin context,
// and echoes it in the X-Request-ID response header. An inbound
// X-Request-ID is honored so upstream proxies can correlate.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID retrieves the request ID assigned by RequestID.
// Returns the empty string when the middleware did not run.
func GetRequestID(c *gin.Context) string {
	id, ok := c.Get(requestIDKey)
	if !ok {
		return ""
	}
	s, ok := id.(string)
	if !ok {
		return ""
	}
	return s
}
