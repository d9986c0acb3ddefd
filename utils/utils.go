// Package utils provides utility functions for the application.
package utils

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

func ToPtr[T any](v T) *T {
	return &v
}

func IsTrue(b *bool) bool {
	return b != nil && *b
}

// Round2 rounds a monetary amount to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseUUID parses a UUID string and wraps the error with the offending value
func ParseUUID(s string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid UUID %q: %w", s, err)
	}
	return parsed, nil
}
