package utils

import "github.com/google/uuid"

// GenerateUUID returns a new random (v4) UUID string.
func GenerateUUID() string {
	return uuid.NewString()
}
