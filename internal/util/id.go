package util

import "github.com/google/uuid"

// NewID generates a new unique identifier for requests and artifacts.
func NewID() string { return uuid.NewString() }
