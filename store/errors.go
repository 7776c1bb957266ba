// Package store provides in-process persistence for completed checks and for
// media artifacts captured during a run (website screenshots). Both stores are
// volatile; they exist so the HTTP layer can serve follow-up reads without a
// database dependency.
package store

import "errors"

// ErrNotFound indicates the requested record or artifact does not exist.
var ErrNotFound = errors.New("store: not found")
