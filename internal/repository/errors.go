package repository

import "errors"

// ErrNotFound indicates the requested entity does not exist in live storage.
// Repositories wrap it with the entity name for context.
var ErrNotFound = errors.New("not found")
