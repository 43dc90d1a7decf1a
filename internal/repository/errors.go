// Package repository implements data access for the queue service over
// database/sql.  Sentinel errors declared here let handlers distinguish
// failure scenarios without inspecting driver errors: not-found conditions
// map to HTTP 404 and duplicate identities to 409.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.  Repos wrap
// sql.ErrNoRows into this so handlers never import database/sql.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert collides with an existing unique
// value, such as creating a user or employee with a Telegram id that is
// already taken.
var ErrDuplicate = errors.New("already exists")
