// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting error strings. Not-found cases are reported via
// sql.ErrNoRows straight from the driver.
package repository

import "errors"

// ErrEmailExists is returned when registering a user whose email is
// already taken. Handlers should translate this into an HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a category that still
// has products. Handlers should translate this into an HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInsufficientStock is returned from checkout when a product's
// stock cannot cover the requested quantity. The conditional decrement
// guards against concurrent checkouts oversubscribing stock.
var ErrInsufficientStock = errors.New("insufficient stock")
