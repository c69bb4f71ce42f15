package service

import "errors"

// Manager-level failure kinds. Together with storage.ErrNotFound these form
// the full error taxonomy the API boundary maps to status codes; anything
// else is treated as a backend failure.
var (
	// ErrDuplicateID is returned when adding a product whose productId is
	// already taken.
	ErrDuplicateID = errors.New("product with the same productId already exists")

	// ErrInvalidProduct is returned when a product payload is missing a
	// required field. Zero price and zero stock count as missing, matching
	// the validation existing clients rely on.
	ErrInvalidProduct = errors.New("invalid product payload")

	// ErrDanglingReference is returned when cancelling an order whose
	// referenced product has been deleted. The order is left untouched.
	ErrDanglingReference = errors.New("referenced product no longer exists")
)
