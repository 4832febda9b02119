package listing

import "errors"

var (
	// ErrListingNotFound is returned when a listing does not exist.
	ErrListingNotFound = errors.New("listing not found")

	// ErrNotOwner is returned when a user modifies a listing they don't own.
	ErrNotOwner = errors.New("not the listing owner")

	// ErrSellerOnly is returned when a buyer attempts a seller operation.
	ErrSellerOnly = errors.New("only sellers can manage listings")

	// ErrInsufficientQuantity is returned when an order asks for more than
	// the listing has available.
	ErrInsufficientQuantity = errors.New("insufficient available quantity")

	// ErrInvalidAttachment is returned for unsupported attachment uploads.
	ErrInvalidAttachment = errors.New("invalid attachment")

	// ErrStorageUnavailable is returned when an attachment is uploaded but
	// no object storage is configured.
	ErrStorageUnavailable = errors.New("attachment storage unavailable")
)
