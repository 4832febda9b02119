package order

import "errors"

var (
	// ErrOrderNotFound is returned when an order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrUnauthorized is returned when the actor is not the party allowed
	// to act on the order.
	ErrUnauthorized = errors.New("not authorized to act on this order")

	// ErrInvalidTransition is returned when the action is not permitted
	// for the actor's role and the order's current status.
	ErrInvalidTransition = errors.New("action not permitted for current status")

	// ErrStatusConflict is returned when a concurrent transition changed
	// the order's status between the check and the update.
	ErrStatusConflict = errors.New("order status changed concurrently")

	// ErrOwnListing is returned when a buyer orders their own listing.
	ErrOwnListing = errors.New("cannot order your own listing")

	// ErrBuyerOnly is returned when a non-buyer attempts to create an order.
	ErrBuyerOnly = errors.New("only buyers can create orders")
)
