package auction

import "errors"

var (
	// ErrAuctionNotFound is returned when an auction does not exist.
	ErrAuctionNotFound = errors.New("auction not found")

	// ErrNotOwner is returned when a user modifies an auction they don't own.
	ErrNotOwner = errors.New("not the auction owner")

	// ErrSellerOnly is returned when a buyer attempts a seller operation.
	ErrSellerOnly = errors.New("only sellers can create auctions")

	// ErrAlreadyStarted is returned when editing an auction after bidding
	// has opened.
	ErrAlreadyStarted = errors.New("auction has already started")

	// ErrNotActive is returned when bidding on an auction outside its window.
	ErrNotActive = errors.New("auction is not accepting bids")

	// ErrBidTooLow is returned when a bid does not beat the current highest.
	ErrBidTooLow = errors.New("bid must exceed the current highest bid")

	// ErrOwnAuction is returned when a seller bids on their own auction.
	ErrOwnAuction = errors.New("cannot bid on your own auction")

	// ErrInvalidSchedule is returned when the start and end dates are
	// inconsistent.
	ErrInvalidSchedule = errors.New("end date must be after start date")

	// ErrStorageUnavailable is returned when an attachment is uploaded but
	// no object storage is configured.
	ErrStorageUnavailable = errors.New("attachment storage unavailable")
)
