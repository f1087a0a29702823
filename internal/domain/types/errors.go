package types

import "errors"

var (
	ErrVehicleIDRequired = errors.New("vehicle id is required")
	ErrPositionUnknown   = errors.New("position is not resolved yet")
	ErrNotBroadcasting   = errors.New("broadcasting is not active")
	ErrInvalidScore      = errors.New("score must be between 1 and 5")
	ErrDriverRequired    = errors.New("driver genesis is required")

	ErrListingNotFound = errors.New("listing not found on the ledger")
	ErrRecordNotFound  = errors.New("requested record not found")
	ErrForeignRecord   = errors.New("record does not carry the expected discriminator")
	ErrPayloadTooLarge = errors.New("rating collection exceeds the payload ceiling")

	ErrSettingsNotFound = errors.New("driver settings not found")
)
