package types

// VehicleClass is the broadcast vehicle category
type VehicleClass string

const (
	ClassSedan  VehicleClass = "sedan"
	ClassSUV    VehicleClass = "suv"
	ClassVan    VehicleClass = "van"
	ClassLuxury VehicleClass = "luxury"
)

// DefaultVehicleClass is assumed when a listing omits or mangles the field
const DefaultVehicleClass = ClassSedan

func (c VehicleClass) String() string {
	return string(c)
}

// Valid reports whether the class is one of the known categories
func (c VehicleClass) Valid() bool {
	switch c {
	case ClassSedan, ClassSUV, ClassVan, ClassLuxury:
		return true
	default:
		return false
	}
}

// ListingStatus is a driver's operational status on the board.
// Offline is terminal in the sense that offline listings stay on
// chain but are filtered out of board queries.
type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusOccupied  ListingStatus = "occupied"
	StatusOffline   ListingStatus = "offline"
)

// DefaultListingStatus is assumed when a listing omits the field
const DefaultListingStatus = StatusAvailable

func (s ListingStatus) String() string {
	return string(s)
}

func (s ListingStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusOffline:
		return true
	default:
		return false
	}
}

// OpClass identifies an operation class for pending flags and error slots.
// Start/success/error events of one class are ordered, classes may interleave.
type OpClass string

const (
	OpAsset        OpClass = "asset"
	OpRating       OpClass = "rating"
	OpListingFetch OpClass = "listing_fetch"
	OpRatingFetch  OpClass = "rating_fetch"
)
