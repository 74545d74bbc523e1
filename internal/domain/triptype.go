package domain

// TripType identifies a fare category. A type with FixedPrice > 0 is billed a
// flat amount regardless of distance; otherwise the distance tiers apply.
// The calculator treats trip types as data, so new types can be added here
// without touching the fare algorithm.
type TripType struct {
	ID          string
	Name        string
	Description string
	FixedPrice  float64
}

// IsFixed reports whether this trip type is billed at a flat price.
func (t TripType) IsFixed() bool {
	return t.FixedPrice > 0
}

const (
	TripTypeNormal   = "normal"
	TripTypeAirport  = "airport"
	TripTypeOutbound = "outbound"
)

// BuiltinTripTypes returns the trip types known in v1.
func BuiltinTripTypes() []TripType {
	return []TripType{
		{
			ID:          TripTypeNormal,
			Name:        "Normal",
			Description: "Metered city trip billed by distance tiers",
		},
		{
			ID:          TripTypeAirport,
			Name:        "Airport",
			Description: "Flat-rate trip to or from the airport",
			FixedPrice:  150,
		},
		{
			ID:          TripTypeOutbound,
			Name:        "Outbound",
			Description: "Flat-rate trip beyond city limits",
			FixedPrice:  250,
		},
	}
}

// TripTypeByID looks up a builtin trip type.
func TripTypeByID(id string) (TripType, bool) {
	for _, t := range BuiltinTripTypes() {
		if t.ID == id {
			return t, true
		}
	}
	return TripType{}, false
}
