package domain

// CourierVehicleType represents the vehicle type of a courier.
type CourierVehicleType string

// List of possible courier vehicle types
const (
	VehicleTypeBike    CourierVehicleType = "bike"
	VehicleTypeScooter CourierVehicleType = "scooter"
	VehicleTypeCar     CourierVehicleType = "car"
)

var allowedVehicleTypes = [...]CourierVehicleType{
	VehicleTypeBike, VehicleTypeScooter, VehicleTypeCar,
}

// Valid checks if the CourierVehicleType is valid
func (t CourierVehicleType) Valid() bool {
	for _, v := range allowedVehicleTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Courier represents a delivery courier as seen by the dispatch core.
// The courier registry owns the record; this core reads attributes and
// toggles availability.
type Courier struct {
	ID              int64
	Name            string
	Phone           string
	Available       bool
	Active          bool
	RatingAvg       float64
	TotalDeliveries int64
	VehicleType     CourierVehicleType
}
