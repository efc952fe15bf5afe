package domain

// OrderStatus represents the status of an order.
type OrderStatus string

// List of possible order statuses
const (
	OrderPending   OrderStatus = "pending"
	OrderAssigned  OrderStatus = "assigned"
	OrderPicked    OrderStatus = "picked"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var allowedOrderStatuses = [...]OrderStatus{
	OrderPending, OrderAssigned, OrderPicked, OrderDelivered, OrderCancelled,
}

// Valid checks if the OrderStatus is valid
func (s OrderStatus) Valid() bool {
	for _, v := range allowedOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Order is the minimal order view this core reads: pickup/drop coordinates
// and the status it transitions through the order store.
type Order struct {
	ID        string
	PickupLat float64
	PickupLng float64
	DropLat   float64
	DropLng   float64
	Status    OrderStatus
}
