// README: Delivery order aggregate and status definitions.
package order

import (
	"time"

	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
	"github.com/nocodeci/yatou-sub002/internal/types"
)

type Status string

const (
	StatusNone      Status = "none"
	StatusCreated   Status = "created"
	StatusAssigned  Status = "assigned"
	StatusPickedUp  Status = "picked_up"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Order is a delivery/errand/moving request with its quoted fare frozen at
// creation time. The breakdown is persisted so receipts re-display exactly
// what was quoted, even after tariff reloads.
type Order struct {
	ID            types.ID
	ClientID      types.ID
	DriverID      *types.ID
	Status        Status
	StatusVersion int

	Pickup  types.Point
	Dropoff types.Point

	Vehicle    tariff.VehicleClass
	Service    tariff.ServiceType
	DistanceKm float64

	Fare             types.Money
	Breakdown        []tariff.Line
	EstimatedMinutes int

	CreatedAt    time.Time
	AssignedAt   *time.Time
	PickedUpAt   *time.Time
	DeliveredAt  *time.Time
	CancelledAt  *time.Time
	CancelReason *string
}

type Event struct {
	ID         int64
	OrderID    types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the order state flow as code. An assigned
// order returns to created when the driver withdraws (re-dispatch).
var AllowedTransitions = map[Status][]Status{
	StatusCreated:  {StatusAssigned, StatusCancelled},
	StatusAssigned: {StatusPickedUp, StatusCreated, StatusCancelled},
	StatusPickedUp: {StatusDelivered},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
