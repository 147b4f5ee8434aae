// README: Dispatch candidate pool types.
package dispatch

import (
	"time"

	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
	"github.com/nocodeci/yatou-sub002/internal/types"
)

// Candidate is a driver available for dispatch, pooled per vehicle class.
type Candidate struct {
	ID       types.ID
	Vehicle  tariff.VehicleClass
	Position types.Point
	JoinedAt time.Time
}

// Nearby is a candidate returned from a proximity search, with the
// great-circle distance from the query point.
type Nearby struct {
	ID         types.ID
	Position   types.Point
	DistanceKm float64
}
