// README: Location snapshot for persistence and replay.
package location

import (
	"time"

	"github.com/nocodeci/yatou-sub002/internal/types"
)

type Snapshot struct {
	ID         int64
	DriverID   types.ID
	Vehicle    string
	Position   types.Point
	RecordedAt time.Time
}
