// README: Order store backed by PostgreSQL.
package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nocodeci/yatou-sub002/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, o *Order) error {
	breakdown, err := json.Marshal(o.Breakdown)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
        INSERT INTO orders (
            id, client_id, driver_id, status, status_version,
            pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
            vehicle, service, distance_km,
            fare, currency, breakdown, estimated_minutes, created_at
        ) VALUES (
            $1, $2, $3, $4, $5,
            $6, $7, $8, $9,
            $10, $11, $12,
            $13, $14, $15, $16, $17
        )`,
		string(o.ID),
		string(o.ClientID),
		toStringPtr(o.DriverID),
		string(o.Status),
		o.StatusVersion,
		o.Pickup.Lat, o.Pickup.Lng,
		o.Dropoff.Lat, o.Dropoff.Lng,
		string(o.Vehicle), string(o.Service), o.DistanceKm,
		o.Fare.Amount, o.Fare.Currency,
		breakdown,
		o.EstimatedMinutes,
		o.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, client_id, driver_id, status, status_version,
               pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
               vehicle, service, distance_km,
               fare, currency, breakdown, estimated_minutes,
               created_at, assigned_at, picked_up_at, delivered_at, cancelled_at, cancellation_reason
        FROM orders
        WHERE id = $1`, string(id),
	)

	var o Order
	var driverID sql.NullString
	var breakdown []byte
	var assignedAt, pickedUpAt, deliveredAt, cancelledAt sql.NullTime
	var cancelReason sql.NullString

	err := row.Scan(
		&o.ID, &o.ClientID, &driverID, &o.Status, &o.StatusVersion,
		&o.Pickup.Lat, &o.Pickup.Lng, &o.Dropoff.Lat, &o.Dropoff.Lng,
		&o.Vehicle, &o.Service, &o.DistanceKm,
		&o.Fare.Amount, &o.Fare.Currency, &breakdown, &o.EstimatedMinutes,
		&o.CreatedAt, &assignedAt, &pickedUpAt, &deliveredAt, &cancelledAt, &cancelReason,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if driverID.Valid {
		d := types.ID(driverID.String)
		o.DriverID = &d
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &o.Breakdown); err != nil {
			return nil, err
		}
	}
	o.AssignedAt = toTimePtr(assignedAt)
	o.PickedUpAt = toTimePtr(pickedUpAt)
	o.DeliveredAt = toTimePtr(deliveredAt)
	o.CancelledAt = toTimePtr(cancelledAt)
	if cancelReason.Valid {
		o.CancelReason = &cancelReason.String
	}
	if o.Fare.Currency == "" {
		o.Fare.Currency = types.DefaultCurrency
	}
	return &o, nil
}

// UpdateStatus applies an optimistic transition: it only succeeds when the
// row still carries the expected status and version. Moving back to
// 'created' clears the driver so the order can be re-dispatched.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, driverID *types.ID, cancelReason *string) (bool, error) {
	tag, err := s.db.Exec(ctx, `
        UPDATE orders
        SET status = $1,
            status_version = status_version + 1,
            driver_id = CASE WHEN $1 = 'created' THEN NULL ELSE COALESCE($2, driver_id) END,
            cancellation_reason = COALESCE($3, cancellation_reason),
            assigned_at = CASE WHEN $1 = 'assigned' THEN NOW() ELSE assigned_at END,
            picked_up_at = CASE WHEN $1 = 'picked_up' THEN NOW() ELSE picked_up_at END,
            delivered_at = CASE WHEN $1 = 'delivered' THEN NOW() ELSE delivered_at END,
            cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END
        WHERE id = $4 AND status = $5 AND status_version = $6`,
		string(to),
		toStringPtr(driverID),
		cancelReason,
		string(id),
		string(from),
		version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO order_state_events (
            order_id, from_status, to_status, actor_type, actor_id, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.OrderID),
		string(e.FromStatus),
		string(e.ToStatus),
		e.ActorType,
		toStringPtr(e.ActorID),
		e.CreatedAt,
	)
	return err
}

func (s *Store) HasActiveByClient(ctx context.Context, clientID types.ID) (bool, error) {
	row := s.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM orders
            WHERE client_id = $1
              AND status IN ('created','assigned','picked_up')
        )`, string(clientID),
	)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func toStringPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func toTimePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
