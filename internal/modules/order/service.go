// README: Order service: creation with frozen quote, state transitions, persistence.
package order

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/nocodeci/yatou-sub002/internal/modules/tariff"
	"github.com/nocodeci/yatou-sub002/internal/types"
)

// Quoter prices an order before it is persisted. Quote errors abort the
// order: the engine never substitutes a default price.
type Quoter interface {
	Quote(ctx context.Context, req tariff.PricingRequest) (*tariff.PricingResult, error)
}

type Service struct {
	store  *Store
	quoter Quoter
}

func NewService(store *Store, quoter Quoter) *Service {
	return &Service{store: store, quoter: quoter}
}

var (
	ErrInvalidState = errors.New("invalid state transition")
	ErrNotFound     = errors.New("order not found")
	ErrConflict     = errors.New("order state conflict")
	ErrActiveOrder  = errors.New("client has active order")
	ErrBadRequest   = errors.New("bad request")
)

type CreateCommand struct {
	ClientID types.ID
	Pickup   types.Point
	Dropoff  types.Point

	Vehicle    tariff.VehicleClass
	Service    tariff.ServiceType
	DistanceKm float64

	NearestDriverKm float64
	Weather         tariff.Weather
	Extras          tariff.Extras
	Plan            *tariff.PlanRef
}

type AssignCommand struct {
	OrderID  types.ID
	DriverID types.ID
}

type PickupCommand struct {
	OrderID  types.ID
	DriverID types.ID
}

type DeliverCommand struct {
	OrderID types.ID
}

type WithdrawCommand struct {
	OrderID  types.ID
	DriverID types.ID
}

type CancelCommand struct {
	OrderID   types.ID
	ActorType string
	Reason    string
}

// Create quotes the trip and persists the order with the quoted fare and
// full breakdown frozen in.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (types.ID, error) {
	if cmd.ClientID == "" || !cmd.Vehicle.Valid() || !cmd.Service.Valid() {
		return "", ErrBadRequest
	}
	active, err := s.store.HasActiveByClient(ctx, cmd.ClientID)
	if err != nil {
		return "", err
	}
	if active {
		return "", ErrActiveOrder
	}

	now := time.Now()
	result, err := s.quoter.Quote(ctx, tariff.PricingRequest{
		Vehicle:         cmd.Vehicle,
		Service:         cmd.Service,
		DistanceKm:      cmd.DistanceKm,
		OrderedAt:       now,
		NearestDriverKm: cmd.NearestDriverKm,
		Weather:         cmd.Weather,
		Extras:          cmd.Extras,
		Plan:            cmd.Plan,
	})
	if err != nil {
		return "", err
	}

	id := newID()
	o := &Order{
		ID:               id,
		ClientID:         cmd.ClientID,
		Status:           StatusCreated,
		StatusVersion:    0,
		Pickup:           cmd.Pickup,
		Dropoff:          cmd.Dropoff,
		Vehicle:          cmd.Vehicle,
		Service:          cmd.Service,
		DistanceKm:       cmd.DistanceKm,
		Fare:             result.Money(),
		Breakdown:        result.Lines(),
		EstimatedMinutes: result.EstimatedMinutes,
		CreatedAt:        now,
	}
	if err := s.store.Create(ctx, o); err != nil {
		return "", err
	}
	_ = s.store.AppendEvent(ctx, &Event{
		OrderID:    id,
		FromStatus: StatusNone,
		ToStatus:   StatusCreated,
		ActorType:  "client",
		ActorID:    &cmd.ClientID,
		CreatedAt:  now,
	})
	return id, nil
}

// Assign moves a created order to a driver.
func (s *Service) Assign(ctx context.Context, cmd AssignCommand) error {
	return s.transition(ctx, cmd.OrderID, StatusAssigned, "driver", &cmd.DriverID, &cmd.DriverID)
}

// Pickup marks the goods as collected by the assigned driver.
func (s *Service) Pickup(ctx context.Context, cmd PickupCommand) error {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if o.DriverID == nil || *o.DriverID != cmd.DriverID {
		return ErrBadRequest
	}
	return s.transition(ctx, cmd.OrderID, StatusPickedUp, "driver", &cmd.DriverID, nil)
}

// Deliver completes the order.
func (s *Service) Deliver(ctx context.Context, cmd DeliverCommand) error {
	return s.transition(ctx, cmd.OrderID, StatusDelivered, "driver", nil, nil)
}

// Withdraw releases an assigned order back into the created pool.
func (s *Service) Withdraw(ctx context.Context, cmd WithdrawCommand) error {
	return s.transition(ctx, cmd.OrderID, StatusCreated, "driver", &cmd.DriverID, nil)
}

// Cancel aborts a non-terminal order.
func (s *Service) Cancel(ctx context.Context, cmd CancelCommand) error {
	o, err := s.store.Get(ctx, cmd.OrderID)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, StatusCancelled) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, StatusCancelled, o.StatusVersion, nil, &cmd.Reason)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	actorID := o.DriverID
	if cmd.ActorType == "client" {
		actorID = &o.ClientID
	}
	_ = s.store.AppendEvent(ctx, &Event{
		OrderID:    o.ID,
		FromStatus: o.Status,
		ToStatus:   StatusCancelled,
		ActorType:  cmd.ActorType,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	return s.store.Get(ctx, id)
}

// transition performs the shared load/check/optimistic-update/event sequence.
func (s *Service) transition(ctx context.Context, id types.ID, to Status, actorType string, actorID, driverID *types.ID) error {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, to) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, to, o.StatusVersion, driverID, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	_ = s.store.AppendEvent(ctx, &Event{
		OrderID:    o.ID,
		FromStatus: o.Status,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    actorID,
		CreatedAt:  time.Now(),
	})
	return nil
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
