// README: Concurrency tests for order state transitions (run with -race).
package order

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/nocodeci/yatou-sub002/internal/types"
)

func TestConcurrentAssignVsCancel(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	svc := NewService(store, testQuoter(t))

	orderID := createTestOrder(t, svc, "c_assign_cancel")

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- svc.Assign(ctx, AssignCommand{OrderID: orderID, DriverID: "d1"})
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- svc.Cancel(ctx, CancelCommand{OrderID: orderID, ActorType: "client", Reason: "user_cancel"})
	}()

	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrConflict && err != ErrInvalidState {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success < 1 || success > 2 {
		t.Fatalf("expected 1 or 2 successes, got %d", success)
	}

	o, err := svc.Get(ctx, orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if success == 2 && o.Status != StatusCancelled {
		t.Fatalf("expected cancelled after assign+cancel, got %s", o.Status)
	}
	if success == 1 && o.Status != StatusAssigned && o.Status != StatusCancelled {
		t.Fatalf("unexpected final status: %s", o.Status)
	}
}

func TestConcurrentAssignSameOrder(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	svc := NewService(store, testQuoter(t))

	orderID := createTestOrder(t, svc, "c_multi_assign")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		driverID := types.ID(fmt.Sprintf("d%d", i))
		wg.Add(1)
		go func(did types.ID) {
			defer wg.Done()
			errs <- svc.Assign(ctx, AssignCommand{OrderID: orderID, DriverID: did})
		}(driverID)
	}

	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrConflict && err != ErrInvalidState {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly 1 success, got %d", success)
	}

	o, err := svc.Get(ctx, orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if o.Status != StatusAssigned {
		t.Fatalf("unexpected final status: %s", o.Status)
	}
	if o.DriverID == nil || *o.DriverID == "" {
		t.Fatalf("expected driver_id to be set")
	}
}
