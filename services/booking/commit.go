package booking

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	availabilityRepo "innkeep/database/repository/availability"
	"innkeep/models"
	"innkeep/utils"
)

// maxCellFanout bounds the concurrent store calls a single request
// issues while fanning out over its (roomType, date) cells.
const maxCellFanout = 8

// cellOp is one conditional store operation against a single cell.
type cellOp struct {
	RoomType models.RoomType
	Date     string
	Count    int
}

func (op cellOp) ref() CellRef {
	return CellRef{RoomType: op.RoomType, Date: op.Date}
}

// withCellRetry runs fn up to attempts times, backing off between
// tries. Condition failures are the store's answer, not a fault, and
// are returned immediately; only transient errors are retried.
func withCellRetry(ctx context.Context, attempts int, fn func(context.Context) error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn(ctx)
		if err == nil || errors.Is(err, availabilityRepo.ErrConditionFailed) {
			return err
		}
		if attempt < attempts {
			select {
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}

// commitReservation applies the requirement's decrements across every
// (roomType, date) cell of the stay. All decrements are issued
// concurrently and joined; order among cells is not significant.
//
// There is no multi-item transaction underneath, so all-or-nothing is
// achieved by compensation: if any conditional decrement loses its
// race, every cell that did succeed in this attempt is re-incremented
// before OverbookedError surfaces. A failed compensation is inventory
// drift and comes back as InconsistentStateError.
func (svc *DefaultBookingService) commitReservation(ctx context.Context, bookingID string, ops []cellOp) error {
	results := make([]error, len(ops))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCellFanout)
	for i, op := range ops {
		i, op := i, op
		g.Go(func() error {
			results[i] = withCellRetry(gctx, svc.cellRetries(), func(c context.Context) error {
				return svc.AvailabilityRepo.ConditionalDecrement(c, op.RoomType, op.Date, op.Count, bookingID)
			})
			return nil
		})
	}
	// Worker funcs always return nil; results carries the outcomes.
	_ = g.Wait()

	var committed []cellOp
	failedIdx := -1
	for i, err := range results {
		if err == nil {
			committed = append(committed, ops[i])
		} else if failedIdx == -1 {
			failedIdx = i
		}
	}
	if failedIdx == -1 {
		return nil
	}

	// Compensate: undo every decrement this attempt applied.
	var drifted []CellRef
	var compCause error
	for _, op := range committed {
		err := withCellRetry(ctx, svc.cellRetries(), func(c context.Context) error {
			return svc.AvailabilityRepo.ConditionalIncrement(c, op.RoomType, op.Date, op.Count, bookingID)
		})
		if err != nil && !errors.Is(err, availabilityRepo.ErrConditionFailed) {
			drifted = append(drifted, op.ref())
			compCause = err
		}
	}
	if len(drifted) > 0 {
		inconsistency := &InconsistentStateError{BookingID: bookingID, Cells: drifted, Cause: compCause}
		utils.GetLogger().Error("commit compensation failed, inventory drift",
			zap.String("bookingId", bookingID),
			zap.Any("cells", drifted),
			zap.Error(compCause),
		)
		return inconsistency
	}

	// Name the first failing cell in date order for the caller.
	failures := make([]int, 0, len(ops))
	for i, err := range results {
		if err != nil && errors.Is(err, availabilityRepo.ErrConditionFailed) {
			failures = append(failures, i)
		}
	}
	if len(failures) > 0 {
		sort.Slice(failures, func(a, b int) bool { return ops[failures[a]].Date < ops[failures[b]].Date })
		return &OverbookedError{Cell: ops[failures[0]].ref()}
	}
	return results[failedIdx]
}
