package booking

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	availabilityRepo "innkeep/database/repository/availability"
	"innkeep/utils"
)

// releaseReservation reverses a previously committed reservation,
// re-incrementing every (roomType, date) cell of the stay and removing
// the booking's ownership marker by value.
//
// A cell whose guard fails (bookingID no longer in the owner list) was
// already released; that is a no-op success, which makes release
// idempotent. Transient store faults are retried per cell; a cell that
// exhausts its retries is reported in the ReleaseError, but the release
// keeps going for the remaining cells. Callers must not delete the
// durable booking record unless release returns nil.
func (svc *DefaultBookingService) releaseReservation(ctx context.Context, bookingID string, ops []cellOp) error {
	var mu sync.Mutex
	var failed []CellRef

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCellFanout)
	for _, op := range ops {
		op := op
		g.Go(func() error {
			err := withCellRetry(gctx, svc.cellRetries(), func(c context.Context) error {
				return svc.AvailabilityRepo.ConditionalIncrement(c, op.RoomType, op.Date, op.Count, bookingID)
			})
			if err != nil && !errors.Is(err, availabilityRepo.ErrConditionFailed) {
				mu.Lock()
				failed = append(failed, op.ref())
				mu.Unlock()
			}
			return nil
		})
	}
	// Worker funcs always return nil; failures are collected per cell.
	_ = g.Wait()

	if len(failed) > 0 {
		relErr := &ReleaseError{BookingID: bookingID, Failed: failed}
		utils.GetLogger().Error("release incomplete",
			zap.String("bookingId", bookingID),
			zap.Any("cells", failed),
		)
		return relErr
	}
	return nil
}
