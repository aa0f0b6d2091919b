package booking

import (
	"context"
	"errors"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// checkAvailability confirms that every date in the stay has enough
// free units in every required room type. The check fans out one read
// per (roomType, date) cell and joins on all of them.
//
// It is read-only and advisory: it reduces contention but reserves
// nothing, so a later commit can still lose a race. The commit's
// conditional write is the actual authority.
func (svc *DefaultBookingService) checkAvailability(ctx context.Context, ops []cellOp) (bool, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxCellFanout)

	var mu sync.Mutex
	available := true

	for _, op := range ops {
		op := op
		g.Go(func() error {
			cell, err := svc.AvailabilityRepo.Get(ctx, op.RoomType, op.Date)
			if err != nil {
				if errors.Is(err, mongo.ErrNoDocuments) {
					mu.Lock()
					available = false
					mu.Unlock()
					return nil
				}
				return err
			}
			if cell.AvailableUnits < op.Count {
				mu.Lock()
				available = false
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return false, err
	}
	return available, nil
}
