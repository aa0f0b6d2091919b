package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	availabilityRepo "innkeep/database/repository/availability"
	"innkeep/models"
)

// fakeAvailabilityRepo implements the conditional-update contract of
// the availability store in memory: every mutation is guarded exactly
// as the real store guards it, under one lock.
type fakeAvailabilityRepo struct {
	mu            sync.Mutex
	cells         map[string]*models.InventoryCell
	decrementFail map[string]error
	transientInc  map[string]int
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{
		cells:         make(map[string]*models.InventoryCell),
		decrementFail: make(map[string]error),
		transientInc:  make(map[string]int),
	}
}

func cellKey(roomType models.RoomType, date string) string {
	return fmt.Sprintf("%s/%s", roomType, date)
}

func (f *fakeAvailabilityRepo) provision(roomType models.RoomType, date string, units int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cells[cellKey(roomType, date)] = &models.InventoryCell{
		RoomType:       roomType,
		Date:           date,
		AvailableUnits: units,
		BookingIDs:     []string{},
	}
}

func (f *fakeAvailabilityRepo) cell(roomType models.RoomType, date string) models.InventoryCell {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.cells[cellKey(roomType, date)]
	out := *c
	out.BookingIDs = append([]string{}, c.BookingIDs...)
	return out
}

func (f *fakeAvailabilityRepo) Get(ctx context.Context, roomType models.RoomType, date string) (*models.InventoryCell, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.cells[cellKey(roomType, date)]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	out := *c
	out.BookingIDs = append([]string{}, c.BookingIDs...)
	return &out, nil
}

func (f *fakeAvailabilityRepo) GetRange(ctx context.Context, roomType models.RoomType, startDate, endDate string) ([]models.InventoryCell, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var cells []models.InventoryCell
	for _, c := range f.cells {
		if c.RoomType == roomType && c.Date >= startDate && c.Date <= endDate {
			out := *c
			out.BookingIDs = append([]string{}, c.BookingIDs...)
			cells = append(cells, out)
		}
	}
	return cells, nil
}

func (f *fakeAvailabilityRepo) ConditionalDecrement(ctx context.Context, roomType models.RoomType, date string, count int, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := cellKey(roomType, date)
	if err, ok := f.decrementFail[key]; ok {
		return err
	}
	c, ok := f.cells[key]
	if !ok || c.AvailableUnits < count {
		return availabilityRepo.ErrConditionFailed
	}
	c.AvailableUnits -= count
	c.BookingIDs = append(c.BookingIDs, bookingID)
	return nil
}

func (f *fakeAvailabilityRepo) ConditionalIncrement(ctx context.Context, roomType models.RoomType, date string, count int, bookingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := cellKey(roomType, date)
	if f.transientInc[key] > 0 {
		f.transientInc[key]--
		return errors.New("store timeout")
	}
	c, ok := f.cells[key]
	if !ok {
		return availabilityRepo.ErrConditionFailed
	}
	idx := -1
	for i, id := range c.BookingIDs {
		if id == bookingID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return availabilityRepo.ErrConditionFailed
	}
	c.AvailableUnits += count
	c.BookingIDs = append(c.BookingIDs[:idx], c.BookingIDs[idx+1:]...)
	return nil
}

func (f *fakeAvailabilityRepo) EnsureCell(ctx context.Context, cell models.InventoryCell) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := cellKey(cell.RoomType, cell.Date)
	if _, ok := f.cells[key]; !ok {
		f.cells[key] = &models.InventoryCell{
			RoomType:       cell.RoomType,
			Date:           cell.Date,
			AvailableUnits: cell.AvailableUnits,
			BookingIDs:     []string{},
		}
	}
	return nil
}

func (f *fakeAvailabilityRepo) EnsureIndexes() error { return nil }

func newEngine(repo *fakeAvailabilityRepo) *DefaultBookingService {
	return &DefaultBookingService{AvailabilityRepo: repo}
}

func TestCommitReleaseRoundTrip(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	repo.provision(models.RoomTypeDouble, "2024-11-01", 8)
	repo.provision(models.RoomTypeDouble, "2024-11-02", 8)
	repo.provision(models.RoomTypeSingle, "2024-11-01", 10)
	repo.provision(models.RoomTypeSingle, "2024-11-02", 10)
	svc := newEngine(repo)

	req := models.RoomRequirement{models.RoomTypeDouble: 2, models.RoomTypeSingle: 1}
	ops := expandCells(req, []string{"2024-11-01", "2024-11-02"})

	require.NoError(t, svc.commitReservation(context.Background(), "bk-1", ops))
	assert.Equal(t, 6, repo.cell(models.RoomTypeDouble, "2024-11-01").AvailableUnits)
	assert.Equal(t, 9, repo.cell(models.RoomTypeSingle, "2024-11-02").AvailableUnits)
	assert.Contains(t, repo.cell(models.RoomTypeDouble, "2024-11-01").BookingIDs, "bk-1")

	require.NoError(t, svc.releaseReservation(context.Background(), "bk-1", ops))
	for _, op := range ops {
		cell := repo.cell(op.RoomType, op.Date)
		assert.NotContains(t, cell.BookingIDs, "bk-1")
	}
	assert.Equal(t, 8, repo.cell(models.RoomTypeDouble, "2024-11-01").AvailableUnits)
	assert.Equal(t, 8, repo.cell(models.RoomTypeDouble, "2024-11-02").AvailableUnits)
	assert.Equal(t, 10, repo.cell(models.RoomTypeSingle, "2024-11-01").AvailableUnits)
	assert.Equal(t, 10, repo.cell(models.RoomTypeSingle, "2024-11-02").AvailableUnits)
}

func TestReleaseIdempotence(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	repo.provision(models.RoomTypeSuite, "2024-11-01", 2)
	svc := newEngine(repo)

	ops := expandCells(models.RoomRequirement{models.RoomTypeSuite: 1}, []string{"2024-11-01"})
	require.NoError(t, svc.commitReservation(context.Background(), "bk-1", ops))
	require.Equal(t, 1, repo.cell(models.RoomTypeSuite, "2024-11-01").AvailableUnits)

	require.NoError(t, svc.releaseReservation(context.Background(), "bk-1", ops))
	assert.Equal(t, 2, repo.cell(models.RoomTypeSuite, "2024-11-01").AvailableUnits)

	// Releasing again must not double-increment.
	require.NoError(t, svc.releaseReservation(context.Background(), "bk-1", ops))
	assert.Equal(t, 2, repo.cell(models.RoomTypeSuite, "2024-11-01").AvailableUnits)
}

func TestCommitCompensationOnPartialFailure(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	repo.provision(models.RoomTypeDouble, "2024-11-01", 5)
	repo.provision(models.RoomTypeDouble, "2024-11-02", 0)
	repo.provision(models.RoomTypeDouble, "2024-11-03", 5)
	svc := newEngine(repo)

	ops := expandCells(models.RoomRequirement{models.RoomTypeDouble: 1},
		[]string{"2024-11-01", "2024-11-02", "2024-11-03"})

	err := svc.commitReservation(context.Background(), "bk-1", ops)
	var overbooked *OverbookedError
	require.ErrorAs(t, err, &overbooked)
	assert.Equal(t, "2024-11-02", overbooked.Cell.Date)
	assert.Equal(t, models.RoomTypeDouble, overbooked.Cell.RoomType)

	// No leaked decrement on the dates that initially succeeded.
	assert.Equal(t, 5, repo.cell(models.RoomTypeDouble, "2024-11-01").AvailableUnits)
	assert.Equal(t, 5, repo.cell(models.RoomTypeDouble, "2024-11-03").AvailableUnits)
	assert.Empty(t, repo.cell(models.RoomTypeDouble, "2024-11-01").BookingIDs)
	assert.Empty(t, repo.cell(models.RoomTypeDouble, "2024-11-03").BookingIDs)
}

func TestConcurrentCommitsNeverOverbook(t *testing.T) {
	const capacity = 3
	const contenders = 10

	repo := newFakeAvailabilityRepo()
	repo.provision(models.RoomTypeSuite, "2024-11-01", capacity)
	svc := newEngine(repo)

	ops := expandCells(models.RoomRequirement{models.RoomTypeSuite: 1}, []string{"2024-11-01"})

	var wg sync.WaitGroup
	results := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.commitReservation(context.Background(), fmt.Sprintf("bk-%d", i), ops)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			var overbooked *OverbookedError
			assert.ErrorAs(t, err, &overbooked)
		}
	}
	assert.Equal(t, capacity, succeeded)

	cell := repo.cell(models.RoomTypeSuite, "2024-11-01")
	assert.Equal(t, 0, cell.AvailableUnits)
	assert.Len(t, cell.BookingIDs, capacity)
}

func TestReleaseRetriesTransientFaults(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	repo.provision(models.RoomTypeSingle, "2024-11-01", 10)
	svc := newEngine(repo)

	ops := expandCells(models.RoomRequirement{models.RoomTypeSingle: 1}, []string{"2024-11-01"})
	require.NoError(t, svc.commitReservation(context.Background(), "bk-1", ops))

	// Two transient faults, then success: within the retry budget.
	repo.transientInc[cellKey(models.RoomTypeSingle, "2024-11-01")] = 2
	require.NoError(t, svc.releaseReservation(context.Background(), "bk-1", ops))
	assert.Equal(t, 10, repo.cell(models.RoomTypeSingle, "2024-11-01").AvailableUnits)
}

func TestReleaseReportsExhaustedCells(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	repo.provision(models.RoomTypeSingle, "2024-11-01", 10)
	repo.provision(models.RoomTypeSingle, "2024-11-02", 10)
	svc := newEngine(repo)

	ops := expandCells(models.RoomRequirement{models.RoomTypeSingle: 1},
		[]string{"2024-11-01", "2024-11-02"})
	require.NoError(t, svc.commitReservation(context.Background(), "bk-1", ops))

	// More faults than the retry budget on one cell only.
	repo.transientInc[cellKey(models.RoomTypeSingle, "2024-11-02")] = 10
	err := svc.releaseReservation(context.Background(), "bk-1", ops)

	var relErr *ReleaseError
	require.ErrorAs(t, err, &relErr)
	require.Len(t, relErr.Failed, 1)
	assert.Equal(t, "2024-11-02", relErr.Failed[0].Date)

	// The healthy cell was still released: best effort, not atomic.
	assert.Equal(t, 10, repo.cell(models.RoomTypeSingle, "2024-11-01").AvailableUnits)
}

func TestCheckAvailabilityMissingCell(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	repo.provision(models.RoomTypeDouble, "2024-11-01", 8)
	svc := newEngine(repo)

	ops := expandCells(models.RoomRequirement{models.RoomTypeDouble: 1},
		[]string{"2024-11-01", "2024-11-02"})
	available, err := svc.checkAvailability(context.Background(), ops)
	require.NoError(t, err)
	assert.False(t, available)
}

func TestCommitSurfacesDriftWhenCompensationFails(t *testing.T) {
	repo := newFakeAvailabilityRepo()
	repo.provision(models.RoomTypeDouble, "2024-11-01", 5)
	repo.provision(models.RoomTypeDouble, "2024-11-02", 0)
	// The first cell's decrement lands, then its compensating increment
	// keeps faulting past the retry budget.
	repo.transientInc[cellKey(models.RoomTypeDouble, "2024-11-01")] = 100
	svc := newEngine(repo)

	ops := expandCells(models.RoomRequirement{models.RoomTypeDouble: 1},
		[]string{"2024-11-01", "2024-11-02"})

	err := svc.commitReservation(context.Background(), "bk-1", ops)
	var drift *InconsistentStateError
	require.ErrorAs(t, err, &drift)
	assert.Equal(t, "bk-1", drift.BookingID)
	require.Len(t, drift.Cells, 1)
	assert.Equal(t, "2024-11-01", drift.Cells[0].Date)
	assert.Equal(t, models.RoomTypeDouble, drift.Cells[0].RoomType)
	assert.Error(t, drift.Unwrap())

	// The un-compensated decrement is real drift: the cell still holds
	// the booking's unit even though the commit failed.
	cell := repo.cell(models.RoomTypeDouble, "2024-11-01")
	assert.Equal(t, 4, cell.AvailableUnits)
	assert.Contains(t, cell.BookingIDs, "bk-1")
}
