package persistence

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"

	"bargain/internal/domain"
	"bargain/internal/domain/entity"
	"bargain/pkg/errcodes"
)

// MemoryBookingStore keeps bookings in process. It is used when no database
// is configured.
type MemoryBookingStore struct {
	mu        sync.RWMutex
	byID      map[string]entity.Booking
	bySession map[string]string
}

func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{
		byID:      make(map[string]entity.Booking),
		bySession: make(map[string]string),
	}
}

func (m *MemoryBookingStore) CommitBooking(_ context.Context, booking entity.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bySession[booking.SessionID]; ok {
		return domain.NewError(errcodes.InvalidPhase, "session already booked")
	}

	m.byID[booking.ID] = booking
	m.bySession[booking.SessionID] = booking.ID

	return nil
}

func (m *MemoryBookingStore) GetByID(_ context.Context, id string) (entity.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	booking, ok := m.byID[id]
	if !ok {
		return entity.Booking{}, domain.NewError(errcodes.NotFound, "booking not found")
	}

	return booking, nil
}

// List returns bookings newest first.
func (m *MemoryBookingStore) List(_ context.Context, limit, offset int) ([]entity.Booking, error) {
	m.mu.RLock()
	bookings := lo.Values(m.byID)
	m.mu.RUnlock()

	slices.SortFunc(bookings, func(a, b entity.Booking) int {
		if c := b.CommittedAt.Compare(a.CommittedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	return lo.Subset(bookings, offset, uint(max(limit, 0))), nil //nolint:gosec
}
