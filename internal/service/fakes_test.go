package service

import (
	"fmt"
	"sync"
	"time"

	"optivolt/internal/db"
	"optivolt/internal/entities"
	apperrors "optivolt/internal/errors"
)

// fakeBookingRepo mirrors the storage contract in memory, including the
// partial unique slot index and the compare-and-set transition semantics.
type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int
	bookings map[int]*db.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{nextID: 1, bookings: make(map[int]*db.Booking)}
}

func isLive(status string) bool {
	return status != db.StatusRejected && status != db.StatusCancelledByClient
}

func (r *fakeBookingRepo) Create(b *db.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.bookings {
		if other.ProviderID == b.ProviderID && other.Date == b.Date &&
			other.Hour == b.Hour && isLive(other.Status) {
			return fmt.Errorf("slot %s %s on provider %d is taken: %w",
				b.Date, b.Hour, b.ProviderID, apperrors.ErrConflict)
		}
	}
	b.ID = r.nextID
	r.nextID++
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) GetByID(id int) (*db.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %d: %w", id, apperrors.ErrNotFound)
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) OccupiedSlots(providerID int, date string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var hours []string
	for _, b := range r.bookings {
		if b.ProviderID == providerID && b.Date == date && isLive(b.Status) {
			hours = append(hours, b.Hour)
		}
	}
	return hours, nil
}

func (r *fakeBookingRepo) transition(id int, allowed []string, apply func(*db.Booking)) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	for _, s := range allowed {
		if b.Status == s {
			apply(b)
			b.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) MarkPaid(id int) (bool, error) {
	return r.transition(id, []string{db.StatusRequested}, func(b *db.Booking) {
		b.Status = db.StatusPaid
	})
}

func (r *fakeBookingRepo) Confirm(id int, supervisorContact string, scheduledStart time.Time) (bool, error) {
	return r.transition(id, []string{db.StatusRequested, db.StatusPaid}, func(b *db.Booking) {
		b.Status = db.StatusConfirmed
		b.SupervisorContact = supervisorContact
		b.ScheduledStart = &scheduledStart
	})
}

func (r *fakeBookingRepo) Reject(id int) (bool, error) {
	return r.transition(id, []string{db.StatusRequested, db.StatusPaid}, func(b *db.Booking) {
		b.Status = db.StatusRejected
	})
}

func (r *fakeBookingRepo) CancelByClient(id, clientID int) (bool, error) {
	r.mu.Lock()
	b, ok := r.bookings[id]
	if ok && b.ClientID != clientID {
		r.mu.Unlock()
		return false, nil
	}
	r.mu.Unlock()
	return r.transition(id, []string{db.StatusRequested, db.StatusPaid}, func(b *db.Booking) {
		b.Status = db.StatusCancelledByClient
	})
}

func (r *fakeBookingRepo) Complete(id int, before, after, summary string) (bool, error) {
	return r.transition(id, []string{db.StatusConfirmed}, func(b *db.Booking) {
		b.Status = db.StatusCompleted
		b.ReportBefore = before
		b.ReportAfter = after
		b.ReportSummary = summary
	})
}

func (r *fakeBookingRepo) ListByClient(clientID int) ([]entities.BookingSummary, error) {
	return nil, nil
}

func (r *fakeBookingRepo) ListByProvider(providerID int) ([]entities.BookingSummary, error) {
	return nil, nil
}

func (r *fakeBookingRepo) ListAll() ([]entities.BookingSummary, error) {
	return nil, nil
}

func (r *fakeBookingRepo) Stats() (*entities.BookingStats, error) {
	return &entities.BookingStats{}, nil
}

// put seeds a booking directly, bypassing the slot check.
func (r *fakeBookingRepo) put(b *db.Booking) *db.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == 0 {
		b.ID = r.nextID
		r.nextID++
	} else if b.ID >= r.nextID {
		r.nextID = b.ID + 1
	}
	clone := *b
	r.bookings[b.ID] = &clone
	return b
}

func (r *fakeBookingRepo) status(id int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id].Status
}

type fakeProviderRepo struct {
	providers map[int]*db.Provider
	catalog   map[int]*db.CatalogItem
}

func newFakeProviderRepo() *fakeProviderRepo {
	return &fakeProviderRepo{
		providers: make(map[int]*db.Provider),
		catalog:   make(map[int]*db.CatalogItem),
	}
}

func (r *fakeProviderRepo) Create(p *db.Provider) error {
	id := 1
	for existing := range r.providers {
		if existing >= id {
			id = existing + 1
		}
	}
	p.ID = id
	r.providers[p.ID] = p
	return nil
}

func (r *fakeProviderRepo) GetByID(id int) (*db.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("provider %d: %w", id, apperrors.ErrNotFound)
	}
	return p, nil
}

func (r *fakeProviderRepo) GetByUserID(userID int) (*db.Provider, error) {
	for _, p := range r.providers {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("provider for user %d: %w", userID, apperrors.ErrNotFound)
}

func (r *fakeProviderRepo) GetSchedule(providerID int) (*db.ProviderSchedule, error) {
	p, err := r.GetByID(providerID)
	if err != nil {
		return nil, err
	}
	return &db.ProviderSchedule{
		StartHour:   p.StartHour,
		EndHour:     p.EndHour,
		WorkingDays: p.WorkingDays,
	}, nil
}

func (r *fakeProviderRepo) UpdateSchedule(providerID int, startHour, endHour, workingDays string) (bool, error) {
	p, ok := r.providers[providerID]
	if !ok {
		return false, nil
	}
	p.StartHour, p.EndHour, p.WorkingDays = startHour, endHour, workingDays
	return true, nil
}

func (r *fakeProviderRepo) UpdateProfile(providerID int, name, description, city, contactPhone, contactEmail string) (bool, error) {
	p, ok := r.providers[providerID]
	if !ok {
		return false, nil
	}
	p.Name, p.Description, p.City = name, description, city
	p.ContactPhone, p.ContactEmail = contactPhone, contactEmail
	return true, nil
}

func (r *fakeProviderRepo) SetVerified(providerID int, verified bool) (bool, error) {
	p, ok := r.providers[providerID]
	if !ok {
		return false, nil
	}
	p.IsVerified = verified
	return true, nil
}

func (r *fakeProviderRepo) ListVerifiedByService(serviceTypeID int, city string) ([]db.Provider, error) {
	return nil, nil
}

func (r *fakeProviderRepo) GetServiceTypes() ([]db.ServiceType, error) {
	return nil, nil
}

func (r *fakeProviderRepo) GetCatalog(providerID int) ([]entities.CatalogOffer, error) {
	return nil, nil
}

func (r *fakeProviderRepo) GetCatalogItem(catalogID int) (*db.CatalogItem, error) {
	item, ok := r.catalog[catalogID]
	if !ok {
		return nil, fmt.Errorf("catalog item %d: %w", catalogID, apperrors.ErrNotFound)
	}
	return item, nil
}

func (r *fakeProviderRepo) AddCatalogItem(item *db.CatalogItem) error {
	if item.ID == 0 {
		item.ID = 1
		for existing := range r.catalog {
			if existing >= item.ID {
				item.ID = existing + 1
			}
		}
	}
	r.catalog[item.ID] = item
	return nil
}

func (r *fakeProviderRepo) RemoveCatalogItem(catalogID, providerID int) (bool, error) {
	item, ok := r.catalog[catalogID]
	if !ok || item.ProviderID != providerID {
		return false, nil
	}
	delete(r.catalog, catalogID)
	return true, nil
}

type fakeUserRepo struct {
	nextID int
	users  map[int]*db.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]*db.User)}
}

func (r *fakeUserRepo) Create(u *db.User, password string) error {
	for _, other := range r.users {
		if other.Email == u.Email {
			return fmt.Errorf("email %s already registered: %w", u.Email, apperrors.ErrConflict)
		}
	}
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(id int) (*db.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*db.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) SetBanned(id int, banned bool) (bool, error) {
	u, ok := r.users[id]
	if !ok {
		return false, nil
	}
	u.IsBanned = banned
	return true, nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	nextID  int
	reviews map[int]*db.Review // keyed by booking ID
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{nextID: 1, reviews: make(map[int]*db.Review)}
}

func (r *fakeReviewRepo) Exists(bookingID int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.reviews[bookingID]
	return ok, nil
}

func (r *fakeReviewRepo) Insert(rev *db.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[rev.BookingID]; ok {
		return fmt.Errorf("booking %d: %w", rev.BookingID, apperrors.ErrAlreadyReviewed)
	}
	rev.ID = r.nextID
	r.nextID++
	rev.CreatedAt = time.Now()
	r.reviews[rev.BookingID] = rev
	return nil
}
