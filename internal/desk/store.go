// Package desk owns the booking collection and its lifecycle: quick-book
// locks, check-in, check-out, bulk import, and the timed lock-expiry sweep.
// All booking mutation happens here; other packages read snapshots.
package desk

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/patcharin/innflow/internal/catalog"
	"github.com/patcharin/innflow/internal/common"
	"github.com/patcharin/innflow/internal/model"
)

// DefaultLockWindow is how long a quick-book hold keeps a room before the
// sweep releases it.
const DefaultLockWindow = time.Hour

// DefaultSweepInterval is the cadence of the automatic expiry sweep.
const DefaultSweepInterval = 10 * time.Second

// Config carries the store's tunables. Zero values fall back to defaults.
type Config struct {
	Catalog       *catalog.Catalog
	Now           func() time.Time // test hook; defaults to time.Now
	LockWindow    time.Duration
	SweepInterval time.Duration
}

// Store is the authoritative collection of bookings. Mutations take the
// store mutex, so the sweep and user-triggered changes never interleave
// partially; reads hand out copies.
type Store struct {
	now      func() time.Time
	cat      *catalog.Catalog
	done     chan struct{}
	bookings []model.Booking // newest first
	subs     []func()
	cfg      Config
	mu       sync.Mutex
	sweeping bool
}

// NewStore builds a store over an initial booking set (normally the persisted
// snapshot; empty for a fresh install).
func NewStore(cfg Config, initial []model.Booking) *Store {
	if cfg.LockWindow <= 0 {
		cfg.LockWindow = DefaultLockWindow
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}

	bookings := make([]model.Booking, len(initial))
	copy(bookings, initial)

	return &Store{
		cfg:      cfg,
		now:      cfg.Now,
		cat:      cfg.Catalog,
		bookings: bookings,
	}
}

// Subscribe registers a callback invoked after every successful mutation,
// including sweep removals. Persistence hangs off this hook.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

// QuickLockRequest is the quick-book form: a phone reservation that holds a
// room while the guest transfers a deposit or shows up.
type QuickLockRequest struct {
	GuestName   string
	RoomNumber  string
	Phone       string
	CheckIn     time.Time
	CheckOut    time.Time
	TotalAmount float64
}

// QuickLock creates a locked booking holding the room for the lock window.
// There is deliberately no overlap check against existing bookings for the
// room; the desk operator is trusted to pick a free one.
func (s *Store) QuickLock(req QuickLockRequest) (*model.Booking, error) {
	if err := validateQuickLock(req); err != nil {
		return nil, err
	}

	s.mu.Lock()
	expiry := s.now().Add(s.cfg.LockWindow)
	b := model.Booking{
		ID:          model.NewID(model.PrefixLock),
		GuestName:   req.GuestName,
		RoomNumber:  req.RoomNumber,
		CheckIn:     req.CheckIn,
		CheckOut:    req.CheckOut,
		TotalAmount: req.TotalAmount,
		Nights:      catalog.Nights(req.CheckIn, req.CheckOut),
		Status:      model.StatusLocked,
		LockedUntil: &expiry,
	}
	if req.Phone != "" {
		b.GuestDetails = &model.GuestData{FirstNameTH: req.GuestName, Phone: req.Phone}
	}
	s.bookings = append([]model.Booking{b}, s.bookings...)
	s.mu.Unlock()

	s.notify()
	slog.Info("room locked", "booking", b.ID, "room", b.RoomNumber, "until", expiry)
	return &b, nil
}

func validateQuickLock(req QuickLockRequest) error {
	if strings.TrimSpace(req.GuestName) == "" {
		return fmt.Errorf("%w: guest name", common.ErrMissingField)
	}
	if strings.TrimSpace(req.RoomNumber) == "" {
		return fmt.Errorf("%w: room number", common.ErrMissingField)
	}
	if req.TotalAmount <= 0 {
		return fmt.Errorf("%w: amount", common.ErrMissingField)
	}
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return fmt.Errorf("%w: stay dates", common.ErrMissingField)
	}
	if !req.CheckOut.After(req.CheckIn) {
		return common.ErrInvalidDates
	}
	return nil
}

// CheckInRequest is the front-desk check-in form.
type CheckInRequest struct {
	Guest        *model.GuestData
	RoomNumber   string
	CustomerType model.CustomerType
	CheckIn      time.Time
	CheckOut     time.Time
	Amount       float64
}

// CheckIn transitions the room's active booking to checked_in, or creates a
// fresh checked_in booking when no reservation exists. It is additive, not
// validating: check-in succeeds for any room number. The bool result reports
// whether a new booking row was created.
func (s *Store) CheckIn(req CheckInRequest) (*model.Booking, bool, error) {
	if err := validateCheckIn(req); err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	for i := range s.bookings {
		b := &s.bookings[i]
		if b.RoomNumber != req.RoomNumber || !b.IsActive() {
			continue
		}
		b.Status = model.StatusCheckedIn
		b.CheckIn = req.CheckIn
		b.CheckOut = req.CheckOut
		b.GuestDetails = req.Guest
		b.GuestName = req.Guest.FullNameTH()
		b.LockedUntil = nil
		updated := *b
		s.mu.Unlock()

		s.notify()
		slog.Info("guest checked in", "booking", updated.ID, "room", updated.RoomNumber, "reused", true)
		return &updated, false, nil
	}

	b := model.Booking{
		ID:           model.NewID(model.PrefixBooking),
		GuestName:    req.Guest.FullNameTH(),
		RoomNumber:   req.RoomNumber,
		CheckIn:      req.CheckIn,
		CheckOut:     req.CheckOut,
		TotalAmount:  req.Amount,
		Nights:       catalog.Nights(req.CheckIn, req.CheckOut),
		Status:       model.StatusCheckedIn,
		GuestDetails: req.Guest,
	}
	s.bookings = append([]model.Booking{b}, s.bookings...)
	s.mu.Unlock()

	s.notify()
	slog.Info("guest checked in", "booking", b.ID, "room", b.RoomNumber, "reused", false)
	return &b, true, nil
}

func validateCheckIn(req CheckInRequest) error {
	if req.Guest == nil || strings.TrimSpace(req.Guest.FirstNameTH) == "" {
		return fmt.Errorf("%w: guest details", common.ErrMissingField)
	}
	if strings.TrimSpace(req.RoomNumber) == "" {
		return fmt.Errorf("%w: room number", common.ErrMissingField)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("%w: amount", common.ErrMissingField)
	}
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return fmt.Errorf("%w: stay dates", common.ErrMissingField)
	}
	if !req.CheckOut.After(req.CheckIn) {
		return common.ErrInvalidDates
	}
	return nil
}

// CheckOut completes the stay for the checked-in booking on the given room.
func (s *Store) CheckOut(roomNumber string) (*model.Booking, error) {
	s.mu.Lock()
	for i := range s.bookings {
		b := &s.bookings[i]
		if b.RoomNumber != roomNumber || b.Status != model.StatusCheckedIn {
			continue
		}
		b.Status = model.StatusCheckedOut
		updated := *b
		s.mu.Unlock()

		s.notify()
		slog.Info("guest checked out", "booking", updated.ID, "room", updated.RoomNumber)
		return &updated, nil
	}
	s.mu.Unlock()
	return nil, fmt.Errorf("%w: no checked-in booking for room %s", common.ErrNotFound, roomNumber)
}

// ImportRow is one accepted booking from a bulk OTA import.
type ImportRow struct {
	Guest              *model.GuestData
	GuestName          string
	RoomNumber         string
	OTAChannel         string
	ConfirmationNumber string
	CheckIn            time.Time
	CheckOut           time.Time
	TotalAmount        float64 // 0 means derive from the catalog
}

// Import appends imported rows as confirmed bookings, deriving nights, rate,
// and deposit from the catalog. Row-level validation belongs to the importer;
// the store only assigns identity and derived pricing.
func (s *Store) Import(rows []ImportRow) []model.Booking {
	if len(rows) == 0 {
		return nil
	}

	added := make([]model.Booking, 0, len(rows))
	s.mu.Lock()
	for _, row := range rows {
		total := row.TotalAmount
		if total == 0 {
			total = s.cat.StayTotal(row.RoomNumber, row.CheckIn, row.CheckOut)
		}
		var rate float64
		if rt, ok := s.cat.Lookup(row.RoomNumber); ok {
			rate = rt.PricePerNight
		}
		b := model.Booking{
			ID:                 model.NewID(model.PrefixBooking),
			GuestName:          row.GuestName,
			RoomNumber:         row.RoomNumber,
			CheckIn:            row.CheckIn,
			CheckOut:           row.CheckOut,
			TotalAmount:        total,
			Nights:             catalog.Nights(row.CheckIn, row.CheckOut),
			PricePerNight:      rate,
			DepositAmount:      catalog.Deposit(total),
			Status:             model.StatusConfirmed,
			OTAChannel:         row.OTAChannel,
			ConfirmationNumber: row.ConfirmationNumber,
			GuestDetails:       row.Guest,
		}
		s.bookings = append([]model.Booking{b}, s.bookings...)
		added = append(added, b)
	}
	s.mu.Unlock()

	s.notify()
	return added
}

// List returns a copy of all bookings, newest first.
func (s *Store) List() []model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// Get returns the booking with the given id.
func (s *Store) Get(id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			b := s.bookings[i]
			return &b, nil
		}
	}
	return nil, fmt.Errorf("%w: booking %s", common.ErrNotFound, id)
}
