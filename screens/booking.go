package screens

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/meinhoongagan/marketplace/session"
	"go.uber.org/zap"
)

// MaxRequestPhotos caps the photos a client attaches to a booking.
const MaxRequestPhotos = 3

// Shift is a bookable start time.
type Shift struct {
	Time  string
	Label string
}

var Shifts = []Shift{
	{Time: "08:00", Label: "Morning"},
	{Time: "14:00", Label: "Afternoon"},
}

// busyStatuses are the non-terminal order states that hold a provider's
// time slot. A reported rain frees it.
var busyStatuses = map[models.OrderStatus]bool{
	models.StatusPending:              true,
	models.StatusWaitingClient:        true,
	models.StatusAccepted:             true,
	models.StatusArrived:              true,
	models.StatusInProgressAuthorized: true,
	models.StatusInProgress:           true,
	models.StatusWaitingConfirmation:  true,
}

var (
	ErrMissingFields   = errors.New("date, time, address and description are required")
	ErrTooManyPhotos   = errors.New("at most 3 photos per request")
	ErrDayUnavailable  = errors.New("the provider does not work on this day")
	ErrSlotTaken       = errors.New("this time slot is already booked")
	ErrSlotPassed      = errors.New("this time slot has already started")
	ErrUnknownProvider = errors.New("provider not found")
)

// Slot is a shift on a given date.
type Slot struct {
	Shift
	Occupied bool
	Passed   bool
}

// BookingRequest is what the client fills in.
type BookingRequest struct {
	Date        string
	Time        string
	Address     string
	Description string
	Photos      []string
	Lat         *float64
	Lng         *float64
}

// Booking books one provider.
type Booking struct {
	api        API
	sess       *session.Session
	notify     Notifier
	providerID uint
	now        func() time.Time

	mu       sync.RWMutex
	provider *models.ProviderListing
}

func NewBooking(api API, sess *session.Session, notify Notifier, providerID uint) *Booking {
	return &Booking{api: api, sess: sess, notify: notify, providerID: providerID, now: time.Now}
}

// Load resolves the provider. A failure leaves Provider nil and notifies.
func (b *Booking) Load(ctx context.Context) error {
	p, err := b.api.Provider(ctx, b.providerID)
	if err != nil {
		logger.L().Warn("loading provider for booking", zap.Uint("provider_id", b.providerID), zap.Error(err))
		b.notify.Notify(LevelError, "Provider not found.")
		p = nil
	}
	b.mu.Lock()
	b.provider = p
	b.mu.Unlock()
	return nil
}

func (b *Booking) Provider() *models.ProviderListing {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.provider == nil {
		return nil
	}
	p := *b.provider
	return &p
}

// OccupiedSlots returns the start times (HH:MM) the provider already has
// live orders for on date. A failed fetch reports nothing occupied.
func (b *Booking) OccupiedSlots(ctx context.Context, date string) map[string]bool {
	occupied := make(map[string]bool)
	orders, err := b.api.ProviderOrders(ctx, b.providerID)
	if err != nil {
		logger.L().Warn("checking booked slots", zap.Error(err))
		return occupied
	}
	for _, o := range orders {
		if o.Date != date || !busyStatuses[o.Status] {
			continue
		}
		t := o.Time
		if len(t) > 5 {
			t = t[:5]
		}
		occupied[t] = true
	}
	return occupied
}

// Slots lists the shifts for date with their availability.
func (b *Booking) Slots(ctx context.Context, date string) ([]Slot, error) {
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, err
	}
	occupied := b.OccupiedSlots(ctx, date)
	slots := make([]Slot, 0, len(Shifts))
	for _, s := range Shifts {
		slots = append(slots, Slot{Shift: s, Occupied: occupied[s.Time], Passed: b.passed(date, s.Time)})
	}
	return slots, nil
}

// passed reports whether the shift on date has already started.
func (b *Booking) passed(date, clock string) bool {
	now := b.now()
	start, err := time.ParseInLocation(models.DateLayout+" "+models.TimeLayout, date+" "+clock, now.Location())
	if err != nil {
		return false
	}
	return !start.After(now)
}

// Book validates req against the provider's agenda and free slots and
// creates the order at the provider's base price.
func (b *Booking) Book(ctx context.Context, req BookingRequest) (*models.ServiceOrder, error) {
	user, ok := b.sess.User()
	if !ok {
		b.notify.Notify(LevelError, "Sign in to book a service.")
		return nil, ErrNotSignedIn
	}
	provider := b.Provider()
	if provider == nil {
		b.notify.Notify(LevelError, "Provider not found.")
		return nil, ErrUnknownProvider
	}

	req.Address = strings.TrimSpace(req.Address)
	req.Description = strings.TrimSpace(req.Description)
	if req.Date == "" || req.Time == "" || req.Address == "" || req.Description == "" {
		b.notify.Notify(LevelError, "Fill in all required fields.")
		return nil, ErrMissingFields
	}
	if len(req.Photos) > MaxRequestPhotos {
		b.notify.Notify(LevelError, "You can attach at most 3 photos.")
		return nil, ErrTooManyPhotos
	}
	day, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		b.notify.Notify(LevelError, "Pick a valid date.")
		return nil, err
	}
	if agenda := models.SplitDays(provider.WorkingDays); len(agenda) > 0 {
		name := Weekdays[day.Weekday()]
		works := false
		for _, d := range agenda {
			works = works || d == name
		}
		if !works {
			b.notify.Notify(LevelError, "This provider does not work on "+name+".")
			return nil, ErrDayUnavailable
		}
	}
	if b.passed(req.Date, req.Time) {
		b.notify.Notify(LevelError, "This time has already passed.")
		return nil, ErrSlotPassed
	}
	if b.OccupiedSlots(ctx, req.Date)[req.Time] {
		b.notify.Notify(LevelError, "This time slot is already booked.")
		return nil, ErrSlotTaken
	}

	serviceType := provider.Niche
	if serviceType == "" {
		serviceType = models.DefaultNiche
	}
	order := models.ServiceOrder{
		UserID:             user.ID,
		ProviderID:         provider.ID,
		ServiceType:        serviceType,
		Date:               req.Date,
		Time:               req.Time,
		Status:             models.StatusPending,
		Price:              provider.BasePrice,
		Address:            req.Address,
		Lat:                req.Lat,
		Lng:                req.Lng,
		DescriptionRequest: req.Description,
		PhotosRequest:      models.JSONStrings(append([]string{}, req.Photos...)),
	}
	created, err := b.api.CreateOrder(ctx, order)
	if err != nil {
		logger.L().Warn("creating order", zap.Error(err))
		b.notify.Notify(LevelError, "Could not send your request, try again.")
		return nil, err
	}
	b.notify.Notify(LevelSuccess, "Request sent!")
	return created, nil
}
