package screens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/meinhoongagan/marketplace/poller"
	"github.com/meinhoongagan/marketplace/session"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const ProviderPollInterval = 5 * time.Second

// Weekdays are the agenda day codes, indexed by time.Weekday.
var Weekdays = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var (
	ErrInvalidQuote = errors.New("quote must be greater than zero")
	ErrUnknownDay   = errors.New("unknown weekday")
)

// PhotoKind selects the before or after photo of a service.
type PhotoKind string

const (
	PhotoBefore PhotoKind = "before"
	PhotoAfter  PhotoKind = "after"
)

// ProviderDashboard is the provider's home: active orders, earnings,
// reviews and the weekly agenda.
type ProviderDashboard struct {
	orderBoard
	interval time.Duration
	poller   *poller.Poller

	// guarded by orderBoard.mu
	loaded   bool
	known    map[uint]bool
	earnings float64
	reviews  []models.ReviewView
	profile  *models.ProviderListing
	days     []string
}

func NewProviderDashboard(api API, sess *session.Session, notify Notifier) *ProviderDashboard {
	d := &ProviderDashboard{
		orderBoard: orderBoard{api: api, sess: sess, notify: notify, role: RoleProvider},
		interval:   ProviderPollInterval,
		known:      make(map[uint]bool),
	}
	d.reload = func(ctx context.Context) error { return d.refreshOrders(ctx, true) }
	return d
}

// Load fetches orders, reviews and the profile concurrently. Failed fetches
// leave empty collections and a notice; only a missing session is an error.
func (d *ProviderDashboard) Load(ctx context.Context) error {
	user, err := d.signedIn()
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.refreshOrders(gctx, false) })
	g.Go(func() error {
		reviews, err := d.api.ProviderReviews(gctx, user.ID)
		if err != nil {
			logger.L().Warn("loading reviews", zap.Error(err))
			reviews = []models.ReviewView{}
		}
		d.mu.Lock()
		d.reviews = reviews
		d.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		profile, err := d.api.Profile(gctx, user.ID)
		if err != nil {
			logger.L().Warn("loading profile", zap.Error(err))
			d.notify.Notify(LevelError, "Could not load your profile.")
			return nil
		}
		d.mu.Lock()
		d.profile = profile
		if profile != nil {
			d.days = models.SplitDays(profile.WorkingDays)
		}
		d.mu.Unlock()
		return nil
	})
	return g.Wait()
}

// refreshOrders reloads the order list. A silent refresh is a poll: it
// keeps the previous list on failure and announces orders not seen before.
func (d *ProviderDashboard) refreshOrders(ctx context.Context, silent bool) error {
	user, err := d.signedIn()
	if err != nil {
		return err
	}

	orders, err := d.api.ProviderOrders(ctx, user.ID)
	if err != nil {
		if silent {
			logger.L().Debug("order poll failed", zap.Error(err))
			return nil
		}
		logger.L().Warn("loading provider orders", zap.Error(err))
		d.notify.Notify(LevelError, "Could not load your orders.")
		orders = []models.OrderView{}
	}

	var earnings float64
	active := make([]models.OrderView, 0, len(orders))
	for _, o := range orders {
		if o.Status == models.StatusCompleted {
			earnings += o.Price
		}
		if !o.Status.Terminal() {
			active = append(active, o)
		}
	}

	d.mu.Lock()
	fresh := false
	known := make(map[uint]bool, len(active))
	for _, o := range active {
		known[o.ID] = true
		if !d.known[o.ID] {
			fresh = true
		}
	}
	announce := silent && d.loaded && fresh
	d.orders, d.earnings, d.known, d.loaded = active, earnings, known, true
	d.mu.Unlock()

	if announce {
		d.notify.Notify(LevelInfo, "New order received!")
	}
	return nil
}

// Start polls the provider's orders until Stop or ctx ends.
func (d *ProviderDashboard) Start(ctx context.Context) error {
	user, err := d.signedIn()
	if err != nil {
		return err
	}
	p, err := poller.New(fmt.Sprintf("provider-orders:%d", user.ID), d.interval,
		func(ctx context.Context) error { return d.refreshOrders(ctx, true) })
	if err != nil {
		return err
	}
	d.poller = p
	d.poller.Start(ctx)
	return nil
}

func (d *ProviderDashboard) Stop() {
	if d.poller != nil {
		d.poller.Stop()
	}
}

// Earnings is the sum of completed order prices.
func (d *ProviderDashboard) Earnings() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.earnings
}

func (d *ProviderDashboard) Reviews() []models.ReviewView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.ReviewView(nil), d.reviews...)
}

func (d *ProviderDashboard) Profile() *models.ProviderListing {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.profile == nil {
		return nil
	}
	p := *d.profile
	return &p
}

// SendQuote proposes price for a pending order.
func (d *ProviderDashboard) SendQuote(ctx context.Context, orderID uint, price float64) error {
	if price <= 0 {
		d.notify.Notify(LevelError, "Enter a price for the quote.")
		return ErrInvalidQuote
	}
	_, err := d.run(ctx, orderID, ActionSendQuote, map[string]interface{}{"price": price}, "Quote sent.")
	return err
}

// Accept takes a pending order at its listed price.
func (d *ProviderDashboard) Accept(ctx context.Context, orderID uint) error {
	_, err := d.run(ctx, orderID, ActionAccept, nil, "Order accepted.")
	return err
}

func (d *ProviderDashboard) MarkArrived(ctx context.Context, orderID uint) error {
	_, err := d.run(ctx, orderID, ActionArrived, nil, "Client notified of your arrival.")
	return err
}

func (d *ProviderDashboard) ReportRain(ctx context.Context, orderID uint) error {
	_, err := d.run(ctx, orderID, ActionReportRain, nil, "Rain notice sent.")
	return err
}

func (d *ProviderDashboard) StartWork(ctx context.Context, orderID uint) error {
	_, err := d.run(ctx, orderID, ActionStartWork, nil, "Service started.")
	return err
}

// Finish asks the client to confirm completion. It is refused until both
// photos are attached.
func (d *ProviderDashboard) Finish(ctx context.Context, orderID uint) error {
	_, err := d.run(ctx, orderID, ActionFinish, nil, "Waiting for the client to confirm.")
	return err
}

// AttachPhoto uploads content and stores it as the order's before or after
// photo.
func (d *ProviderDashboard) AttachPhoto(ctx context.Context, orderID uint, kind PhotoKind, filename string, content []byte) error {
	action, column := ActionAttachBefore, "photo_before"
	if kind == PhotoAfter {
		action, column = ActionAttachAfter, "photo_after"
	}
	o, ok := d.find(orderID)
	if !ok {
		return ErrOrderNotFound
	}
	if !Allowed(RoleProvider, o.ServiceOrder, action) {
		d.notify.Notify(LevelError, disabledMessage(action))
		return ErrActionDisabled
	}

	url, err := d.api.UploadPhoto(ctx, filename, content)
	if err != nil {
		logger.L().Warn("photo upload failed", zap.Uint("order_id", orderID), zap.Error(err))
		d.notify.Notify(LevelError, "Image upload failed.")
		return err
	}
	_, err = d.run(ctx, orderID, action, map[string]interface{}{column: url}, "Photo saved.")
	return err
}

// WorkingDays is the agenda being edited.
func (d *ProviderDashboard) WorkingDays() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.days...)
}

// ToggleDay adds or removes day from the agenda; SaveAgenda persists it.
func (d *ProviderDashboard) ToggleDay(day string) error {
	valid := false
	for _, w := range Weekdays {
		valid = valid || w == day
	}
	if !valid {
		return fmt.Errorf("%q: %w", day, ErrUnknownDay)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for i, existing := range d.days {
		if existing == day {
			d.days = append(d.days[:i:i], d.days[i+1:]...)
			return nil
		}
	}
	d.days = append(d.days, day)
	return nil
}

func (d *ProviderDashboard) SaveAgenda(ctx context.Context) error {
	user, err := d.signedIn()
	if err != nil {
		return err
	}
	joined := models.JoinDays(d.WorkingDays())
	endpoint := fmt.Sprintf("professional_profiles/%d", user.ID)
	if err := d.api.Patch(ctx, endpoint, map[string]string{"working_days": joined}, nil); err != nil {
		logger.L().Warn("saving agenda", zap.Error(err))
		d.notify.Notify(LevelError, "Could not save your agenda.")
		return err
	}

	d.mu.Lock()
	if d.profile != nil {
		d.profile.WorkingDays = joined
	}
	d.mu.Unlock()
	d.notify.Notify(LevelSuccess, "Agenda saved.")
	return nil
}
