package screens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/meinhoongagan/marketplace/poller"
	"github.com/meinhoongagan/marketplace/session"
	"go.uber.org/zap"
)

const (
	ClientPollInterval   = 20 * time.Second
	DefaultReviewComment = "Service completed successfully."
)

var ErrNoReviewPending = errors.New("no completed order is waiting for a review")

// MyOrders lists a client's orders and drives the client side of the order
// lifecycle, including the review prompt after completion.
type MyOrders struct {
	orderBoard
	interval time.Duration
	poller   *poller.Poller

	// guarded by orderBoard.mu
	prompt *models.OrderView
}

func NewMyOrders(api API, sess *session.Session, notify Notifier) *MyOrders {
	m := &MyOrders{
		orderBoard: orderBoard{api: api, sess: sess, notify: notify, role: RoleClient},
		interval:   ClientPollInterval,
	}
	m.reload = func(ctx context.Context) error { return m.refresh(ctx, true) }
	return m
}

func (m *MyOrders) Load(ctx context.Context) error {
	if _, err := m.signedIn(); err != nil {
		return err
	}
	return m.refresh(ctx, false)
}

func (m *MyOrders) refresh(ctx context.Context, silent bool) error {
	user, err := m.signedIn()
	if err != nil {
		return err
	}
	orders, err := m.api.UserOrders(ctx, user.ID)
	if err != nil {
		if silent {
			logger.L().Debug("order poll failed", zap.Error(err))
			return nil
		}
		logger.L().Warn("loading client orders", zap.Error(err))
		m.notify.Notify(LevelError, "Could not load your orders.")
		orders = []models.OrderView{}
	}
	m.mu.Lock()
	m.orders = orders
	m.mu.Unlock()
	return nil
}

// Start polls the client's orders until Stop or ctx ends.
func (m *MyOrders) Start(ctx context.Context) error {
	user, err := m.signedIn()
	if err != nil {
		return err
	}
	p, err := poller.New(fmt.Sprintf("user-orders:%d", user.ID), m.interval,
		func(ctx context.Context) error { return m.refresh(ctx, true) })
	if err != nil {
		return err
	}
	m.poller = p
	m.poller.Start(ctx)
	return nil
}

func (m *MyOrders) Stop() {
	if m.poller != nil {
		m.poller.Stop()
	}
}

func (m *MyOrders) AcceptQuote(ctx context.Context, orderID uint) error {
	_, err := m.run(ctx, orderID, ActionAcceptQuote, nil, "Quote accepted.")
	return err
}

func (m *MyOrders) RejectQuote(ctx context.Context, orderID uint) error {
	_, err := m.run(ctx, orderID, ActionRejectQuote, nil, "Quote declined.")
	return err
}

// ConfirmArrival authorizes the provider to start.
func (m *MyOrders) ConfirmArrival(ctx context.Context, orderID uint) error {
	_, err := m.run(ctx, orderID, ActionConfirmArrival, nil, "Provider authorized to start.")
	return err
}

// ConfirmCompletion closes the order and opens the review prompt for it.
func (m *MyOrders) ConfirmCompletion(ctx context.Context, orderID uint) error {
	o, _ := m.find(orderID)
	if _, err := m.run(ctx, orderID, ActionConfirmCompletion, nil, "Service completed."); err != nil {
		return err
	}
	o.Status = models.StatusCompleted
	m.mu.Lock()
	m.prompt = &o
	m.mu.Unlock()
	return nil
}

func (m *MyOrders) AcknowledgeRain(ctx context.Context, orderID uint) error {
	_, err := m.run(ctx, orderID, ActionAcknowledgeRain, nil, "Rain delay acknowledged.")
	return err
}

// ReviewPrompt returns the completed order awaiting a review.
func (m *MyOrders) ReviewPrompt() (models.OrderView, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.prompt == nil {
		return models.OrderView{}, false
	}
	return *m.prompt, true
}

func (m *MyOrders) DismissReview() {
	m.mu.Lock()
	m.prompt = nil
	m.mu.Unlock()
}

// SubmitReview rates the prompted order. A blank comment is replaced by
// DefaultReviewComment.
func (m *MyOrders) SubmitReview(ctx context.Context, rating int, comment string) (*models.Review, error) {
	o, ok := m.ReviewPrompt()
	if !ok {
		return nil, ErrNoReviewPending
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		comment = DefaultReviewComment
	}
	review := models.Review{
		OrderID:    o.ID,
		ProviderID: o.ProviderID,
		UserID:     o.UserID,
		Rating:     rating,
		Comment:    comment,
	}
	if err := review.Validate(); err != nil {
		m.notify.Notify(LevelError, "Choose a rating from 1 to 5 stars.")
		return nil, err
	}

	created, err := m.api.CreateReview(ctx, review)
	if err != nil {
		logger.L().Warn("submitting review", zap.Uint("order_id", o.ID), zap.Error(err))
		m.notify.Notify(LevelError, "Could not send your review.")
		return nil, err
	}
	m.DismissReview()
	m.notify.Notify(LevelSuccess, "Thanks for your review!")
	return created, nil
}
