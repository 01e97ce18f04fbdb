package screens

import (
	"context"
	"fmt"
	"sync"

	"github.com/meinhoongagan/marketplace/logger"
	"github.com/meinhoongagan/marketplace/models"
	"github.com/meinhoongagan/marketplace/session"
	"go.uber.org/zap"
)

// orderBoard holds the order list shared by the client and provider screens
// and runs their status actions.
type orderBoard struct {
	api    API
	sess   *session.Session
	notify Notifier
	role   Role
	reload func(ctx context.Context) error

	mu     sync.RWMutex
	orders []models.OrderView
}

// signedIn returns the session user when it matches the board's role.
func (b *orderBoard) signedIn() (models.User, error) {
	user, ok := b.sess.User()
	if !ok {
		return models.User{}, ErrNotSignedIn
	}
	if b.role == RoleProvider && user.AccountType != models.AccountProvider {
		return models.User{}, ErrWrongRole
	}
	return user, nil
}

// Orders returns a snapshot of the listed orders.
func (b *orderBoard) Orders() []models.OrderView {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.OrderView(nil), b.orders...)
}

func (b *orderBoard) find(id uint) (models.OrderView, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, o := range b.orders {
		if o.ID == id {
			return o, true
		}
	}
	return models.OrderView{}, false
}

// Actions lists what the signed-in role may do with order id.
func (b *orderBoard) Actions(id uint) []ActionState {
	o, ok := b.find(id)
	if !ok {
		return nil
	}
	return AvailableActions(b.role, o.ServiceOrder)
}

// run performs action on order id, sending extra fields alongside the
// status change, then refreshes the list.
func (b *orderBoard) run(ctx context.Context, id uint, action Action, extra map[string]interface{}, done string) (*models.ServiceOrder, error) {
	o, ok := b.find(id)
	if !ok {
		b.notify.Notify(LevelError, "Order not found, refresh the list.")
		return nil, ErrOrderNotFound
	}
	if !Allowed(b.role, o.ServiceOrder, action) {
		b.notify.Notify(LevelError, disabledMessage(action))
		return nil, fmt.Errorf("%s on order %d in status %s: %w", action, id, o.Status, ErrActionDisabled)
	}

	fields := make(map[string]interface{}, len(extra)+1)
	for k, v := range extra {
		fields[k] = v
	}
	if target, ok := actionTargets[action]; ok {
		fields["status"] = target
	}

	updated, err := b.api.UpdateOrder(ctx, id, fields)
	if err != nil {
		logger.L().Warn("order action failed",
			zap.Uint("order_id", id), zap.String("action", string(action)), zap.Error(err))
		b.notify.Notify(LevelError, "Could not update the order, try again.")
		return nil, err
	}
	b.notify.Notify(LevelSuccess, done)

	if b.reload != nil {
		if err := b.reload(ctx); err != nil {
			logger.L().Debug("reload after action failed", zap.Error(err))
		}
	}
	return updated, nil
}

func disabledMessage(action Action) string {
	if action == ActionFinish {
		return "Attach the before and after photos before finishing."
	}
	return "This action is not available for the order right now."
}
