package models

import (
	"errors"
	"fmt"
)

type OrderStatus string

const (
	StatusPending              OrderStatus = "pending"
	StatusWaitingClient        OrderStatus = "waiting_client"
	StatusAccepted             OrderStatus = "accepted"
	StatusArrived              OrderStatus = "arrived"
	StatusInProgressAuthorized OrderStatus = "in_progress_authorized"
	StatusInProgress           OrderStatus = "in_progress"
	StatusWaitingConfirmation  OrderStatus = "waiting_confirmation"
	StatusCompleted            OrderStatus = "completed"
	StatusCancelled            OrderStatus = "cancelled"
	StatusCancelledRain        OrderStatus = "cancelled_rain"
	StatusRainConfirmed        OrderStatus = "cancelled_rain_confirmed"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrOrderLocked       = errors.New("completed orders cannot change price or photos")
	ErrPhotosRequired    = errors.New("before and after photos are required to finish the service")
	ErrNegativePrice     = errors.New("price must not be negative")
	ErrNoFields          = errors.New("no updatable fields")
)

// transitions lists, for every non-terminal status, the statuses it may move
// to directly. Rain can only be reported once the booking is accepted.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:              {StatusWaitingClient, StatusAccepted, StatusCancelled},
	StatusWaitingClient:        {StatusAccepted, StatusCancelled},
	StatusAccepted:             {StatusArrived, StatusCancelledRain},
	StatusArrived:              {StatusInProgressAuthorized, StatusCancelledRain},
	StatusInProgressAuthorized: {StatusInProgress, StatusCancelledRain},
	StatusInProgress:           {StatusWaitingConfirmation, StatusCancelledRain},
	StatusWaitingConfirmation:  {StatusCompleted, StatusCancelledRain},
	StatusCancelledRain:        {StatusRainConfirmed},
}

var terminal = map[OrderStatus]bool{
	StatusCompleted:     true,
	StatusCancelled:     true,
	StatusRainConfirmed: true,
}

// Known reports whether s is part of the lifecycle.
func (s OrderStatus) Known() bool {
	_, ok := transitions[s]
	return ok || terminal[s]
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return terminal[s]
}

// Next returns the statuses reachable from s in one step.
func (s OrderStatus) Next() []OrderStatus {
	next := transitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether s may move directly to to.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	for _, n := range transitions[s] {
		if n == to {
			return true
		}
	}
	return false
}

// CheckTransition is CanTransition with a descriptive error.
func (s OrderStatus) CheckTransition(to OrderStatus) error {
	if !to.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if !s.CanTransition(to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, s, to)
	}
	return nil
}
