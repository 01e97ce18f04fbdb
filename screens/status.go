package screens

import "github.com/meinhoongagan/marketplace/models"

var statusLabels = map[models.OrderStatus]string{
	models.StatusPending:              "Awaiting quote",
	models.StatusWaitingClient:        "Quote sent",
	models.StatusAccepted:             "Accepted",
	models.StatusArrived:              "Provider on site",
	models.StatusInProgressAuthorized: "Start authorized",
	models.StatusInProgress:           "In progress",
	models.StatusWaitingConfirmation:  "Finished, awaiting confirmation",
	models.StatusCompleted:            "Completed",
	models.StatusCancelled:            "Cancelled",
	models.StatusCancelledRain:        "Rain delay",
	models.StatusRainConfirmed:        "Rain delay confirmed",
}

// StatusLabel is the display text for s. Statuses this build does not know
// read "unknown", never a cancellation.
func StatusLabel(s models.OrderStatus) string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return "unknown"
}

type Role int

const (
	RoleClient Role = iota
	RoleProvider
)

type Action string

const (
	ActionSendQuote         Action = "send_quote"
	ActionAccept            Action = "accept"
	ActionArrived           Action = "arrived"
	ActionReportRain        Action = "report_rain"
	ActionStartWork         Action = "start_work"
	ActionAttachBefore      Action = "attach_before"
	ActionAttachAfter       Action = "attach_after"
	ActionFinish            Action = "finish"
	ActionAcceptQuote       Action = "accept_quote"
	ActionRejectQuote       Action = "reject_quote"
	ActionConfirmArrival    Action = "confirm_arrival"
	ActionConfirmCompletion Action = "confirm_completion"
	ActionAcknowledgeRain   Action = "acknowledge_rain"
)

// ActionState is an action offered for an order. Disabled actions are shown
// but cannot run.
type ActionState struct {
	Action  Action
	Enabled bool
}

// AvailableActions lists what role can do with o in its current status.
func AvailableActions(role Role, o models.ServiceOrder) []ActionState {
	on := func(actions ...Action) []ActionState {
		out := make([]ActionState, len(actions))
		for i, a := range actions {
			out[i] = ActionState{Action: a, Enabled: true}
		}
		return out
	}

	if role == RoleProvider {
		switch o.Status {
		case models.StatusPending:
			return on(ActionSendQuote, ActionAccept)
		case models.StatusAccepted:
			return on(ActionArrived, ActionReportRain)
		case models.StatusArrived:
			return on(ActionReportRain)
		case models.StatusInProgressAuthorized:
			return on(ActionStartWork, ActionReportRain)
		case models.StatusInProgress:
			return append(on(ActionAttachBefore, ActionAttachAfter),
				ActionState{Action: ActionFinish, Enabled: o.HasBothPhotos()},
				ActionState{Action: ActionReportRain, Enabled: true})
		case models.StatusWaitingConfirmation:
			return on(ActionReportRain)
		}
		return nil
	}

	switch o.Status {
	case models.StatusWaitingClient:
		return on(ActionAcceptQuote, ActionRejectQuote)
	case models.StatusArrived:
		return on(ActionConfirmArrival)
	case models.StatusWaitingConfirmation:
		return on(ActionConfirmCompletion)
	case models.StatusCancelledRain:
		return on(ActionAcknowledgeRain)
	}
	return nil
}

// Allowed reports whether action is offered and enabled for o.
func Allowed(role Role, o models.ServiceOrder, action Action) bool {
	for _, a := range AvailableActions(role, o) {
		if a.Action == action {
			return a.Enabled
		}
	}
	return false
}

// actionTargets is the status each status-changing action moves to.
var actionTargets = map[Action]models.OrderStatus{
	ActionSendQuote:         models.StatusWaitingClient,
	ActionAccept:            models.StatusAccepted,
	ActionArrived:           models.StatusArrived,
	ActionReportRain:        models.StatusCancelledRain,
	ActionStartWork:         models.StatusInProgress,
	ActionFinish:            models.StatusWaitingConfirmation,
	ActionAcceptQuote:       models.StatusAccepted,
	ActionRejectQuote:       models.StatusCancelled,
	ActionConfirmArrival:    models.StatusInProgressAuthorized,
	ActionConfirmCompletion: models.StatusCompleted,
	ActionAcknowledgeRain:   models.StatusRainConfirmed,
}
