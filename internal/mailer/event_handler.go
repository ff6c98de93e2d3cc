package mailer

import (
	"context"
	"fmt"
	"log/slog"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/core/events"
)

type Sender interface {
	Enqueue(job EmailJob) error
}

type UserDirectory interface {
	GetByID(id int64) (*userDatamodel.User, error)
}

type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// EventHandler turns domain events into outbound emails.
type EventHandler struct {
	sender Sender
	users  UserDirectory
	logger *slog.Logger
}

func NewEventHandler(sender Sender, users UserDirectory, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		sender: sender,
		users:  users,
		logger: logger,
	}
}

// Register subscribes the handler to the notification-worthy event types.
func (h *EventHandler) Register(bus Subscriber) {
	bus.Subscribe(events.EventTypeUserInvited, h.HandleUserInvited)
	bus.Subscribe(events.EventTypeLeaveApproved, h.HandleLeaveApproved)
	bus.Subscribe(events.EventTypeLeaveRejected, h.HandleLeaveRejected)
}

func (h *EventHandler) HandleUserInvited(ctx context.Context, event events.Event) error {
	invited, ok := event.(*events.UserInvitedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nAn account has been created for you with the role %s.\n\n"+
			"Temporary password: %s\n\nSign in at %s and change your password.\n",
		invited.FullName, invited.Role, invited.TemporaryPassword, invited.LoginURL)

	return h.sender.Enqueue(EmailJob{
		To:      invited.Email,
		Subject: "You have been invited to the leave management system",
		Body:    body,
	})
}

func (h *EventHandler) HandleLeaveApproved(ctx context.Context, event events.Event) error {
	approved, ok := event.(*events.LeaveApprovedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	requester, err := h.users.GetByID(approved.RequesterID)
	if err != nil {
		h.logger.Error("cannot resolve requester for approval email",
			"requester_id", approved.RequesterID, "error", err)
		return err
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour leave request for %d day(s) has been approved.\n",
		requester.FullName, approved.Days)

	return h.sender.Enqueue(EmailJob{
		To:      requester.Email,
		Subject: "Your leave request was approved",
		Body:    body,
	})
}

func (h *EventHandler) HandleLeaveRejected(ctx context.Context, event events.Event) error {
	rejected, ok := event.(*events.LeaveRejectedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}

	requester, err := h.users.GetByID(rejected.RequesterID)
	if err != nil {
		h.logger.Error("cannot resolve requester for rejection email",
			"requester_id", rejected.RequesterID, "error", err)
		return err
	}

	body := fmt.Sprintf("Hi %s,\n\nYour leave request has been rejected.\n", requester.FullName)
	if rejected.Reason != "" {
		body += fmt.Sprintf("\nReason: %s\n", rejected.Reason)
	}

	return h.sender.Enqueue(EmailJob{
		To:      requester.Email,
		Subject: "Your leave request was rejected",
		Body:    body,
	})
}
