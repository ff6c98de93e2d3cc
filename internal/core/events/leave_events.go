package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeLeaveApproved = "leave.approved"
	EventTypeLeaveRejected = "leave.rejected"
	EventTypeUserInvited   = "user.invited"
)

type LeaveApprovedEvent struct {
	BaseEvent
	LeaveID     int64 `json:"leave_id"`
	RequesterID int64 `json:"requester_id"`
	ApprovedBy  int64 `json:"approved_by"`
	Days        int   `json:"days"`
}

func NewLeaveApprovedEvent(leaveID, requesterID, approvedBy int64, days int) *LeaveApprovedEvent {
	return &LeaveApprovedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveApproved,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"leave_id":     leaveID,
				"requester_id": requesterID,
				"approved_by":  approvedBy,
				"days":         days,
			},
		},
		LeaveID:     leaveID,
		RequesterID: requesterID,
		ApprovedBy:  approvedBy,
		Days:        days,
	}
}

type LeaveRejectedEvent struct {
	BaseEvent
	LeaveID     int64  `json:"leave_id"`
	RequesterID int64  `json:"requester_id"`
	RejectedBy  int64  `json:"rejected_by"`
	Reason      string `json:"reason"`
}

func NewLeaveRejectedEvent(leaveID, requesterID, rejectedBy int64, reason string) *LeaveRejectedEvent {
	return &LeaveRejectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeLeaveRejected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"leave_id":     leaveID,
				"requester_id": requesterID,
				"rejected_by":  rejectedBy,
				"reason":       reason,
			},
		},
		LeaveID:     leaveID,
		RequesterID: requesterID,
		RejectedBy:  rejectedBy,
		Reason:      reason,
	}
}

type UserInvitedEvent struct {
	BaseEvent
	UserID            int64  `json:"user_id"`
	Email             string `json:"email"`
	FullName          string `json:"full_name"`
	Role              string `json:"role"`
	TemporaryPassword string `json:"-"`
	LoginURL          string `json:"login_url"`
}

func NewUserInvitedEvent(userID int64, email, fullName, role, temporaryPassword, loginURL string) *UserInvitedEvent {
	return &UserInvitedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserInvited,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":   userID,
				"email":     email,
				"full_name": fullName,
				"role":      role,
			},
		},
		UserID:            userID,
		Email:             email,
		FullName:          fullName,
		Role:              role,
		TemporaryPassword: temporaryPassword,
		LoginURL:          loginURL,
	}
}
