package leave

import (
	"errors"
	"time"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
)

// LeaveRequest is the domain view of a leave request. Days is computed once
// at creation and never re-derived from the dates afterwards.
type LeaveRequest struct {
	ID          int64      `json:"id"`
	RequesterID int64      `json:"requester_id"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	Days        int        `json:"days"`
	Reason      string     `json:"reason,omitempty"`
	Status      string     `json:"status"`
	ApprovedBy  *int64     `json:"approved_by,omitempty"`
	DecisionAt  *time.Time `json:"decision_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

const (
	StatusPending  = leaveDatamodel.StatusPending
	StatusApproved = leaveDatamodel.StatusApproved
	StatusRejected = leaveDatamodel.StatusRejected
)

func (r *LeaveRequest) CanBeApproved() bool {
	return r.Status == StatusPending
}

func (r *LeaveRequest) CanBeRejected() bool {
	return r.Status == StatusPending
}

// Domain errors
var (
	ErrInvalidDate         = errors.New("invalid date provided")
	ErrInvalidRange        = errors.New("end date cannot be before start date")
	ErrInsufficientBalance = errors.New("insufficient leave balance")
	ErrOverlappingRequest  = errors.New("overlapping pending or approved leave in this period")
	ErrLeaveNotFound       = errors.New("leave request not found")
	ErrRequesterNotFound   = errors.New("requester for this leave request no longer exists")
	ErrAlreadyApproved     = errors.New("leave request has already been approved")
	ErrAlreadyRejected     = errors.New("rejected leave requests cannot be approved")
	ErrNotPending          = errors.New("only pending leave requests can be rejected")
	ErrNegativeBalance     = errors.New("approval would result in a negative leave balance")
)

func ToDataModel(r *LeaveRequest) *leaveDatamodel.LeaveRequest {
	return &leaveDatamodel.LeaveRequest{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Days:        r.Days,
		Reason:      r.Reason,
		Status:      r.Status,
		ApprovedBy:  r.ApprovedBy,
		DecisionAt:  r.DecisionAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromDataModel(r *leaveDatamodel.LeaveRequest) *LeaveRequest {
	return &LeaveRequest{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Days:        r.Days,
		Reason:      r.Reason,
		Status:      r.Status,
		ApprovedBy:  r.ApprovedBy,
		DecisionAt:  r.DecisionAt,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromDataModelSlice(requests []*leaveDatamodel.LeaveRequest) []*LeaveRequest {
	result := make([]*LeaveRequest, len(requests))
	for i, r := range requests {
		result[i] = FromDataModel(r)
	}
	return result
}
