package leave

import "time"

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// LeaveRequest rows keep the day count computed at creation time. Balance
// arithmetic always uses the stored value, never a re-derivation from the
// dates.
type LeaveRequest struct {
	ID          int64      `gorm:"primaryKey"`
	RequesterID int64      `gorm:"column:requester_id;not null;index"`
	StartDate   time.Time  `gorm:"column:start_date;type:date;not null"`
	EndDate     time.Time  `gorm:"column:end_date;type:date;not null"`
	Days        int        `gorm:"column:days;not null"`
	Reason      string     `gorm:"column:reason"`
	Status      string     `gorm:"column:status;default:PENDING;index"`
	ApprovedBy  *int64     `gorm:"column:approved_by"`
	DecisionAt  *time.Time `gorm:"column:decision_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;default:now()"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (r *LeaveRequest) IsTerminal() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected
}
