package dashboard

// Stats is the admin overview of the system.
type Stats struct {
	TotalUsers     int64 `json:"total_users"`
	ActiveUsers    int64 `json:"active_users"`
	TotalLeaves    int64 `json:"total_leaves"`
	PendingLeaves  int64 `json:"pending_leaves"`
	ApprovedLeaves int64 `json:"approved_leaves"`
	RejectedLeaves int64 `json:"rejected_leaves"`
}

// UserOverview is one row of the admin users-with-balances view.
type UserOverview struct {
	ID                     int64  `json:"id"`
	FullName               string `json:"full_name"`
	Email                  string `json:"email"`
	Role                   string `json:"role"`
	LeaveBalance           int    `json:"leave_balance"`
	CarryOverBalance       int    `json:"carry_over_balance"`
	AnnualLeaveEntitlement int    `json:"annual_leave_entitlement"`
	LeaveYear              int    `json:"leave_year"`
	IsActive               bool   `json:"is_active"`
	PendingLeaves          int64  `json:"pending_leaves"`
	ApprovedLeaves         int64  `json:"approved_leaves"`
}
