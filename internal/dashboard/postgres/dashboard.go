package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/leave-management/internal/dashboard"
)

// DashboardRepository answers aggregate queries with plain SQL via sqlx; the
// overview joins users to their request counts in one round trip.
type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) GetStats() (*dashboard.Stats, error) {
	var stats dashboard.Stats

	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM users WHERE is_active = true) AS active_users,
			(SELECT COUNT(*) FROM leave_requests) AS total_leaves,
			(SELECT COUNT(*) FROM leave_requests WHERE status = 'PENDING') AS pending_leaves,
			(SELECT COUNT(*) FROM leave_requests WHERE status = 'APPROVED') AS approved_leaves,
			(SELECT COUNT(*) FROM leave_requests WHERE status = 'REJECTED') AS rejected_leaves`

	row := r.db.QueryRow(query)
	if err := row.Scan(
		&stats.TotalUsers,
		&stats.ActiveUsers,
		&stats.TotalLeaves,
		&stats.PendingLeaves,
		&stats.ApprovedLeaves,
		&stats.RejectedLeaves,
	); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *DashboardRepository) GetUsersOverview(limit, offset int) ([]*dashboard.UserOverview, error) {
	query := `
		SELECT
			u.id,
			u.full_name,
			u.email,
			u.role,
			u.leave_balance,
			u.carry_over_balance,
			u.annual_leave_entitlement,
			u.leave_year,
			u.is_active,
			COUNT(lr.id) FILTER (WHERE lr.status = 'PENDING') AS pending_leaves,
			COUNT(lr.id) FILTER (WHERE lr.status = 'APPROVED') AS approved_leaves
		FROM users u
		LEFT JOIN leave_requests lr ON lr.requester_id = u.id
		GROUP BY u.id
		ORDER BY u.full_name ASC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overview []*dashboard.UserOverview
	for rows.Next() {
		var o dashboard.UserOverview
		if err := rows.Scan(
			&o.ID,
			&o.FullName,
			&o.Email,
			&o.Role,
			&o.LeaveBalance,
			&o.CarryOverBalance,
			&o.AnnualLeaveEntitlement,
			&o.LeaveYear,
			&o.IsActive,
			&o.PendingLeaves,
			&o.ApprovedLeaves,
		); err != nil {
			return nil, err
		}
		overview = append(overview, &o)
	}

	return overview, rows.Err()
}
