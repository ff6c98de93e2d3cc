package postgres

import (
	"errors"
	"time"

	leaveDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/leave"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/leave"
	"gorm.io/gorm"
)

// LeaveRepository implements the leave.Repository interface using GORM.
type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.Repository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(req *leave.LeaveRequest) error {
	row := leave.ToDataModel(req)
	if err := r.db.Create(row).Error; err != nil {
		return err
	}
	req.ID = row.ID
	req.CreatedAt = row.CreatedAt
	req.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *LeaveRepository) GetByID(id int64) (*leave.LeaveRequest, error) {
	var row leaveDatamodel.LeaveRequest
	err := r.db.Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leave.ErrLeaveNotFound
		}
		return nil, err
	}
	return leave.FromDataModel(&row), nil
}

func (r *LeaveRepository) GetByRequester(requesterID int64, limit, offset int) ([]*leave.LeaveRequest, error) {
	var rows []*leaveDatamodel.LeaveRequest
	err := r.db.Where("requester_id = ?", requesterID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(rows), nil
}

func (r *LeaveRepository) GetPending(limit, offset int) ([]*leave.LeaveRequest, error) {
	var rows []*leaveDatamodel.LeaveRequest
	err := r.db.Where("status = ?", leaveDatamodel.StatusPending).
		Order("created_at ASC"). // FIFO for approvals
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(rows), nil
}

func (r *LeaveRepository) GetAll(limit, offset int) ([]*leave.LeaveRequest, error) {
	var rows []*leaveDatamodel.LeaveRequest
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return leave.FromDataModelSlice(rows), nil
}

// HasOverlapping reports whether the requester already has a pending or
// approved request intersecting [start, end]. Rejected requests never block.
func (r *LeaveRepository) HasOverlapping(requesterID int64, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&leaveDatamodel.LeaveRequest{}).
		Where("requester_id = ?", requesterID).
		Where("status IN ?", []string{leaveDatamodel.StatusPending, leaveDatamodel.StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ApproveAndDebit flips a pending request to APPROVED and debits the
// requester's balance in one transaction. Both writes are conditional: the
// debit only lands while the balance still covers the request, and the status
// only flips while the row is still PENDING. Either condition failing rolls
// the whole transaction back.
func (r *LeaveRepository) ApproveAndDebit(leaveID, requesterID, approverID int64, days int, decisionAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userDatamodel.User{}).
			Where("id = ? AND leave_balance >= ?", requesterID, days).
			Updates(map[string]interface{}{
				"leave_balance": gorm.Expr("leave_balance - ?", days),
				"updated_at":    time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another approval drained the balance since our check.
			return leave.ErrInsufficientBalance
		}

		res = tx.Model(&leaveDatamodel.LeaveRequest{}).
			Where("id = ? AND status = ?", leaveID, leaveDatamodel.StatusPending).
			Updates(map[string]interface{}{
				"status":      leaveDatamodel.StatusApproved,
				"approved_by": approverID,
				"decision_at": decisionAt,
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race to a concurrent decision; report what happened
			// and let the rollback undo the debit.
			var current leaveDatamodel.LeaveRequest
			if err := tx.Where("id = ?", leaveID).First(&current).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return leave.ErrLeaveNotFound
				}
				return err
			}
			switch current.Status {
			case leaveDatamodel.StatusApproved:
				return leave.ErrAlreadyApproved
			case leaveDatamodel.StatusRejected:
				return leave.ErrAlreadyRejected
			default:
				return leave.ErrNotPending
			}
		}

		return nil
	})
}

// Reject flips a pending request to REJECTED. The WHERE clause doubles as the
// terminal-state guard under concurrent decisions.
func (r *LeaveRepository) Reject(leaveID, approverID int64, decisionAt time.Time) error {
	res := r.db.Model(&leaveDatamodel.LeaveRequest{}).
		Where("id = ? AND status = ?", leaveID, leaveDatamodel.StatusPending).
		Updates(map[string]interface{}{
			"status":      leaveDatamodel.StatusRejected,
			"approved_by": approverID,
			"decision_at": decisionAt,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return leave.ErrNotPending
	}
	return nil
}
