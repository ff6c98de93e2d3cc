package leave

import (
	"context"
	"log/slog"
	"time"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/core/events"
)

// Repository defines the data access methods for leave requests. Approve and
// Reject are conditional writes: they only touch rows still in the state the
// caller observed, and report the collision otherwise.
type Repository interface {
	Create(req *LeaveRequest) error
	GetByID(id int64) (*LeaveRequest, error)
	GetByRequester(requesterID int64, limit, offset int) ([]*LeaveRequest, error)
	GetPending(limit, offset int) ([]*LeaveRequest, error)
	GetAll(limit, offset int) ([]*LeaveRequest, error)
	HasOverlapping(requesterID int64, start, end time.Time) (bool, error)
	ApproveAndDebit(leaveID, requesterID, approverID int64, days int, decisionAt time.Time) error
	Reject(leaveID, approverID int64, decisionAt time.Time) error
}

// UserDirectory is the user-lookup capability the state machine depends on.
// Keeping it an injected interface avoids coupling this package to the user
// package's persistence.
type UserDirectory interface {
	GetByID(id int64) (*userDatamodel.User, error)
}

// BalanceEngine brings a user's balance current before any balance-sensitive
// decision. Callers never assume freshness.
type BalanceEngine interface {
	EnsureCurrentYear(u *userDatamodel.User) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// Service handles the leave request lifecycle.
type Service struct {
	repo    Repository
	users   UserDirectory
	balance BalanceEngine
	bus     EventPublisher
	clock   Clock
	logger  *slog.Logger
}

func NewService(repo Repository, users UserDirectory, balance BalanceEngine, bus EventPublisher, clock Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	return &Service{
		repo:    repo,
		users:   users,
		balance: balance,
		bus:     bus,
		clock:   clock,
		logger:  logger,
	}
}

// CreateLeave validates dates and balance, then creates a PENDING request.
// The balance is only checked here, never debited: reservation happens at
// approval, so the overlap check is what prevents double-submission.
func (s *Service) CreateLeave(requesterID int64, dto CreateLeaveDTO) (*LeaveRequest, error) {
	start, end, err := dto.ParseDates()
	if err != nil {
		s.logger.Warn("leave creation rejected: bad dates",
			"requester_id", requesterID,
			"start", dto.StartDate,
			"end", dto.EndDate)
		return nil, err
	}

	requester, err := s.users.GetByID(requesterID)
	if err != nil {
		s.logger.Error("failed to load requester", "error", err, "requester_id", requesterID)
		return nil, ErrRequesterNotFound
	}

	if err := s.balance.EnsureCurrentYear(requester); err != nil {
		s.logger.Error("yearly balance refresh failed", "error", err, "requester_id", requesterID)
		return nil, err
	}

	days, err := CalculateLeaveDays(start, end)
	if err != nil {
		return nil, err
	}

	if days > requester.LeaveBalance {
		s.logger.Warn("leave creation rejected: insufficient balance",
			"requester_id", requesterID,
			"requested", days,
			"available", requester.LeaveBalance)
		return nil, ErrInsufficientBalance
	}

	startDay := NormalizeDate(start)
	endDay := NormalizeDate(end)

	overlapping, err := s.repo.HasOverlapping(requesterID, startDay, endDay)
	if err != nil {
		s.logger.Error("overlap check failed", "error", err, "requester_id", requesterID)
		return nil, err
	}
	if overlapping {
		return nil, ErrOverlappingRequest
	}

	now := s.clock.Now()
	req := &LeaveRequest{
		RequesterID: requesterID,
		StartDate:   startDay,
		EndDate:     endDay,
		Days:        days,
		Reason:      dto.Reason,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create leave request", "error", err, "requester_id", requesterID)
		return nil, err
	}

	s.logger.Info("leave request created",
		"leave_id", req.ID,
		"requester_id", requesterID,
		"days", days,
		"start", startDay.Format("2006-01-02"),
		"end", endDay.Format("2006-01-02"))

	return req, nil
}

// ApproveLeave moves a pending request to APPROVED and debits the requester's
// balance. The debit and the status flip happen as one atomic conditional
// write in the repository, so concurrent approvals against the same requester
// cannot over-draw the balance.
func (s *Service) ApproveLeave(leaveID, approverID int64) (*LeaveRequest, error) {
	req, err := s.repo.GetByID(leaveID)
	if err != nil {
		return nil, ErrLeaveNotFound
	}

	switch req.Status {
	case StatusApproved:
		return nil, ErrAlreadyApproved
	case StatusRejected:
		return nil, ErrAlreadyRejected
	}

	requester, err := s.users.GetByID(req.RequesterID)
	if err != nil {
		s.logger.Error("requester lookup failed during approval",
			"error", err,
			"leave_id", leaveID,
			"requester_id", req.RequesterID)
		return nil, ErrRequesterNotFound
	}

	// The request may predate a year rollover; re-validate against a current
	// balance, not the one seen at submission.
	if err := s.balance.EnsureCurrentYear(requester); err != nil {
		s.logger.Error("yearly balance refresh failed during approval",
			"error", err,
			"leave_id", leaveID,
			"requester_id", requester.ID)
		return nil, err
	}

	if req.Days > requester.LeaveBalance {
		s.logger.Warn("approval rejected: insufficient balance",
			"leave_id", leaveID,
			"requested", req.Days,
			"available", requester.LeaveBalance)
		return nil, ErrInsufficientBalance
	}

	if requester.LeaveBalance-req.Days < 0 {
		// Unreachable given the check above; asserted anyway.
		return nil, ErrNegativeBalance
	}

	decisionAt := s.clock.Now()
	if err := s.repo.ApproveAndDebit(leaveID, requester.ID, approverID, req.Days, decisionAt); err != nil {
		s.logger.Warn("approval write failed", "error", err, "leave_id", leaveID)
		return nil, err
	}

	req.Status = StatusApproved
	req.ApprovedBy = &approverID
	req.DecisionAt = &decisionAt
	req.UpdatedAt = decisionAt

	s.logger.Info("leave request approved",
		"leave_id", leaveID,
		"approver_id", approverID,
		"requester_id", requester.ID,
		"days", req.Days)

	if s.bus != nil {
		if err := s.bus.Publish(context.Background(), events.NewLeaveApprovedEvent(leaveID, requester.ID, approverID, req.Days)); err != nil {
			s.logger.Error("failed to publish approval event", "error", err, "leave_id", leaveID)
		}
	}

	return req, nil
}

// RejectLeave moves a pending request to REJECTED. Balances are untouched.
func (s *Service) RejectLeave(leaveID, approverID int64, reason string) (*LeaveRequest, error) {
	req, err := s.repo.GetByID(leaveID)
	if err != nil {
		return nil, ErrLeaveNotFound
	}

	if req.Status != StatusPending {
		return nil, ErrNotPending
	}

	decisionAt := s.clock.Now()
	if err := s.repo.Reject(leaveID, approverID, decisionAt); err != nil {
		s.logger.Warn("rejection write failed", "error", err, "leave_id", leaveID)
		return nil, err
	}

	req.Status = StatusRejected
	req.ApprovedBy = &approverID
	req.DecisionAt = &decisionAt
	req.UpdatedAt = decisionAt

	s.logger.Info("leave request rejected",
		"leave_id", leaveID,
		"approver_id", approverID,
		"reason", reason)

	if s.bus != nil {
		if err := s.bus.Publish(context.Background(), events.NewLeaveRejectedEvent(leaveID, req.RequesterID, approverID, reason)); err != nil {
			s.logger.Error("failed to publish rejection event", "error", err, "leave_id", leaveID)
		}
	}

	return req, nil
}

// GetMyLeaves retrieves leave requests for the authenticated requester.
func (s *Service) GetMyLeaves(requesterID int64, limit, offset int) ([]*LeaveRequest, error) {
	leaves, err := s.repo.GetByRequester(requesterID, limit, offset)
	if err != nil {
		s.logger.Error("failed to list leaves", "error", err, "requester_id", requesterID)
		return nil, err
	}
	return leaves, nil
}

// GetPendingLeaves lists requests still awaiting a decision, oldest first.
func (s *Service) GetPendingLeaves(limit, offset int) ([]*LeaveRequest, error) {
	leaves, err := s.repo.GetPending(limit, offset)
	if err != nil {
		s.logger.Error("failed to list pending leaves", "error", err)
		return nil, err
	}
	return leaves, nil
}

// GetAllLeaves lists every leave request regardless of status.
func (s *Service) GetAllLeaves(limit, offset int) ([]*LeaveRequest, error) {
	leaves, err := s.repo.GetAll(limit, offset)
	if err != nil {
		s.logger.Error("failed to list all leaves", "error", err)
		return nil, err
	}
	return leaves, nil
}
