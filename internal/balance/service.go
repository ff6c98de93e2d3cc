package balance

import (
	"context"
	"log/slog"
	"time"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
)

// MaxCarryOverDays is the hard cap on unused days transferred into a new
// year. Anything above it is forfeited, not banked.
const MaxCarryOverDays = 5

// UserRepository defines the persistence the lifecycle engine needs. The
// reset write is conditional on the stored leave_year so concurrent refreshes
// collapse into a single idempotent set.
type UserRepository interface {
	GetByID(id int64) (*userDatamodel.User, error)
	GetStale(year int) ([]*userDatamodel.User, error)
	ApplyYearlyReset(userID int64, year, newBalance, carryOver int) (bool, error)
}

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func SystemClock() Clock { return systemClock{} }

// Service maintains leave balances across calendar-year boundaries.
type Service struct {
	repo   UserRepository
	clock  Clock
	logger *slog.Logger
}

func NewService(repo UserRepository, clock Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	return &Service{
		repo:   repo,
		clock:  clock,
		logger: logger,
	}
}

// carryOver computes the capped carry-over from a previous balance. Negative
// balances are treated as zero.
func carryOver(previousBalance int) int {
	unused := previousBalance
	if unused < 0 {
		unused = 0
	}
	if unused > MaxCarryOverDays {
		return MaxCarryOverDays
	}
	return unused
}

// EnsureCurrentYear brings a user's balance current. It is a no-op when the
// stored leave year already covers the current one, and safe to call on every
// login and before every balance-sensitive operation. A user inactive for
// several years still carries over at most MaxCarryOverDays: the reset is a
// single set decided by the state at this call, not compounded per skipped
// year.
func (s *Service) EnsureCurrentYear(u *userDatamodel.User) error {
	if u == nil {
		return nil
	}

	year := s.clock.Now().Year()
	if u.LeaveYear >= year {
		return nil
	}

	carry := carryOver(u.LeaveBalance)
	newBalance := u.AnnualLeaveEntitlement + carry

	applied, err := s.repo.ApplyYearlyReset(u.ID, year, newBalance, carry)
	if err != nil {
		s.logger.Error("yearly reset write failed", "error", err, "user_id", u.ID, "year", year)
		return err
	}

	if !applied {
		// A concurrent caller refreshed first; adopt whatever it wrote.
		fresh, err := s.repo.GetByID(u.ID)
		if err != nil {
			return err
		}
		u.LeaveBalance = fresh.LeaveBalance
		u.CarryOverBalance = fresh.CarryOverBalance
		u.LeaveYear = fresh.LeaveYear
		return nil
	}

	u.CarryOverBalance = carry
	u.LeaveBalance = newBalance
	u.LeaveYear = year

	s.logger.Info("leave balance reset for new year",
		"user_id", u.ID,
		"year", year,
		"carry_over", carry,
		"new_balance", newBalance)

	return nil
}

// RunYearlyReset sweeps every user whose balance is still pinned to a past
// year and applies the same carry-over computation. Gating on the stored
// leave year makes the sweep idempotent within a calendar year: running it
// twice, or after approvals, never double-applies carry-over. Per-user
// failures are logged and skipped; one bad row does not abort the batch.
func (s *Service) RunYearlyReset(ctx context.Context) (int, error) {
	year := s.clock.Now().Year()
	s.logger.Info("starting yearly leave reset", "year", year)

	users, err := s.repo.GetStale(year)
	if err != nil {
		s.logger.Error("yearly reset failed to list users", "error", err, "year", year)
		return 0, err
	}

	updated := 0
	for _, u := range users {
		select {
		case <-ctx.Done():
			s.logger.Warn("yearly reset interrupted", "year", year, "updated", updated)
			return updated, ctx.Err()
		default:
		}

		carry := carryOver(u.LeaveBalance)
		newBalance := u.AnnualLeaveEntitlement + carry

		applied, err := s.repo.ApplyYearlyReset(u.ID, year, newBalance, carry)
		if err != nil {
			s.logger.Error("yearly reset failed for user", "error", err, "user_id", u.ID, "year", year)
			continue
		}
		if applied {
			updated++
		}
	}

	s.logger.Info("yearly leave reset complete", "year", year, "updated", updated)
	return updated, nil
}
