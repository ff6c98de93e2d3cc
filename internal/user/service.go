package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/core/events"
)

type Repository interface {
	Create(record *userDatamodel.User) error
	GetByID(userID int64) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	GetAll(limit, offset int) ([]*userDatamodel.User, error)
}

type PasswordHasher interface {
	HashPassword(password string) (string, error)
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

type Service struct {
	repo     Repository
	hasher   PasswordHasher
	eventBus EventPublisher
	clock    Clock
	loginURL string
	logger   *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, eventBus EventPublisher, loginURL string, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		eventBus: eventBus,
		clock:    SystemClock(),
		loginURL: loginURL,
		logger:   logger,
	}
}

// WithClock overrides the service clock, used by tests.
func (s *Service) WithClock(clock Clock) *Service {
	s.clock = clock
	return s
}

// Create makes a user account with a caller-supplied password. New accounts
// start the current leave year with their full entitlement and no carry-over.
func (s *Service) Create(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(dto.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	record := s.newRecord(dto.FullName, dto.Email, hash, dto.Role, dto.AnnualLeaveEntitlement)
	if err := s.repo.Create(record); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", "user_id", record.ID, "email", record.Email, "role", record.Role)
	return FromDataModel(record), nil
}

// Invite creates a user account with a generated temporary password and
// publishes an invite event so the mailer can deliver credentials.
func (s *Service) Invite(dto InviteUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByEmail(dto.Email); err == nil {
		return nil, ErrEmailTaken
	}

	tempPassword, err := generateTemporaryPassword()
	if err != nil {
		return nil, fmt.Errorf("generate temporary password: %w", err)
	}

	hash, err := s.hasher.HashPassword(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	record := s.newRecord(dto.FullName, dto.Email, hash, dto.Role, dto.AnnualLeaveEntitlement)
	if err := s.repo.Create(record); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	event := events.NewUserInvitedEvent(record.ID, record.Email, record.FullName, record.Role, tempPassword, s.loginURL)
	if err := s.eventBus.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish user invited event", "user_id", record.ID, "error", err)
	}

	s.logger.Info("user invited", "user_id", record.ID, "email", record.Email, "role", record.Role)
	return FromDataModel(record), nil
}

func (s *Service) GetByID(userID int64) (*User, error) {
	record, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	return FromDataModel(record), nil
}

func (s *Service) GetAll(limit, offset int) ([]*User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	records, err := s.repo.GetAll(limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return FromDataModelSlice(records), nil
}

func (s *Service) newRecord(fullName, email, passwordHash, role string, entitlement *int) *userDatamodel.User {
	annual := userDatamodel.DefaultAnnualEntitlement
	if entitlement != nil {
		annual = *entitlement
	}
	now := s.clock.Now()
	return &userDatamodel.User{
		FullName:               fullName,
		Email:                  email,
		PasswordHash:           passwordHash,
		Role:                   role,
		AnnualLeaveEntitlement: annual,
		LeaveBalance:           annual,
		CarryOverBalance:       0,
		LeaveYear:              now.Year(),
		IsActive:               true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

func generateTemporaryPassword() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
