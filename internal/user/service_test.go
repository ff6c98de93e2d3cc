package user

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/frahmantamala/leave-management/internal"
	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestUser(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "User Module Suite")
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type mockRepository struct {
	usersByID    map[int64]*userDatamodel.User
	usersByEmail map[string]*userDatamodel.User
	nextID       int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		usersByID:    make(map[int64]*userDatamodel.User),
		usersByEmail: make(map[string]*userDatamodel.User),
		nextID:       1,
	}
}

func (m *mockRepository) Create(record *userDatamodel.User) error {
	record.ID = m.nextID
	m.nextID++
	m.usersByID[record.ID] = record
	m.usersByEmail[record.Email] = record
	return nil
}

func (m *mockRepository) GetByID(userID int64) (*userDatamodel.User, error) {
	if u, ok := m.usersByID[userID]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (m *mockRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	if u, ok := m.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, ErrNotFound
}

func (m *mockRepository) GetAll(limit, offset int) ([]*userDatamodel.User, error) {
	var all []*userDatamodel.User
	for _, u := range m.usersByID {
		all = append(all, u)
	}
	return all, nil
}

type mockHasher struct {
	hashed []string
}

func (m *mockHasher) HashPassword(password string) (string, error) {
	m.hashed = append(m.hashed, password)
	return "hashed:" + password, nil
}

type mockEventPublisher struct {
	published []events.Event
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = ginkgo.Describe("UserService", func() {
	var (
		service *Service
		repo    *mockRepository
		hasher  *mockHasher
		bus     *mockEventPublisher
		clock   fixedClock
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		hasher = &mockHasher{}
		bus = &mockEventPublisher{}
		clock = fixedClock{now: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)}
		service = NewService(repo, hasher, bus, "https://leave.example.com/login", slog.Default()).WithClock(clock)
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("creates an active user with a hashed password", func() {
			created, err := service.Create(CreateUserDTO{
				FullName: "Sari Staff",
				Email:    "sari@example.com",
				Password: "supersecret",
				Role:     userDatamodel.RoleStaff,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.ID).To(gomega.BeNumerically(">", 0))
			gomega.Expect(created.IsActive).To(gomega.BeTrue())
			gomega.Expect(repo.usersByID[created.ID].PasswordHash).To(gomega.Equal("hashed:supersecret"))
		})

		ginkgo.It("seeds the balance from the default entitlement", func() {
			created, err := service.Create(CreateUserDTO{
				FullName: "Sari Staff",
				Email:    "sari@example.com",
				Password: "supersecret",
				Role:     userDatamodel.RoleStaff,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.AnnualLeaveEntitlement).To(gomega.Equal(userDatamodel.DefaultAnnualEntitlement))
			gomega.Expect(created.LeaveBalance).To(gomega.Equal(userDatamodel.DefaultAnnualEntitlement))
			gomega.Expect(created.CarryOverBalance).To(gomega.Equal(0))
			gomega.Expect(created.LeaveYear).To(gomega.Equal(2026))
		})

		ginkgo.It("honors a custom entitlement", func() {
			entitlement := 30
			created, err := service.Create(CreateUserDTO{
				FullName:               "Maya Manager",
				Email:                  "maya@example.com",
				Password:               "supersecret",
				Role:                   userDatamodel.RoleManager,
				AnnualLeaveEntitlement: &entitlement,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.AnnualLeaveEntitlement).To(gomega.Equal(30))
			gomega.Expect(created.LeaveBalance).To(gomega.Equal(30))
		})

		ginkgo.It("rejects a duplicate email", func() {
			dto := CreateUserDTO{
				FullName: "Sari Staff",
				Email:    "sari@example.com",
				Password: "supersecret",
				Role:     userDatamodel.RoleStaff,
			}
			_, err := service.Create(dto)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Create(dto)
			gomega.Expect(err).To(gomega.Equal(ErrEmailTaken))
		})

		ginkgo.It("rejects an unknown role", func() {
			_, err := service.Create(CreateUserDTO{
				FullName: "Sari Staff",
				Email:    "sari@example.com",
				Password: "supersecret",
				Role:     "SUPERVISOR",
			})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())

			details, ok := appErr.Details.(internal.ValidationErrors)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(details.Errors[0].Field).To(gomega.Equal("role"))
			gomega.Expect(details.Errors[0].Code).To(gomega.Equal(string(internal.ErrCodeInvalidRole)))
		})

		ginkgo.It("rejects a short password", func() {
			_, err := service.Create(CreateUserDTO{
				FullName: "Sari Staff",
				Email:    "sari@example.com",
				Password: "short",
				Role:     userDatamodel.RoleStaff,
			})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
			gomega.Expect(appErr.Error()).To(gomega.ContainSubstring("at least 8 characters"))
		})
	})

	ginkgo.Describe("Invite", func() {
		ginkgo.It("generates a temporary password and publishes the invite event", func() {
			invited, err := service.Invite(InviteUserDTO{
				FullName: "New Hire",
				Email:    "hire@example.com",
				Role:     userDatamodel.RoleStaff,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(invited.IsActive).To(gomega.BeTrue())

			gomega.Expect(hasher.hashed).To(gomega.HaveLen(1))
			gomega.Expect(hasher.hashed[0]).ToNot(gomega.BeEmpty())

			gomega.Expect(bus.published).To(gomega.HaveLen(1))
			event, ok := bus.published[0].(*events.UserInvitedEvent)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(event.Email).To(gomega.Equal("hire@example.com"))
			gomega.Expect(event.TemporaryPassword).To(gomega.Equal(hasher.hashed[0]))
			gomega.Expect(event.LoginURL).To(gomega.Equal("https://leave.example.com/login"))
		})

		ginkgo.It("generates distinct passwords per invite", func() {
			_, err := service.Invite(InviteUserDTO{FullName: "A", Email: "a@example.com", Role: userDatamodel.RoleStaff})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.Invite(InviteUserDTO{FullName: "B", Email: "b@example.com", Role: userDatamodel.RoleStaff})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(hasher.hashed).To(gomega.HaveLen(2))
			gomega.Expect(hasher.hashed[0]).ToNot(gomega.Equal(hasher.hashed[1]))
		})

		ginkgo.It("rejects a duplicate email without publishing", func() {
			_, err := service.Invite(InviteUserDTO{FullName: "A", Email: "a@example.com", Role: userDatamodel.RoleStaff})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Invite(InviteUserDTO{FullName: "A again", Email: "a@example.com", Role: userDatamodel.RoleStaff})
			gomega.Expect(err).To(gomega.Equal(ErrEmailTaken))
			gomega.Expect(bus.published).To(gomega.HaveLen(1))
		})

		ginkgo.It("seeds the invited user like any other new account", func() {
			invited, err := service.Invite(InviteUserDTO{
				FullName: "New Hire",
				Email:    "hire@example.com",
				Role:     userDatamodel.RoleManager,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(invited.Role).To(gomega.Equal(userDatamodel.RoleManager))
			gomega.Expect(invited.LeaveBalance).To(gomega.Equal(userDatamodel.DefaultAnnualEntitlement))
			gomega.Expect(invited.LeaveYear).To(gomega.Equal(2026))
		})
	})

	ginkgo.Describe("GetByID", func() {
		ginkgo.It("returns ErrNotFound for a missing user", func() {
			_, err := service.GetByID(404)
			gomega.Expect(err).To(gomega.Equal(ErrNotFound))
		})
	})
})
