package leave

import (
	"context"
	"errors"
	"log/slog"
	"time"

	userDatamodel "github.com/frahmantamala/leave-management/internal/core/datamodel/user"
	"github.com/frahmantamala/leave-management/internal/core/events"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// Mock repository backed by maps
type mockLeaveRepository struct {
	requests     map[int64]*LeaveRequest
	nextID       int64
	overlapping  bool
	approveErr   error
	rejectErr    error
	approveCalls int
}

func newMockLeaveRepository() *mockLeaveRepository {
	return &mockLeaveRepository{
		requests: make(map[int64]*LeaveRequest),
		nextID:   1,
	}
}

func (m *mockLeaveRepository) Create(req *LeaveRequest) error {
	req.ID = m.nextID
	m.nextID++
	stored := *req
	m.requests[req.ID] = &stored
	return nil
}

func (m *mockLeaveRepository) GetByID(id int64) (*LeaveRequest, error) {
	if req, ok := m.requests[id]; ok {
		copied := *req
		return &copied, nil
	}
	return nil, ErrLeaveNotFound
}

func (m *mockLeaveRepository) GetByRequester(requesterID int64, limit, offset int) ([]*LeaveRequest, error) {
	var result []*LeaveRequest
	for _, req := range m.requests {
		if req.RequesterID == requesterID {
			result = append(result, req)
		}
	}
	return result, nil
}

func (m *mockLeaveRepository) GetPending(limit, offset int) ([]*LeaveRequest, error) {
	var result []*LeaveRequest
	for _, req := range m.requests {
		if req.Status == StatusPending {
			result = append(result, req)
		}
	}
	return result, nil
}

func (m *mockLeaveRepository) GetAll(limit, offset int) ([]*LeaveRequest, error) {
	var result []*LeaveRequest
	for _, req := range m.requests {
		result = append(result, req)
	}
	return result, nil
}

func (m *mockLeaveRepository) HasOverlapping(requesterID int64, start, end time.Time) (bool, error) {
	return m.overlapping, nil
}

func (m *mockLeaveRepository) ApproveAndDebit(leaveID, requesterID, approverID int64, days int, decisionAt time.Time) error {
	m.approveCalls++
	if m.approveErr != nil {
		return m.approveErr
	}
	req := m.requests[leaveID]
	req.Status = StatusApproved
	req.ApprovedBy = &approverID
	req.DecisionAt = &decisionAt
	return nil
}

func (m *mockLeaveRepository) Reject(leaveID, approverID int64, decisionAt time.Time) error {
	if m.rejectErr != nil {
		return m.rejectErr
	}
	req := m.requests[leaveID]
	req.Status = StatusRejected
	req.ApprovedBy = &approverID
	req.DecisionAt = &decisionAt
	return nil
}

type mockUserDirectory struct {
	users map[int64]*userDatamodel.User
}

func (m *mockUserDirectory) GetByID(id int64) (*userDatamodel.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

type mockBalanceEngine struct {
	err   error
	calls int
}

func (m *mockBalanceEngine) EnsureCurrentYear(u *userDatamodel.User) error {
	m.calls++
	return m.err
}

type mockEventPublisher struct {
	published []events.Event
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = ginkgo.Describe("LeaveService", func() {
	var (
		service   *Service
		repo      *mockLeaveRepository
		users     *mockUserDirectory
		balance   *mockBalanceEngine
		bus       *mockEventPublisher
		requester *userDatamodel.User
		clock     fixedClock
	)

	ginkgo.BeforeEach(func() {
		repo = newMockLeaveRepository()
		requester = &userDatamodel.User{
			ID:                     1,
			Email:                  "staff@example.com",
			FullName:               "Staff Member",
			Role:                   userDatamodel.RoleStaff,
			AnnualLeaveEntitlement: 25,
			LeaveBalance:           10,
			LeaveYear:              2026,
			IsActive:               true,
		}
		users = &mockUserDirectory{users: map[int64]*userDatamodel.User{1: requester}}
		balance = &mockBalanceEngine{}
		bus = &mockEventPublisher{}
		clock = fixedClock{now: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)}
		service = NewService(repo, users, balance, bus, clock, slog.Default())
	})

	ginkgo.Describe("CreateLeave", func() {
		ginkgo.It("creates a pending request with computed days", func() {
			dto := CreateLeaveDTO{StartDate: "2026-04-01", EndDate: "2026-04-05", Reason: "family"}

			req, err := service.CreateLeave(1, dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(req.Status).To(gomega.Equal(StatusPending))
			gomega.Expect(req.Days).To(gomega.Equal(5))
			gomega.Expect(req.RequesterID).To(gomega.Equal(int64(1)))
			gomega.Expect(req.ID).To(gomega.BeNumerically(">", 0))
		})

		ginkgo.It("refreshes the yearly balance before checking it", func() {
			dto := CreateLeaveDTO{StartDate: "2026-04-01", EndDate: "2026-04-02"}

			_, err := service.CreateLeave(1, dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(balance.calls).To(gomega.Equal(1))
		})

		ginkgo.It("rejects a request exceeding the balance", func() {
			dto := CreateLeaveDTO{StartDate: "2026-04-01", EndDate: "2026-04-15"}

			_, err := service.CreateLeave(1, dto)

			gomega.Expect(err).To(gomega.Equal(ErrInsufficientBalance))
		})

		ginkgo.It("allows a request that exactly drains the balance", func() {
			dto := CreateLeaveDTO{StartDate: "2026-04-01", EndDate: "2026-04-10"}

			req, err := service.CreateLeave(1, dto)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(req.Days).To(gomega.Equal(10))
		})

		ginkgo.It("rejects overlapping requests", func() {
			repo.overlapping = true
			dto := CreateLeaveDTO{StartDate: "2026-04-01", EndDate: "2026-04-02"}

			_, err := service.CreateLeave(1, dto)

			gomega.Expect(err).To(gomega.Equal(ErrOverlappingRequest))
		})

		ginkgo.It("rejects an inverted date range", func() {
			dto := CreateLeaveDTO{StartDate: "2026-04-05", EndDate: "2026-04-01"}

			_, err := service.CreateLeave(1, dto)

			gomega.Expect(err).To(gomega.Equal(ErrInvalidRange))
		})

		ginkgo.It("rejects an unknown requester", func() {
			dto := CreateLeaveDTO{StartDate: "2026-04-01", EndDate: "2026-04-02"}

			_, err := service.CreateLeave(42, dto)

			gomega.Expect(err).To(gomega.Equal(ErrRequesterNotFound))
		})
	})

	ginkgo.Describe("ApproveLeave", func() {
		var leaveID int64

		ginkgo.BeforeEach(func() {
			dto := CreateLeaveDTO{StartDate: "2026-04-01", EndDate: "2026-04-05"}
			req, err := service.CreateLeave(1, dto)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			leaveID = req.ID
		})

		ginkgo.It("approves a pending request and publishes an event", func() {
			req, err := service.ApproveLeave(leaveID, 2)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(req.Status).To(gomega.Equal(StatusApproved))
			gomega.Expect(*req.ApprovedBy).To(gomega.Equal(int64(2)))
			gomega.Expect(req.DecisionAt).ToNot(gomega.BeNil())
			gomega.Expect(bus.published).To(gomega.HaveLen(1))
			gomega.Expect(bus.published[0].EventType()).To(gomega.Equal(events.EventTypeLeaveApproved))
		})

		ginkgo.It("returns ErrLeaveNotFound for a missing request", func() {
			_, err := service.ApproveLeave(999, 2)
			gomega.Expect(err).To(gomega.Equal(ErrLeaveNotFound))
		})

		ginkgo.It("refuses to approve twice", func() {
			_, err := service.ApproveLeave(leaveID, 2)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ApproveLeave(leaveID, 2)
			gomega.Expect(err).To(gomega.Equal(ErrAlreadyApproved))
		})

		ginkgo.It("refuses to approve a rejected request", func() {
			_, err := service.RejectLeave(leaveID, 2, "no coverage")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ApproveLeave(leaveID, 2)
			gomega.Expect(err).To(gomega.Equal(ErrAlreadyRejected))
		})

		ginkgo.It("rejects approval when the balance has drained since submission", func() {
			requester.LeaveBalance = 2

			_, err := service.ApproveLeave(leaveID, 2)

			gomega.Expect(err).To(gomega.Equal(ErrInsufficientBalance))
			gomega.Expect(repo.approveCalls).To(gomega.Equal(0))
		})

		ginkgo.It("surfaces a conditional-write race as its sentinel", func() {
			repo.approveErr = ErrAlreadyApproved

			_, err := service.ApproveLeave(leaveID, 2)

			gomega.Expect(err).To(gomega.Equal(ErrAlreadyApproved))
			gomega.Expect(bus.published).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("RejectLeave", func() {
		var leaveID int64

		ginkgo.BeforeEach(func() {
			dto := CreateLeaveDTO{StartDate: "2026-04-01", EndDate: "2026-04-03"}
			req, err := service.CreateLeave(1, dto)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			leaveID = req.ID
		})

		ginkgo.It("rejects a pending request and publishes an event with the reason", func() {
			req, err := service.RejectLeave(leaveID, 2, "team at capacity")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(req.Status).To(gomega.Equal(StatusRejected))
			gomega.Expect(bus.published).To(gomega.HaveLen(1))

			rejected, ok := bus.published[0].(*events.LeaveRejectedEvent)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(rejected.Reason).To(gomega.Equal("team at capacity"))
		})

		ginkgo.It("does not touch the balance", func() {
			before := requester.LeaveBalance

			_, err := service.RejectLeave(leaveID, 2, "")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(requester.LeaveBalance).To(gomega.Equal(before))
		})

		ginkgo.It("refuses to reject a decided request", func() {
			_, err := service.RejectLeave(leaveID, 2, "")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.RejectLeave(leaveID, 2, "again")
			gomega.Expect(err).To(gomega.Equal(ErrNotPending))
		})

		ginkgo.It("returns ErrLeaveNotFound for a missing request", func() {
			_, err := service.RejectLeave(999, 2, "")
			gomega.Expect(err).To(gomega.Equal(ErrLeaveNotFound))
		})
	})
})
