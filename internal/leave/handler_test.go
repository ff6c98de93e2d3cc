package leave

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/leave-management/internal/auth"
)

type stubService struct {
	createErr  error
	approveErr error
}

func (s *stubService) CreateLeave(requesterID int64, dto CreateLeaveDTO) (*LeaveRequest, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &LeaveRequest{ID: 1, RequesterID: requesterID, Status: StatusPending}, nil
}

func (s *stubService) ApproveLeave(leaveID, approverID int64) (*LeaveRequest, error) {
	if s.approveErr != nil {
		return nil, s.approveErr
	}
	now := time.Now()
	return &LeaveRequest{ID: leaveID, Status: StatusApproved, ApprovedBy: &approverID, DecisionAt: &now}, nil
}

func (s *stubService) RejectLeave(leaveID, approverID int64, reason string) (*LeaveRequest, error) {
	return &LeaveRequest{ID: leaveID, Status: StatusRejected}, nil
}

func (s *stubService) GetMyLeaves(requesterID int64, limit, offset int) ([]*LeaveRequest, error) {
	return nil, nil
}

func (s *stubService) GetPendingLeaves(limit, offset int) ([]*LeaveRequest, error) {
	return nil, nil
}

func (s *stubService) GetAllLeaves(limit, offset int) ([]*LeaveRequest, error) {
	return nil, nil
}

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var _ = ginkgo.Describe("Handler error responses", func() {
	authedRequest := func(method, target, body string) *http.Request {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		u := &auth.User{ID: 1, Email: "staff@example.com", Role: auth.RoleStaff}
		return req.WithContext(auth.ContextWithUser(req.Context(), u))
	}

	withURLParam := func(req *http.Request, key, value string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add(key, value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	decode := func(rec *httptest.ResponseRecorder) errorEnvelope {
		var envelope errorEnvelope
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &envelope)).To(gomega.Succeed())
		return envelope
	}

	ginkgo.It("maps insufficient balance to a structured 422", func() {
		handler := NewHandler(&stubService{createErr: ErrInsufficientBalance})
		rec := httptest.NewRecorder()

		handler.CreateLeave(rec, authedRequest(http.MethodPost, "/api/v1/leaves", `{"start_date":"2026-04-01","end_date":"2026-04-05"}`))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnprocessableEntity))
		envelope := decode(rec)
		gomega.Expect(envelope.Error.Code).To(gomega.Equal("INSUFFICIENT_BALANCE"))
		gomega.Expect(envelope.Error.Type).To(gomega.Equal("UNPROCESSABLE"))
	})

	ginkgo.It("maps a decided request to a structured 409", func() {
		handler := NewHandler(&stubService{approveErr: ErrAlreadyApproved})
		rec := httptest.NewRecorder()

		req := withURLParam(authedRequest(http.MethodPatch, "/api/v1/leaves/7/approve", ""), "id", "7")
		handler.ApproveLeave(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusConflict))
		envelope := decode(rec)
		gomega.Expect(envelope.Error.Code).To(gomega.Equal("ALREADY_APPROVED"))
		gomega.Expect(envelope.Error.Type).To(gomega.Equal("CONFLICT"))
	})

	ginkgo.It("maps an unknown leave id to a structured 404", func() {
		handler := NewHandler(&stubService{approveErr: ErrLeaveNotFound})
		rec := httptest.NewRecorder()

		req := withURLParam(authedRequest(http.MethodPatch, "/api/v1/leaves/999/approve", ""), "id", "999")
		handler.ApproveLeave(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
		gomega.Expect(decode(rec).Error.Code).To(gomega.Equal("LEAVE_NOT_FOUND"))
	})

	ginkgo.It("hides unexpected errors behind a plain 500", func() {
		handler := NewHandler(&stubService{createErr: errors.New("connection refused")})
		rec := httptest.NewRecorder()

		handler.CreateLeave(rec, authedRequest(http.MethodPost, "/api/v1/leaves", `{"start_date":"2026-04-01","end_date":"2026-04-05"}`))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		envelope := decode(rec)
		gomega.Expect(envelope.Error.Message).To(gomega.Equal("internal server error"))
		gomega.Expect(envelope.Error.Message).ToNot(gomega.ContainSubstring("connection refused"))
	})
})
