package auth

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RBACAuthorization", func() {
	var (
		rbac    *RBACAuthorization
		handler http.Handler
		called  bool
	)

	type errorBody struct {
		Error struct {
			Type    string `json:"type"`
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	ginkgo.BeforeEach(func() {
		rbac = NewRBACAuthorization(slog.New(slog.NewTextHandler(io.Discard, nil)))
		called = false
		handler = rbac.RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusNoContent)
		}))
	})

	requestAs := func(u *User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		if u != nil {
			req = req.WithContext(ContextWithUser(req.Context(), u))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	ginkgo.Context("when the user has the required role", func() {
		ginkgo.It("passes the request through", func() {
			rec := requestAs(&User{ID: 2, Role: RoleAdmin})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
			gomega.Expect(called).To(gomega.BeTrue())
		})
	})

	ginkgo.Context("when the user lacks the required role", func() {
		ginkgo.It("responds 403 with an insufficient-role error body", func() {
			rec := requestAs(&User{ID: 1, Role: RoleStaff})

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
			gomega.Expect(called).To(gomega.BeFalse())

			var body errorBody
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body.Error.Type).To(gomega.Equal("FORBIDDEN"))
			gomega.Expect(body.Error.Code).To(gomega.Equal("INSUFFICIENT_ROLE"))
		})
	})

	ginkgo.Context("when no user is present in the context", func() {
		ginkgo.It("responds 401 with a missing-user error body", func() {
			rec := requestAs(nil)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(called).To(gomega.BeFalse())

			var body errorBody
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(gomega.Succeed())
			gomega.Expect(body.Error.Type).To(gomega.Equal("UNAUTHORIZED"))
			gomega.Expect(body.Error.Code).To(gomega.Equal("MISSING_USER"))
		})
	})

	ginkgo.Context("manager-gated routes", func() {
		ginkgo.It("admits both managers and admins", func() {
			handler = rbac.RequireManager()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			}))

			rec := requestAs(&User{ID: 4, Role: RoleManager})
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))

			rec = requestAs(&User{ID: 2, Role: RoleAdmin})
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))

			rec = requestAs(&User{ID: 1, Role: RoleStaff})
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})
	})
})
