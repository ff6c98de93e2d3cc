package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/dashboard"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, userHandler *user.Handler, leaveHandler *leave.Handler, dashboardHandler *dashboard.Handler, rbac *auth.RBACAuthorization, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware. RequestID runs before logging so every log
	// line carries the trace id.
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)

				// User routes
				if userHandler != nil {
					pr.Get("/users/me", userHandler.GetCurrentUser)

					pr.Group(func(ar chi.Router) {
						ar.Use(rbac.RequireAdmin())
						ar.Get("/users", userHandler.ListUsers)
						ar.Post("/users", userHandler.CreateUser)
						ar.Post("/users/invite", userHandler.InviteUser)
					})
				}

				// Leave routes
				if leaveHandler != nil {
					pr.Route("/leaves", func(lr chi.Router) {
						lr.Post("/", leaveHandler.CreateLeave) // POST /leaves
						lr.Get("/my", leaveHandler.GetMyLeaves) // GET /leaves/my

						// Manager routes
						lr.Group(func(mr chi.Router) {
							mr.Use(rbac.RequireManager())
							mr.Get("/pending", leaveHandler.GetPendingLeaves)       // GET /leaves/pending
							mr.Patch("/{id}/approve", leaveHandler.ApproveLeave)    // PATCH /leaves/:id/approve
							mr.Patch("/{id}/reject", leaveHandler.RejectLeave)      // PATCH /leaves/:id/reject
						})

						// Admin routes
						lr.Group(func(ar chi.Router) {
							ar.Use(rbac.RequireAdmin())
							ar.Get("/all", leaveHandler.GetAllLeaves) // GET /leaves/all
						})
					})
				}

				// Dashboard routes (admin only)
				if dashboardHandler != nil {
					pr.Group(func(dr chi.Router) {
						dr.Use(rbac.RequireAdmin())
						dr.Get("/dashboard/stats", dashboardHandler.GetStats)
						dr.Get("/dashboard/users", dashboardHandler.GetUsersOverview)
					})
				}
			})
		}
	})
}
