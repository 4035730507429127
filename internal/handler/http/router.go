package http

import (
	"log/slog"
	"os"

	"github.com/dag-industries/attendance-backend-go/internal/config"
	"github.com/dag-industries/attendance-backend-go/internal/handler/http/middleware"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler mounted by NewRouter
type Handlers struct {
	Auth       AuthHandler
	Profile    ProfileHandler
	Department DepartmentHandler
	Device     DeviceHandler
	Attendance AttendanceHandler
	Biometric  BiometricHandler
	Settings   SettingsHandler
	Report     ReportHandler
}

func NewRouter(appConfig config.AppConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "dag-attendance"),
		slog.String("version", "v1.0.0"),
		slog.String("env", appConfig.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appConfig.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(middleware.RequestMeta)

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)
			r.Post("/logout", h.Auth.Logout)
		})

		// Terminals authenticate with device id and API key, not a JWT
		r.Route("/biometric", func(r chi.Router) {
			r.Post("/verify", h.Biometric.Verify)
			r.Post("/check-in", h.Biometric.CheckIn)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/profiles", func(r chi.Router) {
				r.Route("/me", func(r chi.Router) {
					r.Get("/", h.Profile.GetMe)
					r.Put("/", h.Profile.UpdateMe)
					r.Put("/password", h.Profile.ChangePassword)
				})

				// Staff only
				r.Group(func(r chi.Router) {
					r.Use(middleware.StaffOnly)
					r.Get("/", h.Profile.List)
					r.Get("/employee-id/{employeeID}", h.Profile.GetByEmployeeID)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Profile.Create)
					r.Post("/employee-ids/assign", h.Profile.AssignEmployeeIDs)
					r.Get("/employee-ids/next", h.Profile.NextEmployeeID)
					r.Put("/{id}", h.Profile.Update)
					r.Delete("/{id}", h.Profile.Deactivate)
				})

				r.Get("/{id}", h.Profile.Get)
			})

			r.Route("/departments", func(r chi.Router) {
				r.Get("/", h.Department.List)
				r.Get("/{id}", h.Department.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Department.Create)
					r.Put("/{id}", h.Department.Update)
					r.Delete("/{id}", h.Department.Deactivate)
				})
			})

			r.Route("/devices", func(r chi.Router) {
				r.Use(middleware.StaffOnly)
				r.Get("/", h.Device.List)
				r.Get("/{id}", h.Device.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Device.Create)
					r.Put("/{id}", h.Device.Update)
					r.Delete("/{id}", h.Device.Deactivate)
					r.Post("/{id}/rotate-key", h.Device.RotateAPIKey)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/today", h.Attendance.Today)
				r.Get("/my", h.Attendance.GetMyAttendance)

				// Staff only
				r.Group(func(r chi.Router) {
					r.Use(middleware.StaffOnly)
					r.Get("/", h.Attendance.List)
					r.Post("/manual", h.Attendance.RecordManual)
				})

				r.Get("/{id}", h.Attendance.Get)
			})

			r.Route("/corrections", func(r chi.Router) {
				r.Post("/", h.Attendance.RequestCorrection)
				r.Get("/my", h.Attendance.GetMyCorrections)

				// Staff only
				r.Group(func(r chi.Router) {
					r.Use(middleware.StaffOnly)
					r.Get("/", h.Attendance.ListCorrections)
					r.Post("/{id}/approve", h.Attendance.Approve)
					r.Post("/{id}/reject", h.Attendance.Reject)
				})

				r.Get("/{id}", h.Attendance.GetCorrection)
			})

			r.Route("/settings", func(r chi.Router) {
				r.Get("/", h.Settings.Get)
				r.With(middleware.AdminOnly).Put("/", h.Settings.Update)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.StaffOnly)
				r.Get("/daily", h.Report.GetDailyReport)
				r.Get("/monthly", h.Report.GetMonthlyReport)
			})
		})
	})
	return r
}
