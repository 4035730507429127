package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/dag-industries/attendance-backend-go/internal/config"
	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/settings"
	appHTTP "github.com/dag-industries/attendance-backend-go/internal/handler/http"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/cron"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/database"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/email"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/jwt"
	"github.com/dag-industries/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/dag-industries/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/dag-industries/attendance-backend-go/internal/service/auth"
	biometricService "github.com/dag-industries/attendance-backend-go/internal/service/biometric"
	departmentService "github.com/dag-industries/attendance-backend-go/internal/service/department"
	deviceService "github.com/dag-industries/attendance-backend-go/internal/service/device"
	profileService "github.com/dag-industries/attendance-backend-go/internal/service/profile"
	reportService "github.com/dag-industries/attendance-backend-go/internal/service/report"
	settingsService "github.com/dag-industries/attendance-backend-go/internal/service/settings"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Error running migrations: ", err)
	}

	txManager := postgresql.NewTransactor(db)
	profileRepo := postgresql.NewProfileRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	deviceRepo := postgresql.NewDeviceRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	correctionRepo := postgresql.NewCorrectionRepository(db)
	settingsRepo := postgresql.NewSettingsRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	var emailService email.EmailService
	if cfg.SMTP.Host != "" {
		emailService, err = email.NewEmailService(cfg.SMTP)
		if err != nil {
			log.Fatal("Failed to initialize email service: ", err)
		}
	} else {
		slog.Warn("SMTP_HOST not set, correction emails are disabled")
	}

	settingsSvc := settingsService.NewSettingsService(txManager, settingsRepo, auditRepo)
	seed, err := settings.LoadSeedFile(cfg.Settings.SeedFile)
	if err != nil {
		log.Fatal("Failed to load settings seed: ", err)
	}
	if err := settingsSvc.Seed(ctx, seed); err != nil {
		log.Fatal("Failed to seed settings: ", err)
	}

	authSvc := serviceAuth.NewAuthService(profileRepo, refreshTokenRepo, JWTService)
	if cfg.Bootstrap.AdminEmail != "" {
		err := authSvc.EnsureBootstrapAdmin(ctx, auth.BootstrapAdmin{
			Email:    cfg.Bootstrap.AdminEmail,
			Password: cfg.Bootstrap.AdminPassword,
			FullName: cfg.Bootstrap.AdminName,
		})
		if err != nil {
			log.Fatal("Failed to bootstrap admin: ", err)
		}
	}

	profileSvc := profileService.NewProfileService(txManager, profileRepo, departmentRepo, auditRepo, refreshTokenRepo)
	departmentSvc := departmentService.NewDepartmentService(departmentRepo, profileRepo)
	deviceSvc := deviceService.NewDeviceService(deviceRepo)
	attendanceSvc := attendanceService.NewAttendanceService(
		txManager,
		attendanceRepo,
		correctionRepo,
		profileRepo,
		deviceRepo,
		auditRepo,
		settingsSvc,
		emailService,
	)
	biometricSvc := biometricService.NewBiometricService(deviceSvc, profileRepo, attendanceSvc, cfg.Biometric.RequireAPIKey)
	reportSvc := reportService.NewReportService(reportRepo, settingsSvc)

	router := appHTTP.NewRouter(cfg.App, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(JWTService, authSvc),
		Profile:    appHTTP.NewProfileHandler(profileSvc),
		Department: appHTTP.NewDepartmentHandler(departmentSvc),
		Device:     appHTTP.NewDeviceHandler(deviceSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Biometric:  appHTTP.NewBiometricHandler(biometricSvc),
		Settings:   appHTTP.NewSettingsHandler(settingsSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
	})

	scheduler := cron.NewScheduler()
	if cfg.Cron.Enabled {
		cron.NewAttendanceJobs(attendanceSvc, cfg.Cron.Interval).RegisterJobs(scheduler)
		cron.NewAuthJobs(JWTService).RegisterJobs(scheduler)
		scheduler.Start(ctx)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	scheduler.Stop()
}
