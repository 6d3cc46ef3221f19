package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salespipe/crm-backend/internal/auth"
	"github.com/salespipe/crm-backend/internal/config"
	"github.com/salespipe/crm-backend/internal/infra/cache"
	"github.com/salespipe/crm-backend/internal/infra/database"
	"github.com/salespipe/crm-backend/internal/infra/export"
	"github.com/salespipe/crm-backend/internal/infra/http/handlers"
	"github.com/salespipe/crm-backend/internal/infra/http/middleware"
	"github.com/salespipe/crm-backend/internal/infra/mail"
	"github.com/salespipe/crm-backend/internal/infra/queue"
	"github.com/salespipe/crm-backend/internal/infra/worker"
	"github.com/salespipe/crm-backend/internal/usecase"
	"github.com/salespipe/crm-backend/internal/validation"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	db, err := database.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	// 1. Repositories
	userRepo := database.NewUserRepository(db)
	resetRepo := database.NewPasswordResetRepository(db)
	leadRepo := database.NewLeadRepository(db)
	contactRepo := database.NewContactRepository(db)
	companyRepo := database.NewCompanyRepository(db)
	labelRepo := database.NewLabelRepository(db)
	activityRepo := database.NewActivityRepository(db)
	emailLogRepo := database.NewEmailLogRepository(db)
	notificationRepo := database.NewNotificationRepository(db)
	invoiceRepo := database.NewInvoiceRepository(db)
	auditRepo := database.NewAuditLogRepository(db)

	// 2. Shared services
	validate := validation.New()
	tokens := &auth.Manager{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.JWTTTL,
		Issuer: "crm-backend",
	}

	var mailer usecase.Mailer
	if cfg.SMTPHost != "" {
		mailer = mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	} else {
		log.Println("[MAIL] no SMTP host configured, emails are dropped")
		mailer = mail.NoopSender{}
	}

	var attempts usecase.AttemptStore
	if cfg.RedisAddr != "" {
		store := cache.NewRedisCounterStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := store.Ping(context.Background()); err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		attempts = store
		log.Println("[CACHE] login lockout backed by redis")
	} else {
		attempts = cache.NewMemoryCounterStore(0)
		log.Println("[CACHE] login lockout backed by in-process memory")
	}

	// 3. Side channel: RabbitMQ when configured, inline writes otherwise
	var dispatcher usecase.Dispatcher
	var rabbitMQ *queue.RabbitMQ
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("rabbitmq connection failed: %v", err)
		}
		defer rabbitMQ.Conn.Close()
		defer rabbitMQ.Ch.Close()

		dispatcher = queue.NewProducer(rabbitMQ.Ch)

		sideWorker := queue.NewWorker(rabbitMQ.Ch, notificationRepo, auditRepo, mailer)
		go sideWorker.Start(queue.QueueName)
	} else {
		log.Println("[QUEUE] no broker configured, side-channel writes run inline")
		dispatcher = queue.NewSyncDispatcher(notificationRepo, auditRepo, mailer)
	}

	// 4. UseCases
	authUC := &usecase.AuthUseCase{
		Users:         userRepo,
		Resets:        resetRepo,
		Tokens:        tokens,
		Attempts:      attempts,
		Dispatcher:    dispatcher,
		Validate:      validate,
		MaxAttempts:   cfg.LoginMaxAttempts,
		LockoutWindow: cfg.LoginWindow,
		ResetTTL:      cfg.ResetTokenTTL,
		ResetBaseURL:  cfg.PasswordResetBase,
	}
	leadUC := &usecase.LeadUseCase{
		Leads:      leadRepo,
		Contacts:   contactRepo,
		Companies:  companyRepo,
		Dispatcher: dispatcher,
		Validate:   validate,
	}
	kanbanUC := &usecase.KanbanUseCase{Leads: leadRepo}
	dashboardUC := &usecase.DashboardUseCase{Leads: leadRepo}
	exportUC := &usecase.ExportUseCase{
		Leads: leadRepo,
		Renderers: map[string]usecase.ReportRenderer{
			"csv": export.CSVRenderer{},
			"pdf": export.PDFRenderer{},
		},
	}
	directoryUC := &usecase.DirectoryUseCase{
		Contacts:  contactRepo,
		Companies: companyRepo,
		Validate:  validate,
	}
	labelUC := &usecase.LabelUseCase{Labels: labelRepo, Validate: validate}
	activityUC := &usecase.ActivityUseCase{
		Activities: activityRepo,
		Leads:      leadRepo,
		EmailLogs:  emailLogRepo,
		Dispatcher: dispatcher,
		Validate:   validate,
	}
	notificationUC := &usecase.NotificationUseCase{
		Notifications: notificationRepo,
		Dispatcher:    dispatcher,
	}
	invoiceUC := &usecase.InvoiceUseCase{
		Invoices:   invoiceRepo,
		Leads:      leadRepo,
		Dispatcher: dispatcher,
		Validate:   validate,
	}
	teamUC := &usecase.TeamUseCase{
		Users:      userRepo,
		Dispatcher: dispatcher,
		Validate:   validate,
	}
	auditUC := &usecase.AuditUseCase{Audits: auditRepo}
	reminderUC := &usecase.ReminderUseCase{
		Activities: activityRepo,
		Dispatcher: dispatcher,
	}

	// 5. Reminder sweep: resident ticker plus cron endpoint, same usecase
	reminderWorker := worker.NewReminderWorker(reminderUC)
	go reminderWorker.Start(context.Background())

	// 6. Handlers
	authHandler := handlers.NewAuthHandler(authUC, cfg.CookieName, cfg.Env == "production", cfg.JWTTTL)
	leadHandler := &handlers.LeadHandler{
		Leads:     leadUC,
		Kanban:    kanbanUC,
		Dashboard: dashboardUC,
		Export:    exportUC,
	}
	directoryHandler := &handlers.DirectoryHandler{Directory: directoryUC}
	labelHandler := &handlers.LabelHandler{Labels: labelUC}
	activityHandler := &handlers.ActivityHandler{Activities: activityUC}
	notificationHandler := &handlers.NotificationHandler{Notifications: notificationUC}
	invoiceHandler := &handlers.InvoiceHandler{Invoices: invoiceUC}
	teamHandler := &handlers.TeamHandler{Team: teamUC, Audit: auditUC}
	cronHandler := &handlers.CronHandler{Reminders: reminderUC, Secret: cfg.CronSecret}

	healthHandler := handlers.NewHealthHandler(db, nil)
	if rabbitMQ != nil {
		healthHandler = handlers.NewHealthHandler(db, rabbitMQ.Conn)
	}

	authn := &middleware.Authenticator{
		Tokens:     tokens,
		Users:      userRepo,
		CookieName: cfg.CookieName,
	}

	// 7. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		r.Get("/cron/reminders", cronHandler.RunReminders)

		r.Group(func(r chi.Router) {
			r.Use(authn.Middleware)

			r.Get("/auth/me", authHandler.Me)
			r.Get("/profile", authHandler.Me)
			r.Patch("/profile", authHandler.UpdateProfile)

			r.Route("/leads", func(r chi.Router) {
				r.Get("/", leadHandler.List)
				r.Post("/", leadHandler.Create)
				r.Get("/kanban", leadHandler.Board)
				r.Get("/{id}", leadHandler.Get)
				r.Put("/{id}", leadHandler.Update)
				r.Patch("/{id}/stage", leadHandler.MoveStage)
				r.Patch("/{id}/status", leadHandler.SetStatus)
				r.Delete("/{id}", leadHandler.Delete)
			})

			r.Route("/contacts", func(r chi.Router) {
				r.Get("/", directoryHandler.ListContacts)
				r.Post("/", directoryHandler.CreateContact)
				r.Get("/{id}", directoryHandler.GetContact)
				r.Put("/{id}", directoryHandler.UpdateContact)
				r.Delete("/{id}", directoryHandler.DeleteContact)
			})

			r.Route("/companies", func(r chi.Router) {
				r.Get("/", directoryHandler.ListCompanies)
				r.Post("/", directoryHandler.CreateCompany)
				r.Get("/{id}", directoryHandler.GetCompany)
				r.Put("/{id}", directoryHandler.UpdateCompany)
				r.Delete("/{id}", directoryHandler.DeleteCompany)
			})

			r.Route("/labels", func(r chi.Router) {
				r.Get("/", labelHandler.List)
				r.Post("/", labelHandler.Create)
				r.Delete("/{id}", labelHandler.Delete)
			})

			r.Route("/meetings", func(r chi.Router) {
				r.Get("/", activityHandler.ListMeetings)
				r.Post("/", activityHandler.CreateMeeting)
			})
			r.Route("/calls", func(r chi.Router) {
				r.Get("/", activityHandler.ListCalls)
				r.Post("/", activityHandler.CreateCall)
			})
			r.Delete("/activities/{id}", activityHandler.Delete)

			r.Route("/emails", func(r chi.Router) {
				r.Get("/", activityHandler.ListEmails)
				r.Post("/", activityHandler.LogEmail)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", notificationHandler.List)
				r.Patch("/{id}/read", notificationHandler.MarkRead)
				r.Post("/read-all", notificationHandler.MarkAllRead)
				r.Delete("/{id}", notificationHandler.Delete)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", invoiceHandler.List)
				r.Post("/", invoiceHandler.Create)
				r.Get("/{id}", invoiceHandler.Get)
				r.Put("/{id}", invoiceHandler.Update)
				r.Patch("/{id}/status", invoiceHandler.SetStatus)
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/metrics", leadHandler.Metrics)
				r.Get("/export", leadHandler.ExportReport)
			})

			r.Route("/team", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", teamHandler.List)
				r.Post("/invite", teamHandler.Invite)
				r.Patch("/{id}/role", teamHandler.ChangeRole)
				r.Delete("/{id}", teamHandler.Deactivate)
				r.Get("/audit", teamHandler.AuditLog)
			})
		})
	})

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	log.Printf("[HTTP] server listening on %s", cfg.ServerAddr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
