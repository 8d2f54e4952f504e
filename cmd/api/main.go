package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"customscrm/internal/config"
	"customscrm/internal/database"
	"customscrm/internal/middleware"
	"customscrm/internal/modules/auth"
	"customscrm/internal/modules/certificate"
	"customscrm/internal/modules/client"
	"customscrm/internal/modules/declaration"
	"customscrm/internal/modules/employee"
	"customscrm/internal/modules/notification"
	"customscrm/internal/modules/partnership"
	"customscrm/internal/modules/task"
	jwtsvc "customscrm/internal/pkg/jwt"
	"customscrm/internal/pkg/logger"
	"customscrm/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	slogger := logger.New(logger.ParseLevel(cfg.LogLevel))

	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	membershipRepo := repository.NewMembershipRequestRepository(db)
	partnershipRepo := repository.NewPartnershipRepository(db)
	clientRepo := repository.NewClientRepository(db)
	declarationRepo := repository.NewDeclarationRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	hub := notification.NewHub()
	defer hub.Close()

	notificationService := notification.NewService(notificationRepo, hub, slogger)
	notificationHandler := notification.NewHandler(notificationService, hub)

	authService := auth.NewService(userRepo, companyRepo, membershipRepo, j, notificationService)
	authHandler := auth.NewHandler(authService)

	partnershipService := partnership.NewService(partnershipRepo, companyRepo, userRepo, notificationService)
	partnershipHandler := partnership.NewHandler(partnershipService)

	clientService := client.NewService(clientRepo, userRepo)
	clientHandler := client.NewHandler(clientService)

	declarationService := declaration.NewService(declarationRepo, clientRepo, userRepo)
	declarationHandler := declaration.NewHandler(declarationService)

	certificateService := certificate.NewService(
		certificateRepo,
		clientRepo,
		declarationRepo,
		companyRepo,
		userRepo,
		partnershipRepo,
		notificationService,
		slogger,
	)
	certificateHandler := certificate.NewHandler(certificateService)

	taskService := task.NewService(taskRepo, userRepo, partnershipRepo, notificationService, slogger)
	taskHandler := task.NewHandler(taskService)

	employeeService := employee.NewService(userRepo, companyRepo, partnershipRepo)
	employeeHandler := employee.NewHandler(employeeService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(slogger))
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)

		// token without company membership: profile and company setup
		setup := v1.Group("/")
		setup.Use(middleware.TokenOnly(j, userRepo))
		{
			authHandler.RegisterSetupRoutes(setup)
		}

		// full membership required
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j, userRepo, companyRepo))
		{
			clientHandler.RegisterRoutes(protected)
			declarationHandler.RegisterRoutes(protected)
			certificateHandler.RegisterRoutes(protected)
			taskHandler.RegisterRoutes(protected)
			partnershipHandler.RegisterRoutes(protected)
			employeeHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)

			director := protected.Group("/")
			director.Use(middleware.RequireDirector())
			{
				authHandler.RegisterMemberRoutes(director)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	slogger.Info("starting server", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
