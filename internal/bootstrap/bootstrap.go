package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/alumnihub/internal/app/auth"
	appControllers "github.com/yigit/alumnihub/internal/app/controllers"
	appMigrations "github.com/yigit/alumnihub/internal/app/migrations"
	appRepos "github.com/yigit/alumnihub/internal/app/repositories"
	appRoutes "github.com/yigit/alumnihub/internal/app/routes"
	appServices "github.com/yigit/alumnihub/internal/app/services"
	"github.com/yigit/alumnihub/internal/config"
	"github.com/yigit/alumnihub/internal/db"
	appMiddleware "github.com/yigit/alumnihub/internal/middleware"
	pkgAuth "github.com/yigit/alumnihub/internal/pkg/auth"
	"github.com/yigit/alumnihub/internal/pkg/email"
	"github.com/yigit/alumnihub/internal/pkg/filestorage"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
	"github.com/yigit/alumnihub/internal/pkg/logger"
	"github.com/yigit/alumnihub/internal/pkg/websocket"
	"github.com/yigit/alumnihub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    *appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	Hub            *websocket.Hub
	FileStorage    filestorage.FileStorage
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := logger.Default()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrateCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	applied, err := appMigrations.NewMigrator(database.Pool, logger.Component("migrations")).
		MigrateFromDirectory(migrateCtx, migrationsDir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Int("applied", applied).Msg("Database migrations up to date.")

	admin := seed.AdminAccount{Email: cfg.Admin.Email, Password: cfg.Admin.Password, Name: cfg.Admin.Name}
	if err := seed.CreateDefaultData(migrateCtx, database.Pool, admin, logger.Component("seed")); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}
	deps.Repos = appRepos.NewRepositories(database.Pool)
	repos := deps.Repos

	var err error
	deps.FileStorage, err = filestorage.New(filestorage.Config{
		Driver:    cfg.Storage.Driver,
		LocalPath: cfg.Storage.LocalPath,
		Prefix:    cfg.Storage.Prefix,
		BaseURL:   cfg.BaseURL(),
		Bucket:    cfg.Storage.S3.Bucket,
		Region:    cfg.Storage.S3.Region,
		Endpoint:  cfg.Storage.S3.Endpoint,
		AccessKey: cfg.Storage.S3.AccessKey,
		SecretKey: cfg.Storage.S3.SecretKey,
		PublicURL: cfg.Storage.S3.PublicURL,
	})
	if err != nil {
		lgr.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	google := pkgAuth.NewGoogleProvider(
		cfg.OAuth.Google.ClientID,
		cfg.OAuth.Google.ClientSecret,
		cfg.OAuth.Google.RedirectURL,
	)
	if !google.Enabled() {
		lgr.Info().Msg("Google sign-in disabled: no client credentials configured")
	}

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromAddr,
		BaseURL:   cfg.BaseURL(),
	}, logger.Component("email"))

	deps.Hub = websocket.NewHub(logger.Component("websocket"))
	notifier := appServices.NewNotifier(repos.NotificationRepository, deps.Hub, mailer, logger.Component("notifier"))
	tx := database
	svcLogger := logger.Component("services")

	deps.Services = &appServices.Services{
		AuthService: appServices.NewAuthService(
			tx, repos.UserRepository, repos.TokenRepository, notifier, deps.JWTService, google, svcLogger,
		),
		ProfileService: appServices.NewProfileService(
			tx, repos.UserRepository, repos.ProfileRepository, repos.MembershipRepository, notifier, svcLogger,
		),
		TierService: appServices.NewTierService(repos.MembershipTierRepository, svcLogger),
		MembershipService: appServices.NewMembershipService(
			tx, repos.UserRepository, repos.ProfileRepository, repos.MembershipTierRepository,
			repos.MembershipRepository, notifier, svcLogger,
		),
		EventService: appServices.NewEventService(
			tx, repos.EventRepository, repos.EventPaymentRepository, repos.MembershipRepository, notifier, svcLogger,
		),
		UserService: appServices.NewUserService(
			tx, repos.UserRepository, repos.ProfileRepository, repos.MembershipRepository, notifier, svcLogger,
		),
		NotificationService: appServices.NewNotificationService(
			tx, repos.UserRepository, repos.NotificationRepository, notifier, svcLogger,
		),
		GalleryService:     appServices.NewGalleryService(repos.GalleryRepository, repos.AlbumRepository, svcLogger),
		CommitteeService:   appServices.NewCommitteeService(repos.CommitteeMemberRepository, svcLogger),
		PaymentInfoService: appServices.NewPaymentInfoService(repos.PaymentInfoRepository, svcLogger),
		UploadService:      appServices.NewUploadService(deps.FileStorage, int64(cfg.Server.MaxUploadMB)<<20, svcLogger),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(
		deps.JWTService, repos.UserRepository, appAuth.DefaultPolicy(), logger.Component("auth"),
	)

	svc := deps.Services
	ctrlLogger := logger.Component("controllers")
	deps.Controllers = &appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(svc.AuthService, strings.HasPrefix(cfg.BaseURL(), "https://"), ctrlLogger),
		Profile:      appControllers.NewProfileController(svc.ProfileService, svc.UploadService, ctrlLogger),
		Membership:   appControllers.NewMembershipController(svc.MembershipService, ctrlLogger),
		Tier:         appControllers.NewTierController(svc.TierService, ctrlLogger),
		Event:        appControllers.NewEventController(svc.EventService, ctrlLogger),
		User:         appControllers.NewUserController(svc.UserService, ctrlLogger),
		Notification: appControllers.NewNotificationController(svc.NotificationService, ctrlLogger),
		Gallery:      appControllers.NewGalleryController(svc.GalleryService, ctrlLogger),
		Site:         appControllers.NewSiteController(svc.CommitteeService, svc.PaymentInfoService, database.Pool, ctrlLogger),
		Upload:       appControllers.NewUploadController(svc.UploadService, ctrlLogger),
		WebSocket:    websocket.NewHandler(deps.Hub, cfg.AllowedOrigins(), logger.Component("websocket")),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(
		appMiddleware.Recovery(),
		appMiddleware.RequestLogger(logger.Component("http")),
		appMiddleware.CORS(cfg.AllowedOrigins()),
	)
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	if cfg.Storage.Driver == "local" {
		router.Static("/"+strings.Trim(cfg.Storage.Prefix, "/"), cfg.Storage.LocalPath)
		lgr.Info().Str("path", cfg.Storage.LocalPath).Msg("Static file serving configured for uploads directory")
	}

	return router, nil
}
