package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/martijn/inkwell/internal/core/repository"
	"github.com/martijn/inkwell/internal/core/service"
	inkredis "github.com/martijn/inkwell/internal/infrastructure/redis"
	"github.com/martijn/inkwell/internal/infrastructure/sqldb"
	"github.com/martijn/inkwell/internal/infrastructure/storage"
	"github.com/martijn/inkwell/pkg/config"
	"github.com/martijn/inkwell/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	logFile *os.File
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Inkwell - a small multi-user blog",
	Long: `Inkwell is a small multi-user blog.

It provides:
- Account registration and login with remember-me sessions
- Profile editing with avatar thumbnails
- Publishing and reading posts
- User administration from the command line`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		var out io.Writer = os.Stdout
		if cfg.LogFile != "" {
			logFile, err = logger.OpenFile(cfg.LogFile)
			if err != nil {
				return err
			}
			out = io.MultiWriter(os.Stdout, logFile)
		}
		logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Output: out})

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			logFile.Close()
		}
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is "+config.DefaultConfigPath+")")
}

// initServices initializes all services
func initServices(ctx context.Context) (*Services, error) {
	log := logger.Get()

	// Initialize database
	db, err := sqldb.New(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	services := &Services{DB: db}

	// Initialize repositories
	userRepo := sqldb.NewUserRepository(db)
	postRepo := sqldb.NewPostRepository(db)

	// Avatar storage
	var avatars repository.AvatarStorage
	switch cfg.AvatarStorage {
	case "minio":
		avatars, err = storage.NewMinioStorage(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
	default:
		avatars, err = storage.NewLocalStorage(cfg.AvatarDir)
	}
	if err != nil {
		services.Close()
		return nil, fmt.Errorf("failed to initialize avatar storage: %w", err)
	}

	// Session revocation is only available with redis
	var revocations repository.RevocationStore
	if cfg.RedisEnabled() {
		client, err := inkredis.Connect(ctx, inkredis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			services.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		services.Redis = client
		revocations = inkredis.NewRevocationStore(client)
	} else {
		log.Debug().Msg("redis not configured, logout will not revoke session tokens")
	}

	// Initialize services
	avatarService := service.NewAvatarService(avatars)
	services.UserRepo = userRepo
	services.Revocations = revocations
	services.AuthService = service.NewAuthService(userRepo, revocations, cfg.SecretKey, cfg.SessionTTL, cfg.RememberTTL)
	services.AccountService = service.NewAccountService(userRepo, avatarService)
	services.PostService = service.NewPostService(postRepo)
	services.AvatarService = avatarService

	log.Debug().
		Str("db_driver", db.Driver()).
		Str("avatar_storage", cfg.AvatarStorage).
		Bool("redis", cfg.RedisEnabled()).
		Msg("services initialized")

	return services, nil
}

// Services holds all initialized services
type Services struct {
	DB             *sqldb.DB
	Redis          *redis.Client
	UserRepo       repository.UserRepository
	Revocations    repository.RevocationStore
	AuthService    *service.AuthService
	AccountService *service.AccountService
	PostService    *service.PostService
	AvatarService  *service.AvatarService
}

// Close closes all resources
func (s *Services) Close() {
	if s.Redis != nil {
		s.Redis.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
