package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/vinom-biolab/api"
	api_i "github.com/beka-birhanu/vinom-biolab/api/i"
	"github.com/beka-birhanu/vinom-biolab/api/identity"
	runsapi "github.com/beka-birhanu/vinom-biolab/api/runs"
	simulationapi "github.com/beka-birhanu/vinom-biolab/api/simulation"
	"github.com/beka-birhanu/vinom-biolab/config"
	logger "github.com/beka-birhanu/vinom-biolab/infrastruture/log"
	"github.com/beka-birhanu/vinom-biolab/infrastruture/memstore"
	"github.com/beka-birhanu/vinom-biolab/infrastruture/repo"
	"github.com/beka-birhanu/vinom-biolab/infrastruture/sortedstorage"
	"github.com/beka-birhanu/vinom-biolab/infrastruture/sqlitestore"
	"github.com/beka-birhanu/vinom-biolab/infrastruture/token"
	"github.com/beka-birhanu/vinom-biolab/service"
	"github.com/beka-birhanu/vinom-biolab/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const janitorInterval = time.Minute

// Global variables for dependencies
var (
	mongoClient          *mongo.Client
	sqliteArchive        *sqlitestore.RunArchive
	redisClient          *redis.Client
	runArchive           i.RunArchive
	recentRuns           i.SortedQueue
	sessionManager       *service.SessionManager
	jwtTokenizer         i.Tokenizer
	simulationController api_i.Controller
	runsController       api_i.Controller
	router               *api.Router
	appLogger            *logger.Logger
)

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Failed to connect to MongoDB: %v", err))
		os.Exit(1)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		appLogger.Error(fmt.Sprintf("MongoDB ping failed: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Connected to MongoDB")
}

func initRunArchive(ctx context.Context) {
	switch config.Envs.ArchiveDriver {
	case config.ArchiveMongo:
		initMongo(ctx)
		runArchive = repo.NewRunRepo(mongoClient, config.Envs.DBName, "runs")
	case config.ArchiveSQLite:
		var err error
		sqliteArchive, err = sqlitestore.Open(config.Envs.SQLitePath)
		if err != nil {
			appLogger.Error(fmt.Sprintf("Opening SQLite archive at %s: %v", config.Envs.SQLitePath, err))
			os.Exit(1)
		}
		runArchive = sqliteArchive
	default:
		runArchive = memstore.NewRunArchive()
	}
	appLogger.Info(fmt.Sprintf("Run archive initialized (%s)", config.Envs.ArchiveDriver))
}

func initRecentRuns(ctx context.Context) {
	if config.Envs.RedisAddr == "" {
		recentRuns = memstore.NewSortedQueue()
		appLogger.Info("Recent runs index initialized (memory)")
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		appLogger.Error(fmt.Sprintf("Redis ping failed: %v", err))
		os.Exit(1)
	}

	var err error
	recentRuns, err = sortedstorage.NewRedisSortedQueue(redisClient, config.Envs.RecentRunsTTLSec)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating recent runs index: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Recent runs index initialized (redis)")
}

func initSessionManager(ctx context.Context) {
	sessionLogger, err := logger.New("SESSION-MANAGER", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager logger: %v", err))
		os.Exit(1)
	}

	sessionManager, err = service.NewSessionManager(&service.Config{
		Archive:    runArchive,
		RecentRuns: recentRuns,
		Logger:     sessionLogger,
		IdleTTL:    time.Duration(config.Envs.SessionIdleTTLMin) * time.Minute,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager: %v", err))
		os.Exit(1)
	}
	sessionManager.StartJanitor(ctx, janitorInterval)

	appLogger.Info("Session manager initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	appLogger.Info("JWT Tokenizer initialized")
}

func initControllers() {
	apiLogger, err := logger.New("API", config.ColorBlue, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating API logger: %v", err))
		os.Exit(1)
	}

	simulationController, err = simulationapi.NewSimulationController(simulationapi.Config{
		Sessions:     sessionManager,
		Tokenizer:    jwtTokenizer,
		Logger:       apiLogger,
		TokenTTL:     time.Duration(config.Envs.SessionTokenTTLMin) * time.Minute,
		DefaultDelay: time.Duration(config.Envs.AutoRunDelayMs) * time.Millisecond,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating simulation controller: %v", err))
		os.Exit(1)
	}

	runsController, err = runsapi.NewRunsController(sessionManager, apiLogger)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating runs controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Controllers initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{simulationController, runsController},
		AuthorizationMiddleware: identity.Authoriz(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	// Registered first so it runs after every other deferred cleanup.
	exitCode := 0
	defer func() {
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies
	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)

	connectCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	initRunArchive(connectCtx)
	defer func() {
		if mongoClient != nil {
			_ = mongoClient.Disconnect(context.Background())
		}
		if sqliteArchive != nil {
			_ = sqliteArchive.Close()
		}
	}()

	initRecentRuns(connectCtx)
	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	initSessionManager(ctx)
	initJWTTokenizer()
	initControllers()
	initRouter(jwtTokenizer)

	// Run HTTP server until SIGINT or SIGTERM
	err := router.Run(ctx)
	// A second signal during cleanup terminates immediately.
	stop()
	if err != nil {
		appLogger.Error(fmt.Sprintf("Running server: %v", err))
		exitCode = 1
		return
	}
	appLogger.Info("Server stopped, releasing resources")
}
