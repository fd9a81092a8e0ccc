package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhub/taskhub/api/handlers"
	"github.com/taskhub/taskhub/api/internal/config"
	"github.com/taskhub/taskhub/api/internal/database"
	"github.com/taskhub/taskhub/api/internal/lists"
	"github.com/taskhub/taskhub/api/internal/password"
	"github.com/taskhub/taskhub/api/internal/sessions"
	"github.com/taskhub/taskhub/api/internal/tasks"
	"github.com/taskhub/taskhub/api/internal/tokens"
	"github.com/taskhub/taskhub/api/internal/users"
	"github.com/taskhub/taskhub/api/pkg/logger"
	"github.com/taskhub/taskhub/api/pkg/metrics"
	"github.com/taskhub/taskhub/api/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging first (LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v jwt_secret_set=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Auth.JWTSecret != "")

	r := gin.New()
	r.Use(middleware.CORS())
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis early so the rate limiter and the token blacklist can
	// use it when configured
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err == nil {
			sessions.SetBlacklistClient(redisClient)
			logger.Infof("Connected to Redis: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		} else {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		}
	}

	// Optional global rate limiter (per-user when authenticated, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Connect to MongoDB with retry/backoff to tolerate startup races
	ctx := context.Background()
	var client *mongo.Client
	if cfg.MongoDB.URI != "" {
		const maxAttempts = 5
		backoff := time.Second
		var errConn error
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			if errConn == nil {
				break
			}
			logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
			if attempt < maxAttempts {
				time.Sleep(backoff)
				backoff *= 2
			}
		}
		if errConn != nil {
			logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
		}
		defer func() { _ = client.Disconnect(ctx) }()
	} else {
		logger.Fatalf("MONGODB_URI is required")
	}

	db := client.Database(cfg.MongoDB.Database)
	userRepo := users.NewMongoRepository(db.Collection("users"))
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		logger.Warnf("failed to ensure user indexes: %v", err)
	}
	listRepo := lists.NewMongoRepository(db.Collection("lists"))
	taskRepo := tasks.NewMongoRepository(db.Collection("tasks"))

	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	userSvc := users.NewService(userRepo, hasher)
	sessionMgr := sessions.NewManager(userRepo, cfg.Auth.RefreshTokenTTL)
	codec := tokens.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	handlers.NewAuthHandler(userSvc, sessionMgr, codec).Register(r)
	tasksHandler := handlers.NewTasksHandler(listRepo, taskRepo)
	handlers.NewListsHandler(listRepo, taskRepo).Register(r, codec, tasksHandler)
	handlers.RegisterSwagger(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness: 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		deps["mongo"] = client.Ping(pingCtx, nil) == nil
		if !deps["mongo"] {
			ready = false
		}

		// Redis is optional unless the limiter depends on it
		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		status := http.StatusOK
		label := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			label = "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting taskhub API on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
