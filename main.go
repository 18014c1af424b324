package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MuhammadFattan/task-management/config"
	"github.com/MuhammadFattan/task-management/handlers"
	"github.com/MuhammadFattan/task-management/logging"
	"github.com/MuhammadFattan/task-management/middleware"
	"github.com/MuhammadFattan/task-management/repositories"
	"github.com/MuhammadFattan/task-management/services"

	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logging.InitLogger(logging.Options{
		SystemName: "task-manager",
		FilePath:   cfg.LogFile,
		Level:      cfg.LogLevel,
	})
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting Task Manager...")

	tasks, users, disconnect := openStores(cfg)
	defer disconnect()

	policy := services.Policy{OpenFieldUpdates: cfg.AllowOpenTaskUpdates}
	if policy.OpenFieldUpdates {
		logging.Logger.Warn("Event ID: OPEN_TASK_UPDATES, Description: Any authenticated user may update task fields")
	}

	authService := services.NewAuthService(users, []byte(cfg.JWTSecret), cfg.JWTTTL, cfg.AdminInviteToken)
	if cfg.PasswordBlacklistFile != "" {
		blacklist, err := services.LoadPasswordBlacklist(cfg.PasswordBlacklistFile)
		if err != nil {
			logging.Logger.Fatalf("Event ID: BLACKLIST_LOAD_FAILED, Description: %v", err)
		}
		authService.SetPasswordBlacklist(blacklist)
		logging.Logger.Infof("Event ID: BLACKLIST_LOADED, Description: Loaded %d blacklisted passwords", len(blacklist))
	}
	userService := services.NewUserService(users, tasks, policy)

	router := handlers.NewRouter(authService, handlers.Handlers{
		Tasks:     handlers.NewTaskHandler(services.NewTaskService(tasks, users, policy)),
		Dashboard: handlers.NewDashboardHandler(services.NewDashboardService(tasks, policy)),
		Users:     handlers.NewUserHandler(userService),
		Auth:      handlers.NewAuthHandler(authService, userService),
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      c.Handler(middleware.Timeout(cfg.RequestTimeout)(router)),
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost%s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("Event ID: SERVER_SHUTDOWN, Description: Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Errorf("Event ID: SERVER_SHUTDOWN_ERROR, Description: Graceful shutdown failed: %v", err)
	}
	logging.Logger.Info("Event ID: SERVER_STOPPED, Description: Server stopped")
}

// openStores builds the task and user stores for the configured driver. Mongo
// stores sit behind circuit breakers.
func openStores(cfg *config.Config) (repositories.TaskStore, repositories.UserStore, func()) {
	if cfg.StoreDriver == "memory" {
		logging.Logger.Warn("Event ID: DB_MEMORY_STORE, Description: Using in-memory stores; data is lost on restart")
		return repositories.NewMemoryTaskStore(), repositories.NewMemoryUserStore(), func() {}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logging.Logger.Fatalf("Event ID: DB_CONNECTION_FAILED, Description: Database connection for MongoDB failed: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Event ID: DB_PING_FAILED, Description: MongoDB connection ping error: %v", err)
	}
	logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Connected to MongoDB database %s", cfg.MongoDBName)

	db := client.Database(cfg.MongoDBName)
	taskStore := repositories.NewMongoTaskStore(db.Collection(cfg.MongoTasksCollection))
	userStore := repositories.NewMongoUserStore(db.Collection(cfg.MongoUsersCollection))

	if err := taskStore.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: Creating task indexes failed: %v", err)
	}
	if err := userStore.EnsureIndexes(ctx); err != nil {
		logging.Logger.Fatalf("Event ID: DB_INDEX_FAILED, Description: Creating user indexes failed: %v", err)
	}

	disconnect := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logging.Logger.Errorf("Event ID: DB_DISCONNECT_FAILED, Description: %v", err)
		}
	}

	return repositories.NewBreakerTaskStore(taskStore, repositories.NewStoreBreaker("tasks-store", cfg.StoreBreakerTimeout)),
		repositories.NewBreakerUserStore(userStore, repositories.NewStoreBreaker("users-store", cfg.StoreBreakerTimeout)),
		disconnect
}
