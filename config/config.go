package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	MongoURI             string
	MongoDBName          string
	MongoTasksCollection string
	MongoUsersCollection string
	// StoreDriver is "mongo" or "memory".
	StoreDriver string

	JWTSecret        string
	JWTTTL           time.Duration
	AdminInviteToken string

	// PasswordBlacklistFile lists passwords refused at registration.
	PasswordBlacklistFile string

	// AllowOpenTaskUpdates lets any authenticated user update task fields,
	// not only admins and assignees.
	AllowOpenTaskUpdates bool

	LogFile  string
	LogLevel string

	CORSAllowedOrigins []string

	StoreBreakerTimeout time.Duration
	RequestTimeout      time.Duration
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", file, err)
		}
	}

	cfg := &Config{
		ServerPort:            getEnv("SERVER_PORT", "8000"),
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:           getEnv("MONGO_DB_NAME", "task_manager"),
		MongoTasksCollection:  getEnv("MONGO_TASKS_COLLECTION", "tasks"),
		MongoUsersCollection:  getEnv("MONGO_USERS_COLLECTION", "users"),
		StoreDriver:           strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		AdminInviteToken:      os.Getenv("ADMIN_INVITE_TOKEN"),
		PasswordBlacklistFile: os.Getenv("PASSWORD_BLACKLIST_FILE"),
		LogFile:               os.Getenv("LOG_FILE"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins:    splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	if cfg.JWTTTL, err = getDuration("JWT_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.StoreBreakerTimeout, err = getDuration("STORE_BREAKER_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.AllowOpenTaskUpdates, err = getBool("ALLOW_OPEN_TASK_UPDATES", false); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}
	if cfg.StoreDriver != "mongo" && cfg.StoreDriver != "memory" {
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
