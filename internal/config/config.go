package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hitoshi/duomatch/internal/discovery"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnectAttempts int

	// Auth
	JWTSecret string
	JWTIssuer string

	// Rate Limit
	RateLimitGeneral int

	// Server
	ServerPort     string
	RequestTimeout time.Duration

	// Logging
	LogLevel slog.Level

	// CORS
	CORSAllowedOrigin string

	// Scoring
	ScoreWeights discovery.Weights
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 25)
	cfg.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 5)
	cfg.DBConnMaxLifetime = getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	cfg.DBConnectAttempts = getEnvInt("DB_CONNECT_ATTEMPTS", 6)
	cfg.JWTIssuer = getEnvString("JWT_ISSUER", "")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", 10*time.Second)
	cfg.LogLevel = getEnvLevel("LOG_LEVEL", slog.LevelInfo)
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:8081")
	cfg.ScoreWeights = loadWeights()

	return cfg, nil
}

// loadWeights は既定のスコア重みに SCORE_* 環境変数の上書きを適用する。
func loadWeights() discovery.Weights {
	w := discovery.DefaultWeights()
	w.Base = getEnvInt("SCORE_BASE", w.Base)
	w.SharedInterest = getEnvInt("SCORE_SHARED_INTEREST", w.SharedInterest)
	w.ConnectedMember = getEnvInt("SCORE_CONNECTED_MEMBER", w.ConnectedMember)
	w.GroupSizeBonus = getEnvInt("SCORE_GROUP_SIZE", w.GroupSizeBonus)
	w.ActivityCap = getEnvInt("SCORE_ACTIVITY_CAP", w.ActivityCap)
	w.OppositeGender = getEnvInt("SCORE_OPPOSITE_GENDER", w.OppositeGender)
	w.SecondDegree = getEnvInt("SCORE_SECOND_DEGREE", w.SecondDegree)
	return w
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// getEnvLevel は debug / info / warn / error を大文字小文字を区別せず解釈する。
func getEnvLevel(key string, defaultVal slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return defaultVal
	}
	return level
}
