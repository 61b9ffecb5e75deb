package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Checkout CheckoutConfig
	Mail     MailConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret    string
	AccessTTLMin int
	BCryptCost   int
}

type CheckoutConfig struct {
	APIKey     string
	BaseURL    string
	SuccessURL string
	CancelURL  string
}

type MailConfig struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
}

var AppConfig *Config

func LoadConfig() *Config {
	// .env is optional; real deployments inject env vars directly
	_ = godotenv.Load()

	AppConfig = &Config{
		Server:   GetServerConfig(),
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Auth:     GetAuthConfig(),
		Checkout: GetCheckoutConfig(),
		Mail:     GetMailConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8081"},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5433", // test DB on 5433
			User:     "postgres",
			Password: "postgres",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Redis: RedisConfig{
			Host:     "localhost",
			Port:     "6380", // test Redis on 6380
			Password: "",
			DB:       1,
		},
		Auth: AuthConfig{
			JWTSecret:    "test-secret",
			AccessTTLMin: 15,
			BCryptCost:   4,
		},
	}
}

func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnv("SERVER_PORT", "8080"),
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetAuthConfig() AuthConfig {
	ttl, err := strconv.Atoi(getEnv("JWT_ACCESS_TTL_MIN", "60"))
	if err != nil {
		panic(err)
	}

	return AuthConfig{
		JWTSecret:    getEnv("JWT_SECRET", "change-me"),
		AccessTTLMin: ttl,
		BCryptCost:   10,
	}
}

func GetCheckoutConfig() CheckoutConfig {
	return CheckoutConfig{
		APIKey:     getEnv("CHECKOUT_API_KEY", ""),
		BaseURL:    getEnv("CHECKOUT_BASE_URL", "https://api.stripe.com"),
		SuccessURL: getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/order/payment/callback"),
		CancelURL:  getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/order/payment/callback"),
	}
}

func GetMailConfig() MailConfig {
	return MailConfig{
		APIKey:    getEnv("MAIL_API_KEY", ""),
		BaseURL:   getEnv("MAIL_BASE_URL", "https://api.resend.com"),
		FromEmail: getEnv("MAIL_FROM_EMAIL", "noreply@cinema.example"),
		FromName:  getEnv("MAIL_FROM_NAME", "Cinema"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
