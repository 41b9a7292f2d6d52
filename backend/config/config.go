package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	JWTSecret string
	JWTTTL    time.Duration

	ServerPort      string
	ShutdownTimeout time.Duration
	LogColors       bool

	// Empty RedisAddr keeps test sessions in process memory.
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	TestSessionTTL time.Duration

	SchedulerEnabled bool
	ReminderHour     int
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return &Config{
		DBDriver:         v.GetString("DB_DRIVER"),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBUser:           v.GetString("DB_USER"),
		DBPassword:       v.GetString("DB_PASSWORD"),
		DBName:           v.GetString("DB_NAME"),
		DBSSLMode:        v.GetString("DB_SSLMODE"),
		SQLitePath:       v.GetString("SQLITE_PATH"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTTTL:           v.GetDuration("JWT_TTL"),
		ServerPort:       v.GetString("SERVER_PORT"),
		ShutdownTimeout:  v.GetDuration("SHUTDOWN_TIMEOUT"),
		LogColors:        v.GetBool("LOG_COLORS"),
		RedisAddr:        v.GetString("REDIS_ADDR"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		RedisDB:          v.GetInt("REDIS_DB"),
		TestSessionTTL:   v.GetDuration("TEST_SESSION_TTL"),
		SchedulerEnabled: v.GetBool("SCHEDULER_ENABLED"),
		ReminderHour:     v.GetInt("REMINDER_HOUR"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "study_hub")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "study_hub.db")
	v.SetDefault("JWT_SECRET", "secret")
	v.SetDefault("JWT_TTL", 72*time.Hour)
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("LOG_COLORS", true)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("TEST_SESSION_TTL", 2*time.Hour)
	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("REMINDER_HOUR", 8)
}
