package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	// ✅ Redis Config
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// ✅ Kafka Config
	KafkaBrokers []string
	KafkaTopic   string

	// Admin wallet addresses (comma separated, lower-cased)
	AdminAddresses []string

	// World / land grid limits for event positions
	WorldMin int
	WorldMax int

	// Scheduling knobs
	MaxEventDurationHours int
	RecurrenceCap         int
	LatestAttendeesCap    int

	// Notification dispatcher knobs
	NotifyAheadMinutes int
	NotifyBatchSize    int
	NotifyMaxRetries   int
	NotifyPollCron     string
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, using environment variables")
	}

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	return &Config{
		Port: getEnv("PORT", "8080"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "event-notifications"),

		AdminAddresses: lowerList(splitList(os.Getenv("ADMIN_ADDRESSES"))),

		WorldMin: getEnvInt("WORLD_MIN", -150),
		WorldMax: getEnvInt("WORLD_MAX", 150),

		MaxEventDurationHours: getEnvInt("MAX_EVENT_DURATION_HOURS", 24),
		RecurrenceCap:         getEnvInt("RECURRENCE_CAP", 10),
		LatestAttendeesCap:    getEnvInt("LATEST_ATTENDEES_CAP", 10),

		NotifyAheadMinutes: getEnvInt("NOTIFY_AHEAD_MINUTES", 10),
		NotifyBatchSize:    getEnvInt("NOTIFY_BATCH_SIZE", 100),
		NotifyMaxRetries:   getEnvInt("NOTIFY_MAX_RETRIES", 3),
		NotifyPollCron:     getEnv("NOTIFY_POLL_CRON", "@every 1m"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("⚠️ Invalid value for %s, using default %d", key, fallback)
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func lowerList(in []string) []string {
	for i := range in {
		in[i] = strings.ToLower(in[i])
	}
	return in
}
