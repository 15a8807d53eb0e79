package config

import (
	"os"
	"strconv"
	"strings"
)

// ModerationConfig lifts the escalation thresholds and detector knobs out of
// the pipeline logic so policy changes never touch code. Zero values fall
// back to the documented defaults when the engine is built.
type ModerationConfig struct {
	ProfanityWords []string // empty = built-in block-list

	BanViolationCount   int
	BanSeverity         int
	MuteViolationCount  int
	MuteSeverity        int
	WarningSeverity     int
	MuteDurationMinutes int
	BanDurationMinutes  int
}

type Config struct {
	PostgresURI    string
	MongoURI       string
	RedisURI       string
	Port           string
	Environment    string // ENV: production, development, etc.
	AllowedOrigins []string
	AllowedHost    string // bare hostname for production host checking, empty disables
	Moderation     ModerationConfig
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	allowedOrigins := parseList(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{getEnv("FRONTEND_URL", "http://localhost:3000")}
	}

	return &Config{
		PostgresURI:    getEnv("POSTGRES_URI", "postgres://localhost:5432/chatmod?sslmode=disable"),
		MongoURI:       getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/chatmod")),
		RedisURI:       getEnv("REDIS_URI", "redis://localhost:6379/0"),
		Port:           getEnv("PORT", "8080"),
		Environment:    env,
		AllowedOrigins: allowedOrigins,
		AllowedHost:    getEnv("ALLOWED_HOST", ""),
		Moderation: ModerationConfig{
			ProfanityWords:      parseList(getEnv("MOD_PROFANITY_WORDS", "")),
			BanViolationCount:   getEnvInt("MOD_BAN_VIOLATION_COUNT", 5),
			BanSeverity:         getEnvInt("MOD_BAN_SEVERITY", 10),
			MuteViolationCount:  getEnvInt("MOD_MUTE_VIOLATION_COUNT", 3),
			MuteSeverity:        getEnvInt("MOD_MUTE_SEVERITY", 6),
			WarningSeverity:     getEnvInt("MOD_WARNING_SEVERITY", 3),
			MuteDurationMinutes: getEnvInt("MOD_MUTE_DURATION_MINUTES", 60),
			BanDurationMinutes:  getEnvInt("MOD_BAN_DURATION_MINUTES", 1440),
		},
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
