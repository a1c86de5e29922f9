package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// UpsertErrorPolicy decides what a handler does when tracking a user fails.
type UpsertErrorPolicy string

const (
	// PolicySwallow logs the failure and lets the handler carry on as if
	// the write had succeeded.
	PolicySwallow UpsertErrorPolicy = "swallow"
	// PolicyReply logs the failure and additionally sends the user a
	// generic failure notice.
	PolicyReply UpsertErrorPolicy = "reply"
)

// Config keeps runtime settings for the bot.
type Config struct {
	BotToken          string
	AdminIDs          []int64
	DatabaseURL       string
	UpsertErrorPolicy UpsertErrorPolicy
	MonitorInterval   time.Duration
	LogLevel          string
	WebAppURL         string
}

// Load reads configuration from environment variables. Missing required
// values are an error; the process must not start serving without them.
func Load() (Config, error) {
	cfg := Config{
		BotToken:          strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		UpsertErrorPolicy: PolicySwallow,
		MonitorInterval:   30 * time.Minute,
		LogLevel:          "info",
		WebAppURL:         strings.TrimSpace(os.Getenv("WEBAPP_URL")),
	}

	if cfg.BotToken == "" {
		return cfg, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}

	admins, err := ParseAdminIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return cfg, err
	}
	cfg.AdminIDs = admins

	if raw := strings.TrimSpace(os.Getenv("UPSERT_ERROR_POLICY")); raw != "" {
		policy, err := parsePolicy(raw)
		if err != nil {
			return cfg, err
		}
		cfg.UpsertErrorPolicy = policy
	}

	if raw := strings.TrimSpace(os.Getenv("MONITOR_INTERVAL_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < 0 {
			return cfg, fmt.Errorf("MONITOR_INTERVAL_MINUTES must be a non-negative integer, got %q", raw)
		}
		cfg.MonitorInterval = time.Duration(minutes) * time.Minute
	}

	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		cfg.LogLevel = strings.ToLower(raw)
	}

	return cfg, nil
}

// ParseAdminIDs turns a comma-separated list of Telegram IDs into int64s.
// The list is required and every entry must be a valid integer.
func ParseAdminIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("ADMIN_IDS is required")
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_IDS entry %q is not an integer", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("ADMIN_IDS contains no IDs")
	}
	return ids, nil
}

func parsePolicy(raw string) (UpsertErrorPolicy, error) {
	switch UpsertErrorPolicy(strings.ToLower(raw)) {
	case PolicySwallow:
		return PolicySwallow, nil
	case PolicyReply:
		return PolicyReply, nil
	default:
		return "", fmt.Errorf("UPSERT_ERROR_POLICY must be %q or %q, got %q", PolicySwallow, PolicyReply, raw)
	}
}
