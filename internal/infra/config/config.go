package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Instagram InstagramConfig `mapstructure:"instagram"`
	Activity  ActivityConfig  `mapstructure:"activity"`
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Server    ServerConfig    `mapstructure:"server"`
	Report    ReportConfig    `mapstructure:"report"`
	App       AppConfig       `mapstructure:"app"`
}

// InstagramConfig holds account credentials and client tuning.
type InstagramConfig struct {
	Username       string `mapstructure:"username"`
	Password       string `mapstructure:"password"`
	SessionFile    string `mapstructure:"session_file"`    // cached session settings path
	RequestTimeout int    `mapstructure:"request_timeout"` // seconds
	MaxRetries     int    `mapstructure:"max_retries"`
}

// ActivityConfig tunes one activity session and the long-running loop.
type ActivityConfig struct {
	CooldownMinutes    int     `mapstructure:"cooldown_minutes"`     // minimum spacing between main actions
	FeedLimit          int     `mapstructure:"feed_limit"`           // posts fetched per session
	MaxLikes           int     `mapstructure:"max_likes"`            // feed likes per session
	ClipsLimit         int     `mapstructure:"clips_limit"`          // trending clips per session
	MaxFollows         int     `mapstructure:"max_follows"`          // follows per session
	ClipLikeChance     float64 `mapstructure:"clip_like_chance"`     // probability of liking a watched clip
	ClipCommentChance  float64 `mapstructure:"clip_comment_chance"`  // probability of commenting a watched clip
	WatchMinSeconds    int     `mapstructure:"watch_min_seconds"`    // clip watch pacing, lower bound
	WatchMaxSeconds    int     `mapstructure:"watch_max_seconds"`    // clip watch pacing, upper bound
	SimulationMinutes  int     `mapstructure:"simulation_minutes"`   // wall-clock budget of one routine
	MaxSessions        int     `mapstructure:"max_sessions"`         // session cap per routine
	PauseMinSeconds    int     `mapstructure:"pause_min_seconds"`    // inter-session pause, lower bound
	PauseMaxSeconds    int     `mapstructure:"pause_max_seconds"`    // inter-session pause, upper bound
	RecoverySeconds    int     `mapstructure:"recovery_seconds"`     // pause after a failed session
	UnfollowDays       int     `mapstructure:"unfollow_days"`        // days before a follow becomes unfollow-eligible
	MaxUnfollows       int     `mapstructure:"max_unfollows"`        // unfollows per routine
	RoutineFollowsMax  int     `mapstructure:"routine_follows_max"`  // suggested follows per daily routine
	RoutinePauseMinSec int     `mapstructure:"routine_pause_min_sec"`
	RoutinePauseMaxSec int     `mapstructure:"routine_pause_max_sec"`
}

// ScheduleConfig holds the fixed daily trigger times.
type ScheduleConfig struct {
	Times    []string `mapstructure:"times"`    // "HH:MM" entries
	Timezone string   `mapstructure:"timezone"` // IANA location name
}

// ServerConfig configures the status HTTP server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ReportConfig configures the optional daily Telegram report.
// Empty token or chat id disables the report.
type ReportConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type AppConfig struct {
	DataDir    string `mapstructure:"data_dir"`
	LedgerFile string `mapstructure:"ledger_file"`
}

const (
	placeholderUsername = "your_username"
	placeholderPassword = "your_password"
)

// LoadConfig builds the configuration with layered priority:
// 1. defaults
// 2. config.yaml
// 3. .env file
// 4. environment variables
// 5. command-line flags
func LoadConfig() (*Config, error) {
	godotenv.Load(".env")

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.ReadInConfig() // no error if the file is absent

	v.SetConfigType("env")
	v.SetConfigFile(".env")
	v.ReadInConfig() // no error if the file is absent

	v.AutomaticEnv()

	setupEnvAliases(v)
	setupFlags(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Schedule times may come as a comma-joined string from .env.
	if raw := v.Get("schedule.times"); raw != nil {
		switch t := raw.(type) {
		case string:
			if t != "" {
				config.Schedule.Times = splitAndTrim(t)
			} else {
				config.Schedule.Times = []string{}
			}
		case []string:
			config.Schedule.Times = t
		case []interface{}:
			result := make([]string, 0, len(t))
			for _, item := range t {
				if s, ok := item.(string); ok {
					result = append(result, strings.TrimSpace(s))
				}
			}
			config.Schedule.Times = result
		}
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func setupEnvAliases(v *viper.Viper) {
	// INSTAGRAM_USERNAME -> instagram.username
	v.BindEnv("instagram.username", "INSTAGRAM_USERNAME")
	v.BindEnv("instagram.password", "INSTAGRAM_PASSWORD")
	v.BindEnv("instagram.session_file", "INSTAGRAM_SESSION_FILE")
	v.BindEnv("instagram.request_timeout", "INSTAGRAM_REQUEST_TIMEOUT")
	v.BindEnv("instagram.max_retries", "INSTAGRAM_MAX_RETRIES")

	v.BindEnv("activity.cooldown_minutes", "ACTIVITY_COOLDOWN_MINUTES")
	v.BindEnv("activity.simulation_minutes", "ACTIVITY_SIMULATION_MINUTES")
	v.BindEnv("activity.max_sessions", "ACTIVITY_MAX_SESSIONS")
	v.BindEnv("activity.unfollow_days", "ACTIVITY_UNFOLLOW_DAYS")
	v.BindEnv("activity.max_unfollows", "ACTIVITY_MAX_UNFOLLOWS")

	v.BindEnv("schedule.times", "SCHEDULE_TIMES")
	v.BindEnv("schedule.timezone", "SCHEDULE_TIMEZONE")

	v.BindEnv("server.port", "PORT")

	v.BindEnv("report.bot_token", "TELEGRAM_BOT_TOKEN")
	v.BindEnv("report.chat_id", "REPORT_CHAT_ID")

	v.BindEnv("app.data_dir", "APP_DATA_DIR")
	v.BindEnv("app.ledger_file", "APP_LEDGER_FILE")
}

func setDefaults(v *viper.Viper) {
	// Instagram
	v.SetDefault("instagram.username", placeholderUsername)
	v.SetDefault("instagram.password", placeholderPassword)
	v.SetDefault("instagram.session_file", "session.json")
	v.SetDefault("instagram.request_timeout", 30)
	v.SetDefault("instagram.max_retries", 3)

	// Activity
	v.SetDefault("activity.cooldown_minutes", 8)
	v.SetDefault("activity.feed_limit", 10)
	v.SetDefault("activity.max_likes", 2)
	v.SetDefault("activity.clips_limit", 3)
	v.SetDefault("activity.max_follows", 1)
	v.SetDefault("activity.clip_like_chance", 0.5)
	v.SetDefault("activity.clip_comment_chance", 0.2)
	v.SetDefault("activity.watch_min_seconds", 10)
	v.SetDefault("activity.watch_max_seconds", 30)
	v.SetDefault("activity.simulation_minutes", 60)
	v.SetDefault("activity.max_sessions", 3)
	v.SetDefault("activity.pause_min_seconds", 600)
	v.SetDefault("activity.pause_max_seconds", 1200)
	v.SetDefault("activity.recovery_seconds", 300)
	v.SetDefault("activity.unfollow_days", 3)
	v.SetDefault("activity.max_unfollows", 10)
	v.SetDefault("activity.routine_follows_max", 15)
	v.SetDefault("activity.routine_pause_min_sec", 300)
	v.SetDefault("activity.routine_pause_max_sec", 600)

	// Schedule
	v.SetDefault("schedule.times", []string{"10:00", "16:00", "20:00"})
	v.SetDefault("schedule.timezone", "UTC")

	// Server
	v.SetDefault("server.port", 10000)

	// Report
	v.SetDefault("report.bot_token", "")
	v.SetDefault("report.chat_id", "")

	// App
	v.SetDefault("app.data_dir", "data")
	v.SetDefault("app.ledger_file", "follow_history.json")
}

func setupFlags(v *viper.Viper) {
	pflag.String("instagram.username", placeholderUsername, "Instagram account username (env: INSTAGRAM_USERNAME)")
	pflag.String("instagram.password", placeholderPassword, "Instagram account password (env: INSTAGRAM_PASSWORD)")
	pflag.String("instagram.session_file", "session.json", "Path to cached session settings (env: INSTAGRAM_SESSION_FILE)")
	pflag.Int("instagram.request_timeout", 30, "Request timeout in seconds (env: INSTAGRAM_REQUEST_TIMEOUT)")
	pflag.Int("instagram.max_retries", 3, "Max retries for failed requests (env: INSTAGRAM_MAX_RETRIES)")

	pflag.Int("activity.cooldown_minutes", 8, "Minimum minutes between main actions (env: ACTIVITY_COOLDOWN_MINUTES)")
	pflag.Int("activity.simulation_minutes", 60, "Wall-clock minutes of one activity routine (env: ACTIVITY_SIMULATION_MINUTES)")
	pflag.Int("activity.max_sessions", 3, "Max sessions per routine (env: ACTIVITY_MAX_SESSIONS)")
	pflag.Int("activity.unfollow_days", 3, "Days before a follow becomes unfollow-eligible (env: ACTIVITY_UNFOLLOW_DAYS)")
	pflag.Int("activity.max_unfollows", 10, "Max unfollows per routine (env: ACTIVITY_MAX_UNFOLLOWS)")

	pflag.String("schedule.times", "", "Comma-separated daily trigger times, HH:MM (env: SCHEDULE_TIMES)")
	pflag.String("schedule.timezone", "UTC", "IANA timezone for schedule times (env: SCHEDULE_TIMEZONE)")

	pflag.Int("server.port", 10000, "Status server port (env: PORT)")

	pflag.String("report.bot_token", "", "Telegram bot token for daily reports (env: TELEGRAM_BOT_TOKEN)")
	pflag.String("report.chat_id", "", "Telegram chat ID for daily reports (env: REPORT_CHAT_ID)")

	pflag.String("app.data_dir", "data", "Data directory (env: APP_DATA_DIR)")
	pflag.String("app.ledger_file", "follow_history.json", "Follow ledger file name inside the data dir (env: APP_LEDGER_FILE)")

	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)
}

func validateConfig(cfg *Config) error {
	if cfg.Instagram.Username == "" || cfg.Instagram.Username == placeholderUsername {
		return fmt.Errorf("instagram.username is required: set INSTAGRAM_USERNAME")
	}
	if cfg.Instagram.Password == "" || cfg.Instagram.Password == placeholderPassword {
		return fmt.Errorf("instagram.password is required: set INSTAGRAM_PASSWORD")
	}
	if len(cfg.Schedule.Times) == 0 {
		return fmt.Errorf("schedule.times must contain at least one HH:MM entry")
	}
	for _, t := range cfg.Schedule.Times {
		if _, _, err := ParseClock(t); err != nil {
			return err
		}
	}
	return nil
}

// ParseClock parses an "HH:MM" string into hour and minute.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if _, err := fmt.Sscanf(parts[0], "%d", &hour); err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &minute); err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return hour, minute, nil
}
