package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	Environment string
	// Notion
	NotionAPIKey            string
	NotionPageID            string // optional fallback for webhook payloads without a page id
	NotionVerificationToken string
	NotionBaseURL           string // deep link base for suggestion buttons
	// Google Drive
	DriveTxtFolderID  string
	DriveGdocFolderID string
	// Slack
	SlackBotToken  string
	SlackWorkspace string // used for constructed permalink fallbacks
	// LLM Configuration
	GeminiAPIKey string
	Model        string
	// Monitoring
	JobsFile     string
	LookbackDays int
	MonitorCron  string // empty disables the in-process schedule
	// Sync queue
	QueueSize   int
	SyncRetries int
	// CORS
	CORSOrigins string
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,

		NotionAPIKey:            getEnv("NOTION_API_KEY", ""),
		NotionPageID:            getEnv("NOTION_PAGE_ID", ""),
		NotionVerificationToken: getEnv("NOTION_VERIFICATION_TOKEN", ""),
		NotionBaseURL:           getEnv("NOTION_BASE_URL", "https://www.notion.so"),

		DriveTxtFolderID:  getEnv("DRIVE_FOLDER_ID", ""),
		DriveGdocFolderID: getEnv("GDOC_FOLDER_ID", ""),

		SlackBotToken:  getEnv("SLACK_BOT_TOKEN", ""),
		SlackWorkspace: getEnv("SLACK_WORKSPACE", "app"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		Model:        getEnv("MODEL", "gemini-2.5-pro"),

		JobsFile:     getEnv("JOBS_FILE", "jobs.yaml"),
		LookbackDays: getEnvInt("LOOKBACK_DAYS", 7),
		MonitorCron:  getEnv("MONITOR_CRON", ""),

		QueueSize:   getEnvInt("QUEUE_SIZE", 16),
		SyncRetries: getEnvInt("SYNC_RETRIES", 2),

		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
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
