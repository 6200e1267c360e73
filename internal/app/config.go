package app

import (
	"time"

	"github.com/yungbote/omnichat-backend/internal/platform/envutil"
)

type Config struct {
	Port    string
	LogMode string

	// DataPath is the sqlite file holding the persisted collections.
	// Empty means in-memory state that does not survive a restart.
	DataPath string

	AIGridAPIKey  string
	AIGridBaseURL string
	Model         string
	Temperature   float64
	MaxTokens     int
	Timeout       time.Duration

	YouTubeAPIKey string
}

func LoadConfig() Config {
	return Config{
		Port:          envutil.String("PORT", "8080"),
		LogMode:       envutil.String("LOG_MODE", "development"),
		DataPath:      envutil.String("DATA_PATH", "omnichat.db"),
		AIGridAPIKey:  envutil.String("AIGRID_API_KEY", ""),
		AIGridBaseURL: envutil.String("AIGRID_BASE_URL", ""),
		Model:         envutil.String("AIGRID_MODEL", ""),
		Temperature:   envutil.Float("AIGRID_TEMPERATURE", 0.1),
		MaxTokens:     envutil.Int("AIGRID_MAX_TOKENS", 8000),
		Timeout:       time.Duration(envutil.Int("AIGRID_TIMEOUT_SECONDS", 120)) * time.Second,
		YouTubeAPIKey: envutil.String("YOUTUBE_API_KEY", ""),
	}
}
