package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	// Advice form client
	AdviceEndpoint  string
	AdviceTimeout   time.Duration // 0 disables the client timeout
	AdviceSendPhoto bool
	SessionTTL      time.Duration

	// Advice pipeline
	WeatherAPIKey     string
	WeatherEndpoint   string
	DiseaseServiceURL string
	PriceBoardURL     string
	PriceRefreshCron  string
	GuidelinesCSV     string
	PricesXLSX        string
	MaxPhotoBytes     int64

	CORSOrigins []string
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup func so tests can feed their own values.
func FromEnv(getenv func(string) string) AppConfig {
	get := func(k, def string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return def
	}
	dur := func(k string, def time.Duration) time.Duration {
		v := getenv(k)
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("[cfg] bad duration %s=%q, using %s", k, v, def)
			return def
		}
		return d
	}
	size := func(k string, def int64) int64 {
		v := getenv(k)
		if v == "" {
			return def
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			log.Printf("[cfg] bad size %s=%q, using %d", k, v, def)
			return def
		}
		return n
	}

	port := get("PORT", "8080")
	cfg := AppConfig{
		Port:      port,
		DBPath:    get("DB_PATH", "agentrix.db"),
		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "json"),

		AdviceEndpoint:  get("ADVICE_ENDPOINT", "http://localhost:"+port+"/api/get-advice"),
		AdviceTimeout:   dur("ADVICE_TIMEOUT", 0),
		AdviceSendPhoto: get("ADVICE_SEND_PHOTO", "false") == "true",
		SessionTTL:      dur("SESSION_TTL", 30*time.Minute),

		WeatherAPIKey:     get("OPENWEATHER_API_KEY", ""),
		WeatherEndpoint:   get("OPENWEATHER_ENDPOINT", "https://api.openweathermap.org"),
		DiseaseServiceURL: get("DISEASE_SERVICE_URL", ""),
		PriceBoardURL:     get("PRICE_BOARD_URL", ""),
		PriceRefreshCron:  get("PRICE_REFRESH_CRON", "0 * * * *"),
		GuidelinesCSV:     get("GUIDELINES_CSV", ""),
		PricesXLSX:        get("PRICES_XLSX", ""),
		MaxPhotoBytes:     size("MAX_PHOTO_BYTES", 8<<20),

		CORSOrigins: splitList(get("CORS_ORIGINS", "http://localhost:3000")),
	}
	log.Printf("[cfg] %+v", redacted(cfg))
	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func redacted(c AppConfig) AppConfig {
	if c.WeatherAPIKey != "" {
		c.WeatherAPIKey = "***"
	}
	return c
}
