package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	BaseURL       string
	UserAgent     string
	Sink          string // jsonl | mysql
	OutputDir     string
	Workers       int
	FetchRPS      int
	FetchRetries  int
	FetchTimeout  time.Duration
	ReviewLimit   int
	RespectRobots bool
	CacheTTL      time.Duration
}

func Load() Config {
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	return Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/advisor?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		BaseURL:     env("SITE_BASE_URL", "https://www.tripadvisor.com"),
		UserAgent: env("SCRAPER_USER_AGENT",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.212 Safari/537.36"),
		Sink:          env("SINK", "jsonl"),
		OutputDir:     env("OUTPUT_DIR", "datasets"),
		Workers:       atoi("CRAWL_WORKERS", 4),
		FetchRPS:      atoi("FETCH_RPS", 2),
		FetchRetries:  atoi("FETCH_RETRIES", 4),
		FetchTimeout:  time.Duration(atoi("FETCH_TIMEOUT_SECONDS", 20)) * time.Second,
		ReviewLimit:   atoi("API_REVIEW_LIMIT", 50),
		RespectRobots: env("RESPECT_ROBOTS", "true") == "true",
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
