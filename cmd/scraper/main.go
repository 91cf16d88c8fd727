package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"advisor_scraper/internal/adapters/fetch"
	"advisor_scraper/internal/adapters/observability"
	"advisor_scraper/internal/app"
	"advisor_scraper/internal/domain"
	"advisor_scraper/internal/shared"
	"advisor_scraper/internal/storage/jsonl"
	mysqlrepo "advisor_scraper/internal/storage/mysql"
)

const defaultListing = "https://www.tripadvisor.com/Restaurants-g304082-Kosovo.html"

func main() {
	cfg := shared.Load()

	listingURL := flag.String("url", defaultListing, "listing page to crawl")
	flag.Parse()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	log.Info().
		Str("listing", *listingURL).
		Str("sink", cfg.Sink).
		Int("workers", cfg.Workers).
		Msg("scraper starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink := buildSink(cfg, *listingURL)

	fetcher := fetch.New(cfg.UserAgent, cfg.FetchRPS, cfg.FetchTimeout, cfg.FetchRetries)
	if cfg.RespectRobots {
		fetcher.LoadRobots(ctx, cfg.BaseURL)
	}

	crawler := app.NewCrawler(fetcher, sink, cfg.BaseURL, cfg.Workers)
	sum, err := crawler.Run(ctx, *listingURL)
	if err != nil {
		log.Fatal().Err(err).Msg("crawl failed")
	}

	log.Info().
		Int("businesses", sum.Businesses).
		Int("reviews", sum.Reviews).
		Int("skipped", sum.Skipped).
		Msg("crawl completed")
}

func buildSink(cfg shared.Config, listingURL string) domain.Sink {
	switch cfg.Sink {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("db ping ok")
		return mysqlrepo.New(db)
	default:
		s, err := jsonl.New(cfg.OutputDir, listingURL)
		if err != nil {
			log.Fatal().Err(err).Msg("jsonl sink init failed")
		}
		return s
	}
}
