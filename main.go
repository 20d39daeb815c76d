package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"fooddash/auth"
	"fooddash/bot"
	"fooddash/catalog"
	"fooddash/config"
	"fooddash/db"
	"fooddash/httpapi"
	"fooddash/store"
	"fooddash/storefront"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.Auth.SessionSecret == "" {
		fmt.Fprintln(os.Stderr, "SESSION_SECRET not set")
		os.Exit(1)
	}

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	// Optional auto-migration (useful in production and for fresh DBs).
	// Set AUTO_MIGRATE=1 (or "true") to enable.
	if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
		if err := applyMigrations(context.Background(), false); err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(1)
		}
	}

	dataStore := store.New(db.Pool)

	// The catalog is loaded once per process; a failed load leaves the menu
	// empty rather than crashing.
	cat := catalog.New(dataStore)
	cat.Load(context.Background())
	logrus.WithField("products", cat.Len()).Info("catalog loaded")

	sessions := storefront.NewManager(cat, dataStore)
	authProvider := auth.New(cfg.Auth.SessionSecret)

	// Start Telegram storefront (TOKEN) alongside the HTTP API
	if cfg.Telegram.Token != "" {
		b, err := bot.New(cfg, sessions, cat)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bot:", err)
			os.Exit(1)
		}
		go b.Start()
		logrus.Info("telegram storefront started")
	}

	srv := httpapi.NewServer(sessions, authProvider, cat)
	logrus.WithField("addr", cfg.HTTP.Addr).Info("http api listening")
	if err := http.ListenAndServe(cfg.HTTP.Addr, srv.Router()); err != nil {
		fmt.Fprintln(os.Stderr, "http:", err)
		os.Exit(1)
	}
}

func runMigrate(cfg *config.Config) {
	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := applyMigrations(context.Background(), true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
