package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/spendlens/spendlens/internal/config"
	"github.com/spendlens/spendlens/internal/database"
	spendlensHttp "github.com/spendlens/spendlens/internal/http"
	importHandler "github.com/spendlens/spendlens/internal/http/importcsv"
	insightsHandler "github.com/spendlens/spendlens/internal/http/insights"
	rulesHandler "github.com/spendlens/spendlens/internal/http/rules"
	txHandler "github.com/spendlens/spendlens/internal/http/transaction"
	"github.com/spendlens/spendlens/internal/importer"
	"github.com/spendlens/spendlens/internal/llm"
	ruleStore "github.com/spendlens/spendlens/internal/rules/store"
	"github.com/spendlens/spendlens/internal/transaction"
	txStore "github.com/spendlens/spendlens/internal/transaction/store"
)

func main() {
	// Best effort; production config comes from real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	classifier, err := llm.NewGeminiClassifier(context.Background(), cfg.LLM.APIKey, cfg.LLM.Model, slog.Default())
	if err != nil {
		slog.Error("failed to configure classifier", "error", err)
		os.Exit(1)
	}

	var (
		ruleStorage        = ruleStore.New(db)
		transactionService = transaction.NewService(txStore.New(db))
		importService      = importer.NewService()
	)

	var (
		transactionH = txHandler.NewHandler(transactionService, ruleStorage)
		importH      = importHandler.NewHandler(importService, transactionService, ruleStorage)
		rulesH       = rulesHandler.NewHandler(ruleStorage, classifier, transactionService)
		insightsH    = insightsHandler.NewHandler(transactionService)
	)

	router := spendlensHttp.New(
		[]byte(cfg.Auth.JWTSecret),
		cfg.CORSOrigins(),
		transactionH,
		importH,
		rulesH,
		insightsH,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
