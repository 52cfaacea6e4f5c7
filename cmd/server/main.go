package main

import (
	"fmt"
	"log"

	"spendscope/internal/categorizer"
	"spendscope/internal/categorizer/claude"
	"spendscope/internal/categorizer/gemini"
	"spendscope/internal/categorizer/openai"
	"spendscope/internal/config"
	"spendscope/internal/handler"
	"spendscope/internal/pdftext"
	"spendscope/internal/port"
	"spendscope/internal/router"
	"spendscope/internal/service"
	"spendscope/internal/statement"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func registerProviders() {
	categorizer.RegisterProvider("openai", func(cfg *config.CategorizerProviderConfig) (port.Categorizer, error) {
		return openai.NewCategorizer(cfg), nil
	})
	categorizer.RegisterProvider("claude", func(cfg *config.CategorizerProviderConfig) (port.Categorizer, error) {
		return claude.NewCategorizer(cfg), nil
	})
	categorizer.RegisterProvider("gemini", func(cfg *config.CategorizerProviderConfig) (port.Categorizer, error) {
		return gemini.NewCategorizer(cfg), nil
	})
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registerProviders()

	llm, err := categorizer.NewFromConfig(&cfg.Categorizer)
	if err != nil {
		return fmt.Errorf("failed to build categorizer: %w", err)
	}

	// Initialize pipeline components
	textExtractor := pdftext.NewExtractor()
	segmenter := statement.NewExtractor(cfg.Statement.StartMarker, cfg.Statement.StopMarker)

	// Initialize services
	analysisSvc := service.NewAnalysisService(textExtractor, segmenter, llm, &cfg.Upload)

	// Initialize handlers
	analysisH := handler.NewAnalysisHandler(analysisSvc)
	healthH := handler.NewHealthHandler(llm)

	// Setup router
	r := router.Setup(cfg, analysisH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
