// Command analyze runs the statement analysis pipeline on a single PDF and
// prints per-category spend totals.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"spendscope/internal/categorizer"
	"spendscope/internal/categorizer/claude"
	"spendscope/internal/categorizer/gemini"
	"spendscope/internal/categorizer/openai"
	"spendscope/internal/config"
	"spendscope/internal/pdftext"
	"spendscope/internal/port"
	"spendscope/internal/service"
	"spendscope/internal/statement"
)

func main() {
	verbose := flag.Bool("v", false, "print individual transactions as well as totals")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-v] <path_to_pdf>\n", filepath.Base(os.Args[0]))
		os.Exit(1)
	}
	pdfPath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	categorizer.RegisterProvider("openai", func(pc *config.CategorizerProviderConfig) (port.Categorizer, error) {
		return openai.NewCategorizer(pc), nil
	})
	categorizer.RegisterProvider("claude", func(pc *config.CategorizerProviderConfig) (port.Categorizer, error) {
		return claude.NewCategorizer(pc), nil
	})
	categorizer.RegisterProvider("gemini", func(pc *config.CategorizerProviderConfig) (port.Categorizer, error) {
		return gemini.NewCategorizer(pc), nil
	})

	llm, err := categorizer.NewFromConfig(&cfg.Categorizer)
	if err != nil {
		log.Fatalf("failed to build categorizer: %v", err)
	}

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		log.Fatalf("failed to read %s: %v", pdfPath, err)
	}

	segmenter := statement.NewExtractor(cfg.Statement.StartMarker, cfg.Statement.StopMarker)
	svc := service.NewAnalysisService(pdftext.NewExtractor(), segmenter, llm, &cfg.Upload)

	analysis, err := svc.AnalyzeBytes(context.Background(), filepath.Base(pdfPath), data)
	if err != nil {
		log.Fatalf("failed to analyze %s: %v", pdfPath, err)
	}

	if *verbose {
		for _, tx := range analysis.Transactions {
			fmt.Printf("%s | %s | %.2f | %s\n", tx.Date, tx.Description, tx.Amount, tx.Category)
		}
		fmt.Println()
	}

	categories := make([]string, 0, len(analysis.SpendByCategory))
	for c := range analysis.SpendByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		fmt.Printf("%-20s %10.2f\n", c, analysis.SpendByCategory[c])
	}
}
