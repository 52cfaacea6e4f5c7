package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"spendscope/internal/config"
	"spendscope/internal/domain"
	"spendscope/internal/port"
	"spendscope/internal/report"
	"spendscope/internal/statement"
)

// AnalyzeUploadInput is the DTO for statement upload requests.
type AnalyzeUploadInput struct {
	File   multipart.File
	Header *multipart.FileHeader
}

// AnalysisService defines the statement analysis contract.
type AnalysisService interface {
	AnalyzeUpload(ctx context.Context, input AnalyzeUploadInput) (*domain.Analysis, error)
	AnalyzeBytes(ctx context.Context, fileName string, data []byte) (*domain.Analysis, error)
}

type analysisService struct {
	extractor   port.TextExtractor
	segmenter   *statement.Extractor
	categorizer port.Categorizer
	cfg         *config.UploadConfig
}

// NewAnalysisService creates a new AnalysisService implementation.
func NewAnalysisService(
	textExtractor port.TextExtractor,
	segmenter *statement.Extractor,
	categorizer port.Categorizer,
	cfg *config.UploadConfig,
) AnalysisService {
	return &analysisService{
		extractor:   textExtractor,
		segmenter:   segmenter,
		categorizer: categorizer,
		cfg:         cfg,
	}
}

// AnalyzeUpload validates the uploaded file and runs the analysis pipeline on
// its contents. The upload is processed entirely in memory and discarded.
func (s *analysisService) AnalyzeUpload(ctx context.Context, input AnalyzeUploadInput) (*domain.Analysis, error) {
	// Validate file extension
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	// Validate file size
	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(input.File, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	// Magic-byte content type detection
	sniffLen := len(data)
	if sniffLen > 512 {
		sniffLen = 512
	}
	detectedType := http.DetectContentType(data[:sniffLen])
	if _, ok := domain.AllowedContentTypes[detectedType]; !ok {
		return nil, domain.ErrUnsupportedFileType
	}

	return s.AnalyzeBytes(ctx, input.Header.Filename, data)
}

// AnalyzeBytes runs the pipeline on raw PDF bytes: text extraction, purchase
// section slicing, LLM categorization, per-category aggregation.
func (s *analysisService) AnalyzeBytes(ctx context.Context, fileName string, data []byte) (*domain.Analysis, error) {
	extracted, err := s.extractor.ExtractText(ctx, data)
	if err != nil {
		return nil, err
	}

	purchases, err := s.segmenter.ExtractPurchases(extracted.Text)
	if err != nil {
		return nil, err
	}

	out, err := s.categorizer.Categorize(ctx, port.CategorizeInput{StatementText: purchases})
	if err != nil {
		return nil, fmt.Errorf("categorizing transactions: %w", err)
	}

	analysis := &domain.Analysis{
		ID:              uuid.New(),
		FileName:        fileName,
		PageCount:       extracted.PageCount,
		Transactions:    out.Transactions,
		SpendByCategory: report.Aggregate(out.Transactions),
		ModelUsed:       out.ModelUsed,
		AnalyzedAt:      time.Now().UTC(),
	}

	log.Printf("analysisService: analyzed %s (%d pages, %d transactions, %d categories)",
		fileName, analysis.PageCount, len(analysis.Transactions), len(analysis.SpendByCategory))

	return analysis, nil
}
