package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"spendscope/internal/domain"
	"spendscope/internal/report"
	"spendscope/internal/service"
)

// AnalysisHandler handles statement analysis endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// Analyze handles POST /api/v1/statements/analyze
// @Summary Analyze a credit card statement
// @Description Upload a statement PDF and receive categorized transactions plus per-category spend totals
// @Tags statements
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Statement PDF"
// @Success 200 {object} APIResponse "Categorized transactions and totals"
// @Failure 400 {object} APIResponse "Missing file or unsupported type"
// @Failure 413 {object} APIResponse "File too large"
// @Failure 422 {object} APIResponse "Unsupported statement format"
// @Router /statements/analyze [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	analysis, ok := h.runAnalysis(c)
	if !ok {
		return
	}
	RespondOK(c, analysis)
}

// Export handles POST /api/v1/statements/analyze/export
// @Summary Analyze a statement and download the report
// @Description Upload a statement PDF and receive the analysis as a CSV or XLSX report
// @Tags statements
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "Statement PDF"
// @Param format query string false "Report format: csv or xlsx" default(csv)
// @Success 200 {file} file "Report file"
// @Failure 400 {object} APIResponse "Missing file, unsupported type, or unknown format"
// @Router /statements/analyze/export [post]
func (h *AnalysisHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported report format; allowed: csv, xlsx")
		return
	}

	analysis, ok := h.runAnalysis(c)
	if !ok {
		return
	}

	base := analysis.FileName
	if ext := filepath.Ext(base); strings.EqualFold(ext, ".pdf") {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" {
		base = "statement"
	}

	var buf bytes.Buffer
	switch format {
	case "csv":
		buf.Write(report.BOM)
		w := report.NewWriter(&buf)
		if err := w.WriteAnalysis(analysis); err != nil {
			HandleError(c, err)
			return
		}
		w.Flush()
		if err := w.Error(); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+"-analysis.csv"))
		c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
	case "xlsx":
		if err := report.WriteXLSX(&buf, analysis); err != nil {
			HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", base+"-analysis.xlsx"))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}

// runAnalysis pulls the uploaded file out of the multipart form and runs the
// analysis pipeline, writing the error response itself on failure.
func (h *AnalysisHandler) runAnalysis(c *gin.Context) (*domain.Analysis, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return nil, false
	}
	defer func() { _ = file.Close() }()

	a, err := h.analysisService.AnalyzeUpload(c.Request.Context(), service.AnalyzeUploadInput{
		File:   file,
		Header: header,
	})
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return a, true
}
