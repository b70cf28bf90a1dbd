package attachment

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
)

// Analyzer estimates the total page count of a set of files remotely.
type Analyzer interface {
	AnalyzeFiles(ctx context.Context, files []File) (int, error)
}

// PageCounter counts pages through an Analyzer and falls back to
// EstimatePages when the analyzer is absent or fails.
type PageCounter struct {
	analyzer Analyzer
	logger   *slog.Logger
}

// NewPageCounter creates a PageCounter. analyzer may be nil.
func NewPageCounter(analyzer Analyzer, logger *slog.Logger) *PageCounter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageCounter{analyzer: analyzer, logger: logger}
}

// Count returns the total page count for files. It never fails.
func (p *PageCounter) Count(ctx context.Context, files []File) int {
	if len(files) == 0 {
		return 0
	}
	if p.analyzer != nil {
		n, err := p.analyzer.AnalyzeFiles(ctx, files)
		if err == nil && n > 0 {
			return n
		}
		if err != nil {
			p.logger.Warn("page analysis failed, estimating locally",
				slog.Int("files", len(files)),
				slog.String("error", err.Error()),
			)
		}
	}
	return EstimatePages(files)
}

// Bytes per page for the local estimate, by document family.
const (
	pdfBytesPerPage  = 50 * 1024
	docBytesPerPage  = 30 * 1024
	pptBytesPerPage  = 100 * 1024
	textBytesPerPage = 3 * 1024
)

// EstimatePages guesses a page count from file size and extension.
// Every file counts for at least one page.
func EstimatePages(files []File) int {
	total := 0
	for _, f := range files {
		total += estimateOne(f.Name(), f.Size())
	}
	return total
}

func estimateOne(name string, size int64) int {
	var per int64
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		per = pdfBytesPerPage
	case ".doc", ".docx", ".odt", ".rtf":
		per = docBytesPerPage
	case ".ppt", ".pptx", ".odp":
		per = pptBytesPerPage
	case ".txt", ".md":
		per = textBytesPerPage
	default:
		return 1
	}
	n := int(size / per)
	if size%per != 0 {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}
