// Package export renders an analysis as a standalone document
package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

// ErrUnsupportedFormat is returned for formats without a formatter
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Document is a rendered export ready to be served as a download
type Document struct {
	Body     []byte
	MIMEType string
	FileName string
}

// Formatter renders one analysis. CSV and JSON ignore the config.
type Formatter func(result *models.AnalysisResult, config models.AnalysisConfig) (string, error)

var formatters = map[models.ExportFormat]Formatter{
	models.ExportMarkdown: Markdown,
	models.ExportJSON:     JSON,
	models.ExportHTML:     HTML,
	models.ExportCSV:      CSV,
}

var now = time.Now

// FileName returns content-analysis-<epoch-ms>.<ext>
func FileName(format models.ExportFormat, t time.Time) string {
	return fmt.Sprintf("content-analysis-%d.%s", t.UnixMilli(), format.Extension())
}

// Export dispatches to the formatter for format
func Export(result *models.AnalysisResult, format models.ExportFormat, config models.AnalysisConfig) (*Document, error) {
	if result == nil {
		return nil, errors.New("nothing to export")
	}

	formatter, ok := formatters[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	body, err := formatter(result, config)
	if err != nil {
		return nil, err
	}

	return &Document{
		Body:     []byte(body),
		MIMEType: format.MIMEType(),
		FileName: FileName(format, now()),
	}, nil
}
