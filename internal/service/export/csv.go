package export

import (
	"strconv"
	"strings"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

const csvHeader = "Section,Type,SEO Score,Keywords,Character Count,Content"

// CSV writes one row per section. Text columns are always quoted with
// embedded quotes doubled.
func CSV(result *models.AnalysisResult, _ models.AnalysisConfig) (string, error) {
	var sb strings.Builder

	sb.WriteString(csvHeader)
	sb.WriteString("\n")

	for _, s := range result.Sections {
		fields := []string{
			quote(s.Label),
			string(s.Type),
			strconv.Itoa(s.SeoScore),
			quote(strings.Join(s.Keywords, ";")),
			strconv.Itoa(s.CharacterCount),
			quote(s.SuggestedContent),
		}
		sb.WriteString(strings.Join(fields, ","))
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
