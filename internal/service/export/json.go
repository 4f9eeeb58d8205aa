package export

import (
	"encoding/json"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
)

// JSON serialises the result verbatim
func JSON(result *models.AnalysisResult, _ models.AnalysisConfig) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
