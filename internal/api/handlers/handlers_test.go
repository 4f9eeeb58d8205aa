package handlers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
	"github.com/chynybekuuludastan/content_mapper/internal/service/analysis"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/validation"
	"github.com/chynybekuuludastan/content_mapper/internal/storage"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing image", analysis.ErrNoImage, fiber.StatusBadRequest},
		{"wrapped snapshot error", fmt.Errorf("import: %w", storage.ErrInvalidSnapshot), fiber.StatusBadRequest},
		{"unknown record", storage.ErrRecordNotFound, fiber.StatusNotFound},
		{"superseded", analysis.ErrSuperseded, fiber.StatusConflict},
		{"rate limited", llm.ErrRateLimitExceeded, fiber.StatusTooManyRequests},
		{"timeout", fmt.Errorf("analyze: %w", context.DeadlineExceeded), fiber.StatusGatewayTimeout},
		{"contract violation", &validation.ValidationError{Issues: []string{"sections is empty"}}, fiber.StatusBadGateway},
		{"undecodable answer", fmt.Errorf("%w: eof", llm.ErrResponseProcessing), fiber.StatusBadGateway},
		{"anything else", errors.New("disk on fire"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestAllowedTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  bool
	}{
		{"job:01HZX", true},
		{"job:", false},
		{"session:me", true},
		{"session:someone-else", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := allowedTopic(tt.topic, "me"); got != tt.want {
			t.Errorf("allowedTopic(%q) = %v, want %v", tt.topic, got, tt.want)
		}
	}
}

func TestValidateSettings(t *testing.T) {
	t.Run("brand voice", func(t *testing.T) {
		valid := models.BrandVoiceProfile{Tone: models.ToneProfessional, Formality: 10}
		if err := validateBrandVoice(valid); err != nil {
			t.Errorf("Expected valid profile, got %v", err)
		}

		for _, profile := range []models.BrandVoiceProfile{
			{Tone: "grumpy", Formality: 5},
			{Tone: models.ToneCasual, Formality: 11},
			{Tone: models.ToneCasual, TargetReadingLevel: -1},
		} {
			if err := validateBrandVoice(profile); err == nil {
				t.Errorf("Expected %+v to be rejected", profile)
			}
		}
	})

	t.Run("preferences", func(t *testing.T) {
		light := "light"
		sepia := "sepia"
		csv := models.ExportCSV
		pdf := models.ExportFormat("pdf")

		if err := validatePreferences(models.PreferencesPatch{Theme: &light, DefaultExportFormat: &csv}); err != nil {
			t.Errorf("Expected valid patch, got %v", err)
		}
		if err := validatePreferences(models.PreferencesPatch{Theme: &sepia}); err == nil {
			t.Error("Expected unknown theme to be rejected")
		}
		if err := validatePreferences(models.PreferencesPatch{DefaultExportFormat: &pdf}); err == nil {
			t.Error("Expected unknown format to be rejected")
		}
	})
}
