package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/chynybekuuludastan/content_mapper/internal/models"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/tokens"
	"github.com/chynybekuuludastan/content_mapper/internal/shortcuts"
	"github.com/chynybekuuludastan/content_mapper/internal/storage"
)

// SettingsHandler serves the brand voice, preferences, recency lists, the
// shortcut table and model usage
type SettingsHandler struct {
	Store   *storage.Store
	Tracker *tokens.Tracker
}

// RecentRequest records one recently used value
type RecentRequest struct {
	Value string `json:"value"`
}

// ShortcutInfo describes one binding for display
type ShortcutInfo struct {
	shortcuts.Binding
	Chord string `json:"chord"`
}

var themes = map[string]bool{"light": true, "dark": true}

func validateBrandVoice(profile models.BrandVoiceProfile) error {
	if !profile.Tone.Valid() {
		return fmt.Errorf("unknown tone %q", profile.Tone)
	}
	if profile.Formality < 0 || profile.Formality > 10 {
		return fmt.Errorf("formality must be between 0 and 10, got %d", profile.Formality)
	}
	if profile.TargetReadingLevel < 0 {
		return fmt.Errorf("target reading level must not be negative, got %d", profile.TargetReadingLevel)
	}
	return nil
}

func validatePreferences(patch models.PreferencesPatch) error {
	if patch.Theme != nil && !themes[*patch.Theme] {
		return fmt.Errorf("unknown theme %q", *patch.Theme)
	}
	if patch.DefaultExportFormat != nil && !patch.DefaultExportFormat.Valid() {
		return fmt.Errorf("unknown export format %q", *patch.DefaultExportFormat)
	}
	return nil
}

// @Summary Get the brand voice profile
// @Tags settings
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Router /brand-voice [get]
func (h *SettingsHandler) GetBrandVoice(c *fiber.Ctx) error {
	return readResponse(c, h.Store.GetBrandVoice(c.UserContext()))
}

// @Summary Save the brand voice profile
// @Tags settings
// @Accept json
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /brand-voice [put]
func (h *SettingsHandler) SaveBrandVoice(c *fiber.Ctx) error {
	profile := new(models.BrandVoiceProfile)
	if err := c.BodyParser(profile); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	if err := validateBrandVoice(*profile); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.Store.SaveBrandVoice(c.UserContext(), *profile); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to save brand voice: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profile,
	})
}

// @Summary Clear the brand voice profile
// @Tags settings
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Router /brand-voice [delete]
func (h *SettingsHandler) ClearBrandVoice(c *fiber.Ctx) error {
	if err := h.Store.ClearBrandVoice(c.UserContext()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to clear brand voice: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Brand voice cleared",
	})
}

// @Summary Get preferences
// @Tags settings
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Router /preferences [get]
func (h *SettingsHandler) GetPreferences(c *fiber.Ctx) error {
	return readResponse(c, h.Store.GetPreferences(c.UserContext()))
}

// @Summary Update preferences
// @Tags settings
// @Accept json
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /preferences [patch]
func (h *SettingsHandler) UpdatePreferences(c *fiber.Ctx) error {
	patch := new(models.PreferencesPatch)
	if err := c.BodyParser(patch); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	if err := validatePreferences(*patch); err != nil {
		return badRequest(c, err.Error())
	}

	prefs, err := h.Store.SavePreferences(c.UserContext(), *patch)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to save preferences: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    prefs,
	})
}

// @Summary Recently used keywords
// @Tags settings
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Router /recent/keywords [get]
func (h *SettingsHandler) GetRecentKeywords(c *fiber.Ctx) error {
	return readResponse(c, h.Store.GetRecentKeywords(c.UserContext()))
}

// @Summary Record a keyword
// @Tags settings
// @Accept json
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Router /recent/keywords [post]
func (h *SettingsHandler) AddRecentKeyword(c *fiber.Ctx) error {
	return h.addRecent(c, h.Store.AddRecentKeyword, h.Store.GetRecentKeywords)
}

// @Summary Recently used audiences
// @Tags settings
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Router /recent/audiences [get]
func (h *SettingsHandler) GetRecentAudiences(c *fiber.Ctx) error {
	return readResponse(c, h.Store.GetRecentAudiences(c.UserContext()))
}

// @Summary Record an audience
// @Tags settings
// @Accept json
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Router /recent/audiences [post]
func (h *SettingsHandler) AddRecentAudience(c *fiber.Ctx) error {
	return h.addRecent(c, h.Store.AddRecentAudience, h.Store.GetRecentAudiences)
}

func (h *SettingsHandler) addRecent(
	c *fiber.Ctx,
	add func(ctx context.Context, value string) error,
	list func(ctx context.Context) storage.Read[[]string],
) error {
	req := new(RecentRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}
	if strings.TrimSpace(req.Value) == "" {
		return badRequest(c, "Value is required")
	}

	ctx := c.UserContext()
	if err := add(ctx, req.Value); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to save: " + err.Error(),
		})
	}
	return readResponse(c, list(ctx))
}

// @Summary Keyboard shortcut table
// @Tags settings
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Router /shortcuts [get]
func (h *SettingsHandler) Shortcuts(c *fiber.Ctx) error {
	bindings := shortcuts.DefaultBindings(func(string) {})
	out := make([]ShortcutInfo, 0, len(bindings))
	for _, b := range bindings {
		out = append(out, ShortcutInfo{Binding: b, Chord: b.Chord()})
	}

	prefs := h.Store.GetPreferences(c.UserContext()).Value
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"enabled":  prefs.KeyboardShortcuts,
			"bindings": out,
		},
	})
}

// @Summary Model usage for today
// @Tags settings
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Router /usage [get]
func (h *SettingsHandler) Usage(c *fiber.Ctx) error {
	var summary tokens.Summary
	if h.Tracker != nil {
		summary = h.Tracker.Summary()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
	})
}
