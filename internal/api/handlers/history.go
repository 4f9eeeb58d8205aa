package handlers

import (
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chynybekuuludastan/content_mapper/internal/api/middleware"
	"github.com/chynybekuuludastan/content_mapper/internal/models"
	"github.com/chynybekuuludastan/content_mapper/internal/service/analysis"
	"github.com/chynybekuuludastan/content_mapper/internal/service/export"
	"github.com/chynybekuuludastan/content_mapper/internal/storage"
)

// HistoryHandler serves saved analyses and the snapshot transfer
type HistoryHandler struct {
	Store      *storage.Store
	Workspaces *analysis.Workspaces
	// MaxImportBytes bounds an uploaded snapshot file
	MaxImportBytes int64
}

// SaveHistoryRequest stores an analysis. Without a result the session's
// current analysis is saved.
type SaveHistoryRequest struct {
	Result *models.AnalysisResult `json:"result"`
	Config models.AnalysisConfig  `json:"config"`
}

// @Summary List saved analyses, newest first
// @Tags history
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Router /history [get]
func (h *HistoryHandler) List(c *fiber.Ctx) error {
	return readResponse(c, h.Store.GetHistory(c.UserContext()))
}

// @Summary Save an analysis to history
// @Tags history
// @Accept json
// @Produce json
// @Success 201 {object} api.SuccessResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /history [post]
func (h *HistoryHandler) Save(c *fiber.Ctx) error {
	req := new(SaveHistoryRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return badRequest(c, "Invalid request body: "+err.Error())
		}
	}

	if req.Result == nil {
		if session, ok := h.Workspaces.Lookup(middleware.SessionID(c)); ok {
			req.Result = session.Current()
		}
	}
	if req.Result == nil {
		return badRequest(c, "No analysis to save")
	}

	record, err := h.Store.SaveHistory(c.UserContext(), req.Result, req.Config)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to save analysis: " + err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    record,
	})
}

// @Summary Get a saved analysis
// @Tags history
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} api.SuccessResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /history/{id} [get]
func (h *HistoryHandler) Get(c *fiber.Ctx) error {
	read := h.Store.GetByID(c.UserContext(), c.Params("id"))
	if read.Value == nil {
		body := fiber.Map{
			"success": false,
			"error":   "Analysis not found",
		}
		if read.Degraded() {
			body["degraded"] = true
			body["warning"] = read.Err.Error()
		}
		return c.Status(fiber.StatusNotFound).JSON(body)
	}
	return readResponse(c, read)
}

// @Summary Delete a saved analysis
// @Tags history
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} api.SuccessResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /history/{id} [delete]
func (h *HistoryHandler) Delete(c *fiber.Ctx) error {
	deleted, err := h.Store.DeleteByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to delete analysis: " + err.Error(),
		})
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Analysis not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Analysis deleted successfully",
	})
}

// @Summary Clear all stored data
// @Tags history
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Router /history [delete]
func (h *HistoryHandler) Clear(c *fiber.Ctx) error {
	if err := h.Store.ClearAll(c.UserContext()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to clear storage: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "All stored data cleared",
	})
}

// @Summary Compare two saved analyses
// @Tags history
// @Produce json
// @Param a query string true "First record ID"
// @Param b query string true "Second record ID"
// @Success 200 {object} api.SuccessResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /history/compare [get]
func (h *HistoryHandler) Compare(c *fiber.Ctx) error {
	first, second := c.Query("a"), c.Query("b")
	if first == "" || second == "" {
		return badRequest(c, "Query parameters a and b are required")
	}

	comparison, err := h.Store.CompareRecords(c.UserContext(), first, second)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    comparison,
	})
}

// @Summary Download a snapshot of all stored data
// @Tags history
// @Produce json
// @Success 200 {file} file
// @Router /history/export [get]
func (h *HistoryHandler) Export(c *fiber.Ctx) error {
	data, err := h.Store.ExportHistoryJSON(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to export history: " + err.Error(),
		})
	}

	c.Attachment(fmt.Sprintf("content-mapper-history-%d.json", time.Now().UnixMilli()))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(data)
}

// @Summary Restore a snapshot
// @Tags history
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /history/import [post]
func (h *HistoryHandler) Import(c *fiber.Ctx) error {
	data := c.Body()

	if fh, err := c.FormFile("file"); err == nil {
		if h.MaxImportBytes > 0 && fh.Size > h.MaxImportBytes {
			return errorResponse(c, fmt.Errorf("%w: %s", ErrUploadTooLarge, fh.Filename))
		}
		f, err := fh.Open()
		if err != nil {
			return badRequest(c, "Failed to open snapshot: "+err.Error())
		}
		defer f.Close()

		if data, err = io.ReadAll(f); err != nil {
			return badRequest(c, "Failed to read snapshot: "+err.Error())
		}
	}

	if err := h.Store.ImportHistoryJSON(c.UserContext(), data); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Snapshot imported successfully",
	})
}

// @Summary Export a saved analysis
// @Tags history
// @Produce plain
// @Param id path string true "Record ID"
// @Param format query string false "markdown, json, html or csv"
// @Success 200 {file} file
// @Failure 404 {object} api.ErrorResponse
// @Router /history/{id}/export [get]
func (h *HistoryHandler) ExportRecord(c *fiber.Ctx) error {
	ctx := c.UserContext()

	read := h.Store.GetByID(ctx, c.Params("id"))
	if read.Value == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Analysis not found",
		})
	}

	format := models.ExportFormat(c.Query("format"))
	if format == "" {
		format = h.Store.GetPreferences(ctx).Value.DefaultExportFormat
	}

	doc, err := export.Export(&read.Value.Result, format, read.Value.Config)
	if err != nil {
		return errorResponse(c, err)
	}
	return sendDocument(c, doc)
}

// @Summary Aggregate statistics over history
// @Tags history
// @Produce json
// @Success 200 {object} api.SuccessResponse
// @Router /statistics [get]
func (h *HistoryHandler) Statistics(c *fiber.Ctx) error {
	return readResponse(c, h.Store.GetStatistics(c.UserContext()))
}
