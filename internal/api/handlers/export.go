package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chynybekuuludastan/content_mapper/internal/api/middleware"
	"github.com/chynybekuuludastan/content_mapper/internal/models"
	"github.com/chynybekuuludastan/content_mapper/internal/service/analysis"
	"github.com/chynybekuuludastan/content_mapper/internal/service/export"
	"github.com/chynybekuuludastan/content_mapper/internal/storage"
)

// ExportHandler renders analyses as downloadable documents
type ExportHandler struct {
	Store      *storage.Store
	Workspaces *analysis.Workspaces
}

// ExportRequest selects what to render. Without a result the session's
// current analysis is exported; without a format the preferred one is used.
type ExportRequest struct {
	Result *models.AnalysisResult `json:"result"`
	Format models.ExportFormat    `json:"format"`
	Config models.AnalysisConfig  `json:"config"`
}

// sendDocument writes doc as an attachment
func sendDocument(c *fiber.Ctx, doc *export.Document) error {
	c.Attachment(doc.FileName)
	c.Set(fiber.HeaderContentType, doc.MIMEType+"; charset=utf-8")
	return c.Send(doc.Body)
}

// @Summary Export an analysis
// @Tags export
// @Accept json
// @Produce plain
// @Param request body api.ExportRequest true "Export"
// @Success 200 {file} file
// @Failure 400 {object} api.ErrorResponse
// @Router /export [post]
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	req := new(ExportRequest)
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
		return badRequest(c, "No analysis to export")
	}

	if req.Format == "" {
		req.Format = h.Store.GetPreferences(c.UserContext()).Value.DefaultExportFormat
	}

	doc, err := export.Export(req.Result, req.Format, req.Config)
	if err != nil {
		return errorResponse(c, err)
	}
	return sendDocument(c, doc)
}
