package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/chynybekuuludastan/content_mapper/internal/api/middleware"
	ws "github.com/chynybekuuludastan/content_mapper/internal/api/websocket"
	"github.com/chynybekuuludastan/content_mapper/internal/config"
	"github.com/chynybekuuludastan/content_mapper/internal/logging"
	"github.com/chynybekuuludastan/content_mapper/internal/models"
	"github.com/chynybekuuludastan/content_mapper/internal/service/analysis"
	"github.com/chynybekuuludastan/content_mapper/internal/service/llm/prompts"
	"github.com/chynybekuuludastan/content_mapper/internal/storage"
	"github.com/chynybekuuludastan/content_mapper/internal/storage/images"
)

// MaxBatchImages caps the number of files in one batch or comparison upload
const MaxBatchImages = 20

// ErrUploadTooLarge is returned for a file above the configured upload size
var ErrUploadTooLarge = errors.New("uploaded file is too large")

// SessionTopic is the hub topic carrying a workspace's events
func SessionTopic(sessionID string) string {
	return "session:" + sessionID
}

// JobTopic is the hub topic carrying a batch job's progress
func JobTopic(jobID string) string {
	return "job:" + jobID
}

// AnalysisHandler serves screenshot analysis, batch jobs, competitor
// comparison and refinement
type AnalysisHandler struct {
	Client     *analysis.Client
	Jobs       *analysis.Jobs
	Workspaces *analysis.Workspaces
	Store      *storage.Store
	Images     images.Store
	Hub        *ws.Hub
	Config     *config.Config
	Logger     logging.Logger
}

// analysisResponse is the payload of a single analysis
type analysisResponse struct {
	Result    *models.AnalysisResult `json:"result"`
	HistoryID string                 `json:"historyId,omitempty"`
}

// analysisForm holds the settings shared by every upload endpoint
type analysisForm struct {
	websiteURL       string
	keywords         []string
	targetAudience   string
	generateVariants bool
	autoSave         bool
	brandVoice       *models.BrandVoiceProfile
}

func (f analysisForm) config() models.AnalysisConfig {
	return models.AnalysisConfig{
		WebsiteURL:     f.websiteURL,
		Keywords:       f.keywords,
		TargetAudience: f.targetAudience,
	}
}

func (f analysisForm) validate() error {
	return prompts.ValidateParams(prompts.AnalysisParams{
		Keywords:       f.keywords,
		TargetAudience: f.targetAudience,
	})
}

// parseForm reads the analysis settings, falling back to stored preferences
// for the audience and the variants flag
func (h *AnalysisHandler) parseForm(ctx context.Context, c *fiber.Ctx) analysisForm {
	prefs := h.Store.GetPreferences(ctx).Value

	form := analysisForm{
		websiteURL:       strings.TrimSpace(c.FormValue("websiteUrl")),
		keywords:         prompts.ParseKeywords(c.FormValue("keywords")),
		targetAudience:   strings.TrimSpace(c.FormValue("targetAudience")),
		generateVariants: prefs.GenerateVariants,
		autoSave:         prefs.AutoSaveHistory,
	}
	if form.targetAudience == "" {
		form.targetAudience = strings.TrimSpace(prefs.DefaultTargetAudience)
	}
	if v, err := strconv.ParseBool(c.FormValue("generateVariants")); err == nil {
		form.generateVariants = v
	}
	if use, _ := strconv.ParseBool(c.FormValue("useBrandVoice")); use {
		form.brandVoice = h.Store.GetBrandVoice(ctx).Value
	}
	return form
}

// readUpload reads one multipart file, enforcing the per-file size limit
func (h *AnalysisHandler) readUpload(fh *multipart.FileHeader) ([]byte, string, error) {
	if fh.Size > h.Config.MaxUploadBytes {
		return nil, "", fmt.Errorf("%w: %s exceeds %d bytes", ErrUploadTooLarge, fh.Filename, h.Config.MaxUploadBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.Config.MaxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
	}
	if int64(len(data)) > h.Config.MaxUploadBytes {
		return nil, "", fmt.Errorf("%w: %s exceeds %d bytes", ErrUploadTooLarge, fh.Filename, h.Config.MaxUploadBytes)
	}

	mimeType := fh.Header.Get(fiber.HeaderContentType)
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

// stage stores the uploads in the image store. The returned handles own the
// stored copies; on error nothing stays stored.
func (h *AnalysisHandler) stage(ctx context.Context, files []*multipart.FileHeader) ([]analysis.Image, []images.Handle, error) {
	imgs := make([]analysis.Image, 0, len(files))
	handles := make([]images.Handle, 0, len(files))

	for _, fh := range files {
		data, mimeType, err := h.readUpload(fh)
		if err == nil && !strings.HasPrefix(mimeType, "image/") {
			err = fmt.Errorf("%w: %s is %s", analysis.ErrUnsupportedImage, fh.Filename, mimeType)
		}
		if err != nil {
			h.release(ctx, handles)
			return nil, nil, err
		}

		handle, err := h.Images.Put(ctx, data, mimeType, fh.Filename)
		if err != nil {
			h.release(ctx, handles)
			return nil, nil, fmt.Errorf("failed to store image %s: %w", fh.Filename, err)
		}
		handles = append(handles, handle)
		imgs = append(imgs, analysis.Image{
			Data:     data,
			MIMEType: mimeType,
			FileName: fh.Filename,
			URL:      handle.URL,
		})
	}

	return imgs, handles, nil
}

func (h *AnalysisHandler) release(ctx context.Context, handles []images.Handle) {
	for _, handle := range handles {
		if err := h.Images.Release(ctx, handle.ID); err != nil {
			h.Logger.Warn("Failed to release image", "image", handle.ID, "error", err)
		}
	}
}

// rememberInputs records the keywords and audience in the recency lists.
// A storage failure does not fail the analysis.
func (h *AnalysisHandler) rememberInputs(ctx context.Context, form analysisForm) {
	var errs []error
	for _, keyword := range form.keywords {
		errs = append(errs, h.Store.AddRecentKeyword(ctx, keyword))
	}
	errs = append(errs, h.Store.AddRecentAudience(ctx, form.targetAudience))

	if err := errors.Join(errs...); err != nil {
		h.Logger.Debug("Recent inputs not recorded", "error", err)
	}
}

// saveHistory stores result when auto-save is on and returns the record id
func (h *AnalysisHandler) saveHistory(ctx context.Context, form analysisForm, result *models.AnalysisResult) string {
	if !form.autoSave {
		return ""
	}
	record, err := h.Store.SaveHistory(ctx, result, form.config())
	if err != nil {
		return ""
	}
	return record.ID
}

// @Summary Analyze a screenshot
// @Description Analyze one screenshot and map its sections to SEO-optimised content
// @Tags analysis
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Screenshot"
// @Param keywords formData string true "Comma-separated keywords"
// @Param targetAudience formData string false "Target audience"
// @Param websiteUrl formData string false "Website URL"
// @Param generateVariants formData bool false "Generate content variants"
// @Param useBrandVoice formData bool false "Apply the saved brand voice"
// @Success 200 {object} api.SuccessResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Failure 502 {object} api.ErrorResponse
// @Router /analyses [post]
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return errorResponse(c, analysis.ErrNoImage)
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.Config.AnalysisTimeout)
	defer cancel()

	form := h.parseForm(ctx, c)
	if err := form.validate(); err != nil {
		return errorResponse(c, err)
	}

	sessionID := middleware.SessionID(c)
	session := h.Workspaces.Get(sessionID)
	gen := session.Begin()

	imgs, handles, err := h.stage(ctx, []*multipart.FileHeader{fh})
	if err != nil {
		return errorResponse(c, err)
	}

	result, err := h.Client.Analyze(ctx, analysis.Request{
		Image:            imgs[0],
		WebsiteURL:       form.websiteURL,
		Keywords:         form.keywords,
		TargetAudience:   form.targetAudience,
		BrandVoice:       form.brandVoice,
		GenerateVariants: form.generateVariants,
	})
	if err != nil {
		session.Discard(ctx, handles...)
		return errorResponse(c, err)
	}

	if err := session.Commit(ctx, gen, result, handles...); err != nil {
		h.Logger.Info("Discarding stale analysis", "session", sessionID, "generation", gen)
		return errorResponse(c, err)
	}

	h.rememberInputs(ctx, form)
	historyID := h.saveHistory(ctx, form, result)

	h.Hub.Broadcast(SessionTopic(sessionID), ws.Message{
		Type: ws.TypeAnalysisComplete,
		Data: fiber.Map{
			"imageUrl":  result.ImageURL,
			"score":     result.OverallSeoScore,
			"historyId": historyID,
		},
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    analysisResponse{Result: result, HistoryID: historyID},
	})
}

// @Summary Start a batch analysis job
// @Tags analysis
// @Accept multipart/form-data
// @Produce json
// @Param images formData file true "Screenshots"
// @Param keywords formData string true "Comma-separated keywords"
// @Param targetAudience formData string false "Target audience"
// @Success 202 {object} api.SuccessResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /analyses/batch [post]
func (h *AnalysisHandler) StartBatch(c *fiber.Ctx) error {
	mf, err := c.MultipartForm()
	if err != nil || len(mf.File["images"]) == 0 {
		return errorResponse(c, analysis.ErrNoImages)
	}
	files := mf.File["images"]
	if len(files) > MaxBatchImages {
		return badRequest(c, fmt.Sprintf("at most %d images per batch", MaxBatchImages))
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.Config.BatchTimeout)

	form := h.parseForm(ctx, c)
	if err := form.validate(); err != nil {
		cancel()
		return errorResponse(c, err)
	}

	imgs, handles, err := h.stage(ctx, files)
	if err != nil {
		cancel()
		return errorResponse(c, err)
	}

	h.rememberInputs(ctx, form)

	job := h.Jobs.StartBatch(ctx, h.Client, analysis.BatchRequest{
		Images:           imgs,
		WebsiteURL:       form.websiteURL,
		Keywords:         form.keywords,
		TargetAudience:   form.targetAudience,
		BrandVoice:       form.brandVoice,
		GenerateVariants: form.generateVariants,
	}, handles, func(job models.BatchAnalysisJob) {
		h.Hub.Broadcast(JobTopic(job.ID), ws.Message{Type: ws.TypeJobProgress, Data: job})

		switch job.Status {
		case models.JobCompleted:
			// Input order, so the last image becomes the newest entry
			for _, result := range job.Results {
				h.saveHistory(context.Background(), form, result)
			}
			cancel()
		case models.JobFailed:
			cancel()
		}
	})

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

// @Summary Get a batch job
// @Tags analysis
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} api.SuccessResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /jobs/{id} [get]
func (h *AnalysisHandler) GetJob(c *fiber.Ctx) error {
	job, ok := h.Jobs.Get(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Job not found",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

// @Summary Compare a page against competitors
// @Tags analysis
// @Accept multipart/form-data
// @Produce json
// @Param yourImage formData file true "Your screenshot"
// @Param competitorImages formData file true "Competitor screenshots"
// @Param keywords formData string true "Comma-separated keywords"
// @Success 200 {object} api.SuccessResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /analyses/compare [post]
func (h *AnalysisHandler) Compare(c *fiber.Ctx) error {
	mf, err := c.MultipartForm()
	if err != nil || len(mf.File["yourImage"]) == 0 {
		return errorResponse(c, analysis.ErrNoImage)
	}
	competitors := mf.File["competitorImages"]
	if len(competitors) == 0 {
		return badRequest(c, "at least one competitor image is required")
	}
	if len(competitors) >= MaxBatchImages {
		return badRequest(c, fmt.Sprintf("at most %d competitor images", MaxBatchImages-1))
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.Config.BatchTimeout)
	defer cancel()

	form := h.parseForm(ctx, c)
	if err := form.validate(); err != nil {
		return errorResponse(c, err)
	}

	sessionID := middleware.SessionID(c)
	session := h.Workspaces.Get(sessionID)
	gen := session.Begin()

	files := append([]*multipart.FileHeader{mf.File["yourImage"][0]}, competitors...)
	imgs, handles, err := h.stage(ctx, files)
	if err != nil {
		return errorResponse(c, err)
	}

	topic := SessionTopic(sessionID)
	comparison, err := h.Client.Compare(ctx, analysis.CompareRequest{
		YourImage:        imgs[0],
		CompetitorImages: imgs[1:],
		WebsiteURL:       form.websiteURL,
		Keywords:         form.keywords,
		TargetAudience:   form.targetAudience,
		BrandVoice:       form.brandVoice,
		OnProgress: func(percent int, fileName string) {
			h.Hub.Broadcast(topic, ws.Message{
				Type: ws.TypeJobProgress,
				Data: fiber.Map{"progress": percent, "currentItem": fileName},
			})
		},
	})
	if err != nil {
		session.Discard(ctx, handles...)
		return errorResponse(c, err)
	}

	if err := session.Commit(ctx, gen, comparison.YourAnalysis, handles...); err != nil {
		return errorResponse(c, err)
	}

	h.rememberInputs(ctx, form)
	h.Hub.Broadcast(topic, ws.Message{
		Type: ws.TypeAnalysisComplete,
		Data: fiber.Map{
			"imageUrl":    comparison.YourAnalysis.ImageURL,
			"score":       comparison.YourAnalysis.OverallSeoScore,
			"competitors": len(comparison.CompetitorAnalyses),
		},
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    comparison,
	})
}

// @Summary Refine a piece of content with feedback
// @Tags analysis
// @Accept json
// @Produce json
// @Param request body api.RefineRequest true "Refinement"
// @Success 200 {object} api.SuccessResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /refine [post]
func (h *AnalysisHandler) Refine(c *fiber.Ctx) error {
	req := new(analysis.RefineRequest)
	if err := c.BodyParser(req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.Config.AnalysisTimeout)
	defer cancel()

	content, err := h.Client.Refine(ctx, *req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"content": content},
	})
}

// GetImage streams a stored screenshot
// @Summary Fetch a stored screenshot
// @Tags analysis
// @Produce png
// @Param id path string true "Image ID"
// @Success 200 {file} binary
// @Failure 404 {object} api.ErrorResponse
// @Router /images/{id} [get]
func (h *AnalysisHandler) GetImage(c *fiber.Ctx) error {
	rc, handle, err := h.Images.Open(c.UserContext(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	c.Set(fiber.HeaderContentType, handle.MIMEType)
	c.Set(fiber.HeaderCacheControl, "private, max-age=3600")
	return c.SendStream(rc, int(handle.Size))
}
