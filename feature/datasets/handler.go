package datasets

import (
	"os"
	"path/filepath"

	"data-reconciler/core/errors"
	"data-reconciler/core/logger"
	"data-reconciler/core/source"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// InspectRequest names the dataset to inspect.
type InspectRequest struct {
	Ref   string `json:"ref" example:"object://ledger/2024-01.csv"`
	Limit int    `json:"limit,omitempty"`
}

// Handler handles HTTP requests for datasets.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the datasets routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/datasets")
	group.Get("/formats", h.HandleFormats)
	group.Get("/objects", h.HandleObjects)
	group.Post("/inspect", h.HandleInspect)
	group.Post("/inspect/upload", h.HandleInspectUpload)
}

// HandleFormats lists the supported formats.
// @Summary List Formats
// @Description Lists the supported file extensions grouped by family.
// @Tags datasets
// @Produce json
// @Success 200 {array} ingest.Family "Formats"
// @Router /datasets/formats [get]
func (h *Handler) HandleFormats(c *fiber.Ctx) error {
	return c.JSON(h.service.Formats())
}

// HandleObjects lists stored datasets.
// @Summary List Stored Datasets
// @Description Lists the objects in the dataset bucket that have a supported extension.
// @Tags datasets
// @Produce json
// @Param prefix query string false "Key prefix"
// @Success 200 {object} map[string]interface{} "Object keys"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /datasets/objects [get]
func (h *Handler) HandleObjects(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	keys, err := h.service.Objects(c.UserContext(), c.Query("prefix"))
	if err != nil {
		l.Error("Listing datasets failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"bucket": h.service.bucket, "objects": keys})
}

// HandleInspect loads a stored dataset and previews it.
// @Summary Inspect Dataset
// @Description Loads a dataset (object://, s3:// or table://) and returns its schema and a preview.
// @Tags datasets
// @Accept json
// @Produce json
// @Param request body InspectRequest true "Dataset reference"
// @Success 200 {object} Inspection "Inspection"
// @Failure 400 {object} map[string]string "Invalid reference"
// @Failure 404 {object} map[string]string "Dataset not found"
// @Failure 415 {object} map[string]string "Unsupported format"
// @Failure 422 {object} map[string]string "Dataset could not be parsed"
// @Router /datasets/inspect [post]
func (h *Handler) HandleInspect(c *fiber.Ctx) error {
	var req InspectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
	}
	ref, err := source.Parse(req.Ref)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if ref.Scheme == source.SchemeFile {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "local paths are not accepted, use /datasets/inspect/upload"})
	}
	return h.inspect(c, req.Ref, req.Limit)
}

// HandleInspectUpload previews an uploaded file.
// @Summary Inspect Uploaded File
// @Description Loads an uploaded file and returns its schema and a preview.
// @Tags datasets
// @Accept mpfd
// @Produce json
// @Param file formData file true "Dataset"
// @Param limit query int false "Preview rows"
// @Success 200 {object} Inspection "Inspection"
// @Failure 400 {object} map[string]string "Missing file"
// @Failure 415 {object} map[string]string "Unsupported format"
// @Failure 422 {object} map[string]string "Dataset could not be parsed"
// @Router /datasets/inspect/upload [post]
func (h *Handler) HandleInspectUpload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file"})
	}

	dir, err := os.MkdirTemp("", "inspect-*")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	defer os.RemoveAll(dir)

	p := filepath.Join(dir, filepath.Base(fh.Filename))
	if err := c.SaveFile(fh, p); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return h.inspect(c, p, c.QueryInt("limit"))
}

func (h *Handler) inspect(c *fiber.Ctx, ref string, limit int) error {
	l := logger.WithRayID(h.service.logger, c)

	out, err := h.service.Inspect(c.UserContext(), ref, limit)
	if err != nil {
		l.Warn("Inspection failed", zap.String("kind", errors.Kind(err)), zap.Error(err))
		return c.Status(errors.Status(err)).JSON(fiber.Map{"error": err.Error(), "kind": errors.Kind(err)})
	}
	return c.JSON(out)
}
