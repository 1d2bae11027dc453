package compare

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"data-reconciler/core/errors"
	"data-reconciler/core/logger"
	"data-reconciler/core/middleware/rayid"
	"data-reconciler/core/source"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for comparisons.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the compare routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/compare")
	group.Post("/", h.HandleCompare)
	group.Post("/upload", h.HandleCompareUpload)
}

// HandleCompare compares two stored datasets.
// @Summary Compare Datasets
// @Description Full outer join of two datasets on key columns. Datasets are referenced as object://key, s3://bucket/key or table://name.
// @Tags compare
// @Accept json
// @Produce json
// @Param request body Request true "Comparison"
// @Success 200 {object} Response "Comparison result"
// @Failure 400 {object} map[string]string "Invalid request or key specification"
// @Failure 404 {object} map[string]string "Dataset not found"
// @Failure 415 {object} map[string]string "Unsupported format"
// @Failure 422 {object} map[string]string "Dataset could not be parsed"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare [post]
func (h *Handler) HandleCompare(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
	}
	if err := req.Check(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	for _, ref := range []string{req.A, req.B} {
		parsed, err := source.Parse(ref)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if parsed.Scheme == source.SchemeFile {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "local paths are not accepted, upload the file or use object:// or table://",
			})
		}
	}

	return h.respond(c, l, req)
}

// HandleCompareUpload compares two uploaded files.
// @Summary Compare Uploaded Files
// @Description Same as POST /compare with both datasets sent as multipart files. List fields are comma separated.
// @Tags compare
// @Accept mpfd
// @Produce json
// @Param a formData file true "Dataset A"
// @Param b formData file true "Dataset B"
// @Param keys_a formData string true "Key columns of A"
// @Param keys_b formData string true "Key columns of B"
// @Param keep_a formData string false "Extra columns kept from A"
// @Param keep_b formData string false "Extra columns kept from B"
// @Param suffix_a formData string false "Suffix for A"
// @Param suffix_b formData string false "Suffix for B"
// @Param validate formData string false "Cardinality"
// @Param normalize formData boolean false "Normalize text keys"
// @Param sort formData boolean false "Sort by key"
// @Param limit formData int false "Preview rows per view"
// @Success 200 {object} Response "Comparison result"
// @Failure 400 {object} map[string]string "Invalid request or key specification"
// @Failure 415 {object} map[string]string "Unsupported format"
// @Failure 422 {object} map[string]string "Dataset could not be parsed"
// @Router /compare/upload [post]
func (h *Handler) HandleCompareUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	dir, err := os.MkdirTemp("", "compare-*")
	if err != nil {
		l.Error("Failed to create upload directory", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	defer os.RemoveAll(dir)

	paths := make([]string, 2)
	for i, field := range []string{"a", "b"} {
		fh, err := c.FormFile(field)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file " + field})
		}
		// Each side gets its own folder so equal file names do not collide.
		p := filepath.Join(dir, field, filepath.Base(fh.Filename))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if err := c.SaveFile(fh, p); err != nil {
			l.Error("Failed to store upload", zap.String("field", field), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		paths[i] = p
	}

	req := Request{
		A:        paths[0],
		B:        paths[1],
		KeysA:    splitList(c.FormValue("keys_a")),
		KeysB:    splitList(c.FormValue("keys_b")),
		KeepA:    splitList(c.FormValue("keep_a")),
		KeepB:    splitList(c.FormValue("keep_b")),
		SuffixA:  c.FormValue("suffix_a"),
		SuffixB:  c.FormValue("suffix_b"),
		Validate: c.FormValue("validate"),
		Sort:     c.FormValue("sort") == "true",
		Views:    splitList(c.FormValue("views")),
		Export:   c.FormValue("export") == "true",
	}
	if v := c.FormValue("normalize"); v != "" {
		normalize := v == "true"
		req.Normalize = &normalize
	}
	if v := c.FormValue("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "limit must be an integer"})
		}
		req.Limit = n
	}
	if err := req.Check(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return h.respond(c, l, req)
}

func (h *Handler) respond(c *fiber.Ctx, l *zap.Logger, req Request) error {
	id, _ := c.Locals(rayid.LocalsKey).(string)
	if id == "" {
		id = uuid.NewString()
	}

	resp, err := h.service.Compare(c.UserContext(), req, id)
	if err != nil {
		status := errors.Status(err)
		if status >= fiber.StatusInternalServerError {
			l.Error("Comparison failed", zap.Error(err))
		} else {
			l.Warn("Comparison rejected", zap.String("kind", errors.Kind(err)), zap.Error(err))
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error(), "kind": errors.Kind(err)})
	}
	return c.JSON(resp)
}

// splitList splits a comma separated form value. An empty value yields nil.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
