package distribution

import (
	"os"
	"path/filepath"
	"regexp"

	"modpack-manager/core/logger"
	"modpack-manager/feature/updater"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// archiveName restricts downloadable archive names to a flat .mrpack file;
// anything with separators or traversal never reaches the filesystem.
var archiveName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*\.mrpack$`)

// Handler serves the current pack index and built archives over HTTP.
type Handler struct {
	cfg updater.Config
	log *zap.Logger
}

// NewHandler creates a distribution handler over the pack layout.
func NewHandler(cfg updater.Config, log *zap.Logger) *Handler {
	return &Handler{cfg: cfg, log: log}
}

// RegisterRoutes registers the distribution routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/pack")
	group.Get("/manifest", h.HandleGetManifest)
	group.Get("/archives/:name", h.HandleGetArchive)
}

// HandleGetManifest returns the current pack index.
func (h *Handler) HandleGetManifest(c *fiber.Ctx) error {
	l := logger.WithRayID(h.log, c)

	path := h.cfg.ManifestPath()
	if _, err := os.Stat(path); err != nil {
		l.Warn("manifest not available", zap.String("path", path), zap.Error(err))
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no manifest available",
		})
	}
	return c.SendFile(path)
}

// HandleGetArchive returns a built archive by file name.
func (h *Handler) HandleGetArchive(c *fiber.Ctx) error {
	l := logger.WithRayID(h.log, c)

	name := c.Params("name")
	if !archiveName.MatchString(name) {
		l.Warn("rejected archive name", zap.String("name", name))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid archive name",
		})
	}

	path := filepath.Join(h.cfg.OutputDir, name)
	if _, err := os.Stat(path); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "archive not found",
		})
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	return c.SendFile(path)
}
