package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/profile-generator/internal/services"
)

type FileHandler struct {
	storage services.StorageService
}

func NewFileHandler(storage services.StorageService) *FileHandler {
	return &FileHandler{
		storage: storage,
	}
}

// HandleDownload handles GET /api/download/:kind/:filename
func (h *FileHandler) HandleDownload(c *fiber.Ctx) error {
	path, filename, err := h.resolve(c)
	if err != nil {
		return err
	}
	return c.Download(path, filename)
}

// HandlePreview handles GET /api/preview/:kind/:filename
func (h *FileHandler) HandlePreview(c *fiber.Ctx) error {
	path, _, err := h.resolve(c)
	if err != nil {
		return err
	}
	return c.SendFile(path)
}

// resolve maps the route to a generated artifact. The filename must carry the
// prefix of the requested kind.
func (h *FileHandler) resolve(c *fiber.Ctx) (string, string, error) {
	kind := c.Params("kind")
	if kind != services.KindResume && kind != services.KindPortfolio {
		return "", "", fiber.NewError(fiber.StatusNotFound, "Unknown file kind")
	}

	filename := c.Params("filename")
	if !strings.HasPrefix(filename, kind+"_") {
		return "", "", fiber.NewError(fiber.StatusNotFound, "File not found")
	}

	path, err := h.storage.GeneratedFilePath(filename)
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusNotFound, "File not found")
	}

	return path, filename, nil
}
