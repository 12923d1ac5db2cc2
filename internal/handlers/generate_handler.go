package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/profile-generator/internal/logger"
	"alfredoptarigan/profile-generator/internal/models"
	"alfredoptarigan/profile-generator/internal/repositories"
	"alfredoptarigan/profile-generator/internal/services"
)

type GenerateHandler struct {
	genRepo     repositories.GenerationRepository
	storage     services.StorageService
	pdfParser   services.PDFParserService
	assembler   services.ProfileAssembler
	templates   services.TemplateService
	validate    *validator.Validate
	maxFileSize int64
}

func NewGenerateHandler(
	genRepo repositories.GenerationRepository,
	storage services.StorageService,
	pdfParser services.PDFParserService,
	assembler services.ProfileAssembler,
	templates services.TemplateService,
	maxFileSize int64,
) *GenerateHandler {
	return &GenerateHandler{
		genRepo:     genRepo,
		storage:     storage,
		pdfParser:   pdfParser,
		assembler:   assembler,
		templates:   templates,
		validate:    validator.New(),
		maxFileSize: maxFileSize,
	}
}

// HandleGenerate handles POST /api/generate
func (h *GenerateHandler) HandleGenerate(c *fiber.Ctx) error {
	file, err := c.FormFile("linkedin_pdf")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "linkedin_pdf file is required")
	}

	if file.Size > h.maxFileSize {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("linkedin_pdf too large. Max size: %d bytes", h.maxFileSize))
	}

	req := models.GenerateRequest{ResumeTemplate: 1, PortfolioTemplate: 1}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"code":    fiber.StatusBadRequest,
			"details": formatValidationErrors(err),
		})
	}

	uploadPath, err := h.storage.SaveUpload(file)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFileType) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fmt.Errorf("failed to save upload: %w", err)
	}

	resumeText, err := h.pdfParser.ExtractText(uploadPath)
	if removeErr := h.storage.DeleteUpload(uploadPath); removeErr != nil {
		logger.Log.Warnf("⚠️ Failed to remove upload %s: %v", uploadPath, removeErr)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("failed to read linkedin_pdf: %v", err))
	}

	profile, err := h.assembler.Build(c.UserContext(), resumeText, req.GitHubURL)
	if err != nil {
		var upstream *services.UpstreamFetchError
		switch {
		case errors.Is(err, services.ErrInvalidGitHubURL):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case errors.As(err, &upstream):
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		default:
			return fmt.Errorf("failed to build profile: %w", err)
		}
	}

	resumeFile, err := h.templates.Render(services.KindResume, req.ResumeTemplate, profile)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	portfolioFile, err := h.templates.Render(services.KindPortfolio, req.PortfolioTemplate, profile)
	if err != nil {
		h.removeGenerated(resumeFile)
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		h.removeGenerated(resumeFile, portfolioFile)
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	generation := models.Generation{
		ID:                uuid.New(),
		GitHubURL:         req.GitHubURL,
		ProfileName:       profile.Name,
		ResumeTemplate:    req.ResumeTemplate,
		PortfolioTemplate: req.PortfolioTemplate,
		ResumeFile:        resumeFile,
		PortfolioFile:     portfolioFile,
		ProfileJSON:       string(profileJSON),
	}

	if err := h.genRepo.Create(&generation); err != nil {
		h.removeGenerated(resumeFile, portfolioFile)
		return fmt.Errorf("failed to save generation record: %w", err)
	}

	logger.Log.Infof("✅ Generation %s completed for %s", generation.ID, profile.Name)

	return c.Status(fiber.StatusCreated).JSON(models.GenerateResponse{
		Success:             true,
		GenerationID:        generation.ID.String(),
		ResumeURL:           "/api/download/resume/" + resumeFile,
		PortfolioURL:        "/api/download/portfolio/" + portfolioFile,
		PreviewResumeURL:    "/api/preview/resume/" + resumeFile,
		PreviewPortfolioURL: "/api/preview/portfolio/" + portfolioFile,
	})
}

// removeGenerated drops artifacts of a generation that did not complete.
func (h *GenerateHandler) removeGenerated(filenames ...string) {
	for _, filename := range filenames {
		if err := h.storage.DeleteGenerated(filename); err != nil {
			logger.Log.Warnf("⚠️ Failed to remove generated file %s: %v", filename, err)
		}
	}
}
