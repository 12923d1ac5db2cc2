package handlers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/profile-generator/internal/models"
	"alfredoptarigan/profile-generator/internal/repositories"
)

type GenerationHandler struct {
	genRepo repositories.GenerationRepository
}

func NewGenerationHandler(genRepo repositories.GenerationRepository) *GenerationHandler {
	return &GenerationHandler{
		genRepo: genRepo,
	}
}

// HandleListGenerations handles GET /api/generations?limit=N
func (h *GenerationHandler) HandleListGenerations(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 100")
	}

	generations, err := h.genRepo.FindRecent(limit)
	if err != nil {
		return err
	}

	summaries := make([]fiber.Map, 0, len(generations))
	for _, g := range generations {
		summaries = append(summaries, fiber.Map{
			"id":             g.ID.String(),
			"profile_name":   g.ProfileName,
			"github_url":     g.GitHubURL,
			"resume_file":    g.ResumeFile,
			"portfolio_file": g.PortfolioFile,
			"generated_at":   g.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(fiber.Map{"generations": summaries})
}

// HandleGetGeneration handles GET /api/generations/:id
func (h *GenerationHandler) HandleGetGeneration(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid generation ID format")
	}

	generation, err := h.genRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrGenerationNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Generation not found")
		}
		return err
	}

	response := models.GenerationResponse{
		ID:                generation.ID.String(),
		GitHubURL:         generation.GitHubURL,
		ResumeFile:        generation.ResumeFile,
		PortfolioFile:     generation.PortfolioFile,
		ResumeTemplate:    generation.ResumeTemplate,
		PortfolioTemplate: generation.PortfolioTemplate,
		GeneratedAt:       generation.CreatedAt.Format(time.RFC3339),
	}
	if generation.ProfileJSON != "" {
		response.Profile = json.RawMessage(generation.ProfileJSON)
	}

	return c.JSON(response)
}
