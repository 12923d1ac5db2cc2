package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/profile-generator/internal/models"
)

var ErrGenerationNotFound = errors.New("generation not found")

type GenerationRepository interface {
	Create(gen *models.Generation) error
	FindByID(id uuid.UUID) (*models.Generation, error)
	FindRecent(limit int) ([]models.Generation, error)
}

type generationRepository struct {
	db *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) GenerationRepository {
	return &generationRepository{db: db}
}

func (r *generationRepository) Create(gen *models.Generation) error {
	if err := r.db.Create(gen).Error; err != nil {
		return fmt.Errorf("failed to create generation: %w", err)
	}
	return nil
}

func (r *generationRepository) FindByID(id uuid.UUID) (*models.Generation, error) {
	var gen models.Generation
	if err := r.db.Where("id = ?", id).First(&gen).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGenerationNotFound
		}
		return nil, fmt.Errorf("failed to find generation: %w", err)
	}
	return &gen, nil
}

func (r *generationRepository) FindRecent(limit int) ([]models.Generation, error) {
	var gens []models.Generation
	err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Find(&gens).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find recent generations: %w", err)
	}

	return gens, nil
}
