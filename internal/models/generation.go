package models

import (
	"time"

	"github.com/google/uuid"
)

// Generation records one résumé/portfolio generation request.
type Generation struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	GitHubURL         string    `gorm:"type:text;not null" json:"github_url"`
	ProfileName       string    `gorm:"type:text" json:"profile_name"`
	ResumeTemplate    int       `gorm:"not null" json:"resume_template"`
	PortfolioTemplate int       `gorm:"not null" json:"portfolio_template"`
	ResumeFile        string    `gorm:"type:text" json:"resume_file"`
	PortfolioFile     string    `gorm:"type:text" json:"portfolio_file"`
	ProfileJSON       string    `gorm:"type:jsonb" json:"-"`
	CreatedAt         time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Generation) TableName() string {
	return "generations"
}
