package models

import "encoding/json"

type GenerateRequest struct {
	GitHubURL         string `form:"github_url" validate:"required,url"`
	ResumeTemplate    int    `form:"resume_template" validate:"min=1,max=99"`
	PortfolioTemplate int    `form:"portfolio_template" validate:"min=1,max=99"`
}

type GenerateResponse struct {
	Success             bool   `json:"success"`
	GenerationID        string `json:"generation_id"`
	ResumeURL           string `json:"resume_url"`
	PortfolioURL        string `json:"portfolio_url"`
	PreviewResumeURL    string `json:"preview_resume_url"`
	PreviewPortfolioURL string `json:"preview_portfolio_url"`
}

type GenerationResponse struct {
	ID                string          `json:"id"`
	GitHubURL         string          `json:"github_url"`
	ResumeFile        string          `json:"resume_file"`
	PortfolioFile     string          `json:"portfolio_file"`
	ResumeTemplate    int             `json:"resume_template"`
	PortfolioTemplate int             `json:"portfolio_template"`
	Profile           json.RawMessage `json:"profile"`
	GeneratedAt       string          `json:"generated_at"`
}
