package services

import (
	"context"
	"fmt"
	"strings"

	"alfredoptarigan/profile-generator/internal/logger"
)

const DefaultSummary = "Passionate developer building amazing projects, with a focus on clean, reliable software and continuous learning."

// NarrativeService writes the free-text parts of a profile. Its methods never
// fail: any generation error is replaced by a generic fallback text.
type NarrativeService interface {
	GenerateSummary(ctx context.Context, resumeText, fallback string) string
	GenerateProjectDescription(ctx context.Context, projectName, projectContext string) string
}

type narrativeService struct {
	gemini        GeminiService
	promptBuilder *PromptBuilder
}

func NewNarrativeService(gemini GeminiService) NarrativeService {
	return &narrativeService{
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
	}
}

// GenerateSummary implements NarrativeService. fallback (typically the GitHub
// bio) replaces a failed generation; DefaultSummary is used when it is blank.
func (n *narrativeService) GenerateSummary(ctx context.Context, resumeText, fallback string) string {
	prompt := n.promptBuilder.BuildSummaryPrompt(resumeText)
	fallback = firstNonEmpty(strings.TrimSpace(fallback), DefaultSummary)

	summary, err := n.gemini.Generate(ctx, prompt)
	if err != nil {
		logger.Log.Warnf("⚠️ Summary generation failed, using fallback: %v", err)
		return fallback
	}
	if summary == "" {
		return fallback
	}

	return summary
}

func (n *narrativeService) GenerateProjectDescription(ctx context.Context, projectName, projectContext string) string {
	prompt := n.promptBuilder.BuildProjectPrompt(projectName, projectContext)

	description, err := n.gemini.Generate(ctx, prompt)
	if err != nil {
		logger.Log.Warnf("⚠️ Description for %q failed, using fallback: %v", projectName, err)
		return fallbackProjectDescription(projectName)
	}
	if description == "" {
		return fallbackProjectDescription(projectName)
	}

	return description
}

func fallbackProjectDescription(projectName string) string {
	if projectName == "" {
		projectName = "This project"
	}
	return fmt.Sprintf("%s is a software project built to solve a practical problem with a clean, maintainable design.", projectName)
}
