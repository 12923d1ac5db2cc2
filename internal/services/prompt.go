package services

import (
	"fmt"
	"strings"
)

const (
	maxResumePromptChars  = 12000
	maxProjectPromptChars = 4000
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildSummaryPrompt creates the prompt for the profile summary
func (pb *PromptBuilder) BuildSummaryPrompt(resumeText string) string {
	return fmt.Sprintf(`You are an expert career writer preparing the "About" section of a professional portfolio.

RESUME TEXT:
%s

Write a professional summary of 4-5 lines in the third person, based only on the resume above.
Highlight the candidate's role, experience, strengths and the kind of problems they solve.

Return ONLY the summary text, no headings, no markdown, no JSON.`,
		truncate(CleanText(resumeText), maxResumePromptChars))
}

// BuildProjectPrompt creates the prompt for one project description
func (pb *PromptBuilder) BuildProjectPrompt(projectName, projectContext string) string {
	return fmt.Sprintf(`You are writing the description of a software project for a developer portfolio.

PROJECT NAME:
%s

PROJECT CONTEXT:
%s

Write a 3-5 line description of what the project does, who it is for and what makes it useful.
Do NOT mention any specific programming language, framework language or file format.
Do NOT mention any AI tool or brand (for example ChatGPT, Gemini, Copilot, Claude, OpenAI).

Return ONLY the description text, no headings, no markdown, no JSON.`,
		projectName, truncate(strings.TrimSpace(projectContext), maxProjectPromptChars))
}

// BuildRepositoryContext is the fallback context for repositories without a README.
func BuildRepositoryContext(name, description, language string, topics []string) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Repository: %s", name))

	if description != "" {
		parts = append(parts, fmt.Sprintf("Description: %s", description))
	}
	if language != "" {
		parts = append(parts, fmt.Sprintf("Primary language: %s", language))
	}
	if len(topics) > 0 {
		parts = append(parts, fmt.Sprintf("Topics: %s", strings.Join(topics, ", ")))
	}

	return strings.Join(parts, "\n")
}

// CleanText trims every line and drops the blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}

func truncate(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
