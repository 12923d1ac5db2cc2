package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"alfredoptarigan/profile-generator/internal/config"
	"alfredoptarigan/profile-generator/internal/logger"
	"alfredoptarigan/profile-generator/internal/services"
)

// Runs the profile pipeline on a local résumé PDF and prints the profile JSON.
//
//	go run ./scripts/generate_profile.go -pdf ./resume.pdf -github https://github.com/octocat
func main() {
	pdfPath := flag.String("pdf", "", "path to the LinkedIn PDF export")
	githubURL := flag.String("github", "", "GitHub profile URL")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline")
	flag.Parse()

	if *pdfPath == "" || *githubURL == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := logger.Init("development"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Log.Info("🚀 Starting profile generation...")
	cfg := config.Load()

	resumeText, err := services.NewPDFParserService().ExtractText(*pdfPath)
	if err != nil {
		logger.Log.Fatalf("❌ Failed to read %s: %v", *pdfPath, err)
	}

	pool := services.NewCredentialPool(cfg.Gemini.APIKeys, cfg.Gemini.Cooldown)
	gemini := services.NewGeminiService(
		pool,
		services.NewGeminiBackend(cfg.Gemini.Model, cfg.Gemini.Temperature),
		cfg.Gemini.Timeout,
	)

	assembler := services.NewProfileAssembler(
		services.NewGitHubService(services.GitHubOptions{
			BaseURL:  cfg.GitHub.BaseURL,
			Token:    cfg.GitHub.Token,
			Timeout:  cfg.GitHub.Timeout,
			MaxRepos: cfg.GitHub.MaxRepos,
			PerPage:  cfg.GitHub.PerPage,
		}),
		services.NewNarrativeService(gemini),
		services.NewSectionExtractor(),
		cfg.Worker.ProjectConcurrency,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	profile, err := assembler.Build(ctx, resumeText, *githubURL)
	if err != nil {
		logger.Log.Fatalf("❌ Failed to build profile: %v", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(profile); err != nil {
		logger.Log.Fatalf("❌ Failed to encode profile: %v", err)
	}

	logger.Log.Infof("✅ Done. %d credentials still active", pool.ActiveCount())
}
