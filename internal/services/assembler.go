package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"alfredoptarigan/profile-generator/internal/logger"
	"alfredoptarigan/profile-generator/internal/models"
)

const (
	defaultTitle = "Software Developer"

	placeholderName     = "Unknown"
	placeholderEmail    = "Not provided"
	placeholderLocation = "Not specified"
	placeholderLinkedIn = "linkedin.com/in/user"

	CategoryLanguages    = "Programming Languages"
	CategoryTechnologies = "Technologies"
)

var (
	defaultLanguages    = []string{"JavaScript", "Python", "SQL"}
	defaultTechnologies = []string{"React", "Node.js", "Python", "JavaScript"}
)

type ProfileAssembler interface {
	Build(ctx context.Context, resumeText, githubURL string) (*models.Profile, error)
	Assemble(ctx context.Context, resumeText string, data *models.GitHubData) (*models.Profile, error)
}

type profileAssembler struct {
	github      GitHubService
	narrative   NarrativeService
	extractor   SectionExtractor
	concurrency int
}

func NewProfileAssembler(
	github GitHubService,
	narrative NarrativeService,
	extractor SectionExtractor,
	concurrency int,
) ProfileAssembler {
	if concurrency <= 0 {
		concurrency = 1
	}

	return &profileAssembler{
		github:      github,
		narrative:   narrative,
		extractor:   extractor,
		concurrency: concurrency,
	}
}

// Build fetches GitHub data for githubURL and assembles the profile. Only a
// failed fetch aborts.
func (a *profileAssembler) Build(ctx context.Context, resumeText, githubURL string) (*models.Profile, error) {
	logger.Log.Infof("🔍 Fetching GitHub data for %s", githubURL)

	data, err := a.github.FetchProfileAndRepos(ctx, githubURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch GitHub data: %w", err)
	}

	return a.Assemble(ctx, resumeText, data)
}

// Assemble implements ProfileAssembler. Generation and extraction failures
// degrade to defaults; the returned error is always nil for a non-nil data.
func (a *profileAssembler) Assemble(ctx context.Context, resumeText string, data *models.GitHubData) (*models.Profile, error) {
	if data == nil {
		return nil, fmt.Errorf("missing GitHub data")
	}

	var summary string
	projects := make([]models.Project, len(data.Repositories))

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Log.Info("🤖 Generating profile summary...")
		summary = a.narrative.GenerateSummary(egCtx, resumeText, data.Profile.Bio)
		return nil
	})

	eg.Go(func() error {
		a.buildProjects(egCtx, data.Repositories, projects)
		return nil
	})

	logger.Log.Info("📄 Extracting experience and education...")
	experience := a.extractor.ExtractExperience(resumeText)
	education := a.extractor.ExtractEducation(resumeText)

	_ = eg.Wait()

	profile := &models.Profile{
		Name:           firstNonEmpty(data.Profile.Name, data.Profile.Login, placeholderName),
		Title:          defaultTitle,
		Summary:        summary,
		Contact:        buildContact(data.Profile),
		Experience:     experience,
		Education:      education,
		Projects:       projects,
		Skills:         buildSkills(data.Repositories),
		Certifications: []models.Certification{},
	}
	if len(experience) > 0 && experience[0].JobTitle != "" {
		profile.Title = experience[0].JobTitle
	}

	logger.Log.Infof("✅ Profile assembled: %d experience, %d education, %d projects",
		len(experience), len(education), len(projects))

	return profile, nil
}

// buildProjects writes one project per repository at the repository's index,
// so completion order never affects the result order.
func (a *profileAssembler) buildProjects(ctx context.Context, repos []models.Repository, out []models.Project) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.concurrency)

	for i, repo := range repos {
		eg.Go(func() error {
			title := projectTitle(repo.Name)

			projectContext := repo.Readme
			if strings.TrimSpace(projectContext) == "" {
				projectContext = BuildRepositoryContext(repo.Name, repo.Description, repo.Language, repo.Topics)
			}

			out[i] = models.Project{
				Title:        title,
				Description:  a.narrative.GenerateProjectDescription(egCtx, title, projectContext),
				Technologies: firstNonEmpty(repo.Language, "Various"),
				Stars:        repo.Stars,
				Date:         projectDate(repo.UpdatedAt),
				Links:        projectLinks(repo),
			}
			return nil
		})
	}

	_ = eg.Wait()
}

func buildContact(p models.GitHubProfile) models.Contact {
	github := p.HTMLURL
	if github == "" && p.Login != "" {
		github = "https://github.com/" + p.Login
	}
	github = firstNonEmpty(github, "github.com")

	return models.Contact{
		Email:    firstNonEmpty(p.Email, placeholderEmail),
		Location: firstNonEmpty(p.Location, placeholderLocation),
		LinkedIn: placeholderLinkedIn,
		GitHub:   github,
		Website:  firstNonEmpty(p.Blog, github),
	}
}

// buildSkills collects distinct languages and topics in repository order.
// Empty categories get a fixed default list.
func buildSkills(repos []models.Repository) []models.SkillCategory {
	var languages, topics []string
	seenLanguages := map[string]bool{}
	seenTopics := map[string]bool{}

	for _, repo := range repos {
		if lang := strings.TrimSpace(repo.Language); lang != "" && !seenLanguages[lang] {
			seenLanguages[lang] = true
			languages = append(languages, lang)
		}
		for _, topic := range repo.Topics {
			topic = strings.TrimSpace(topic)
			if topic != "" && !seenTopics[topic] {
				seenTopics[topic] = true
				topics = append(topics, topic)
			}
		}
	}

	if len(languages) == 0 {
		languages = append([]string(nil), defaultLanguages...)
	}
	if len(topics) == 0 {
		topics = append([]string(nil), defaultTechnologies...)
	}

	return []models.SkillCategory{
		{Category: CategoryLanguages, Items: languages},
		{Category: CategoryTechnologies, Items: topics},
	}
}

func projectTitle(repoName string) string {
	name := strings.NewReplacer("-", " ", "_", " ").Replace(repoName)
	return cases.Title(language.English).String(strings.TrimSpace(name))
}

func projectDate(updatedAt string) string {
	if len(updatedAt) >= 10 {
		return updatedAt[:10]
	}
	return updatedAt
}

func projectLinks(repo models.Repository) map[string]string {
	links := map[string]string{}
	if repo.HTMLURL != "" {
		links["github"] = repo.HTMLURL
	}
	if repo.Homepage != "" {
		links["demo"] = repo.Homepage
	}
	return links
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
