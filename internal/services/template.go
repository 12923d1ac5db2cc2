package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"alfredoptarigan/profile-generator/internal/models"
)

const (
	KindResume    = "resume"
	KindPortfolio = "portfolio"
)

var renderFunctions = map[string]string{
	KindResume:    "renderResume",
	KindPortfolio: "renderPortfolio",
}

type TemplateService interface {
	Render(kind string, templateID int, profile *models.Profile) (string, error)
	Inject(kind, templateHTML string, profile *models.Profile) (string, error)
}

type templateService struct {
	templateDir string
	storage     StorageService
}

func NewTemplateService(templateDir string, storage StorageService) TemplateService {
	return &templateService{
		templateDir: templateDir,
		storage:     storage,
	}
}

// Render loads <kind><id>.html, injects the profile and stores the result.
// It returns the generated file name.
func (t *templateService) Render(kind string, templateID int, profile *models.Profile) (string, error) {
	if _, ok := renderFunctions[kind]; !ok {
		return "", fmt.Errorf("unknown template kind: %s", kind)
	}

	templatePath := filepath.Join(t.templateDir, fmt.Sprintf("%s%d.html", kind, templateID))
	templateHTML, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to load %s template %d: %w", kind, templateID, err)
	}

	populated, err := t.Inject(kind, string(templateHTML), profile)
	if err != nil {
		return "", err
	}

	filename, err := t.storage.SaveGenerated(kind, populated)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", kind, err)
	}

	return filename, nil
}

// Inject places a script that hands the profile to the template's render
// function right before the closing body tag.
func (t *templateService) Inject(kind, templateHTML string, profile *models.Profile) (string, error) {
	fn, ok := renderFunctions[kind]
	if !ok {
		return "", fmt.Errorf("unknown template kind: %s", kind)
	}

	payload, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("failed to encode profile: %w", err)
	}

	script := fmt.Sprintf(`
<script>
window.onload = function() {
    const userData = %s;
    if (typeof %s === 'function') {
        %s(userData);
    }
};
</script>
`, payload, fn, fn)

	idx := strings.LastIndex(strings.ToLower(templateHTML), "</body>")
	if idx < 0 {
		return templateHTML + script, nil
	}

	return templateHTML[:idx] + script + templateHTML[idx:], nil
}
