package services

import (
	"regexp"
	"strings"

	"alfredoptarigan/profile-generator/internal/models"
)

const (
	experienceStride = 4
	educationStride  = 2
)

var (
	experienceStart = regexp.MustCompile(`(?i)experience`)
	experienceEnd   = regexp.MustCompile(`(?i)education|skills`)
	educationStart  = regexp.MustCompile(`(?i)education`)
	educationEnd    = regexp.MustCompile(`(?im)experience|skills|^[ \t]*page`)

	sectionHeading = regexp.MustCompile(`(?i)^(education|skills)`)
)

// SectionExtractor pulls résumé sections out of raw PDF text by position.
// It expects one field per line in a fixed cadence and silently drops
// anything that does not fill a whole group.
type SectionExtractor interface {
	ExtractExperience(text string) []models.Experience
	ExtractEducation(text string) []models.Education
}

type sectionExtractor struct{}

func NewSectionExtractor() SectionExtractor {
	return &sectionExtractor{}
}

// ExtractExperience implements SectionExtractor.
func (s *sectionExtractor) ExtractExperience(text string) []models.Experience {
	region, ok := findRegion(text, experienceStart, experienceEnd)
	if !ok {
		return []models.Experience{}
	}

	groups := chunkLines(splitLines(region), chunkRule{
		stride:         experienceStride,
		stopAfterGroup: []linePredicate{sectionHeading.MatchString},
	})

	entries := make([]models.Experience, 0, len(groups))
	for _, g := range groups {
		entries = append(entries, models.Experience{
			Company:  g[0],
			JobTitle: g[1],
			Date:     g[2],
			Location: g[3],
		})
	}
	return entries
}

// ExtractEducation implements SectionExtractor.
func (s *sectionExtractor) ExtractEducation(text string) []models.Education {
	region, ok := findRegion(text, educationStart, educationEnd)
	if !ok {
		return []models.Education{}
	}

	groups := chunkLines(splitLines(region), chunkRule{
		stride:      educationStride,
		stopInGroup: []linePredicate{containsPageMarker},
	})

	entries := make([]models.Education, 0, len(groups))
	for _, g := range groups {
		entries = append(entries, models.Education{
			School: g[0],
			Date:   g[1],
		})
	}
	return entries
}

type linePredicate func(line string) bool

// chunkRule describes a fixed-stride segmentation. stopInGroup is checked
// against every line of a candidate group before it is accepted;
// stopAfterGroup against the single line that follows an accepted group.
type chunkRule struct {
	stride         int
	stopInGroup    []linePredicate
	stopAfterGroup []linePredicate
}

func chunkLines(lines []string, rule chunkRule) [][]string {
	if rule.stride <= 0 {
		return nil
	}

	var groups [][]string
	for i := 0; i+rule.stride <= len(lines); i += rule.stride {
		group := lines[i : i+rule.stride]
		if anyMatch(rule.stopInGroup, group...) {
			break
		}
		groups = append(groups, group)

		next := i + rule.stride
		if next < len(lines) && anyMatch(rule.stopAfterGroup, lines[next]) {
			break
		}
	}
	return groups
}

func anyMatch(predicates []linePredicate, lines ...string) bool {
	for _, line := range lines {
		for _, match := range predicates {
			if match(line) {
				return true
			}
		}
	}
	return false
}

func containsPageMarker(line string) bool {
	return strings.Contains(line, "Page")
}

// findRegion returns the text after the first start marker up to the nearest
// end marker, or to the end of text.
func findRegion(text string, start, end *regexp.Regexp) (string, bool) {
	loc := start.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	rest := text[loc[1]:]
	if endLoc := end.FindStringIndex(rest); endLoc != nil {
		rest = rest[:endLoc[0]]
	}
	return rest, true
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
