package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/profile-generator/internal/models"
)

func TestExtractExperience(t *testing.T) {
	extractor := NewSectionExtractor()

	t.Run("single entry bounded by education", func(t *testing.T) {
		text := "Experience\nAcme Corp\nEngineer\nJan 2020\nCity\nEducation\nMIT\n2010"

		got := extractor.ExtractExperience(text)
		assert.Equal(t, []models.Experience{
			{Company: "Acme Corp", JobTitle: "Engineer", Date: "Jan 2020", Location: "City"},
		}, got)
	})

	t.Run("multiple entries in source order", func(t *testing.T) {
		text := "Jane Doe\nEXPERIENCE\n\nAcme Corp\nEngineer\nJan 2020 - Present\nBerlin\n" +
			"  Globex  \nIntern\n2019\nRemote\nSkills\nGo"

		got := extractor.ExtractExperience(text)
		require.Len(t, got, 2)
		assert.Equal(t, "Acme Corp", got[0].Company)
		assert.Equal(t, "Globex", got[1].Company)
		assert.Equal(t, "Remote", got[1].Location)
	})

	t.Run("trailing partial group is dropped", func(t *testing.T) {
		text := "Experience\nAcme Corp\nEngineer\nJan 2020\nCity\nGlobex\nIntern\n2019"

		got := extractor.ExtractExperience(text)
		require.Len(t, got, 1)
		assert.Equal(t, "Acme Corp", got[0].Company)
	})

	t.Run("runs to end of text without an end marker", func(t *testing.T) {
		text := "experience\nA\nB\nC\nD\nE\nF\nG\nH"

		got := extractor.ExtractExperience(text)
		assert.Len(t, got, 2)
	})

	t.Run("missing section yields empty list", func(t *testing.T) {
		got := extractor.ExtractExperience("Jane Doe\nEducation\nMIT\n2010")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("fewer than four lines yields empty list", func(t *testing.T) {
		assert.Empty(t, extractor.ExtractExperience("Experience\nAcme\nEngineer\n2020"))
	})

	t.Run("windows line endings", func(t *testing.T) {
		text := "Experience\r\nAcme Corp\r\nEngineer\r\nJan 2020\r\nCity\r\n"

		got := extractor.ExtractExperience(text)
		require.Len(t, got, 1)
		assert.Equal(t, "City", got[0].Location)
	})
}

func TestExtractEducation(t *testing.T) {
	extractor := NewSectionExtractor()

	t.Run("pairs of school and date", func(t *testing.T) {
		text := "Education\nMIT\n2010 - 2014\nStanford University\n2015 - 2017\nSkills\nGo"

		got := extractor.ExtractEducation(text)
		assert.Equal(t, []models.Education{
			{School: "MIT", Date: "2010 - 2014"},
			{School: "Stanford University", Date: "2015 - 2017"},
		}, got)
	})

	t.Run("page footer stops consumption", func(t *testing.T) {
		text := "Education\nMIT\n2010 - 2014\nStanford\nPage 1 of 2\nHarvard\n2018"

		got := extractor.ExtractEducation(text)
		assert.Equal(t, []models.Education{{School: "MIT", Date: "2010 - 2014"}}, got)
	})

	t.Run("footer sharing a line with a date excludes that pair", func(t *testing.T) {
		text := "Education\nMIT\n2010\nStanford\n2015 Page 1 of 2\nHarvard\n2018"

		got := extractor.ExtractEducation(text)
		assert.Equal(t, []models.Education{{School: "MIT", Date: "2010"}}, got)
	})

	t.Run("page inside a word does not end the region", func(t *testing.T) {
		text := "Education\nHomepage Academy\n2012\nMIT\n2014"

		got := extractor.ExtractEducation(text)
		assert.Equal(t, []models.Education{
			{School: "Homepage Academy", Date: "2012"},
			{School: "MIT", Date: "2014"},
		}, got)
	})

	t.Run("bounded by experience", func(t *testing.T) {
		text := "Education\nMIT\n2010\nExperience\nAcme\nEngineer\n2020\nCity"

		got := extractor.ExtractEducation(text)
		assert.Equal(t, []models.Education{{School: "MIT", Date: "2010"}}, got)
	})

	t.Run("odd trailing line is dropped", func(t *testing.T) {
		got := extractor.ExtractEducation("Education\nMIT\n2010\nHarvard")
		assert.Len(t, got, 1)
	})

	t.Run("missing section yields empty list", func(t *testing.T) {
		got := extractor.ExtractEducation("Experience\nAcme\nEngineer\n2020\nCity")
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestChunkLines(t *testing.T) {
	t.Run("page marker inside a pair excludes the pair and the rest", func(t *testing.T) {
		lines := []string{"MIT", "2010", "Stanford", "Page 1 of 2", "Harvard", "2018"}

		got := chunkLines(lines, chunkRule{stride: 2, stopInGroup: []linePredicate{containsPageMarker}})
		assert.Equal(t, [][]string{{"MIT", "2010"}}, got)
	})

	t.Run("page marker check is case sensitive", func(t *testing.T) {
		lines := []string{"homepage academy", "2010"}

		got := chunkLines(lines, chunkRule{stride: 2, stopInGroup: []linePredicate{containsPageMarker}})
		assert.Len(t, got, 1)
	})

	t.Run("heading after a completed group stops", func(t *testing.T) {
		lines := []string{"A", "B", "C", "D", "skills and more", "F", "G", "H"}

		got := chunkLines(lines, chunkRule{stride: 4, stopAfterGroup: []linePredicate{sectionHeading.MatchString}})
		assert.Equal(t, [][]string{{"A", "B", "C", "D"}}, got)
	})

	t.Run("heading inside a group is consumed as data", func(t *testing.T) {
		lines := []string{"A", "Education", "C", "D"}

		got := chunkLines(lines, chunkRule{stride: 4, stopAfterGroup: []linePredicate{sectionHeading.MatchString}})
		assert.Equal(t, [][]string{{"A", "Education", "C", "D"}}, got)
	})

	t.Run("zero stride yields nothing", func(t *testing.T) {
		assert.Nil(t, chunkLines([]string{"A"}, chunkRule{}))
	})
}
