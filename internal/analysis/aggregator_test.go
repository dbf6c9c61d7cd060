package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobpulse/analyzer/internal/domain"
)

func strPtr(s string) *string { return &s }

func posting(employer, location string, posted time.Time, description *string) domain.Posting {
	return domain.Posting{
		Title:       "Engineer",
		Employer:    employer,
		Location:    location,
		PostedAt:    posted,
		Description: description,
	}
}

func TestTopCounts(t *testing.T) {
	got := TopCounts([]string{"A", "A", "B", "C", "C", "C"}, 10)
	assert.Equal(t, []domain.Count{{Name: "C", Count: 3}, {Name: "A", Count: 2}, {Name: "B", Count: 1}}, got)
}

func TestTopCounts_TiesKeepFirstSeenOrder(t *testing.T) {
	got := TopCounts([]string{"B", "A", "C", "A", "B"}, 10)
	assert.Equal(t, []domain.Count{{Name: "B", Count: 2}, {Name: "A", Count: 2}, {Name: "C", Count: 1}}, got)
}

func TestTopCounts_Truncates(t *testing.T) {
	values := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "k"}
	got := TopCounts(values, 10)
	require.Len(t, got, 10)
	assert.Equal(t, domain.Count{Name: "k", Count: 2}, got[0])
	assert.Equal(t, "i", got[9].Name)
}

func TestSkillMentions_CountsPostingsCaseInsensitively(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	postings := []domain.Posting{
		posting("A", "L", now, strPtr("Python and PYTHON, plus Docker")),
		posting("A", "L", now, strPtr("python scripting")),
		posting("B", "L", now, nil),
		posting("C", "L", now, strPtr(domain.DescriptionUnavailable)),
	}

	got := SkillMentions(postings, []string{"docker", "python", "scrum"})
	assert.Equal(t, []domain.Count{
		{Name: "python", Count: 2},
		{Name: "docker", Count: 1},
		{Name: "scrum", Count: 0},
	}, got)
}

func TestPostingsPerDay(t *testing.T) {
	postings := []domain.Posting{
		posting("A", "L", time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), nil),
		posting("A", "L", time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC), nil),
		posting("A", "L", time.Date(2024, 1, 15, 1, 0, 0, 0, time.UTC), nil),
		// 2024-01-14T23:30:00-02:00 is still the 14th in its own offset.
		posting("A", "L", time.Date(2024, 1, 14, 23, 30, 0, 0, time.FixedZone("", -7200)), nil),
	}

	got := PostingsPerDay(postings)
	assert.Equal(t, []domain.DayCount{
		{Date: "2024-01-14", Count: 2},
		{Date: "2024-01-15", Count: 2},
	}, got)
}

func TestSummarize(t *testing.T) {
	day := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	postings := []domain.Posting{
		posting("Acme", "Lisbon", day, strPtr("React and Node")),
		posting("Globex", "Porto", day, strPtr("Java, SQL")),
		posting("Acme", "Lisbon", day, nil),
	}
	before := append([]domain.Posting(nil), postings...)

	summary := NewAggregator(nil, 0).Summarize(postings)

	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, []domain.Count{{Name: "Acme", Count: 2}, {Name: "Globex", Count: 1}}, summary.TopEmployers)
	assert.Equal(t, []domain.Count{{Name: "Lisbon", Count: 2}, {Name: "Porto", Count: 1}}, summary.TopLocations)
	require.Len(t, summary.Skills, len(DefaultSkills))
	assert.Equal(t, []domain.DayCount{{Date: "2024-01-15", Count: 3}}, summary.PostingsPerDay)
	assert.Equal(t, before, postings)

	counts := map[string]int{}
	for _, c := range summary.Skills {
		counts[c.Name] = c.Count
	}
	assert.Equal(t, 1, counts["react"])
	assert.Equal(t, 1, counts["node"])
	assert.Equal(t, 1, counts["java"])
	assert.Equal(t, 1, counts["sql"])
	assert.Equal(t, 0, counts["javascript"])
}

func TestSummarize_Empty(t *testing.T) {
	summary := NewAggregator(nil, 0).Summarize(nil)
	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.TopEmployers)
	assert.Empty(t, summary.PostingsPerDay)
	for _, c := range summary.Skills {
		assert.Zero(t, c.Count)
	}
}
