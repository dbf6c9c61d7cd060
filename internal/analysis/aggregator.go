package analysis

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jobpulse/analyzer/internal/domain"
)

// DefaultTopN is the length of the employer and location rankings.
const DefaultTopN = 10

// DefaultSkills is the vocabulary matched against descriptions.
var DefaultSkills = []string{
	"python", "java", "sql", "aws", "azure", "javascript",
	"react", "node", "docker", "kubernetes", "agile", "scrum",
}

// Aggregator derives summary views from a session's postings. It never
// mutates its input.
type Aggregator struct {
	skills []string
	topN   int
}

// NewAggregator creates an aggregator. Empty skills or a non-positive topN
// fall back to the defaults.
func NewAggregator(skills []string, topN int) *Aggregator {
	if len(skills) == 0 {
		skills = DefaultSkills
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Aggregator{
		skills: append([]string(nil), skills...),
		topN:   topN,
	}
}

// Summarize computes every view at once
func (a *Aggregator) Summarize(postings []domain.Posting) domain.Summary {
	employers := make([]string, len(postings))
	locations := make([]string, len(postings))
	for i, p := range postings {
		employers[i] = p.Employer
		locations[i] = p.Location
	}

	return domain.Summary{
		Total:          len(postings),
		TopEmployers:   TopCounts(employers, a.topN),
		TopLocations:   TopCounts(locations, a.topN),
		Skills:         SkillMentions(postings, a.skills),
		PostingsPerDay: PostingsPerDay(postings),
	}
}

// TopCounts ranks values by frequency, descending. Ties keep the order in
// which values were first seen. n <= 0 returns every value.
func TopCounts(values []string, n int) []domain.Count {
	index := make(map[string]int)
	counts := make([]domain.Count, 0)
	for _, v := range values {
		if i, ok := index[v]; ok {
			counts[i].Count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, domain.Count{Name: v, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})

	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// SkillMentions counts, per skill, the postings whose description contains
// it as a case-insensitive substring. A posting counts once per skill no
// matter how often the term occurs. Postings without a description never
// match. Result is sorted by count descending, ties in vocabulary order.
func SkillMentions(postings []domain.Posting, skills []string) []domain.Count {
	fold := cases.Fold()

	descriptions := make([]string, 0, len(postings))
	for _, p := range postings {
		if !p.HasDescription() {
			continue
		}
		descriptions = append(descriptions, fold.String(*p.Description))
	}

	counts := make([]domain.Count, 0, len(skills))
	for _, skill := range skills {
		needle := fold.String(skill)
		n := 0
		for _, d := range descriptions {
			if strings.Contains(d, needle) {
				n++
			}
		}
		counts = append(counts, domain.Count{Name: skill, Count: n})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// PostingsPerDay counts postings per calendar day of their published
// timestamp, read in the timestamp's own offset, oldest day first.
func PostingsPerDay(postings []domain.Posting) []domain.DayCount {
	byDay := make(map[string]int)
	for _, p := range postings {
		byDay[p.PostedAt.Format("2006-01-02")]++
	}

	days := make([]domain.DayCount, 0, len(byDay))
	for day, n := range byDay {
		days = append(days, domain.DayCount{Date: day, Count: n})
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	return days
}
