package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobpulse/analyzer/internal/domain"
)

func sampleSummary() domain.Summary {
	return domain.Summary{
		Total:          3,
		TopEmployers:   []domain.Count{{Name: "Acme", Count: 2}, {Name: "Globex", Count: 1}},
		TopLocations:   []domain.Count{{Name: "Lisbon", Count: 2}, {Name: "Porto", Count: 1}},
		Skills:         []domain.Count{{Name: "python", Count: 3}, {Name: "docker", Count: 1}},
		PostingsPerDay: []domain.DayCount{{Date: "2024-01-14", Count: 1}, {Date: "2024-01-15", Count: 2}},
	}
}

func TestWriteCSV(t *testing.T) {
	desc := "Build, ship and \"run\" services"
	postings := []domain.Posting{
		{
			Title:       "Go Developer",
			Employer:    "Acme",
			Location:    "Lisbon, Portugal",
			PostedAt:    time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			URL:         "https://x/jobs/view/1",
			Description: &desc,
			HoursAgo:    2,
		},
		{
			Title:    "SRE",
			Employer: "Globex",
			Location: "Porto",
			PostedAt: time.Date(2024, 1, 15, 1, 30, 0, 0, time.FixedZone("", 3600)),
			URL:      "https://x/jobs/view/2",
			HoursAgo: 11.45,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, postings))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"title", "employer", "location", "posted_date", "url", "description", "hours_ago"}, records[0])
	assert.Equal(t, []string{"Go Developer", "Acme", "Lisbon, Portugal", "2024-01-15T10:00:00Z", "https://x/jobs/view/1", desc, "2.0"}, records[1])
	assert.Equal(t, "2024-01-15T01:30:00+01:00", records[2][3])
	assert.Equal(t, "", records[2][5])
}

func TestWriteCSV_EmptyTableHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "title,employer,location,posted_date,url,description,hours_ago\n", buf.String())
}

func TestRenderCharts(t *testing.T) {
	tests := []struct {
		name   string
		render RenderFunc
		want   []string
	}{
		{"companies", RenderEmployers, []string{"Top Hiring Companies", "Acme", "Globex"}},
		{"locations", RenderLocations, []string{"Job Distribution by Location", "Lisbon", "Porto"}},
		{"skills", RenderSkills, []string{"Most Requested Skills", "python", "docker"}},
		{"trends", RenderTrends, []string{"Job Posting Trend", "2024-01-14", "2024-01-15"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.render(&buf, sampleSummary()))
			out := buf.String()
			assert.True(t, strings.Contains(strings.ToLower(out), "<html"), "not an HTML document")
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestInline_EmbedsScript(t *testing.T) {
	script := []byte("/* echarts */ var s = '</script>';")

	for _, name := range ChartNames {
		t.Run(name, func(t *testing.T) {
			var plain bytes.Buffer
			require.NoError(t, Renderers[name](&plain, sampleSummary()))
			require.Contains(t, plain.String(), "echarts.min.js")

			var buf bytes.Buffer
			require.NoError(t, InlineAll(script)[name](&buf, sampleSummary()))
			out := buf.String()
			assert.NotContains(t, out, "echarts.min.js")
			assert.Contains(t, out, `<script>/* echarts */ var s = '<\/script>';</script>`)
		})
	}
}

func TestInline_EmptyScriptKeepsAssetsHost(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Inline(RenderEmployers, nil)(&buf, sampleSummary()))
	assert.Contains(t, buf.String(), "echarts.min.js")
}
