package export

import (
	"bytes"
	"io"
	"regexp"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/jobpulse/analyzer/internal/domain"
)

// Chart names, also used for output file names.
const (
	ChartCompanies = "companies"
	ChartLocations = "locations"
	ChartSkills    = "skills"
	ChartTrends    = "trends"
)

// ChartNames lists every chart, in render order.
var ChartNames = []string{ChartCompanies, ChartLocations, ChartSkills, ChartTrends}

// RenderFunc renders one chart of a summary as a standalone HTML document.
type RenderFunc func(w io.Writer, s domain.Summary) error

// Renderers maps chart names to their render functions.
var Renderers = map[string]RenderFunc{
	ChartCompanies: RenderEmployers,
	ChartLocations: RenderLocations,
	ChartSkills:    RenderSkills,
	ChartTrends:    RenderTrends,
}

var echartsScriptRe = regexp.MustCompile(`<script\s+src="[^"]*echarts(?:\.min)?\.js"\s*>\s*</script>`)

// Inline wraps render so the echarts library is embedded from script instead
// of loaded from the assets host. An empty script returns render unchanged.
func Inline(render RenderFunc, script []byte) RenderFunc {
	if len(script) == 0 {
		return render
	}
	tag := make([]byte, 0, len(script)+len("<script></script>"))
	tag = append(tag, "<script>"...)
	tag = append(tag, bytes.ReplaceAll(script, []byte("</script"), []byte(`<\/script`))...)
	tag = append(tag, "</script>"...)

	return func(w io.Writer, s domain.Summary) error {
		var buf bytes.Buffer
		if err := render(&buf, s); err != nil {
			return err
		}
		_, err := w.Write(echartsScriptRe.ReplaceAllLiteral(buf.Bytes(), tag))
		return err
	}
}

// InlineAll applies Inline to every entry of Renderers.
func InlineAll(script []byte) map[string]RenderFunc {
	out := make(map[string]RenderFunc, len(Renderers))
	for name, render := range Renderers {
		out[name] = Inline(render, script)
	}
	return out
}

// RenderEmployers draws the top employers as a bar chart.
func RenderEmployers(w io.Writer, s domain.Summary) error {
	return renderBar(w, "Top Hiring Companies", "Company", "Job Postings", s.TopEmployers)
}

// RenderSkills draws skill mention counts as a bar chart.
func RenderSkills(w io.Writer, s domain.Summary) error {
	return renderBar(w, "Most Requested Skills", "Skill", "Mentions", s.Skills)
}

// RenderLocations draws the location distribution as a pie chart.
func RenderLocations(w io.Writer, s domain.Summary) error {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Job Distribution by Location"}),
		charts.WithTitleOpts(opts.Title{Title: "Job Distribution by Location"}),
	)

	items := make([]opts.PieData, 0, len(s.TopLocations))
	for _, c := range s.TopLocations {
		items = append(items, opts.PieData{Name: c.Name, Value: c.Count})
	}
	pie.AddSeries("Job Postings", items)

	return pie.Render(w)
}

// RenderTrends draws postings per day as a line chart.
func RenderTrends(w io.Writer, s domain.Summary) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Job Posting Trend"}),
		charts.WithTitleOpts(opts.Title{Title: "Job Posting Trend"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Job Postings"}),
	)

	dates := make([]string, 0, len(s.PostingsPerDay))
	items := make([]opts.LineData, 0, len(s.PostingsPerDay))
	for _, d := range s.PostingsPerDay {
		dates = append(dates, d.Date)
		items = append(items, opts.LineData{Value: d.Count})
	}
	line.SetXAxis(dates).AddSeries("Job Postings", items)

	return line.Render(w)
}

func renderBar(w io.Writer, title, xName, yName string, counts []domain.Count) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	)

	names := make([]string, 0, len(counts))
	items := make([]opts.BarData, 0, len(counts))
	for _, c := range counts {
		names = append(names, c.Name)
		items = append(items, opts.BarData{Value: c.Count})
	}
	bar.SetXAxis(names).AddSeries(yName, items)

	return bar.Render(w)
}
