package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/eduprofile/internal/analysis"
	"github.com/example/eduprofile/pkg/models"
)

// Telegram rejects longer messages
const maxMessageLength = 4096

const recentResultsLimit = 10

// FormatReport renders a fresh analysis as a chat message
func FormatReport(report *analysis.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 %s (%s)\n", report.StudentName, report.Scope)
	fmt.Fprintf(&sb, "Results analysed: %d\n\n", report.RecordsInScope)

	if len(report.Directions) > 0 {
		sb.WriteString("🧭 Directions\n")
		for _, d := range report.Directions {
			fmt.Fprintf(&sb, "• %s: average %s, forecast %s, tests %d\n",
				d.Direction, formatFloat(d.AvgScore), d.ForecastDisplay, d.TestsCount)
		}
		sb.WriteString("\n")
	}

	for _, text := range report.Recommendations.List() {
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	return strings.TrimSpace(sb.String())
}

// FormatStored renders a stored analysis with its direction and weak topic rows
func FormatStored(stored *models.StudentAnalysis, directions []models.AnalysisDirection, topics []models.AnalysisWeakTopic) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🧭 Directions (%s, %s)\n", stored.Scope, stored.GeneratedAt.Format("2006-01-02 15:04"))
	if len(directions) == 0 {
		sb.WriteString("No directions.\n")
	}
	for _, d := range directions {
		fmt.Fprintf(&sb, "• %s: average %s (%s), forecast %s (%s), tests %d\n",
			d.DirectionName,
			formatFloat(d.AvgScore), analysis.Level(d.HistLevel).ShortName(),
			formatFloat(d.ForecastScore), analysis.Level(d.ForecastLevel).ShortName(),
			d.TestsCount)
	}

	if len(topics) > 0 {
		sb.WriteString("\n📉 Weak topics\n")
		for _, t := range topics {
			fmt.Fprintf(&sb, "• %s / %s: «%s» %s\n", t.DirectionName, t.SubjectName, t.TopicName, formatFloat(t.TopicScore))
		}
	}
	return strings.TrimSpace(sb.String())
}

// FormatResults lists up to limit results, newest first as given
func FormatResults(results []models.TestResult, limit int) string {
	if len(results) == 0 {
		return "No completed tests yet."
	}
	if len(results) > limit {
		results = results[:limit]
	}

	var sb strings.Builder
	sb.WriteString("📝 Recent results\n")
	for _, r := range results {
		name := "untitled test"
		if r.TestName != nil && *r.TestName != "" {
			name = *r.TestName
		}
		fmt.Fprintf(&sb, "• %s %s: %s - %s\n",
			r.TakenAt.Format("2006-01-02"), r.SubjectName, name, formatFloat(r.Score))
	}
	return strings.TrimSpace(sb.String())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= maxMessageLength {
		return text
	}
	return string(runes[:maxMessageLength-1]) + "…"
}
