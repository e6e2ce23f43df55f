package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/kotoba-dev/kotoba/internal/statistics"
)

// RenderReport formats a learner's statistics as a markdown document,
// suitable for printing or converting to PDF.
func RenderReport(userID string, generatedAt time.Time, overview statistics.Overview, forecast []statistics.ForecastDay) []byte {
	var builder strings.Builder
	fmt.Fprintf(&builder, "# Review report for %s\n\n", userID)
	fmt.Fprintf(&builder, "Generated on %s\n\n", generatedAt.Format("2006-01-02"))

	builder.WriteString("## Overview\n\n")
	builder.WriteString("| Metric | Value |\n")
	builder.WriteString("| --- | --- |\n")
	fmt.Fprintf(&builder, "| Total reviews | %d |\n", overview.TotalReviews)
	fmt.Fprintf(&builder, "| Correct reviews | %d |\n", overview.CorrectReviews)
	fmt.Fprintf(&builder, "| Accuracy | %.1f%% |\n", overview.Accuracy*100)
	fmt.Fprintf(&builder, "| Due today | %d |\n", overview.DueToday)
	fmt.Fprintf(&builder, "| Streak | %d days |\n", overview.StreakDays)
	fmt.Fprintf(&builder, "| Average ease | %.2f |\n", overview.AverageEase)

	builder.WriteString("\n## Upcoming reviews\n\n")
	builder.WriteString("| Date | Cards |\n")
	builder.WriteString("| --- | --- |\n")
	for _, day := range forecast {
		fmt.Fprintf(&builder, "| %s | %d |\n", day.Date.Format("2006-01-02"), day.Due)
	}

	return []byte(builder.String())
}
