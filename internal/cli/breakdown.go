package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/driveline-io/driveline/internal/model"
)

// RenderScore renders a full scoring breakdown for one trip: the final score
// with its star rating, then every category ordered worst-first so the risky
// behaviors lead.
func RenderScore(score *model.FinalScore) string {
	var b strings.Builder

	header := fmt.Sprintf("%s %s  %s",
		BoldStyle.Render(fmt.Sprintf("%.2f", score.Value)),
		StarStyle.Render(model.StarString(score.Stars)),
		SubtleStyle.Render(fmt.Sprintf("(%d events)", score.TotalEvents)),
	)
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(BoldStyle.Render(ChartIcon + " Behavior Scores"))
	b.WriteString("\n")

	for _, behavior := range sortedBehaviors(score) {
		line := fmt.Sprintf("  %-20s %6.2f  %s",
			titleCase(behavior.Category.String()),
			behavior.Score,
			StarStyle.Render(model.StarString(model.StarsFor(behavior.Score))),
		)
		if behavior.Penalty > 0 {
			line += SubtleStyle.Render(fmt.Sprintf("  penalty %.1f", behavior.Penalty))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if score.SkippedRecords > 0 {
		b.WriteString("\n")
		b.WriteString(FormatWarning(fmt.Sprintf("%d malformed detector records skipped", score.SkippedRecords)))
		b.WriteString("\n")
	}

	return RenderBox(CarIcon+" Driving Score", strings.TrimRight(b.String(), "\n"))
}

// RenderRollingAverage renders the trailing-window average, or a distinct
// "no data" notice when the account has no history in the window.
func RenderRollingAverage(avg model.RollingAverage, windowDays int) string {
	if !avg.HasData {
		return SubtleStyle.Render(fmt.Sprintf("%s %d-day rolling average: no data", ClockIcon, windowDays))
	}
	return fmt.Sprintf("%s %d-day rolling average: %s %s %s",
		ClockIcon,
		windowDays,
		BoldStyle.Render(fmt.Sprintf("%.2f", avg.Value)),
		StarStyle.Render(model.StarString(model.StarsFor(avg.Value))),
		SubtleStyle.Render(fmt.Sprintf("(%d sessions, %.0fs driven)", avg.Sessions, avg.TotalSeconds)),
	)
}

func sortedBehaviors(score *model.FinalScore) []model.BehaviorScore {
	behaviors := make([]model.BehaviorScore, 0, len(score.Behaviors))
	for _, b := range score.Behaviors {
		behaviors = append(behaviors, b)
	}
	sort.Slice(behaviors, func(i, j int) bool {
		if behaviors[i].Score != behaviors[j].Score {
			return behaviors[i].Score < behaviors[j].Score
		}
		return behaviors[i].Category < behaviors[j].Category
	})
	return behaviors
}

func titleCase(category string) string {
	words := strings.Split(category, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
