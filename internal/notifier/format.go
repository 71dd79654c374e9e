package notifier

import (
	"fmt"
	"sort"
	"strings"

	"MarketHarvester/internal/model"
)

var statusEmoji = map[model.Status]string{
	model.StatusSuccess: "✅",
	model.StatusWarning: "⚠️",
	model.StatusError:   "❌",
	model.StatusFatal:   "🔥",
	model.StatusSkipped: "⏭",
	model.StatusBusy:    "⏳",
}

// FormatRunReport renders a fetch cycle report as a Telegram message.
func FormatRunReport(rep *model.RunReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>MarketHarvester</b> | %s\n", rep.Timestamp.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("run <code>%s</code>, %.1fs\n\n", rep.ID, rep.DurationSeconds))

	sources := make([]string, 0, len(rep.Results))
	for src := range rep.Results {
		sources = append(sources, string(src))
	}
	sort.Strings(sources)

	for _, name := range sources {
		res := rep.Results[model.Source(name)]
		emoji, ok := statusEmoji[res.Status]
		if !ok {
			emoji = "•"
		}
		b.WriteString(fmt.Sprintf("%s <b>%s</b>: %s", emoji, name, res.Status))
		if res.Count > 0 {
			b.WriteString(fmt.Sprintf(" (%d records)", res.Count))
		}
		if res.Detail != "" {
			b.WriteString(fmt.Sprintf("\n   %s", res.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
