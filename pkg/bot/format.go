package bot

import (
	"fmt"
	"strconv"
	"strings"

	"brainbot-hq/brainbot/pkg/capture"
	"brainbot-hq/brainbot/pkg/providers"
)

const helpText = `*Brainbot*

*Capture:*
• Send any message → Saved to vault inbox

*Query:*
• ` + "`/ask`" + ` or ` + "`/a`" + ` <question> → Query vault (thorough)
• ` + "`/quick`" + ` or ` + "`/q`" + ` <question> → Query vault (fast)

*Info:*
• ` + "`/status`" + ` → Capture stats
• ` + "`/help`" + ` → This message

*Examples:*
` + "`/a what are my current priorities?`" + `
` + "`/q summarize my recent notes`"

// formatAnswer renders a fresh answer: truncated body plus a trailer
// with the model, token counts, and cost.
func formatAnswer(answer *providers.Answer, maxChars int) string {
	text := clipWithMarker(answer.Text, maxChars)

	in := answer.Usage.InputTokens
	out := answer.Usage.OutputTokens
	if in > 0 || out > 0 {
		return text + fmt.Sprintf("\n\n_%s | %s→%s tok | $%.3f_",
			shortModel(answer.Model), groupThousands(in), groupThousands(out), answer.CostUSD)
	}
	return text + fmt.Sprintf("\n\n_%s | $%.3f_", shortModel(answer.Model), answer.CostUSD)
}

// formatCachedAnswer renders a cache hit. No trailer: the tokens and cost
// were already reported when the answer was first produced.
func formatCachedAnswer(answer *providers.Answer, maxChars int) string {
	return clipWithMarker(answer.Text, maxChars) + "\n\n_[Cached result]_"
}

// clipWithMarker truncates to max characters and appends a marker when
// anything was cut. Counts runes so a multi-byte boundary is never split.
func clipWithMarker(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "\n\n_[Truncated]_"
}

// clip truncates without a marker, for error snippets.
func clip(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

// shortModel compresses a model identifier for the trailer: the vendor
// prefix and a trailing release-date segment are dropped.
func shortModel(model string) string {
	model = strings.TrimPrefix(model, "claude-")
	if i := strings.LastIndex(model, "-"); i > 0 {
		if suffix := model[i+1:]; len(suffix) == 8 && isDigits(suffix) {
			model = model[:i]
		}
	}
	return model
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// groupThousands renders n with comma separators (12345 → "12,345").
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

type statusData struct {
	TodayCount int
	SpentUSD   float64
	RemainUSD  float64
	Recent     []capture.Entry
	LastError  string
}

// statusReport renders the /status reply.
func statusReport(d statusData) string {
	lines := []string{"✅ *Bot Status*", ""}

	lines = append(lines, fmt.Sprintf("📊 *Today:* %d captures", d.TodayCount))
	lines = append(lines, fmt.Sprintf("💰 *Budget:* $%.2f spent / $%.2f remaining", d.SpentUSD, d.RemainUSD))
	lines = append(lines, "")

	if len(d.Recent) > 0 {
		lines = append(lines, "📝 *Recent:*")
		for _, e := range d.Recent {
			lines = append(lines, fmt.Sprintf("• `%s` %s", e.CapturedAt.Format("15:04"), e.Preview))
		}
	} else {
		lines = append(lines, "📝 *Recent:* None")
	}

	lines = append(lines, "")
	if d.LastError != "" {
		lines = append(lines, "⚠️ *Last error:* "+d.LastError)
	} else {
		lines = append(lines, "✓ No errors")
	}

	return strings.Join(lines, "\n")
}
