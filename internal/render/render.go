package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lox/sambridge/internal/bridge"
	"github.com/lox/sambridge/internal/cards"
	"github.com/lox/sambridge/internal/combo"
	"github.com/lox/sambridge/internal/model"
	"github.com/lox/sambridge/internal/provider"
	"github.com/lox/sambridge/internal/simulate"
)

// Hand renders cards in rank order, red suits highlighted
func Hand(h cards.Hand) string {
	if len(h) == 0 {
		return "[]"
	}
	formatted := make([]string, 0, len(h))
	for _, c := range h.Sorted() {
		if c.IsRed() {
			formatted = append(formatted, RedCardStyle.Render(c.String()))
		} else {
			formatted = append(formatted, BlackCardStyle.Render(c.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// Combos renders a play sequence one combo per line
func Combos(seq []combo.Combo) string {
	lines := make([]string, 0, len(seq))
	for i, c := range seq {
		lines = append(lines, fmt.Sprintf("%2d. %s %s %s",
			i+1,
			ComboStyle.Render(fmt.Sprintf("%-10s", c.Type)),
			Hand(c.Cards),
			InfoStyle.Render(fmt.Sprintf("strength %.2f", combo.Strength(c)))))
	}
	return strings.Join(lines, "\n")
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), value)
}

func meta(m provider.Meta) []string {
	rows := []string{
		row("Tier", string(m.Tier)),
		row("Provider", m.Provider),
		row("Latency", m.Latency.String()),
		row("ID", InfoStyle.Render(m.ID)),
	}
	for _, f := range m.Fallbacks {
		rows = append(rows, row("Fell back", WarningStyle.Render(fmt.Sprintf("%s %s: %s", f.Tier, f.Kind, f.Error))))
	}
	return rows
}

// Declaration renders a declaration result for a hand
func Declaration(hand cards.Hand, res provider.DeclarationResult) string {
	verdict := ErrorStyle.Render("DO NOT DECLARE")
	if res.ShouldDeclare {
		verdict = SuccessStyle.Render("DECLARE BÁO SÂM")
	}

	rows := []string{
		HeaderStyle.Render("Báo Sâm decision"),
		row("Hand", Hand(hand)),
		row("Verdict", verdict),
		row("Probability", fmt.Sprintf("%.3f", res.Probability)),
		row("Confidence", fmt.Sprintf("%.3f", res.Confidence)),
		row("Reason", res.Reason),
	}
	if res.Threshold > 0 {
		rows = append(rows, row("Threshold", fmt.Sprintf("%.3f", res.Threshold)))
	}
	rows = append(rows, meta(res.Meta)...)
	if len(res.Sequence) > 0 {
		rows = append(rows, "", "Sequence:", Combos(res.Sequence))
	}
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Move renders a move result
func Move(res provider.MoveResult) string {
	move := string(res.Move.Type)
	if res.Move.Type == provider.PlayCards {
		move = fmt.Sprintf("%s %s", res.Move.ComboType, Hand(res.Move.Cards))
	}
	rows := append([]string{
		HeaderStyle.Render("Move"),
		row("Move", SuccessStyle.Render(move)),
	}, meta(res.Meta)...)
	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// Status renders the tier list
func Status(tiers []bridge.TierStatus) string {
	rows := []string{HeaderStyle.Render("Tiers")}
	for _, t := range tiers {
		state := SuccessStyle.Render(string(t.State))
		switch t.State {
		case bridge.StateFailed:
			state = ErrorStyle.Render(string(t.State))
		case bridge.StatePending:
			state = WarningStyle.Render(string(t.State))
		}
		line := fmt.Sprintf("%-8s %-10s %-28s %s", t.Chain, t.Tier, t.Provider, state)
		if t.Error != "" {
			line += " " + InfoStyle.Render(t.Error)
		}
		rows = append(rows, line)
		if t.Model != nil {
			rows = append(rows, "         "+ModelStatus(*t.Model))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// ModelStatus renders one line about a model artifact
func ModelStatus(s model.Status) string {
	if !s.Exists {
		return WarningStyle.Render("missing " + s.Path)
	}
	if s.Error != "" {
		return ErrorStyle.Render(s.Path + ": " + s.Error)
	}
	trained := WarningStyle.Render("untrained")
	if s.Trained {
		trained = SuccessStyle.Render("trained")
	}
	return fmt.Sprintf("%s %s v%d threshold %.2f", s.Path, trained, s.Version, s.Threshold)
}

// Report renders a simulation report
func Report(r *simulate.Report) string {
	rows := []string{
		HeaderStyle.Render("Simulation"),
		row("Hands", fmt.Sprintf("%d", r.Hands)),
		row("Declared", fmt.Sprintf("%d (%.1f%%)", r.Declared, 100*r.DeclareRate())),
		row("Mean p", fmt.Sprintf("%.3f", r.MeanProbability())),
		row("Latency", fmt.Sprintf("mean %s median %s", r.MeanLatency(), r.MedianLatency())),
		row("Duration", r.Duration.String()),
		"",
		"Declarations by tier:",
	}
	rows = append(rows, counts(r.ByTier, r.Hands)...)
	if r.Moves > 0 {
		rows = append(rows, "", "Moves by tier:")
		rows = append(rows, counts(r.MoveTiers, r.Moves)...)
	}
	if len(r.Fallbacks) > 0 {
		rows = append(rows, "", "Fallbacks:")
		rows = append(rows, counts(r.Fallbacks, 0)...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func counts[K ~string](m map[K]int, total int) []string {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		line := fmt.Sprintf("  %-24s %6d", k, m[k])
		if total > 0 {
			line += fmt.Sprintf("  %5.1f%%", 100*float64(m[k])/float64(total))
		}
		lines = append(lines, line)
	}
	return lines
}
