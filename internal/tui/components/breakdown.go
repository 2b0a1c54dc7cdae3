package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/customs/internal/tui/themes"
	"github.com/Veraticus/customs/internal/tui/viewmodel"
	"github.com/charmbracelet/lipgloss"
)

// RenderBreakdown draws a calculation result. Sections without data are
// left out entirely.
func RenderBreakdown(v viewmodel.BreakdownView, theme themes.Theme, width int) string {
	var sections []string

	if v.HasWarnings() {
		lines := make([]string, len(v.Warnings))
		for i, w := range v.Warnings {
			lines[i] = "⚠ " + w
		}
		sections = append(sections, theme.StatusWarning.UnsetBold().Render(strings.Join(lines, "\n")))
	}

	sections = append(sections,
		BadgeStyle(theme, v.Badge.Tone).Render(v.Badge.Label),
		renderCustomsValue(v, theme),
	)

	if v.HasPayments() {
		sections = append(sections, renderPayments(v.Payments, theme))
	}

	sections = append(sections, renderTotal(v, theme, width))

	if v.ExchangeRate != "" {
		sections = append(sections, theme.Label.Render(
			fmt.Sprintf("Kurs: 1 USD = %s %s (CBU)", v.ExchangeRate, viewmodel.Currency)))
	}
	if v.Provenance != "" {
		sections = append(sections, theme.Label.Render("✓ "+v.Provenance))
	}

	return lipgloss.JoinVertical(lipgloss.Left, joinWithGaps(sections)...)
}

func renderCustomsValue(v viewmodel.BreakdownView, theme themes.Theme) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		theme.Label.Render(viewmodel.LabelCustomsValue),
		theme.Bold.Render(v.CustomsValueUZS+" "+viewmodel.Currency),
		theme.Label.Render("≈ "+v.CustomsValueUSD+" USD"),
	)
}

func renderPayments(rows []viewmodel.PaymentRow, theme themes.Theme) string {
	labelW := lipgloss.Width(viewmodel.LabelPaymentKind)
	rateW := lipgloss.Width(viewmodel.LabelRate)
	amountW := lipgloss.Width(viewmodel.LabelAmount)
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
		rateW = max(rateW, lipgloss.Width(r.Rate))
		amountW = max(amountW, lipgloss.Width(r.Amount+" "+viewmodel.Currency))
	}

	line := func(label, rate, amount string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(labelW).Render(label), "  ",
			lipgloss.NewStyle().Width(rateW).Align(lipgloss.Right).Render(rate), "  ",
			lipgloss.NewStyle().Width(amountW).Align(lipgloss.Right).Render(amount),
		)
	}

	out := []string{
		theme.Subtitle.UnsetMarginBottom().Render(viewmodel.LabelPayments),
		theme.Label.Render(line(
			strings.ToUpper(viewmodel.LabelPaymentKind),
			strings.ToUpper(viewmodel.LabelRate),
			strings.ToUpper(viewmodel.LabelAmount))),
	}
	for _, r := range rows {
		out = append(out, theme.Normal.Render(line(r.Label, r.Rate, r.Amount+" "+viewmodel.Currency)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func renderTotal(v viewmodel.BreakdownView, theme themes.Theme, width int) string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		viewmodel.LabelTotal,
		lipgloss.NewStyle().Bold(true).Render(v.TotalUZS+" "+viewmodel.Currency),
	)
	right := lipgloss.JoinVertical(lipgloss.Right,
		viewmodel.LabelTotalUSD,
		"≈ $"+v.TotalUSD,
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	if v.EffectiveRate != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body,
			"Effektiv stavka: "+v.EffectiveRate+" (tovar qiymatidan)")
	}

	box := theme.TotalBox
	if width > 0 {
		box = box.Width(width)
	}
	return box.Render(body)
}

func joinWithGaps(sections []string) []string {
	out := make([]string, 0, len(sections)*2)
	for i, s := range sections {
		if i > 0 {
			out = append(out, "")
		}
		out = append(out, s)
	}
	return out
}
