package receipt

import (
	"fmt"
	"strings"

	"github.com/bilosnizhka/bilosnizhka/internal/cli"
	"github.com/bilosnizhka/bilosnizhka/internal/model"
)

// Render produces the operator-facing text form of the receipt.
func Render(r Receipt) string {
	var b strings.Builder

	b.WriteString(cli.TitleStyle.Render("Квитанція " + r.ReceiptNumber))
	b.WriteString("\n")
	if r.TagNumber != "" {
		b.WriteString(cli.SubtleStyle.Render("Мітка: " + r.TagNumber))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Клієнт: %s  Філія: %s\n", r.ClientID, r.BranchID))
	b.WriteString(fmt.Sprintf("Прийнято: %s  Готовність: %s\n\n",
		r.CreatedAt.Format("2006-01-02"),
		r.ExpectedCompletionAt.Format("2006-01-02")))

	for _, line := range r.Lines {
		b.WriteString(cli.BoldStyle.Render(line.Name))
		b.WriteString(fmt.Sprintf("  %s x %s  =  %s\n", line.Quantity, line.Unit, line.FinalTotal))
		for _, step := range line.Steps {
			diff := step.PriceDifference.StringFixed(2)
			if step.PriceDifference.Sign() >= 0 {
				diff = "+" + diff
			}
			b.WriteString(cli.SubtleStyle.Render(fmt.Sprintf("  %d. %s: %s -> %s (%s)",
				step.Step, step.StepName,
				step.PriceBefore.StringFixed(2), step.PriceAfter.StringFixed(2), diff)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(renderSummary(r.Summary))
	return b.String()
}

func renderSummary(s model.FinancialSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Разом: %s\n", s.Subtotal.StringFixed(2)))
	if s.DiscountType != model.DiscountNone {
		b.WriteString(fmt.Sprintf("%s: -%s\n", s.DiscountType.Description(), s.DiscountAmount.StringFixed(2)))
	}
	if s.ExpediteType != model.ExpediteStandard {
		b.WriteString(fmt.Sprintf("Терміновість (%s): +%s\n", s.ExpediteType, s.ExpediteSurcharge.StringFixed(2)))
	}
	b.WriteString(cli.BoldStyle.Render(fmt.Sprintf("До сплати: %s", s.FinalAmount.StringFixed(2))))
	b.WriteString("\n")
	if s.PrepaymentAmount.Sign() > 0 {
		b.WriteString(fmt.Sprintf("Аванс: %s  Залишок: %s\n",
			s.PrepaymentAmount.StringFixed(2), s.BalanceAmount.StringFixed(2)))
	}
	return b.String()
}
