package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bilosnizhka/bilosnizhka/internal/cli"
	"github.com/bilosnizhka/bilosnizhka/internal/common"
	"github.com/bilosnizhka/bilosnizhka/internal/model"
	"github.com/bilosnizhka/bilosnizhka/internal/pricing"
)

func quoteCmd() *cobra.Command {
	var (
		basePrice     float64
		quantity      float64
		categoryCode  string
		modifierCodes []string
		discountType  string
		customPercent float64
		expediteType  string
		prepayment    float64
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price one item against the cached modifier catalog",
		Long: `Computes the price of a single item: eligible modifiers compound in the
order given, then the order-level discount and expedite surcharge apply.
Requires a synced modifier catalog (see 'catalog sync').`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			catalog, err := store.GetModifiers(ctx)
			if err != nil {
				return err
			}
			if len(catalog) == 0 && len(modifierCodes) > 0 {
				return common.NewUserError("run 'bilosnizhka catalog sync' first", common.ErrCatalogOutdated)
			}

			eligibility := pricing.NewEligibility(catalog)
			filtered := eligibility.Filter(modifierCodes, categoryCode)
			for _, rejection := range filtered.Rejected {
				fmt.Println(cli.WarningStyle.Render("skipped: " + rejection.Reason))
			}

			calc := pricing.NewCalculator()
			base := decimal.NewFromFloat(basePrice)
			qty := decimal.NewFromFloat(quantity)

			price, err := calc.ComputeLineItem(base, qty, filtered.Applicable)
			if err != nil {
				return err
			}

			item := model.LineItem{
				ID:             "quote",
				CategoryCode:   categoryCode,
				Quantity:       qty,
				BasePrice:      base,
				Modifiers:      filtered.Applicable,
				FinalUnitPrice: price.FinalUnitPrice,
				FinalTotal:     price.FinalTotal,
			}

			selection := model.DiscountSelection{Type: model.DiscountType(discountType)}
			if selection.Type == model.DiscountCustom {
				p := decimal.NewFromFloat(customPercent)
				selection.CustomPercentage = &p
			}

			summary, err := calc.ComputeOrderSummary(
				[]model.LineItem{item},
				selection,
				model.ExpediteType(expediteType),
				decimal.NewFromFloat(prepayment),
			)
			if err != nil {
				return err
			}

			printQuote(price, summary)
			return nil
		},
	}

	cmd.Flags().Float64Var(&basePrice, "base", 0, "base unit price")
	cmd.Flags().Float64Var(&quantity, "quantity", 1, "quantity")
	cmd.Flags().StringVar(&categoryCode, "category", "", "service category code")
	cmd.Flags().StringSliceVar(&modifierCodes, "modifier", nil, "modifier codes, applied in the order given")
	cmd.Flags().StringVar(&discountType, "discount", string(model.DiscountNone), "discount type (NONE, EVERCARD, SOCIAL_MEDIA, MILITARY, CUSTOM)")
	cmd.Flags().Float64Var(&customPercent, "custom-percent", 0, "percentage for CUSTOM discount")
	cmd.Flags().StringVar(&expediteType, "expedite", string(model.ExpediteStandard), "expedite tier (STANDARD, EXPRESS_48H, EXPRESS_24H)")
	cmd.Flags().Float64Var(&prepayment, "prepayment", 0, "prepayment amount")
	_ = cmd.MarkFlagRequired("base")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func printQuote(price model.LineItemPrice, summary model.FinancialSummary) {
	fmt.Println(cli.TitleStyle.Render("Розрахунок ціни"))
	fmt.Printf("Базова сума: %s\n", price.BaseTotal.StringFixed(2))

	for _, step := range price.Steps {
		diff := step.PriceDifference.StringFixed(2)
		if step.PriceDifference.Sign() >= 0 {
			diff = "+" + diff
		}
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  %d. %s [%s]: %s -> %s (%s)",
			step.Step, step.StepName, step.ModifierCode,
			step.PriceBefore.StringFixed(2), step.PriceAfter.StringFixed(2), diff)))
	}

	fmt.Printf("Модифікатори: %s\n", price.ModifiersTotal.StringFixed(2))
	fmt.Printf("Ціна за одиницю: %s\n", price.FinalUnitPrice.StringFixed(2))
	fmt.Printf("Разом за позицію: %s\n\n", price.FinalTotal.StringFixed(2))

	if summary.DiscountType != model.DiscountNone {
		fmt.Printf("%s: -%s\n", summary.DiscountType.Description(), summary.DiscountAmount.StringFixed(2))
	}
	if summary.ExpediteType != model.ExpediteStandard {
		fmt.Printf("Терміновість (%s): +%s\n", summary.ExpediteType, summary.ExpediteSurcharge.StringFixed(2))
	}
	fmt.Println(cli.BoldStyle.Render("До сплати: " + summary.FinalAmount.StringFixed(2)))
	if summary.PrepaymentAmount.Sign() > 0 {
		fmt.Printf("Аванс: %s  Залишок: %s\n",
			summary.PrepaymentAmount.StringFixed(2), summary.BalanceAmount.StringFixed(2))
	}
}
