package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bilosnizhka/bilosnizhka/internal/cli"
	"github.com/bilosnizhka/bilosnizhka/internal/common"
	"github.com/bilosnizhka/bilosnizhka/internal/model"
	"github.com/bilosnizhka/bilosnizhka/internal/pricing"
	"github.com/bilosnizhka/bilosnizhka/internal/receipt"
	"github.com/bilosnizhka/bilosnizhka/internal/service"
	"github.com/bilosnizhka/bilosnizhka/internal/storage"
	"github.com/bilosnizhka/bilosnizhka/internal/tui"
	"github.com/bilosnizhka/bilosnizhka/internal/validation"
)

func ordersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Work with locally cached orders",
	}
	cmd.AddCommand(ordersCreateCmd())
	cmd.AddCommand(ordersListCmd())
	cmd.AddCommand(ordersShowCmd())
	cmd.AddCommand(ordersCheckCmd())
	cmd.AddCommand(ordersCompleteCmd())
	return cmd
}

func ordersCreateCmd() *cobra.Command {
	var (
		clientID      string
		branchID      string
		branchPrefix  string
		itemName      string
		categoryCode  string
		basePrice     float64
		quantity      float64
		modifierCodes []string
		discountType  string
		customPercent float64
		expediteType  string
		prepayment    float64
		notes         string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Take in a new order and price it",
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

			filtered := pricing.NewEligibility(catalog).Filter(modifierCodes, categoryCode)
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
				ID:             uuid.NewString(),
				CategoryCode:   categoryCode,
				Name:           itemName,
				Quantity:       qty,
				Unit:           model.UnitPiece,
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

			items := []model.LineItem{item}
			summary, err := calc.ComputeOrderSummary(items, selection, model.ExpediteType(expediteType), decimal.NewFromFloat(prepayment))
			if err != nil {
				return err
			}

			now := time.Now()
			sequence, err := todaysSequence(ctx, store, now)
			if err != nil {
				return err
			}

			order := &model.Order{
				ID:                   uuid.NewString(),
				ReceiptNumber:        model.GenerateReceiptNumber(branchPrefix, now, sequence),
				TagNumber:            model.GenerateTagNumber(),
				ClientID:             clientID,
				BranchID:             branchID,
				Status:               model.StatusNew,
				Items:                items,
				DiscountType:         summary.DiscountType,
				DiscountPercent:      summary.DiscountPercent,
				DiscountAmount:       summary.DiscountAmount,
				ExpediteType:         summary.ExpediteType,
				ExpediteSurcharge:    summary.ExpediteSurcharge,
				FinalAmount:          summary.FinalAmount,
				PrepaymentAmount:     summary.PrepaymentAmount,
				BalanceAmount:        summary.BalanceAmount,
				CreatedAt:            now,
				ExpectedCompletionAt: pricing.EstimateCompletionDate(items, summary.ExpediteType, now),
				Notes:                notes,
			}

			if err := store.SaveOrder(ctx, order); err != nil {
				return err
			}

			breakdowns := map[string][]model.BreakdownStep{item.ID: price.Steps}
			fmt.Print(receipt.Render(receipt.Build(order, summary, breakdowns)))
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client", "", "client ID")
	cmd.Flags().StringVar(&branchID, "branch", "", "branch location ID")
	cmd.Flags().StringVar(&branchPrefix, "branch-prefix", "KV", "branch prefix for the receipt number")
	cmd.Flags().StringVar(&itemName, "name", "", "item name")
	cmd.Flags().StringVar(&categoryCode, "category", "", "service category code")
	cmd.Flags().Float64Var(&basePrice, "base", 0, "base unit price")
	cmd.Flags().Float64Var(&quantity, "quantity", 1, "quantity")
	cmd.Flags().StringSliceVar(&modifierCodes, "modifier", nil, "modifier codes, applied in the order given")
	cmd.Flags().StringVar(&discountType, "discount", string(model.DiscountNone), "discount type (NONE, EVERCARD, SOCIAL_MEDIA, MILITARY, CUSTOM)")
	cmd.Flags().Float64Var(&customPercent, "custom-percent", 0, "percentage for CUSTOM discount")
	cmd.Flags().StringVar(&expediteType, "expedite", string(model.ExpediteStandard), "expedite tier (STANDARD, EXPRESS_48H, EXPRESS_24H)")
	cmd.Flags().Float64Var(&prepayment, "prepayment", 0, "prepayment amount")
	cmd.Flags().StringVar(&notes, "notes", "", "intake notes")
	_ = cmd.MarkFlagRequired("client")
	_ = cmd.MarkFlagRequired("branch")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("base")

	return cmd
}

// todaysSequence numbers receipts within the calendar day.
func todaysSequence(ctx context.Context, store *storage.SQLiteStorage, now time.Time) (int, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	orders, err := store.GetOrders(ctx, service.OrderFilter{StartDate: &midnight})
	if err != nil {
		return 0, err
	}
	return len(orders) + 1, nil
}

func ordersListCmd() *cobra.Command {
	var statusFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var filter service.OrderFilter
			if statusFilter != "" {
				status := model.OrderStatus(statusFilter)
				filter.Status = &status
			}

			orders, err := store.GetOrders(ctx, filter)
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				fmt.Println(cli.SubtleStyle.Render("no orders"))
				return nil
			}

			for i := range orders {
				o := &orders[i]
				fmt.Printf("%s  %-12s %-11s %8s  items=%d\n",
					o.CreatedAt.Format("2006-01-02"), o.ReceiptNumber, o.Status,
					o.FinalAmount.StringFixed(2), len(o.Items))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&statusFilter, "status", "", "filter by order status")
	return cmd
}

func ordersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <order-id>",
		Short: "Show one order as its confirmation receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			order, err := store.GetOrder(ctx, args[0])
			if err != nil {
				return err
			}

			summary, breakdowns, err := recalculate(order)
			if err != nil {
				return err
			}

			fmt.Print(receipt.Render(receipt.Build(order, summary, breakdowns)))
			return nil
		},
	}
}

func ordersCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <order-id>",
		Short: "Verify a stored order's totals against the pricing rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			order, err := store.GetOrder(ctx, args[0])
			if err != nil {
				return err
			}

			result := validation.NewConsistencyValidator().Check(order)
			if result.IsConsistent {
				fmt.Println(cli.SuccessStyle.Render("order is consistent"))
				return nil
			}

			for _, issue := range result.DataInconsistencies {
				fmt.Println(cli.ErrorStyle.Render("data: " + issue.Message))
			}
			for _, issue := range result.BusinessRuleViolations {
				fmt.Println(cli.WarningStyle.Render("rule: " + issue.Message))
			}
			return common.NewUserError("order failed consistency checks", nil)
		},
		Args: cobra.ExactArgs(1),
	}
}

func ordersCompleteCmd() *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "complete <order-id>",
		Short: "Run the readiness gate and complete an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			order, err := store.GetOrder(ctx, args[0])
			if err != nil {
				return err
			}

			// The client phone only feeds a warning; an unreachable API
			// must not block completion.
			clientPhone := ""
			if api, err := newAPIClient(); err == nil {
				if phone, err := api.GetClientPhone(ctx, order.ClientID); err == nil {
					clientPhone = phone
				}
			}

			readiness := validation.NewGate().Evaluate(order)
			consistency := validation.NewConsistencyValidator().Check(order)
			input := validation.ValidateOrderInput(order, clientPhone)
			decision := validation.Confirm(readiness, consistency, input)

			confirmed := assumeYes && decision.CanConfirm
			if !assumeYes {
				confirmed, err = tui.RunConfirm(
					"Завершення замовлення "+order.ReceiptNumber,
					readiness, decision)
				if err != nil {
					return err
				}
			}

			if !confirmed {
				if !decision.CanConfirm {
					for _, blocker := range decision.Blockers {
						fmt.Println(cli.ErrorStyle.Render("• " + blocker))
					}
					return common.NewUserError("order is not ready for completion", nil)
				}
				fmt.Println(cli.SubtleStyle.Render("aborted"))
				return nil
			}

			if err := store.UpdateOrderStatus(ctx, order.ID, model.StatusCompleted); err != nil {
				return err
			}

			if api, err := newAPIClient(); err == nil {
				order.Status = model.StatusCompleted
				if err := api.SaveOrder(ctx, order); err != nil {
					common.LogError(err, "failed to push completed order, will sync later",
						common.Fields{"order_id": order.ID})
				}
			}

			fmt.Println(cli.SuccessStyle.Render("order completed"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&assumeYes, "yes", false, "complete without the interactive checklist")
	return cmd
}

// recalculate reprices every line item from its base price and modifiers and
// rebuilds the financial summary, returning the audit breakdowns by item ID.
func recalculate(order *model.Order) (model.FinancialSummary, map[string][]model.BreakdownStep, error) {
	calc := pricing.NewCalculator()
	breakdowns := make(map[string][]model.BreakdownStep, len(order.Items))

	items := make([]model.LineItem, len(order.Items))
	copy(items, order.Items)
	for i := range items {
		price, err := calc.ComputeLineItem(items[i].BasePrice, items[i].Quantity, items[i].Modifiers)
		if err != nil {
			return model.FinancialSummary{}, nil, err
		}
		items[i].FinalUnitPrice = price.FinalUnitPrice
		items[i].FinalTotal = price.FinalTotal
		breakdowns[items[i].ID] = price.Steps
	}

	selection := model.DiscountSelection{Type: order.DiscountType}
	if selection.Type == model.DiscountCustom {
		p := order.DiscountPercent
		selection.CustomPercentage = &p
	}

	summary, err := calc.ComputeOrderSummary(items, selection, order.ExpediteType, order.PrepaymentAmount)
	if err != nil {
		return model.FinancialSummary{}, nil, err
	}
	return summary, breakdowns, nil
}
