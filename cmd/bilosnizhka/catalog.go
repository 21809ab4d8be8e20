package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/bilosnizhka/bilosnizhka/internal/cli"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local modifier reference catalog",
	}
	cmd.AddCommand(catalogSyncCmd())
	cmd.AddCommand(catalogListCmd())
	return cmd
}

func catalogSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch the modifier catalog from the atelier API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			api, err := newAPIClient()
			if err != nil {
				return err
			}

			modifiers, err := api.GetModifiers(ctx, "")
			if err != nil {
				return err
			}
			if len(modifiers) == 0 {
				fmt.Println(cli.WarningStyle.Render("API returned an empty catalog, keeping the cached one"))
				return nil
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			bar := progressbar.Default(int64(len(modifiers)), "caching modifiers")
			tx, err := store.BeginTx(ctx)
			if err != nil {
				return err
			}
			if err := tx.ClearModifiers(ctx); err != nil {
				_ = tx.Rollback()
				return err
			}
			for i := range modifiers {
				if err := tx.SaveModifier(ctx, modifiers[i]); err != nil {
					_ = tx.Rollback()
					return err
				}
				_ = bar.Add(1)
			}
			if err := tx.Commit(); err != nil {
				return err
			}
			_ = bar.Finish()

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("synced %d modifiers", len(modifiers))))
			return nil
		},
	}
}

func catalogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached modifiers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			modifiers, err := store.GetModifiers(ctx)
			if err != nil {
				return err
			}
			if len(modifiers) == 0 {
				fmt.Println(cli.SubtleStyle.Render("catalog is empty, run 'catalog sync'"))
				return nil
			}

			for _, m := range modifiers {
				scope := "all categories"
				if !m.AppliesToAll() {
					scope = fmt.Sprintf("%d categories", len(m.Categories))
				}
				fmt.Printf("%-24s %-13s %8s  %s  %s\n",
					m.Code, m.Kind, m.Value.String(), scope, cli.SubtleStyle.Render(m.Name))
			}
			return nil
		},
	}
}
