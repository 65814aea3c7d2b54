package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amanthanvi/assetvault/internal/app"
)

func newAssetCommand(deps commandDeps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Asset management",
	}
	cmd.AddCommand(
		newAssetAddCommand(deps),
		newAssetListCommand(deps),
		newAssetSearchCommand(deps),
		newAssetShowCommand(deps),
		newAssetEditCommand(deps),
		newAssetRemoveCommand(deps),
	)
	return cmd
}

type assetFlags struct {
	name         string
	category     string
	location     string
	quantity     int64
	condition    string
	purchaseDate string
	description  string
}

func registerAssetFlags(cmd *cobra.Command, flags *assetFlags) {
	cmd.Flags().StringVar(&flags.name, "name", "", "Asset name")
	cmd.Flags().StringVar(&flags.category, "category", "", "Category: "+strings.Join(app.Categories, ", "))
	cmd.Flags().StringVar(&flags.location, "location", "", "Where the asset is kept")
	cmd.Flags().Int64Var(&flags.quantity, "quantity", 1, "Quantity, must be greater than zero")
	cmd.Flags().StringVar(&flags.condition, "condition", "Good", "Condition: "+strings.Join(app.Conditions, ", "))
	cmd.Flags().StringVar(&flags.purchaseDate, "purchase-date", "", "Purchase date, YYYY-MM-DD")
	cmd.Flags().StringVar(&flags.description, "description", "", "Free-form description")
}

func parseAssetID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErrorf("invalid asset id %q", raw)
	}
	return id, nil
}

func newAssetAddCommand(deps commandDeps) *cobra.Command {
	var flags assetFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("asset add does not accept positional arguments")
			}

			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt *runtime) error {
				asset, err := rt.assets.Create(ctx, app.CreateAssetRequest{
					Name:         flags.name,
					Category:     flags.category,
					Location:     flags.location,
					Quantity:     flags.quantity,
					Condition:    flags.condition,
					PurchaseDate: flags.purchaseDate,
					Description:  flags.description,
				})
				if err != nil {
					return err
				}

				rt.logger.Info("asset created", slog.Int64("id", asset.ID), slog.String("name", asset.Name))
				if deps.globals.JSON {
					return printJSON(deps.out, asset)
				}
				_, err = fmt.Fprintf(deps.out, "Created asset #%d\n", asset.ID)
				return err
			})
		},
	}

	registerAssetFlags(cmd, &flags)
	return cmd
}

func newAssetListCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List assets, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("asset ls does not accept positional arguments")
			}
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt *runtime) error {
				assets, err := rt.assets.List(ctx)
				if err != nil {
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, assets)
				}
				for _, asset := range assets {
					if _, err := fmt.Fprintln(deps.out, formatAssetLine(asset)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newAssetSearchCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search assets by name, category, or location",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("asset search requires exactly one query argument")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt *runtime) error {
				assets, err := rt.assets.Search(ctx, args[0])
				if err != nil {
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, assets)
				}
				for _, asset := range assets {
					if _, err := fmt.Fprintln(deps.out, formatAssetLine(asset)); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newAssetShowCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one asset",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("asset show requires exactly one asset id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt *runtime) error {
				asset, err := rt.assets.Get(ctx, id)
				if err != nil {
					return err
				}
				if deps.globals.JSON {
					return printJSON(deps.out, asset)
				}
				if _, err := fmt.Fprintln(deps.out, formatAssetLine(*asset)); err != nil {
					return err
				}
				if asset.Description != "" {
					if _, err := fmt.Fprintf(deps.out, "  %s\n", asset.Description); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newAssetEditCommand(deps commandDeps) *cobra.Command {
	var flags assetFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an asset (unset flags keep their stored values)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("asset edit requires exactly one asset id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}

			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt *runtime) error {
				asset, err := rt.assets.Get(ctx, id)
				if err != nil {
					return err
				}

				req := app.UpdateAssetRequest{
					ID:           asset.ID,
					Name:         asset.Name,
					Category:     asset.Category,
					Location:     asset.Location,
					Quantity:     asset.Quantity,
					Condition:    asset.Condition,
					PurchaseDate: asset.PurchaseDate,
					Description:  asset.Description,
				}
				if cmd.Flags().Changed("name") {
					req.Name = flags.name
				}
				if cmd.Flags().Changed("category") {
					req.Category = flags.category
				}
				if cmd.Flags().Changed("location") {
					req.Location = flags.location
				}
				if cmd.Flags().Changed("quantity") {
					req.Quantity = flags.quantity
				}
				if cmd.Flags().Changed("condition") {
					req.Condition = flags.condition
				}
				if cmd.Flags().Changed("purchase-date") {
					req.PurchaseDate = flags.purchaseDate
				}
				if cmd.Flags().Changed("description") {
					req.Description = flags.description
				}

				count, err := rt.assets.Update(ctx, req)
				if err != nil {
					return err
				}
				if count == 0 {
					return notFoundErrorf("asset #%d not found", id)
				}

				rt.logger.Info("asset updated", slog.Int64("id", id))
				_, err = fmt.Fprintf(deps.out, "Updated asset #%d\n", id)
				return err
			})
		},
	}

	registerAssetFlags(cmd, &flags)
	return cmd
}

func newAssetRemoveCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an asset permanently",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("asset rm requires exactly one asset id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			return withRuntime(cmd.Context(), deps, func(ctx context.Context, rt *runtime) error {
				count, err := rt.assets.Delete(ctx, id)
				if err != nil {
					return err
				}
				if count == 0 {
					return notFoundErrorf("asset #%d not found", id)
				}

				rt.logger.Info("asset deleted", slog.Int64("id", id))
				_, err = fmt.Fprintf(deps.out, "Deleted asset #%d\n", id)
				return err
			})
		},
	}
}
