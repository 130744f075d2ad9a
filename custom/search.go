// Package custom registers storefront extensions: CLI commands, cron jobs,
// HTTP routes and GraphQL extensions around catalog search.
package custom

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"storefront.GO/api"
	"storefront.GO/cmd"
	"storefront.GO/config"
	"storefront.GO/cron"
	gqlregistry "storefront.GO/graphql/registry"
	"storefront.GO/search"
)

// WarmupJob is the cron job that preloads cached result pages.
const WarmupJob = "search_warmup"

const (
	warmupSchedule = "@every 10m"
	warmupPages    = 2
)

func init() {
	gqlregistry.Register("sortOptions", func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		return sortTable()
	})

	cmd.Register(&cobra.Command{
		Use:   "search:sorts",
		Short: "List the storefront sort options",
		RunE: func(c *cobra.Command, args []string) error {
			table, err := sortTable()
			if err != nil {
				return err
			}
			out := c.OutOrStdout()
			for _, o := range table.Options {
				slug := o.Slug
				if slug == "" {
					slug = "(default)"
				}
				fmt.Fprintf(out, "%-16s %-14s reverse=%-5t %s\n", slug, o.SortKey, o.Reverse, o.Title)
			}
			return nil
		},
	})

	cron.Register(WarmupJob, warmupSchedule, warmup)

	api.RegisterGET("/search/sorts", func(c echo.Context) error {
		table, err := sortTable()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, table)
	})
}

func sortTable() (search.SortTable, error) {
	config.LoadAppConfig()
	table, err := config.AppConfig.SortTable()
	if err != nil {
		return search.SortTable{}, fmt.Errorf("load sort options: %w", err)
	}
	return table, nil
}

// warmup loads the first pages of every sort option so the page cache is hot.
// args[0] overrides the number of pages.
func warmup(ctx context.Context, args ...string) error {
	config.LoadAppConfig()
	cfg := config.AppConfig
	logger := slog.Default().With("job", WarmupJob)
	pages := warmupPages
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid page count %q", args[0])
		}
		pages = n
	}
	if cfg.Search.CacheTTL <= 0 {
		logger.Info("page cache disabled, nothing to warm")
		return nil
	}
	table, err := cfg.SortTable()
	if err != nil {
		return fmt.Errorf("load sort options: %w", err)
	}
	ctrl, err := cmd.NewController(cfg, logger)
	if err != nil {
		return err
	}
	return WarmSorts(ctx, ctrl, table, pages, logger)
}

// WarmSorts runs one session per sort option on ctrl, loading up to pages
// pages each. ctrl must not be running yet.
func WarmSorts(ctx context.Context, ctrl *search.Controller, table search.SortTable, pages int, logger *slog.Logger) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() { _ = ctrl.Run(runCtx) }()

	for _, o := range table.Options {
		snap, err := search.LoadPages(ctx, ctrl, search.ResolveParams(o.Slug, "", table), pages)
		if err != nil {
			return fmt.Errorf("warm %s: %w", o.SortKey, err)
		}
		logger.Info("warmed sort", "slug", o.Slug, "sort_key", o.SortKey, "reverse", o.Reverse,
			"pages", snap.Page, "products", len(snap.Products))
	}
	return nil
}
