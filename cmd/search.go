package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"storefront.GO/config"
	"storefront.GO/search"
)

var (
	runSort  string
	runQuery string
	runPages int
	runJSON  bool
)

var searchRunCmd = &cobra.Command{
	Use:   "search:run",
	Short: "Run a search session and print the first pages of results",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg := config.AppConfig
		table, err := cfg.SortTable()
		if err != nil {
			return fmt.Errorf("load sort options: %w", err)
		}
		ctrl, err := NewController(cfg, slog.Default())
		if err != nil {
			return err
		}

		runCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() { _ = ctrl.Run(runCtx) }()

		snap, err := search.LoadPages(ctx, ctrl, search.ResolveParams(runSort, runQuery, table), runPages)
		if err != nil {
			return err
		}
		return printSnapshot(cmd.OutOrStdout(), snap, runJSON)
	},
}

func printSnapshot(w io.Writer, snap search.Snapshot, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"sort_key":   snap.Params.SortKey,
			"reverse":    snap.Params.Reverse,
			"query":      snap.Params.Query,
			"page":       snap.Page,
			"end_cursor": snap.Cursor,
			"products":   snap.Products,
		})
	}
	if snap.Summary != "" {
		fmt.Fprintln(w, snap.Summary)
	}
	for i, p := range snap.Products {
		fmt.Fprintf(w, "%3d  %-16s %-40s %s %s\n", i+1, p.SKU, p.Title,
			humanize.FormatFloat("#,###.##", p.Price), p.CurrencyCode)
	}
	fmt.Fprintf(w, "pages: %d  products: %d\n", snap.Page, len(snap.Products))
	return nil
}

func init() {
	searchRunCmd.Flags().StringVarP(&runSort, "sort", "s", "", "Sort slug (e.g. price-asc); unknown slugs use the default")
	searchRunCmd.Flags().StringVarP(&runQuery, "q", "q", "", "Search text")
	searchRunCmd.Flags().IntVarP(&runPages, "pages", "p", 3, "Maximum number of pages to load")
	searchRunCmd.Flags().BoolVar(&runJSON, "json", false, "Print JSON")
	rootCmd.AddCommand(searchRunCmd)
}
