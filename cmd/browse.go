package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"storefront.GO/config"
	"storefront.GO/core/logger"
	"storefront.GO/search"
	"storefront.GO/tui"
)

var (
	browseSort      string
	browseQuery     string
	browseLogFile   string
	browseThreshold float64
)

var browseCmd = &cobra.Command{
	Use:   "search:browse",
	Short: "Browse search results in the terminal; scrolling loads more pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.AppConfig
		table, err := cfg.SortTable()
		if err != nil {
			return fmt.Errorf("load sort options: %w", err)
		}

		// The alternate screen owns the terminal, so logs go to a file or nowhere.
		var out io.Writer = io.Discard
		if browseLogFile != "" {
			f, err := os.OpenFile(browseLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			out = f
		}
		log := logger.New(out, cfg.Log.Level, cfg.Log.Format)

		var prog *tea.Program
		ctrl, err := NewController(cfg, log,
			search.WithThreshold(browseThreshold),
			search.WithOnChange(func(s search.Snapshot) { prog.Send(tui.SnapshotMsg{Snapshot: s}) }),
		)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		bus := search.NewScrollBus()
		model := tui.New(ctx, ctrl, bus, table, browseSort, browseQuery)
		prog = tea.NewProgram(model,
			tea.WithContext(ctx),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return ctrl.Run(gctx) })
		g.Go(func() error {
			ctrl.WatchScroll(gctx, bus)
			return nil
		})
		g.Go(func() error {
			defer cancel()
			_, err := prog.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	browseCmd.Flags().StringVarP(&browseSort, "sort", "s", "", "Initial sort slug")
	browseCmd.Flags().StringVarP(&browseQuery, "q", "q", "", "Initial search text")
	browseCmd.Flags().StringVar(&browseLogFile, "log-file", "", "Write logs to this file")
	browseCmd.Flags().Float64Var(&browseThreshold, "threshold", tui.DefaultThreshold, "Lines from the bottom that trigger the next page")
	rootCmd.AddCommand(browseCmd)
}
