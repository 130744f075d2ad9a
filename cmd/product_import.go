package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"storefront.GO/config"
	productRepo "storefront.GO/model/repository/product"
	catalogService "storefront.GO/service/catalog"
)

var (
	importFile     string
	importStore    uint16
	importBatch    int
	importCurrency string
)

var importCmd = &cobra.Command{
	Use:   "catalog:import",
	Short: "Import products from CSV into the catalog_product table",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(importFile)
		if err != nil {
			return fmt.Errorf("open CSV: %w", err)
		}
		defer f.Close()

		db, err := config.NewDB()
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}

		res, err := catalogService.ImportProducts(cmd.Context(), productRepo.GetProductRepository(db), f, catalogService.ImportOptions{
			StoreID:   importStore,
			BatchSize: importBatch,
			Currency:  importCurrency,
		})
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "  [warn] %s\n", w)
		}
		fmt.Fprintf(out, `
=== Import Report ===
CSV rows:       %d
Created:        %d
Updated:        %d
Skipped:        %d
Total time:     %s
  - Processing: %s
  - DB upsert:  %s
=====================
`, res.TotalRows, res.Created, res.Updated, res.Skipped,
			res.TotalTime.Round(time.Millisecond),
			res.ProcessTime.Round(time.Millisecond),
			res.DBTime.Round(time.Millisecond))
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "CSV file path (required)")
	importCmd.MarkFlagRequired("file")
	importCmd.Flags().Uint16Var(&importStore, "store", 0, "Store ID (default 0)")
	importCmd.Flags().IntVar(&importBatch, "batch-size", 500, "Batch size for DB operations")
	importCmd.Flags().StringVar(&importCurrency, "currency", "USD", "Currency for rows without currency_code")
	rootCmd.AddCommand(importCmd)
}
