// cmd/vaxhub/cmd/inventory.go
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vaxcare/vaxhub/internal/core/db"
	"github.com/vaxcare/vaxhub/internal/types"
)

var inventoryFile string

var loadInventoryCmd = &cobra.Command{
	Use:   "load-inventory",
	Short: "Load lot on-hand rows into the inventory snapshot",
	RunE:  runLoadInventory,
}

func init() {
	rootCmd.AddCommand(loadInventoryCmd)
	loadInventoryCmd.Flags().StringVar(&inventoryFile, "file", "", "JSON file of on-hand rows (required)")
	loadInventoryCmd.MarkFlagRequired("file")
}

func runLoadInventory(cmd *cobra.Command, args []string) error {
	if dbURL == "" {
		return fmt.Errorf("--db-url required")
	}

	raw, err := os.ReadFile(inventoryFile)
	if err != nil {
		return fmt.Errorf("failed to read inventory file: %w", err)
	}
	var rows []onHandJSON
	if err := json.Unmarshal(raw, &rows); err != nil {
		return fmt.Errorf("failed to parse inventory file: %w", err)
	}

	conn, err := db.Open(dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	if err := db.MigrateUp(conn); err != nil {
		return err
	}
	store, err := db.NewInventoryStore(conn)
	if err != nil {
		return err
	}

	for _, r := range rows {
		source, err := parseSource(r.Source)
		if err != nil {
			return err
		}
		row := types.LotOnHand{LotNumber: r.LotNumber, Source: source, OnHand: r.OnHand}
		if err := store.UpsertOnHand(row); err != nil {
			return err
		}
	}

	fmt.Printf("loaded %d on-hand row(s)\n", len(rows))
	return nil
}
