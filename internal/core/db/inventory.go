// internal/core/db/inventory.go
package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vaxcare/vaxhub/internal/types"
)

// InventoryStore reads the lot on-hand snapshot consumed by wrong-stock
// evaluation. One concrete adapter of the hub's inventory data source; the
// validation core only ever sees the []types.LotOnHand it returns.
type InventoryStore struct {
	queries *Queries
}

// NewInventoryStore wires the store over an opened database.
func NewInventoryStore(conn *sqlx.DB) (*InventoryStore, error) {
	q, err := LoadQueries(conn)
	if err != nil {
		return nil, err
	}
	return &InventoryStore{queries: q}, nil
}

// lotRow maps one lot_inventory record.
type lotRow struct {
	LotName string `db:"lot_name"`
	Source  int    `db:"inventory_source"`
	OnHand  int    `db:"on_hand"`
}

// OnHandForLot returns the per-source on-hand rows for one lot.
func (s *InventoryStore) OnHandForLot(lotName string) ([]types.LotOnHand, error) {
	var rows []lotRow
	if err := s.queries.Select("list-on-hand-for-lot", &rows, lotName); err != nil {
		return nil, fmt.Errorf("failed to query on-hand for lot %q: %w", lotName, err)
	}
	return convertRows(rows)
}

// OnHandAll returns the full snapshot, used when staging several doses in
// one visit.
func (s *InventoryStore) OnHandAll() ([]types.LotOnHand, error) {
	var rows []lotRow
	if err := s.queries.Select("list-on-hand-all", &rows); err != nil {
		return nil, fmt.Errorf("failed to query on-hand snapshot: %w", err)
	}
	return convertRows(rows)
}

// UpsertOnHand records one (lot, source) quantity, replacing any prior row.
func (s *InventoryStore) UpsertOnHand(row types.LotOnHand) error {
	if _, err := s.queries.Exec("upsert-on-hand", row.LotNumber, int(row.Source), row.OnHand); err != nil {
		return fmt.Errorf("failed to upsert on-hand for lot %q: %w", row.LotNumber, err)
	}
	return nil
}

func convertRows(rows []lotRow) ([]types.LotOnHand, error) {
	out := make([]types.LotOnHand, 0, len(rows))
	for _, r := range rows {
		src := types.InventorySource(r.Source)
		if src < types.SourceUnspecified || src > types.SourceState {
			return nil, fmt.Errorf("lot %q: %w (%d)", r.LotName, types.ErrUnknownInventorySource, r.Source)
		}
		out = append(out, types.LotOnHand{LotNumber: r.LotName, Source: src, OnHand: r.OnHand})
	}
	return out, nil
}
