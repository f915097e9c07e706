package repos

import (
	"github.com/jmoiron/sqlx"

	"salonka/internal/domain"
)

type MovementRepo struct{ db *sqlx.DB }

func NewMovementRepo(db *sqlx.DB) *MovementRepo { return &MovementRepo{db: db} }

// ByProduct returns a product's full ledger, most recent first, unfiltered
// by type.
func (r *MovementRepo) ByProduct(productID string) ([]domain.StockMovement, error) {
	var out []domain.StockMovement
	err := r.db.Select(&out, `
	  SELECT id, product_id, count, type, date, note
	  FROM stock_movements
	  WHERE product_id = ?
	  ORDER BY date DESC
	`, productID)
	return out, err
}

func (r *MovementRepo) ListLatest(limit int) ([]domain.StockMovement, error) {
	if limit <= 0 {
		limit = 200
	}
	var out []domain.StockMovement
	err := r.db.Select(&out, `
	  SELECT id, product_id, count, type, date, note
	  FROM stock_movements
	  ORDER BY date DESC
	  LIMIT ?
	`, limit)
	return out, err
}
