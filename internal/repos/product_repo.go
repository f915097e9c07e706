package repos

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"salonka/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, name, brand, category, unit, package_size, stock, min_stock,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *ProductRepo) List() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `SELECT `+productCols+` FROM products ORDER BY LOWER(name)`)
	return out, err
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) Insert(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id, name, brand, category, unit, package_size, stock, min_stock)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Brand, p.Category, p.Unit, p.PackageSize, p.Stock, p.MinStock)
	return err
}

func (r *ProductRepo) Update(p domain.Product) error {
	_, err := r.db.Exec(`
	  UPDATE products
	  SET name = ?, brand = ?, category = ?, unit = ?, package_size = ?,
	      min_stock = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, p.Name, p.Brand, p.Category, p.Unit, p.PackageSize, p.MinStock, p.ID)
	return err
}

// Delete removes the product only; its ledger history is kept.
func (r *ProductRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}

// ApplyMovement is the single stock mutation rule: clamp the new stock at
// zero atomically and append a ledger entry recording the REQUESTED delta,
// both in one transaction. A missing product is a no-op (applied=false),
// not an error; callers are expected to have validated existence.
func (r *ProductRepo) ApplyMovement(productID string, delta float64, typ, note string) (bool, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	applied, err := r.ApplyMovementTx(tx, productID, delta, typ, note)
	if err != nil {
		return false, err
	}
	return applied, tx.Commit()
}

// ApplyMovementTx lets the visit commit engine batch all movements of one
// visit with the visit row itself in a single transaction.
func (r *ProductRepo) ApplyMovementTx(tx *sqlx.Tx, productID string, delta float64, typ, note string) (bool, error) {
	res, err := tx.Exec(`
	  UPDATE products
	  SET stock = MAX(0, stock + ?), updated_at = CURRENT_TIMESTAMP
	  WHERE id = ?
	`, delta, productID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false, nil
	}

	_, err = tx.Exec(`
	  INSERT INTO stock_movements(id, product_id, count, type, date, note)
	  VALUES(?, ?, ?, ?, ?, ?)
	`, uuid.NewString(), productID, delta, typ, time.Now().UTC().Format(time.RFC3339Nano), note)
	return err == nil, err
}
