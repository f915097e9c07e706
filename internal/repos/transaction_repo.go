package repos

import (
	"github.com/jmoiron/sqlx"

	"salonka/internal/domain"
)

type TransactionRepo struct{ db *sqlx.DB }

func NewTransactionRepo(db *sqlx.DB) *TransactionRepo { return &TransactionRepo{db: db} }

func (r *TransactionRepo) Insert(t domain.Transaction) error {
	_, err := r.db.Exec(`
	  INSERT INTO transactions(id, client_id, client_name, visit_id, amount, method, items, date)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.ClientID, t.ClientName, t.VisitID, t.Amount, t.Method, t.Items, t.Date)
	return err
}

func (r *TransactionRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM transactions WHERE id = ?`, id)
	return err
}

func (r *TransactionRepo) List() ([]domain.Transaction, error) {
	var out []domain.Transaction
	err := r.db.Select(&out, `
	  SELECT id, client_id, client_name, visit_id, amount, method, items, date
	  FROM transactions
	  ORDER BY date DESC
	`)
	return out, err
}

// CountByVisit backs the "is this visit paid" check.
func (r *TransactionRepo) CountByVisit(visitID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM transactions WHERE visit_id = ?`, visitID)
	return n, err
}
