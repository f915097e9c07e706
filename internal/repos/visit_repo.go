package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"salonka/internal/domain"
)

type VisitRepo struct{ db *sqlx.DB }

func NewVisitRepo(db *sqlx.DB) *VisitRepo { return &VisitRepo{db: db} }

// visitRow is the persisted shape; blocks and the consumption list live in
// JSON columns (legacy rows carry '[]' blocks).
type visitRow struct {
	ID           string `db:"id"`
	ClientID     string `db:"client_id"`
	Date         string `db:"date"`
	Services     string `db:"services"`
	Notes        string `db:"notes"`
	UsedProducts string `db:"used_products_json"`
	Blocks       string `db:"blocks_json"`
	GlobalNotes  string `db:"global_notes"`
	CreatedAt    string `db:"created_at"`
}

func (row visitRow) toVisit() (domain.Visit, error) {
	v := domain.Visit{
		ID:          row.ID,
		ClientID:    row.ClientID,
		Date:        row.Date,
		Services:    row.Services,
		Notes:       row.Notes,
		GlobalNotes: row.GlobalNotes,
		CreatedAt:   row.CreatedAt,
	}
	if err := json.Unmarshal([]byte(row.UsedProducts), &v.UsedProducts); err != nil {
		return v, err
	}
	if err := json.Unmarshal([]byte(row.Blocks), &v.Blocks); err != nil {
		return v, err
	}
	return v, nil
}

// Begin exposes a transaction so the visit service can commit the visit row
// and its stock movements as one unit.
func (r *VisitRepo) Begin() (*sqlx.Tx, error) { return r.db.Beginx() }

func (r *VisitRepo) CreateTx(tx *sqlx.Tx, v domain.Visit) error {
	used, err := json.Marshal(v.UsedProducts)
	if err != nil {
		return err
	}
	blocks, err := json.Marshal(v.Blocks)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
	  INSERT INTO visits(id, client_id, date, services, notes,
	                     used_products_json, blocks_json, global_notes)
	  VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.ClientID, v.Date, v.Services, v.Notes, string(used), string(blocks), v.GlobalNotes)
	return err
}

func (r *VisitRepo) DeleteTx(tx *sqlx.Tx, id string) error {
	_, err := tx.Exec(`DELETE FROM visits WHERE id = ?`, id)
	return err
}

func (r *VisitRepo) Get(id string) (domain.Visit, error) {
	var row visitRow
	if err := r.db.Get(&row, `
	  SELECT id, client_id, date, services, notes, used_products_json,
	         blocks_json, global_notes, created_at
	  FROM visits WHERE id = ?
	`, id); err != nil {
		return domain.Visit{}, err
	}
	return row.toVisit()
}

// ListByClient returns a client's visits, newest first. A non-empty q
// filters on services, recipe notes and consumed product names.
func (r *VisitRepo) ListByClient(clientID, q string) ([]domain.Visit, error) {
	var rows []visitRow
	var err error
	if q == "" {
		err = r.db.Select(&rows, `
		  SELECT id, client_id, date, services, notes, used_products_json,
		         blocks_json, global_notes, created_at
		  FROM visits
		  WHERE client_id = ?
		  ORDER BY date DESC
		`, clientID)
	} else {
		like := "%" + q + "%"
		err = r.db.Select(&rows, `
		  SELECT id, client_id, date, services, notes, used_products_json,
		         blocks_json, global_notes, created_at
		  FROM visits
		  WHERE client_id = ?
		    AND (LOWER(services) LIKE LOWER(?) OR LOWER(notes) LIKE LOWER(?)
		         OR LOWER(used_products_json) LIKE LOWER(?))
		  ORDER BY date DESC
		`, clientID, like, like, like)
	}
	if err != nil {
		return nil, err
	}
	out := make([]domain.Visit, 0, len(rows))
	for _, row := range rows {
		v, err := row.toVisit()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
