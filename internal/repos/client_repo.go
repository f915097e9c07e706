package repos

import (
	"github.com/jmoiron/sqlx"

	"salonka/internal/domain"
)

type ClientRepo struct{ db *sqlx.DB }

func NewClientRepo(db *sqlx.DB) *ClientRepo { return &ClientRepo{db: db} }

// List returns clients ordered by name; q filters by name or phone.
func (r *ClientRepo) List(q string) ([]domain.Client, error) {
	var out []domain.Client
	if q == "" {
		err := r.db.Select(&out, `
		  SELECT id, name, phone, email, notes, created_at
		  FROM clients ORDER BY LOWER(name)`)
		return out, err
	}
	like := "%" + q + "%"
	err := r.db.Select(&out, `
	  SELECT id, name, phone, email, notes, created_at
	  FROM clients
	  WHERE LOWER(name) LIKE LOWER(?) OR phone LIKE ?
	  ORDER BY LOWER(name)`, like, like)
	return out, err
}

func (r *ClientRepo) Get(id string) (domain.Client, error) {
	var c domain.Client
	err := r.db.Get(&c, `
	  SELECT id, name, phone, email, notes, created_at
	  FROM clients WHERE id = ?`, id)
	return c, err
}

func (r *ClientRepo) Insert(c domain.Client) error {
	_, err := r.db.Exec(`
	  INSERT INTO clients(id, name, phone, email, notes)
	  VALUES(?, ?, ?, ?, ?)`, c.ID, c.Name, c.Phone, c.Email, c.Notes)
	return err
}

func (r *ClientRepo) Update(c domain.Client) error {
	_, err := r.db.Exec(`
	  UPDATE clients SET name = ?, phone = ?, email = ?, notes = ?
	  WHERE id = ?`, c.Name, c.Phone, c.Email, c.Notes, c.ID)
	return err
}

// Delete cascades to the client's visits.
func (r *ClientRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM clients WHERE id = ?`, id)
	return err
}
