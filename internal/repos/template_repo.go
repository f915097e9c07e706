package repos

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"salonka/internal/domain"
)

type TemplateRepo struct{ db *sqlx.DB }

func NewTemplateRepo(db *sqlx.DB) *TemplateRepo { return &TemplateRepo{db: db} }

type templateRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Blocks      string `db:"blocks_json"`
	GlobalNotes string `db:"global_notes"`
	CreatedAt   string `db:"created_at"`
}

func (r *TemplateRepo) Insert(t domain.ServiceTemplate) error {
	blocks, err := json.Marshal(t.Blocks)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`
	  INSERT INTO service_templates(id, name, blocks_json, global_notes)
	  VALUES(?, ?, ?, ?)`, t.ID, t.Name, string(blocks), t.GlobalNotes)
	return err
}

func (r *TemplateRepo) Get(id string) (domain.ServiceTemplate, error) {
	var row templateRow
	if err := r.db.Get(&row, `
	  SELECT id, name, blocks_json, global_notes, created_at
	  FROM service_templates WHERE id = ?`, id); err != nil {
		return domain.ServiceTemplate{}, err
	}
	t := domain.ServiceTemplate{
		ID: row.ID, Name: row.Name, GlobalNotes: row.GlobalNotes, CreatedAt: row.CreatedAt,
	}
	if err := json.Unmarshal([]byte(row.Blocks), &t.Blocks); err != nil {
		return domain.ServiceTemplate{}, err
	}
	return t, nil
}

func (r *TemplateRepo) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM service_templates WHERE id = ?`, id)
	return err
}

func (r *TemplateRepo) List() ([]domain.ServiceTemplate, error) {
	var rows []templateRow
	if err := r.db.Select(&rows, `
	  SELECT id, name, blocks_json, global_notes, created_at
	  FROM service_templates ORDER BY LOWER(name)`); err != nil {
		return nil, err
	}
	out := make([]domain.ServiceTemplate, 0, len(rows))
	for _, row := range rows {
		t := domain.ServiceTemplate{
			ID: row.ID, Name: row.Name, GlobalNotes: row.GlobalNotes, CreatedAt: row.CreatedAt,
		}
		if err := json.Unmarshal([]byte(row.Blocks), &t.Blocks); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}
