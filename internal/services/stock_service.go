package services

import (
	"math"

	"salonka/internal/domain"
	"salonka/internal/repos"
)

// StockService wraps the ledger for the flows outside a visit: receiving
// goods, taking products for in-salon work, and reorder planning.
type StockService struct {
	Products  *repos.ProductRepo
	Movements *repos.MovementRepo
}

func NewStockService(products *repos.ProductRepo, movements *repos.MovementRepo) *StockService {
	return &StockService{Products: products, Movements: movements}
}

// StockLine is one product/count pair of a stock-in or stock-out batch,
// counted in packages.
type StockLine struct {
	ProductID string  `json:"productId"`
	Count     float64 `json:"count"`
}

// ApplyMovement applies one clamped stock change and records it. A missing
// product is reported via applied=false, never as an error.
func (s *StockService) ApplyMovement(productID string, delta float64, typ, note string) (bool, error) {
	return s.Products.ApplyMovement(productID, delta, typ, note)
}

// History lists a product's ledger, most recent first.
func (s *StockService) History(productID string) ([]domain.StockMovement, error) {
	return s.Movements.ByProduct(productID)
}

// StockIn books received goods as import movements.
func (s *StockService) StockIn(lines []StockLine) error {
	for _, l := range lines {
		if l.Count <= 0 {
			continue
		}
		if _, err := s.Products.ApplyMovement(l.ProductID, l.Count,
			domain.MovementImport, "Rychlý příjem zboží"); err != nil {
			return err
		}
	}
	return nil
}

// StockOut books products taken for in-salon work as consumption movements.
func (s *StockService) StockOut(lines []StockLine) error {
	for _, l := range lines {
		if l.Count <= 0 {
			continue
		}
		if _, err := s.Products.ApplyMovement(l.ProductID, -math.Abs(l.Count),
			domain.MovementConsumption, "Výdej na práci"); err != nil {
			return err
		}
	}
	return nil
}

// ReorderItem is one line of a suggested supplier order.
type ReorderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Count     float64 `json:"count"`
}

// ReorderSuggestions lists products at or below their minimum stock. The
// suggested count restocks to minStock + 2 (at least 1); products without a
// threshold are suggested once they hit zero.
func (s *StockService) ReorderSuggestions() ([]ReorderItem, error) {
	products, err := s.Products.List()
	if err != nil {
		return nil, err
	}
	out := []ReorderItem{}
	for _, p := range products {
		if !p.LowStock() {
			continue
		}
		count := 1.0
		if p.MinStock > 0 {
			count = math.Max(1, p.MinStock+2-p.Stock)
		}
		out = append(out, ReorderItem{ProductID: p.ID, Name: p.Name, Brand: p.Brand, Count: count})
	}
	return out, nil
}
