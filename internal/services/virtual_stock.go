package services

import "salonka/internal/domain"

// VirtualStock answers "how much of a product is still free to allocate"
// while a visit is being composed: the committed stock minus everything the
// uncommitted blocks already claim, manual items and auto-derived developer
// amounts alike. It never touches the stored stock.
type VirtualStock struct {
	Available   float64 `json:"available"`   // base units
	AvailableKs float64 `json:"availableKs"` // packages
	Used        float64 `json:"used"`
	Total       float64 `json:"total"`
	Unit        string  `json:"unit"`
	PackageSize float64 `json:"packageSize"`
	ProductName string  `json:"productName,omitempty"`
}

func findProduct(products []domain.Product, id string) (domain.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// CalcVirtualStock computes remaining availability of one product against a
// product snapshot and the in-progress block list. An unknown product yields
// a zero result rather than an error.
func CalcVirtualStock(products []domain.Product, blocks []domain.RecipeBlock, productID string) VirtualStock {
	p, ok := findProduct(products, productID)
	if !ok {
		return VirtualStock{Unit: domain.UnitKs}
	}

	total := p.BaseAmount(p.Stock)

	var used float64
	for _, b := range blocks {
		for _, it := range b.Items {
			if it.ProductID != productID {
				continue
			}
			amount := it.Amount
			// Retail amounts are entered in packages; compare them in
			// base units like everything else.
			if b.Type == domain.BlockRetail && p.PackageSize > 0 {
				amount *= p.PackageSize
			}
			used += amount
		}
		if b.Type == domain.BlockColor && b.DeveloperID == productID {
			used += b.DeveloperAmount()
		}
	}

	available := total - used
	unit := p.Unit
	if unit == "" {
		unit = domain.UnitG
	}
	return VirtualStock{
		Available:   max0(available),
		AvailableKs: max0(p.ToKs(available)),
		Used:        used,
		Total:       total,
		Unit:        unit,
		PackageSize: p.PackageSize,
		ProductName: p.Name,
	}
}

func max0(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
