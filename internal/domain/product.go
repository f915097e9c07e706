package domain

// Product category drives consumption semantics: oxidant products are
// eligible as auto-derived developers, retail products are sold by package.
const (
	CategoryColor    = "color"
	CategoryPreliv   = "preliv"
	CategoryOxidant  = "oxidant"
	CategoryBleach   = "bleach"
	CategoryCare     = "care"
	CategoryStyling  = "styling"
	CategorySupplies = "supplies"
	CategoryRetail   = "retail"
	CategoryOther    = "other"
)

// Stock units. Stock itself is always kept in ks (package count); g/ml are
// the base units a package of the product is consumed in.
const (
	UnitKs = "ks"
	UnitG  = "g"
	UnitMl = "ml"
)

type Product struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Brand       string  `db:"brand" json:"brand"`
	Category    string  `db:"category" json:"category"`
	Unit        string  `db:"unit" json:"unit"`
	PackageSize float64 `db:"package_size" json:"packageSize"` // base units per package; 0 = tracked in whole ks
	Stock       float64 `db:"stock" json:"stock"`              // ks, never negative
	MinStock    float64 `db:"min_stock" json:"minStock"`       // reorder threshold in ks, 0 = unset
	CreatedAt   string  `db:"created_at" json:"createdAt"`
	UpdatedAt   string  `db:"updated_at" json:"updatedAt,omitempty"`
}

// LowStock flags a product for the reorder list: at or below its threshold,
// or out of stock when no threshold is set.
func (p Product) LowStock() bool {
	if p.MinStock > 0 {
		return p.Stock <= p.MinStock
	}
	return p.Stock < 1
}

// BaseAmount converts a package count to base units (grams/millilitres).
// Without a package size the product is tracked in whole packages and the
// count passes through unchanged.
func (p Product) BaseAmount(ks float64) float64 {
	if p.PackageSize > 0 {
		return ks * p.PackageSize
	}
	return ks
}

// ToKs converts a base-unit amount back to a package count.
func (p Product) ToKs(base float64) float64 {
	if p.PackageSize > 0 {
		return base / p.PackageSize
	}
	return base
}

// NeedsPackageSize reports the configuration gap where a product is declared
// in g/ml but has no package size, so stock math falls back to 1 unit = 1 ks.
func (p Product) NeedsPackageSize() bool {
	return (p.Unit == UnitG || p.Unit == UnitMl) && p.PackageSize <= 0
}

// Chemical reports whether the product's category marks a color service when
// found among a legacy visit's consumption entries.
func (p Product) Chemical() bool {
	switch p.Category {
	case CategoryColor, CategoryBleach, CategoryOxidant:
		return true
	}
	return false
}

// Movement types tag why stock changed.
const (
	MovementImport      = "import"      // goods received
	MovementSale        = "sale"        // counter sale
	MovementConsumption = "consumption" // taken for in-salon use outside a visit
	MovementVisit       = "visit"       // consumed by a saved visit
	MovementCorrection  = "correction"  // manual fix or visit reversal
	MovementManual      = "manual"
)

// StockMovement is one entry of the append-only ledger. Count is the delta
// that was requested in ks; when clamping at zero shortened the applied
// change, the recorded count is deliberately NOT adjusted.
type StockMovement struct {
	ID        string  `db:"id" json:"id"`
	ProductID string  `db:"product_id" json:"productId"`
	Count     float64 `db:"count" json:"count"`
	Type      string  `db:"type" json:"type"`
	Date      string  `db:"date" json:"date"`
	Note      string  `db:"note" json:"note"`
}
