package domain

// UsedProduct is one entry of a visit's flat consumption list, merged by
// (productId, isRetail). Amount is in base units for service consumption and
// in ks for retail entries; name/unit are snapshots and do not follow later
// product renames.
type UsedProduct struct {
	ProductID string  `json:"productId"`
	Amount    float64 `json:"amount"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	IsRetail  bool    `json:"isRetail,omitempty"`
}

// Visit is a committed salon visit. Services and Notes are display strings
// compiled from the blocks; Blocks are retained so the visit can be
// duplicated later. Legacy visits may carry UsedProducts only.
type Visit struct {
	ID           string        `db:"id" json:"id"`
	ClientID     string        `db:"client_id" json:"clientId"`
	Date         string        `db:"date" json:"date"`
	Services     string        `db:"services" json:"services"`
	Notes        string        `db:"notes" json:"notes"`
	UsedProducts []UsedProduct `db:"-" json:"usedProducts"`
	Blocks       []RecipeBlock `db:"-" json:"blocks,omitempty"`
	GlobalNotes  string        `db:"global_notes" json:"globalNotes,omitempty"`
	CreatedAt    string        `db:"created_at" json:"createdAt"`
}

type Client struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Phone     string `db:"phone" json:"phone"`
	Email     string `db:"email" json:"email"`
	Notes     string `db:"notes" json:"notes"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

// Payment methods.
const (
	PayCash = "cash"
	PayQR   = "qr"
)

// Transaction is a payment record. VisitID is empty for direct counter
// sales; a visit counts as paid once at least one transaction references it.
type Transaction struct {
	ID         string  `db:"id" json:"id"`
	ClientID   string  `db:"client_id" json:"clientId"`
	ClientName string  `db:"client_name" json:"clientName"`
	VisitID    string  `db:"visit_id" json:"visitId,omitempty"`
	Amount     float64 `db:"amount" json:"amount"`
	Method     string  `db:"method" json:"method"`
	Items      string  `db:"items" json:"items"`
	Date       string  `db:"date" json:"date"`
}

// ServiceTemplate is a saved block list reusable as a starting point for a
// new visit.
type ServiceTemplate struct {
	ID          string        `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	Blocks      []RecipeBlock `db:"-" json:"blocks"`
	GlobalNotes string        `db:"global_notes" json:"globalNotes,omitempty"`
	CreatedAt   string        `db:"created_at" json:"createdAt"`
}
