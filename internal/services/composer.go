package services

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"salonka/internal/domain"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrBlockNotFound     = errors.New("block not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotOxidant        = errors.New("developer must be an oxidant product")
)

// Composer is one visit-authoring session: an in-memory block list edited
// against a product snapshot. Nothing here persists or mutates stock; every
// item add/edit is validated against virtual availability and refused, not
// clamped, when it would overdraw.
type Composer struct {
	products []domain.Product
	Blocks   []domain.RecipeBlock
}

// NewComposer starts a session; initial blocks (from a duplicated visit or a
// template) may be nil.
func NewComposer(products []domain.Product, initial []domain.RecipeBlock) *Composer {
	return &Composer{products: products, Blocks: initial}
}

// AddBlock appends an empty block of the given type with the usual Czech
// default label and returns its id.
func (c *Composer) AddBlock(blockType string) string {
	name := "Další úkon"
	switch blockType {
	case domain.BlockColor:
		name = "Barvení"
	case domain.BlockRetail:
		name = "Domácí péče"
	}
	b := domain.RecipeBlock{
		ID:    uuid.NewString(),
		Type:  blockType,
		Name:  name,
		Items: []domain.BlockItem{},
		Ratio: domain.Ratio1to1,
	}
	c.Blocks = append(c.Blocks, b)
	return b.ID
}

func (c *Composer) RemoveBlock(blockID string) {
	out := c.Blocks[:0]
	for _, b := range c.Blocks {
		if b.ID != blockID {
			out = append(out, b)
		}
	}
	c.Blocks = out
}

func (c *Composer) block(blockID string) (*domain.RecipeBlock, error) {
	for i := range c.Blocks {
		if c.Blocks[i].ID == blockID {
			return &c.Blocks[i], nil
		}
	}
	return nil, ErrBlockNotFound
}

func (c *Composer) SetBlockName(blockID, name string) error {
	b, err := c.block(blockID)
	if err != nil {
		return err
	}
	b.Name = name
	return nil
}

func (c *Composer) SetBlockNotes(blockID, notes string) error {
	b, err := c.block(blockID)
	if err != nil {
		return err
	}
	b.Notes = notes
	return nil
}

func (c *Composer) SetRatio(blockID, ratio string) error {
	b, err := c.block(blockID)
	if err != nil {
		return err
	}
	b.Ratio = ratio
	return nil
}

// SetDeveloper assigns the auto-dosed oxidant of a color block. The derived
// amount immediately counts against the developer's virtual stock.
func (c *Composer) SetDeveloper(blockID, productID string) error {
	b, err := c.block(blockID)
	if err != nil {
		return err
	}
	if productID == "" {
		b.DeveloperID = ""
		return nil
	}
	p, ok := findProduct(c.products, productID)
	if !ok {
		return ErrProductNotFound
	}
	if p.Category != domain.CategoryOxidant {
		return ErrNotOxidant
	}
	b.DeveloperID = productID
	return nil
}

// VirtualStock reports remaining availability of a product within this
// session.
func (c *Composer) VirtualStock(productID string) VirtualStock {
	return CalcVirtualStock(c.products, c.Blocks, productID)
}

// AddItem allocates amount of a product in a block. A second add of the same
// product merges into the existing line. The returned warning is non-empty
// for fractional-unit products missing a package size; the operation still
// proceeds then, on a 1 unit = 1 ks basis.
func (c *Composer) AddItem(blockID, productID string, amount float64) (string, error) {
	b, err := c.block(blockID)
	if err != nil {
		return "", err
	}
	p, ok := findProduct(c.products, productID)
	if !ok {
		return "", ErrProductNotFound
	}

	var warning string
	if p.NeedsPackageSize() {
		warning = fmt.Sprintf(
			"Pozor: Produkt %q nemá nastavenou velikost balení! Systém bude odečítat po kusech namísto %s.",
			p.Name, p.Unit)
	}

	vs := c.VirtualStock(productID)
	if amount > vs.Available {
		return warning, insufficientErr(p.Name, vs, vs.Available, amount)
	}

	for i := range b.Items {
		if b.Items[i].ProductID == productID {
			b.Items[i].Amount += amount
			return warning, nil
		}
	}
	b.Items = append(b.Items, domain.BlockItem{
		ProductID: productID,
		Amount:    amount,
		Name:      p.Name,
		Unit:      p.Unit,
	})
	return warning, nil
}

func (c *Composer) RemoveItem(blockID, productID string) error {
	b, err := c.block(blockID)
	if err != nil {
		return err
	}
	out := b.Items[:0]
	for _, it := range b.Items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	b.Items = out
	return nil
}

// UpdateItemAmount changes an existing allocation. The item's own current
// amount is given back before checking the new one, otherwise it would count
// against itself. A refused update leaves the amount unchanged.
func (c *Composer) UpdateItemAmount(blockID, productID string, newAmount float64) error {
	b, err := c.block(blockID)
	if err != nil {
		return err
	}
	current, ok := b.ItemAmount(productID)
	if !ok {
		return ErrProductNotFound
	}
	p, pok := findProduct(c.products, productID)
	if !pok {
		return ErrProductNotFound
	}

	vs := c.VirtualStock(productID)
	trueAvailable := vs.Available + current
	if newAmount > trueAvailable {
		return insufficientErr(p.Name, vs, trueAvailable, newAmount)
	}

	for i := range b.Items {
		if b.Items[i].ProductID == productID {
			b.Items[i].Amount = newAmount
		}
	}
	return nil
}

func insufficientErr(name string, vs VirtualStock, available, requested float64) error {
	var display string
	if vs.PackageSize > 0 {
		display = fmt.Sprintf("%s ks (%s%s)",
			strconv.FormatFloat(available/vs.PackageSize, 'f', 1, 64),
			strconv.FormatFloat(available, 'f', 0, 64), vs.Unit)
	} else {
		display = fmt.Sprintf("%s %s", strconv.FormatFloat(available, 'f', 0, 64), vs.Unit)
	}
	return fmt.Errorf("%w: Nedostatek zásob! %s: Dostupné %s, požadováno %s%s",
		ErrInsufficientStock, name, display,
		strconv.FormatFloat(requested, 'f', -1, 64), vs.Unit)
}
