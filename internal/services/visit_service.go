package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"salonka/internal/domain"
	"salonka/internal/repos"
)

var (
	ErrNoBlocks      = errors.New("visit must contain at least one block")
	ErrEmptyBlock    = errors.New("block needs a name or at least one item")
	ErrClientMissing = errors.New("missing client")
)

// VisitService is the commit engine: it turns a composed block list into the
// persisted visit shape and applies the stock side effects. The visit row
// and all its ledger movements commit as one transaction; validation runs
// fully before any write.
type VisitService struct {
	Visits   *repos.VisitRepo
	Products *repos.ProductRepo
}

func NewVisitService(visits *repos.VisitRepo, products *repos.ProductRepo) *VisitService {
	return &VisitService{Visits: visits, Products: products}
}

// Validate rejects an empty composition or any block lacking both a name
// and items.
func Validate(blocks []domain.RecipeBlock) error {
	if len(blocks) == 0 {
		return ErrNoBlocks
	}
	for _, b := range blocks {
		if b.Empty() {
			return ErrEmptyBlock
		}
	}
	return nil
}

// Flatten merges all block items into the visit's consumption list, one row
// per (product, retail) pair, amounts summed. Color blocks additionally
// contribute their derived developer amount.
func Flatten(products []domain.Product, blocks []domain.RecipeBlock) []domain.UsedProduct {
	out := []domain.UsedProduct{}

	add := func(up domain.UsedProduct) {
		for i := range out {
			if out[i].ProductID == up.ProductID && out[i].IsRetail == up.IsRetail {
				out[i].Amount += up.Amount
				return
			}
		}
		out = append(out, up)
	}

	for _, b := range blocks {
		isRetail := b.Type == domain.BlockRetail
		for _, it := range b.Items {
			add(domain.UsedProduct{
				ProductID: it.ProductID,
				Amount:    it.Amount,
				Name:      it.Name,
				Unit:      it.Unit,
				IsRetail:  isRetail,
			})
		}
		if b.Type == domain.BlockColor && b.DeveloperID != "" {
			if dev, ok := findProduct(products, b.DeveloperID); ok {
				add(domain.UsedProduct{
					ProductID: dev.ID,
					Amount:    b.DeveloperAmount(),
					Name:      dev.Name,
					Unit:      dev.Unit,
				})
			}
		}
	}
	return out
}

// CompileServices joins the non-empty block names for the visit list view.
func CompileServices(blocks []domain.RecipeBlock) string {
	names := []string{}
	for _, b := range blocks {
		if strings.TrimSpace(b.Name) != "" {
			names = append(names, b.Name)
		}
	}
	if len(names) == 0 {
		return "Nezadáno"
	}
	return strings.Join(names, ", ")
}

func fmtAmount(a float64) string { return strconv.FormatFloat(a, 'f', -1, 64) }

// CompileNotes builds the human-readable recipe text, one line per block
// with content, with the free-form global notes appended.
func CompileNotes(products []domain.Product, blocks []domain.RecipeBlock, globalNotes string) string {
	lines := []string{}
	for _, b := range blocks {
		switch {
		case b.Type == domain.BlockColor:
			parts := make([]string, 0, len(b.Items)+1)
			for _, it := range b.Items {
				parts = append(parts, fmt.Sprintf("%s (%sg)", it.Name, fmtAmount(it.Amount)))
			}
			if dev, ok := findProduct(products, b.DeveloperID); ok {
				parts = append(parts, fmt.Sprintf("%s (%sg)", dev.Name, fmtAmount(b.DeveloperAmount())))
			}
			line := fmt.Sprintf("%s: %s [%s]", b.Name, strings.Join(parts, " + "), b.Ratio)
			if b.Notes != "" {
				line += " - " + b.Notes
			}
			lines = append(lines, line)
		case len(b.Items) > 0 || b.Notes != "":
			parts := make([]string, 0, len(b.Items))
			for _, it := range b.Items {
				parts = append(parts, fmt.Sprintf("%s (%s%s)", it.Name, fmtAmount(it.Amount), it.Unit))
			}
			line := fmt.Sprintf("%s: %s", b.Name, strings.Join(parts, ", "))
			if b.Notes != "" {
				line += " - " + b.Notes
			}
			lines = append(lines, line)
		}
	}
	notes := strings.Join(lines, "\n")
	if globalNotes != "" {
		notes += "\n\nPoznámky: " + globalNotes
	}
	return notes
}

// deductKs converts one consumption entry to the package count to subtract.
// Service entries on packaged products divide by the package size; retail
// entries are already package-denominated and pass through, as do products
// without a package size.
func deductKs(p domain.Product, found bool, up domain.UsedProduct) float64 {
	if found && p.PackageSize > 0 && !up.IsRetail {
		return up.Amount / p.PackageSize
	}
	return up.Amount
}

// Save validates, flattens and persists a visit, deducting stock for every
// consumption entry in the same transaction.
func (s *VisitService) Save(clientID, date string, blocks []domain.RecipeBlock, globalNotes string) (domain.Visit, error) {
	if clientID == "" {
		return domain.Visit{}, ErrClientMissing
	}
	if err := Validate(blocks); err != nil {
		return domain.Visit{}, err
	}

	products, err := s.Products.List()
	if err != nil {
		return domain.Visit{}, err
	}

	v := domain.Visit{
		ID:           uuid.NewString(),
		ClientID:     clientID,
		Date:         date,
		Services:     CompileServices(blocks),
		Notes:        CompileNotes(products, blocks, globalNotes),
		UsedProducts: Flatten(products, blocks),
		Blocks:       blocks,
		GlobalNotes:  globalNotes,
	}

	tx, err := s.Visits.Begin()
	if err != nil {
		return domain.Visit{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.Visits.CreateTx(tx, v); err != nil {
		return domain.Visit{}, err
	}
	for _, up := range v.UsedProducts {
		p, found := findProduct(products, up.ProductID)
		ks := deductKs(p, found, up)
		// -abs guards against a sign slipping in upstream
		if _, err := s.Products.ApplyMovementTx(tx, up.ProductID, -math.Abs(ks),
			domain.MovementVisit, "Návštěva: "+date); err != nil {
			return domain.Visit{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.Visit{}, err
	}
	return v, nil
}

// Delete removes a visit and symmetrically restores the stock it consumed
// via correction movements. Zero or negative restore amounts are skipped.
func (s *VisitService) Delete(visitID string) error {
	v, err := s.Visits.Get(visitID)
	if err != nil {
		return err
	}
	products, err := s.Products.List()
	if err != nil {
		return err
	}

	tx, err := s.Visits.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	note := "Storno návštěvy: " + displayDate(v.Date)
	for _, up := range v.UsedProducts {
		p, found := findProduct(products, up.ProductID)
		ks := deductKs(p, found, up)
		if ks <= 0 {
			continue
		}
		if _, err := s.Products.ApplyMovementTx(tx, up.ProductID, math.Abs(ks),
			domain.MovementCorrection, note); err != nil {
			return err
		}
	}
	if err := s.Visits.DeleteTx(tx, visitID); err != nil {
		return err
	}
	return tx.Commit()
}

func displayDate(date string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("2.1.2006")
		}
	}
	return date
}

// Duplicate prepares a fresh block list for replaying a past visit: deep
// copies with new ids, retail blocks dropped (take-home sales are not
// replayed). Legacy visits without stored blocks get a best-effort
// reconstruction from their consumption list.
func (s *VisitService) Duplicate(visitID string) ([]domain.RecipeBlock, string, error) {
	v, err := s.Visits.Get(visitID)
	if err != nil {
		return nil, "", err
	}

	blocks := v.Blocks
	if len(blocks) == 0 && len(v.UsedProducts) > 0 {
		products, err := s.Products.List()
		if err != nil {
			return nil, "", err
		}
		blocks = ReconstructLegacyBlocks(products, v)
	}

	return PrepareBlocks(blocks), v.GlobalNotes, nil
}

// PrepareBlocks turns a stored block list into the starting state of a new
// composing session: deep copies with fresh ids, retail blocks dropped
// (take-home sales are not replayed).
func PrepareBlocks(blocks []domain.RecipeBlock) []domain.RecipeBlock {
	out := []domain.RecipeBlock{}
	for _, b := range blocks {
		if b.Type == domain.BlockRetail {
			continue
		}
		nb := b
		nb.ID = uuid.NewString()
		nb.Items = append([]domain.BlockItem(nil), b.Items...)
		out = append(out, nb)
	}
	return out
}

// ReconstructLegacyBlocks rebuilds a single synthetic block from a legacy
// visit that stored only its flat consumption list. It is a heuristic: the
// block is classified as a color service when any referenced product is a
// chemical, the first oxidant found is promoted to developer, and the ratio
// defaults to 1:1. Per-item amounts are carried over as stored, which may
// not match the original base-unit bookkeeping.
func ReconstructLegacyBlocks(products []domain.Product, v domain.Visit) []domain.RecipeBlock {
	nonRetail := []domain.UsedProduct{}
	for _, up := range v.UsedProducts {
		if !up.IsRetail {
			nonRetail = append(nonRetail, up)
		}
	}
	if len(nonRetail) == 0 {
		return nil
	}

	hasChemicals := false
	for _, up := range nonRetail {
		if p, ok := findProduct(products, up.ProductID); ok && p.Chemical() {
			hasChemicals = true
			break
		}
	}

	toItem := func(up domain.UsedProduct) domain.BlockItem {
		unit := up.Unit
		if unit == "" {
			unit = domain.UnitKs
		}
		return domain.BlockItem{ProductID: up.ProductID, Amount: up.Amount, Name: up.Name, Unit: unit}
	}

	block := domain.RecipeBlock{
		ID:    uuid.NewString(),
		Type:  domain.BlockSimple,
		Name:  v.Services,
		Items: []domain.BlockItem{},
		Ratio: domain.Ratio1to1,
	}

	if hasChemicals {
		block.Type = domain.BlockColor
		for _, up := range nonRetail {
			p, ok := findProduct(products, up.ProductID)
			if ok && p.Category == domain.CategoryOxidant && block.DeveloperID == "" {
				block.DeveloperID = up.ProductID // first oxidant wins
				continue
			}
			block.Items = append(block.Items, toItem(up))
		}
	} else {
		for _, up := range nonRetail {
			block.Items = append(block.Items, toItem(up))
		}
	}

	if block.Name == "" {
		if block.Type == domain.BlockColor {
			block.Name = "Barvení"
		} else {
			block.Name = "Služba"
		}
	}
	return []domain.RecipeBlock{block}
}

func (s *VisitService) Get(id string) (domain.Visit, error) { return s.Visits.Get(id) }

// ListByClient lists a client's visits; q optionally filters on services,
// notes and product names.
func (s *VisitService) ListByClient(clientID, q string) ([]domain.Visit, error) {
	return s.Visits.ListByClient(clientID, q)
}
