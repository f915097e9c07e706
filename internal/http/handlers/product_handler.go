package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "salonka/internal/log"
	"salonka/internal/domain"
	"salonka/internal/repos"
	"salonka/internal/services"
	"salonka/internal/validate"
)

type ProductHandler struct {
	Products *repos.ProductRepo
	Stock    *services.StockService
}

type productPayload struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit"`
	PackageSize float64 `json:"packageSize"`
	Stock       float64 `json:"stock"`
	MinStock    float64 `json:"minStock"`
}

func (pl productPayload) validate() (domain.Product, string) {
	name, ok := validate.Name(pl.Name)
	if !ok {
		return domain.Product{}, "zadejte název produktu"
	}
	cat, ok := validate.Category(pl.Category)
	if !ok {
		return domain.Product{}, "neznámá kategorie"
	}
	unit, ok := validate.Unit(pl.Unit)
	if !ok {
		return domain.Product{}, "neznámá jednotka"
	}
	if pl.PackageSize < 0 || pl.Stock < 0 || pl.MinStock < 0 {
		return domain.Product{}, "množství nesmí být záporné"
	}
	return domain.Product{
		Name: name, Brand: pl.Brand, Category: cat, Unit: unit,
		PackageSize: pl.PackageSize, Stock: pl.Stock, MinStock: pl.MinStock,
	}, ""
}

type productView struct {
	domain.Product
	LowStock bool `json:"lowStock"`
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Products.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, productView{Product: p, LowStock: p.LowStock()})
	}
	return c.JSON(out)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad product id"})
	}
	p, err := h.Products.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(p)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var pl productPayload
	if err := c.BodyParser(&pl); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad payload"})
	}
	p, msg := pl.validate()
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}
	p.ID = uuid.NewString()
	// the product starts empty; its initial stock arrives through the
	// ledger so the movement history sums to the stored quantity
	initial := p.Stock
	p.Stock = 0
	if err := h.Products.Insert(p); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if initial > 0 {
		if _, err := h.Stock.ApplyMovement(p.ID, initial, domain.MovementImport, "Počáteční stav"); err != nil {
			applog.Error(c, "product.create.movement", err, map[string]any{"id": p.ID})
		}
		p.Stock = initial
	}
	applog.Audit(c, "product.create", map[string]any{"id": p.ID, "name": p.Name})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad product id"})
	}
	var pl productPayload
	if err := c.BodyParser(&pl); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad payload"})
	}
	p, msg := pl.validate()
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}
	p.ID = id
	if err := h.Products.Update(p); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "product.update", map[string]any{"id": id})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad product id"})
	}
	if err := h.Products.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "product.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"ok": true})
}

// History returns the product's stock ledger, newest first.
func (h *ProductHandler) History(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad product id"})
	}
	movements, err := h.Stock.History(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(movements)
}

// Movement applies a manual stock change (owner correction).
func (h *ProductHandler) Movement(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad product id"})
	}
	var body struct {
		Delta float64 `json:"delta"`
		Note  string  `json:"note"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad payload"})
	}
	applied, err := h.Stock.ApplyMovement(id, body.Delta, domain.MovementManual, body.Note)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !applied {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	applog.Audit(c, "stock.manual", map[string]any{"id": id, "delta": body.Delta})
	return c.JSON(fiber.Map{"ok": true})
}

type stockBatch struct {
	Lines []services.StockLine `json:"lines"`
}

func (h *ProductHandler) StockIn(c *fiber.Ctx) error {
	var body stockBatch
	if err := c.BodyParser(&body); err != nil || len(body.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad payload"})
	}
	if err := h.Stock.StockIn(body.Lines); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "stock.in", map[string]any{"lines": len(body.Lines)})
	return c.JSON(fiber.Map{"ok": true})
}

func (h *ProductHandler) StockOut(c *fiber.Ctx) error {
	var body stockBatch
	if err := c.BodyParser(&body); err != nil || len(body.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad payload"})
	}
	if err := h.Stock.StockOut(body.Lines); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "stock.out", map[string]any{"lines": len(body.Lines)})
	return c.JSON(fiber.Map{"ok": true})
}

// Reorder suggests a supplier order from minimum-stock thresholds.
func (h *ProductHandler) Reorder(c *fiber.Ctx) error {
	items, err := h.Stock.ReorderSuggestions()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(items)
}
