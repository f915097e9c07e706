package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"salonka/internal/domain"
	"salonka/internal/repos"
	"salonka/internal/services"
	"salonka/internal/validate"
)

type TemplateHandler struct {
	Templates *repos.TemplateRepo
}

func (h *TemplateHandler) List(c *fiber.Ctx) error {
	list, err := h.Templates.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(list)
}

func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var t domain.ServiceTemplate
	if err := c.BodyParser(&t); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad payload"})
	}
	name, ok := validate.Name(t.Name)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "zadejte název šablony"})
	}
	t.ID = uuid.NewString()
	t.Name = name
	if err := h.Templates.Insert(t); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// Apply returns the template's blocks prepared for a new composing session:
// fresh ids, retail blocks dropped.
func (h *TemplateHandler) Apply(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad template id"})
	}
	t, err := h.Templates.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "template not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"blocks":      services.PrepareBlocks(t.Blocks),
		"globalNotes": t.GlobalNotes,
	})
}

func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad template id"})
	}
	if err := h.Templates.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"ok": true})
}
