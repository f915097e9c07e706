package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"salonka/internal/domain"
	applog "salonka/internal/log"
	"salonka/internal/repos"
	"salonka/internal/validate"
)

type ClientHandler struct {
	Clients *repos.ClientRepo
}

func (h *ClientHandler) List(c *fiber.Ctx) error {
	clients, err := h.Clients.List(c.Query("q"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(clients)
}

func (h *ClientHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad client id"})
	}
	cl, err := h.Clients.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "client not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(cl)
}

type clientPayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

func (pl clientPayload) toClient() (domain.Client, string) {
	name, ok := validate.Name(pl.Name)
	if !ok {
		return domain.Client{}, "zadejte jméno klienta"
	}
	if pl.Email != "" {
		if _, ok := validate.Email(pl.Email); !ok {
			return domain.Client{}, "neplatný e-mail"
		}
	}
	return domain.Client{Name: name, Phone: pl.Phone, Email: pl.Email, Notes: pl.Notes}, ""
}

func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var pl clientPayload
	if err := c.BodyParser(&pl); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad payload"})
	}
	cl, msg := pl.toClient()
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}
	cl.ID = uuid.NewString()
	if err := h.Clients.Insert(cl); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "client.create", map[string]any{"id": cl.ID})
	return c.Status(fiber.StatusCreated).JSON(cl)
}

func (h *ClientHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad client id"})
	}
	var pl clientPayload
	if err := c.BodyParser(&pl); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad payload"})
	}
	cl, msg := pl.toClient()
	if msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}
	cl.ID = id
	if err := h.Clients.Update(cl); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Delete removes a client and, through the schema cascade, their visits.
// Stock consumed by those visits stays consumed.
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad client id"})
	}
	if err := h.Clients.Delete(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "client.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"ok": true})
}
