package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"salonka/internal/http/handlers"
	"salonka/internal/repos"
	"salonka/internal/services"
)

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	return nil
}

func TestSeededOwnerPasswordIsHashed(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	var hash string
	if err := db.Get(&hash, `SELECT password_hash FROM users WHERE email = 'majitelka@salonka.cz'`); err != nil {
		t.Fatalf("owner not seeded: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash format: %s", hash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("Salonka1!")); err != nil {
		t.Fatalf("seed hash does not validate the known password: %v", err)
	}
}

func TestLoginGateAroundAPI(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	d := handlers.NewDeps(db)
	authSvc := &services.AuthService{Users: repos.NewUserRepo(db)}
	authH := &handlers.AuthHandler{Auth: authSvc}

	app := fiber.New()
	app.Post("/login", authH.Login)
	api := app.Group("/api/v1", handlers.RequireUser(authSvc))
	api.Get("/products", d.ProductHandler.List)

	// no session yet
	respAnon, err := app.Test(httptest.NewRequest("GET", "/api/v1/products", nil))
	if err != nil {
		t.Fatal(err)
	}
	if respAnon.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without login, got %d", respAnon.StatusCode)
	}

	// wrong password
	badReq := httptest.NewRequest("POST", "/login",
		strings.NewReader(`{"email":"majitelka@salonka.cz","password":"Wrongpass1!"}`))
	badReq.Header.Set("Content-Type", "application/json")
	respBad, err := app.Test(badReq)
	if err != nil {
		t.Fatal(err)
	}
	if respBad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad creds, got %d", respBad.StatusCode)
	}

	// real login binds the sid cookie to the owner
	req := httptest.NewRequest("POST", "/login",
		strings.NewReader(`{"email":"majitelka@salonka.cz","password":"Salonka1!"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on login, got %d", resp.StatusCode)
	}
	sid := sessionCookie(resp)
	if sid == nil || sid.Value == "" {
		t.Fatal("login must set the sid cookie")
	}

	authed := httptest.NewRequest("GET", "/api/v1/products", nil)
	authed.AddCookie(sid)
	respAPI, err := app.Test(authed)
	if err != nil {
		t.Fatal(err)
	}
	if respAPI.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with session, got %d", respAPI.StatusCode)
	}
}
