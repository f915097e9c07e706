package services_test

import (
	"errors"
	"strings"
	"testing"

	"salonka/internal/domain"
	"salonka/internal/repos"
	"salonka/internal/services"
)

func revenueFixture(t *testing.T) (*services.RevenueService, func(string) float64) {
	t.Helper()
	db := memdb(t)
	mustInsert(t, db, domain.Product{ID: "R", Name: "Šampon Repair", Category: "retail", Unit: "ml", PackageSize: 250, Stock: 6})
	svc := services.NewRevenueService(repos.NewTransactionRepo(db), repos.NewProductRepo(db))
	return svc, func(id string) float64 { return getStock(t, db, id) }
}

func TestCounterSaleDeductsAndRecords(t *testing.T) {
	svc, stock := revenueFixture(t)

	tx, err := svc.CounterSale([]services.SaleLine{{ProductID: "R", Count: 2, Price: 289.90}}, domain.PayCash)
	if err != nil {
		t.Fatal(err)
	}
	if !about(tx.Amount, 579.80) {
		t.Fatalf("want total 579.80, got %v", tx.Amount)
	}
	if !strings.Contains(tx.Items, "Šampon Repair x2") {
		t.Fatalf("sale items must name the products, got %q", tx.Items)
	}
	if tx.VisitID != "" {
		t.Fatalf("counter sale must not reference a visit, got %q", tx.VisitID)
	}
	if got := stock("R"); !about(got, 4) {
		t.Fatalf("want stock 4 after sale, got %v", got)
	}
}

func TestCounterSaleRejectsEmptyAndZero(t *testing.T) {
	svc, _ := revenueFixture(t)

	if _, err := svc.CounterSale(nil, domain.PayCash); !errors.Is(err, services.ErrEmptySale) {
		t.Fatalf("want ErrEmptySale, got %v", err)
	}
	lines := []services.SaleLine{{ProductID: "R", Count: 1, Price: 0}}
	if _, err := svc.CounterSale(lines, domain.PayQR); !errors.Is(err, services.ErrZeroAmount) {
		t.Fatalf("want ErrZeroAmount, got %v", err)
	}
	if _, err := svc.CounterSale(lines, "card"); !errors.Is(err, services.ErrBadMethod) {
		t.Fatalf("want ErrBadMethod, got %v", err)
	}
}

func TestPayVisitMarksPaidAndSummarizes(t *testing.T) {
	svc, _ := revenueFixture(t)

	if _, err := svc.PayVisit("c1", "Jana Svobodová", "v1", 1500, domain.PayCash, "Barvení"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.PayVisit("c1", "Jana Svobodová", "v2", 800, domain.PayQR, "Střih"); err != nil {
		t.Fatal(err)
	}

	paid, err := svc.IsPaid("v1")
	if err != nil {
		t.Fatal(err)
	}
	if !paid {
		t.Fatal("visit with a transaction must report as paid")
	}
	paid, err = svc.IsPaid("v-none")
	if err != nil {
		t.Fatal(err)
	}
	if paid {
		t.Fatal("visit without transactions must not report as paid")
	}

	sum, err := svc.Summarize()
	if err != nil {
		t.Fatal(err)
	}
	if sum.Count != 2 || !sum.Total.Equal(sum.Cash.Add(sum.QR)) {
		t.Fatalf("unexpected summary: %+v", sum)
	}
	if f, _ := sum.Cash.Float64(); !about(f, 1500) {
		t.Fatalf("want cash 1500, got %v", sum.Cash)
	}
	if f, _ := sum.QR.Float64(); !about(f, 800) {
		t.Fatalf("want qr 800, got %v", sum.QR)
	}
}
