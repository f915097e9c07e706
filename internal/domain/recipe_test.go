package domain_test

import (
	"math"
	"testing"

	"salonka/internal/domain"
)

func TestUnitConversionRoundTrip(t *testing.T) {
	cases := []struct {
		packageSize float64
		ks          float64
	}{
		{60, 0}, {60, 0.5}, {60, 5}, {1000, 0.94}, {250, 2}, {1, 7},
	}
	for _, tc := range cases {
		p := domain.Product{Unit: domain.UnitG, PackageSize: tc.packageSize}
		got := p.ToKs(p.BaseAmount(tc.ks))
		if math.Abs(got-tc.ks) > 1e-9 {
			t.Fatalf("round trip packageSize=%v ks=%v: got %v", tc.packageSize, tc.ks, got)
		}
	}
}

func TestConversionWithoutPackageSize(t *testing.T) {
	// no package size: the product is tracked in whole packages and
	// amounts pass through unchanged
	p := domain.Product{Unit: domain.UnitMl}
	if got := p.BaseAmount(3); got != 3 {
		t.Fatalf("want 3, got %v", got)
	}
	if got := p.ToKs(3); got != 3 {
		t.Fatalf("want 3, got %v", got)
	}
	if !p.NeedsPackageSize() {
		t.Fatal("ml product without package size should warn")
	}
	if (domain.Product{Unit: domain.UnitKs}).NeedsPackageSize() {
		t.Fatal("ks product never needs a package size")
	}
}

func TestDeveloperAmount(t *testing.T) {
	block := domain.RecipeBlock{
		Type:        domain.BlockColor,
		DeveloperID: "dev-1",
		Items: []domain.BlockItem{
			{ProductID: "a", Amount: 20},
			{ProductID: "b", Amount: 10},
		},
	}

	for ratio, want := range map[string]float64{"1:1": 30, "1:1.5": 45, "1:2": 60} {
		block.Ratio = ratio
		if got := block.DeveloperAmount(); math.Abs(got-want) > 1e-9 {
			t.Fatalf("ratio %s: want %v, got %v", ratio, want, got)
		}
	}

	// unknown ratio falls back to 1:1
	block.Ratio = "2:1"
	if got := block.DeveloperAmount(); got != 30 {
		t.Fatalf("unknown ratio: want 30, got %v", got)
	}

	noDev := block
	noDev.Ratio = "1:2"
	noDev.DeveloperID = ""
	if got := noDev.DeveloperAmount(); got != 0 {
		t.Fatalf("no developer: want 0, got %v", got)
	}

	simple := block
	simple.Type = domain.BlockSimple
	if got := simple.DeveloperAmount(); got != 0 {
		t.Fatalf("simple block: want 0, got %v", got)
	}
}

func TestBlockEmpty(t *testing.T) {
	if !(domain.RecipeBlock{Name: "  "}).Empty() {
		t.Fatal("whitespace name with no items is empty")
	}
	if (domain.RecipeBlock{Name: "Střih"}).Empty() {
		t.Fatal("named block is not empty")
	}
	if (domain.RecipeBlock{Items: []domain.BlockItem{{ProductID: "a", Amount: 1}}}).Empty() {
		t.Fatal("block with items is not empty")
	}
}
