package services_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"salonka/internal/domain"
	"salonka/internal/repos"
	"salonka/internal/services"
)

func visitFixture(t *testing.T) (*sqlx.DB, *services.VisitService) {
	t.Helper()
	db := memdb(t)
	mustInsert(t, db, domain.Product{ID: "A", Name: "Igora 7-0", Category: domain.CategoryColor, Unit: domain.UnitG, PackageSize: 60, Stock: 5})
	mustInsert(t, db, domain.Product{ID: "B", Name: "Oxygenta 6%", Category: domain.CategoryOxidant, Unit: domain.UnitG, PackageSize: 1000, Stock: 1})
	mustInsert(t, db, domain.Product{ID: "R", Name: "Šampon Repair", Category: domain.CategoryRetail, Unit: domain.UnitMl, PackageSize: 250, Stock: 6})
	if err := repos.NewClientRepo(db).Insert(domain.Client{ID: "c1", Name: "Jana Svobodová"}); err != nil {
		t.Fatal(err)
	}
	return db, services.NewVisitService(repos.NewVisitRepo(db), repos.NewProductRepo(db))
}

func colorBlock() domain.RecipeBlock {
	return domain.RecipeBlock{
		ID:   "blk-1",
		Type: domain.BlockColor,
		Name: "Barvení",
		Items: []domain.BlockItem{
			{ProductID: "A", Amount: 30, Name: "Igora 7-0", Unit: domain.UnitG},
		},
		Ratio:       domain.Ratio1to2,
		DeveloperID: "B",
	}
}

func movementsOf(t *testing.T, db *sqlx.DB, productID string) []domain.StockMovement {
	t.Helper()
	hist, err := repos.NewMovementRepo(db).ByProduct(productID)
	if err != nil {
		t.Fatal(err)
	}
	return hist
}

func TestSaveColorVisitDeductsColorAndDeveloper(t *testing.T) {
	db, svc := visitFixture(t)

	v, err := svc.Save("c1", "2026-03-14", []domain.RecipeBlock{colorBlock()}, "citlivá pokožka")
	if err != nil {
		t.Fatal(err)
	}

	if len(v.UsedProducts) != 2 {
		t.Fatalf("want color + developer in consumption, got %+v", v.UsedProducts)
	}
	if v.UsedProducts[0].ProductID != "A" || !about(v.UsedProducts[0].Amount, 30) {
		t.Fatalf("color entry wrong: %+v", v.UsedProducts[0])
	}
	if v.UsedProducts[1].ProductID != "B" || !about(v.UsedProducts[1].Amount, 60) {
		t.Fatalf("developer entry wrong: %+v", v.UsedProducts[1])
	}

	if got := getStock(t, db, "A"); !about(got, 4.5) {
		t.Fatalf("want color stock 4.5, got %v", got)
	}
	if got := getStock(t, db, "B"); !about(got, 0.94) {
		t.Fatalf("want developer stock 0.94, got %v", got)
	}

	histA := movementsOf(t, db, "A")
	if len(histA) != 1 || histA[0].Type != domain.MovementVisit || !about(histA[0].Count, -0.5) {
		t.Fatalf("unexpected color ledger: %+v", histA)
	}
	histB := movementsOf(t, db, "B")
	if len(histB) != 1 || !about(histB[0].Count, -0.06) {
		t.Fatalf("unexpected developer ledger: %+v", histB)
	}

	stored, err := svc.Get(v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Services != "Barvení" {
		t.Fatalf("want services 'Barvení', got %q", stored.Services)
	}
	if len(stored.Blocks) != 1 || stored.Blocks[0].DeveloperID != "B" {
		t.Fatalf("blocks must round-trip, got %+v", stored.Blocks)
	}
}

func TestDeleteRestoresConsumedStock(t *testing.T) {
	db, svc := visitFixture(t)

	v, err := svc.Save("c1", "2026-03-14", []domain.RecipeBlock{colorBlock()}, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(v.ID); err != nil {
		t.Fatal(err)
	}

	if got := getStock(t, db, "A"); !about(got, 5) {
		t.Fatalf("want color stock restored to 5, got %v", got)
	}
	if got := getStock(t, db, "B"); !about(got, 1) {
		t.Fatalf("want developer stock restored to 1, got %v", got)
	}

	histA := movementsOf(t, db, "A")
	if len(histA) != 2 {
		t.Fatalf("want deduction + correction, got %+v", histA)
	}
	if histA[0].Type != domain.MovementCorrection || !about(histA[0].Count, 0.5) {
		t.Fatalf("want correction +0.5 first, got %+v", histA[0])
	}
	if !strings.Contains(histA[0].Note, "14.3.2026") {
		t.Fatalf("correction note must carry the display date, got %q", histA[0].Note)
	}

	if _, err := svc.Get(v.ID); err == nil {
		t.Fatal("visit row must be gone after delete")
	}
}

func TestSaveRejectsInvalidCompositionWithoutWrites(t *testing.T) {
	db, svc := visitFixture(t)

	if _, err := svc.Save("c1", "2026-03-14", nil, ""); !errors.Is(err, services.ErrNoBlocks) {
		t.Fatalf("want ErrNoBlocks, got %v", err)
	}
	empty := domain.RecipeBlock{ID: "blk-x", Type: domain.BlockSimple, Name: "   ", Ratio: domain.Ratio1to1}
	if _, err := svc.Save("c1", "2026-03-14", []domain.RecipeBlock{empty}, ""); !errors.Is(err, services.ErrEmptyBlock) {
		t.Fatalf("want ErrEmptyBlock, got %v", err)
	}

	var visits, movements int
	if err := db.Get(&visits, `SELECT COUNT(*) FROM visits`); err != nil {
		t.Fatal(err)
	}
	if err := db.Get(&movements, `SELECT COUNT(*) FROM stock_movements`); err != nil {
		t.Fatal(err)
	}
	if visits != 0 || movements != 0 {
		t.Fatalf("rejected save must not write, got %d visits %d movements", visits, movements)
	}
	if got := getStock(t, db, "A"); !about(got, 5) {
		t.Fatalf("stock must be untouched, got %v", got)
	}
}

func TestSaveRetailDeductsWholePackages(t *testing.T) {
	db, svc := visitFixture(t)

	retail := domain.RecipeBlock{
		ID:   "blk-r",
		Type: domain.BlockRetail,
		Name: "Domácí péče",
		Items: []domain.BlockItem{
			{ProductID: "R", Amount: 2, Name: "Šampon Repair", Unit: domain.UnitKs},
		},
		Ratio: domain.Ratio1to1,
	}
	if _, err := svc.Save("c1", "2026-03-14", []domain.RecipeBlock{retail}, ""); err != nil {
		t.Fatal(err)
	}

	// retail amounts are package counts, never divided by package size
	if got := getStock(t, db, "R"); !about(got, 4) {
		t.Fatalf("want retail stock 4, got %v", got)
	}
	hist := movementsOf(t, db, "R")
	if len(hist) != 1 || !about(hist[0].Count, -2) {
		t.Fatalf("want ledger -2 ks, got %+v", hist)
	}
}

func TestDuplicateDropsRetailAndRegeneratesIDs(t *testing.T) {
	_, svc := visitFixture(t)

	retail := domain.RecipeBlock{
		ID:    "blk-r",
		Type:  domain.BlockRetail,
		Name:  "Domácí péče",
		Items: []domain.BlockItem{{ProductID: "R", Amount: 1, Name: "Šampon Repair", Unit: domain.UnitKs}},
		Ratio: domain.Ratio1to1,
	}
	v, err := svc.Save("c1", "2026-03-14", []domain.RecipeBlock{colorBlock(), retail}, "poznámka")
	if err != nil {
		t.Fatal(err)
	}

	blocks, notes, err := svc.Duplicate(v.ID)
	if err != nil {
		t.Fatal(err)
	}
	if notes != "poznámka" {
		t.Fatalf("global notes must carry over, got %q", notes)
	}
	if len(blocks) != 1 {
		t.Fatalf("retail block must be dropped, got %+v", blocks)
	}
	if blocks[0].ID == "blk-1" || blocks[0].ID == "" {
		t.Fatalf("duplicated block needs a fresh id, got %q", blocks[0].ID)
	}
	if blocks[0].DeveloperID != "B" || len(blocks[0].Items) != 1 {
		t.Fatalf("recipe content must survive duplication, got %+v", blocks[0])
	}
}

func TestDuplicateReconstructsLegacyVisit(t *testing.T) {
	db, svc := visitFixture(t)

	_, err := db.Exec(`
	  INSERT INTO visits(id, client_id, date, services, notes, used_products_json, blocks_json, global_notes)
	  VALUES('v-legacy', 'c1', '2024-05-02', 'Barvení a střih', '',
	         '[{"productId":"A","amount":30,"name":"Igora 7-0","unit":"g","isRetail":false},
	           {"productId":"B","amount":45,"name":"Oxygenta 6%","unit":"g","isRetail":false},
	           {"productId":"R","amount":1,"name":"Šampon Repair","unit":"ks","isRetail":true}]',
	         '[]', '')
	`)
	if err != nil {
		t.Fatal(err)
	}

	blocks, _, err := svc.Duplicate("v-legacy")
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 {
		t.Fatalf("want one reconstructed block, got %+v", blocks)
	}
	b := blocks[0]
	if b.Type != domain.BlockColor {
		t.Fatalf("chemical products must classify the block as color, got %q", b.Type)
	}
	if b.DeveloperID != "B" {
		t.Fatalf("first oxidant must become the developer, got %q", b.DeveloperID)
	}
	if b.Ratio != domain.Ratio1to1 {
		t.Fatalf("reconstructed ratio defaults to 1:1, got %q", b.Ratio)
	}
	if b.Name != "Barvení a střih" {
		t.Fatalf("block name must come from the visit services, got %q", b.Name)
	}
	if len(b.Items) != 1 || b.Items[0].ProductID != "A" {
		t.Fatalf("retail entries and the developer must not land in items, got %+v", b.Items)
	}
}

func TestFlattenMergesRepeatedProducts(t *testing.T) {
	products := []domain.Product{
		{ID: "A", Name: "Igora 7-0", Category: domain.CategoryColor, Unit: domain.UnitG, PackageSize: 60, Stock: 5},
	}
	blocks := []domain.RecipeBlock{
		{ID: "b1", Type: domain.BlockSimple, Name: "Melír",
			Items: []domain.BlockItem{{ProductID: "A", Amount: 20, Name: "Igora 7-0", Unit: "g"}}},
		{ID: "b2", Type: domain.BlockSimple, Name: "Tónování",
			Items: []domain.BlockItem{{ProductID: "A", Amount: 15, Name: "Igora 7-0", Unit: "g"}}},
	}

	used := services.Flatten(products, blocks)
	if len(used) != 1 || !about(used[0].Amount, 35) {
		t.Fatalf("same product across blocks must merge, got %+v", used)
	}
}

func TestCompileNotesFormatsRecipe(t *testing.T) {
	products := []domain.Product{
		{ID: "B", Name: "Oxygenta 6%", Category: domain.CategoryOxidant, Unit: domain.UnitG, PackageSize: 1000, Stock: 1},
	}
	b := colorBlock()
	b.Notes = "nanést na odrosty"

	got := services.CompileNotes(products, []domain.RecipeBlock{b}, "příště světlejší")
	want := "Barvení: Igora 7-0 (30g) + Oxygenta 6% (60g) [1:2] - nanést na odrosty" +
		"\n\nPoznámky: příště světlejší"
	if got != want {
		t.Fatalf("notes mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestCompileServicesFallback(t *testing.T) {
	if got := services.CompileServices([]domain.RecipeBlock{{Name: "  "}}); got != "Nezadáno" {
		t.Fatalf("want fallback 'Nezadáno', got %q", got)
	}
	blocks := []domain.RecipeBlock{{Name: "Barvení"}, {Name: "Střih"}}
	if got := services.CompileServices(blocks); got != "Barvení, Střih" {
		t.Fatalf("want joined names, got %q", got)
	}
}

func TestListByClientSearch(t *testing.T) {
	_, svc := visitFixture(t)

	if _, err := svc.Save("c1", "2026-03-14", []domain.RecipeBlock{colorBlock()}, ""); err != nil {
		t.Fatal(err)
	}
	cut := domain.RecipeBlock{ID: "blk-s", Type: domain.BlockSimple, Name: "Střih", Ratio: domain.Ratio1to1}
	if _, err := svc.Save("c1", "2026-04-01", []domain.RecipeBlock{cut}, ""); err != nil {
		t.Fatal(err)
	}

	all, err := svc.ListByClient("c1", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 visits, got %d", len(all))
	}
	if all[0].Date != "2026-04-01" {
		t.Fatalf("newest visit must come first, got %q", all[0].Date)
	}

	// matches the service name of the color visit only
	found, err := svc.ListByClient("c1", "barvení")
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].Services != "Barvení" {
		t.Fatalf("search by service: %+v", found)
	}

	// matches the consumed product name
	found, err = svc.ListByClient("c1", "igora")
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].Services != "Barvení" {
		t.Fatalf("search by product name: %+v", found)
	}
}
