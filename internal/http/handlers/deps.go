package handlers

import (
	"salonka/internal/repos"
	"salonka/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	ProductHandler  *ProductHandler
	VisitHandler    *VisitHandler
	ClientHandler   *ClientHandler
	RevenueHandler  *RevenueHandler
	TemplateHandler *TemplateHandler
}

func NewDeps(db *sqlx.DB) *Deps {
	prodRepo := repos.NewProductRepo(db)
	movRepo := repos.NewMovementRepo(db)
	visitRepo := repos.NewVisitRepo(db)
	clientRepo := repos.NewClientRepo(db)
	txRepo := repos.NewTransactionRepo(db)
	tplRepo := repos.NewTemplateRepo(db)

	stockSvc := services.NewStockService(prodRepo, movRepo)
	visitSvc := services.NewVisitService(visitRepo, prodRepo)
	revenueSvc := services.NewRevenueService(txRepo, prodRepo)

	return &Deps{
		ProductHandler:  &ProductHandler{Products: prodRepo, Stock: stockSvc},
		VisitHandler:    &VisitHandler{Visits: visitSvc, Products: prodRepo, Revenue: revenueSvc},
		ClientHandler:   &ClientHandler{Clients: clientRepo},
		RevenueHandler:  &RevenueHandler{Revenue: revenueSvc},
		TemplateHandler: &TemplateHandler{Templates: tplRepo},
	}
}
