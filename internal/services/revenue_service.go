package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"salonka/internal/domain"
	"salonka/internal/repos"
)

var (
	ErrBadMethod  = errors.New("unknown payment method")
	ErrEmptySale  = errors.New("sale has no items")
	ErrZeroAmount = errors.New("sale total is zero")
)

// RevenueService records payments: visit payments and direct counter sales.
type RevenueService struct {
	Transactions *repos.TransactionRepo
	Products     *repos.ProductRepo
}

func NewRevenueService(transactions *repos.TransactionRepo, products *repos.ProductRepo) *RevenueService {
	return &RevenueService{Transactions: transactions, Products: products}
}

func validMethod(m string) bool { return m == domain.PayCash || m == domain.PayQR }

// PayVisit records a payment against a visit; the visit counts as paid once
// at least one transaction references it.
func (s *RevenueService) PayVisit(clientID, clientName, visitID string, amount float64, method, items string) (domain.Transaction, error) {
	if !validMethod(method) {
		return domain.Transaction{}, ErrBadMethod
	}
	t := domain.Transaction{
		ID:         uuid.NewString(),
		ClientID:   clientID,
		ClientName: clientName,
		VisitID:    visitID,
		Amount:     amount,
		Method:     method,
		Items:      items,
		Date:       time.Now().UTC().Format(time.RFC3339),
	}
	return t, s.Transactions.Insert(t)
}

// SaleLine is one counter-sale row; prices are entered at the till, they are
// not stored on products.
type SaleLine struct {
	ProductID string  `json:"productId"`
	Count     float64 `json:"count"`
	Price     float64 `json:"price"`
}

// CounterSale deducts sold packages as sale movements and records a single
// payment transaction with no visit reference.
func (s *RevenueService) CounterSale(lines []SaleLine, method string) (domain.Transaction, error) {
	if !validMethod(method) {
		return domain.Transaction{}, ErrBadMethod
	}
	if len(lines) == 0 {
		return domain.Transaction{}, ErrEmptySale
	}

	total := decimal.Zero
	names := []string{}
	for _, l := range lines {
		total = total.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromFloat(l.Count)))
	}
	if total.IsZero() {
		return domain.Transaction{}, ErrZeroAmount
	}

	for _, l := range lines {
		if l.Count <= 0 {
			continue
		}
		applied, err := s.Products.ApplyMovement(l.ProductID, -math.Abs(l.Count),
			domain.MovementSale, "Prodej na pokladně")
		if err != nil {
			return domain.Transaction{}, err
		}
		if applied {
			if p, err := s.Products.Get(l.ProductID); err == nil {
				names = append(names, fmt.Sprintf("%s x%s", p.Name,
					decimal.NewFromFloat(l.Count).String()))
			}
		}
	}

	amount, _ := total.Round(2).Float64()
	t := domain.Transaction{
		ID:     uuid.NewString(),
		Amount: amount,
		Method: method,
		Items:  strings.Join(names, ", "),
		Date:   time.Now().UTC().Format(time.RFC3339),
	}
	return t, s.Transactions.Insert(t)
}

func (s *RevenueService) List() ([]domain.Transaction, error) { return s.Transactions.List() }

func (s *RevenueService) Delete(id string) error { return s.Transactions.Delete(id) }

// IsPaid reports whether any transaction references the visit.
func (s *RevenueService) IsPaid(visitID string) (bool, error) {
	n, err := s.Transactions.CountByVisit(visitID)
	return n > 0, err
}

// Summary holds per-method revenue totals; decimals keep the sums exact.
type Summary struct {
	Total decimal.Decimal `json:"total"`
	Cash  decimal.Decimal `json:"cash"`
	QR    decimal.Decimal `json:"qr"`
	Count int             `json:"count"`
}

// Summarize totals all recorded transactions by payment method.
func (s *RevenueService) Summarize() (Summary, error) {
	list, err := s.Transactions.List()
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Total: decimal.Zero, Cash: decimal.Zero, QR: decimal.Zero}
	for _, t := range list {
		a := decimal.NewFromFloat(t.Amount)
		sum.Total = sum.Total.Add(a)
		switch t.Method {
		case domain.PayCash:
			sum.Cash = sum.Cash.Add(a)
		case domain.PayQR:
			sum.QR = sum.QR.Add(a)
		}
		sum.Count++
	}
	return sum, nil
}
