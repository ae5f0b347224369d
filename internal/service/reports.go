package service

import (
	"github.com/seguikro/cotisations/internal/query"
	"github.com/seguikro/cotisations/models"
)

// CotisationReport is the result of a cotisation report request.
type CotisationReport struct {
	Cotisations []query.Document       `json:"cotisations"`
	Stats       models.CotisationStats `json:"stats"`
}

// TransactionReport is the result of a ledger report request.
type TransactionReport struct {
	Transactions []query.Document        `json:"transactions"`
	Stats        models.TransactionStats `json:"stats"`
}

func newCotisationReport(docs []query.Document) CotisationReport {
	if docs == nil {
		docs = []query.Document{}
	}

	stats := models.CotisationStats{TotalCotisations: len(docs)}
	for _, doc := range docs {
		stats.TotalAmount += doc.Float("amount")

		switch models.CotisationStatus(doc.String("status")) {
		case models.CotisationConfirmed:
			stats.Confirmed++
		case models.CotisationPending:
			stats.Pending++
		case models.CotisationRejected:
			stats.Rejected++
		}
	}

	return CotisationReport{Cotisations: docs, Stats: stats}
}

func newTransactionReport(docs []query.Document) TransactionReport {
	if docs == nil {
		docs = []query.Document{}
	}

	stats := models.TransactionStats{
		TotalTransactions: len(docs),
		ByCategory:        make(map[models.TransactionCategory]models.CategoryStats),
	}
	for _, doc := range docs {
		amount := doc.Float("amount")

		switch models.TransactionType(doc.String("type")) {
		case models.TransactionInflow:
			stats.TotalInflow += amount
		case models.TransactionOutflow:
			stats.TotalOutflow += amount
		}

		category := models.TransactionCategory(doc.String("category"))
		byCategory := stats.ByCategory[category]
		byCategory.Count++
		byCategory.TotalAmount += amount
		stats.ByCategory[category] = byCategory
	}
	stats.Balance = stats.TotalInflow - stats.TotalOutflow

	return TransactionReport{Transactions: docs, Stats: stats}
}
