package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/fintrackhq/fintrack/internal/repository"
)

// csvHeader matches the export column order the client expects.
var csvHeader = []string{"Date", "Type", "Category", "Description", "Amount"}

// ExportTransactionsCSV renders every transaction as CSV. Quoting is
// RFC 4180 via encoding/csv, so descriptions containing commas or
// double quotes survive a round trip.
func (s *FinanceTracker) ExportTransactionsCSV(ctx context.Context) ([]byte, error) {
	txs, err := s.repo.GetTransactions(ctx, repository.TransactionFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for export: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, t := range txs {
		record := []string{
			t.Date.UTC().Format("2006-01-02"),
			string(t.Type),
			t.Category,
			t.Description,
			t.Amount.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
