// Package service contains the business logic layer.
//
// This file implements CSV export of classified transactions for the
// download collaborator.
package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
)

// csvHeader is the fixed column set of a transaction export.
var csvHeader = []string{
	"id", "bu", "type", "asset_id", "site",
	"inspector", "timestamp", "status", "failed_fields", "remark",
}

// WriteTransactionsCSV writes classified transactions to w in CSV form.
// Failed field names are joined with ";" in their declaration order.
func WriteTransactionsCSV(w io.Writer, txs []ClassifiedTransaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range txs {
		tx := &txs[i]
		record := []string{
			tx.ID.String(),
			tx.BU,
			tx.Type,
			tx.AssetID,
			tx.Site,
			tx.Inspector,
			tx.Timestamp.Format(time.RFC3339),
			string(tx.Classification.Status),
			strings.Join(tx.Classification.FailedFields, ";"),
			tx.Remark,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
