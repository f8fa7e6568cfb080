// Package domain contains core business types and interfaces.
//
// This file defines the InspectionTransaction domain type: one submitted
// checklist record for one asset. Checklists vary per asset type and
// business unit, so the answered items are an open-ended, ordered set of
// name/value pairs rather than a fixed struct.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Inspection Transaction
// =============================================================================

// InspectionTransaction represents one submitted inspection event.
//
// Transactions are immutable after submission; the only later mutation is
// explicit deletion. They reference their asset by the (bu, type, asset
// identifier) natural key, not by a stored row reference.
type InspectionTransaction struct {
	ID        uuid.UUID  // Unique row identifier
	BU        string     // Business unit code
	Type      string     // Equipment category
	AssetID   string     // Asset identifier within (bu, type)
	Site      string     // Optional: inherited from the asset at submission
	Inspector string     // Name of the submitting inspector
	Remark    string     // Optional free-text remark
	ImageKeys []string   // Storage keys of attached photos
	Timestamp time.Time  // When the inspection was performed
	CreatedAt time.Time  // When the record was stored
	Items     ItemFields // Checklist answers in submission order
}

// NaturalKey returns the join key of the asset this transaction belongs to.
func (t *InspectionTransaction) NaturalKey() string {
	return NaturalKey(t.BU, t.Type, t.AssetID)
}

// =============================================================================
// Metadata Fields
// =============================================================================

// metadataFields are the fixed transaction attribute names. Item-field
// names are disjoint from this set; the classifier skips any entry whose
// name appears here so a stray metadata key can never be scored.
var metadataFields = map[string]struct{}{
	"id":        {},
	"bu":        {},
	"type":      {},
	"site":      {},
	"inspector": {},
	"remark":    {},
	"images":    {},
	"timestamp": {},
	"createdAt": {},
	"docId":     {},
}

// IsMetadataField returns true if name is a fixed transaction attribute
// rather than a checklist item.
func IsMetadataField(name string) bool {
	_, ok := metadataFields[name]
	return ok
}

// =============================================================================
// Ordered Item Fields
// =============================================================================

// ItemField is one answered checklist item. Value is free-form: sentinel
// strings ("Pass", "ng", ...), free text, numbers, or nested structures.
// Only string values participate in pass/fail scoring.
type ItemField struct {
	Name  string
	Value interface{}
}

// ItemFields holds checklist answers in submission order.
//
// Order matters: failed field names are reported in declaration order, and
// Go maps do not preserve it, so the JSON codec below round-trips the
// object key order through storage.
type ItemFields []ItemField

// Get returns the value of the named item, if present.
func (f ItemFields) Get(name string) (interface{}, bool) {
	for _, item := range f {
		if item.Name == name {
			return item.Value, true
		}
	}
	return nil, false
}

// Names returns the item names in submission order.
func (f ItemFields) Names() []string {
	names := make([]string, 0, len(f))
	for _, item := range f {
		names = append(names, item.Name)
	}
	return names
}

// MarshalJSON encodes the items as a JSON object preserving field order.
func (f ItemFields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(item.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(item.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal item %q: %w", item.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object into items, preserving the key order
// of the document. It walks the token stream instead of decoding into a
// map, which would lose order.
func (f *ItemFields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("item fields: expected JSON object, got %v", tok)
	}

	items := ItemFields{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("item fields: expected object key, got %v", keyTok)
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("item fields: decode value of %q: %w", key, err)
		}
		items = append(items, ItemField{Name: key, Value: normalizeValue(value)})
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}

	*f = items
	return nil
}

// normalizeValue converts json.Number values back to plain float64 so the
// decoded shape matches values constructed in code. Numbers are never
// scored, only stored and echoed back.
func normalizeValue(v interface{}) interface{} {
	if n, ok := v.(json.Number); ok {
		if fl, err := n.Float64(); err == nil {
			return fl
		}
		return n.String()
	}
	return v
}

// =============================================================================
// Transaction Service Parameters
// =============================================================================

// RecordTransactionParams contains validated parameters for recording a
// submitted inspection.
type RecordTransactionParams struct {
	BU        string     // Required: business unit code
	Type      string     // Required: equipment category
	AssetID   string     // Required: asset identifier within (bu, type)
	Site      string     // Optional: inherited from the asset when empty
	Inspector string     // Required: inspector name
	Remark    string     // Optional
	ImageKeys []string   // Optional
	Timestamp time.Time  // Defaults to submission time when zero
	Items     ItemFields // Checklist answers
}

// ListTransactionsParams contains filters for listing transactions.
type ListTransactionsParams struct {
	BU     string        // Optional: filter by business unit
	Type   string        // Optional: filter by equipment category
	Window *PeriodWindow // Optional: half-open timestamp window
}
