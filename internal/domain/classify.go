// Package domain contains core business types and interfaces.
//
// This file implements the inspection status classifier: the heuristic
// that scores one transaction's open-ended checklist answers as pass,
// fail, or not-applicable. The sentinel tables live here and nowhere
// else, so list views, exports, and the aggregator cannot drift apart.
package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// =============================================================================
// Inspection Result
// =============================================================================

// InspectionResult is the classified outcome of one transaction.
type InspectionResult string

const (
	// ResultPass indicates every scored item passed.
	ResultPass InspectionResult = "pass"

	// ResultFail indicates at least one scored item failed.
	ResultFail InspectionResult = "fail"

	// ResultNA indicates nothing could be scored: free-text answers
	// only, or no item fields at all.
	ResultNA InspectionResult = "na"
)

// String returns the string representation of the result.
func (r InspectionResult) String() string {
	return string(r)
}

// IsValid returns true if the result is a recognized value.
func (r InspectionResult) IsValid() bool {
	switch r {
	case ResultPass, ResultFail, ResultNA:
		return true
	}
	return false
}

// =============================================================================
// Sentinel Tables
// =============================================================================

// Sentinel answer values, matched case-insensitively after whitespace
// trimming. Checklist forms differ across business units, so both the
// English and shop-floor ("ok"/"ng") vocabularies appear.
var (
	passValues = map[string]struct{}{
		"pass":   {},
		"passed": {},
		"ok":     {},
		"yes":    {},
	}

	failValues = map[string]struct{}{
		"fail":   {},
		"failed": {},
		"ng":     {},
		"no":     {},
	}
)

// foldCaser performs Unicode case folding for sentinel matching.
var foldCaser = cases.Fold()

// =============================================================================
// Classifier
// =============================================================================

// Classification is the outcome of scoring one transaction.
type Classification struct {
	Status       InspectionResult // pass, fail, or na
	FailedFields []string         // Failing item names in declaration order
}

// HasDefect returns true if the transaction counts as a defect.
func (c Classification) HasDefect() bool {
	return c.Status == ResultFail
}

// Classify scores a transaction's item fields.
//
// Metadata fields and non-string values are ignored. A value matching the
// fail table marks its item as failing; a value matching the pass table
// marks it as passing; anything else is not scored. Any failing item
// makes the transaction a fail, a transaction with only passing scored
// items is a pass, and a transaction with no scored items at all is na.
//
// Classify is total: malformed or missing fields produce an na or pass
// result, never an error.
func Classify(tx *InspectionTransaction) Classification {
	var passed int
	var failedFields []string

	for _, item := range tx.Items {
		if IsMetadataField(item.Name) {
			continue
		}
		value, ok := item.Value.(string)
		if !ok {
			continue
		}

		normalized := foldCaser.String(strings.TrimSpace(value))
		if _, fail := failValues[normalized]; fail {
			failedFields = append(failedFields, item.Name)
			continue
		}
		if _, pass := passValues[normalized]; pass {
			passed++
		}
	}

	switch {
	case len(failedFields) > 0:
		return Classification{Status: ResultFail, FailedFields: failedFields}
	case passed > 0:
		return Classification{Status: ResultPass}
	default:
		return Classification{Status: ResultNA}
	}
}
