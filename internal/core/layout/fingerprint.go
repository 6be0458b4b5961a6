// Package layout derives comparable signatures from a document's structural
// features and scores similarity between them.
package layout

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/agenthands/invoiceguard/internal/core/model"
)

// DefaultThreshold is the cutoff used when a caller has no reason to pick a
// stricter one. Grouping and drift checks pass their own thresholds.
const DefaultThreshold = 0.85

const (
	tokenDelimiter  = "::"
	headerSeparator = " | "
	unknownToken    = "unknown"
)

// Signature is a derived layout fingerprint. Two signatures are comparable
// only through Similarity, never by equality.
type Signature string

// Fingerprint builds a signature from table headers, scan type, table
// dimensions and handwriting category. With no headers the layout token falls
// back to the scan type, or "unknown" when that is empty too. Header order is
// preserved: column order is a structural signal for invoices.
func Fingerprint(headers []string, scanType string, size *model.TableSize, handwriting string) Signature {
	layout := scanType
	if len(headers) > 0 {
		lowered := make([]string, len(headers))
		for i, h := range headers {
			lowered[i] = strings.ToLower(h)
		}
		layout = strings.Join(lowered, headerSeparator)
	} else if layout == "" {
		layout = unknownToken
	}

	if handwriting == "" {
		handwriting = unknownToken
	}

	parts := []string{scanType, layout, size.String(), handwriting}
	return Signature(strings.Join(parts, tokenDelimiter))
}

// FingerprintRecord builds the signature for an extracted invoice record.
func FingerprintRecord(rec *model.InvoiceRecord) Signature {
	return Fingerprint(rec.TableHeaders, rec.ScannedOrTyped, rec.TableSize, rec.HandwrittenOrTyped)
}

// Similarity scores two signatures with a character-level sequence ratio in
// [0,1]. The comparison is purely syntactic: reordered-but-equivalent headers
// score lower than textually similar ones.
func Similarity(a, b Signature) float64 {
	return float64(fuzzy.Ratio(string(a), string(b))) / 100.0
}

// Similar reports whether two signatures meet a caller-supplied threshold,
// returning the raw score alongside the decision.
func Similar(a, b Signature, threshold float64) (bool, float64) {
	score := Similarity(a, b)
	return score >= threshold, score
}
