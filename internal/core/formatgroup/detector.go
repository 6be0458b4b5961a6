// Package formatgroup finds clusters of documents from different canonical
// vendors that share a near-identical layout.
package formatgroup

import (
	"strings"

	"github.com/agenthands/invoiceguard/internal/core/layout"
	"github.com/agenthands/invoiceguard/internal/core/model"
)

// DefaultThreshold is the cross-vendor grouping cutoff. A candidate joins a
// group only when its similarity to the seed strictly exceeds it.
const DefaultThreshold = 0.9

// Group is a set of records from at least two distinct canonical vendors
// whose layouts match the seed record above threshold. ID equals the group's
// index in the detector output.
type Group struct {
	ID      int
	Records []*model.InvoiceRecord
}

// Vendors returns the raw vendor names of the group members, in member order.
func (g *Group) Vendors() []string {
	names := make([]string, len(g.Records))
	for i, rec := range g.Records {
		names[i] = rec.VendorName
	}
	return names
}

// Detect runs a greedy single-linkage pass over the batch. Each unprocessed
// record seeds a candidate group; every later unprocessed record joins when it
// resolves to a different canonical vendor, its layout similarity to the seed
// exceeds the threshold, and its scanned/handwritten categories match the
// seed exactly. Singleton groups are discarded. The pass is order-dependent:
// a record belongs to the first group it matched and is never reconsidered.
func Detect(records []*model.InvoiceRecord, canonical map[string]string, threshold float64) []Group {
	processed := make([]bool, len(records))
	var groups []Group

	for i, seed := range records {
		if processed[i] {
			continue
		}
		processed[i] = true

		seedVendor := canonicalFor(seed, canonical)
		seedSig := layout.FingerprintRecord(seed)
		members := []*model.InvoiceRecord{seed}

		for j := i + 1; j < len(records); j++ {
			if processed[j] {
				continue
			}
			other := records[j]
			if canonicalFor(other, canonical) == seedVendor {
				continue
			}
			if other.ScannedOrTyped != seed.ScannedOrTyped ||
				other.HandwrittenOrTyped != seed.HandwrittenOrTyped {
				continue
			}
			if sim := layout.Similarity(seedSig, layout.FingerprintRecord(other)); sim > threshold {
				members = append(members, other)
				processed[j] = true
			}
		}

		if len(members) > 1 {
			groups = append(groups, Group{ID: len(groups), Records: members})
		}
	}

	return groups
}

func canonicalFor(rec *model.InvoiceRecord, canonical map[string]string) string {
	raw := strings.TrimSpace(rec.VendorName)
	if c, ok := canonical[raw]; ok {
		return c
	}
	return raw
}
