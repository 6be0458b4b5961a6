// Package redflag assigns each invoice in a batch exactly one flag category
// by correlating vendor identities, contact info and layout fingerprints.
package redflag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agenthands/invoiceguard/internal/core/formatgroup"
	"github.com/agenthands/invoiceguard/internal/core/layout"
	"github.com/agenthands/invoiceguard/internal/core/model"
	"github.com/agenthands/invoiceguard/internal/core/vendor"
)

// Options carries the thresholds used by one classification run. Call sites
// use different cutoffs on purpose: grouping is stricter than the default
// layout comparison, and same-vendor drift only fires well below it.
type Options struct {
	// VendorMatchThreshold is the token-set ratio (0-100) for vendor name
	// canonicalization.
	VendorMatchThreshold int
	// FormatGroupThreshold is the cross-vendor layout similarity a record
	// must exceed to join a format group.
	FormatGroupThreshold float64
	// DriftFloor is the same-vendor similarity below which layouts are
	// considered divergent.
	DriftFloor float64
}

// DefaultOptions returns the standard threshold set.
func DefaultOptions() Options {
	return Options{
		VendorMatchThreshold: vendor.DefaultThreshold,
		FormatGroupThreshold: formatgroup.DefaultThreshold,
		DriftFloor:           0.4,
	}
}

// Detect classifies a batch with DefaultOptions.
func Detect(records []*model.InvoiceRecord) []model.FlaggedInvoiceRecord {
	return DetectWithOptions(records, DefaultOptions())
}

// DetectWithOptions classifies every record in the batch. The decision per
// record follows a fixed precedence, first match wins:
//
//  1. Shared Contact Info: a phone or email on this record is indexed to at
//     least one other canonical vendor.
//  2. Same Format, Different Vendor: the record belongs to a format group.
//  3. Different Format, Same Vendor: some earlier-stored record of the same
//     canonical vendor has layout similarity below the drift floor, or a
//     differing scanned/handwritten category.
//  4. Green Flag.
//
// All index maps are built read-only in single passes before any record is
// classified, so the batch-wide invariants hold for every decision. The
// function is pure: it recomputes everything from the input batch and shares
// no state across calls.
func DetectWithOptions(records []*model.InvoiceRecord, opts Options) []model.FlaggedInvoiceRecord {
	names := make([]string, len(records))
	for i, rec := range records {
		names[i] = strings.TrimSpace(rec.VendorName)
	}
	canonical := vendor.CanonicalizeThreshold(names, opts.VendorMatchThreshold)

	// contact -> canonical vendors seen with it, vendor -> records, in batch order
	contactVendors := make(map[string][]string)
	vendorRecords := make(map[string][]*model.InvoiceRecord)
	for i, rec := range records {
		cv := canonicalName(names[i], canonical)
		for _, p := range rec.PhoneNumbers {
			contactVendors[p] = append(contactVendors[p], cv)
		}
		for _, e := range rec.EmailAddresses {
			contactVendors[e] = append(contactVendors[e], cv)
		}
		vendorRecords[cv] = append(vendorRecords[cv], rec)
	}

	groups := formatgroup.Detect(records, canonical, opts.FormatGroupThreshold)
	groupByFile := make(map[string]int)
	for _, g := range groups {
		for _, rec := range g.Records {
			groupByFile[rec.FileName] = g.ID
		}
	}

	flagged := make([]model.FlaggedInvoiceRecord, 0, len(records))
	for i, rec := range records {
		cv := canonicalName(names[i], canonical)

		out := model.FlaggedInvoiceRecord{
			InvoiceRecord:   *rec,
			FlagType:        model.FlagGreen,
			FlagReason:      "No issues detected.",
			CanonicalVendor: cv,
		}
		if id, ok := groupByFile[rec.FileName]; ok {
			gid := id
			out.FormatGroupID = &gid
		}

		if contact, vendors, ok := sharedContact(rec, cv, contactVendors); ok {
			out.FlagType = model.FlagSharedContact
			out.FlagReason = fmt.Sprintf("Contact %s used by multiple vendors: %s",
				contact, strings.Join(vendors, ", "))
		} else if out.FormatGroupID != nil {
			g := groups[*out.FormatGroupID]
			var others []string
			for _, member := range g.Records {
				if member.FileName != rec.FileName {
					others = append(others, member.VendorName)
				}
			}
			out.FlagType = model.FlagSameFormatDifferentVendor
			out.FlagReason = fmt.Sprintf("Part of format group with vendors: %s (group_id=%d)",
				strings.Join(others, ", "), g.ID)
		} else if sim, drifted := layoutDrift(rec, vendorRecords[cv], opts.DriftFloor); drifted {
			out.FlagType = model.FlagDifferentFormatSameVendor
			out.FlagReason = fmt.Sprintf("Other invoice for %s has different format/layout (similarity=%.2f)",
				rec.VendorName, sim)
		}

		flagged = append(flagged, out)
	}

	return flagged
}

func canonicalName(raw string, canonical map[string]string) string {
	if c, ok := canonical[raw]; ok {
		return c
	}
	return raw
}

// sharedContact scans the record's phones then emails in stored order and
// returns the first contact also indexed to a different canonical vendor,
// along with the sorted distinct vendor set for the reason string.
func sharedContact(rec *model.InvoiceRecord, cv string, contactVendors map[string][]string) (string, []string, bool) {
	contacts := make([]string, 0, len(rec.PhoneNumbers)+len(rec.EmailAddresses))
	contacts = append(contacts, rec.PhoneNumbers...)
	contacts = append(contacts, rec.EmailAddresses...)

	for _, contact := range contacts {
		distinct := make(map[string]struct{})
		for _, v := range contactVendors[contact] {
			distinct[v] = struct{}{}
		}
		if len(distinct) < 2 {
			continue
		}
		delete(distinct, cv)
		if len(distinct) == 0 {
			continue
		}
		vendors := make([]string, 0, len(distinct)+1)
		vendors = append(vendors, cv)
		for v := range distinct {
			vendors = append(vendors, v)
		}
		sort.Strings(vendors)
		return contact, vendors, true
	}
	return "", nil, false
}

// layoutDrift compares the record against every other record of its canonical
// vendor in insertion order. The first one whose similarity falls below the
// floor, or whose scanned/handwritten category differs, decides.
func layoutDrift(rec *model.InvoiceRecord, siblings []*model.InvoiceRecord, floor float64) (float64, bool) {
	sig := layout.FingerprintRecord(rec)
	for _, other := range siblings {
		if other.FileName == rec.FileName {
			continue
		}
		sim := layout.Similarity(sig, layout.FingerprintRecord(other))
		if sim < floor ||
			rec.ScannedOrTyped != other.ScannedOrTyped ||
			rec.HandwrittenOrTyped != other.HandwrittenOrTyped {
			return sim, true
		}
	}
	return 0, false
}
