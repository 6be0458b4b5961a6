package model

import "fmt"

// TableSize holds the extracted table dimensions. Either dimension may be
// absent when the LLM could not determine it.
type TableSize struct {
	Rows    *int `json:"rows"`
	Columns *int `json:"columns"`
}

// String renders the size as "RxC", substituting "?" for missing dimensions.
func (s *TableSize) String() string {
	rows, cols := "?", "?"
	if s != nil {
		if s.Rows != nil {
			rows = fmt.Sprintf("%d", *s.Rows)
		}
		if s.Columns != nil {
			cols = fmt.Sprintf("%d", *s.Columns)
		}
	}
	return rows + "x" + cols
}

// InvoiceRecord is the structured output of the OCR+LLM extraction step for a
// single document. FileName is unique within a batch and acts as the primary
// key; every other field may be missing or empty.
type InvoiceRecord struct {
	FileName           string     `json:"file_name"`
	VendorName         string     `json:"vendor_name"`
	GSTOrPAN           string     `json:"gst_or_pan,omitempty"`
	PhoneNumbers       []string   `json:"phone_numbers"`
	EmailAddresses     []string   `json:"email_addresses"`
	TableHeaders       []string   `json:"table_headers"`
	TableRowData       [][]any    `json:"table_row_data"`
	TableSize          *TableSize `json:"table_size"`
	ScannedOrTyped     string     `json:"scanned_or_typed"`
	HandwrittenOrTyped string     `json:"handwritten_or_typed"`
}

// FlagType is one of the four fixed red-flag categories.
type FlagType string

const (
	FlagGreen                     FlagType = "Green Flag"
	FlagSharedContact             FlagType = "Shared Contact Info"
	FlagSameFormatDifferentVendor FlagType = "Same Format, Different Vendor"
	FlagDifferentFormatSameVendor FlagType = "Different Format, Same Vendor"
)

// FlaggedInvoiceRecord is an InvoiceRecord annotated by the classifier.
// Immutable after creation; consumed by the reporting layer.
type FlaggedInvoiceRecord struct {
	InvoiceRecord
	FlagType        FlagType `json:"flag_type"`
	FlagReason      string   `json:"flag_reason"`
	CanonicalVendor string   `json:"canonical_vendor"`
	FormatGroupID   *int     `json:"format_group_id"`
}

// ExtractionFailure records a document whose OCR or LLM step failed. Failed
// documents are excluded from correlation entirely; RawOutput preserves the
// unparseable LLM response for operator inspection.
type ExtractionFailure struct {
	FileName  string `json:"file_name"`
	Error     string `json:"error"`
	RawOutput string `json:"raw_output,omitempty"`
}
