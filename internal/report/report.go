// Package report renders flagged batches for operators: CSV for spreadsheets
// and pipelines, XLSX for direct review.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/agenthands/invoiceguard/internal/core/model"
)

// Columns every export carries, in order.
var Columns = []string{
	"file_name",
	"vendor_name",
	"canonical_vendor",
	"flag_type",
	"flag_reason",
	"format_group_id",
}

func row(rec model.FlaggedInvoiceRecord) []string {
	groupID := ""
	if rec.FormatGroupID != nil {
		groupID = strconv.Itoa(*rec.FormatGroupID)
	}
	return []string{
		rec.FileName,
		rec.VendorName,
		rec.CanonicalVendor,
		string(rec.FlagType),
		rec.FlagReason,
		groupID,
	}
}

// WriteCSV streams the batch as CSV with a header row.
func WriteCSV(w io.Writer, records []model.FlaggedInvoiceRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(row(rec)); err != nil {
			return fmt.Errorf("write csv row for %s: %w", rec.FileName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX renders the batch as a single-sheet workbook.
func WriteXLSX(w io.Writer, records []model.FlaggedInvoiceRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, name := range Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for i, rec := range records {
		for col, value := range row(rec) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
