package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/invoiceguard/internal/llm"
)

const validResponse = `{
	"vendor_name": "Acme Ltd",
	"phone_numbers": ["9999999999"],
	"email_addresses": ["billing@acme.example"],
	"gst_or_pan": "ABCDE1234F",
	"table_headers": ["Item", "Qty", "Price"],
	"table_row_data": [["Widget", "2", "50"]],
	"table_size": {"rows": 1, "columns": 3},
	"scanned_or_typed": "scanned",
	"handwritten_or_typed": "typed"
}`

func TestExtractInvoiceParsesStructuredResponse(t *testing.T) {
	mock := &MockLLMClient{Response: validResponse}
	extractor := NewExtractor(mock, "")

	record, failure := extractor.ExtractInvoice(context.Background(), "inv.pdf", "noisy ocr text", nil)

	require.Nil(t, failure)
	require.NotNil(t, record)
	assert.Equal(t, "inv.pdf", record.FileName)
	assert.Equal(t, "Acme Ltd", record.VendorName)
	assert.Equal(t, []string{"9999999999"}, record.PhoneNumbers)
	assert.Equal(t, []string{"Item", "Qty", "Price"}, record.TableHeaders)
	require.NotNil(t, record.TableSize)
	require.NotNil(t, record.TableSize.Rows)
	assert.Equal(t, 1, *record.TableSize.Rows)
	assert.Equal(t, "scanned", record.ScannedOrTyped)
	assert.Contains(t, mock.LastPrompt, "noisy ocr text")
}

func TestExtractInvoiceStripsMarkdownFences(t *testing.T) {
	mock := &MockLLMClient{Response: "Sure, here is the extraction:\n```json\n" + validResponse + "\n```"}
	extractor := NewExtractor(mock, "")

	record, failure := extractor.ExtractInvoice(context.Background(), "inv.pdf", "text", nil)

	require.Nil(t, failure)
	assert.Equal(t, "Acme Ltd", record.VendorName)
}

func TestExtractInvoiceUnstructuredResponse(t *testing.T) {
	mock := &MockLLMClient{Response: "I could not find any invoice fields in this document."}
	extractor := NewExtractor(mock, "")

	record, failure := extractor.ExtractInvoice(context.Background(), "inv.pdf", "text", nil)

	assert.Nil(t, record)
	require.NotNil(t, failure)
	assert.Equal(t, "inv.pdf", failure.FileName)
	assert.Equal(t, "LLM returned unstructured text", failure.Error)
	assert.Equal(t, mock.Response, failure.RawOutput)
}

func TestExtractInvoiceTransportError(t *testing.T) {
	mock := &MockLLMClient{Err: errors.New("connection refused")}
	extractor := NewExtractor(mock, "")

	record, failure := extractor.ExtractInvoice(context.Background(), "inv.pdf", "text", nil)

	assert.Nil(t, record)
	require.NotNil(t, failure)
	assert.Contains(t, failure.Error, "connection refused")
}

func TestExtractInvoicePassesPageImages(t *testing.T) {
	mock := &MockLLMClient{Response: validResponse}
	extractor := NewExtractor(mock, "")
	images := []llm.Image{{MIME: "image/png", Data: []byte{0x89, 0x50}}}

	_, failure := extractor.ExtractInvoice(context.Background(), "inv.pdf", "text", images)

	require.Nil(t, failure)
	assert.Equal(t, images, mock.LastImages)
}

func TestExtractInvoiceNullTableFields(t *testing.T) {
	mock := &MockLLMClient{Response: `{"vendor_name": "Acme Ltd", "table_size": null, "table_headers": [], "table_row_data": []}`}
	extractor := NewExtractor(mock, "")

	record, failure := extractor.ExtractInvoice(context.Background(), "inv.pdf", "text", nil)

	require.Nil(t, failure)
	assert.Nil(t, record.TableSize)
	assert.Empty(t, record.TableHeaders)
}
