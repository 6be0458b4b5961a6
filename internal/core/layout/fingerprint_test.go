package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/invoiceguard/internal/core/model"
)

func intp(v int) *int { return &v }

func TestFingerprintWithHeaders(t *testing.T) {
	size := &model.TableSize{Rows: intp(2), Columns: intp(3)}

	sig := Fingerprint([]string{"Item", "Qty", "Price"}, "scanned", size, "typed")

	assert.Equal(t, Signature("scanned::item | qty | price::2x3::typed"), sig)
}

func TestFingerprintFallsBackToScanType(t *testing.T) {
	sig := Fingerprint(nil, "scanned", nil, "typed")

	assert.Equal(t, Signature("scanned::scanned::?x?::typed"), sig)
}

func TestFingerprintUnknownTokens(t *testing.T) {
	sig := Fingerprint(nil, "", nil, "")

	assert.Equal(t, Signature("::unknown::?x?::unknown"), sig)
}

func TestFingerprintPartialTableSize(t *testing.T) {
	sig := Fingerprint([]string{"Name"}, "typed", &model.TableSize{Rows: intp(4)}, "typed")

	assert.Equal(t, Signature("typed::name::4x?::typed"), sig)
}

func TestFingerprintPreservesHeaderOrder(t *testing.T) {
	size := &model.TableSize{Rows: intp(2), Columns: intp(2)}

	a := Fingerprint([]string{"Qty", "Item"}, "typed", size, "typed")
	b := Fingerprint([]string{"Item", "Qty"}, "typed", size, "typed")

	assert.NotEqual(t, a, b)
}

func TestSimilarityReflexive(t *testing.T) {
	sigs := []Signature{
		Fingerprint([]string{"Item", "Qty", "Price"}, "scanned", &model.TableSize{Rows: intp(2), Columns: intp(3)}, "typed"),
		Fingerprint(nil, "", nil, ""),
		Fingerprint(nil, "typed", nil, "handwritten"),
	}

	for _, sig := range sigs {
		assert.Equal(t, 1.0, Similarity(sig, sig), "signature %q", sig)
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	a := Fingerprint([]string{"Item", "Qty", "Price"}, "scanned", nil, "typed")
	b := Fingerprint([]string{"Description", "Amount"}, "typed", nil, "typed")

	assert.Equal(t, Similarity(a, b), Similarity(b, a))
}

func TestSimilarityDivergentLayoutsScoreLow(t *testing.T) {
	a := Fingerprint([]string{"Item", "Qty", "Price"}, "scanned", &model.TableSize{Rows: intp(2), Columns: intp(3)}, "typed")
	b := Fingerprint(nil, "", nil, "")

	sim := Similarity(a, b)
	assert.Less(t, sim, 0.4)
}

func TestSimilarAppliesCallerThreshold(t *testing.T) {
	a := Fingerprint([]string{"Item", "Qty", "Price"}, "scanned", &model.TableSize{Rows: intp(2), Columns: intp(3)}, "typed")
	b := Fingerprint([]string{"Item", "Qty", "Price"}, "scanned", &model.TableSize{Rows: intp(2), Columns: intp(3)}, "typed")

	ok, sim := Similar(a, b, 0.9)
	assert.True(t, ok)
	assert.Equal(t, 1.0, sim)

	ok, _ = Similar(a, Fingerprint(nil, "", nil, ""), 0.9)
	assert.False(t, ok)
}
