package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aetherlang/aethc/internal/diag"
)

func TestFromBagNilBagIsSuccess(t *testing.T) {
	r := FromBag(nil, true, 0, time.Second, time.Unix(0, 0).UTC())
	assert.True(t, r.Success)
	assert.True(t, r.CacheHit)
	assert.Empty(t, r.Diagnostics)
}

func TestFromBagFatalDiagnosticMarksFailure(t *testing.T) {
	bag := diag.NewBag(diag.Lenient)
	bag.Add(diag.New(diag.KindUndefinedVariable, diag.Fatal, "undefined variable %q", "x"))

	r := FromBag(bag, false, 2, 5*time.Millisecond, time.Unix(0, 0).UTC())
	assert.False(t, r.Success)
	assert.Equal(t, string(diag.KindUndefinedVariable), r.FatalKind)
	require.Len(t, r.Diagnostics, 1)
	assert.Equal(t, "undefined_variable", r.Diagnostics[0].Kind)
}

func TestFromBagNonFatalItemsStillSucceed(t *testing.T) {
	bag := diag.NewBag(diag.Lenient)
	bag.Add(diag.New(diag.KindEffectViolation, diag.Warning, "unused effect"))

	r := FromBag(bag, false, 0, 0, time.Unix(0, 0).UTC())
	assert.True(t, r.Success)
	assert.Empty(t, r.FatalKind)
	assert.Len(t, r.Diagnostics, 1)
}

func TestJSONRoundTripsReportFields(t *testing.T) {
	r := FromBag(nil, true, 3, 10*time.Millisecond, time.Unix(0, 0).UTC())
	out, err := r.JSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"success": true`)
	assert.Contains(t, out, `"optimizer_runs": 3`)
}

func TestJSONOmitsEmptyDiagnosticsAndFatalKind(t *testing.T) {
	r := FromBag(nil, false, 0, 0, time.Unix(0, 0).UTC())
	out, err := r.JSON()
	require.NoError(t, err)
	assert.NotContains(t, out, "diagnostics")
	assert.NotContains(t, out, "fatal_kind")
}
