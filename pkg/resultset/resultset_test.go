package resultset

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NormalizePythonRepr(t *testing.T) {
	got, degraded := Normalize("[('Alice', Decimal('120.50')), ('Bob', None)]")

	assert.False(t, degraded)
	assert.Equal(t, []any{
		[]any{"Alice", json.Number("120.50")},
		[]any{"Bob", nil},
	}, got)
}

func Test_NormalizePassThrough(t *testing.T) {
	structured := []any{map[string]any{"name": "Alice", "total": 12.5}}
	got, degraded := Normalize(structured)
	assert.False(t, degraded)
	assert.Equal(t, structured, got)

	asMap := map[string]any{"rows": []any{}}
	got, degraded = Normalize(asMap)
	assert.False(t, degraded)
	assert.Equal(t, asMap, got)

	got, degraded = Normalize(nil)
	assert.False(t, degraded)
	assert.Nil(t, got)

	got, degraded = Normalize(42)
	assert.False(t, degraded)
	assert.Equal(t, 42, got)
}

func Test_NormalizeStrictJSON(t *testing.T) {
	got, degraded := Normalize(`[["a", 1.5, null, true]]`)
	assert.False(t, degraded)
	assert.Equal(t, []any{[]any{"a", json.Number("1.5"), nil, true}}, got)
}

// Strict JSON may carry \uXXXX escapes; the reader must decode them rather
// than keep the raw escape text.
func Test_NormalizeUnicodeEscapes(t *testing.T) {
	got, degraded := Normalize(`[["\u0041", "caf\u00e9"]]`)
	assert.False(t, degraded)
	assert.Equal(t, []any{[]any{"A", "café"}}, got)

	// surrogate pair for a rune outside the BMP
	got, degraded = Normalize(`["\ud83d\ude00"]`)
	assert.False(t, degraded)
	assert.Equal(t, []any{"😀"}, got)

	// python-style \xNN
	got, degraded = Normalize(`['\x41\x42']`)
	assert.False(t, degraded)
	assert.Equal(t, []any{"AB"}, got)
}

func Test_NormalizeDictRows(t *testing.T) {
	got, degraded := Normalize(`[{'name': 'Alice', 'total': Decimal('9.99'), 'vip': True}]`)
	assert.False(t, degraded)
	assert.Equal(t, []any{map[string]any{
		"name":  "Alice",
		"total": json.Number("9.99"),
		"vip":   true,
	}}, got)
}

func Test_NormalizeDatetime(t *testing.T) {
	got, _ := Normalize(`[(datetime.datetime(2024, 5, 1, 10, 30), 'x')]`)
	assert.Equal(t, []any{[]any{"2024-5-1-10-30", "x"}}, got)

	got, _ = Normalize(`[(datetime.date(2023, 12, 31),)]`)
	assert.Equal(t, []any{[]any{"2023-12-31"}}, got)
}

// An apostrophe inside a value is exactly the case that broke the old
// substitution-based repair; the reader must keep it intact.
func Test_NormalizeEmbeddedQuotes(t *testing.T) {
	got, _ := Normalize(`[("O'Brien", 1), ('He said "hi", twice', 2)]`)
	assert.Equal(t, []any{
		[]any{"O'Brien", json.Number("1")},
		[]any{`He said "hi", twice`, json.Number("2")},
	}, got)

	got, _ = Normalize(`[('It\'s fine', None)]`)
	assert.Equal(t, []any{[]any{"It's fine", nil}}, got)
}

func Test_NormalizeTrailingCommas(t *testing.T) {
	got, _ := Normalize(`[(1, 2,), (3,),]`)
	assert.Equal(t, []any{
		[]any{json.Number("1"), json.Number("2")},
		[]any{json.Number("3")},
	}, got)
}

func Test_NormalizeMalformedDegradesToEmpty(t *testing.T) {
	for _, in := range []string{
		"",
		"[(",
		"not a literal at all",
		"[1, 2", // unterminated
		"{'a' 1}",
		"[Decimal(120.50)]", // unquoted Decimal argument
		`["\uZZZZ"]`,        // broken hex escape
		`["\u00"]`,          // truncated hex escape
		"SELECT * FROM t",
	} {
		got, degraded := Normalize(in)
		assert.True(t, degraded, "input: %q", in)
		assert.Equal(t, []any{}, got, "input: %q", in)
	}
}

// Arbitrary garbage must never panic; the worst outcome is zero rows.
func Test_NormalizeRandomInputNeverPanics(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	alphabet := []rune(`[](){}'",:. \0aZ9-+eE_Noneux`)
	for i := 0; i < 5000; i++ {
		runes := make([]rune, r.Intn(40))
		for j := range runes {
			runes[j] = alphabet[r.Intn(len(alphabet))]
		}
		assert.NotPanics(t, func() {
			Normalize(string(runes))
		})
	}
}

func Test_NormalizeDeterministic(t *testing.T) {
	in := `[('a', Decimal('1.10'), datetime.datetime(2024, 1, 2)), ('b', None, True)]`
	first, _ := Normalize(in)
	for i := 0; i < 10; i++ {
		got, _ := Normalize(in)
		assert.Equal(t, first, got)
	}
}
