package resultset

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseScalars(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"None", nil},
		{"null", nil},
		{"True", true},
		{"False", false},
		{"42", json.Number("42")},
		{"-3.14", json.Number("-3.14")},
		{"1e10", json.Number("1e10")},
		{"2.5e-3", json.Number("2.5e-3")},
		{"'single'", "single"},
		{`"double"`, "double"},
		{`'a\nb'`, "a\nb"},
		{"Decimal('0.001')", json.Number("0.001")},
		{`Decimal("7")`, json.Number("7")},
	}

	for _, c := range cases {
		got, err := parseLiteral(c.in)
		require.NoError(t, err, "input: %q", c.in)
		assert.Equal(t, c.want, got, "input: %q", c.in)
	}
}

func Test_ParseNested(t *testing.T) {
	got, err := parseLiteral(`[('a', [1, (2, 3)]), {'k': ('v',)}]`)
	require.NoError(t, err)
	assert.Equal(t, []any{
		[]any{"a", []any{json.Number("1"), []any{json.Number("2"), json.Number("3")}}},
		map[string]any{"k": []any{"v"}},
	}, got)
}

func Test_ParseRejectsTrailingInput(t *testing.T) {
	_, err := parseLiteral(`[1, 2] garbage`)
	assert.Error(t, err)
}

func Test_ParseUnknownIdentifier(t *testing.T) {
	_, err := parseLiteral(`[Inf]`)
	assert.Error(t, err)
}

// encodeRepr renders rows back into the Python dialect so parsing can be
// checked as a round trip.
func encodeRepr(v any) string {
	switch v := v.(type) {
	case nil:
		return "None"
	case bool:
		if v {
			return "True"
		}
		return "False"
	case string:
		return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
	case json.Number:
		return v.String()
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, encodeRepr(item))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return fmt.Sprint(v)
	}
}

func Test_ParseRoundTrip(t *testing.T) {
	rows := []any{
		[]any{"Alice", json.Number("120.50"), true},
		[]any{"Bob", nil, false},
		[]any{"quote ' comma ,", json.Number("-1")},
	}

	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, encodeRepr(row))
	}
	encoded := "[" + strings.Join(parts, ", ") + "]"

	got, err := parseLiteral(encoded)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}
