// Package resultset repairs query results returned by the reasoning
// service. The service executes generated SQL inside a Python runtime and
// sometimes hands back the rows as a repr of native Python values (tuples,
// None, Decimal(...), datetime constructors, single-quoted strings) instead
// of strict JSON. Normalize turns that dialect into plain Go values.
package resultset

import (
	"log/slog"
)

// Normalize converts a raw result payload into canonical row data.
//
// Non-string payloads are already structured and pass through unchanged.
// String payloads are parsed as Python/JSON literals; numbers come back as
// json.Number so digits survive intact (Decimal('120.50') keeps its
// trailing zero). A payload that cannot be parsed degrades to an empty row
// slice: the normalizer never fails, it only loses rows, and the malformed
// input is logged for diagnostics. The second return reports that rows
// were dropped so callers can count the degradation.
func Normalize(payload any) (any, bool) {
	raw, ok := payload.(string)
	if !ok {
		return payload, false
	}

	value, err := parseLiteral(raw)
	if err != nil {
		slog.Warn("failed to parse query result payload",
			slog.String("error", err.Error()),
			slog.String("payload", raw),
		)
		return []any{}, true
	}
	return value, false
}
