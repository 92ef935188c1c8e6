package resultset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// parseLiteral reads a single Python or JSON literal covering the shapes
// the reasoning service emits: lists/tuples, dicts, single- or
// double-quoted strings with backslash escapes, numbers, booleans,
// None/null, Decimal('...') and datetime.datetime(...). A recursive-descent
// reader is used instead of textual substitution so quotes and commas
// embedded inside string values do not corrupt the result.
func parseLiteral(src string) (any, error) {
	p := &parser{src: []rune(src)}
	p.skipSpace()
	value, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing input")
	}
	return value, nil
}

type parser struct {
	src []rune
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("resultset: %s at offset %d", fmt.Sprintf(format, args...), p.pos)
}

func (p *parser) peek() (rune, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) expect(r rune) error {
	c, ok := p.peek()
	if !ok || c != r {
		return p.errorf("expected %q", r)
	}
	p.pos++
	return nil
}

func (p *parser) parseValue() (any, error) {
	c, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of input")
	}

	switch {
	case c == '[':
		return p.parseSequence('[', ']')
	case c == '(':
		// tuple, normalized to an array
		return p.parseSequence('(', ')')
	case c == '{':
		return p.parseDict()
	case c == '\'' || c == '"':
		return p.parseString(c)
	case c == '-' || c == '+' || unicode.IsDigit(c):
		return p.parseNumber()
	case unicode.IsLetter(c) || c == '_':
		return p.parseIdentifier()
	}
	return nil, p.errorf("unexpected character %q", c)
}

func (p *parser) parseSequence(open, close rune) (any, error) {
	if err := p.expect(open); err != nil {
		return nil, err
	}

	items := []any{}
	for {
		p.skipSpace()
		if c, ok := p.peek(); ok && c == close {
			p.pos++
			return items, nil
		}

		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated sequence")
		}
		switch c {
		case ',':
			p.pos++ // trailing commas before close are fine
		case close:
		default:
			return nil, p.errorf("expected %q or %q", ',', close)
		}
	}
}

func (p *parser) parseDict() (any, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}

	result := map[string]any{}
	for {
		p.skipSpace()
		if c, ok := p.peek(); ok && c == '}' {
			p.pos++
			return result, nil
		}

		key, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		if err = p.expect(':'); err != nil {
			return nil, err
		}
		p.skipSpace()

		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		result[stringifyKey(key)] = value

		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated dict")
		}
		switch c {
		case ',':
			p.pos++
		case '}':
		default:
			return nil, p.errorf("expected %q or %q", ',', '}')
		}
	}
}

func stringifyKey(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprint(key)
}

func (p *parser) parseString(quote rune) (string, error) {
	p.pos++ // opening quote

	var b strings.Builder
	for {
		c, ok := p.peek()
		if !ok {
			return "", p.errorf("unterminated string")
		}
		p.pos++

		switch c {
		case quote:
			return b.String(), nil
		case '\\':
			esc, ok := p.peek()
			if !ok {
				return "", p.errorf("unterminated escape")
			}
			p.pos++
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case 'u', 'x':
				// JSON \uXXXX and Python \xNN escapes
				width := 4
				if esc == 'x' {
					width = 2
				}
				r, err := p.readHexRune(width)
				if err != nil {
					return "", err
				}
				if utf16.IsSurrogate(r) && p.pos+1 < len(p.src) && p.src[p.pos] == '\\' && p.src[p.pos+1] == 'u' {
					p.pos += 2
					r2, err := p.readHexRune(4)
					if err != nil {
						return "", err
					}
					if dec := utf16.DecodeRune(r, r2); dec != unicode.ReplacementChar {
						r = dec
					} else {
						b.WriteRune(r)
						r = r2
					}
				}
				b.WriteRune(r)
			default:
				// \', \", \\ and anything else: keep the escaped rune
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(c)
		}
	}
}

func (p *parser) readHexRune(width int) (rune, error) {
	if p.pos+width > len(p.src) {
		return 0, p.errorf("truncated hex escape")
	}
	n, err := strconv.ParseUint(string(p.src[p.pos:p.pos+width]), 16, 32)
	if err != nil {
		return 0, p.errorf("invalid hex escape")
	}
	p.pos += width
	return rune(n), nil
}

// parseNumber keeps the exact digit sequence via json.Number so values like
// 120.50 are not rounded through a float.
func (p *parser) parseNumber() (json.Number, error) {
	start := p.pos
	if c, ok := p.peek(); ok && (c == '-' || c == '+') {
		p.pos++
	}
	for {
		c, ok := p.peek()
		if !ok {
			break
		}
		if unicode.IsDigit(c) || c == '.' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		if (c == '-' || c == '+') && p.pos > start && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return "", p.errorf("invalid number")
	}
	return json.Number(string(p.src[start:p.pos])), nil
}

func (p *parser) parseIdentifier() (any, error) {
	start := p.pos
	for {
		c, ok := p.peek()
		if !ok {
			break
		}
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '.' {
			p.pos++
			continue
		}
		break
	}

	switch ident := string(p.src[start:p.pos]); ident {
	case "None", "null":
		return nil, nil
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	case "Decimal":
		return p.parseDecimalCall()
	case "datetime.datetime", "datetime.date":
		return p.parseDatetimeCall()
	default:
		return nil, p.errorf("unknown identifier %q", ident)
	}
}

// parseDecimalCall unwraps Decimal('123.45') into the bare digit string as
// a number.
func (p *parser) parseDecimalCall() (any, error) {
	p.skipSpace()
	if err := p.expect('('); err != nil {
		return nil, err
	}
	p.skipSpace()

	c, ok := p.peek()
	if !ok || (c != '\'' && c != '"') {
		return nil, p.errorf("expected quoted Decimal argument")
	}
	digits, err := p.parseString(c)
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if err = p.expect(')'); err != nil {
		return nil, err
	}
	return json.Number(digits), nil
}

// parseDatetimeCall flattens datetime.datetime(2024, 5, 1, 10, 30) into
// "2024-5-1-10-30". This is a lossy best-effort reconstruction of the
// constructor arguments, not a datetime parser; callers that need real
// timestamps should fix the producer instead.
func (p *parser) parseDatetimeCall() (any, error) {
	p.skipSpace()
	if err := p.expect('('); err != nil {
		return nil, err
	}

	var parts []string
	for {
		p.skipSpace()
		if c, ok := p.peek(); ok && c == ')' {
			p.pos++
			return strings.Join(parts, "-"), nil
		}

		arg, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		parts = append(parts, fmt.Sprint(arg))

		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated datetime constructor")
		}
		switch c {
		case ',':
			p.pos++
		case ')':
		default:
			return nil, p.errorf("expected %q or %q", ',', ')')
		}
	}
}
