package dump

import (
	"errors"
	"strings"
)

// ErrUnterminatedString is reported when a quoted literal is still open at the
// end of a VALUES clause. The enclosing tuple is discarded.
var ErrUnterminatedString = errors.New("unterminated quoted string")

// scanValue parses one SQL literal beginning at (or after insignificant
// whitespace following) pos and returns the decoded value plus the offset
// immediately after it. A nil value is the NULL marker; it is distinct from a
// pointer to the empty string.
func scanValue(s string, pos int) (val *string, next int, err error) {
	for pos < len(s) && isSpace(s[pos]) {
		pos++
	}
	if pos >= len(s) {
		empty := ""
		return &empty, pos, nil
	}

	// Unquoted NULL keyword, any letter case, followed by a delimiter.
	if pos+4 <= len(s) && strings.EqualFold(s[pos:pos+4], "NULL") && atDelimiter(s, pos+4) {
		return nil, pos + 4, nil
	}

	if s[pos] == '\'' || s[pos] == '"' {
		return scanQuoted(s, pos)
	}

	// Bare token: numeric literal or keyword, up to the next delimiter.
	start := pos
	for pos < len(s) && s[pos] != ',' && s[pos] != ')' {
		pos++
	}
	token := strings.TrimSpace(s[start:pos])
	return &token, pos, nil
}

func scanQuoted(s string, pos int) (val *string, next int, err error) {
	quote := s[pos]
	pos++

	var buf strings.Builder
	for pos < len(s) {
		c := s[pos]

		if c == '\\' && pos+1 < len(s) {
			switch s[pos+1] {
			case 'n':
				buf.WriteByte('\n')
			case 't':
				buf.WriteByte('\t')
			case 'r':
				buf.WriteByte('\r')
			case '0':
				buf.WriteByte(0)
			default:
				// covers \\, \' and any other escaped character: the
				// backslash is stripped, the character kept
				buf.WriteByte(s[pos+1])
			}
			pos += 2
			continue
		}

		if c == quote {
			if pos+1 < len(s) && s[pos+1] == quote {
				// doubled-quote escape, does not terminate the literal
				buf.WriteByte(quote)
				pos += 2
				continue
			}
			decoded := buf.String()
			return &decoded, pos + 1, nil
		}

		buf.WriteByte(c)
		pos++
	}

	return nil, len(s), ErrUnterminatedString
}

// tupleScanner walks the substring following the VALUES keyword (without the
// terminating semicolon) and yields one field slice per top-level (...) tuple.
// Parentheses inside quoted literals never terminate a tuple, because all
// in-literal scanning is delegated to scanValue.
type tupleScanner struct {
	src string
	pos int
}

func newTupleScanner(values string) *tupleScanner {
	return &tupleScanner{src: values}
}

// next returns the fields of the next tuple. ok is false once the clause is
// exhausted. When err is non-nil the current tuple was discarded and scanning
// resumes after a best-effort recovery point on the following call.
func (ts *tupleScanner) next() (fields []*string, ok bool, err error) {
	// skip whitespace and commas between tuples
	for ts.pos < len(ts.src) && (isSpace(ts.src[ts.pos]) || ts.src[ts.pos] == ',') {
		ts.pos++
	}
	// tolerate stray characters before the opening parenthesis
	for ts.pos < len(ts.src) && ts.src[ts.pos] != '(' {
		ts.pos++
	}
	if ts.pos >= len(ts.src) {
		return nil, false, nil
	}
	ts.pos++

	for ts.pos < len(ts.src) {
		for ts.pos < len(ts.src) && isSpace(ts.src[ts.pos]) {
			ts.pos++
		}
		if ts.pos >= len(ts.src) {
			break
		}
		if ts.src[ts.pos] == ')' {
			ts.pos++
			return fields, true, nil
		}

		val, next, err := scanValue(ts.src, ts.pos)
		if err != nil {
			errPos := ts.pos
			ts.pos = recoverTuple(ts.src, errPos)
			return nil, true, err
		}
		ts.pos = next
		fields = append(fields, val)

		for ts.pos < len(ts.src) && isSpace(ts.src[ts.pos]) {
			ts.pos++
		}
		if ts.pos < len(ts.src) && ts.src[ts.pos] == ',' {
			ts.pos++
		}
	}

	// clause ended inside a tuple; hand back what we have, the arity check
	// decides its fate
	return fields, true, nil
}

// recoverTuple finds the position after the next top-level ')' by bracket
// depth tracking, or the end of the clause.
func recoverTuple(s string, pos int) int {
	depth := 1
	for pos < len(s) {
		switch s[pos] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return pos + 1
			}
		}
		pos++
	}
	return len(s)
}

func atDelimiter(s string, pos int) bool {
	for pos < len(s) && isSpace(s[pos]) {
		pos++
	}
	return pos >= len(s) || s[pos] == ',' || s[pos] == ')'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
