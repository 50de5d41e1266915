package fits

import (
	"bytes"
	"strconv"
	"strings"
)

// Card and block geometry fixed by the FITS standard.
const (
	cardLength    = 80
	cardsPerBlock = 36
	blockSize     = cardLength * cardsPerBlock // 2880
)

// endKeyword marks the terminal card of a header.
const endKeyword = "END"

// Record is one parsed header card: a keyword, an optional typed value and
// an optional comment. Value is nil when the card has no value indicator
// or its value sub-field is malformed.
type Record struct {
	Keyword    string
	Value      Value
	Comment    string
	HasComment bool
}

// parseCard parses one 80-byte card image. ok is false only when the
// keyword field is entirely blank: such cards are inter-card filler and
// are never recorded.
func parseCard(card []byte) (Record, bool) {
	keyword := card[0:8]
	if i := bytes.IndexByte(keyword, ' '); i >= 0 {
		keyword = keyword[:i]
	}
	if len(keyword) == 0 {
		return Record{}, false
	}

	rec := Record{Keyword: string(keyword)}

	// A value is present only behind the "= " value indicator. Anything
	// else makes the rest of the card an untyped comment, which is not
	// separately captured.
	if card[8] == '=' && card[9] == ' ' {
		value, comment, hasComment := splitValueComment(card[10:cardLength])
		rec.Value = parseValue(value)
		rec.Comment = comment
		rec.HasComment = hasComment
	}
	return rec, true
}

// splitValueComment splits the 70-byte value/comment field on the first
// slash. The comment is everything after it, trimmed of surrounding
// whitespace; there is no comment when no slash is present.
func splitValueComment(field []byte) (value []byte, comment string, hasComment bool) {
	i := bytes.IndexByte(field, '/')
	if i < 0 {
		return field, "", false
	}
	return field[:i], strings.TrimSpace(string(field[i+1:])), true
}

// parseValue types a value sub-field. Interpretations are tried in fixed
// priority order and the first success wins. A sub-field matching none of
// them degrades to an absent value rather than an error.
func parseValue(sub []byte) Value {
	if v, ok := parseCharacterString(sub); ok {
		return v
	}
	if v, ok := parseLogical(sub); ok {
		return v
	}
	if v, ok := parseInteger(sub); ok {
		return v
	}
	if v, ok := parseReal(sub); ok {
		return v
	}
	return nil
}

// parseCharacterString parses a quoted string value. A doubled single
// quote is an escaped literal quote; the string ends at the first
// unescaped quote. Trailing blanks before the closing quote are dropped,
// except that an all-blank string keeps exactly one space.
func parseCharacterString(sub []byte) (Value, bool) {
	if len(sub) == 0 || sub[0] != '\'' {
		return nil, false
	}
	var b strings.Builder
	pending := 0 // run of blanks not yet known to be interior
	prevQuote := false
loop:
	for i, c := range sub[1:] {
		switch {
		case prevQuote:
			if c != '\'' {
				break loop
			}
			b.WriteByte('\'')
			prevQuote = false
		case c == '\'':
			prevQuote = true
		case c == ' ' && i > 0:
			pending++
		default:
			for ; pending > 0; pending-- {
				b.WriteByte(' ')
			}
			b.WriteByte(c)
		}
	}
	return CharacterString(b.String()), true
}

// logicalColumn is the fixed column of the T/F constant within the value
// sub-field (byte 30 of the card).
const logicalColumn = 19

// parseLogical parses a logical value: a single T or F at logicalColumn
// with every other byte blank.
func parseLogical(sub []byte) (Value, bool) {
	v := false
	for i, c := range sub {
		if i == logicalColumn {
			switch c {
			case 'T':
				v = true
			case 'F':
				v = false
			default:
				return nil, false
			}
		} else if c != ' ' {
			return nil, false
		}
	}
	return Logical(v), true
}

func parseInteger(sub []byte) (Value, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(string(sub)), 10, 64)
	if err != nil {
		return nil, false
	}
	return Integer(n), true
}

func parseReal(sub []byte) (Value, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(sub)), 64)
	if err != nil {
		return nil, false
	}
	return Real(f), true
}
