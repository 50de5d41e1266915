package fits

// Value is a typed header value: one of the six value forms a FITS header
// card can carry. Two Values are equal exactly when their types and
// payloads are equal; Go's interface comparison gives that directly, with
// no numeric coercion between forms.
type Value interface {
	headerValue()
}

// CharacterString is a quoted string value.
type CharacterString string

// Logical is a T/F boolean value.
type Logical bool

// Integer is a base-10 signed integer value.
type Integer int64

// Real is a floating-point value, in decimal or exponential notation.
type Real float64

// ComplexInteger is part of the value taxonomy but is never produced by
// the card codec: complex forms need a two-part value sub-field and no
// two-part parse is implemented.
type ComplexInteger struct {
	Re, Im int64
}

// ComplexReal is part of the value taxonomy but is never produced by the
// card codec; see ComplexInteger.
type ComplexReal struct {
	Re, Im float64
}

func (CharacterString) headerValue() {}
func (Logical) headerValue()         {}
func (Integer) headerValue()         {}
func (Real) headerValue()            {}
func (ComplexInteger) headerValue()  {}
func (ComplexReal) headerValue()     {}
