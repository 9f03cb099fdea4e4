package poly

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse reads coefficients separated by whitespace or commas,
// highest degree first.
func Parse(text string) (Poly, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty coefficient list", ErrInvalidPolynomial)
	}

	p := make(Poly, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidPolynomial, f)
		}
		p = append(p, v)
	}
	return p, nil
}
