package solution

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
)

// Number is a 256 bit unsigned integer that travels as a decimal
// string on the wire: no hex, no exponent and no floating point, so
// round trips are exact.
type Number struct {
	uint256.Int
}

// NewNumber wraps a uint256 value for wire encoding. A nil value
// encodes as zero.
func NewNumber(v *uint256.Int) *Number {
	n := new(Number)
	if v != nil {
		n.Int.Set(v)
	}
	return n
}

// Unwrap returns the wrapped 256 bit value.
func (n *Number) Unwrap() *uint256.Int {
	return new(uint256.Int).Set(&n.Int)
}

func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Dec())
}

func (n *Number) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("number must be a decimal string: %v", err)
	}

	if err := n.SetFromDecimal(s); err != nil {
		return fmt.Errorf("invalid decimal number %q: %v", s, err)
	}
	return nil
}
