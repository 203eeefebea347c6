package settlement

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderUidHexRoundTrip(t *testing.T) {
	var uid OrderUid
	for i := range uid {
		uid[i] = byte(i)
	}

	h := uid.Hex()
	assert.True(t, strings.HasPrefix(h, "0x"))
	assert.Equal(t, 2+2*56, len(h))
	assert.Equal(t, strings.ToLower(h), h)

	var decoded OrderUid
	require.NoError(t, decoded.UnmarshalText([]byte(h)))
	assert.Equal(t, uid, decoded)
}

func TestOrderUidRejectsWrongLength(t *testing.T) {
	var uid OrderUid
	assert.Error(t, uid.UnmarshalText([]byte("0x0102")))
	assert.Error(t, uid.UnmarshalText([]byte("not hex")))
}

func TestClosedEnums(t *testing.T) {
	cases := []struct {
		valid   []string
		invalid string
		parse   func(string) error
	}{
		{
			valid:   []string{"sell", "buy"},
			invalid: "short",
			parse: func(s string) error {
				var k OrderKind
				return k.UnmarshalText([]byte(s))
			},
		},
		{
			valid:   []string{"erc20", "internal", "external"},
			invalid: "wallet",
			parse: func(s string) error {
				var b SellTokenBalance
				return b.UnmarshalText([]byte(s))
			},
		},
		{
			valid:   []string{"erc20", "internal"},
			invalid: "external",
			parse: func(s string) error {
				var b BuyTokenBalance
				return b.UnmarshalText([]byte(s))
			},
		},
		{
			valid:   []string{"eip712", "ethsign", "presign", "eip1271"},
			invalid: "eip155",
			parse: func(s string) error {
				var v SigningScheme
				return v.UnmarshalText([]byte(s))
			},
		},
	}

	for _, c := range cases {
		for _, v := range c.valid {
			assert.NoError(t, c.parse(v))
		}
		assert.Error(t, c.parse(c.invalid))
		assert.Error(t, c.parse(""))
	}
}

func TestEnumMarshalRejectsUnknown(t *testing.T) {
	_, err := OrderKind("short").MarshalText()
	assert.Error(t, err)

	_, err = SigningScheme("eip155").MarshalText()
	assert.Error(t, err)

	b, err := Sell.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "sell", string(b))
}
