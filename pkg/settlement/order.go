package settlement

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// OrderUid uniquely identifies an order within an auction.
type OrderUid [56]byte

// Hex returns the 0x prefixed lowercase hex representation of the uid.
func (u OrderUid) Hex() string {
	return hexutil.Encode(u[:])
}

func (u OrderUid) MarshalText() ([]byte, error) {
	return []byte(u.Hex()), nil
}

func (u *OrderUid) UnmarshalText(b []byte) error {
	d, err := hexutil.Decode(string(b))
	if err != nil {
		return err
	}

	if len(d) != len(u) {
		return fmt.Errorf("order uid must be %d bytes, got %d", len(u), len(d))
	}

	copy(u[:], d)
	return nil
}

// OrderClass describes how an order entered the system. Market and
// Limit orders come from real users, Liquidity orders are generated
// by solvers or the protocol itself.
type OrderClass uint8

const (
	Market OrderClass = iota
	Limit
	Liquidity
)

// IsUserOrder reports whether the order class belongs to a real user.
func (c OrderClass) IsUserOrder() bool {
	return c == Market || c == Limit
}

func (c OrderClass) String() string {
	switch c {
	case Market:
		return "market"
	case Limit:
		return "limit"
	case Liquidity:
		return "liquidity"
	}
	return fmt.Sprintf("unknown order class: %d", uint8(c))
}

// ParseOrderClass converts the string form of an order class.
func ParseOrderClass(s string) (OrderClass, error) {
	switch s {
	case "market":
		return Market, nil
	case "limit":
		return Limit, nil
	case "liquidity":
		return Liquidity, nil
	}
	return 0, fmt.Errorf("unknown order class: %q", s)
}

// OrderKind is the side of an order.
type OrderKind string

const (
	Sell OrderKind = "sell"
	Buy  OrderKind = "buy"
)

func (k OrderKind) Valid() bool {
	return k == Sell || k == Buy
}

func (k OrderKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("unknown order kind: %q", string(k))
	}
	return []byte(k), nil
}

func (k *OrderKind) UnmarshalText(b []byte) error {
	v := OrderKind(b)
	if !v.Valid() {
		return fmt.Errorf("unknown order kind: %q", string(b))
	}
	*k = v
	return nil
}

// SellTokenBalance is the source of an order's sell token funds.
type SellTokenBalance string

const (
	SellBalanceErc20    SellTokenBalance = "erc20"
	SellBalanceInternal SellTokenBalance = "internal"
	SellBalanceExternal SellTokenBalance = "external"
)

func (b SellTokenBalance) Valid() bool {
	return b == SellBalanceErc20 || b == SellBalanceInternal || b == SellBalanceExternal
}

func (b SellTokenBalance) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("unknown sell token balance: %q", string(b))
	}
	return []byte(b), nil
}

func (b *SellTokenBalance) UnmarshalText(d []byte) error {
	v := SellTokenBalance(d)
	if !v.Valid() {
		return fmt.Errorf("unknown sell token balance: %q", string(d))
	}
	*b = v
	return nil
}

// BuyTokenBalance is the destination of an order's buy token funds.
// External destinations are not supported.
type BuyTokenBalance string

const (
	BuyBalanceErc20    BuyTokenBalance = "erc20"
	BuyBalanceInternal BuyTokenBalance = "internal"
)

func (b BuyTokenBalance) Valid() bool {
	return b == BuyBalanceErc20 || b == BuyBalanceInternal
}

func (b BuyTokenBalance) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("unknown buy token balance: %q", string(b))
	}
	return []byte(b), nil
}

func (b *BuyTokenBalance) UnmarshalText(d []byte) error {
	v := BuyTokenBalance(d)
	if !v.Valid() {
		return fmt.Errorf("unknown buy token balance: %q", string(d))
	}
	*b = v
	return nil
}

// SigningScheme is the scheme the order signature was produced with.
type SigningScheme string

const (
	Eip712  SigningScheme = "eip712"
	EthSign SigningScheme = "ethsign"
	PreSign SigningScheme = "presign"
	Eip1271 SigningScheme = "eip1271"
)

func (s SigningScheme) Valid() bool {
	switch s {
	case Eip712, EthSign, PreSign, Eip1271:
		return true
	}
	return false
}

func (s SigningScheme) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown signing scheme: %q", string(s))
	}
	return []byte(s), nil
}

func (s *SigningScheme) UnmarshalText(b []byte) error {
	v := SigningScheme(b)
	if !v.Valid() {
		return fmt.Errorf("unknown signing scheme: %q", string(b))
	}
	*s = v
	return nil
}

// Order is a signed trade intent. It is immutable once created, the
// evaluation core only ever reads it.
type Order struct {
	Uid          OrderUid
	CreationDate time.Time
	Class        OrderClass

	SellToken common.Address
	BuyToken  common.Address
	Receiver  common.Address
	// amounts are in the smallest denomination of the traded token
	SellAmount *uint256.Int
	BuyAmount  *uint256.Int
	FeeAmount  *uint256.Int
	// the order is expired when ValidTo < the settlement block time
	ValidTo           uint32
	AppData           common.Hash
	Kind              OrderKind
	PartiallyFillable bool
	SellTokenBalance  SellTokenBalance
	BuyTokenBalance   BuyTokenBalance
	SigningScheme     SigningScheme
	Signature         []byte
}
