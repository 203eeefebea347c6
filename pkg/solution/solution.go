package solution

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/helinwang/auction/pkg/settlement"
)

// Solution is the canonical wire representation of a winning
// settlement, consumed by the execution layer. All 256 bit amounts
// are decimal strings and all byte fields are 0x prefixed lowercase
// hex, so no value ever passes through a float.
type Solution struct {
	Prices       map[common.Address]*Number `json:"prices"`
	Trades       []Trade                    `json:"trades"`
	Interactions []Interaction              `json:"interactions"`
}

// Trivial returns the well-formed "no solution found" solution: no
// prices, no trades, no interactions.
func Trivial() *Solution {
	return &Solution{
		Prices:       map[common.Address]*Number{},
		Trades:       []Trade{},
		Interactions: []Interaction{},
	}
}

// Decode strictly parses a solution document. Unknown union tags and
// unknown enumeration values are errors, never silently defaulted.
func Decode(b []byte) (*Solution, error) {
	var s Solution
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Trade is a closed sum: exactly one of the variants is set. On the
// wire the variant is discriminated by the "kind" tag, "fulfillment"
// or "jit".
type Trade struct {
	Fulfillment *Fulfillment
	Jit         *JitTrade
}

func (t Trade) MarshalJSON() ([]byte, error) {
	switch {
	case t.Fulfillment != nil && t.Jit == nil:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*Fulfillment
		}{"fulfillment", t.Fulfillment})
	case t.Jit != nil && t.Fulfillment == nil:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*JitTrade
		}{"jit", t.Jit})
	}
	return nil, fmt.Errorf("trade must have exactly one variant set")
}

func (t *Trade) UnmarshalJSON(b []byte) error {
	var tag struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(b, &tag); err != nil {
		return err
	}

	switch tag.Kind {
	case "fulfillment":
		t.Jit = nil
		t.Fulfillment = new(Fulfillment)
		return json.Unmarshal(b, t.Fulfillment)
	case "jit":
		t.Fulfillment = nil
		t.Jit = new(JitTrade)
		return json.Unmarshal(b, t.Jit)
	}
	return fmt.Errorf("unknown trade kind: %q", tag.Kind)
}

// Fulfillment executes an order that exists in the order book,
// referenced by its uid.
type Fulfillment struct {
	Order          settlement.OrderUid `json:"order"`
	ExecutedAmount *Number             `json:"executedAmount"`
}

// JitTrade executes an order the solver created just in time, so the
// order is spelled out in full instead of referenced.
type JitTrade struct {
	Order          JitOrder `json:"order"`
	ExecutedAmount *Number  `json:"executed_amount"`
}

// JitOrder is a fully specified synthetic order. Field names are
// snake_case on the wire; this asymmetry with Fulfillment is part of
// the observed contract and must not be "fixed".
type JitOrder struct {
	SellToken         common.Address              `json:"sell_token"`
	BuyToken          common.Address              `json:"buy_token"`
	Receiver          common.Address              `json:"receiver"`
	SellAmount        *Number                     `json:"sell_amount"`
	BuyAmount         *Number                     `json:"buy_amount"`
	ValidTo           uint32                      `json:"valid_to"`
	AppData           common.Hash                 `json:"app_data"`
	FeeAmount         *Number                     `json:"fee_amount"`
	Kind              settlement.OrderKind        `json:"kind"`
	PartiallyFillable bool                        `json:"partially_fillable"`
	SellTokenBalance  settlement.SellTokenBalance `json:"sell_token_balance"`
	BuyTokenBalance   settlement.BuyTokenBalance  `json:"buy_token_balance"`
	SigningScheme     settlement.SigningScheme    `json:"signing_scheme"`
	Signature         hexutil.Bytes               `json:"signature"`
}

// Interaction is a closed sum discriminated by the "kind" tag,
// "Liquidity" or "Custom".
type Interaction struct {
	Liquidity *LiquidityInteraction
	Custom    *CustomInteraction
}

func (i Interaction) MarshalJSON() ([]byte, error) {
	switch {
	case i.Liquidity != nil && i.Custom == nil:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*LiquidityInteraction
		}{"Liquidity", i.Liquidity})
	case i.Custom != nil && i.Liquidity == nil:
		return json.Marshal(struct {
			Kind string `json:"kind"`
			*CustomInteraction
		}{"Custom", i.Custom})
	}
	return nil, fmt.Errorf("interaction must have exactly one variant set")
}

func (i *Interaction) UnmarshalJSON(b []byte) error {
	var tag struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(b, &tag); err != nil {
		return err
	}

	switch tag.Kind {
	case "Liquidity":
		i.Custom = nil
		i.Liquidity = new(LiquidityInteraction)
		return json.Unmarshal(b, i.Liquidity)
	case "Custom":
		i.Liquidity = nil
		i.Custom = new(CustomInteraction)
		return json.Unmarshal(b, i.Custom)
	}
	return fmt.Errorf("unknown interaction kind: %q", tag.Kind)
}

// LiquidityInteraction swaps against a pool the execution layer
// already knows, referenced by its internal id.
type LiquidityInteraction struct {
	Internalize  bool           `json:"internalize"`
	ID           int            `json:"id"`
	InputToken   common.Address `json:"inputToken"`
	OutputToken  common.Address `json:"outputToken"`
	InputAmount  *Number        `json:"inputAmount"`
	OutputAmount *Number        `json:"outputAmount"`
}

// CustomInteraction is an arbitrary external call with its required
// allowances and declared asset flow.
type CustomInteraction struct {
	Internalize bool           `json:"internalize"`
	Target      common.Address `json:"target"`
	Value       *Number        `json:"value"`
	CallData    hexutil.Bytes  `json:"callData"`
	Allowances  []Allowance    `json:"allowances"`
	Inputs      []Asset        `json:"inputs"`
	Outputs     []Asset        `json:"outputs"`
}

// Asset is a token amount moved by a custom interaction.
type Asset struct {
	Token  common.Address `json:"token"`
	Amount *Number        `json:"amount"`
}

// Allowance is a token approval a custom interaction requires.
type Allowance struct {
	Token   common.Address `json:"token"`
	Spender common.Address `json:"spender"`
	Amount  *Number        `json:"amount"`
}
