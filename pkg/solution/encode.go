package solution

import (
	"fmt"

	"github.com/helinwang/auction/pkg/settlement"
)

// Encode converts a settlement into its canonical wire form. It
// assumes the settlement already passed maturity filtering and
// rating, no economic validation happens here. Unknown enumeration
// values on a just-in-time order fail the whole encoding rather than
// being coerced, silent substitution would change on-chain semantics.
func Encode(s *settlement.Settlement) (*Solution, error) {
	r := Trivial()

	for token, price := range s.Prices {
		r.Prices[token] = NewNumber(price)
	}

	for i, t := range s.Trades {
		if !t.Jit {
			r.Trades = append(r.Trades, Trade{Fulfillment: &Fulfillment{
				Order:          t.Order.Uid,
				ExecutedAmount: NewNumber(t.ExecutedAmount),
			}})
			continue
		}

		order, err := encodeJitOrder(&t.Order)
		if err != nil {
			return nil, fmt.Errorf("trade %d: %v", i, err)
		}

		r.Trades = append(r.Trades, Trade{Jit: &JitTrade{
			Order:          *order,
			ExecutedAmount: NewNumber(t.ExecutedAmount),
		}})
	}

	for i, in := range s.Interactions {
		encoded, err := encodeInteraction(in)
		if err != nil {
			return nil, fmt.Errorf("interaction %d: %v", i, err)
		}
		r.Interactions = append(r.Interactions, encoded)
	}

	return r, nil
}

func encodeJitOrder(o *settlement.Order) (*JitOrder, error) {
	if !o.Kind.Valid() {
		return nil, fmt.Errorf("unknown order kind: %q", string(o.Kind))
	}
	if !o.SellTokenBalance.Valid() {
		return nil, fmt.Errorf("unknown sell token balance: %q", string(o.SellTokenBalance))
	}
	if !o.BuyTokenBalance.Valid() {
		return nil, fmt.Errorf("unknown buy token balance: %q", string(o.BuyTokenBalance))
	}
	if !o.SigningScheme.Valid() {
		return nil, fmt.Errorf("unknown signing scheme: %q", string(o.SigningScheme))
	}

	return &JitOrder{
		SellToken:         o.SellToken,
		BuyToken:          o.BuyToken,
		Receiver:          o.Receiver,
		SellAmount:        NewNumber(o.SellAmount),
		BuyAmount:         NewNumber(o.BuyAmount),
		ValidTo:           o.ValidTo,
		AppData:           o.AppData,
		FeeAmount:         NewNumber(o.FeeAmount),
		Kind:              o.Kind,
		PartiallyFillable: o.PartiallyFillable,
		SellTokenBalance:  o.SellTokenBalance,
		BuyTokenBalance:   o.BuyTokenBalance,
		SigningScheme:     o.SigningScheme,
		Signature:         o.Signature,
	}, nil
}

func encodeInteraction(in settlement.Interaction) (Interaction, error) {
	switch v := in.(type) {
	case *settlement.LiquidityInteraction:
		return Interaction{Liquidity: &LiquidityInteraction{
			Internalize:  v.Internalize,
			ID:           v.ID,
			InputToken:   v.InputToken,
			OutputToken:  v.OutputToken,
			InputAmount:  NewNumber(v.InputAmount),
			OutputAmount: NewNumber(v.OutputAmount),
		}}, nil
	case *settlement.CustomInteraction:
		c := &CustomInteraction{
			Internalize: v.Internalize,
			Target:      v.Target,
			Value:       NewNumber(v.Value),
			CallData:    v.CallData,
			Allowances:  []Allowance{},
			Inputs:      []Asset{},
			Outputs:     []Asset{},
		}
		for _, a := range v.Allowances {
			c.Allowances = append(c.Allowances, Allowance{Token: a.Token, Spender: a.Spender, Amount: NewNumber(a.Amount)})
		}
		for _, a := range v.Inputs {
			c.Inputs = append(c.Inputs, encodeAsset(a))
		}
		for _, a := range v.Outputs {
			c.Outputs = append(c.Outputs, encodeAsset(a))
		}
		return Interaction{Custom: c}, nil
	}
	return Interaction{}, fmt.Errorf("unknown interaction type: %T", in)
}

func encodeAsset(a settlement.Asset) Asset {
	return Asset{Token: a.Token, Amount: NewNumber(a.Amount)}
}
