package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	log "github.com/helinwang/log15"
	"github.com/holiman/uint256"
	"github.com/urfave/cli"
	yaml "gopkg.in/yaml.v2"

	"github.com/helinwang/auction/pkg/auction"
	"github.com/helinwang/auction/pkg/settlement"
)

var configPath string

type config struct {
	MinOrderAge string `yaml:"min_order_age"`
	HistorySize int    `yaml:"history_size"`
}

func loadConfig(path string) (auction.Config, error) {
	var cfg auction.Config
	if path == "" {
		cfg.MinOrderAge = time.Minute
		return cfg, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	var c config
	err = yaml.UnmarshalStrict(b, &c)
	if err != nil {
		return cfg, err
	}

	cfg.MinOrderAge, err = time.ParseDuration(c.MinOrderAge)
	if err != nil {
		return cfg, fmt.Errorf("min_order_age: %v", err)
	}

	cfg.HistorySize = c.HistorySize
	return cfg, nil
}

// logSolver is the solver handle used when replaying an auction from
// a file: there is no live solver process to call back, so results
// are only logged.
type logSolver struct {
	name string
}

func (s *logSolver) Name() string {
	return s.name
}

func (s *logSolver) NotifyAuctionResult(auctionID int64, result auction.AuctionResult) {
	log.Info(
		"auction result",
		"auction", auctionID, "solver", s.name,
		"kind", result.Kind, "rank", result.Rank, "reason", result.Reason,
	)
}

type auctionFile struct {
	AuctionID  int64           `json:"auctionId"`
	Candidates []candidateJSON `json:"candidates"`
}

type candidateJSON struct {
	Solver                string         `json:"solver"`
	Surplus               string         `json:"surplus"`
	UnscaledSubsidizedFee string         `json:"unscaledSubsidizedFee"`
	ScaledUnsubsidizedFee string         `json:"scaledUnsubsidizedFee"`
	GasEstimate           string         `json:"gasEstimate"`
	GasPrice              string         `json:"gasPrice"`
	Settlement            settlementJSON `json:"settlement"`
}

type settlementJSON struct {
	Prices       map[common.Address]string `json:"prices"`
	Trades       []tradeJSON               `json:"trades"`
	Interactions []interactionJSON         `json:"interactions"`
}

type tradeJSON struct {
	Uid            settlement.OrderUid `json:"uid"`
	CreationDate   time.Time           `json:"creationDate"`
	Class          string              `json:"class"`
	ExecutedAmount string              `json:"executedAmount"`
	Jit            bool                `json:"jit"`
	Order          *jitOrderJSON       `json:"order,omitempty"`
}

type jitOrderJSON struct {
	SellToken         common.Address `json:"sellToken"`
	BuyToken          common.Address `json:"buyToken"`
	Receiver          common.Address `json:"receiver"`
	SellAmount        string         `json:"sellAmount"`
	BuyAmount         string         `json:"buyAmount"`
	ValidTo           uint32         `json:"validTo"`
	AppData           common.Hash    `json:"appData"`
	FeeAmount         string         `json:"feeAmount"`
	Kind              string         `json:"kind"`
	PartiallyFillable bool           `json:"partiallyFillable"`
	SellTokenBalance  string         `json:"sellTokenBalance"`
	BuyTokenBalance   string         `json:"buyTokenBalance"`
	SigningScheme     string         `json:"signingScheme"`
	Signature         hexutil.Bytes  `json:"signature"`
}

type interactionJSON struct {
	Kind        string `json:"kind"`
	Internalize bool   `json:"internalize"`

	// liquidity
	ID           int            `json:"id,omitempty"`
	InputToken   common.Address `json:"inputToken,omitempty"`
	OutputToken  common.Address `json:"outputToken,omitempty"`
	InputAmount  string         `json:"inputAmount,omitempty"`
	OutputAmount string         `json:"outputAmount,omitempty"`

	// custom
	Target     common.Address  `json:"target,omitempty"`
	Value      string          `json:"value,omitempty"`
	CallData   hexutil.Bytes   `json:"callData,omitempty"`
	Allowances []allowanceJSON `json:"allowances,omitempty"`
	Inputs     []assetJSON     `json:"inputs,omitempty"`
	Outputs    []assetJSON     `json:"outputs,omitempty"`
}

type assetJSON struct {
	Token  common.Address `json:"token"`
	Amount string         `json:"amount"`
}

type allowanceJSON struct {
	Token   common.Address `json:"token"`
	Spender common.Address `json:"spender"`
	Amount  string         `json:"amount"`
}

func parseRat(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid rational number: %q", s)
	}
	return r, nil
}

func parseU256(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid decimal number %q: %v", s, err)
	}
	return v, nil
}

func (t *tradeJSON) toTrade() (settlement.Trade, error) {
	var r settlement.Trade

	class, err := settlement.ParseOrderClass(t.Class)
	if err != nil {
		return r, err
	}

	executed, err := parseU256(t.ExecutedAmount)
	if err != nil {
		return r, fmt.Errorf("executedAmount: %v", err)
	}

	r = settlement.Trade{
		Order: settlement.Order{
			Uid:          t.Uid,
			CreationDate: t.CreationDate,
			Class:        class,
		},
		ExecutedAmount: executed,
		Jit:            t.Jit,
	}

	if t.Order == nil {
		return r, nil
	}

	o := t.Order
	sellAmount, err := parseU256(o.SellAmount)
	if err != nil {
		return r, fmt.Errorf("sellAmount: %v", err)
	}
	buyAmount, err := parseU256(o.BuyAmount)
	if err != nil {
		return r, fmt.Errorf("buyAmount: %v", err)
	}
	feeAmount, err := parseU256(o.FeeAmount)
	if err != nil {
		return r, fmt.Errorf("feeAmount: %v", err)
	}

	r.Order.SellToken = o.SellToken
	r.Order.BuyToken = o.BuyToken
	r.Order.Receiver = o.Receiver
	r.Order.SellAmount = sellAmount
	r.Order.BuyAmount = buyAmount
	r.Order.FeeAmount = feeAmount
	r.Order.ValidTo = o.ValidTo
	r.Order.AppData = o.AppData
	r.Order.Kind = settlement.OrderKind(o.Kind)
	r.Order.PartiallyFillable = o.PartiallyFillable
	r.Order.SellTokenBalance = settlement.SellTokenBalance(o.SellTokenBalance)
	r.Order.BuyTokenBalance = settlement.BuyTokenBalance(o.BuyTokenBalance)
	r.Order.SigningScheme = settlement.SigningScheme(o.SigningScheme)
	r.Order.Signature = o.Signature
	return r, nil
}

func (in *interactionJSON) toInteraction() (settlement.Interaction, error) {
	switch in.Kind {
	case "liquidity":
		inputAmount, err := parseU256(in.InputAmount)
		if err != nil {
			return nil, fmt.Errorf("inputAmount: %v", err)
		}
		outputAmount, err := parseU256(in.OutputAmount)
		if err != nil {
			return nil, fmt.Errorf("outputAmount: %v", err)
		}
		return &settlement.LiquidityInteraction{
			Internalize:  in.Internalize,
			ID:           in.ID,
			InputToken:   in.InputToken,
			OutputToken:  in.OutputToken,
			InputAmount:  inputAmount,
			OutputAmount: outputAmount,
		}, nil
	case "custom":
		value, err := parseU256(in.Value)
		if err != nil {
			return nil, fmt.Errorf("value: %v", err)
		}
		c := &settlement.CustomInteraction{
			Internalize: in.Internalize,
			Target:      in.Target,
			Value:       value,
			CallData:    in.CallData,
		}
		for _, a := range in.Allowances {
			amount, err := parseU256(a.Amount)
			if err != nil {
				return nil, fmt.Errorf("allowance amount: %v", err)
			}
			c.Allowances = append(c.Allowances, settlement.Allowance{
				Token: a.Token, Spender: a.Spender, Amount: amount,
			})
		}
		for _, a := range in.Inputs {
			amount, err := parseU256(a.Amount)
			if err != nil {
				return nil, fmt.Errorf("input amount: %v", err)
			}
			c.Inputs = append(c.Inputs, settlement.Asset{Token: a.Token, Amount: amount})
		}
		for _, a := range in.Outputs {
			amount, err := parseU256(a.Amount)
			if err != nil {
				return nil, fmt.Errorf("output amount: %v", err)
			}
			c.Outputs = append(c.Outputs, settlement.Asset{Token: a.Token, Amount: amount})
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown interaction kind: %q", in.Kind)
}

func (s *settlementJSON) toSettlement() (*settlement.Settlement, error) {
	r := &settlement.Settlement{}

	if len(s.Prices) > 0 {
		r.Prices = make(map[common.Address]*uint256.Int, len(s.Prices))
		for token, price := range s.Prices {
			p, err := parseU256(price)
			if err != nil {
				return nil, fmt.Errorf("price of %s: %v", token, err)
			}
			r.Prices[token] = p
		}
	}

	for i, t := range s.Trades {
		trade, err := t.toTrade()
		if err != nil {
			return nil, fmt.Errorf("trade %d: %v", i, err)
		}
		r.Trades = append(r.Trades, trade)
	}

	for i := range s.Interactions {
		in, err := s.Interactions[i].toInteraction()
		if err != nil {
			return nil, fmt.Errorf("interaction %d: %v", i, err)
		}
		r.Interactions = append(r.Interactions, in)
	}

	return r, nil
}

func (c *candidateJSON) toCandidate() (auction.Candidate, error) {
	var r auction.Candidate

	s, err := c.Settlement.toSettlement()
	if err != nil {
		return r, err
	}

	surplus, err := parseRat(c.Surplus)
	if err != nil {
		return r, fmt.Errorf("surplus: %v", err)
	}
	unscaled, err := parseRat(c.UnscaledSubsidizedFee)
	if err != nil {
		return r, fmt.Errorf("unscaledSubsidizedFee: %v", err)
	}
	scaled, err := parseRat(c.ScaledUnsubsidizedFee)
	if err != nil {
		return r, fmt.Errorf("scaledUnsubsidizedFee: %v", err)
	}
	gasEstimate, err := parseU256(c.GasEstimate)
	if err != nil {
		return r, fmt.Errorf("gasEstimate: %v", err)
	}
	gasPrice, err := parseRat(c.GasPrice)
	if err != nil {
		return r, fmt.Errorf("gasPrice: %v", err)
	}

	return auction.Candidate{
		Solver:                &logSolver{name: c.Solver},
		Settlement:            s,
		Surplus:               surplus,
		UnscaledSubsidizedFee: unscaled,
		ScaledUnsubsidizedFee: scaled,
		GasEstimate:           gasEstimate,
		GasPrice:              gasPrice,
	}, nil
}

func run(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("usage: auction run AUCTION_FILE")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var file auctionFile
	err = json.Unmarshal(b, &file)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	driver, err := auction.NewDriver(cfg)
	if err != nil {
		return err
	}

	candidates := make([]auction.Candidate, len(file.Candidates))
	for i := range file.Candidates {
		candidates[i], err = file.Candidates[i].toCandidate()
		if err != nil {
			return fmt.Errorf("candidate %d (%s): %v", i, file.Candidates[i].Solver, err)
		}
	}

	encoded, winner, err := driver.Run(file.AuctionID, candidates)
	if err != nil {
		return err
	}

	if winner != nil {
		log.Info(
			"auction winner",
			"auction", file.AuctionID,
			"solver", winner.Solver.Name(),
			"objectiveValue", winner.ObjectiveValue().FloatString(0),
		)
	} else {
		log.Info("no valid settlement, emitting trivial solution", "auction", file.AuctionID)
	}

	out, err := json.MarshalIndent(encoded, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "auction"
	app.Usage = "evaluate candidate settlements for one batch auction round"

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:        "config, c",
			Usage:       "path to the YAML config file",
			Destination: &configPath,
		},
	}

	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "Run one auction round: ./auction run AUCTION_FILE",
			Action: run,
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Printf("command failed with error: %v\n", err)
	}
}
