package exemplars

import (
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// FlashLoan lends an uncapped amount from the same pool the lending market
// prices collateral against
type FlashLoan struct{ base }

func NewFlashLoan() exemplar.Exemplar {
	return &FlashLoan{base{
		kind: models.FlashLoan,
		file: "flash_loan.go",
		info: exemplar.Info{
			Name:           "Flash Loan Attack",
			Description:    "Uncollateralized loans repaid in one transaction are used to move prices and profit from the distortion.",
			ExploitExample: "The attacker borrows a large amount, dumps it into the pool the protocol prices from, liquidates positions at the crashed spot price, and repays the loan in the same transaction.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"flash loans with no cap relative to liquidity",
				"prices read from a pool the borrower can trade against",
			},
			Remediation: []string{
				"cap flash loans as a share of pool liquidity and charge a fee",
				"price collateral from an independent oracle",
			},
		},
	}}
}

// constantProduct is an x*y=k pool of a base and a quote token
type constantProduct struct {
	base, quote uint64
}

func (p *constantProduct) swapBaseIn(amount uint64) uint64 {
	k := p.base * p.quote
	p.base += amount
	next := k / p.base
	out := p.quote - next
	p.quote = next
	return out
}

func (p *constantProduct) swapQuoteIn(amount uint64) uint64 {
	k := p.base * p.quote
	p.quote += amount
	next := k / p.quote
	out := p.base - next
	p.base = next
	return out
}

// spotPrice is quote per base in hundredths
func (p *constantProduct) spotPrice() uint64 {
	return p.quote * 100 / p.base
}

type lendingMarket struct {
	collateral, debt, liquidationPct uint64
}

func openMarket(setup exemplar.Values) (*constantProduct, lendingMarket) {
	pool := &constantProduct{base: setup.Uint64("pool_base"), quote: setup.Uint64("pool_quote")}
	market := lendingMarket{
		collateral:     setup.Uint64("collateral"),
		debt:           setup.Uint64("debt"),
		liquidationPct: setup.Uint64("liquidation_pct"),
	}
	return pool, market
}

func (f *FlashLoan) Vulnerable(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	pool, market := openMarket(in.Setup)
	loan := in.Setup.Uint64("loan")

	m.Step()
	out := pool.swapBaseIn(loan) // vuln:source
	price := pool.spotPrice()    // vuln:sink
	liquidated := market.collateral*price < market.debt*market.liquidationPct
	var seized uint64
	if liquidated {
		seized = market.collateral
	}
	returned := pool.swapQuoteIn(out) + seized
	if returned < loan {
		return nil, exemplar.Reject("flash loan not repaid: %d < %d", returned, loan)
	}

	return exemplar.Values{"liquidated": liquidated, "spot_price": price}, nil
}

func (f *FlashLoan) Secure(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	pool, market := openMarket(in.Setup)
	loan := in.Setup.Uint64("loan")

	if loan*100 > pool.base*in.Setup.Uint64("max_loan_pct") {
		return nil, exemplar.Reject("flash loan exceeds maximum allowed amount")
	}

	m.Step()
	out := pool.swapBaseIn(loan)
	price := pool.spotPrice()
	liquidated := market.collateral*price < market.debt*market.liquidationPct
	if pool.swapQuoteIn(out) < loan {
		return nil, exemplar.Reject("flash loan not repaid")
	}

	return exemplar.Values{"liquidated": liquidated, "spot_price": price}, nil
}
