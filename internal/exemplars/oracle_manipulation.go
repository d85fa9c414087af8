package exemplars

import (
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// OracleManipulation liquidates against a single-source spot price that the
// attacker can push
type OracleManipulation struct{ base }

func NewOracleManipulation() exemplar.Exemplar {
	return &OracleManipulation{base{
		kind: models.OracleManipulation,
		file: "oracle_manipulation.go",
		info: exemplar.Info{
			Name:           "Oracle Manipulation",
			Description:    "Protocol decisions rely on a price feed an attacker can move within one transaction.",
			ExploitExample: "The attacker moves the single price feed the protocol reads, making a healthy loan look undercollateralized and liquidating it at a discount.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"single price source with no freshness or deviation checks",
				"liquidations computed from the latest spot price",
			},
			Remediation: []string{
				"aggregate several sources and use time weighted prices",
				"reject updates that deviate too far from recent history",
			},
		},
	}}
}

type priceOracle struct {
	history []uint64
}

func (o *priceOracle) latest() uint64 {
	return o.history[len(o.history)-1]
}

func (o *priceOracle) average() uint64 {
	var sum uint64
	for _, p := range o.history {
		sum += p
	}
	return sum / uint64(len(o.history))
}

type loanPosition struct {
	collateral, debt, thresholdPct uint64
}

func openPosition(setup exemplar.Values) loanPosition {
	return loanPosition{
		collateral:   setup.Uint64("collateral"),
		debt:         setup.Uint64("loan"),
		thresholdPct: setup.Uint64("threshold_pct"),
	}
}

// underwater reports whether the position falls below the threshold. Prices
// are quoted in hundredths.
func (p loanPosition) underwater(price uint64) bool {
	value := p.collateral * price / 100
	return value*100 < p.debt*p.thresholdPct
}

func (o *OracleManipulation) Vulnerable(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	oracle := &priceOracle{history: []uint64{in.Setup.Uint64("price")}}
	pos := openPosition(in.Setup)

	oracle.history = append(oracle.history, in.Setup.Uint64("manipulated_price")) // vuln:source
	liquidated := pos.underwater(oracle.latest())                                 // vuln:sink

	return exemplar.Values{"liquidated": liquidated}, nil
}

func (o *OracleManipulation) Secure(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	honest := in.Setup.Uint64("price")
	oracle := &priceOracle{history: []uint64{honest, honest, honest}}
	pos := openPosition(in.Setup)

	next := in.Setup.Uint64("manipulated_price")
	reference := oracle.average()
	deviation := max(next, reference) - min(next, reference)
	if deviation*100 > reference*in.Setup.Uint64("max_deviation_pct") {
		return nil, exemplar.Reject("suspicious price movement detected: %d -> %d", reference, next)
	}
	oracle.history = append(oracle.history, next)

	return exemplar.Values{"liquidated": pos.underwater(oracle.average())}, nil
}
