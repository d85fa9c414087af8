package exemplars

import (
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// FrontRunning swaps with no minimum output, so a sandwich around the
// victim's pending swap extracts value
type FrontRunning struct{ base }

func NewFrontRunning() exemplar.Exemplar {
	return &FrontRunning{base{
		kind: models.FrontRunning,
		file: "front_running.go",
		info: exemplar.Info{
			Name:           "Front-Running",
			Description:    "Pending transactions are visible, letting others order their own transactions around them for profit.",
			ExploitExample: "The attacker sees a pending swap, buys ahead of it to move the price, lets the victim fill at the worse price, and sells back for a profit.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"swaps without slippage bounds",
				"outcomes that depend on transaction ordering",
			},
			Remediation: []string{
				"require a minimum output on every swap",
				"use commit-reveal or batch auctions for ordering sensitive operations",
			},
		},
	}}
}

func openPool(setup exemplar.Values) *constantProduct {
	return &constantProduct{base: setup.Uint64("reserve_base"), quote: setup.Uint64("reserve_quote")}
}

// quote is the output the victim saw when signing
func quote(setup exemplar.Values) uint64 {
	preview := openPool(setup)
	return preview.swapBaseIn(setup.Uint64("victim_in"))
}

func (f *FrontRunning) Vulnerable(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	pool := openPool(in.Setup)
	expected := quote(in.Setup)
	attackerIn := in.Setup.Uint64("attacker_in")

	m.Step()
	attackerOut := pool.swapBaseIn(attackerIn)                 // vuln:source
	victimOut := pool.swapBaseIn(in.Setup.Uint64("victim_in")) // vuln:sink
	attackerBack := pool.swapQuoteIn(attackerOut)

	return exemplar.Values{
		"expected_out":    expected,
		"victim_out":      victimOut,
		"attacker_profit": int64(attackerBack) - int64(attackerIn),
	}, nil
}

func (f *FrontRunning) Secure(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	pool := openPool(in.Setup)
	expected := quote(in.Setup)
	minOut := expected * (10_000 - in.Setup.Uint64("max_slippage_bps")) / 10_000
	attackerIn := in.Setup.Uint64("attacker_in")

	m.Step()
	attackerOut := pool.swapBaseIn(attackerIn)
	victimOut := pool.swapBaseIn(in.Setup.Uint64("victim_in"))
	if victimOut < minOut {
		return nil, exemplar.Reject("slippage too high: got %d, minimum %d", victimOut, minOut)
	}
	attackerBack := pool.swapQuoteIn(attackerOut)

	return exemplar.Values{
		"expected_out":    expected,
		"victim_out":      victimOut,
		"attacker_profit": int64(attackerBack) - int64(attackerIn),
	}, nil
}
