package exemplars

import (
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// IllicitFeeCollection lets anyone redirect swap fees to themselves
type IllicitFeeCollection struct{ base }

func NewIllicitFeeCollection() exemplar.Exemplar {
	return &IllicitFeeCollection{base{
		kind: models.IllicitFeeCollection,
		file: "illicit_fee_collection.go",
		info: exemplar.Info{
			Name:           "Illicit Fee Collection",
			Description:    "Fee parameters or recipients can be changed by unauthorized parties, diverting protocol revenue.",
			ExploitExample: "The swap takes the fee recipient from the caller's accounts, so the attacker passes their own account and collects every fee.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"fee recipient setters without authorization",
				"fees taken with no upper bound",
			},
			Remediation: []string{
				"restrict fee configuration to the fee admin",
				"bound fee rates and emit events on every change",
			},
		},
		contains: []exemplar.FailureClass{exemplar.ClassAuthorization},
	}}
}

type feePool struct {
	admin     string
	recipient string
	feeBps    uint64
	collected map[string]uint64
}

func openFeePool(setup exemplar.Values) *feePool {
	admin := setup.Str("admin")
	return &feePool{
		admin:     admin,
		recipient: admin,
		feeBps:    setup.Uint64("fee_bps"),
		collected: map[string]uint64{},
	}
}

func (p *feePool) swap(amountIn uint64) {
	fee := amountIn * p.feeBps / 10_000
	p.collected[p.recipient] += fee
}

func (p *feePool) requireAdmin(caller string) {
	if caller != p.admin {
		exemplar.Unauthorized("only the fee admin can change the fee recipient, got %q", caller)
	}
}

func (f *IllicitFeeCollection) Vulnerable(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	p := openFeePool(in.Setup)
	caller := in.Setup.Str("caller")

	p.recipient = caller                 // vuln:source
	p.swap(in.Setup.Uint64("amount_in")) // vuln:sink

	return exemplar.Values{"attacker_fees": p.collected[caller]}, nil
}

func (f *IllicitFeeCollection) Secure(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	p := openFeePool(in.Setup)
	caller := in.Setup.Str("caller")

	p.requireAdmin(caller)
	p.recipient = caller
	p.swap(in.Setup.Uint64("amount_in"))

	return exemplar.Values{"attacker_fees": p.collected[caller]}, nil
}
