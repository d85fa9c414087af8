package exemplars

import (
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// UncheckedInput is a token transfer that trusts its arguments. A transfer
// to self reads the destination balance before the debit and mints tokens.
type UncheckedInput struct{ base }

func NewUncheckedInput() exemplar.Exemplar {
	return &UncheckedInput{base{
		kind: models.UncheckedInput,
		file: "unchecked_input.go",
		info: exemplar.Info{
			Name:           "Unchecked Input Validation",
			Description:    "Parameters are used without validating amounts, addresses or their relationships.",
			ExploitExample: "A transfer whose sender and recipient are the same account credits the amount without debiting it, minting tokens out of nothing.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"transfers that do not reject zero amounts",
				"source and destination accounts never compared",
			},
			Remediation: []string{
				"validate every parameter at the entry point",
				"reject self transfers and zero amounts explicitly",
			},
		},
	}}
}

type ledger map[string]uint64

func (l ledger) supply() uint64 {
	var total uint64
	for _, b := range l {
		total += b
	}
	return total
}

func openLedger(setup exemplar.Values) ledger {
	l := ledger{setup.Str("from"): setup.Uint64("balance")}
	if to := setup.Str("to"); to != setup.Str("from") {
		l[to] = 0
	}
	return l
}

func (u *UncheckedInput) Vulnerable(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	l := openLedger(in.Setup)
	before := l.supply()

	from, to, amount := in.Setup.Str("from"), in.Setup.Str("to"), in.Setup.Uint64("amount") // vuln:source
	if l[from] < amount {
		return nil, exemplar.Reject("insufficient balance")
	}
	toBalance := l[to]
	l[from] -= amount
	l[to] = toBalance + amount // vuln:sink

	return exemplar.Values{"supply_before": before, "supply_after": l.supply()}, nil
}

func (u *UncheckedInput) Secure(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	l := openLedger(in.Setup)
	before := l.supply()

	from, to, amount := in.Setup.Str("from"), in.Setup.Str("to"), in.Setup.Uint64("amount")
	switch {
	case amount == 0:
		return nil, exemplar.Reject("amount must be greater than zero")
	case from == to:
		return nil, exemplar.Reject("cannot transfer to self")
	case l[from] < amount:
		return nil, exemplar.Reject("insufficient balance")
	}
	l[from] -= amount
	l[to] += amount

	return exemplar.Values{"supply_before": before, "supply_after": l.supply()}, nil
}
