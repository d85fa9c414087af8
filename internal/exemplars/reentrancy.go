package exemplars

import (
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// Reentrancy is a vault whose withdraw pays out before debiting the caller,
// so a recipient hook can re-enter withdraw against the stale balance.
type Reentrancy struct{ base }

func NewReentrancy() exemplar.Exemplar {
	return &Reentrancy{base{
		kind: models.Reentrancy,
		file: "reentrancy.go",
		info: exemplar.Info{
			Name:           "Reentrancy Vulnerability",
			Description:    "An external call made before state is updated lets the callee re-enter the function and act on stale state.",
			ExploitExample: "The attacker deposits 100 and withdraws 50; the payout hook calls withdraw again before the balance is debited, so each nested call passes the balance check and the vault pays out more than was deposited.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"external calls or cross-program invocations before state updates",
				"withdraw paths without a reentrancy guard",
			},
			Remediation: []string{
				"apply checks-effects-interactions: update balances before transferring",
				"hold a reentrancy lock for the duration of the call",
			},
		},
	}}
}

type vault struct {
	balances map[string]uint64
	paidOut  uint64
	locked   bool
}

func openVault(setup exemplar.Values) (*vault, string) {
	holder := setup.Str("attacker")
	return &vault{balances: map[string]uint64{holder: setup.Uint64("deposit")}}, holder
}

// Vulnerable transfers first and debits after the recipient hook returns
func (r *Reentrancy) Vulnerable(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	v, holder := openVault(in.Setup)
	amount := in.Setup.Uint64("withdraw")
	depth := in.Setup.Int("reentries")

	var withdraw func(level int) error
	withdraw = func(level int) error {
		m.Step()
		if v.balances[holder] < amount {
			return exemplar.Reject("insufficient balance")
		}
		v.paidOut += amount
		if level < depth {
			_ = withdraw(level + 1) // vuln:source
		}
		v.balances[holder] -= amount // vuln:sink
		return nil
	}
	if err := withdraw(0); err != nil {
		return nil, err
	}
	return exemplar.Values{"paid_out": v.paidOut}, nil
}

// Secure debits before paying and refuses nested entry
func (r *Reentrancy) Secure(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	v, holder := openVault(in.Setup)
	amount := in.Setup.Uint64("withdraw")
	depth := in.Setup.Int("reentries")

	var withdraw func(level int) error
	withdraw = func(level int) error {
		m.Step()
		if v.locked {
			return exemplar.Reject("reentrant call detected")
		}
		v.locked = true
		defer func() { v.locked = false }()

		if v.balances[holder] < amount {
			return exemplar.Reject("insufficient balance")
		}
		v.balances[holder] -= amount
		v.paidOut += amount
		if level < depth {
			_ = withdraw(level + 1)
		}
		return nil
	}
	if err := withdraw(0); err != nil {
		return nil, err
	}
	return exemplar.Values{"paid_out": v.paidOut}, nil
}
