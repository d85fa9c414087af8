package exemplars

import (
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// AccountConfusion pays out against a deposit record without checking which
// program owns it
type AccountConfusion struct{ base }

func NewAccountConfusion() exemplar.Exemplar {
	return &AccountConfusion{base{
		kind: models.AccountConfusion,
		file: "account_confusion.go",
		info: exemplar.Info{
			Name:           "Account Confusion",
			Description:    "Accounts passed by the caller are trusted without verifying owner or type, so forged accounts are accepted.",
			ExploitExample: "The program deserializes any account with the right layout, so the attacker passes a forged deposit record they own and withdraws against it.",
			Platforms:      []string{"Solana"},
			Detection: []string{
				"account data deserialized without an owner check",
				"no discriminator distinguishing account types",
			},
			Remediation: []string{
				"verify the owning program of every account",
				"tag account data with a type discriminator and check it",
			},
		},
	}}
}

type account struct {
	owner   string
	deposit uint64
}

func openAccounts(setup exemplar.Values) (vaultBalance uint64, accounts map[string]*account) {
	program := setup.Str("program")
	accounts = map[string]*account{
		"deposit-record": {owner: program},
		"forged-record":  {owner: setup.Str("attacker"), deposit: setup.Uint64("claimed_deposit")},
	}
	return setup.Uint64("vault_balance"), accounts
}

func (a *AccountConfusion) Vulnerable(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	vault, accounts := openAccounts(in.Setup)

	record := accounts[in.Setup.Str("record")] // vuln:source
	if record == nil {
		return nil, exemplar.Reject("account not found")
	}
	if record.deposit > vault {
		return nil, exemplar.Reject("insufficient vault balance")
	}
	paid := record.deposit // vuln:sink

	return exemplar.Values{"paid": paid}, nil
}

func (a *AccountConfusion) Secure(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	vault, accounts := openAccounts(in.Setup)

	record := accounts[in.Setup.Str("record")]
	if record == nil {
		return nil, exemplar.Reject("account not found")
	}
	if record.owner != in.Setup.Str("program") {
		return nil, exemplar.Reject("deposit record has invalid ownership")
	}
	if record.deposit > vault {
		return nil, exemplar.Reject("insufficient vault balance")
	}

	return exemplar.Values{"paid": record.deposit}, nil
}
