package exemplars

import (
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
	"github.com/ethanolivertroy/exemplar-check/internal/scenario"
)

// DefaultScenarios returns the built-in attack for every exemplar. Ordinals
// match the annotation ordinals of the exemplar file; single-flaw exemplars
// use ordinal zero.
func DefaultScenarios() []scenario.AttackScenario {
	return []scenario.AttackScenario{
		{
			Kind:   models.Reentrancy,
			Name:   "recipient hook re-enters withdraw",
			Action: "withdraw",
			Setup:  exemplar.Values{"attacker": "attacker", "deposit": 100, "withdraw": 50, "reentries": 3},
			Compromised: func(setup, effect exemplar.Values) bool {
				return effect.Uint64("paid_out") > setup.Uint64("deposit")
			},
		},
		{
			Kind:   models.IntegerOverflow,
			Name:   "deposit wraps a maximal balance",
			Action: "deposit",
			Setup:  exemplar.Values{"balance": "max", "deposit": 1},
			Compromised: func(setup, effect exemplar.Values) bool {
				return effect.Uint64("balance") < setup.Uint64("balance")
			},
		},
		{
			Kind:   models.UncheckedInput,
			Name:   "self transfer mints tokens",
			Action: "transfer",
			Setup:  exemplar.Values{"from": "attacker", "to": "attacker", "balance": 100, "amount": 50},
			Compromised: func(_, effect exemplar.Values) bool {
				return effect.Uint64("supply_after") > effect.Uint64("supply_before")
			},
		},
		{
			Kind:   models.OracleManipulation,
			Name:   "pushed price liquidates a healthy loan",
			Action: "liquidate",
			Setup: exemplar.Values{
				"collateral": 200, "loan": 100, "price": 100, "manipulated_price": 45,
				"threshold_pct": 150, "max_deviation_pct": 10,
			},
			Compromised: func(_, effect exemplar.Values) bool {
				return effect.Bool("liquidated")
			},
		},
		{
			Kind:   models.AccessControl,
			Name:   "non-admin updates the protocol fee",
			Action: "set_fee",
			Setup:  exemplar.Values{"caller": "attacker", "required_role": "admin", "admin": "admin", "new_fee": 5000},
			Compromised: func(setup, effect exemplar.Values) bool {
				return effect.Uint64("fee") == setup.Uint64("new_fee") && effect.Str("changed_by") != setup.Str("admin")
			},
		},
		{
			Kind:   models.DenialOfService,
			Name:   "refund hook re-bids during push refunds",
			Action: "end_auction",
			Setup:  exemplar.Values{"attacker": "attacker", "bidders": 50, "max_bidders": 100},
			Compromised: func(_, effect exemplar.Values) bool {
				return !effect.Bool("ended")
			},
		},
		{
			Kind:   models.IllicitFeeCollection,
			Name:   "attacker redirects swap fees",
			Action: "set_fee_recipient",
			Setup:  exemplar.Values{"caller": "attacker", "admin": "admin", "amount_in": 10_000, "fee_bps": 30},
			Compromised: func(setup, effect exemplar.Values) bool {
				return setup.Str("caller") != setup.Str("admin") && effect.Uint64("attacker_fees") > 0
			},
		},
		{
			Kind:   models.FlashLoan,
			Name:   "borrowed liquidity crashes the collateral price",
			Action: "flash_loan",
			Setup: exemplar.Values{
				"pool_base": 1_000_000, "pool_quote": 1_000_000, "loan": 900_000,
				"collateral": 1_000, "debt": 700, "liquidation_pct": 120, "max_loan_pct": 10,
			},
			Compromised: func(_, effect exemplar.Values) bool {
				return effect.Bool("liquidated")
			},
		},
		{
			Kind:    models.LogicError,
			Ordinal: 1,
			Name:    "ended auction restarted",
			Action:  ActionRestart,
			Setup:   exemplar.Values{"end": 200},
			Compromised: func(_, effect exemplar.Values) bool {
				return effect.Bool("active")
			},
		},
		{
			Kind:    models.LogicError,
			Ordinal: 2,
			Name:    "bid accepted after the deadline",
			Action:  ActionLateBid,
			Setup:   exemplar.Values{"now": 250, "end": 200},
			Compromised: func(_, effect exemplar.Values) bool {
				return effect.Bool("accepted") && effect.Bool("after_end")
			},
		},
		{
			Kind:    models.LogicError,
			Ordinal: 3,
			Name:    "auction finalized before the deadline",
			Action:  ActionEarlyFinalize,
			Setup:   exemplar.Values{"now": 150, "end": 200},
			Compromised: func(_, effect exemplar.Values) bool {
				return effect.Bool("finalized")
			},
		},
		{
			Kind:    models.LogicError,
			Ordinal: 4,
			Name:    "staking reward claimed twice",
			Action:  ActionDoubleClaim,
			Setup:   exemplar.Values{"stake": 1_000, "rate_bps": 500, "elapsed": 10, "claims": 2},
			Compromised: func(setup, effect exemplar.Values) bool {
				return effect.Uint64("claimed") > expectedReward(setup)
			},
		},
		{
			Kind:    models.LogicError,
			Ordinal: 5,
			Name:    "reward computed with the wrong denominator",
			Action:  ActionRewardFormula,
			Setup:   exemplar.Values{"stake": 1_000, "rate_bps": 500, "elapsed": 10},
			Compromised: func(setup, effect exemplar.Values) bool {
				return effect.Uint64("claimed") > expectedReward(setup)
			},
		},
		{
			Kind:    models.LogicError,
			Ordinal: 6,
			Name:    "auction finalized twice",
			Action:  ActionDoubleFinalize,
			Setup:   exemplar.Values{"end": 200},
			Compromised: func(_, effect exemplar.Values) bool {
				return effect.Int("payouts") > 1
			},
		},
		{
			Kind:   models.RandomManipulation,
			Name:   "winner predicted from block timestamp",
			Action: "draw",
			Setup: exemplar.Values{
				"participants": []string{"alice", "bob", "attacker"},
				"attacker":     "attacker", "timestamp": 1_621_500_000, "slots": 8,
				"seed": "operator-seed", "salt": "operator-salt", "attacker_seed": "attacker-seed",
			},
			Compromised: func(setup, effect exemplar.Values) bool {
				return effect.Bool("predicted") && effect.Str("winner") == setup.Str("attacker")
			},
		},
		{
			Kind:   models.SignatureVerification,
			Name:   "signature replayed to a new recipient",
			Action: "transfer",
			Setup: exemplar.Values{
				"signer_seed": "victim", "recipient": "bob", "attacker": "attacker", "amount": 100, "nonce": 0,
			},
			Compromised: func(_, effect exemplar.Values) bool {
				return effect.Uint64("paid_to_attacker") > 0
			},
		},
		{
			Kind:   models.AccountConfusion,
			Name:   "forged deposit record drains the vault",
			Action: "withdraw",
			Setup: exemplar.Values{
				"program": "vault-program", "attacker": "attacker", "record": "forged-record",
				"vault_balance": 10_000, "claimed_deposit": 1_000,
			},
			Compromised: func(_, effect exemplar.Values) bool {
				return effect.Uint64("paid") > 0
			},
		},
		{
			Kind:   models.FrontRunning,
			Name:   "sandwich around a pending swap",
			Action: "swap",
			Setup: exemplar.Values{
				"reserve_base": 10_000, "reserve_quote": 10_000,
				"victim_in": 1_000, "attacker_in": 1_000, "max_slippage_bps": 50,
			},
			Compromised: func(_, effect exemplar.Values) bool {
				return effect.Int("attacker_profit") > 0
			},
		},
		{
			Kind:   models.InadequateEvents,
			Name:   "admin rotated silently",
			Action: "set_admin",
			Setup:  exemplar.Values{"caller": "admin", "admin": "admin", "new_admin": "attacker"},
			Compromised: func(_, effect exemplar.Values) bool {
				return effect.Bool("admin_changed") && effect.Int("events") == 0
			},
		},
		{
			Kind:   models.StorageManagement,
			Name:   "foreign writer overruns account storage",
			Action: "write",
			Setup:  exemplar.Values{"owner": "alice", "caller": "attacker", "capacity": 4, "writes": 5},
			Compromised: func(_, effect exemplar.Values) bool {
				return effect.Bool("foreign_write")
			},
		},
	}
}

// DefaultTable indexes DefaultScenarios under scenario.DefaultVersion
func DefaultTable() (*scenario.Table, error) {
	return scenario.NewTable(scenario.DefaultVersion, DefaultScenarios()...)
}
