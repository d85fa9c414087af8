package exemplars

import (
	"fmt"

	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// Actions understood by LogicError. Each one is an independent flaw with its
// own annotation ordinal.
const (
	ActionRestart        = "restart"
	ActionLateBid        = "late_bid"
	ActionEarlyFinalize  = "early_finalize"
	ActionDoubleClaim    = "double_claim"
	ActionRewardFormula  = "reward_formula"
	ActionDoubleFinalize = "double_finalize"
)

// LogicError is an auction and staking program with six business logic
// flaws: missing state checks, missing time checks, a stale claim marker,
// a wrong reward denominator and an incorrect state transition.
type LogicError struct{ base }

func NewLogicError() exemplar.Exemplar {
	return &LogicError{base{
		kind: models.LogicError,
		file: "logic_error.go",
		info: exemplar.Info{
			Name:           "Logic Errors",
			Description:    "The program's business rules are implemented incorrectly, allowing state transitions or payouts its design forbids.",
			ExploitExample: "The auction and staking programs skip state checks: an ended auction restarts, late bids are accepted, rewards are claimed twice, and finalization runs early or twice.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"operations that never check the current state",
				"deadlines that are recorded but not enforced",
				"reward formulas with unit mistakes",
			},
			Remediation: []string{
				"model the lifecycle as an explicit state machine and check it on entry",
				"update claim markers in the same operation that pays out",
				"test formulas against hand computed values",
			},
		},
	}}
}

type auctionState int

const (
	auctionInitialized auctionState = iota
	auctionActive
	auctionEnded
	auctionFinalized
)

type auction struct {
	state   auctionState
	end     uint64
	payouts int
}

type stake struct {
	amount    uint64
	rateBps   uint64
	lastClaim uint64
	claimed   uint64
}

func openStake(setup exemplar.Values) *stake {
	return &stake{amount: setup.Uint64("stake"), rateBps: setup.Uint64("rate_bps")}
}

func (l *LogicError) Vulnerable(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	s := in.Setup
	switch in.Action {
	case ActionRestart:
		a := &auction{state: auctionEnded, end: s.Uint64("end")}
		a.state = auctionActive // vuln:source#1 vuln:sink#1
		return exemplar.Values{"active": a.state == auctionActive}, nil

	case ActionLateBid:
		a := &auction{state: auctionActive, end: s.Uint64("end")}
		now := s.Uint64("now") // vuln:source#2
		if a.state != auctionActive {
			return nil, exemplar.Reject("auction not active")
		}
		return exemplar.Values{"accepted": true, "after_end": now >= a.end}, nil // vuln:sink#2

	case ActionEarlyFinalize:
		a := &auction{state: auctionActive, end: s.Uint64("end")}
		_ = s.Uint64("now")        // vuln:source#3
		a.state = auctionFinalized // vuln:sink#3
		return exemplar.Values{"finalized": a.state == auctionFinalized}, nil

	case ActionDoubleClaim:
		st := openStake(s)
		now := s.Uint64("elapsed")
		for range s.Int("claims") {
			m.Step()
			reward := st.amount * st.rateBps * (now - st.lastClaim) / 10_000 // vuln:source#4
			st.claimed += reward                                             // vuln:sink#4
		}
		return exemplar.Values{"claimed": st.claimed}, nil

	case ActionRewardFormula:
		st := openStake(s)
		elapsed := s.Uint64("elapsed")                       // vuln:source#5
		st.claimed += st.amount * st.rateBps * elapsed / 100 // vuln:sink#5
		return exemplar.Values{"claimed": st.claimed}, nil

	case ActionDoubleFinalize:
		a := &auction{state: auctionEnded, end: s.Uint64("end")}
		for range 2 {
			m.Step()
			if a.state == auctionFinalized {
				continue
			}
			a.payouts++            // vuln:source#6
			a.state = auctionEnded // vuln:sink#6
		}
		return exemplar.Values{"payouts": a.payouts}, nil
	}
	return nil, fmt.Errorf("logic error exemplar: unknown action %q", in.Action)
}

func (l *LogicError) Secure(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	s := in.Setup
	switch in.Action {
	case ActionRestart:
		a := &auction{state: auctionEnded, end: s.Uint64("end")}
		if a.state != auctionInitialized {
			return nil, exemplar.Reject("auction not in initialized state")
		}
		a.state = auctionActive
		return exemplar.Values{"active": true}, nil

	case ActionLateBid:
		a := &auction{state: auctionActive, end: s.Uint64("end")}
		now := s.Uint64("now")
		if a.state != auctionActive {
			return nil, exemplar.Reject("auction not active")
		}
		if now >= a.end {
			return nil, exemplar.Reject("auction has ended")
		}
		return exemplar.Values{"accepted": true, "after_end": false}, nil

	case ActionEarlyFinalize:
		a := &auction{state: auctionActive, end: s.Uint64("end")}
		if s.Uint64("now") < a.end {
			return nil, exemplar.Reject("auction still active")
		}
		a.state = auctionFinalized
		return exemplar.Values{"finalized": true}, nil

	case ActionDoubleClaim:
		st := openStake(s)
		now := s.Uint64("elapsed")
		for range s.Int("claims") {
			m.Step()
			st.claimed += st.amount * st.rateBps * (now - st.lastClaim) / 10_000
			st.lastClaim = now
		}
		return exemplar.Values{"claimed": st.claimed}, nil

	case ActionRewardFormula:
		st := openStake(s)
		st.claimed += st.amount * st.rateBps * s.Uint64("elapsed") / 10_000
		return exemplar.Values{"claimed": st.claimed}, nil

	case ActionDoubleFinalize:
		a := &auction{state: auctionEnded, end: s.Uint64("end")}
		for range 2 {
			m.Step()
			if a.state == auctionFinalized {
				continue
			}
			a.payouts++
			a.state = auctionFinalized
		}
		return exemplar.Values{"payouts": a.payouts}, nil
	}
	return nil, fmt.Errorf("logic error exemplar: unknown action %q", in.Action)
}

// expectedReward is the correct payout for one claim over elapsed
func expectedReward(setup exemplar.Values) uint64 {
	return setup.Uint64("stake") * setup.Uint64("rate_bps") * setup.Uint64("elapsed") / 10_000
}
