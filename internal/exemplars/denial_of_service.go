package exemplars

import (
	"fmt"

	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// DenialOfService ends an auction by pushing refunds to every bidder in one
// loop. A bidder whose refund hook bids again keeps the loop from ever
// finishing.
type DenialOfService struct{ base }

func NewDenialOfService() exemplar.Exemplar {
	return &DenialOfService{base{
		kind: models.DenialOfService,
		file: "denial_of_service.go",
		info: exemplar.Info{
			Name:           "Denial of Service",
			Description:    "Unbounded work driven by user controlled collections exhausts compute and blocks the operation for everyone.",
			ExploitExample: "A bidder whose refund hook always re-bids makes the push-refund loop never terminate, so the auction can never settle.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"loops over collections with no upper bound",
				"push payments to many recipients in one call",
			},
			Remediation: []string{
				"cap collection sizes",
				"let recipients pull refunds individually",
			},
		},
	}}
}

type bid struct {
	bidder string
	amount uint64
}

func (d *DenialOfService) Vulnerable(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	attacker := in.Setup.Str("attacker")
	n := in.Setup.Int("bidders")

	bids := make([]bid, 0, n+1)
	for i := range n {
		m.Step()
		bids = append(bids, bid{bidder: fmt.Sprintf("bidder-%d", i), amount: uint64(i + 1)})
	}
	bids = append(bids, bid{bidder: attacker, amount: 1}) // vuln:source

	var refunded int
	for i := 0; i < len(bids); i++ {
		m.Step()
		if bids[i].bidder == attacker {
			bids = append(bids, bids[i]) // vuln:sink
		}
		refunded++
	}
	return exemplar.Values{"ended": true, "refunded": refunded}, nil
}

// pullAuction closes in constant time and leaves refunds for bidders to claim
type pullAuction struct {
	pending    map[string]uint64
	maxBidders int
	ended      bool
}

func (a *pullAuction) placeBid(bidder string, amount uint64) error {
	if a.ended {
		return exemplar.Reject("auction has ended")
	}
	if _, ok := a.pending[bidder]; !ok && len(a.pending) >= a.maxBidders {
		return exemplar.Reject("maximum number of bidders reached")
	}
	a.pending[bidder] += amount
	return nil
}

func (a *pullAuction) end() {
	a.ended = true
}

// claimRefund pays one bidder and then runs their hook, which may try to bid
func (a *pullAuction) claimRefund(bidder string, hook func() error) (uint64, error) {
	if !a.ended {
		return 0, exemplar.Reject("auction still running")
	}
	refund, ok := a.pending[bidder]
	if !ok {
		return 0, exemplar.Reject("no refund pending")
	}
	delete(a.pending, bidder)
	if hook != nil {
		return refund, hook()
	}
	return refund, nil
}

func (d *DenialOfService) Secure(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	attacker := in.Setup.Str("attacker")
	n := in.Setup.Int("bidders")
	a := &pullAuction{pending: make(map[string]uint64, n+1), maxBidders: in.Setup.Int("max_bidders")}

	bidders := make([]string, 0, n+1)
	for i := range n {
		m.Step()
		bidder := fmt.Sprintf("bidder-%d", i)
		if err := a.placeBid(bidder, uint64(i+1)); err != nil {
			return nil, err
		}
		bidders = append(bidders, bidder)
	}
	if err := a.placeBid(attacker, 1); err != nil {
		return nil, err
	}
	bidders = append(bidders, attacker)

	a.end()

	var refunded int
	rebidAccepted := false
	for _, bidder := range bidders {
		m.Step()
		var hook func() error
		if bidder == attacker {
			hook = func() error { return a.placeBid(attacker, 1) }
		}
		_, err := a.claimRefund(bidder, hook)
		switch {
		case err == nil && hook != nil:
			rebidAccepted = true
		case err != nil && hook == nil:
			return nil, err
		}
		refunded++
	}

	return exemplar.Values{
		"ended":           a.ended,
		"rebid_accepted":  rebidAccepted,
		"refunded":        refunded,
		"pending_refunds": len(a.pending),
	}, nil
}
