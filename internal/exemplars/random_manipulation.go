package exemplars

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// RandomManipulation draws a lottery winner from public block data
type RandomManipulation struct{ base }

func NewRandomManipulation() exemplar.Exemplar {
	return &RandomManipulation{base{
		kind: models.RandomManipulation,
		file: "random_manipulation.go",
		info: exemplar.Info{
			Name:           "Randomness Manipulation",
			Description:    "Randomness derived from predictable on-chain values lets participants pick favourable outcomes.",
			ExploitExample: "The winner index is derived from the block timestamp, so an attacker who knows or influences the timestamp enters exactly when their index wins.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"timestamps, slots or block hashes used as entropy",
				"draws that can be computed before they are submitted",
			},
			Remediation: []string{
				"use a verifiable random function",
				"use a commit-reveal scheme with a bound salt",
			},
		},
	}}
}

func (r *RandomManipulation) Vulnerable(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	participants := in.Setup.Strings("participants")
	if len(participants) == 0 {
		return nil, exemplar.Reject("no participants")
	}
	attacker := in.Setup.Str("attacker")
	timestamp := in.Setup.Uint64("timestamp") // vuln:source

	draw := func(slot uint64) string {
		return participants[(timestamp+slot)%uint64(len(participants))] // vuln:sink
	}

	// block data is public, so the attacker submits in the slot it wins
	var chosen uint64
	var predicted bool
	for slot := range in.Setup.Uint64("slots") {
		m.Step()
		if draw(slot) == attacker {
			chosen, predicted = slot, true
			break
		}
	}
	return exemplar.Values{"winner": draw(chosen), "predicted": predicted}, nil
}

func commitment(seed, salt string) [sha256.Size]byte {
	return sha256.Sum256([]byte(seed + ":" + salt))
}

func (r *RandomManipulation) Secure(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	participants := in.Setup.Strings("participants")
	if len(participants) == 0 {
		return nil, exemplar.Reject("no participants")
	}
	salt := in.Setup.Str("salt")
	committed := commitment(in.Setup.Str("seed"), salt)

	// the attacker races the operator's reveal with a seed of its own
	m.Step()
	revealed := commitment(in.Setup.Str("attacker_seed"), salt)
	if subtle.ConstantTimeCompare(committed[:], revealed[:]) != 1 {
		return nil, exemplar.Reject("revealed seed does not match commitment")
	}

	idx := uint64(revealed[0]) % uint64(len(participants))
	return exemplar.Values{"winner": participants[idx], "predicted": false}, nil
}
