package exemplars

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// SignatureVerification authorizes transfers with a signature that covers
// only part of the instruction
type SignatureVerification struct{ base }

func NewSignatureVerification() exemplar.Exemplar {
	return &SignatureVerification{base{
		kind: models.SignatureVerification,
		file: "signature_verification.go",
		info: exemplar.Info{
			Name:           "Signature Verification Issues",
			Description:    "Signatures are checked over an incomplete message, so a valid signature can authorize a different action.",
			ExploitExample: "The signature covers only the amount, so an observed signature is replayed with a different recipient and moves funds to the attacker.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"signed payloads that omit the recipient or a nonce",
				"signatures accepted without binding to the signer's intent",
			},
			Remediation: []string{
				"sign every field of the instruction together with a nonce",
				"reject reused nonces",
			},
		},
	}}
}

func signerKey(seed string) (ed25519.PublicKey, ed25519.PrivateKey) {
	sum := sha256.Sum256([]byte(seed))
	priv := ed25519.NewKeyFromSeed(sum[:])
	return priv.Public().(ed25519.PublicKey), priv
}

func amountMessage(amount uint64) []byte {
	return binary.BigEndian.AppendUint64([]byte("transfer:"), amount)
}

func transferMessage(amount uint64, recipient string, nonce uint64) []byte {
	return []byte(fmt.Sprintf("transfer:%d:%s:%d", amount, recipient, nonce))
}

func (s *SignatureVerification) Vulnerable(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	pub, priv := signerKey(in.Setup.Str("signer_seed"))
	amount := in.Setup.Uint64("amount")
	attacker := in.Setup.Str("attacker")
	balances := map[string]uint64{}

	sig := ed25519.Sign(priv, amountMessage(amount))

	// the intercepted signature is replayed with a different recipient
	to := attacker                                        // vuln:source
	if !ed25519.Verify(pub, amountMessage(amount), sig) { // vuln:sink
		return nil, exemplar.Reject("invalid signature")
	}
	balances[to] += amount

	return exemplar.Values{"paid_to_attacker": balances[attacker]}, nil
}

func (s *SignatureVerification) Secure(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	pub, priv := signerKey(in.Setup.Str("signer_seed"))
	amount := in.Setup.Uint64("amount")
	nonce := in.Setup.Uint64("nonce")
	attacker := in.Setup.Str("attacker")
	balances := map[string]uint64{}

	sig := ed25519.Sign(priv, transferMessage(amount, in.Setup.Str("recipient"), nonce))

	to := attacker
	if !ed25519.Verify(pub, transferMessage(amount, to, nonce), sig) {
		return nil, exemplar.Reject("invalid signature")
	}
	balances[to] += amount

	return exemplar.Values{"paid_to_attacker": balances[attacker]}, nil
}
