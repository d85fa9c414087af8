package exemplars

import (
	"math/bits"

	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// IntegerOverflow credits a deposit with wrapping addition
type IntegerOverflow struct{ base }

func NewIntegerOverflow() exemplar.Exemplar {
	return &IntegerOverflow{base{
		kind: models.IntegerOverflow,
		file: "integer_overflow.go",
		info: exemplar.Info{
			Name:           "Integer Overflow/Underflow",
			Description:    "Unchecked arithmetic wraps around, turning a large balance into a tiny one or the reverse.",
			ExploitExample: "A deposit that pushes a balance past the maximum uint64 wraps it to a small value, erasing the holder's funds without any error.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"plain +, - or * on balances and supplies",
				"release builds with overflow checks disabled",
			},
			Remediation: []string{
				"use checked arithmetic and fail on carry or borrow",
				"enable overflow checks in release profiles",
			},
		},
		contains: []exemplar.FailureClass{exemplar.ClassArithmetic},
	}}
}

func (o *IntegerOverflow) Vulnerable(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	balance := in.Setup.Uint64("balance")
	deposit := in.Setup.Uint64("deposit") // vuln:source
	balance += deposit                    // vuln:sink
	return exemplar.Values{"balance": balance}, nil
}

func (o *IntegerOverflow) Secure(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	balance := in.Setup.Uint64("balance")
	deposit := in.Setup.Uint64("deposit")
	sum, carry := bits.Add64(balance, deposit, 0)
	if carry != 0 {
		return nil, exemplar.Reject("arithmetic overflow detected")
	}
	return exemplar.Values{"balance": sum}, nil
}
