// Package exemplars contains the fifteen vulnerability exemplars. Each file
// holds one exemplar: a vulnerable and a secure implementation of a small
// on-chain program, with comment markers naming the source and sink lines.
package exemplars

import (
	"slices"

	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// base carries the static metadata shared by every exemplar
type base struct {
	kind     models.Kind
	file     string
	info     exemplar.Info
	contains []exemplar.FailureClass
}

func (b *base) Kind() models.Kind {
	return b.kind
}

func (b *base) Info() exemplar.Info {
	info := b.info
	info.Platforms = slices.Clone(info.Platforms)
	info.Detection = slices.Clone(info.Detection)
	info.Remediation = slices.Clone(info.Remediation)
	return info
}

func (b *base) Annotations() []models.Annotation {
	return locate(b.file)
}

func (b *base) Contains() []exemplar.FailureClass {
	return slices.Clone(b.contains)
}

// Constructors lists every exemplar in catalog declaration order
func Constructors() []func() exemplar.Exemplar {
	return []func() exemplar.Exemplar{
		NewReentrancy,
		NewIntegerOverflow,
		NewUncheckedInput,
		NewOracleManipulation,
		NewAccessControl,
		NewDenialOfService,
		NewIllicitFeeCollection,
		NewFlashLoan,
		NewLogicError,
		NewRandomManipulation,
		NewSignatureVerification,
		NewAccountConfusion,
		NewFrontRunning,
		NewInadequateEvents,
		NewStorageManagement,
	}
}

var defaultPlatforms = []string{"Solana", "NEAR", "Polkadot", "CosmWasm"}
