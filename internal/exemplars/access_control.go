package exemplars

import (
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// AccessControl exposes a privileged fee update
type AccessControl struct{ base }

func NewAccessControl() exemplar.Exemplar {
	return &AccessControl{base{
		kind: models.AccessControl,
		file: "access_control.go",
		info: exemplar.Info{
			Name:           "Access Control Vulnerability",
			Description:    "Privileged operations do not verify the caller's role.",
			ExploitExample: "Any caller invokes the fee setter, which never checks the admin role, and sets the protocol fee to a value of their choosing.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"admin setters with no signer or role check",
				"roles stored but never consulted",
			},
			Remediation: []string{
				"check the caller's role at the top of every privileged operation",
				"keep role assignments behind their own access check",
			},
		},
	}}
}

const maxFeeBps = 10_000

type protocolConfig struct {
	roles map[string]string
	fee   uint64
}

func openProtocol(setup exemplar.Values) *protocolConfig {
	return &protocolConfig{
		roles: map[string]string{setup.Str("admin"): setup.Str("required_role")},
		fee:   10,
	}
}

func (a *AccessControl) Vulnerable(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	p := openProtocol(in.Setup)
	caller := in.Setup.Str("caller") // vuln:source
	fee := in.Setup.Uint64("new_fee")
	if fee > maxFeeBps {
		return nil, exemplar.Reject("fee exceeds %d bps", maxFeeBps)
	}
	p.fee = fee // vuln:sink
	return exemplar.Values{"fee": p.fee, "changed_by": caller}, nil
}

func (a *AccessControl) Secure(_ *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	p := openProtocol(in.Setup)
	caller := in.Setup.Str("caller")
	required := in.Setup.Str("required_role")
	if p.roles[caller] != required {
		return nil, exemplar.Reject("caller %q lacks role %q", caller, required)
	}
	fee := in.Setup.Uint64("new_fee")
	if fee > maxFeeBps {
		return nil, exemplar.Reject("fee exceeds %d bps", maxFeeBps)
	}
	p.fee = fee
	return exemplar.Values{"fee": p.fee, "changed_by": caller}, nil
}
