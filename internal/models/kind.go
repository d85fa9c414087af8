package models

import (
	"fmt"
	"strings"
)

// Kind identifies a vulnerability category in the catalog
type Kind int

const (
	KindUnknown Kind = iota
	Reentrancy
	IntegerOverflow
	UncheckedInput
	OracleManipulation
	AccessControl
	DenialOfService
	IllicitFeeCollection
	FlashLoan
	LogicError
	RandomManipulation
	SignatureVerification
	AccountConfusion
	FrontRunning
	InadequateEvents
	StorageManagement
)

var kindNames = [...]string{
	KindUnknown:           "Unknown",
	Reentrancy:            "Reentrancy",
	IntegerOverflow:       "IntegerOverflow",
	UncheckedInput:        "UncheckedInput",
	OracleManipulation:    "OracleManipulation",
	AccessControl:         "AccessControl",
	DenialOfService:       "DenialOfService",
	IllicitFeeCollection:  "IllicitFeeCollection",
	FlashLoan:             "FlashLoan",
	LogicError:            "LogicError",
	RandomManipulation:    "RandomManipulation",
	SignatureVerification: "SignatureVerification",
	AccountConfusion:      "AccountConfusion",
	FrontRunning:          "FrontRunning",
	InadequateEvents:      "InadequateEvents",
	StorageManagement:     "StorageManagement",
}

var kindSlugs = [...]string{
	KindUnknown:           "unknown",
	Reentrancy:            "reentrancy",
	IntegerOverflow:       "integer-overflow",
	UncheckedInput:        "unchecked-input",
	OracleManipulation:    "oracle-manipulation",
	AccessControl:         "access-control",
	DenialOfService:       "denial-of-service",
	IllicitFeeCollection:  "illicit-fee-collection",
	FlashLoan:             "flash-loan",
	LogicError:            "logic-error",
	RandomManipulation:    "random-manipulation",
	SignatureVerification: "signature-verification",
	AccountConfusion:      "account-confusion",
	FrontRunning:          "front-running",
	InadequateEvents:      "inadequate-events",
	StorageManagement:     "storage-management",
}

// String returns the CamelCase name of the kind
func (k Kind) String() string {
	if !k.inRange() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Slug returns the kebab-case identifier used in reports and scenario files
func (k Kind) Slug() string {
	if !k.inRange() {
		return fmt.Sprintf("kind-%d", int(k))
	}
	return kindSlugs[k]
}

// Valid reports whether k is one of the fifteen catalog kinds
func (k Kind) Valid() bool {
	return k > KindUnknown && k <= StorageManagement
}

func (k Kind) inRange() bool {
	return k >= KindUnknown && int(k) < len(kindNames)
}

// MarshalText encodes the kind as its slug
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid vulnerability kind %d", int(k))
	}
	return []byte(k.Slug()), nil
}

// UnmarshalText accepts either the slug or the CamelCase name
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// AllKinds returns every valid kind in enum order
func AllKinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames)-1)
	for k := Reentrancy; k <= StorageManagement; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind resolves a slug or CamelCase name, case-insensitively
func ParseKind(s string) (Kind, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, k := range AllKinds() {
		if needle == kindSlugs[k] || needle == strings.ToLower(kindNames[k]) {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown vulnerability kind %q", s)
}
