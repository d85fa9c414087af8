package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	testCases := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"reentrancy", Reentrancy, false},
		{"IntegerOverflow", IntegerOverflow, false},
		{"  LOGIC-ERROR ", LogicError, false},
		{"storagemanagement", StorageManagement, false},
		{"unknown", KindUnknown, true},
		{"", KindUnknown, true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseKind(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestKindNames(t *testing.T) {
	kinds := AllKinds()
	require.Len(t, kinds, 15)
	assert.Equal(t, Reentrancy, kinds[0])
	assert.Equal(t, StorageManagement, kinds[14])

	seen := map[string]bool{}
	for _, k := range kinds {
		assert.True(t, k.Valid())
		assert.False(t, seen[k.Slug()], "duplicate slug %s", k.Slug())
		seen[k.Slug()] = true

		back, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, back)
	}
	assert.False(t, KindUnknown.Valid())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}

func TestKindText(t *testing.T) {
	data, err := json.Marshal(map[string]Kind{"k": FlashLoan})
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":"flash-loan"}`, string(data))

	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("FrontRunning")))
	assert.Equal(t, FrontRunning, k)

	_, err = KindUnknown.MarshalText()
	assert.Error(t, err)
}

func TestAnnotationValidate(t *testing.T) {
	testCases := []struct {
		name    string
		a       Annotation
		wantErr bool
	}{
		{"ordered", Annotation{File: "a.go", SourceLine: 3, SinkLine: 9}, false},
		{"same line", Annotation{File: "a.go", SourceLine: 4, SinkLine: 4}, false},
		{"with ordinal", Annotation{File: "a.go", SourceLine: 1, SinkLine: 2, Ordinal: 6}, false},
		{"sink before source", Annotation{File: "a.go", SourceLine: 9, SinkLine: 3}, true},
		{"zero line", Annotation{File: "a.go", SourceLine: 0, SinkLine: 3}, true},
		{"no file", Annotation{SourceLine: 1, SinkLine: 2}, true},
		{"negative ordinal", Annotation{File: "a.go", SourceLine: 1, SinkLine: 2, Ordinal: -1}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.a.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
	assert.Equal(t, "a.go:1->2#6", Annotation{File: "a.go", SourceLine: 1, SinkLine: 2, Ordinal: 6}.String())
}

func TestPassedDerivation(t *testing.T) {
	outcomes := []Outcome{OutcomeSafe, OutcomeRejected, OutcomeCompromised}
	for _, v := range outcomes {
		for _, s := range outcomes {
			res := NewVerificationResult(Reentrancy, 0, "x", v, s)
			want := v == OutcomeCompromised && s != OutcomeCompromised
			assert.Equal(t, want, res.Passed, "vulnerable=%s secure=%s", v, s)
		}
	}
}

func TestReportSummaryKeepsHarnessErrorsSeparate(t *testing.T) {
	report := &Report{
		Results: []VerificationResult{
			NewVerificationResult(Reentrancy, 0, "a", OutcomeCompromised, OutcomeRejected),
			NewVerificationResult(LogicError, 1, "b", OutcomeCompromised, OutcomeCompromised),
		},
		HarnessErrors: []*HarnessError{{Kind: FlashLoan, Variant: VariantSecure}},
	}
	want := Summary{Total: 2, Passed: 1, Failed: 1, HarnessErrors: 1}
	if diff := cmp.Diff(want, report.Summary()); diff != "" {
		t.Errorf("Summary() mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, report.OK())
	assert.Equal(t, map[string]bool{"reentrancy#0": true, "logic-error#1": false}, report.Outcomes())

	clean := &Report{Results: report.Results[:1]}
	assert.True(t, clean.OK())
	assert.False(t, (&Report{HarnessErrors: report.HarnessErrors}).OK())
}

func TestRegressions(t *testing.T) {
	baseline := map[string]bool{"reentrancy#0": true, "logic-error#1": false, "flash-loan#0": true}
	current := []VerificationResult{
		NewVerificationResult(Reentrancy, 0, "", OutcomeSafe, OutcomeSafe),
		NewVerificationResult(LogicError, 1, "", OutcomeSafe, OutcomeSafe),
		NewVerificationResult(FlashLoan, 0, "", OutcomeCompromised, OutcomeRejected),
		NewVerificationResult(FrontRunning, 0, "", OutcomeSafe, OutcomeSafe),
	}
	assert.Equal(t, []string{"reentrancy#0"}, Regressions(baseline, current))
	assert.Empty(t, Regressions(nil, current))
}

func TestHarnessErrorMessage(t *testing.T) {
	err := &HarnessError{Kind: LogicError, Scenario: "double claim", Variant: VariantSecure, Cause: assert.AnError}
	assert.Equal(t, "harness error in logic-error/double claim (secure): "+assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, assert.AnError)
}
