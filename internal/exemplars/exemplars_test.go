package exemplars_test

import (
	"context"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanolivertroy/exemplar-check/internal/catalog"
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/exemplars"
	"github.com/ethanolivertroy/exemplar-check/internal/harness"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

func buildCatalog(t *testing.T) *catalog.Registry {
	t.Helper()
	reg, err := catalog.Build(hclog.NewNullLogger(), exemplars.Constructors()...)
	require.NoError(t, err)
	return reg
}

func TestCatalogCoversEveryKindInOrder(t *testing.T) {
	reg := buildCatalog(t)
	assert.Equal(t, models.AllKinds(), reg.Kinds())
	assert.Empty(t, reg.Conflicts())
}

func TestAnnotations(t *testing.T) {
	reg := buildCatalog(t)
	for e := range reg.All() {
		t.Run(e.Kind().Slug(), func(t *testing.T) {
			annotations := e.Annotations()
			require.NotEmpty(t, annotations)
			for _, a := range annotations {
				assert.NoError(t, a.Validate())
				assert.True(t, strings.HasPrefix(a.File, exemplars.SourceDir+"/"), a.File)
			}
			assert.Equal(t, annotations, e.Annotations(), "annotations must be stable")
			assert.Equal(t, e.Kind(), e.Kind())
			assert.Equal(t, e.Contains(), e.Contains())
		})
	}
}

func TestLogicErrorAnnotationOrdinals(t *testing.T) {
	e := exemplars.NewLogicError()
	var ordinals []int
	for _, a := range e.Annotations() {
		ordinals = append(ordinals, a.Ordinal)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ordinals)
}

func TestAnnotationsAreCopies(t *testing.T) {
	e := exemplars.NewReentrancy()
	first := e.Annotations()
	first[0].SinkLine = -1
	assert.NotEqual(t, -1, e.Annotations()[0].SinkLine)
}

func TestInfoIsCopied(t *testing.T) {
	e := exemplars.NewAccessControl()
	info := e.Info()
	require.NotEmpty(t, info.Remediation)
	info.Remediation[0] = "changed"
	assert.NotEqual(t, "changed", e.Info().Remediation[0])
}

func TestInfoIsComplete(t *testing.T) {
	for _, newExemplar := range exemplars.Constructors() {
		e := newExemplar()
		info := e.Info()
		t.Run(e.Kind().Slug(), func(t *testing.T) {
			assert.NotEmpty(t, info.Name)
			assert.NotEmpty(t, info.Description)
			assert.NotEmpty(t, info.ExploitExample)
			assert.NotEmpty(t, info.Platforms)
			assert.NotEmpty(t, info.Detection)
			assert.NotEmpty(t, info.Remediation)
		})
	}
}

func TestDefaultTableCoversCatalog(t *testing.T) {
	table, err := exemplars.DefaultTable()
	require.NoError(t, err)
	for _, kind := range models.AllKinds() {
		scenarios, err := table.Lookup(kind)
		require.NoError(t, err, kind.Slug())
		assert.NotEmpty(t, scenarios)
	}
	logic, err := table.Lookup(models.LogicError)
	require.NoError(t, err)
	assert.Len(t, logic, 6)
}

func TestDefaultCatalogVerifies(t *testing.T) {
	reg := buildCatalog(t)
	table, err := exemplars.DefaultTable()
	require.NoError(t, err)

	report, err := harness.New(reg, table, harness.Options{Workers: 4}, nil).Run(context.Background())
	require.NoError(t, err)

	for _, herr := range report.HarnessErrors {
		t.Errorf("unexpected harness error: %v", herr)
	}
	require.Len(t, report.Results, 20)

	byKey := map[string]models.VerificationResult{}
	for _, res := range report.Results {
		assert.True(t, res.Passed, "%s: vulnerable %s (%s), secure %s (%s)",
			res.Key(), res.Vulnerable, res.VulnerableDetail, res.Secure, res.SecureDetail)
		assert.Equal(t, models.OutcomeCompromised, res.Vulnerable, res.Key())
		byKey[res.Key()] = res
	}

	assert.Equal(t, models.OutcomeRejected, byKey["integer-overflow#0"].Secure)
	assert.Contains(t, byKey["integer-overflow#0"].SecureDetail, "overflow")
	assert.Equal(t, models.OutcomeRejected, byKey["access-control#0"].Secure)
	assert.Equal(t, models.OutcomeRejected, byKey["illicit-fee-collection#0"].Secure)
	assert.Contains(t, byKey["illicit-fee-collection#0"].SecureDetail, "authorization")
	assert.Contains(t, byKey["denial-of-service#0"].VulnerableDetail, "budget")
	assert.Equal(t, models.OutcomeSafe, byKey["denial-of-service#0"].Secure)
	assert.Contains(t, byKey["storage-management#0"].VulnerableDetail, "index out of range")
	assert.Equal(t, models.OutcomeSafe, byKey["reentrancy#0"].Secure)
	assert.Equal(t, models.OutcomeSafe, byKey["inadequate-events#0"].Secure)
	assert.Equal(t, models.OutcomeSafe, byKey["logic-error#4"].Secure)
}

func TestVariantsDoNotShareState(t *testing.T) {
	table, err := exemplars.DefaultTable()
	require.NoError(t, err)
	scenarios, err := table.Lookup(models.Reentrancy)
	require.NoError(t, err)

	e := exemplars.NewReentrancy()
	for range 3 {
		effect, err := e.Vulnerable(exemplar.NewMeter(context.Background(), 100), scenarios[0].Input())
		require.NoError(t, err)
		assert.Equal(t, uint64(200), effect.Uint64("paid_out"))
	}
}

func TestUnknownLogicAction(t *testing.T) {
	e := exemplars.NewLogicError()
	_, err := e.Vulnerable(exemplar.NewMeter(context.Background(), 10), exemplar.Input{Action: "nope"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, exemplar.ErrRejected)
}

func TestSecureAuctionRejectsRebidAfterEnd(t *testing.T) {
	e := exemplars.NewDenialOfService()
	in := exemplar.Input{
		Action: "end_auction",
		Setup:  exemplar.Values{"attacker": "attacker", "bidders": 50, "max_bidders": 100},
	}
	effect, err := e.Secure(exemplar.NewMeter(context.Background(), 1_000), in)
	require.NoError(t, err)
	assert.True(t, effect.Bool("ended"))
	assert.False(t, effect.Bool("rebid_accepted"))
	assert.Equal(t, 51, effect.Int("refunded"))
	assert.Equal(t, 0, effect.Int("pending_refunds"))

	in.Setup["max_bidders"] = 50
	_, err = e.Secure(exemplar.NewMeter(context.Background(), 1_000), in)
	assert.ErrorIs(t, err, exemplar.ErrRejected)
}
