package analytics

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perr "datalens/internal/platform/errors"
)

func TestInstrumented_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	inner := &countingExec{}
	i := NewInstrumented(inner, reg)
	ctx := context.Background()

	_, err := i.Query(ctx, "SELECT 1")
	require.NoError(t, err)
	_, err = i.Columns(ctx, "light_table")
	require.NoError(t, err)

	inner.err = perr.Unauthorizedf("token expired")
	_, err = i.Query(ctx, "SELECT 1")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(i.requests.WithLabelValues(opQuery, "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(i.requests.WithLabelValues(opQuery, "denied")))
	assert.Equal(t, 1.0, testutil.ToFloat64(i.requests.WithLabelValues(opColumns, "ok")))
	assert.Equal(t, 2, testutil.CollectAndCount(i.duration))

	n, err := testutil.GatherAndCount(reg, "datalens_analytics_result_rows")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOutcome(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{context.Canceled, "canceled"},
		{perr.Forbiddenf("no"), "denied"},
		{perr.Newf(perr.ErrorCodeTooManyRequests, "slow down"), "throttled"},
		{perr.Unavailablef("down"), "unavailable"},
		{perr.Upstreamf("bad gateway"), "error"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, outcome(tc.err))
	}
}

func TestInstrumented_NilRegistry(t *testing.T) {
	i := NewInstrumented(&countingExec{}, nil)
	_, err := i.Query(context.Background(), "SELECT 1")
	assert.NoError(t, err)
}
