package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordStoreQuery(t *testing.T) {
	before := testutil.ToFloat64(StoreQueriesTotal.WithLabelValues("clickhouse", "periods", "success"))

	RecordStoreQuery("clickhouse", "periods", "success", 0.25)

	after := testutil.ToFloat64(StoreQueriesTotal.WithLabelValues("clickhouse", "periods", "success"))
	assert.Equal(t, before+1, after)
}

func TestRecordPeriodAndUpdate(t *testing.T) {
	periods := testutil.ToFloat64(PeriodsTotal.WithLabelValues("skipped"))
	updates := testutil.ToFloat64(UpdatesTotal.WithLabelValues("failed"))

	RecordPeriod("skipped")
	RecordUpdate("failed")
	RecordUpdate("failed")

	assert.Equal(t, periods+1, testutil.ToFloat64(PeriodsTotal.WithLabelValues("skipped")))
	assert.Equal(t, updates+2, testutil.ToFloat64(UpdatesTotal.WithLabelValues("failed")))
}

func TestRecordRunSetsLastSuccess(t *testing.T) {
	LastSuccessfulRun.Set(0)

	RecordRun("cli", "failed", 1)
	assert.Equal(t, float64(0), testutil.ToFloat64(LastSuccessfulRun))

	RecordRun("cli", "success", 1)
	assert.Greater(t, testutil.ToFloat64(LastSuccessfulRun), float64(0))
}

func TestUpdateDBConnectionStats(t *testing.T) {
	UpdateDBConnectionStats(3, 7)

	assert.Equal(t, float64(3), testutil.ToFloat64(DBConnectionsActive))
	assert.Equal(t, float64(7), testutil.ToFloat64(DBConnectionsIdle))
}
