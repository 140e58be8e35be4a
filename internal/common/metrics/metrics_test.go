// internal/common/metrics/metrics_test.go
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAssessmentsTotal(t *testing.T) {
	before := testutil.ToFloat64(AssessmentsTotal.WithLabelValues("STRONG", "ADVANCED_DEGREE"))

	AssessmentsTotal.WithLabelValues("STRONG", "ADVANCED_DEGREE").Inc()

	assert.Equal(t, before+1, testutil.ToFloat64(AssessmentsTotal.WithLabelValues("STRONG", "ADVANCED_DEGREE")))
}

func TestCacheRequests(t *testing.T) {
	before := testutil.ToFloat64(CacheRequests.WithLabelValues("hit"))
	CacheRequests.WithLabelValues("hit").Add(2)
	assert.Equal(t, before+2, testutil.ToFloat64(CacheRequests.WithLabelValues("hit")))
}
