package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetricsForTesting()

	m.DocumentsFetched.WithLabelValues("mepso", "parsed").Inc()
	m.DocumentsFetched.WithLabelValues("mepso", "unparsed").Inc()
	m.DocumentsFetched.WithLabelValues("mepso", "parsed").Inc()
	m.HoursExtracted.WithLabelValues("ost").Add(24)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DocumentsFetched.WithLabelValues("mepso", "parsed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsFetched.WithLabelValues("mepso", "unparsed")))
	assert.Equal(t, 24.0, testutil.ToFloat64(m.HoursExtracted.WithLabelValues("ost")))
}

func TestMetricsForTestingAreIndependent(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()
	a.CandidateMisses.WithLabelValues("ost").Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CandidateMisses.WithLabelValues("ost")))
}
