// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// #nosec G404
package metrics

import (
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()
	require.Nil(t, HTTPHandler())

	for _, a := range []any{
		Gauge("noopGauge"),
		Counter("noopCounter"),
		CounterVec("noopCounter", nil),
		HistogramVec("noopHist", nil, nil),
	} {
		require.IsType(t, &noopMeters{}, a)
	}
	Counter("noopCounter").Add(1)
	HistogramVec("noopHist", []string{"a"}, nil).ObserveWithLabels(1, map[string]string{"b": "nonsense"})
}

func TestPromMetrics(t *testing.T) {
	metrics = defaultNoopMetrics()
	lazyCounter := LazyLoadCounter("lazy_count")
	InitializePrometheusMetrics()
	require.IsType(t, &promCountMeter{}, lazyCounter())

	count1 := Counter("count1")
	countVec := CounterVec("count_vec1", []string{"zeroOrOne"})
	gauge1 := Gauge("gauge1")
	histVec := HistogramVec("hist_vec1", []string{"zeroOrOne"}, BucketHTTPReqs)

	count1.Add(1)
	randCount := rand.N(100) + 1
	for range randCount {
		Counter("count1").Add(1)
	}

	total := 0
	for i := range rand.N(100) + 2 {
		labels := map[string]string{"zeroOrOne": strconv.Itoa(i % 2)}
		countVec.AddWithLabel(int64(i), labels)
		histVec.ObserveWithLabels(int64(i), labels)
		total += i
	}
	gauge1.Set(42)
	gauge1.Add(-2)

	metricFamilies, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	families := make(map[string]*dto.MetricFamily)
	for _, mf := range metricFamilies {
		families[mf.GetName()] = mf
	}

	require.Equal(t, float64(randCount+1), families["devshare_count1"].Metric[0].GetCounter().GetValue())
	require.Equal(t, float64(40), families["devshare_gauge1"].Metric[0].GetGauge().GetValue())

	vec := families["devshare_count_vec1"]
	require.Equal(t, float64(total), vec.Metric[0].GetCounter().GetValue()+vec.Metric[1].GetCounter().GetValue())

	hist := families["devshare_hist_vec1"]
	require.Equal(t, float64(total), hist.Metric[0].GetHistogram().GetSampleSum()+hist.Metric[1].GetHistogram().GetSampleSum())

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()
	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
