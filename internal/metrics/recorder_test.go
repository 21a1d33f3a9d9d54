package metrics

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("load", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("load", ResultSuccess)
	r.IncBuildOutcome(BuildOutcomeSuccess)
	r.SetPages("post", 3)
	r.SetTaxonomyTerms("tag", 2)
	r.SetFeedEntries(1)
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveStageDuration("load", 10*time.Millisecond)
	r.ObserveBuildDuration(20 * time.Millisecond)
	r.IncStageResult("load", ResultSuccess)
	r.IncBuildOutcome(BuildOutcomeSuccess)
	r.IncBuildOutcome(BuildOutcomeSuccess)
	r.SetPages("post", 25)
	r.SetPages("", 4)
	r.SetTaxonomyTerms("tag", 7)
	r.SetFeedEntries(19)

	require.InDelta(t, 2, testutil.ToFloat64(r.buildOutcome.WithLabelValues("success")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(r.stageResults.WithLabelValues("load", "success")), 0)
	require.InDelta(t, 25, testutil.ToFloat64(r.pages.WithLabelValues("post")), 0)
	require.InDelta(t, 4, testutil.ToFloat64(r.pages.WithLabelValues("none")), 0)
	require.InDelta(t, 7, testutil.ToFloat64(r.terms.WithLabelValues("tag")), 0)
	require.InDelta(t, 19, testutil.ToFloat64(r.feedEntries), 0)
	require.Equal(t, 1, testutil.CollectAndCount(r.buildDuration))
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var r *PrometheusRecorder
	r.ObserveStageDuration("load", time.Second)
	r.IncBuildOutcome(BuildOutcomeFailed)
	r.SetFeedEntries(1)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	r := NewPrometheusRecorder(nil)
	r.SetFeedEntries(19)

	path := filepath.Join(t.TempDir(), "blogadvance.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "blogadvance_feed_entries 19")
}

func TestPrometheusRecorder_HTTPHandler(t *testing.T) {
	r := NewPrometheusRecorder(nil)
	r.SetTaxonomyTerms("category", 3)

	rec := httptest.NewRecorder()
	r.HTTPHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `blogadvance_taxonomy_terms{scope="category"} 3`))
}
