package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	metrics "github.com/okian/talentfit/pkg/metrics"
)

func gatheredNames(t *testing.T, g prometheus.Gatherer) map[string]struct{} {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := make(map[string]struct{}, len(families))
	for _, f := range families {
		names[f.GetName()] = struct{}{}
	}
	return names
}

func TestGlobalRegistry(t *testing.T) {
	Convey("Given the global metrics registry", t, func() {
		Convey("When business events are recorded", func() {
			metrics.RecordApplicationScored()
			metrics.RecordDuplicateApplication()
			metrics.RecordFitScore(0.85)
			metrics.RecordBatchSize(10)
			metrics.RecordRankingUpdate()
			metrics.UpdateQueueSize(5)
			metrics.UpdateWorkerCount(4)
			metrics.UpdateTrackedCandidates(100)
			metrics.RecordHTTPRequest("score", "POST", "200")
			metrics.RecordHTTPRequestDuration("score", "POST", "200", 12.5)

			Convey("Then the registry should expose the metric families", func() {
				names := gatheredNames(t, metrics.GetRegistry())

				for _, want := range []string{
					"talentfit_matching_applications_scored_total",
					"talentfit_matching_applications_duplicate_total",
					"talentfit_matching_fit_score",
					"talentfit_matching_batch_size",
					"talentfit_matching_ranking_updates_total",
					"talentfit_matching_queue_size",
					"talentfit_matching_worker_count",
					"talentfit_matching_tracked_candidates",
					"talentfit_matching_http_requests_total",
					"talentfit_matching_http_request_duration_milliseconds",
				} {
					_, ok := names[want]
					So(ok, ShouldBeTrue)
				}
			})
		})
	})
}

func TestManagerOptions(t *testing.T) {
	Convey("Given a manager on an isolated registry", t, func() {
		registry := prometheus.NewRegistry()
		metrics.NewManager(
			metrics.WithPrometheusRegistry(registry),
			metrics.WithNamespace("testns"),
			metrics.WithSubsystem("testsub"),
		)

		Convey("Then its metrics should carry the configured prefix", func() {
			names := gatheredNames(t, registry)
			_, ok := names["testns_testsub_applications_scored_total"]
			So(ok, ShouldBeTrue)

			_, leaked := names["talentfit_matching_applications_scored_total"]
			So(leaked, ShouldBeFalse)
		})
	})
}
