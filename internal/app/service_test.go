package service_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	service "github.com/okian/talentfit/internal/app"
	"github.com/okian/talentfit/internal/domain/model"
	"github.com/okian/talentfit/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func jobRequirements() model.JobRequirements {
	return model.JobRequirements{
		Skills: model.SkillList{"Python", "Django"},
		Experience: model.ExperienceRange{
			Min: 2,
			Max: 8,
		},
	}
}

func strongProfile() model.CandidateProfile {
	return model.CandidateProfile{
		Skills:     model.SkillList{"Python", "Django", "PostgreSQL"},
		Experience: 5,
	}
}

func weakProfile() model.CandidateProfile {
	return model.CandidateProfile{
		Skills:     model.SkillList{"Cobol"},
		Experience: 0,
	}
}

func scoreRequest(requestID, candidateID string, prof model.CandidateProfile) model.ScoreRequest {
	return model.ScoreRequest{
		RequestID:    requestID,
		JobID:        "job-1",
		CandidateID:  candidateID,
		Requirements: jobRequirements(),
		Profile:      prof,
		TS:           time.Now().UTC(),
	}
}

func startedService(t *testing.T) *service.Service {
	t.Helper()
	svc := service.New(
		service.WithWorkerCount(2),
		service.WithQueueSize(100),
		service.WithDedupeSize(100),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestServiceLifecycle(t *testing.T) {
	Convey("Given a new service", t, func() {
		svc := service.New(service.WithWorkerCount(1))
		ctx := context.Background()

		Convey("When it has not been started", func() {
			stats := svc.GetStats()

			Convey("Then stats should reflect the stopped state", func() {
				So(stats["started"], ShouldEqual, false)
				So(stats, ShouldNotContainKey, "queueLength")
			})
		})

		Convey("When it is started", func() {
			So(svc.Start(ctx), ShouldBeNil)
			defer svc.Stop()

			Convey("Then stats should include pipeline gauges", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["workerCount"], ShouldEqual, 1)
				So(stats, ShouldContainKey, "queueLength")
				So(stats, ShouldContainKey, "trackedCandidates")
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When it is stopped twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			svc.Stop()

			Convey("Then the second stop should be harmless", func() {
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})
	})
}

func TestAsyncScoringPipeline(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)
		ctx := context.Background()

		Convey("When applications flow through the queue", func() {
			So(svc.Enqueue(ctx, scoreRequest("r1", "strong-cand", strongProfile())), ShouldBeTrue)
			So(svc.Enqueue(ctx, scoreRequest("r2", "weak-cand", weakProfile())), ShouldBeTrue)

			ranked := waitFor(func() bool {
				entries, err := svc.TopN(ctx, "job-1", 10)
				return err == nil && len(entries) == 2
			})

			Convey("Then both candidates should appear in the ranking", func() {
				So(ranked, ShouldBeTrue)

				entries, err := svc.TopN(ctx, "job-1", 10)
				So(err, ShouldBeNil)
				So(entries, ShouldHaveLength, 2)

				Convey("And the stronger candidate should rank first", func() {
					So(entries[0].CandidateID, ShouldEqual, "strong-cand")
					So(entries[0].Rank, ShouldEqual, 1)
					So(entries[0].Fit, ShouldBeGreaterThan, entries[1].Fit)
				})
			})

			Convey("And individual rank lookups should resolve", func() {
				So(ranked, ShouldBeTrue)

				entry, err := svc.Rank(ctx, "job-1", "weak-cand")
				So(err, ShouldBeNil)
				So(entry.Rank, ShouldEqual, 2)
				So(entry.JobID, ShouldEqual, "job-1")
			})

			Convey("And unknown lookups should fail", func() {
				_, err := svc.Rank(ctx, "job-1", "nobody")
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When a candidate is re-scored", func() {
			So(svc.Enqueue(ctx, scoreRequest("r1", "cand-1", weakProfile())), ShouldBeTrue)
			So(waitFor(func() bool {
				_, err := svc.Rank(ctx, "job-1", "cand-1")
				return err == nil
			}), ShouldBeTrue)

			first, err := svc.Rank(ctx, "job-1", "cand-1")
			So(err, ShouldBeNil)

			So(svc.Enqueue(ctx, scoreRequest("r2", "cand-1", strongProfile())), ShouldBeTrue)

			Convey("Then the latest score should replace the old one", func() {
				So(waitFor(func() bool {
					entry, err := svc.Rank(ctx, "job-1", "cand-1")
					return err == nil && entry.Fit > first.Fit
				}), ShouldBeTrue)
			})
		})
	})
}

func TestSynchronousScoring(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)
		ctx := context.Background()

		Convey("When scoring one candidate synchronously", func() {
			result := svc.ScoreOne(ctx, jobRequirements(), strongProfile())

			Convey("Then a complete result should come back", func() {
				So(result.Success, ShouldBeTrue)
				So(result.Scores.OverallFit, ShouldBeBetweenOrEqual, 0, 1)
				So(result.Scores.SkillMatch, ShouldEqual, 1.0)
				So(result.Label, ShouldNotBeEmpty)
			})
		})

		Convey("When scoring a batch synchronously", func() {
			candidates := []model.Candidate{
				{ID: "weak", Profile: weakProfile()},
				{ID: "strong", Profile: strongProfile()},
			}

			results := svc.ScoreBatch(ctx, jobRequirements(), candidates)

			Convey("Then results should be ordered best first", func() {
				So(results, ShouldHaveLength, 2)
				So(results[0].ID, ShouldEqual, "strong")
				So(results[1].ID, ShouldEqual, "weak")
				So(results[0].Scoring.Scores.OverallFit,
					ShouldBeGreaterThan, results[1].Scoring.Scores.OverallFit)
			})
		})
	})
}

func TestRequestDeduplication(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startedService(t)
		ctx := context.Background()

		Convey("When the same request id is recorded twice", func() {
			So(svc.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)
			So(svc.SeenAndRecord(ctx, "req-1"), ShouldBeTrue)

			Convey("Then the tracker should hold a single entry", func() {
				So(svc.Size(), ShouldEqual, 1)
			})
		})

		Convey("When a recorded id is released", func() {
			svc.SeenAndRecord(ctx, "req-1")
			svc.Unrecord(ctx, "req-1")

			Convey("Then it should be accepted again", func() {
				So(svc.SeenAndRecord(ctx, "req-1"), ShouldBeFalse)
			})
		})
	})
}
