package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	config "github.com/okian/talentfit/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	Convey("Given no file or environment overrides", t, func() {
		cfg, err := config.Load(context.Background())

		Convey("Then loading should succeed with defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.QueueSize, ShouldEqual, 100_000)
			So(cfg.MaxRankingLimit, ShouldEqual, 100)
			So(cfg.BatchLimit, ShouldEqual, 50)
		})

		Convey("And the default weights should sum to one", func() {
			So(cfg.SkillWeight, ShouldEqual, 0.40)
			So(cfg.ExperienceWeight, ShouldEqual, 0.25)
			So(cfg.EducationWeight, ShouldEqual, 0.15)
			So(cfg.LocationWeight, ShouldEqual, 0.10)
			So(cfg.SalaryWeight, ShouldEqual, 0.10)
			So(cfg.WeightSum(), ShouldAlmostEqual, 1.0, 1e-9)
		})
	})
}

func TestEnvOverrides(t *testing.T) {
	Convey("Given environment variable overrides", t, func() {
		t.Setenv("TALENTFIT_ADDR", ":7070")
		t.Setenv("TALENTFIT_QUEUE_SIZE", "512")
		t.Setenv("TALENTFIT_LOG_LEVEL", "debug")
		t.Setenv("TALENTFIT_MAX_RANKING_LIMIT", "25")

		cfg, err := config.Load(context.Background())

		Convey("Then the overrides should take effect", func() {
			So(err, ShouldBeNil)
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.QueueSize, ShouldEqual, 512)
			So(cfg.LogLevel, ShouldEqual, "debug")
			So(cfg.MaxRankingLimit, ShouldEqual, 25)
		})

		Convey("And untouched fields should keep defaults", func() {
			So(err, ShouldBeNil)
			So(cfg.BatchLimit, ShouldEqual, 50)
			So(cfg.SkillWeight, ShouldEqual, 0.40)
		})
	})
}

func TestFileLayer(t *testing.T) {
	Convey("Given a YAML config file", t, func() {
		path := writeConfigFile(t, "addr: \":6060\"\nqueue_size: 2048\nworker_count: 3\n")
		t.Setenv("TALENTFIT_CONFIG", path)

		Convey("When no environment overrides exist", func() {
			cfg, err := config.Load(context.Background())

			Convey("Then the file values should apply over defaults", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":6060")
				So(cfg.QueueSize, ShouldEqual, 2048)
				So(cfg.WorkerCount, ShouldEqual, 3)
				So(cfg.LogLevel, ShouldEqual, "info")
			})
		})

		Convey("When an environment variable overrides a file value", func() {
			t.Setenv("TALENTFIT_ADDR", ":5050")
			cfg, err := config.Load(context.Background())

			Convey("Then the environment should win", func() {
				So(err, ShouldBeNil)
				So(cfg.Addr, ShouldEqual, ":5050")
				So(cfg.QueueSize, ShouldEqual, 2048)
			})
		})
	})

	Convey("Given a config path that does not exist", t, func() {
		t.Setenv("TALENTFIT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

		_, err := config.Load(context.Background())

		Convey("Then loading should fail with a load error", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, config.ErrLoadConfig), ShouldBeTrue)
		})
	})
}

func TestValidation(t *testing.T) {
	Convey("Given weights that do not sum to one", t, func() {
		t.Setenv("TALENTFIT_SKILL_WEIGHT", "0.9")

		_, err := config.Load(context.Background())

		Convey("Then loading should fail with an invalid-config error", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})

	Convey("Given a full custom weight set that sums to one", t, func() {
		t.Setenv("TALENTFIT_SKILL_WEIGHT", "0.5")
		t.Setenv("TALENTFIT_EXPERIENCE_WEIGHT", "0.2")
		t.Setenv("TALENTFIT_EDUCATION_WEIGHT", "0.1")
		t.Setenv("TALENTFIT_LOCATION_WEIGHT", "0.1")
		t.Setenv("TALENTFIT_SALARY_WEIGHT", "0.1")

		cfg, err := config.Load(context.Background())

		Convey("Then loading should succeed with the new weights", func() {
			So(err, ShouldBeNil)
			So(cfg.SkillWeight, ShouldEqual, 0.5)
			So(cfg.WeightSum(), ShouldAlmostEqual, 1.0, 1e-9)
		})
	})

	Convey("Given an empty listen address", t, func() {
		path := writeConfigFile(t, "addr: \"\"\n")
		t.Setenv("TALENTFIT_CONFIG", path)

		_, err := config.Load(context.Background())

		Convey("Then loading should fail with an invalid-config error", func() {
			So(err, ShouldNotBeNil)
			So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}
