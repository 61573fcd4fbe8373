package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/epochline/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	config.EnvFile, "EPOCH_ADDR", "EPOCH_MIN_YEAR", "EPOCH_MAX_YEAR", "EPOCH_ZOOM_MAX",
	"EPOCH_SESSION_LIMIT", "EPOCH_COLORS__AXIS", "EPOCH_LOG_FORMAT",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "epochline.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx, "")

			convey.Convey("Then the defaults come back", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.MinYear, convey.ShouldEqual, -300000)
				convey.So(cfg.ZoomMax, convey.ShouldEqual, 100)
				convey.So(cfg.Colors, convey.ShouldResemble, config.Colors{})
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("EPOCH_ADDR", ":8080")
			_ = os.Setenv("EPOCH_SESSION_LIMIT", "8")
			_ = os.Setenv("EPOCH_COLORS__AXIS", "#000")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then they override defaults, nested keys included", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SessionLimit, convey.ShouldEqual, 8)
				convey.So(cfg.Colors.Axis, convey.ShouldEqual, "#000")
				convey.So(cfg.Colors.Background, convey.ShouldEqual, "")
			})
		})

		convey.Convey("When a YAML file is named by EPOCH_CONFIG", func() {
			path := writeConfig(t, `
addr: ":9090"
max_year: 3000
colors:
  event_dot: "#ff0000"
`)
			_ = os.Setenv(config.EnvFile, path)

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then file values merge with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.MaxYear, convey.ShouldEqual, 3000)
				convey.So(cfg.MinYear, convey.ShouldEqual, -300000)
				convey.So(cfg.Colors.EventDot, convey.ShouldEqual, "#ff0000")
			})

			convey.Convey("And env still wins over the file", func() {
				_ = os.Setenv("EPOCH_ADDR", ":7070")
				cfg, err := config.Load(ctx, "")
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
			})
		})

		convey.Convey("When an explicit path is given", func() {
			_ = os.Setenv(config.EnvFile, "/non/existent/file.yaml")
			path := writeConfig(t, "log_format: json\n")

			cfg, err := config.Load(ctx, path)

			convey.Convey("Then it takes precedence over EPOCH_CONFIG", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
			})
		})

		convey.Convey("When the file is missing or malformed", func() {
			_, err := config.Load(ctx, "/non/existent/file.yaml")
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)

			_, err = config.Load(ctx, writeConfig(t, `invalid: yaml: content: [`))
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When the values are inconsistent", func() {
			_ = os.Setenv("EPOCH_MIN_YEAR", "3000")

			cfg, err := config.Load(ctx, "")

			convey.Convey("Then validation fails", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "min_year")
			})
		})

		convey.Convey("When addr is emptied", func() {
			_ = os.Setenv("EPOCH_ADDR", "")

			_, err := config.Load(ctx, "")

			convey.Convey("Then it is rejected", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})
	})
}
