// Package config defines the server configuration and how it is loaded.
//
// Conventions:
//   - New(ctx) returns a Config filled with defaults.
//   - Load layers a YAML file and EPOCH_ environment variables on top.
//   - Errors are wrapped with this package's sentinels.
package config

import (
	"context"
	"fmt"
	"time"
)

// Colors overrides the timeline palette. Empty values keep the stock colour.
type Colors struct {
	Background string `koanf:"background"`
	Axis       string `koanf:"axis"`
	TickText   string `koanf:"tick_text"`
	EventDot   string `koanf:"event_dot"`
	LabelText  string `koanf:"label_text"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DBPath is the sqlite file holding events. Empty serves the built-in sample.
	DBPath string `koanf:"db_path"`

	// EraCatalog is an optional YAML file replacing the default periods.
	EraCatalog string `koanf:"era_catalog"`

	// Pan bounds in years.
	MinYear float64 `koanf:"min_year"`
	MaxYear float64 `koanf:"max_year"`

	// Years visible at identity zoom.
	InitialStart float64 `koanf:"initial_start"`
	InitialEnd   float64 `koanf:"initial_end"`

	// Zoom factor extent.
	ZoomMin float64 `koanf:"zoom_min"`
	ZoomMax float64 `koanf:"zoom_max"`

	BottomMargin   float64 `koanf:"bottom_margin"`
	LifespanAnchor float64 `koanf:"lifespan_anchor"`
	TickCount      int     `koanf:"tick_count"`

	// Default viewport for stateless renders.
	ViewportWidth  float64 `koanf:"viewport_width"`
	ViewportHeight float64 `koanf:"viewport_height"`

	// SessionLimit bounds live interactive sessions.
	SessionLimit int `koanf:"session_limit"`

	// RasterTimeoutMS bounds one PNG/JPEG export.
	RasterTimeoutMS int `koanf:"raster_timeout_ms"`

	Colors Colors `koanf:"colors"`
}

// New creates a Config with defaults. Context is accepted first to follow
// the project convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		MinYear:         -300000,
		MaxYear:         2500,
		InitialStart:    -3000,
		InitialEnd:      2025,
		ZoomMin:         0.5,
		ZoomMax:         100,
		BottomMargin:    100,
		LifespanAnchor:  0.9,
		TickCount:       10,
		ViewportWidth:   1440,
		ViewportHeight:  850,
		SessionLimit:    256,
		RasterTimeoutMS: 15000,
	}
}

// RasterTimeout returns RasterTimeoutMS as a duration.
func (c *Config) RasterTimeout() time.Duration {
	return time.Duration(c.RasterTimeoutMS) * time.Millisecond
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MinYear >= c.MaxYear:
		return fmt.Errorf("%w: min_year %v must be below max_year %v", ErrInvalidConfig, c.MinYear, c.MaxYear)
	case c.InitialStart >= c.InitialEnd:
		return fmt.Errorf("%w: initial_start %v must be below initial_end %v", ErrInvalidConfig, c.InitialStart, c.InitialEnd)
	case c.ZoomMin <= 0 || c.ZoomMin > c.ZoomMax:
		return fmt.Errorf("%w: zoom extent [%v, %v]", ErrInvalidConfig, c.ZoomMin, c.ZoomMax)
	case c.ViewportWidth <= 0 || c.ViewportHeight <= 0:
		return fmt.Errorf("%w: viewport %vx%v", ErrInvalidConfig, c.ViewportWidth, c.ViewportHeight)
	case c.LifespanAnchor < 0 || c.LifespanAnchor > 1:
		return fmt.Errorf("%w: lifespan_anchor %v outside [0, 1]", ErrInvalidConfig, c.LifespanAnchor)
	case c.BottomMargin < 0:
		return fmt.Errorf("%w: bottom_margin %v", ErrInvalidConfig, c.BottomMargin)
	}
	return nil
}
