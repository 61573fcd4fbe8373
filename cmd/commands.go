package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/okian/epochline/internal/adapters/export"
	"github.com/okian/epochline/internal/adapters/repository"
	app "github.com/okian/epochline/internal/app"
	"github.com/okian/epochline/internal/domain/render"
	"github.com/okian/epochline/internal/domain/scale"
	"github.com/okian/epochline/pkg/logger"
)

type renderFlags struct {
	out    string
	width  float64
	height float64
	k      float64
	x      float64
}

func renderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the timeline to an SVG, PNG or JPEG file",
		Long:  "Render the timeline once at the given zoom and pan. The format follows the --out extension; \"-\" writes SVG to stdout.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().StringVar(&f.out, "out", "timeline.svg", "output file (.svg, .png, .jpg or -)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "viewport width in pixels (default from config)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "viewport height in pixels (default from config)")
	cmd.Flags().Float64Var(&f.k, "k", 1, "zoom factor")
	cmd.Flags().Float64Var(&f.x, "x", 0, "horizontal pan in pixels")
	return cmd
}

func runRender(ctx context.Context, stdout io.Writer, f renderFlags) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	svc, err := newService(ctx, cfg, log)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	defer svc.Stop()

	req := app.SnapshotRequest{
		Viewport:  render.Viewport{Width: f.width, Height: f.height},
		Transform: scale.Transform{K: f.k, X: f.x},
	}

	var data []byte
	switch ext := strings.ToLower(filepath.Ext(f.out)); {
	case f.out == "-" || ext == ".svg":
		data, _, err = svc.Snapshot(ctx, req)
	default:
		format, perr := export.ParseFormat(ext)
		if perr != nil {
			return perr
		}
		data, err = svc.Raster(ctx, req, format)
	}
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if f.out == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(f.out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", f.out, err)
	}
	log.Info(ctx, "timeline rendered",
		logger.String("file", f.out),
		logger.String("size", humanize.Bytes(uint64(len(data)))),
	)
	return nil
}

func seedCmd() *cobra.Command {
	var file, db string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load events from a YAML seed file into the sqlite database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), cmd.OutOrStdout(), file, db)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "seed file (default: built-in sample events)")
	cmd.Flags().StringVar(&db, "db", "", "sqlite database (default: db_path from config)")
	return cmd
}

func runSeed(ctx context.Context, stdout io.Writer, file, db string) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	if db == "" {
		db = cfg.DBPath
	}
	if db == "" {
		return errors.New("seed: no database; set --db or db_path")
	}

	var recs []repository.Record
	if file == "" {
		recs, err = repository.Sample()
	} else {
		recs, err = repository.ReadSeedFile(file)
	}
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}

	st, err := repository.NewSQLiteStore(db)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn(ctx, "close store", logger.Error(err))
		}
	}()

	n, err := repository.Load(ctx, st, recs)
	if err != nil {
		return err
	}
	total, err := st.Count(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "seeded %s events into %s (%s stored)\n",
		humanize.Comma(int64(n)), db, humanize.Comma(int64(total)))
	return err
}
