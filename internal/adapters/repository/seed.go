package repository

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed is the on-disk format of an event seed file.
type Seed struct {
	Events []Record `yaml:"events"`
}

// ReadSeed decodes a YAML seed.
func ReadSeed(r io.Reader) ([]Record, error) {
	var s Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return s.Events, nil
}

// ReadSeedFile decodes the YAML seed at path.
func ReadSeedFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	return ReadSeed(f)
}

// Load inserts every record into st, stopping at the first failure. It
// returns the number inserted.
func Load(ctx context.Context, st Store, recs []Record) (int, error) {
	for i, rec := range recs {
		if _, err := st.Insert(ctx, rec); err != nil {
			return i, fmt.Errorf("seed record %d (%q): %w", i, rec.Title, err)
		}
	}
	return len(recs), nil
}

//go:embed sample_events.yaml
var sampleSeed []byte

// Sample returns the built-in sample events.
func Sample() ([]Record, error) {
	return ReadSeed(bytes.NewReader(sampleSeed))
}
