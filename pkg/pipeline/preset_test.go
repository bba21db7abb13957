package pipeline

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/gitxmas/pkg/errors"
)

const samplePreset = `
policy = "time_cone"
max_commits = 300
cone_radius = 3.5
seed = 7

[scene]
enabled = true
labels = true

[render]
formats = ["json", "svg"]
elevation = true
`

func TestDecodePreset(t *testing.T) {
	p, err := DecodePreset(strings.NewReader(samplePreset))
	if err != nil {
		t.Fatalf("DecodePreset: %v", err)
	}

	var opts Options
	p.Apply(&opts, nil)

	if opts.Policy != "time_cone" || opts.MaxCommits != 300 || opts.ConeRadius != 3.5 || opts.Seed != 7 {
		t.Errorf("layout options = %+v", opts)
	}
	if !opts.Scene || !opts.Labels || opts.Bare {
		t.Errorf("scene options: scene=%v labels=%v bare=%v", opts.Scene, opts.Labels, opts.Bare)
	}
	if !slices.Equal(opts.Formats, []string{"json", "svg"}) || !opts.Elevation {
		t.Errorf("render options: formats=%v elevation=%v", opts.Formats, opts.Elevation)
	}
	// Unset keys stay at their zero value so defaults still apply.
	if opts.MaxExtentX != 0 || opts.CommitSpacing != 0 {
		t.Errorf("unset keys changed: %+v", opts)
	}
}

func TestPresetExplicitFlagsWin(t *testing.T) {
	p, err := DecodePreset(strings.NewReader(samplePreset))
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Policy: "radial_ring", Formats: []string{"dot"}}
	explicit := map[string]bool{"policy": true, "format": true}
	p.Apply(&opts, func(flag string) bool { return explicit[flag] })

	if opts.Policy != "radial_ring" {
		t.Errorf("Policy = %q, flag should win", opts.Policy)
	}
	if !slices.Equal(opts.Formats, []string{"dot"}) {
		t.Errorf("Formats = %v, flag should win", opts.Formats)
	}
	if opts.MaxCommits != 300 {
		t.Errorf("MaxCommits = %d, preset should apply", opts.MaxCommits)
	}
}

func TestPresetRejectsUnknownKeys(t *testing.T) {
	_, err := DecodePreset(strings.NewReader("polcy = \"radial_ring\"\n[scene]\nlabel = true\n"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("code = %v, want INVALID_CONFIG", errors.GetCode(err))
	}
	if !strings.Contains(err.Error(), "polcy") || !strings.Contains(err.Error(), "scene.label") {
		t.Errorf("error should name the unknown keys: %v", err)
	}
}

func TestLoadPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.toml")
	if err := os.WriteFile(path, []byte(samplePreset), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadPreset(path)
	if err != nil {
		t.Fatalf("LoadPreset: %v", err)
	}
	if p.Policy == nil || *p.Policy != "time_cone" {
		t.Errorf("Policy = %v", p.Policy)
	}

	if _, err := LoadPreset(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing file: code = %v", errors.GetCode(err))
	}
	if _, err := DecodePreset(strings.NewReader("max_commits = \"many\"")); err == nil {
		t.Error("type mismatch should fail")
	}
}
