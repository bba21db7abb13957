package pipeline

import (
	"io"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gitxmas/pkg/errors"
)

// Preset is a reusable set of pipeline options read from a TOML file:
//
//	policy = "time_cone"
//	max_commits = 300
//	cone_radius = 3.5
//
//	[scene]
//	labels = true
//
//	[render]
//	formats = ["json", "svg"]
//	elevation = true
//
// Unset keys leave the corresponding option untouched.
type Preset struct {
	MaxCommits    *int     `toml:"max_commits"`
	Revs          []string `toml:"revs"`
	Policy        *string  `toml:"policy"`
	MaxExtentX    *float64 `toml:"max_extent_x"`
	MaxExtentY    *float64 `toml:"max_extent_y"`
	MaxExtentZ    *float64 `toml:"max_extent_z"`
	CommitSpacing *float64 `toml:"commit_spacing"`
	BranchSpacing *float64 `toml:"branch_spacing"`
	Seed          *uint64  `toml:"seed"`
	ConeRadius    *float64 `toml:"cone_radius"`
	ConePower     *float64 `toml:"cone_power"`

	Scene  ScenePreset  `toml:"scene"`
	Render RenderPreset `toml:"render"`
}

// ScenePreset is the [scene] table of a preset.
type ScenePreset struct {
	Enabled *bool `toml:"enabled"`
	Labels  *bool `toml:"labels"`
	Bare    *bool `toml:"bare"`
}

// RenderPreset is the [render] table of a preset.
type RenderPreset struct {
	Formats   []string `toml:"formats"`
	Detailed  *bool    `toml:"detailed"`
	Elevation *bool    `toml:"elevation"`
	Scale     *float64 `toml:"scale"`
}

// LoadPreset reads a preset file. Unknown keys are rejected so that typos
// do not silently fall back to defaults.
func LoadPreset(path string) (Preset, error) {
	var p Preset
	md, err := toml.DecodeFile(path, &p)
	if err != nil {
		return Preset{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "preset %s", path)
	}
	return p, checkUndecoded(md, path)
}

// DecodePreset reads a preset from r.
func DecodePreset(r io.Reader) (Preset, error) {
	var p Preset
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return Preset{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "preset")
	}
	return p, checkUndecoded(md, "preset")
}

func checkUndecoded(md toml.MetaData, name string) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", name, strings.Join(names, ", "))
}

// Apply copies the preset values into opts. Options whose flag name is
// reported by explicit are left alone, so command-line flags win over the
// preset. A nil explicit applies every preset value.
func (p Preset) Apply(opts *Options, explicit func(flag string) bool) {
	keep := func(flag string) bool { return explicit != nil && explicit(flag) }

	set(&opts.MaxCommits, p.MaxCommits, keep("max-commits"))
	if p.Revs != nil && !keep("rev") {
		opts.Revs = append([]string(nil), p.Revs...)
	}
	set(&opts.Policy, p.Policy, keep("policy"))
	set(&opts.MaxExtentX, p.MaxExtentX, keep("max-extent-x"))
	set(&opts.MaxExtentY, p.MaxExtentY, keep("max-extent-y"))
	set(&opts.MaxExtentZ, p.MaxExtentZ, keep("max-extent-z"))
	set(&opts.CommitSpacing, p.CommitSpacing, keep("commit-spacing"))
	set(&opts.BranchSpacing, p.BranchSpacing, keep("branch-spacing"))
	set(&opts.Seed, p.Seed, keep("seed"))
	set(&opts.ConeRadius, p.ConeRadius, keep("cone-radius"))
	set(&opts.ConePower, p.ConePower, keep("cone-power"))

	set(&opts.Scene, p.Scene.Enabled, keep("scene"))
	set(&opts.Labels, p.Scene.Labels, keep("labels"))
	set(&opts.Bare, p.Scene.Bare, keep("bare"))

	if p.Render.Formats != nil && !keep("format") {
		opts.Formats = append([]string(nil), p.Render.Formats...)
	}
	set(&opts.Detailed, p.Render.Detailed, keep("detailed"))
	set(&opts.Elevation, p.Render.Elevation, keep("elevation"))
	set(&opts.Scale, p.Render.Scale, keep("scale"))
}

func set[T any](dst *T, v *T, keep bool) {
	if v != nil && !keep {
		*dst = *v
	}
}
