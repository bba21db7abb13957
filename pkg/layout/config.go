package layout

import (
	"strings"

	"github.com/matzehuels/gitxmas/pkg/errors"
)

// Policy selects how depths and lanes are projected into space.
type Policy string

const (
	PolicyLinearLane Policy = "linear_lane"
	PolicyRadialRing Policy = "radial_ring"
	PolicyTimeCone   Policy = "time_cone"
)

// Policies lists every supported projection policy.
var Policies = []Policy{PolicyLinearLane, PolicyRadialRing, PolicyTimeCone}

// ParsePolicy converts a user-supplied name into a Policy.
// Hyphens are accepted in place of underscores ("radial-ring").
func ParsePolicy(s string) (Policy, error) {
	p := Policy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	for _, known := range Policies {
		if p == known {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidPolicy, "unknown projection policy %q (want linear_lane, radial_ring or time_cone)", s)
}

// Default configuration values.
const (
	DefaultMaxExtentX    = 5.0
	DefaultMaxExtentY    = 5.0
	DefaultMaxExtentZ    = 10.0
	DefaultBranchSpacing = 1.0
	DefaultCommitSpacing = 1.0
	DefaultSeed          = 42
	DefaultConeRadius    = 2.0
	DefaultConePower     = 0.75
)

// Config holds the layout knobs. All extents and spacings must be positive.
type Config struct {
	MaxExtentX    float64 `json:"max_extent_x" bson:"max_extent_x" toml:"max_extent_x"`
	MaxExtentY    float64 `json:"max_extent_y" bson:"max_extent_y" toml:"max_extent_y"`
	MaxExtentZ    float64 `json:"max_extent_z" bson:"max_extent_z" toml:"max_extent_z"`
	BranchSpacing float64 `json:"branch_spacing" bson:"branch_spacing" toml:"branch_spacing"`
	CommitSpacing float64 `json:"commit_spacing" bson:"commit_spacing" toml:"commit_spacing"`
	Policy        Policy  `json:"policy" bson:"policy" toml:"policy"`

	// Only read by PolicyTimeCone.
	Seed       uint64  `json:"seed,omitempty" bson:"seed,omitempty" toml:"seed"`
	ConeRadius float64 `json:"cone_radius,omitempty" bson:"cone_radius,omitempty" toml:"cone_radius"`
	ConePower  float64 `json:"cone_power,omitempty" bson:"cone_power,omitempty" toml:"cone_power"`
}

// DefaultConfig returns the configuration used when the caller sets nothing.
func DefaultConfig() Config {
	return Config{
		MaxExtentX:    DefaultMaxExtentX,
		MaxExtentY:    DefaultMaxExtentY,
		MaxExtentZ:    DefaultMaxExtentZ,
		BranchSpacing: DefaultBranchSpacing,
		CommitSpacing: DefaultCommitSpacing,
		Policy:        PolicyLinearLane,
		Seed:          DefaultSeed,
		ConeRadius:    DefaultConeRadius,
		ConePower:     DefaultConePower,
	}
}

type knob struct {
	field string
	value float64
}

// Validate reports the first invalid knob as an INVALID_CONFIG error naming
// the field and value. Values are never coerced.
func (c Config) Validate() error {
	knobs := []knob{
		{"max_extent_x", c.MaxExtentX},
		{"max_extent_y", c.MaxExtentY},
		{"max_extent_z", c.MaxExtentZ},
		{"branch_spacing", c.BranchSpacing},
		{"commit_spacing", c.CommitSpacing},
	}
	if c.Policy == PolicyTimeCone {
		knobs = append(knobs, knob{"cone_radius", c.ConeRadius}, knob{"cone_power", c.ConePower})
	}
	for _, k := range knobs {
		if err := errors.ValidatePositive(k.field, k.value); err != nil {
			return err
		}
	}
	if _, err := ParsePolicy(string(c.Policy)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "policy")
	}
	return nil
}
