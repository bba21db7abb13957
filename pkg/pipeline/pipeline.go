// Package pipeline provides the load → layout → render pipeline behind every
// gitxmas entry point.
//
// The CLI, the layout server and batch runs all go through a [Runner], so
// caching, defaults and validation behave the same everywhere.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read the commit log of a repository with git
//  2. Layout: Compute depths, lanes and 3D positions, plus optional scene
//  3. Render: Generate outputs (layout JSON, scene JSON, DOT, SVG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Repo:    ".",
//	    Policy:  "radial_ring",
//	    Formats: []string{"json", "svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	g, err := runner.Load(ctx, opts)
//
//	// Layout with an existing graph
//	l, err := runner.GenerateLayout(ctx, g, opts)
//
//	// Render an existing layout
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gitxmas/pkg/cache"
	"github.com/matzehuels/gitxmas/pkg/commit"
	"github.com/matzehuels/gitxmas/pkg/errors"
	"github.com/matzehuels/gitxmas/pkg/gitlog"
	"github.com/matzehuels/gitxmas/pkg/graph"
	"github.com/matzehuels/gitxmas/pkg/layout"
	"github.com/matzehuels/gitxmas/pkg/render/nodelink"
	"github.com/matzehuels/gitxmas/pkg/scene"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, Server, and Batch
// =============================================================================

const (
	// DefaultMaxCommits is the number of newest commits loaded per repository.
	DefaultMaxCommits = gitlog.DefaultMaxCommits

	// DefaultPolicy is the default projection policy.
	DefaultPolicy = layout.PolicyLinearLane

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(layout.DefaultSeed)

	// DefaultScale converts layout units to inches for elevation SVGs.
	DefaultScale = 1.0
)

// Format constants for output formats.
const (
	FormatJSON  = graph.FormatJSON
	FormatScene = graph.FormatScene
	FormatDOT   = graph.FormatDOT
	FormatSVG   = graph.FormatSVG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatScene: true,
	FormatDOT:   true,
	FormatSVG:   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Load options
	Repo       string   `json:"repo"`
	MaxCommits int      `json:"max_commits,omitempty"`
	Revs       []string `json:"revs,omitempty"` // empty means all refs
	Refresh    bool     `json:"refresh,omitempty"`

	// Layout options. Zero values take the layout defaults.
	Policy        string  `json:"policy,omitempty"`
	MaxExtentX    float64 `json:"max_extent_x,omitempty"`
	MaxExtentY    float64 `json:"max_extent_y,omitempty"`
	MaxExtentZ    float64 `json:"max_extent_z,omitempty"`
	CommitSpacing float64 `json:"commit_spacing,omitempty"`
	BranchSpacing float64 `json:"branch_spacing,omitempty"`
	Seed          uint64  `json:"seed,omitempty"`
	ConeRadius    float64 `json:"cone_radius,omitempty"`
	ConePower     float64 `json:"cone_power,omitempty"`

	// Scene options
	Scene  bool `json:"scene,omitempty"` // embed decorations in the layout
	Labels bool `json:"labels,omitempty"`
	Bare   bool `json:"bare,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Detailed  bool     `json:"detailed,omitempty"`
	Elevation bool     `json:"elevation,omitempty"`
	Scale     float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	RunID  string      `json:"-"`
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded commit graph.
	Graph *commit.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains positions, edges and the optional scene.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CommitCount int
	EdgeCount   int
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the commit graph came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(graph.Formats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the repository path and applies load defaults.
// The path is made absolute so that cache keys do not depend on the
// working directory.
func (o *Options) ValidateForLoad() error {
	if err := errors.ValidateRepoPath(o.Repo); err != nil {
		return err
	}
	if abs, err := filepath.Abs(o.Repo); err == nil {
		o.Repo = abs
	}
	if o.MaxCommits < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_commits must not be negative, got %d", o.MaxCommits)
	}
	if o.MaxCommits == 0 {
		o.MaxCommits = DefaultMaxCommits
	}
	for _, rev := range o.Revs {
		if rev == "" || strings.HasPrefix(rev, "-") {
			return errors.New(errors.ErrCodeInvalidInput, "invalid revision %q", rev)
		}
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Policy == "" {
		o.Policy = string(DefaultPolicy)
	} else if p, err := layout.ParsePolicy(o.Policy); err == nil {
		o.Policy = string(p)
	}
	if o.MaxExtentX == 0 {
		o.MaxExtentX = layout.DefaultMaxExtentX
	}
	if o.MaxExtentY == 0 {
		o.MaxExtentY = layout.DefaultMaxExtentY
	}
	if o.MaxExtentZ == 0 {
		o.MaxExtentZ = layout.DefaultMaxExtentZ
	}
	if o.CommitSpacing == 0 {
		o.CommitSpacing = layout.DefaultCommitSpacing
	}
	if o.BranchSpacing == 0 {
		o.BranchSpacing = layout.DefaultBranchSpacing
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.ConeRadius == 0 {
		o.ConeRadius = layout.DefaultConeRadius
	}
	if o.ConePower == 0 {
		o.ConePower = layout.DefaultConePower
	}
	o.setLogger()
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return o.LayoutConfig().Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := errors.ValidatePositive("scale", o.Scale); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// HasFormat reports whether format was requested.
func (o *Options) HasFormat(format string) bool {
	return slices.Contains(o.Formats, format)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutConfig returns the layout engine configuration.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		MaxExtentX:    o.MaxExtentX,
		MaxExtentY:    o.MaxExtentY,
		MaxExtentZ:    o.MaxExtentZ,
		BranchSpacing: o.BranchSpacing,
		CommitSpacing: o.CommitSpacing,
		Policy:        layout.Policy(o.Policy),
		Seed:          o.Seed,
		ConeRadius:    o.ConeRadius,
		ConePower:     o.ConePower,
	}
}

// SceneOptions returns the decoration options. Ornaments reuse the layout seed.
func (o *Options) SceneOptions() scene.Options {
	return scene.Options{Seed: o.Seed, Labels: o.Labels, Bare: o.Bare}
}

// DOTOptions returns the Graphviz rendering options.
func (o *Options) DOTOptions() nodelink.Options {
	return nodelink.Options{Detailed: o.Detailed, Elevation: o.Elevation, Scale: o.Scale}
}

// GitOptions returns the git log options.
func (o *Options) GitOptions() gitlog.Options {
	return gitlog.Options{MaxCommits: o.MaxCommits, Revs: o.Revs}
}

// GraphKeyOpts returns cache key options for loading.
func (o *Options) GraphKeyOpts(fingerprint string) cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		MaxCommits: o.MaxCommits,
		Revs:       o.Revs,
		Head:       fingerprint,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Policy:        o.Policy,
		MaxExtentX:    o.MaxExtentX,
		MaxExtentY:    o.MaxExtentY,
		MaxExtentZ:    o.MaxExtentZ,
		CommitSpacing: o.CommitSpacing,
		BranchSpacing: o.BranchSpacing,
		Seed:          o.Seed,
		ConeRadius:    o.ConeRadius,
		ConePower:     o.ConePower,
		SceneSeed:     o.Seed,
		SceneLabels:   o.Labels,
		SceneBare:     o.Bare,
		IncludeScene:  o.Scene,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatDOT, FormatSVG:
		opts.Detailed = o.Detailed
		opts.Elevation = o.Elevation
		opts.Scale = o.Scale
	case FormatScene:
		opts.Labels = o.Labels
		opts.Bare = o.Bare
	}
	return opts
}
