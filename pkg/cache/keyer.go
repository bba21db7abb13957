package cache

// Keyer builds cache keys for each pipeline stage.
type Keyer interface {
	// GraphKey identifies the commit graph loaded from a repository.
	GraphKey(repo string, opts GraphKeyOpts) string
	// LayoutKey identifies a computed layout of a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts are the git log parameters that change the loaded graph.
type GraphKeyOpts struct {
	MaxCommits int      `json:"max_commits"`
	Revs       []string `json:"revs,omitempty"`
	// Head is the resolved HEAD (or any repo fingerprint). Callers leave it
	// empty to cache by path only.
	Head string `json:"head,omitempty"`
}

// LayoutKeyOpts are the layout knobs that change node positions.
type LayoutKeyOpts struct {
	Policy        string  `json:"policy"`
	MaxExtentX    float64 `json:"max_extent_x"`
	MaxExtentY    float64 `json:"max_extent_y"`
	MaxExtentZ    float64 `json:"max_extent_z"`
	CommitSpacing float64 `json:"commit_spacing"`
	BranchSpacing float64 `json:"branch_spacing"`
	Seed          uint64  `json:"seed"`
	ConeRadius    float64 `json:"cone_radius,omitempty"`
	ConePower     float64 `json:"cone_power,omitempty"`
	SceneSeed     uint64  `json:"scene_seed,omitempty"`
	SceneLabels   bool    `json:"scene_labels,omitempty"`
	SceneBare     bool    `json:"scene_bare,omitempty"`
	IncludeScene  bool    `json:"include_scene,omitempty"`
}

// ArtifactKeyOpts are the render parameters of an output format.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Detailed  bool    `json:"detailed,omitempty"`
	Elevation bool    `json:"elevation,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
	Labels    bool    `json:"labels,omitempty"`
	Bare      bool    `json:"bare,omitempty"`
}

// DefaultKeyer hashes the key options under a fixed namespace per stage.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GraphKey returns "graph:<sha256>".
func (DefaultKeyer) GraphKey(repo string, opts GraphKeyOpts) string {
	return hashKey("graph", repo, opts)
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
