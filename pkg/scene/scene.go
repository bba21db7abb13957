// Package scene turns a computed layout into a list of renderer-neutral
// primitives: spheres for commits, curves for branches and a set of
// decorations (trunk, ornaments, spiral lights, star).
//
// Under the radial_ring policy the tree gets pentagonal leaf rings, one per
// ring of commits, a tapered trunk and ornament-colored commits.
//
// A scene describes placement only. Primitives carry positions, sizes and a
// color hint; creating meshes, materials or lights in a particular 3D tool is
// left to the consumer.
package scene

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/gitxmas/pkg/layout"
)

// Kind is the geometric shape of a primitive.
type Kind string

const (
	KindSphere   Kind = "sphere"
	KindCurve    Kind = "curve"
	KindCylinder Kind = "cylinder"
	KindCone     Kind = "cone"
	KindRing     Kind = "ring"
	KindLight    Kind = "point_light"
	KindText     Kind = "text"
)

// Role says what a primitive stands for in the tree.
type Role string

const (
	RoleCommit    Role = "commit"
	RoleBranch    Role = "branch"
	RoleTrunk     Role = "trunk"
	RoleLeafRing  Role = "leaf_ring"
	RoleConnector Role = "connector"
	RoleOrnament  Role = "ornament"
	RoleLight     Role = "light"
	RoleStar      Role = "star"
	RoleStarLight Role = "star_light"
	RoleLabel     Role = "label"
)

// Sizes and counts of the generated primitives.
const (
	CommitRadius    = 0.18
	BranchRadius    = 0.03
	TrunkRadius     = 0.15
	ConnectorRadius = 0.02
	ConnectorDrop   = 0.5
	OrnamentRadius  = 0.12
	OrnamentDrop    = 0.3
	MaxOrnaments    = 30
	LightCount      = 20
	LightRadius     = 0.08
	LightTurns      = 3
	StarRadius      = 0.3
	StarHeight      = 0.6
	StarLift        = 0.5
	StarEnergy      = 500
	LabelLift       = 0.5

	// Radial ring decorations.
	LeafRingSegments  = 5
	LeafRingThickness = 0.06
	TaperedTrunkBase  = 0.5
	TaperedTrunkTop   = 0.15
	TrunkRootLevels   = 2
)

// Primitive is one placed shape.
//
// Position is the center of spheres, cylinders, cones, rings and lights.
// Curves use Points instead. Height is the axial length of cylinders and
// cones; a cone with RadiusTop set is a frustum. Rings are tori of Radius with
// a tube of Thickness, drawn with Segments straight sides and turned by
// Rotation radians about the vertical axis.
type Primitive struct {
	Kind      Kind              `json:"kind" bson:"kind"`
	Role      Role              `json:"role" bson:"role"`
	Name      string            `json:"name" bson:"name"`
	Position  layout.Position   `json:"position" bson:"position"`
	Points    []layout.Position `json:"points,omitempty" bson:"points,omitempty"`
	Radius    float64           `json:"radius,omitempty" bson:"radius,omitempty"`
	Height    float64           `json:"height,omitempty" bson:"height,omitempty"`
	RadiusTop float64           `json:"radius_top,omitempty" bson:"radius_top,omitempty"`
	Thickness float64           `json:"thickness,omitempty" bson:"thickness,omitempty"`
	Segments  int               `json:"segments,omitempty" bson:"segments,omitempty"`
	Rotation  float64           `json:"rotation,omitempty" bson:"rotation,omitempty"`
	Color     string            `json:"color,omitempty" bson:"color,omitempty"`
	Energy    float64           `json:"energy,omitempty" bson:"energy,omitempty"`
	Text      string            `json:"text,omitempty" bson:"text,omitempty"`
	Commit    string            `json:"commit,omitempty" bson:"commit,omitempty"`
}

// LegendEntry pairs a branch label with the color of its commits.
type LegendEntry struct {
	Branch string `json:"branch" bson:"branch"`
	Color  string `json:"color" bson:"color"`
}

// Scene is the full set of primitives for one layout.
type Scene struct {
	Primitives []Primitive   `json:"primitives" bson:"primitives"`
	Legend     []LegendEntry `json:"legend,omitempty" bson:"legend,omitempty"`
}

// Count returns how many primitives have the given role.
func (s Scene) Count(role Role) int {
	n := 0
	for _, p := range s.Primitives {
		if p.Role == role {
			n++
		}
	}
	return n
}

// ByRole returns the primitives with the given role in scene order.
func (s Scene) ByRole(role Role) []Primitive {
	var out []Primitive
	for _, p := range s.Primitives {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out
}

// Options controls which decorations are generated.
type Options struct {
	// Seed drives ornament selection and colors.
	Seed uint64
	// Labels adds a text primitive above every commit.
	Labels bool
	// Bare omits trunk, connectors, ornaments, lights and star.
	Bare bool
}

// Build generates the scene for e.
func Build(e *layout.Engine, opts Options) Scene {
	b := &builder{e: e, opts: opts, radial: e.Config().Policy == layout.PolicyRadialRing}
	b.commits()
	b.branches()
	if !opts.Bare {
		b.leafRings()
		b.trunk()
		b.connectors()
		b.ornaments()
		b.lights()
		b.star()
	}
	return Scene{Primitives: b.out, Legend: legend(e)}
}

type builder struct {
	e      *layout.Engine
	opts   Options
	radial bool
	out    []Primitive
}

// legend lists every labeled branch of the graph with its color.
func legend(e *layout.Engine) []LegendEntry {
	var out []LegendEntry
	for _, branch := range e.Graph().Branches() {
		out = append(out, LegendEntry{Branch: branch, Color: BranchColor(branch)})
	}
	return out
}

func (b *builder) add(p Primitive) { b.out = append(b.out, p) }

func (b *builder) commits() {
	for _, n := range b.e.Nodes() {
		name := n.Commit.Message
		if name == "" {
			name = n.Commit.ShortHash()
		}
		color := BranchColor(n.Commit.Branch)
		if b.radial {
			color = HashColor(n.Commit.Hash, color)
		}
		b.add(Primitive{
			Kind:     KindSphere,
			Role:     RoleCommit,
			Name:     name,
			Position: n.Position,
			Radius:   CommitRadius,
			Color:    color,
			Commit:   n.Commit.Hash,
		})
		if b.opts.Labels {
			b.add(Primitive{
				Kind:     KindText,
				Role:     RoleLabel,
				Name:     "Label_" + n.Commit.ShortHash(),
				Position: n.Position.Add(layout.Position{Z: LabelLift}),
				Text:     name,
				Commit:   n.Commit.Hash,
			})
		}
	}
}

func (b *builder) branches() {
	for _, edge := range b.e.Edges() {
		b.add(curve(edge.Label, RoleBranch, edge.FromPos, edge.ToPos, BranchRadius, edge.To))
	}
}

func curve(label string, role Role, from, to layout.Position, radius float64, hash string) Primitive {
	name := label
	if name == "" {
		name = "Branch"
	}
	return Primitive{
		Kind:   KindCurve,
		Role:   role,
		Name:   name,
		Points: []layout.Position{from, to},
		Radius: radius,
		Commit: hash,
	}
}

// verticalSpan returns the height range of the commits, and the trunk height
// derived from it.
func (b *builder) verticalSpan() (minZ, maxZ, trunkHeight float64) {
	if len(b.e.Nodes()) == 0 {
		return 0, 0, 2
	}
	lo, hi := b.e.Bounds()
	return lo.Z, hi.Z, hi.Z - lo.Z + 1
}

// leafRings adds one pentagonal ring per distinct height and radius. Rings
// turn 45° per depth, like the commits placed on them.
func (b *builder) leafRings() {
	if !b.radial {
		return
	}
	type ringKey struct{ z, r float64 }
	round := func(v float64) float64 { return math.Round(v*1e6) / 1e6 }

	spacing := b.e.Config().BranchSpacing * b.e.Fit().Scale
	seen := make(map[ringKey]bool)
	for _, n := range b.e.Nodes() {
		r := math.Abs(n.Lane) * spacing
		key := ringKey{round(n.Position.Z), round(r)}
		if r == 0 || seen[key] {
			continue
		}
		seen[key] = true
		b.add(Primitive{
			Kind:      KindRing,
			Role:      RoleLeafRing,
			Name:      "Ring_" + n.Commit.ShortHash(),
			Position:  layout.Position{Z: n.Position.Z},
			Radius:    r,
			Thickness: LeafRingThickness,
			Segments:  LeafRingSegments,
			Rotation:  float64(n.Depth) * math.Pi / 4,
			Color:     LeafColor,
			Commit:    n.Commit.Hash,
		})
	}
}

func (b *builder) trunk() {
	minZ, maxZ, height := b.verticalSpan()
	if b.radial && len(b.e.Nodes()) > 0 {
		// Tapered toward the top and rooted two levels below the lowest commit.
		bottom := minZ - TrunkRootLevels*b.e.Config().CommitSpacing*b.e.Fit().Scale
		b.add(Primitive{
			Kind:      KindCone,
			Role:      RoleTrunk,
			Name:      "Trunk",
			Position:  layout.Position{Z: (bottom + maxZ) / 2},
			Radius:    TaperedTrunkBase,
			RadiusTop: TaperedTrunkTop,
			Height:    maxZ - bottom,
			Color:     TrunkColor,
		})
		return
	}
	b.add(Primitive{
		Kind:     KindCylinder,
		Role:     RoleTrunk,
		Name:     "Trunk",
		Position: layout.Position{Z: (minZ + maxZ) / 2},
		Radius:   TrunkRadius,
		Height:   height,
	})
}

func (b *builder) connectors() {
	for _, n := range b.e.Nodes() {
		if n.Position.X == 0 && n.Position.Y == 0 {
			continue
		}
		from := layout.Position{X: TrunkRadius, Z: n.Position.Z - ConnectorDrop}
		b.add(curve(n.Commit.Branch, RoleConnector, from, n.Position, ConnectorRadius, n.Commit.Hash))
	}
}

func (b *builder) ornaments() {
	nodes := b.e.Nodes()
	count := min(len(nodes)/3, MaxOrnaments)
	if count == 0 {
		return
	}
	rng := rand.New(rand.NewPCG(b.opts.Seed, b.opts.Seed^0xdeadbeef))
	for _, idx := range rng.Perm(len(nodes))[:count] {
		n := nodes[idx]
		name := OrnamentColors[rng.IntN(len(OrnamentColors))]
		b.add(Primitive{
			Kind:     KindSphere,
			Role:     RoleOrnament,
			Name:     "Ornament_" + name,
			Position: n.Position.Add(layout.Position{Z: -OrnamentDrop}),
			Radius:   OrnamentRadius,
			Color:    OrnamentPalette[name],
			Commit:   n.Commit.Hash,
		})
	}
}

func (b *builder) lights() {
	minZ, _, height := b.verticalSpan()
	maxRadius := b.e.Config().MaxExtentX * 0.8
	for i := range LightCount {
		t := float64(i) / LightCount
		angle := t * LightTurns * 2 * math.Pi
		r := (1 - t) * maxRadius
		b.add(Primitive{
			Kind: KindSphere,
			Role: RoleLight,
			Name: "Light_" + strconv.Itoa(i),
			Position: layout.Position{
				X: r * math.Cos(angle),
				Y: r * math.Sin(angle),
				Z: t*height + minZ,
			},
			Radius: LightRadius,
			Color:  LightColor,
		})
	}
}

func (b *builder) star() {
	_, maxZ, height := b.verticalSpan()
	top := maxZ + StarLift
	if len(b.e.Nodes()) == 0 {
		top = height/2 + StarLift
	}
	at := layout.Position{Z: top}
	b.add(Primitive{
		Kind:     KindCone,
		Role:     RoleStar,
		Name:     "Star",
		Position: at,
		Radius:   StarRadius,
		Height:   StarHeight,
		Color:    StarColor,
	})
	b.add(Primitive{
		Kind:     KindLight,
		Role:     RoleStarLight,
		Name:     "StarLight",
		Position: at,
		Energy:   StarEnergy,
		Color:    StarColor,
	})
}

// =============================================================================
// Colors
// =============================================================================

// OrnamentColors lists the ornament palette names in selection order.
var OrnamentColors = []string{"red", "gold", "blue", "silver", "purple", "green"}

// OrnamentPalette maps ornament color names to hex colors.
var OrnamentPalette = map[string]string{
	"red":    colorful.Color{R: 0.8, G: 0.1, B: 0.1}.Hex(),
	"gold":   colorful.Color{R: 0.9, G: 0.7, B: 0.1}.Hex(),
	"blue":   colorful.Color{R: 0.1, G: 0.3, B: 0.8}.Hex(),
	"silver": colorful.Color{R: 0.7, G: 0.7, B: 0.8}.Hex(),
	"purple": colorful.Color{R: 0.6, G: 0.1, B: 0.6}.Hex(),
	"green":  colorful.Color{R: 0.1, G: 0.7, B: 0.2}.Hex(),
}

var (
	StarColor  = colorful.Color{R: 1.0, G: 0.9, B: 0.3}.Hex()
	LightColor = colorful.Color{R: 1.0, G: 0.95, B: 0.7}.Hex()
	LeafColor  = colorful.Color{R: 0.1, G: 0.6, B: 0.2}.Hex()
	TrunkColor = colorful.Color{R: 0.25, G: 0.15, B: 0.05}.Hex()
	noBranch   = colorful.Color{R: 0.5, G: 0.5, B: 0.5}.Hex()
)

// BranchColor derives a stable color from a branch label. Each channel lies
// in [0.3, 0.9] so colors are neither too dark nor washed out. An empty label
// is gray.
func BranchColor(branch string) string {
	if branch == "" {
		return noBranch
	}
	h := fnv.New32a()
	h.Write([]byte(branch))
	v := h.Sum32()
	channel := func(shift uint) float64 {
		return float64((v>>shift)&0xFF)/255*0.6 + 0.3
	}
	return colorful.Color{R: channel(0), G: channel(8), B: channel(16)}.Hex()
}

// HashColor reads the first six hex digits of a commit hash as an RGB color.
// Hashes that are too short or not hex yield fallback.
func HashColor(hash, fallback string) string {
	if len(hash) < 6 {
		return fallback
	}
	c, err := colorful.Hex("#" + hash[:6])
	if err != nil {
		return fallback
	}
	return c.Hex()
}
