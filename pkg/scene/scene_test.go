package scene

import (
	"math"
	"reflect"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/gitxmas/pkg/commit"
	"github.com/matzehuels/gitxmas/pkg/layout"
)

func engineFor(t *testing.T, commits []commit.Commit) *layout.Engine {
	t.Helper()
	return engineWith(t, commits, layout.PolicyLinearLane)
}

func engineWith(t *testing.T, commits []commit.Commit, policy layout.Policy) *layout.Engine {
	t.Helper()
	cfg := layout.DefaultConfig()
	cfg.Policy = policy
	e, err := layout.New(commit.MustNew(commits), cfg)
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	return e
}

// fork is a root with two children, all with hex hashes.
func fork() []commit.Commit {
	return []commit.Commit{
		{Hash: "aa0000ff11", Message: "A", Branch: "main"},
		{Hash: "00ff0022bb", Message: "B", Parents: []string{"aa0000ff11"}, Branch: "main"},
		{Hash: "12ab34cd56", Message: "C", Parents: []string{"aa0000ff11"}, Branch: "feature"},
	}
}

func history(n int) []commit.Commit {
	commits := []commit.Commit{{Hash: "c000", Message: "root", Branch: "main"}}
	for i := 1; i < n; i++ {
		parent := commits[(i-1)/2].Hash
		commits = append(commits, commit.Commit{
			Hash:    "c" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			Parents: []string{parent},
			Branch:  []string{"main", "dev", ""}[i%3],
		})
	}
	return commits
}

func TestBuildCounts(t *testing.T) {
	e := engineFor(t, history(15))
	s := Build(e, Options{Seed: 1})

	offAxis := 0
	for _, n := range e.Nodes() {
		if n.Position.X != 0 || n.Position.Y != 0 {
			offAxis++
		}
	}

	tests := []struct {
		role Role
		want int
	}{
		{RoleCommit, 15},
		{RoleBranch, len(e.Edges())},
		{RoleTrunk, 1},
		{RoleConnector, offAxis},
		{RoleOrnament, 5},
		{RoleLight, LightCount},
		{RoleStar, 1},
		{RoleStarLight, 1},
		{RoleLabel, 0},
	}
	for _, tt := range tests {
		if got := s.Count(tt.role); got != tt.want {
			t.Errorf("Count(%s) = %d, want %d", tt.role, got, tt.want)
		}
	}
}

func TestBuildBareWithLabels(t *testing.T) {
	e := engineFor(t, history(4))
	s := Build(e, Options{Bare: true, Labels: true})
	if s.Count(RoleTrunk)+s.Count(RoleLight)+s.Count(RoleStar)+s.Count(RoleOrnament) != 0 {
		t.Error("bare scene should have no decorations")
	}
	labels := s.ByRole(RoleLabel)
	if len(labels) != 4 {
		t.Fatalf("labels = %d, want 4", len(labels))
	}
	pos, _ := e.Position(labels[0].Commit)
	if labels[0].Position.Z != pos.Z+LabelLift || labels[0].Text != "root" {
		t.Errorf("label = %+v", labels[0])
	}
}

func TestCommitPrimitives(t *testing.T) {
	e := engineFor(t, []commit.Commit{
		{Hash: "0123456789", Message: "hello", Branch: "main"},
		{Hash: "abcdef0123", Parents: []string{"0123456789"}},
	})
	commits := Build(e, Options{}).ByRole(RoleCommit)
	if commits[0].Name != "hello" || commits[1].Name != "abcdef0" {
		t.Errorf("names = %q, %q", commits[0].Name, commits[1].Name)
	}
	if commits[1].Color != "#808080" {
		t.Errorf("unlabeled commit color = %s, want gray", commits[1].Color)
	}
	if commits[0].Radius != CommitRadius {
		t.Errorf("radius = %g", commits[0].Radius)
	}
}

func TestTrunkAndStar(t *testing.T) {
	e := engineFor(t, history(7))
	s := Build(e, Options{})
	lo, hi := e.Bounds()

	trunk := s.ByRole(RoleTrunk)[0]
	if trunk.Height != hi.Z-lo.Z+1 || trunk.Position.Z != (lo.Z+hi.Z)/2 {
		t.Errorf("trunk = %+v", trunk)
	}
	star := s.ByRole(RoleStar)[0]
	if star.Position != (layout.Position{Z: hi.Z + StarLift}) {
		t.Errorf("star at %+v", star.Position)
	}
	light := s.ByRole(RoleStarLight)[0]
	if light.Energy != StarEnergy || light.Color != "#ffe64d" {
		t.Errorf("star light = %+v", light)
	}
}

func TestEmptyScene(t *testing.T) {
	s := Build(engineFor(t, nil), Options{})
	trunk := s.ByRole(RoleTrunk)[0]
	if trunk.Height != 2 || trunk.Position.Z != 0 {
		t.Errorf("trunk = %+v", trunk)
	}
	if z := s.ByRole(RoleStar)[0].Position.Z; z != 1.5 {
		t.Errorf("star z = %g, want 1.5", z)
	}
	if s.Count(RoleOrnament) != 0 || s.Count(RoleCommit) != 0 {
		t.Error("empty layout should have no commits or ornaments")
	}
}

func TestLightsSpiral(t *testing.T) {
	e := engineFor(t, history(10))
	lights := Build(e, Options{}).ByRole(RoleLight)
	maxR := e.Config().MaxExtentX * 0.8

	first := lights[0].Position
	if math.Abs(math.Hypot(first.X, first.Y)-maxR) > 1e-9 {
		t.Errorf("first light radius = %g, want %g", math.Hypot(first.X, first.Y), maxR)
	}
	for i := 1; i < len(lights); i++ {
		prev, cur := lights[i-1].Position, lights[i].Position
		if cur.Z <= prev.Z {
			t.Errorf("light %d not above light %d", i, i-1)
		}
		if math.Hypot(cur.X, cur.Y) >= math.Hypot(prev.X, prev.Y) {
			t.Errorf("light %d not closer to the axis", i)
		}
	}
}

func TestOrnamentsSeeded(t *testing.T) {
	e := engineFor(t, history(30))
	a := Build(e, Options{Seed: 9}).ByRole(RoleOrnament)
	b := Build(e, Options{Seed: 9}).ByRole(RoleOrnament)
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed produced different ornaments")
	}
	if len(a) != 10 {
		t.Fatalf("ornaments = %d, want 10", len(a))
	}

	seen := make(map[string]bool)
	for _, o := range a {
		if seen[o.Commit] {
			t.Errorf("commit %s decorated twice", o.Commit)
		}
		seen[o.Commit] = true
		pos, _ := e.Position(o.Commit)
		if o.Position.Z != pos.Z-OrnamentDrop {
			t.Errorf("ornament not below its commit")
		}
		if _, ok := OrnamentPalette[o.Name[len("Ornament_"):]]; !ok {
			t.Errorf("unknown ornament color %q", o.Name)
		}
	}
}

func TestOrnamentsCapped(t *testing.T) {
	e := engineFor(t, history(200))
	if n := Build(e, Options{}).Count(RoleOrnament); n != MaxOrnaments {
		t.Errorf("ornaments = %d, want %d", n, MaxOrnaments)
	}
}

func TestBranchColor(t *testing.T) {
	if BranchColor("main") != BranchColor("main") {
		t.Error("BranchColor not stable")
	}
	if BranchColor("main") == BranchColor("dev") {
		t.Error("expected different colors for different branches")
	}
	for _, name := range []string{"main", "dev", "feature/x", "release-1.0"} {
		c, err := colorful.Hex(BranchColor(name))
		if err != nil {
			t.Fatalf("BranchColor(%q): %v", name, err)
		}
		for _, v := range []float64{c.R, c.G, c.B} {
			if v < 0.3-1.0/255 || v > 0.9+1.0/255 {
				t.Errorf("BranchColor(%q) channel %g out of range", name, v)
			}
		}
	}
}

func TestRadialLeafRings(t *testing.T) {
	e := engineWith(t, fork(), layout.PolicyRadialRing)
	s := Build(e, Options{})

	rings := s.ByRole(RoleLeafRing)
	if len(rings) != 1 {
		t.Fatalf("rings = %d, want 1 shared by both children", len(rings))
	}
	r := rings[0]
	want := 0.5 * e.Config().BranchSpacing * e.Fit().Scale
	if r.Kind != KindRing || math.Abs(r.Radius-want) > 1e-9 {
		t.Errorf("ring kind=%s radius=%g, want ring of %g", r.Kind, r.Radius, want)
	}
	if r.Segments != LeafRingSegments || math.Abs(r.Rotation-math.Pi/4) > 1e-12 {
		t.Errorf("segments=%d rotation=%g, want 5 and 45°", r.Segments, r.Rotation)
	}
	pos, _ := e.Position("00ff0022bb")
	if r.Position != (layout.Position{Z: pos.Z}) || r.Color != LeafColor {
		t.Errorf("ring = %+v", r)
	}
}

func TestRadialLeafRingsDeduplicated(t *testing.T) {
	e := engineWith(t, history(40), layout.PolicyRadialRing)
	rings := Build(e, Options{}).ByRole(RoleLeafRing)
	if len(rings) == 0 {
		t.Fatal("no rings")
	}

	type key struct{ z, r float64 }
	seen := make(map[key]bool)
	for _, r := range rings {
		k := key{math.Round(r.Position.Z * 1e6), math.Round(r.Radius * 1e6)}
		if seen[k] {
			t.Errorf("duplicate ring at z=%g r=%g", r.Position.Z, r.Radius)
		}
		seen[k] = true
	}

	spacing := e.Config().BranchSpacing * e.Fit().Scale
	for _, n := range e.Nodes() {
		if n.Lane == 0 {
			continue
		}
		k := key{math.Round(n.Position.Z * 1e6), math.Round(math.Abs(n.Lane) * spacing * 1e6)}
		if !seen[k] {
			t.Errorf("commit %s (depth %d) has no ring", n.Commit.Hash, n.Depth)
		}
	}
}

func TestRadialTaperedTrunk(t *testing.T) {
	e := engineWith(t, history(7), layout.PolicyRadialRing)
	lo, hi := e.Bounds()
	trunk := Build(e, Options{}).ByRole(RoleTrunk)[0]

	bottom := lo.Z - TrunkRootLevels*e.Config().CommitSpacing*e.Fit().Scale
	if trunk.Kind != KindCone || trunk.Radius != TaperedTrunkBase || trunk.RadiusTop != TaperedTrunkTop {
		t.Errorf("trunk = %+v, want tapered cone", trunk)
	}
	if math.Abs(trunk.Height-(hi.Z-bottom)) > 1e-9 || math.Abs(trunk.Position.Z-(bottom+hi.Z)/2) > 1e-9 {
		t.Errorf("trunk spans %g around %g, want %g..%g", trunk.Height, trunk.Position.Z, bottom, hi.Z)
	}

	linear := Build(engineFor(t, history(7)), Options{}).ByRole(RoleTrunk)[0]
	if linear.Kind != KindCylinder || linear.RadiusTop != 0 {
		t.Errorf("linear trunk = %+v, want cylinder", linear)
	}
	if n := Build(engineFor(t, history(7)), Options{}).Count(RoleLeafRing); n != 0 {
		t.Errorf("linear scene has %d rings", n)
	}
}

func TestRadialCommitColorsFromHash(t *testing.T) {
	commits := Build(engineWith(t, fork(), layout.PolicyRadialRing), Options{}).ByRole(RoleCommit)
	want := []string{"#aa0000", "#00ff00", "#12ab34"}
	for i, c := range commits {
		if c.Color != want[i] {
			t.Errorf("%s color = %s, want %s", c.Commit, c.Color, want[i])
		}
	}
}

func TestHashColor(t *testing.T) {
	tests := []struct {
		hash string
		want string
	}{
		{"ff8000deadbeef", "#ff8000"},
		{"ABCDEF0", "#abcdef"},
		{"abc", "#808080"},
		{"zz0000", "#808080"},
	}
	for _, tt := range tests {
		if got := HashColor(tt.hash, "#808080"); got != tt.want {
			t.Errorf("HashColor(%q) = %s, want %s", tt.hash, got, tt.want)
		}
	}
}

func TestLegend(t *testing.T) {
	s := Build(engineFor(t, history(4)), Options{Bare: true})
	want := []LegendEntry{
		{Branch: "main", Color: BranchColor("main")},
		{Branch: "dev", Color: BranchColor("dev")},
	}
	if !reflect.DeepEqual(s.Legend, want) {
		t.Errorf("Legend = %+v, want %+v", s.Legend, want)
	}
}
