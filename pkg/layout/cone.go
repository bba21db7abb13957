package layout

import (
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/matzehuels/gitxmas/pkg/commit"
)

// coneJitter bounds the random radial offset of PolicyTimeCone.
const coneJitter = 0.15

// coneProjector stacks commits by time inside a cone that narrows upward.
type coneProjector struct {
	tMin   int64
	tRange float64
	height float64
	radius float64
	power  float64
	seed   uint64
}

func newConeProjector(in ProjectionInput) *coneProjector {
	lo, hi := in.Graph.TimeRange()
	return &coneProjector{
		tMin:   lo,
		tRange: math.Max(1, float64(hi)-float64(lo)),
		height: in.Config.MaxExtentZ,
		radius: in.Config.ConeRadius,
		power:  in.Config.ConePower,
		seed:   in.Config.Seed,
	}
}

func (p *coneProjector) Project(c commit.Commit, _ int, _ float64) Position {
	zNorm := (float64(c.Timestamp) - float64(p.tMin)) / p.tRange
	rMax := math.Pow(1-zNorm, p.power) * p.radius

	// Each commit draws from its own generator so the result does not depend
	// on the order in which commits are projected.
	rng := rand.New(rand.NewPCG(p.seed, hashSeed(c.Hash)))
	r := max(0, rMax+(rng.Float64()*2-1)*coneJitter)

	angle := float64(hashAngle(c.Hash)) * math.Pi / 180
	x, y := polar(angle, r)
	return Position{X: x, Y: y, Z: zNorm * p.height}
}

func hashSeed(hash string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(hash))
	return h.Sum64()
}

// hashAngle returns a whole-degree angle in [0, 360) derived from the first
// eight hex digits of hash, or from its FNV hash when those are not hex.
func hashAngle(hash string) uint64 {
	prefix := hash
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	if v, err := strconv.ParseUint(prefix, 16, 64); err == nil {
		return v % 360
	}
	return hashSeed(hash) % 360
}
