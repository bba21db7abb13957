package layout

// Fit is the uniform transform that brings raw positions inside the extents.
type Fit struct {
	Scale   float64 `json:"scale" bson:"scale"`
	OffsetX float64 `json:"offset_x" bson:"offset_x"`
	OffsetY float64 `json:"offset_y" bson:"offset_y"`
	OffsetZ float64 `json:"offset_z" bson:"offset_z"`
}

// Apply maps a raw position to its final position: (p - offset) * scale.
func (f Fit) Apply(p Position) Position {
	return Position{
		X: (p.X - f.OffsetX) * f.Scale,
		Y: (p.Y - f.OffsetY) * f.Scale,
		Z: (p.Z - f.OffsetZ) * f.Scale,
	}
}

// FitBounds computes one uniform scale for all raw positions.
//
// Horizontal targets are 2*MaxExtentX and 2*MaxExtentY, the height target is
// MaxExtentZ. Each axis contributes target/range, or 1 when its range is zero,
// and the smallest of the three wins so the aspect ratio is kept and no bound
// is exceeded. Only the height axis is offset, so that the lowest point lands
// on z=0. An empty input yields scale 1 and zero offsets.
func FitBounds(raw []Position, cfg Config) Fit {
	if len(raw) == 0 {
		return Fit{Scale: 1}
	}
	lo, hi := Extent(raw)
	scale := min(
		axisScale(2*cfg.MaxExtentX, hi.X-lo.X),
		axisScale(2*cfg.MaxExtentY, hi.Y-lo.Y),
		axisScale(cfg.MaxExtentZ, hi.Z-lo.Z),
	)
	return Fit{Scale: scale, OffsetZ: lo.Z}
}

func axisScale(target, span float64) float64 {
	if span > 0 {
		return target / span
	}
	return 1
}

// Extent returns the per-axis minimum and maximum of ps.
// Both are the zero Position when ps is empty.
func Extent(ps []Position) (lo, hi Position) {
	for i, p := range ps {
		if i == 0 {
			lo, hi = p, p
			continue
		}
		lo = Position{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = Position{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi
}
