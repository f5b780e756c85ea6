// Package metrics computes aggregate shape metrics over already-placed
// boxes: moment-of-inertia figure, volume and weight utilization, and a
// stacking stability scalar. These are reporting aids consumed by the
// service layer; they do not feed back into the solver.
package metrics

import "math"

// Box is one placed box in ULD-local coordinates.
type Box struct {
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	Z1     float64 `json:"z1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Z2     float64 `json:"z2"`
	Weight float64 `json:"weight"`
}

// Length returns the box extent along x.
func (b Box) Length() float64 { return b.X2 - b.X1 }

// Width returns the box extent along y.
func (b Box) Width() float64 { return b.Y2 - b.Y1 }

// Height returns the box extent along z.
func (b Box) Height() float64 { return b.Z2 - b.Z1 }

// Volume returns the box volume.
func (b Box) Volume() float64 { return b.Length() * b.Width() * b.Height() }

func (b Box) center() vector {
	return vector{(b.X2 + b.X1) / 2, (b.Y2 + b.Y1) / 2, (b.Z2 + b.Z1) / 2}
}

// Request describes one loaded ULD: its interior dimensions, its weight
// capacity (wire field "uld_weight"), and the boxes placed inside it.
type Request struct {
	ULDLength float64 `json:"uld_length"`
	ULDWidth  float64 `json:"uld_width"`
	ULDHeight float64 `json:"uld_height"`
	ULDWeight float64 `json:"uld_weight"`
	Packages  []Box   `json:"packages"`
}

type vector struct{ x, y, z float64 }

func (v vector) add(o vector) vector      { return vector{v.x + o.x, v.y + o.y, v.z + o.z} }
func (v vector) scale(s float64) vector   { return vector{v.x * s, v.y * s, v.z * s} }
func (v vector) distXY(o vector) float64  { return sq(v.x-o.x) + sq(v.y-o.y) }
func (v vector) dist2D(x, y float64) float64 { return sq(v.x-x) + sq(v.y-y) }

func sq(v float64) float64 { return v * v }

// volumetricCenter returns the volume-weighted centroid of the boxes.
func volumetricCenter(boxes []Box) vector {
	var total float64
	var center vector
	for _, b := range boxes {
		total += b.Volume()
		center = center.add(b.center().scale(b.Volume()))
	}
	if total == 0 {
		return center
	}
	return center.scale(1 / total)
}

// MomentOfInertia returns the moment-of-inertia figure: the weight-moment
// about the four floor corners (mean plus spread) relative to the moment
// about the volumetric center. Returns 0 for an empty or weightless load.
func MomentOfInertia(r Request) float64 {
	center := volumetricCenter(r.Packages)

	var moiCenter float64
	corners := [4][2]float64{
		{0, 0},
		{r.ULDLength, 0},
		{0, r.ULDWidth},
		{r.ULDLength, r.ULDWidth},
	}
	var moiCorners [4]float64

	for _, b := range r.Packages {
		moiCenter += b.Weight * b.center().distXY(center)
		for i, c := range corners {
			moiCorners[i] += b.Weight * b.center().dist2D(c[0], c[1])
		}
	}

	if moiCenter == 0 {
		return 0
	}

	var mean float64
	for _, m := range moiCorners {
		mean += m
	}
	mean /= 4

	var spread float64
	for _, m := range moiCorners {
		spread += sq(m - mean)
	}

	return (mean + math.Sqrt(spread)) / moiCenter
}

// VolumeUtilization returns the fraction of the ULD interior occupied by
// placed boxes. Returns 0 if any ULD dimension is zero.
func VolumeUtilization(r Request) float64 {
	if r.ULDLength == 0 || r.ULDWidth == 0 || r.ULDHeight == 0 {
		return 0
	}
	var v float64
	for _, b := range r.Packages {
		v += b.Volume()
	}
	return v / (r.ULDLength * r.ULDWidth * r.ULDHeight)
}

// WeightUtilization returns the fraction of the ULD weight capacity used.
// Returns 0 if the capacity is zero.
func WeightUtilization(r Request) float64 {
	if r.ULDWeight == 0 {
		return 0
	}
	var w float64
	for _, b := range r.Packages {
		w += b.Weight
	}
	return w / r.ULDWeight
}

// Stability combines four load-quality signals into one scalar:
// base-area fraction, weighted center-of-gravity height, placement
// centroid deviation, and stacking support ratio, with the fixed weights
// 0.2 / 0.2 / 0.5 / 0.1 and an additive 0.08 bias. Returns 0 for an empty
// load.
func Stability(r Request) float64 {
	if len(r.Packages) == 0 {
		return 0
	}

	var baseSupport, cogHeight, stacking float64
	var weightedX, weightedY float64

	var totalWeight float64
	for _, b := range r.Packages {
		totalWeight += b.Weight
	}

	for _, b := range r.Packages {
		maxBase := math.Max(b.Length()*b.Width(), math.Max(b.Length()*b.Height(), b.Width()*b.Height()))
		baseSupport += b.Length() * b.Width() / maxBase

		cogHeight += ((b.Z1 + b.Z2) / 2 / r.ULDHeight) * (b.Weight / totalWeight)

		weightedX += b.center().x * b.Weight
		weightedY += b.center().y * b.Weight
	}

	for _, b := range r.Packages {
		var stackedWeight float64
		for _, other := range r.Packages {
			if other.X1 < b.X2 && other.X2 > b.X1 && other.Y1 < b.Y2 && other.Y2 > b.Y1 && other.Z2 <= b.Z1 {
				stackedWeight += other.Weight
			}
		}
		if stackedWeight >= b.Weight {
			stacking++
		}
	}

	n := float64(len(r.Packages))
	baseSupport /= n
	stacking /= n

	centerX := weightedX / totalWeight
	centerY := weightedY / totalWeight
	deviation := math.Sqrt(sq(centerX-r.ULDLength/2) + sq(centerY-r.ULDWidth/2))
	distribution := 1 - deviation/((r.ULDLength+r.ULDWidth)/4)

	return 0.2*baseSupport +
		0.2*(1-cogHeight) +
		0.5*distribution +
		0.1*stacking +
		0.08
}
