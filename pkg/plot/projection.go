package plot

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Camera orients the room before it is flattened onto the image plane.
// Angles are in degrees.
type Camera struct {
	Azimuth   float64
	Elevation float64
}

// DefaultCamera looks at the room from the front-left, slightly above
var DefaultCamera = Camera{Azimuth: -35, Elevation: 25}

// roomAxes maps a target position onto (width, depth, height): the result
// tables store height in real_y and distance from the array in real_z.
func roomAxes(p r3.Vector) r3.Vector {
	return r3.Vector{X: p.X, Y: p.Z, Z: p.Y}
}

// rotation returns Rx(elevation) * Rz(azimuth)
func (c Camera) rotation() *mat.Dense {
	az := c.Azimuth * math.Pi / 180
	el := c.Elevation * math.Pi / 180

	rz := mat.NewDense(3, 3, []float64{
		math.Cos(az), -math.Sin(az), 0,
		math.Sin(az), math.Cos(az), 0,
		0, 0, 1,
	})
	rx := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, math.Cos(el), -math.Sin(el),
		0, math.Sin(el), math.Cos(el),
	})

	var r mat.Dense
	r.Mul(rx, rz)
	return &r
}

// projected is a point on the image plane; depth grows away from the viewer
type projected struct {
	X, Y  float64
	Depth float64
}

// project rotates room coordinates around their centroid and drops depth.
// The origin is passed in so that axis guides share it with the points.
func (c Camera) project(points []r3.Vector, origin r3.Vector) []projected {
	if len(points) == 0 {
		return nil
	}

	coords := mat.NewDense(3, len(points), nil)
	for j, p := range points {
		d := roomAxes(p).Sub(roomAxes(origin))
		coords.Set(0, j, d.X)
		coords.Set(1, j, d.Y)
		coords.Set(2, j, d.Z)
	}

	var rotated mat.Dense
	rotated.Mul(c.rotation(), coords)

	out := make([]projected, len(points))
	for j := range points {
		out[j] = projected{
			X:     rotated.At(0, j),
			Y:     rotated.At(2, j),
			Depth: rotated.At(1, j),
		}
	}
	return out
}

// centroid returns the mean position ignoring non-finite coordinates
func centroid(points []r3.Vector) r3.Vector {
	var xs, ys, zs []float64
	for _, p := range points {
		if finite(p) {
			xs = append(xs, p.X)
			ys = append(ys, p.Y)
			zs = append(zs, p.Z)
		}
	}
	if len(xs) == 0 {
		return r3.Vector{}
	}
	return r3.Vector{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil), Z: stat.Mean(zs, nil)}
}

// bounds returns the componentwise min and max of the finite points
func bounds(points []r3.Vector) (lo, hi r3.Vector) {
	first := true
	for _, p := range points {
		if !finite(p) {
			continue
		}
		if first {
			lo, hi = p, p
			first = false
			continue
		}
		lo = r3.Vector{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vector{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return lo, hi
}

func finite(p r3.Vector) bool {
	for _, v := range []float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
