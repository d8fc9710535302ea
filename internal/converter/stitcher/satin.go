package stitcher

import (
	"math"

	"github.com/brandon-urgd/stitch/internal/converter/geometry"
	"github.com/brandon-urgd/stitch/internal/converter/models"
)

// ============================================================
// Satin generation
// ============================================================

// GenerateSatin шьёт узкую фигуру зигзагом между двумя «рельсами» —
// длинными краями контура. Контур режется в крайних точках длинной оси
// OBB на две цепочки, обе пересэмплируются по длине дуги с одинаковым
// числом точек, стежки идут попеременно рельс A / рельс B.
func GenerateSatin(shape models.Shape, cfg models.DensityConfig) ([]models.Stitch, error) {
	railA, railB, err := splitRails(shape)
	if err != nil {
		return nil, err
	}

	longest := math.Max(pathLength(railA), pathLength(railB))
	n := int(math.Round(longest / cfg.SatinStitchMm))
	if n < 1 {
		n = 1
	}

	a := resampleUniform(railA, n)
	b := resampleUniform(railB, n)

	stitches := make([]models.Stitch, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		stitches = append(stitches,
			models.Stitch{Point: a[i]},
			models.Stitch{Point: b[i]},
		)
	}

	return enforceBounds(stitches, cfg), nil
}

// splitRails возвращает две цепочки контура между крайними точками
// длинной оси, обе ориентированные от начала к концу оси.
func splitRails(shape models.Shape) (railA, railB []models.Point, err error) {
	ring := openRing(shape.Points)
	if len(ring) < 3 {
		return nil, nil, &models.GeometryError{ShapeIndex: shape.Index, Msg: "satin shape needs at least 3 distinct points"}
	}

	axis := geometry.OrientedBox(ring).AngleRad
	cos, sin := math.Cos(axis), math.Sin(axis)

	iMin, iMax := 0, 0
	minU, maxU := math.MaxFloat64, -math.MaxFloat64
	for i, p := range ring {
		u := p.X*cos + p.Y*sin
		if u < minU {
			minU, iMin = u, i
		}
		if u > maxU {
			maxU, iMax = u, i
		}
	}
	if iMin == iMax {
		return nil, nil, &models.GeometryError{ShapeIndex: shape.Index, Msg: "degenerate satin axis"}
	}

	railA = walkRing(ring, iMin, iMax)
	railB = reversePoints(walkRing(ring, iMax, iMin))
	return railA, railB, nil
}

// openRing отбрасывает замыкающий дубль первой точки.
func openRing(points []models.Point) []models.Point {
	if len(points) > 1 && points[0] == points[len(points)-1] {
		return points[:len(points)-1]
	}
	return points
}

// walkRing — точки кольца от from до to включительно, по возрастанию индекса.
func walkRing(ring []models.Point, from, to int) []models.Point {
	out := []models.Point{ring[from]}
	for i := (from + 1) % len(ring); ; i = (i + 1) % len(ring) {
		out = append(out, ring[i])
		if i == to {
			break
		}
	}
	return out
}

func reversePoints(points []models.Point) []models.Point {
	out := make([]models.Point, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}
