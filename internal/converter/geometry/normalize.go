package geometry

import (
	"math"

	"github.com/brandon-urgd/stitch/internal/converter/models"
)

// ============================================================
// Geometry Normalizer
// ============================================================

const mmPerInch = 25.4

// NormalizeResult — фигуры в миллиметрах плюс предупреждения о выброшенных.
type NormalizeResult struct {
	Shapes   []models.Shape
	Warnings []models.DegenerateShapeWarning
}

// Normalize приводит сырые дескрипторы к замкнутым контурам в миллиметрах:
// конвертирует единицы, склеивает дубли точек, замыкает заливки и
// отбрасывает вырожденные фигуры с предупреждением.
func Normalize(descriptors []models.ShapeDescriptor, cfg models.DensityConfig) (*NormalizeResult, error) {
	res := &NormalizeResult{}

	for i, d := range descriptors {
		scale, err := unitScale(d.Unit, cfg.PxPerInch)
		if err != nil {
			return nil, err
		}

		points := make([]models.Point, 0, len(d.Points))
		for _, p := range d.Points {
			points = append(points, models.Point{X: p.X * scale, Y: p.Y * scale})
		}

		points = dedupe(points, cfg.DedupeEpsilonMm)

		// Замыкаем заливку, если первая и последняя точки различаются
		if d.Filled && len(points) >= 3 {
			first, last := points[0], points[len(points)-1]
			if Distance(first, last) > cfg.DedupeEpsilonMm {
				points = append(points, first)
			}
		}

		if reason := degenerateReason(points, d.Filled, cfg.DedupeEpsilonMm); reason != "" {
			res.Warnings = append(res.Warnings, models.DegenerateShapeWarning{
				ShapeIndex: i,
				Reason:     reason,
			})
			continue
		}

		res.Shapes = append(res.Shapes, models.Shape{
			Index:         i,
			Points:        points,
			Filled:        d.Filled,
			StrokeWidthMm: d.StrokeWidthMm,
		})
	}

	return res, nil
}

func unitScale(unit models.Unit, pxPerInch float64) (float64, error) {
	switch unit {
	case models.UnitMm:
		return 1, nil
	case models.UnitIn:
		return mmPerInch, nil
	case models.UnitPx:
		if pxPerInch <= 0 {
			pxPerInch = 96
		}
		return mmPerInch / pxPerInch, nil
	}
	return 0, &models.UnitConversionError{Unit: unit}
}

// dedupe склеивает последовательные точки ближе epsilon — нулевые сегменты
// дальше порождали бы вырожденные стежки.
func dedupe(points []models.Point, epsilon float64) []models.Point {
	if len(points) == 0 {
		return points
	}
	out := points[:1]
	for i := 1; i < len(points); i++ {
		if Distance(points[i], out[len(out)-1]) >= epsilon {
			out = append(out, points[i])
		}
	}
	return out
}

func degenerateReason(points []models.Point, filled bool, epsilon float64) string {
	if filled {
		distinct := distinctCount(points, epsilon)
		if distinct < 3 {
			return "filled region with fewer than 3 distinct points"
		}
		if math.Abs(signedArea(points)) < epsilon {
			return "filled region with zero area"
		}
		return ""
	}
	if len(points) < 2 {
		return "stroke with fewer than 2 points"
	}
	return ""
}

func distinctCount(points []models.Point, epsilon float64) int {
	n := 0
	for i, p := range points {
		dup := false
		for j := 0; j < i; j++ {
			if Distance(p, points[j]) < epsilon {
				dup = true
				break
			}
		}
		if !dup {
			n++
		}
	}
	return n
}

// signedArea — формула шнурков; знак зависит от обхода.
func signedArea(points []models.Point) float64 {
	if len(points) < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < len(points); i++ {
		j := (i + 1) % len(points)
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return sum / 2
}

// Distance — евклидово расстояние между точками.
func Distance(p1, p2 models.Point) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}
