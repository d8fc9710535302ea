package stitcher

import (
	"math"
	"sort"

	"github.com/brandon-urgd/stitch/internal/converter/geometry"
	"github.com/brandon-urgd/stitch/internal/converter/models"
)

// ============================================================
// Fill generation
// ============================================================

// GenerateFill покрывает интерьер фигуры параллельными строками сканирования
// (boustrophedon: направление чередуется от строки к строке). Угол строк
// задаётся конвейером и детерминированно меняется между фигурами.
func GenerateFill(shape models.Shape, cfg models.DensityConfig, angleRad float64) ([]models.Stitch, error) {
	if geometry.SelfIntersects(shape.Points) {
		return nil, &models.GeometryError{ShapeIndex: shape.Index, Msg: "self-intersecting outline"}
	}
	stitches, err := scanRows(shape, angleRad, cfg.FillRowPitchMm, cfg.FillStitchMm, cfg)
	if err != nil {
		return nil, err
	}
	return enforceBounds(stitches, cfg), nil
}

// scanRows — общее ядро заливки и её underlay: строки с шагом rowPitch под
// углом angleRad, стежки вдоль строки с шагом stitchPitch. Работает в
// повернутой системе координат, в которой строки горизонтальны.
func scanRows(shape models.Shape, angleRad, rowPitch, stitchPitch float64, cfg models.DensityConfig) ([]models.Stitch, error) {
	// конвейер валидирует конфигурацию, но при прямом вызове генератора
	// нулевой шаг строк превратил бы цикл по y в бесконечный
	if rowPitch <= 0 || stitchPitch <= 0 {
		return nil, &models.GeometryError{ShapeIndex: shape.Index, Msg: "non-positive fill pitch"}
	}

	ring := openRing(shape.Points)
	if len(ring) < 3 {
		return nil, &models.GeometryError{ShapeIndex: shape.Index, Msg: "fill region needs at least 3 distinct points"}
	}

	rotated := make([]models.Point, len(ring))
	cos, sin := math.Cos(-angleRad), math.Sin(-angleRad)
	for i, p := range ring {
		rotated[i] = models.Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
	}

	min, max := geometry.Bounds(rotated)

	var stitches []models.Stitch
	row := 0
	for y := min.Y + rowPitch/2; y < max.Y; y += rowPitch {
		xs, err := rowIntersections(rotated, y, shape.Index)
		if err != nil {
			return nil, err
		}
		if len(xs) == 0 {
			row++
			continue
		}

		segments := pairSegments(xs)
		// чередуем направление обхода строки
		if row%2 == 1 {
			reverseSegments(segments)
		}

		for _, seg := range segments {
			start := models.Point{X: seg[0], Y: y}
			end := models.Point{X: seg[1], Y: y}

			stitches = appendConnector(stitches, rotated, start, cfg)
			stitches = append(stitches, rowStitches(start, end, stitchPitch)...)
		}
		row++
	}

	// обратно в систему координат дизайна
	cos, sin = math.Cos(angleRad), math.Sin(angleRad)
	for i, s := range stitches {
		stitches[i].Point = models.Point{
			X: s.Point.X*cos - s.Point.Y*sin,
			Y: s.Point.X*sin + s.Point.Y*cos,
		}
	}

	return stitches, nil
}

// rowIntersections — x-координаты пересечений горизонтали y с контуром.
// Полуоткрытое правило (y1 ≤ y < y2) не даёт двойного счёта вершин; нечётное
// число пересечений возможно только у некорректного контура.
func rowIntersections(ring []models.Point, y float64, shapeIndex int) ([]float64, error) {
	var xs []float64
	n := len(ring)
	for i := 0; i < n; i++ {
		p1 := ring[i]
		p2 := ring[(i+1)%n]
		if (p1.Y <= y && p2.Y > y) || (p2.Y <= y && p1.Y > y) {
			t := (y - p1.Y) / (p2.Y - p1.Y)
			xs = append(xs, p1.X+t*(p2.X-p1.X))
		}
	}
	if len(xs)%2 != 0 {
		return nil, &models.GeometryError{ShapeIndex: shapeIndex, Msg: "odd scan-line intersection count, outline is not a simple polygon"}
	}
	sort.Float64s(xs)
	return xs, nil
}

func pairSegments(xs []float64) [][2]float64 {
	segments := make([][2]float64, 0, len(xs)/2)
	for i := 0; i+1 < len(xs); i += 2 {
		segments = append(segments, [2]float64{xs[i], xs[i+1]})
	}
	return segments
}

func reverseSegments(segments [][2]float64) {
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	for i := range segments {
		segments[i][0], segments[i][1] = segments[i][1], segments[i][0]
	}
}

// rowStitches — стежки вдоль одной строки, концы точные, середина с
// равномерным шагом pitch.
func rowStitches(start, end models.Point, pitch float64) []models.Stitch {
	d := geometry.Distance(start, end)
	parts := int(math.Ceil(d / pitch))
	if parts < 1 {
		parts = 1
	}
	out := make([]models.Stitch, 0, parts+1)
	for i := 0; i <= parts; i++ {
		out = append(out, models.Stitch{Point: lerp(start, end, float64(i)/float64(parts))})
	}
	return out
}

// appendConnector соединяет конец предыдущей строки с началом следующей.
// Если соединитель остаётся внутри фигуры — он шьётся (и при необходимости
// дробится корректирующей передискретизацией); через «дырку» между
// несвязными сегментами идём jump-стежком.
func appendConnector(stitches []models.Stitch, ring []models.Point, next models.Point, cfg models.DensityConfig) []models.Stitch {
	if len(stitches) == 0 {
		return stitches
	}
	last := stitches[len(stitches)-1].Point
	d := geometry.Distance(last, next)
	if d <= cfg.MaxStitchMm {
		return stitches
	}

	mid := lerp(last, next, 0.5)
	if pointInPolygon(mid, ring) {
		return stitches // шитый соединитель, дробление сделает enforceBounds
	}
	return append(stitches, models.Stitch{Point: next, Jump: true})
}

// pointInPolygon — чёт/нечёт по лучу (ray casting).
func pointInPolygon(p models.Point, ring []models.Point) bool {
	inside := false
	n := len(ring)
	for i := 0; i < n; i++ {
		p1 := ring[i]
		p2 := ring[(i+1)%n]
		if (p1.Y <= p.Y && p2.Y > p.Y) || (p2.Y <= p.Y && p1.Y > p.Y) {
			t := (p.Y - p1.Y) / (p2.Y - p1.Y)
			if p.X < p1.X+t*(p2.X-p1.X) {
				inside = !inside
			}
		}
	}
	return inside
}
