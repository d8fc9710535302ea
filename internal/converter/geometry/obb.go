package geometry

import (
	"math"
	"sort"

	"github.com/brandon-urgd/stitch/internal/converter/models"
)

// ============================================================
// Oriented bounding box
// ============================================================

// OBB — ориентированный bounding box: угол длинной оси и размеры.
// Короткая сторона даёт «эффективную ширину» фигуры для классификации.
type OBB struct {
	AngleRad float64 // направление длинной оси
	Length   float64 // размер вдоль длинной оси
	Width    float64 // размер поперёк (короткая сторона)
}

// OrientedBox строит OBB минимальной площади поворотом по рёбрам выпуклой
// оболочки. Конвенция: рёбра обходятся в порядке оболочки, берётся первая
// ориентация с минимальной площадью — результат детерминирован.
func OrientedBox(points []models.Point) OBB {
	hull := ConvexHull(points)
	if len(hull) < 2 {
		return OBB{}
	}
	if len(hull) == 2 {
		angle := math.Atan2(hull[1].Y-hull[0].Y, hull[1].X-hull[0].X)
		return OBB{AngleRad: angle, Length: Distance(hull[0], hull[1])}
	}

	best := OBB{}
	bestArea := math.MaxFloat64

	for i := 0; i < len(hull); i++ {
		j := (i + 1) % len(hull)
		edge := math.Atan2(hull[j].Y-hull[i].Y, hull[j].X-hull[i].X)

		minU, maxU := math.MaxFloat64, -math.MaxFloat64
		minV, maxV := math.MaxFloat64, -math.MaxFloat64
		cos, sin := math.Cos(edge), math.Sin(edge)
		for _, p := range hull {
			u := p.X*cos + p.Y*sin
			v := -p.X*sin + p.Y*cos
			minU = math.Min(minU, u)
			maxU = math.Max(maxU, u)
			minV = math.Min(minV, v)
			maxV = math.Max(maxV, v)
		}

		du := maxU - minU
		dv := maxV - minV
		area := du * dv
		if area < bestArea-1e-9 {
			bestArea = area
			if du >= dv {
				best = OBB{AngleRad: normalizeAngle(edge), Length: du, Width: dv}
			} else {
				best = OBB{AngleRad: normalizeAngle(edge + math.Pi/2), Length: dv, Width: du}
			}
		}
	}

	return best
}

// normalizeAngle приводит угол к [0, π): ось без направления.
func normalizeAngle(a float64) float64 {
	for a < 0 {
		a += math.Pi
	}
	for a >= math.Pi {
		a -= math.Pi
	}
	return a
}

// ConvexHull — монотонная цепь Эндрю. Возвращает оболочку против часовой
// стрелки без повторения первой точки.
func ConvexHull(points []models.Point) []models.Point {
	pts := append([]models.Point{}, points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	// убираем точные дубли после сортировки
	uniq := pts[:0]
	for i, p := range pts {
		if i == 0 || p != pts[i-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq

	if len(pts) < 3 {
		return pts
	}

	var lower, upper []models.Point
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

func cross(o, a, b models.Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// Bounds возвращает осевой bounding box набора точек.
func Bounds(points []models.Point) (min, max models.Point) {
	if len(points) == 0 {
		return
	}
	min, max = points[0], points[0]
	for _, p := range points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return
}

// SelfIntersects проверяет контур на самопересечение перебором пар рёбер.
// Соседние рёбра и общие вершины пересечением не считаются.
func SelfIntersects(points []models.Point) bool {
	n := len(points)
	if n < 4 {
		return false
	}
	closed := points[0] == points[n-1]
	edges := n - 1

	for i := 0; i < edges; i++ {
		for j := i + 2; j < edges; j++ {
			// первое и последнее ребро замкнутого контура — соседи
			if closed && i == 0 && j == edges-1 {
				continue
			}
			if segmentsCross(points[i], points[i+1], points[j], points[j+1]) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(a1, a2, b1, b2 models.Point) bool {
	d1 := cross(b1, b2, a1)
	d2 := cross(b1, b2, a2)
	d3 := cross(a1, a2, b1)
	d4 := cross(a1, a2, b2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}
