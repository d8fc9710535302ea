package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/brandon-urgd/stitch/internal/converter/models"
)

// ============================================================
// Path Parser
// ============================================================

// кривые Безье сглаживаем фиксированным числом отрезков;
// дальше конвейер всё равно пересэмплирует под шаг стежка
const curveSteps = 8

var cmdRe = regexp.MustCompile(`([MmLlHhVvCcQqZz])([^MmLlHhVvCcQqZz]*)`)

// ParsePath парсит SVG path в список точек. Поддерживаются команды
// M, L, H, V, C, Q, Z в обоих регистрах; дуги (A) вне области —
// вход считается уже приведённым к полигональной геометрии.
func ParsePath(d string) ([]models.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []models.Point
	var cur, start models.Point
	started := false

	matches := cmdRe.FindAllStringSubmatch(d, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no path commands")
	}

	for _, match := range matches {
		cmd := match[1]
		coords := parseCoords(match[2])

		switch cmd {
		case "M", "m":
			for i := 0; i+1 < len(coords); i += 2 {
				if cmd == "m" {
					cur = models.Point{X: cur.X + coords[i], Y: cur.Y + coords[i+1]}
				} else {
					cur = models.Point{X: coords[i], Y: coords[i+1]}
				}
				points = append(points, cur)
				// первая пара — MoveTo, остальные неявный LineTo
				if !started {
					start = cur
					started = true
				}
			}

		case "L", "l":
			for i := 0; i+1 < len(coords); i += 2 {
				if cmd == "l" {
					cur = models.Point{X: cur.X + coords[i], Y: cur.Y + coords[i+1]}
				} else {
					cur = models.Point{X: coords[i], Y: coords[i+1]}
				}
				points = append(points, cur)
			}

		case "H", "h":
			for _, v := range coords {
				if cmd == "h" {
					cur.X += v
				} else {
					cur.X = v
				}
				points = append(points, cur)
			}

		case "V", "v":
			for _, v := range coords {
				if cmd == "v" {
					cur.Y += v
				} else {
					cur.Y = v
				}
				points = append(points, cur)
			}

		case "C", "c":
			for i := 0; i+5 < len(coords); i += 6 {
				c1 := absPoint(cur, coords[i], coords[i+1], cmd == "c")
				c2 := absPoint(cur, coords[i+2], coords[i+3], cmd == "c")
				end := absPoint(cur, coords[i+4], coords[i+5], cmd == "c")
				points = append(points, flattenCubic(cur, c1, c2, end)...)
				cur = end
			}

		case "Q", "q":
			for i := 0; i+3 < len(coords); i += 4 {
				c1 := absPoint(cur, coords[i], coords[i+1], cmd == "q")
				end := absPoint(cur, coords[i+2], coords[i+3], cmd == "q")
				points = append(points, flattenQuad(cur, c1, end)...)
				cur = end
			}

		case "Z", "z":
			if started {
				points = append(points, start)
				cur = start
			}
		}
	}

	return points, nil
}

func absPoint(cur models.Point, x, y float64, relative bool) models.Point {
	if relative {
		return models.Point{X: cur.X + x, Y: cur.Y + y}
	}
	return models.Point{X: x, Y: y}
}

func flattenCubic(p0, c1, c2, p1 models.Point) []models.Point {
	out := make([]models.Point, 0, curveSteps)
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		out = append(out, models.Point{
			X: u*u*u*p0.X + 3*u*u*t*c1.X + 3*u*t*t*c2.X + t*t*t*p1.X,
			Y: u*u*u*p0.Y + 3*u*u*t*c1.Y + 3*u*t*t*c2.Y + t*t*t*p1.Y,
		})
	}
	return out
}

func flattenQuad(p0, c1, p1 models.Point) []models.Point {
	out := make([]models.Point, 0, curveSteps)
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		u := 1 - t
		out = append(out, models.Point{
			X: u*u*p0.X + 2*u*t*c1.X + t*t*p1.X,
			Y: u*u*p0.Y + 2*u*t*c1.Y + t*t*p1.Y,
		})
	}
	return out
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Разделитель: запятая или пробел
	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)

	var coords []float64
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}

	return coords
}
