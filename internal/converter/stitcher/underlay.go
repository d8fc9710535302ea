package stitcher

import (
	"math"

	"github.com/brandon-urgd/stitch/internal/converter/models"
)

// ============================================================
// Underlay generation
// ============================================================

// Underlay — разреженный стабилизирующий каркас, который шьётся до верхнего
// слоя: прижимает ткань и не даёт ей плыть под плотной строчкой. Строится
// по отдельному контуру, слегка вжатому внутрь фигуры; сами стежки имеют
// семантику Running независимо от типа фигуры.

// SatinUnderlay — редкий зигзаг между рельсами вжатого контура.
func SatinUnderlay(shape models.Shape, cfg models.DensityConfig) []models.Stitch {
	inner := insetShape(shape, cfg.UnderlayInsetMm)

	railA, railB, err := splitRails(inner)
	if err != nil {
		// слишком мелкая фигура для underlay — верхний слой справится сам
		return nil
	}

	longest := math.Max(pathLength(railA), pathLength(railB))
	n := int(math.Round(longest / cfg.UnderlayPitchMm))
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
	return enforceBounds(stitches, cfg)
}

// FillUnderlay — редкие строки перпендикулярно направлению заливки.
func FillUnderlay(shape models.Shape, cfg models.DensityConfig, fillAngleRad float64) ([]models.Stitch, error) {
	inner := insetShape(shape, cfg.UnderlayInsetMm)
	angle := fillAngleRad + math.Pi/2

	stitches, err := scanRows(inner, angle, cfg.UnderlayPitchMm, cfg.MaxStitchMm, cfg)
	if err != nil {
		return nil, err
	}
	return enforceBounds(stitches, cfg), nil
}

// insetShape — компаньон-контур фигуры, вжатый к центроиду на inset.
// Исходная фигура не мутируется: underlay-контур — отдельный экземпляр.
func insetShape(shape models.Shape, inset float64) models.Shape {
	ring := openRing(shape.Points)
	if len(ring) < 3 || inset <= 0 {
		return shape
	}

	var cx, cy float64
	for _, p := range ring {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(ring))
	cy /= float64(len(ring))

	points := make([]models.Point, 0, len(ring)+1)
	for _, p := range ring {
		dx := cx - p.X
		dy := cy - p.Y
		d := math.Sqrt(dx*dx + dy*dy)
		if d <= inset {
			// точка ближе центроида, чем inset — оставляем в центроиде
			points = append(points, models.Point{X: cx, Y: cy})
			continue
		}
		points = append(points, models.Point{X: p.X + dx/d*inset, Y: p.Y + dy/d*inset})
	}
	points = append(points, points[0])

	inner := shape
	inner.Points = points
	return inner
}
