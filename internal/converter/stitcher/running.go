package stitcher

import (
	"math"

	"github.com/brandon-urgd/stitch/internal/converter/geometry"
	"github.com/brandon-urgd/stitch/internal/converter/models"
)

// ============================================================
// Running generation
// ============================================================

// GenerateRunning — простая строчка вдоль открытого пути: исходные вершины
// (углы) сохраняются точно, между ними вставляются равномерные промежуточные
// точки, чтобы ни один сегмент не превышал шаг строчки.
func GenerateRunning(shape models.Shape, cfg models.DensityConfig) []models.Stitch {
	points := shape.Points
	if len(points) < 2 {
		return nil
	}

	stitches := []models.Stitch{{Point: points[0]}}
	for i := 1; i < len(points); i++ {
		prev, next := points[i-1], points[i]
		d := geometry.Distance(prev, next)

		if d > cfg.RunningStitchMm {
			parts := int(math.Ceil(d / cfg.RunningStitchMm))
			for k := 1; k < parts; k++ {
				t := float64(k) / float64(parts)
				stitches = append(stitches, models.Stitch{Point: lerp(prev, next, t)})
			}
		}
		stitches = append(stitches, models.Stitch{Point: next})
	}

	return enforceBounds(stitches, cfg)
}
