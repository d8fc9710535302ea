package classify

import (
	"github.com/brandon-urgd/stitch/internal/converter/geometry"
	"github.com/brandon-urgd/stitch/internal/converter/models"
)

// ============================================================
// Stitch-Type Classifier
// ============================================================

// Classify вычисляет эффективную ширину каждой фигуры и назначает тип
// стежка. Чистая функция геометрии: тип назначается один раз и дальше
// по конвейеру не пересматривается.
//
// Правило (профессиональные стандарты):
//   - открытый штрих без заливки            → Running
//   - заливка, ширина < SatinMaxWidthMm     → Satin
//   - заливка, ширина ≥ SatinMaxWidthMm     → Fill (граница включительно)
func Classify(shapes []models.Shape, cfg models.DensityConfig) []models.Shape {
	out := make([]models.Shape, len(shapes))
	for i, s := range shapes {
		s.EffectiveWidthMm = effectiveWidth(s, cfg)
		s.Type = decide(s, cfg)
		out[i] = s
	}
	return out
}

// effectiveWidth: для заливки — короткая сторона ориентированного
// bounding box; для штриха — объявленная толщина, иначе минимум по умолчанию.
func effectiveWidth(s models.Shape, cfg models.DensityConfig) float64 {
	if s.Filled {
		return geometry.OrientedBox(s.Points).Width
	}
	if s.StrokeWidthMm > 0 {
		return s.StrokeWidthMm
	}
	return cfg.DefaultStrokeMm
}

func decide(s models.Shape, cfg models.DensityConfig) models.StitchType {
	if !s.Filled {
		return models.StitchRunning
	}
	if s.EffectiveWidthMm < cfg.SatinMaxWidthMm {
		return models.StitchSatin
	}
	return models.StitchFill
}
