package stitcher

import (
	"math"

	"github.com/brandon-urgd/stitch/internal/converter/geometry"
	"github.com/brandon-urgd/stitch/internal/converter/models"
)

// ============================================================
// Stitch Generator
// ============================================================

// Generate строит полную последовательность стежков фигуры: сначала
// underlay (для Satin и Fill), затем верхний слой по назначенному типу.
// Диспетчеризация по закрытому enum — добавление нового типа стежка
// требует правки этого switch.
func Generate(shape models.Shape, cfg models.DensityConfig) ([]models.Stitch, error) {
	switch shape.Type {
	case models.StitchSatin:
		stitches := SatinUnderlay(shape, cfg)
		top, err := GenerateSatin(shape, cfg)
		if err != nil {
			return nil, err
		}
		return joinLayers(stitches, top, cfg), nil

	case models.StitchFill:
		angle := FillAngle(shape.Index, cfg)
		stitches, err := FillUnderlay(shape, cfg, angle)
		if err != nil {
			return nil, err
		}
		top, err := GenerateFill(shape, cfg, angle)
		if err != nil {
			return nil, err
		}
		return joinLayers(stitches, top, cfg), nil

	case models.StitchRunning:
		return GenerateRunning(shape, cfg), nil
	}

	return nil, &models.GeometryError{ShapeIndex: shape.Index, Msg: "unknown stitch type"}
}

// joinLayers склеивает underlay с верхним слоем. Переход между слоями
// подчиняется тем же границам длины стежка: слишком длинный или
// слишком короткий — перемещение без шитья.
func joinLayers(underlay, top []models.Stitch, cfg models.DensityConfig) []models.Stitch {
	if len(underlay) == 0 || len(top) == 0 {
		return append(underlay, top...)
	}
	gap := geometry.Distance(underlay[len(underlay)-1].Point, top[0].Point)
	if !top[0].Jump && (gap > cfg.MaxStitchMm || gap < cfg.MinStitchMm) {
		top = append([]models.Stitch{}, top...)
		top[0].Jump = true
	}
	return append(underlay, top...)
}

// FillAngle — детерминированный угол сканирования заливки: шаг на каждую
// фигуру документа, чтобы соседние заливки не давали одинаковую текстуру.
func FillAngle(shapeIndex int, cfg models.DensityConfig) float64 {
	deg := cfg.FillAngleStepDeg * float64(shapeIndex)
	rad := deg * math.Pi / 180
	// приводим к [0, π) — направление строк без ориентации
	rad = math.Mod(rad, math.Pi)
	if rad < 0 {
		rad += math.Pi
	}
	return rad
}
