package pipeline_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brandon-urgd/stitch/internal/converter/models"
	"github.com/brandon-urgd/stitch/internal/converter/pipeline"
)

func filledSquare(x, y, size float64) models.ShapeDescriptor {
	return models.ShapeDescriptor{
		Unit:   models.UnitMm,
		Filled: true,
		Points: []models.Point{
			{X: x, Y: y},
			{X: x + size, Y: y},
			{X: x + size, Y: y + size},
			{X: x, Y: y + size},
		},
	}
}

func TestConvertFilledSquare(t *testing.T) {
	cfg := models.DefaultDensity()

	result, err := pipeline.Convert([]models.ShapeDescriptor{filledSquare(0, 0, 10)}, cfg)
	require.NoError(t, err)
	require.Len(t, result.Blocks, 1, "a small design fits one block")
	require.Empty(t, result.Warnings)
	require.Greater(t, result.StitchCount, 10)
	require.InDelta(t, 10, result.WidthMm, 0.5)

	total := 0
	for _, b := range result.Blocks {
		total += len(b.Stitches)
	}
	require.Equal(t, result.StitchCount, total)
}

func TestConvertRejectsNonPositiveConfig(t *testing.T) {
	// конфигурация приходит от клиента как есть: нулевые и отрицательные
	// шаги должны отклоняться до запуска генераторов
	mutations := map[string]func(*models.DensityConfig){
		"zero fill row pitch":    func(c *models.DensityConfig) { c.FillRowPitchMm = 0 },
		"negative running pitch": func(c *models.DensityConfig) { c.RunningStitchMm = -1 },
		"zero max stitch":        func(c *models.DensityConfig) { c.MaxStitchMm = 0 },
		"zero underlay pitch":    func(c *models.DensityConfig) { c.UnderlayPitchMm = 0 },
		"zero block capacity":    func(c *models.DensityConfig) { c.BlockCapacity = 0 },
		"zero hoop width":        func(c *models.DensityConfig) { c.HoopWidthMm = 0 },
		"inverted stitch window": func(c *models.DensityConfig) { c.MinStitchMm = c.MaxStitchMm },
	}

	for name, mutate := range mutations {
		cfg := models.DefaultDensity()
		mutate(&cfg)

		_, err := pipeline.Convert([]models.ShapeDescriptor{filledSquare(0, 0, 10)}, cfg)
		require.Error(t, err, name)

		var cfgErr *models.ConfigError
		require.True(t, errors.As(err, &cfgErr), name)
	}
}

func TestConvertIsDeterministic(t *testing.T) {
	cfg := models.DefaultDensity()
	descriptors := []models.ShapeDescriptor{
		filledSquare(-30, -30, 10),
		filledSquare(5, 5, 12),
		{
			Unit:   models.UnitMm,
			Points: []models.Point{{X: -20, Y: 20}, {X: 20, Y: 20}},
		},
	}

	first, err := pipeline.Convert(descriptors, cfg)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := pipeline.Convert(descriptors, cfg)
		require.NoError(t, err)
		require.Equal(t, first, again, "same input must yield an identical stream")
	}
}

func TestConvertShapesStitchedInDocumentOrder(t *testing.T) {
	cfg := models.DefaultDensity()
	descriptors := []models.ShapeDescriptor{
		filledSquare(-30, -30, 10),
		filledSquare(20, 20, 10),
	}

	result, err := pipeline.Convert(descriptors, cfg)
	require.NoError(t, err)

	all := result.Stitches()
	require.NotEmpty(t, all)
	require.Less(t, all[0].Point.X, 0.0, "first shape sews first")
	require.Greater(t, all[len(all)-1].Point.X, 0.0, "second shape sews last")
}

func TestConvertReportsDegenerateSibling(t *testing.T) {
	cfg := models.DefaultDensity()
	descriptors := []models.ShapeDescriptor{
		filledSquare(0, 0, 10),
		{
			Unit:   models.UnitMm,
			Filled: true,
			Points: []models.Point{{X: 50, Y: 50}, {X: 51, Y: 51}},
		},
	}

	result, err := pipeline.Convert(descriptors, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, result.Blocks)
	require.Len(t, result.Warnings, 1)
	require.Equal(t, 1, result.Warnings[0].ShapeIndex)
}

func TestConvertUnknownUnitFails(t *testing.T) {
	cfg := models.DefaultDensity()
	descriptors := []models.ShapeDescriptor{
		{Unit: "pt", Points: []models.Point{{X: 0, Y: 0}, {X: 1, Y: 1}}},
	}

	_, err := pipeline.Convert(descriptors, cfg)
	require.Error(t, err)

	var unitErr *models.UnitConversionError
	require.True(t, errors.As(err, &unitErr))
}

func TestConvertOutOfHoopFails(t *testing.T) {
	cfg := models.DefaultDensity() // hoop half-width 65mm

	_, err := pipeline.Convert([]models.ShapeDescriptor{filledSquare(100, 0, 10)}, cfg)
	require.Error(t, err)

	var boundsErr *models.OutOfBoundsError
	require.True(t, errors.As(err, &boundsErr))
}

func TestConvertEmptyDocument(t *testing.T) {
	cfg := models.DefaultDensity()

	result, err := pipeline.Convert(nil, cfg)
	require.NoError(t, err)
	require.Empty(t, result.Blocks)
	require.Zero(t, result.StitchCount)
}

func TestConvertStrokeOnlyDocument(t *testing.T) {
	cfg := models.DefaultDensity()
	descriptors := []models.ShapeDescriptor{
		{
			Unit:          models.UnitMm,
			StrokeWidthMm: 1.5,
			Points:        []models.Point{{X: -10, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
		},
	}

	result, err := pipeline.Convert(descriptors, cfg)
	require.NoError(t, err)
	require.Len(t, result.Blocks, 1)
	for _, s := range result.Stitches() {
		require.False(t, s.Jump)
	}
}
