package stitcher_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brandon-urgd/stitch/internal/converter/classify"
	"github.com/brandon-urgd/stitch/internal/converter/geometry"
	"github.com/brandon-urgd/stitch/internal/converter/models"
	"github.com/brandon-urgd/stitch/internal/converter/stitcher"
)

func closedRect(w, h float64) []models.Point {
	return []models.Point{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: h},
		{X: 0, Y: h},
		{X: 0, Y: 0},
	}
}

func sewnSegments(stitches []models.Stitch) []float64 {
	var out []float64
	for i := 1; i < len(stitches); i++ {
		if stitches[i].Jump || stitches[i-1].Jump {
			continue
		}
		out = append(out, geometry.Distance(stitches[i-1].Point, stitches[i].Point))
	}
	return out
}

// ============================================================
// Running
// ============================================================

func TestGenerateRunningExactPitch(t *testing.T) {
	cfg := models.DefaultDensity()
	shape := models.Shape{
		Type:   models.StitchRunning,
		Points: []models.Point{{X: 0, Y: 0}, {X: 10, Y: 0}},
	}

	stitches := stitcher.GenerateRunning(shape, cfg)
	require.Len(t, stitches, 5)
	for i, s := range stitches {
		require.InDelta(t, 2.5*float64(i), s.Point.X, 1e-9)
		require.False(t, s.Jump)
	}
}

func TestGenerateRunningPreservesVertices(t *testing.T) {
	cfg := models.DefaultDensity()
	shape := models.Shape{
		Type:   models.StitchRunning,
		Points: []models.Point{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 6}},
	}

	stitches := stitcher.GenerateRunning(shape, cfg)
	found := false
	for _, s := range stitches {
		if s.Point == (models.Point{X: 6, Y: 0}) {
			found = true
		}
	}
	require.True(t, found, "corner vertex must be stitched exactly")
}

func TestGenerateRunningMergesShortTail(t *testing.T) {
	cfg := models.DefaultDensity()
	shape := models.Shape{
		Type:   models.StitchRunning,
		Points: []models.Point{{X: 0, Y: 0}, {X: 0.6, Y: 0}, {X: 0.35, Y: 0}},
	}

	// последняя точка в 0.25mm от предыдущей: слияние хвоста не должно
	// оставить шитый сегмент короче MinStitchMm
	stitches := stitcher.GenerateRunning(shape, cfg)
	require.NotEmpty(t, stitches)
	for _, d := range sewnSegments(stitches) {
		require.GreaterOrEqual(t, d, cfg.MinStitchMm-1e-6)
		require.LessOrEqual(t, d, cfg.MaxStitchMm+1e-6)
	}
}

func TestGenerateRunningSplitsLongTailAfterMerge(t *testing.T) {
	cfg := models.DefaultDensity()
	cfg.RunningStitchMm = 4.0
	shape := models.Shape{
		Type:   models.StitchRunning,
		Points: []models.Point{{X: 0, Y: 0}, {X: 3.8, Y: 0}, {X: 4.2, Y: 0}},
	}

	// после слияния хвоста сегмент 0→4.2 превышает MaxStitchMm и дробится
	stitches := stitcher.GenerateRunning(shape, cfg)
	require.NotEmpty(t, stitches)
	require.Equal(t, models.Point{X: 4.2, Y: 0}, stitches[len(stitches)-1].Point)
	for _, d := range sewnSegments(stitches) {
		require.GreaterOrEqual(t, d, cfg.MinStitchMm-1e-6)
		require.LessOrEqual(t, d, cfg.MaxStitchMm+1e-6)
	}
}

// ============================================================
// Satin
// ============================================================

func TestGenerateSatinCoversBothRails(t *testing.T) {
	cfg := models.DefaultDensity()
	shape := models.Shape{
		Type:   models.StitchSatin,
		Filled: true,
		Points: closedRect(20, 4),
	}

	stitches, err := stitcher.GenerateSatin(shape, cfg)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(stitches), 4)

	touchesBottom, touchesTop := false, false
	for _, s := range stitches {
		if math.Abs(s.Point.Y) < 1e-6 {
			touchesBottom = true
		}
		if math.Abs(s.Point.Y-4) < 1e-6 {
			touchesTop = true
		}
	}
	require.True(t, touchesBottom)
	require.True(t, touchesTop)

	for _, d := range sewnSegments(stitches) {
		require.LessOrEqual(t, d, cfg.MaxStitchMm+1e-6)
		require.GreaterOrEqual(t, d, cfg.MinStitchMm-1e-6)
	}
}

func TestGenerateSatinDegenerateShape(t *testing.T) {
	cfg := models.DefaultDensity()
	shape := models.Shape{
		Type:   models.StitchSatin,
		Points: []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}},
	}

	_, err := stitcher.GenerateSatin(shape, cfg)
	require.Error(t, err)

	var geomErr *models.GeometryError
	require.True(t, errors.As(err, &geomErr))
}

// ============================================================
// Fill
// ============================================================

func TestGenerateFillRowLayout(t *testing.T) {
	cfg := models.DefaultDensity()
	shape := models.Shape{
		Type:   models.StitchFill,
		Filled: true,
		Points: closedRect(10, 10),
	}

	stitches, err := stitcher.GenerateFill(shape, cfg, 0)
	require.NoError(t, err)
	require.NotEmpty(t, stitches)

	// rows sit at minY + pitch/2 and step by the row pitch
	row0, row1 := false, false
	for _, s := range stitches {
		require.False(t, s.Jump)
		require.GreaterOrEqual(t, s.Point.X, -1e-6)
		require.LessOrEqual(t, s.Point.X, 10+1e-6)
		if math.Abs(s.Point.Y-2.015) < 1e-6 {
			row0 = true
		}
		if math.Abs(s.Point.Y-6.045) < 1e-6 {
			row1 = true
		}
	}
	require.True(t, row0)
	require.True(t, row1)

	// stitch pitch along a row: 10mm split evenly just under the 1.5mm target
	var xs []float64
	for _, s := range stitches {
		if math.Abs(s.Point.Y-2.015) < 1e-6 {
			xs = append(xs, s.Point.X)
		}
	}
	require.Len(t, xs, 8)
	for i := 1; i < len(xs); i++ {
		require.InDelta(t, 10.0/7, xs[i]-xs[i-1], 1e-6)
	}

	for _, d := range sewnSegments(stitches) {
		require.LessOrEqual(t, d, cfg.MaxStitchMm+1e-6)
	}
}

func TestGenerateFillAlternatesDirection(t *testing.T) {
	cfg := models.DefaultDensity()
	shape := models.Shape{
		Type:   models.StitchFill,
		Filled: true,
		Points: closedRect(10, 10),
	}

	stitches, err := stitcher.GenerateFill(shape, cfg, 0)
	require.NoError(t, err)

	// first stitch of the second row continues from where the first row ended
	var firstRow1 *models.Point
	for i := range stitches {
		if math.Abs(stitches[i].Point.Y-6.045) < 1e-6 {
			firstRow1 = &stitches[i].Point
			break
		}
	}
	require.NotNil(t, firstRow1)
	require.InDelta(t, 10, firstRow1.X, 1e-6)
}

func TestGenerateFillRejectsSelfIntersection(t *testing.T) {
	cfg := models.DefaultDensity()
	shape := models.Shape{
		Index:  3,
		Type:   models.StitchFill,
		Filled: true,
		Points: []models.Point{
			{X: 0, Y: 0},
			{X: 10, Y: 10},
			{X: 10, Y: 0},
			{X: 0, Y: 10},
			{X: 0, Y: 0},
		},
	}

	_, err := stitcher.GenerateFill(shape, cfg, 0)
	require.Error(t, err)

	var geomErr *models.GeometryError
	require.True(t, errors.As(err, &geomErr))
	require.Equal(t, 3, geomErr.ShapeIndex)
}

func TestGenerateFillNonPositiveRowPitchFails(t *testing.T) {
	shape := models.Shape{
		Index:  1,
		Type:   models.StitchFill,
		Filled: true,
		Points: closedRect(10, 10),
	}

	// нулевой шаг строк обязан дать ошибку, а не зациклить сканирование
	for _, pitch := range []float64{0, -1} {
		cfg := models.DefaultDensity()
		cfg.FillRowPitchMm = pitch

		_, err := stitcher.GenerateFill(shape, cfg, 0)
		require.Error(t, err, "pitch %g", pitch)

		var geomErr *models.GeometryError
		require.True(t, errors.As(err, &geomErr), "pitch %g", pitch)
		require.Equal(t, 1, geomErr.ShapeIndex)
	}
}

func TestFillAngleSteps(t *testing.T) {
	cfg := models.DefaultDensity()
	require.InDelta(t, 0, stitcher.FillAngle(0, cfg), 1e-9)
	require.InDelta(t, 15*math.Pi/180, stitcher.FillAngle(1, cfg), 1e-9)
	require.InDelta(t, math.Pi/2, stitcher.FillAngle(6, cfg), 1e-9)
	// the axis wraps at 180 degrees
	require.InDelta(t, 0, stitcher.FillAngle(12, cfg), 1e-9)
}

// ============================================================
// Dispatch & properties
// ============================================================

func TestGenerateIncludesUnderlay(t *testing.T) {
	cfg := models.DefaultDensity()
	shape := models.Shape{
		Type:   models.StitchSatin,
		Filled: true,
		Points: closedRect(20, 4),
	}

	full, err := stitcher.Generate(shape, cfg)
	require.NoError(t, err)

	top, err := stitcher.GenerateSatin(shape, cfg)
	require.NoError(t, err)
	require.Greater(t, len(full), len(top), "underlay precedes the top layer")
}

func TestGenerateRandomRectsStayBounded(t *testing.T) {
	cfg := models.DefaultDensity()
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 20; trial++ {
		w := 5 + rng.Float64()*35
		h := 1 + rng.Float64()*29
		angle := rng.Float64() * math.Pi

		cos, sin := math.Cos(angle), math.Sin(angle)
		ring := make([]models.Point, 0, 5)
		for _, p := range closedRect(w, h) {
			// rotate around the rect center and park at the origin
			x, y := p.X-w/2, p.Y-h/2
			ring = append(ring, models.Point{X: x*cos - y*sin, Y: x*sin + y*cos})
		}

		shapes := classify.Classify([]models.Shape{{
			Index:  trial,
			Filled: true,
			Points: ring,
		}}, cfg)

		stitches, err := stitcher.Generate(shapes[0], cfg)
		require.NoError(t, err, "trial %d (w=%.2f h=%.2f)", trial, w, h)
		require.NotEmpty(t, stitches, "trial %d", trial)

		min, max := geometry.Bounds(ring)
		for _, s := range stitches {
			require.GreaterOrEqual(t, s.Point.X, min.X-0.1, "trial %d", trial)
			require.LessOrEqual(t, s.Point.X, max.X+0.1, "trial %d", trial)
			require.GreaterOrEqual(t, s.Point.Y, min.Y-0.1, "trial %d", trial)
			require.LessOrEqual(t, s.Point.Y, max.Y+0.1, "trial %d", trial)
		}

		for _, d := range sewnSegments(stitches) {
			require.GreaterOrEqual(t, d, cfg.MinStitchMm-1e-6, "trial %d", trial)
			require.LessOrEqual(t, d, cfg.MaxStitchMm+1e-6, "trial %d", trial)
		}
	}
}
