package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brandon-urgd/stitch/internal/converter/models"
	"github.com/brandon-urgd/stitch/internal/converter/parser"
)

func TestParsePathAbsoluteCommands(t *testing.T) {
	points, err := parser.ParsePath("M 0 0 L 10 0 L 10 10 Z")
	require.NoError(t, err)
	require.Equal(t, []models.Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
		{X: 10, Y: 10},
		{X: 0, Y: 0},
	}, points)
}

func TestParsePathRelativeCommands(t *testing.T) {
	points, err := parser.ParsePath("m 10 10 l 5 0 v 5 h -5 z")
	require.NoError(t, err)
	require.Equal(t, []models.Point{
		{X: 10, Y: 10},
		{X: 15, Y: 10},
		{X: 15, Y: 15},
		{X: 10, Y: 15},
		{X: 10, Y: 10},
	}, points)
}

func TestParsePathImplicitLineTo(t *testing.T) {
	// extra coordinate pairs after MoveTo are LineTo
	points, err := parser.ParsePath("M 0 0 10 0 10 10")
	require.NoError(t, err)
	require.Len(t, points, 3)
	require.Equal(t, models.Point{X: 10, Y: 10}, points[2])
}

func TestParsePathCubicEndsAtTarget(t *testing.T) {
	points, err := parser.ParsePath("M 0 0 C 3 5 7 5 10 0")
	require.NoError(t, err)
	require.NotEmpty(t, points)

	last := points[len(points)-1]
	require.InDelta(t, 10, last.X, 1e-9)
	require.InDelta(t, 0, last.Y, 1e-9)
}

func TestParsePathQuadraticEndsAtTarget(t *testing.T) {
	points, err := parser.ParsePath("M 0 0 Q 5 10 10 0")
	require.NoError(t, err)

	last := points[len(points)-1]
	require.InDelta(t, 10, last.X, 1e-9)
	require.InDelta(t, 0, last.Y, 1e-9)
}

func TestParsePathEmpty(t *testing.T) {
	_, err := parser.ParsePath("   ")
	require.Error(t, err)
}
