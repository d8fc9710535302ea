package parser_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brandon-urgd/stitch/internal/converter/models"
	"github.com/brandon-urgd/stitch/internal/converter/parser"
)

func TestParseSVGRectFillAndStroke(t *testing.T) {
	svg := `<svg width="100" height="100">
		<rect x="10" y="10" width="30" height="20" fill="red" stroke="black" stroke-width="2"/>
	</svg>`

	descriptors, err := parser.ParseSVG(strings.NewReader(svg))
	require.NoError(t, err)
	require.Len(t, descriptors, 2, "fill and stroke are separate passes")

	fill := descriptors[0]
	require.True(t, fill.Filled)
	require.Equal(t, models.UnitPx, fill.Unit)
	require.Len(t, fill.Points, 5, "closed rectangle ring")
	require.Equal(t, fill.Points[0], fill.Points[4])

	stroke := descriptors[1]
	require.False(t, stroke.Filled)
	require.InDelta(t, 2*25.4/96, stroke.StrokeWidthMm, 1e-9)
}

func TestParseSVGDocumentUnitFromWidth(t *testing.T) {
	svg := `<svg width="100mm" height="100mm">
		<rect x="0" y="0" width="10" height="10" fill="blue"/>
	</svg>`

	descriptors, err := parser.ParseSVG(strings.NewReader(svg))
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	require.Equal(t, models.UnitMm, descriptors[0].Unit)
}

func TestParseSVGCircleIsClosedPolygon(t *testing.T) {
	svg := `<svg width="50" height="50">
		<circle cx="25" cy="25" r="10" fill="green"/>
	</svg>`

	descriptors, err := parser.ParseSVG(strings.NewReader(svg))
	require.NoError(t, err)
	require.Len(t, descriptors, 1)

	pts := descriptors[0].Points
	require.Len(t, pts, 33)
	require.InDelta(t, pts[0].X, pts[len(pts)-1].X, 1e-9)
	require.InDelta(t, pts[0].Y, pts[len(pts)-1].Y, 1e-9)
}

func TestParseSVGPolylineIsOpenStroke(t *testing.T) {
	svg := `<svg width="50" height="50">
		<polyline points="0,0 10,0 10,10" stroke="black"/>
	</svg>`

	descriptors, err := parser.ParseSVG(strings.NewReader(svg))
	require.NoError(t, err)
	require.Len(t, descriptors, 1)
	require.False(t, descriptors[0].Filled)
	require.Len(t, descriptors[0].Points, 3)
}

func TestParseSVGPolygonGetsClosed(t *testing.T) {
	svg := `<svg width="50" height="50">
		<polygon points="0,0 10,0 5,10" fill="black"/>
	</svg>`

	descriptors, err := parser.ParseSVG(strings.NewReader(svg))
	require.NoError(t, err)
	require.Len(t, descriptors, 1)

	pts := descriptors[0].Points
	require.Len(t, pts, 4)
	require.Equal(t, pts[0], pts[3])
}

func TestParseSVGIgnoresUnpaintedElements(t *testing.T) {
	svg := `<svg width="50" height="50">
		<rect x="0" y="0" width="10" height="10" fill="none" stroke="none"/>
	</svg>`

	descriptors, err := parser.ParseSVG(strings.NewReader(svg))
	require.NoError(t, err)
	require.Empty(t, descriptors)
}

func TestParseSVGInvalidXML(t *testing.T) {
	_, err := parser.ParseSVG(strings.NewReader("not xml at all"))
	require.Error(t, err)
}
