package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/brandon-urgd/stitch/internal/converter/models"
)

// ============================================================
// XML Structures
// ============================================================

type SVG struct {
	XMLName   xml.Name  `xml:"svg"`
	Width     string    `xml:"width,attr"`
	Height    string    `xml:"height,attr"`
	Rects     []Rect    `xml:"rect"`
	Circles   []Circle  `xml:"circle"`
	Ellipses  []Ellipse `xml:"ellipse"`
	Lines     []Line    `xml:"line"`
	Polylines []Poly    `xml:"polyline"`
	Polygons  []Poly    `xml:"polygon"`
	Paths     []Path    `xml:"path"`
}

type paintAttrs struct {
	Fill        string `xml:"fill,attr"`
	Stroke      string `xml:"stroke,attr"`
	StrokeWidth string `xml:"stroke-width,attr"`
}

type Rect struct {
	paintAttrs
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type Circle struct {
	paintAttrs
	CX float64 `xml:"cx,attr"`
	CY float64 `xml:"cy,attr"`
	R  float64 `xml:"r,attr"`
}

type Ellipse struct {
	paintAttrs
	CX float64 `xml:"cx,attr"`
	CY float64 `xml:"cy,attr"`
	RX float64 `xml:"rx,attr"`
	RY float64 `xml:"ry,attr"`
}

type Line struct {
	paintAttrs
	X1 float64 `xml:"x1,attr"`
	Y1 float64 `xml:"y1,attr"`
	X2 float64 `xml:"x2,attr"`
	Y2 float64 `xml:"y2,attr"`
}

type Poly struct {
	paintAttrs
	Points string `xml:"points,attr"`
}

type Path struct {
	paintAttrs
	D string `xml:"d,attr"`
}

// ============================================================
// Parser
// ============================================================

// эллипсы и окружности аппроксимируем 32-сегментным многоугольником
const circleSegments = 32

// ParseSVG разбирает SVG документ в дескрипторы фигур для конвейера.
// Элемент с заливкой даёт filled-дескриптор; элемент со stroke даёт
// отдельный открытый дескриптор — как в машинной вышивке: заливка и
// обводка шьются разными проходами.
func ParseSVG(r io.Reader) ([]models.ShapeDescriptor, error) {
	var svg SVG
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&svg); err != nil {
		return nil, fmt.Errorf("decode svg: %w", err)
	}

	unit := documentUnit(svg.Width)

	var out []models.ShapeDescriptor

	add := func(points []models.Point, paint paintAttrs, closed bool) {
		if len(points) == 0 {
			return
		}
		if hasPaint(paint.Fill) && closed {
			out = append(out, models.ShapeDescriptor{
				Points: points,
				Unit:   unit,
				Filled: true,
			})
		}
		if hasPaint(paint.Stroke) {
			out = append(out, models.ShapeDescriptor{
				Points:        points,
				Unit:          unit,
				Filled:        false,
				StrokeWidthMm: strokeWidthMm(paint.StrokeWidth, unit),
			})
		}
	}

	for _, rect := range svg.Rects {
		add(rectPoints(rect), rect.paintAttrs, true)
	}
	for _, c := range svg.Circles {
		add(arcPoints(c.CX, c.CY, c.R, c.R), c.paintAttrs, true)
	}
	for _, e := range svg.Ellipses {
		add(arcPoints(e.CX, e.CY, e.RX, e.RY), e.paintAttrs, true)
	}
	for _, l := range svg.Lines {
		add([]models.Point{{X: l.X1, Y: l.Y1}, {X: l.X2, Y: l.Y2}}, l.paintAttrs, false)
	}
	for _, p := range svg.Polylines {
		add(polyPoints(p.Points, false), p.paintAttrs, false)
	}
	for _, p := range svg.Polygons {
		add(polyPoints(p.Points, true), p.paintAttrs, true)
	}
	for _, p := range svg.Paths {
		points, err := ParsePath(p.D)
		if err != nil {
			return nil, fmt.Errorf("parse path: %w", err)
		}
		closed := len(points) > 1 && points[0] == points[len(points)-1]
		add(points, p.paintAttrs, closed)
	}

	return out, nil
}

// documentUnit берёт единицу из суффикса атрибута width ("100mm", "4in"),
// по умолчанию px.
func documentUnit(width string) models.Unit {
	w := strings.TrimSpace(width)
	switch {
	case strings.HasSuffix(w, "mm"):
		return models.UnitMm
	case strings.HasSuffix(w, "in"):
		return models.UnitIn
	default:
		return models.UnitPx
	}
}

func hasPaint(value string) bool {
	return value != "" && value != "none"
}

// strokeWidthMm переводит объявленную толщину обводки в миллиметры.
// Толщина задана в единицах документа; 0 = не объявлена.
func strokeWidthMm(raw string, unit models.Unit) float64 {
	w, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || w <= 0 {
		return 0
	}
	switch unit {
	case models.UnitMm:
		return w
	case models.UnitIn:
		return w * 25.4
	default:
		return w * 25.4 / 96
	}
}

func rectPoints(r Rect) []models.Point {
	return []models.Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y},
	}
}

func arcPoints(cx, cy, rx, ry float64) []models.Point {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	points := make([]models.Point, 0, circleSegments+1)
	for i := 0; i <= circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		points = append(points, models.Point{
			X: cx + rx*math.Cos(a),
			Y: cy + ry*math.Sin(a),
		})
	}
	return points
}

func polyPoints(raw string, closed bool) []models.Point {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})

	var points []models.Point
	for i := 0; i+1 < len(fields); i += 2 {
		x, err1 := strconv.ParseFloat(fields[i], 64)
		y, err2 := strconv.ParseFloat(fields[i+1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		points = append(points, models.Point{X: x, Y: y})
	}

	if closed && len(points) > 1 && points[0] != points[len(points)-1] {
		points = append(points, points[0])
	}
	return points
}
