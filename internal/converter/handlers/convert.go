package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/brandon-urgd/stitch/internal/converter/models"
	"github.com/brandon-urgd/stitch/internal/converter/parser"
	"github.com/brandon-urgd/stitch/internal/converter/pes"
	"github.com/brandon-urgd/stitch/internal/converter/pipeline"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Convert Handler
// ============================================================

// ConvertSVG конвертирует SVG в PES. Файл приходит в multipart/form-data
// (поле file), плотности можно переопределить JSON-ом в поле config.
func ConvertSVG(c fiber.Ctx) error {
	log.Printf("[CONVERTER] Received request")
	log.Printf("[CONVERTER] Content-Type: %s", c.Get("Content-Type"))
	log.Printf("[CONVERTER] Content-Length: %d", len(c.Body()))

	file, err := c.FormFile("file")
	if err != nil {
		log.Printf("[CONVERTER] FormFile error: %v", err)
		return c.Status(400).JSON(fiber.Map{
			"error": "file required in multipart/form-data",
		})
	}

	log.Printf("[CONVERTER] File received: %s, size: %d", file.Filename, file.Size)

	f, err := file.Open()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{
			"error": "failed to open file",
		})
	}
	defer f.Close()

	cfg, err := densityFromJSON([]byte(c.FormValue("config")))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "invalid config JSON",
		})
	}

	descriptors, err := parser.ParseSVG(f)
	if err != nil {
		log.Printf("[CONVERTER] Parse error: %v", err)
		return c.Status(400).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if len(descriptors) == 0 {
		return c.Status(400).JSON(fiber.Map{
			"error": "no drawable elements found in SVG",
		})
	}

	log.Printf("[CONVERTER] Starting conversion, %d shapes", len(descriptors))
	result, err := pipeline.Convert(descriptors, cfg)
	if err != nil {
		log.Printf("[CONVERTER] Conversion error: %v", err)
		status, body := conversionError(err)
		return c.Status(status).JSON(body)
	}

	data, err := pes.Encode(result)
	if err != nil {
		log.Printf("[CONVERTER] Encode error: %v", err)
		return c.Status(500).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	q := Assess(result.StitchCount, result.WidthMm, result.HeightMm)
	log.Printf("[CONVERTER] Conversion successful: %d stitches, quality %s", result.StitchCount, q.Level)

	c.Set("Content-Type", "application/octet-stream")
	c.Set("Content-Disposition", `attachment; filename="design.pes"`)
	c.Set("X-Stitch-Count", strconv.Itoa(result.StitchCount))
	c.Set("X-Quality", q.Level)
	c.Set("X-Warnings", strconv.Itoa(len(result.Warnings)))
	return c.Send(data)
}

// ConvertJSON конвертирует уже разобранные дескрипторы фигур (JSON тело)
// и возвращает блоки стежков как JSON — для межсервисных вызовов и отладки.
func ConvertJSON(c fiber.Ctx) error {
	log.Printf("[CONVERTER] JSON convert request, %d bytes", len(c.Body()))

	var req struct {
		Shapes []models.ShapeDescriptor `json:"shapes"`
		Config json.RawMessage          `json:"config,omitempty"`
	}
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid JSON payload"})
	}
	if len(req.Shapes) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "shapes required"})
	}

	cfg, err := densityFromJSON(req.Config)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "invalid config JSON"})
	}

	result, err := pipeline.Convert(req.Shapes, cfg)
	if err != nil {
		status, body := conversionError(err)
		return c.Status(status).JSON(body)
	}

	return c.JSON(result)
}

// ============================================================
// Analyze Handler
// ============================================================

// AnalyzePES возвращает сводку по готовому PES файлу: счётчики стежков,
// габариты и оценку качества.
func AnalyzePES(c fiber.Ctx) error {
	log.Printf("[ANALYZE] Received request, Content-Length: %d", len(c.Body()))

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": "file required in multipart/form-data",
		})
	}

	f, err := file.Open()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to read file"})
	}

	stats, err := pes.Analyze(data)
	if err != nil {
		log.Printf("[ANALYZE] Analyze error: %v", err)
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"stats":   stats,
		"quality": Assess(stats.StitchCount, stats.WidthMm, stats.HeightMm),
	})
}

// ============================================================
// Error mapping
// ============================================================

// densityFromJSON накладывает клиентские переопределения на дефолтную
// конфигурацию: поля, которых нет в JSON, сохраняют значения по умолчанию.
func densityFromJSON(raw []byte) (models.DensityConfig, error) {
	cfg := models.DefaultDensity()
	if len(raw) == 0 {
		return cfg, nil
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return models.DensityConfig{}, err
	}
	return cfg, nil
}

// conversionError переводит типизированные ошибки конвейера в структуру
// для клиента: kind + индекс фигуры + сообщение.
func conversionError(err error) (int, fiber.Map) {
	var cfgErr *models.ConfigError
	var unitErr *models.UnitConversionError
	var geomErr *models.GeometryError
	var boundsErr *models.OutOfBoundsError
	var capErr *models.CapacityError

	switch {
	case errors.As(err, &cfgErr):
		return 400, fiber.Map{"error": cfgErr.Error(), "kind": "config"}
	case errors.As(err, &unitErr):
		return 400, fiber.Map{"error": unitErr.Error(), "kind": "unit_conversion"}
	case errors.As(err, &geomErr):
		return 422, fiber.Map{"error": geomErr.Error(), "kind": "geometry", "shapeIndex": geomErr.ShapeIndex}
	case errors.As(err, &boundsErr):
		return 422, fiber.Map{
			"error":      boundsErr.Error(),
			"kind":       "out_of_bounds",
			"shapeIndex": boundsErr.ShapeIndex,
			"point":      fmt.Sprintf("(%.2f, %.2f)", boundsErr.Point.X, boundsErr.Point.Y),
		}
	case errors.As(err, &capErr):
		return 422, fiber.Map{"error": capErr.Error(), "kind": "capacity", "shapeIndex": capErr.ShapeIndex}
	}
	return 500, fiber.Map{"error": err.Error(), "kind": "internal"}
}
