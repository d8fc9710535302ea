package pipeline

import (
	"errors"
	"runtime"
	"sync"

	"github.com/brandon-urgd/stitch/internal/converter/classify"
	"github.com/brandon-urgd/stitch/internal/converter/geometry"
	"github.com/brandon-urgd/stitch/internal/converter/models"
	"github.com/brandon-urgd/stitch/internal/converter/quality"
	"github.com/brandon-urgd/stitch/internal/converter/stitcher"
)

// ============================================================
// Conversion pipeline
// ============================================================

// Convert прогоняет документ через весь конвейер:
// нормализация → классификация → генерация стежков → губернатор качества.
// Данные текут строго вниз; единственная обратная связь — губернатор может
// запросить перегенерацию фигуры с ослабленной плотностью при переполнении
// блока. Тип стежка при этом не пересматривается.
func Convert(descriptors []models.ShapeDescriptor, cfg models.DensityConfig) (*models.ConversionResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	normalized, err := geometry.Normalize(descriptors, cfg)
	if err != nil {
		return nil, err
	}

	shapes := classify.Classify(normalized.Shapes, cfg)

	generated, err := generateAll(shapes, cfg)
	if err != nil {
		return nil, err
	}

	result, err := govern(shapes, generated, cfg)
	if err != nil {
		return nil, err
	}

	result.Warnings = normalized.Warnings
	return result, nil
}

// generateAll считает стежки фигур параллельно: работа по фигурам
// независима, но результат собирается по исходному индексу, чтобы два
// запуска на одном входе давали байт-в-байт одинаковый поток.
func generateAll(shapes []models.Shape, cfg models.DensityConfig) ([][]models.Stitch, error) {
	results := make([][]models.Stitch, len(shapes))
	errs := make([]error, len(shapes))

	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	for i, shape := range shapes {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, shape models.Shape) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], errs[i] = stitcher.Generate(shape, cfg)
		}(i, shape)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// govern запускает губернатора и обрабатывает его запросы на
// перегенерацию: фигура, переполнившая блок, пересчитывается с
// укрупнённым шагом, затем — окончательный CapacityError.
func govern(shapes []models.Shape, generated [][]models.Stitch, cfg models.DensityConfig) (*models.ConversionResult, error) {
	relaxed := make(map[int]int) // shape index → использовано попыток

	for {
		streams := make([]quality.ShapeStitches, len(shapes))
		for i, shape := range shapes {
			streams[i] = quality.ShapeStitches{ShapeIndex: shape.Index, Stitches: generated[i]}
		}

		result, err := quality.Govern(streams, cfg)
		if err == nil {
			return result, nil
		}

		var capErr *models.CapacityError
		if !errors.As(err, &capErr) {
			return nil, err
		}

		pos := shapePosition(shapes, capErr.ShapeIndex)
		if pos < 0 || relaxed[capErr.ShapeIndex] >= cfg.RelaxationRetries {
			return nil, err
		}
		relaxed[capErr.ShapeIndex]++

		shapeCfg := cfg
		for n := 0; n < relaxed[capErr.ShapeIndex]; n++ {
			shapeCfg = shapeCfg.Relaxed()
		}

		regenerated, genErr := stitcher.Generate(shapes[pos], shapeCfg)
		if genErr != nil {
			return nil, genErr
		}
		generated[pos] = regenerated
	}
}

func shapePosition(shapes []models.Shape, shapeIndex int) int {
	for i, s := range shapes {
		if s.Index == shapeIndex {
			return i
		}
	}
	return -1
}
