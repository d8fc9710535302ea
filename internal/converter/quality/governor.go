package quality

import (
	"math"

	"github.com/brandon-urgd/stitch/internal/converter/geometry"
	"github.com/brandon-urgd/stitch/internal/converter/models"
)

// ============================================================
// Quality Governor & Block Packer
// ============================================================

// ShapeStitches — готовый поток стежков одной фигуры в порядке шитья.
type ShapeStitches struct {
	ShapeIndex int
	Stitches   []models.Stitch
}

// Govern валидирует полный поток стежков и режет его на блоки:
//   - каждая координата внутри пялец, иначе OutOfBoundsError (без обрезки);
//   - стыки между фигурами перепроверяются на инвариант длины стежка:
//     разрыв больше потолка или меньше пола становится jump-стежком;
//   - границы блоков только на jump-стежке или границе фигур; непрерывный
//     прогон длиннее вместимости блока — CapacityError.
func Govern(shapes []ShapeStitches, cfg models.DensityConfig) (*models.ConversionResult, error) {
	if err := checkBounds(shapes, cfg); err != nil {
		return nil, err
	}

	shapes = markJoins(shapes, cfg)

	runs, err := splitRuns(shapes, cfg)
	if err != nil {
		return nil, err
	}

	blocks := packBlocks(runs, cfg)

	result := &models.ConversionResult{Blocks: blocks}
	for _, b := range blocks {
		result.StitchCount += len(b.Stitches)
	}
	result.WidthMm, result.HeightMm = designExtents(blocks)
	return result, nil
}

// checkBounds: пяльцы центрированы в начале координат, |x| ≤ W/2, |y| ≤ H/2.
func checkBounds(shapes []ShapeStitches, cfg models.DensityConfig) error {
	halfW := cfg.HoopWidthMm / 2
	halfH := cfg.HoopHeightMm / 2
	for _, s := range shapes {
		for _, st := range s.Stitches {
			if math.Abs(st.Point.X) > halfW || math.Abs(st.Point.Y) > halfH {
				return &models.OutOfBoundsError{ShapeIndex: s.ShapeIndex, Point: st.Point}
			}
		}
	}
	return nil
}

// markJoins проверяет стык последнего стежка фигуры с первым стежком
// следующей. Несоседние фигуры соединяются jump-стежком; микроскопический
// стык тоже не шьём — это было бы нарушение пола длины стежка.
func markJoins(shapes []ShapeStitches, cfg models.DensityConfig) []ShapeStitches {
	var last *models.Stitch
	out := make([]ShapeStitches, 0, len(shapes))

	for _, s := range shapes {
		if len(s.Stitches) == 0 {
			continue
		}
		stitches := append([]models.Stitch{}, s.Stitches...)

		if last != nil && !stitches[0].Jump {
			gap := geometry.Distance(last.Point, stitches[0].Point)
			if gap > cfg.MaxStitchMm || gap < cfg.MinStitchMm {
				stitches[0].Jump = true
			}
		}

		out = append(out, ShapeStitches{ShapeIndex: s.ShapeIndex, Stitches: stitches})
		last = &stitches[len(stitches)-1]
	}
	return out
}

// run — непрерывный прогон, внутри которого резать блок нельзя.
type run struct {
	shapeIndex int
	stitches   []models.Stitch
}

// splitRuns режет фигуры на прогоны по безопасным точкам: начало фигуры
// и каждый jump-стежок. Прогон длиннее вместимости разрезать негде.
func splitRuns(shapes []ShapeStitches, cfg models.DensityConfig) ([]run, error) {
	var runs []run
	for _, s := range shapes {
		start := 0
		for i := 1; i < len(s.Stitches); i++ {
			if s.Stitches[i].Jump {
				runs = append(runs, run{shapeIndex: s.ShapeIndex, stitches: s.Stitches[start:i]})
				start = i
			}
		}
		if start < len(s.Stitches) {
			runs = append(runs, run{shapeIndex: s.ShapeIndex, stitches: s.Stitches[start:]})
		}
	}

	for _, r := range runs {
		if len(r.stitches) > cfg.BlockCapacity {
			return nil, &models.CapacityError{
				ShapeIndex: r.shapeIndex,
				Stitches:   len(r.stitches),
				Capacity:   cfg.BlockCapacity,
			}
		}
	}
	return runs, nil
}

// packBlocks жадно докладывает прогоны в блок до вместимости. Новый блок
// начинается с jump-стежка, если его первая точка не совпадает с последней
// точкой предыдущего блока.
func packBlocks(runs []run, cfg models.DensityConfig) []models.Block {
	var blocks []models.Block
	var current []models.Stitch

	flush := func() {
		if len(current) == 0 {
			return
		}
		blocks = append(blocks, models.Block{Index: len(blocks), Stitches: current})
		current = nil
	}

	for _, r := range runs {
		if len(current)+len(r.stitches) > cfg.BlockCapacity {
			flush()
		}
		stitches := r.stitches
		if len(current) == 0 && len(blocks) > 0 && !stitches[0].Jump {
			prev := blocks[len(blocks)-1].Stitches
			if prev[len(prev)-1].Point != stitches[0].Point {
				stitches = append([]models.Stitch{}, stitches...)
				stitches[0].Jump = true
			}
		}
		current = append(current, stitches...)
	}
	flush()

	return blocks
}

func designExtents(blocks []models.Block) (w, h float64) {
	first := true
	var min, max models.Point
	for _, b := range blocks {
		for _, s := range b.Stitches {
			if first {
				min, max = s.Point, s.Point
				first = false
				continue
			}
			min.X = math.Min(min.X, s.Point.X)
			min.Y = math.Min(min.Y, s.Point.Y)
			max.X = math.Max(max.X, s.Point.X)
			max.Y = math.Max(max.Y, s.Point.Y)
		}
	}
	if first {
		return 0, 0
	}
	return max.X - min.X, max.Y - min.Y
}
