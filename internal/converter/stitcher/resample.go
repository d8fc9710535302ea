package stitcher

import (
	"math"

	"github.com/brandon-urgd/stitch/internal/converter/geometry"
	"github.com/brandon-urgd/stitch/internal/converter/models"
)

// ============================================================
// Corrective resampling
// ============================================================

// enforceBounds — общий числовой инвариант генератора: каждый шитый
// сегмент в пределах [MinStitchMm, MaxStitchMm]. Короткие сегменты
// сливаются со следующей точкой, длинные равномерно дробятся. Это не
// отбраковка, а корректирующая передискретизация на лету; сегменты,
// начинающиеся или заканчивающиеся jump-стежком, не трогаем.
func enforceBounds(stitches []models.Stitch, cfg models.DensityConfig) []models.Stitch {
	if len(stitches) < 2 {
		return stitches
	}

	out := make([]models.Stitch, 0, len(stitches))
	out = append(out, stitches[0])

	for i := 1; i < len(stitches); i++ {
		s := stitches[i]
		prev := out[len(out)-1]

		if s.Jump || prev.Jump {
			out = append(out, s)
			continue
		}

		d := geometry.Distance(prev.Point, s.Point)

		if d < cfg.MinStitchMm {
			// слишком короткий: сливаем в следующую точку; последнюю
			// точку последовательности сохраняем вместо предыдущей,
			// после чего хвостовой сегмент проверяется заново
			if i == len(stitches)-1 {
				out = mergeTail(out, s, cfg)
			}
			continue
		}

		if d > cfg.MaxStitchMm {
			parts := int(math.Ceil(d / cfg.MaxStitchMm))
			for k := 1; k < parts; k++ {
				t := float64(k) / float64(parts)
				out = append(out, models.Stitch{Point: lerp(prev.Point, s.Point, t)})
			}
		}

		out = append(out, s)
	}

	return out
}

// mergeTail подменяет последнюю принятую точку конечной точкой
// последовательности и перепроверяет получившийся сегмент: всё ещё
// короткий хвост сливается дальше назад, длинный — дробится. Иначе
// подмена могла бы оставить шитый сегмент вне [MinStitchMm, MaxStitchMm].
func mergeTail(out []models.Stitch, s models.Stitch, cfg models.DensityConfig) []models.Stitch {
	out[len(out)-1] = s
	if len(out) < 2 || out[len(out)-2].Jump {
		return out
	}

	prev := out[len(out)-2]
	d := geometry.Distance(prev.Point, s.Point)

	if d < cfg.MinStitchMm {
		return out[:len(out)-1]
	}

	if d > cfg.MaxStitchMm {
		parts := int(math.Ceil(d / cfg.MaxStitchMm))
		tail := out[:len(out)-1]
		for k := 1; k < parts; k++ {
			t := float64(k) / float64(parts)
			tail = append(tail, models.Stitch{Point: lerp(prev.Point, s.Point, t)})
		}
		return append(tail, s)
	}

	return out
}

func lerp(a, b models.Point, t float64) models.Point {
	return models.Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// ============================================================
// Arc-length sampling
// ============================================================

// pathLength — суммарная длина ломаной.
func pathLength(points []models.Point) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += geometry.Distance(points[i-1], points[i])
	}
	return total
}

// sampleAt возвращает точку ломаной на расстоянии target от её начала.
func sampleAt(points []models.Point, target float64) models.Point {
	if len(points) == 0 {
		return models.Point{}
	}
	if target <= 0 {
		return points[0]
	}

	walked := 0.0
	for i := 1; i < len(points); i++ {
		seg := geometry.Distance(points[i-1], points[i])
		if walked+seg >= target && seg > 0 {
			t := (target - walked) / seg
			return lerp(points[i-1], points[i], t)
		}
		walked += seg
	}
	return points[len(points)-1]
}

// resampleUniform — n+1 точек ломаной, равномерно по длине дуги.
// Обе рельсы сатина сэмплируются так с одинаковым n, чтобы плотность
// не плыла на сужающихся концах.
func resampleUniform(points []models.Point, n int) []models.Point {
	if n < 1 {
		n = 1
	}
	total := pathLength(points)
	out := make([]models.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, sampleAt(points, total*float64(i)/float64(n)))
	}
	return out
}
