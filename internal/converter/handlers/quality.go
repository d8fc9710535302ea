package handlers

// ============================================================
// Quality assessment
// ============================================================

// QualityReport — оценка дизайна по числу стежков и плотности.
type QualityReport struct {
	Level      string  `json:"level"`
	Complexity string  `json:"complexity"`
	WidthMm    float64 `json:"widthMm"`
	HeightMm   float64 `json:"heightMm"`
	Density    float64 `json:"stitchDensity"` // стежков на мм²
}

// Assess распределяет дизайн по уровням качества. Пороги — сложившиеся
// ориентиры для бытовых машин: меньше сотни стежков это базовая строчка,
// тысячи — профессиональная плотность.
func Assess(stitchCount int, widthMm, heightMm float64) QualityReport {
	var level, complexity string
	switch {
	case stitchCount == 0:
		level, complexity = "invalid", "none"
	case stitchCount < 20:
		level, complexity = "basic", "very_simple"
	case stitchCount < 100:
		level, complexity = "basic", "simple"
	case stitchCount < 300:
		level, complexity = "good", "moderate"
	case stitchCount < 1000:
		level, complexity = "high", "complex"
	case stitchCount < 3000:
		level, complexity = "high", "highly_complex"
	default:
		level, complexity = "professional", "highly_complex"
	}

	report := QualityReport{
		Level:      level,
		Complexity: complexity,
		WidthMm:    widthMm,
		HeightMm:   heightMm,
	}

	area := widthMm * heightMm
	if area > 0 {
		report.Density = float64(stitchCount) / area
		// плотность уточняет уровень: редкая строчка не бывает высокой,
		// очень плотная заливка — профессиональная
		if report.Density < 0.1 && stitchCount > 0 {
			report.Level = "basic"
		} else if report.Density > 2.0 {
			report.Level = "professional"
		}
	}

	return report
}
