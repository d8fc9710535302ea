package models

// ============================================================
// Geometry primitives
// ============================================================

// Point — координата в миллиметрах.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Unit — единица измерения входных координат.
type Unit string

const (
	UnitPx Unit = "px"
	UnitMm Unit = "mm"
	UnitIn Unit = "in"
)

// ShapeDescriptor — сырая фигура, как её отдаёт слой загрузки:
// точки в исходных единицах плюс fill/stroke метаданные.
type ShapeDescriptor struct {
	Points        []Point `json:"points"`
	Unit          Unit    `json:"unit"`
	Filled        bool    `json:"filled"`
	StrokeWidthMm float64 `json:"strokeWidthMm"` // 0 = not declared
}

// ============================================================
// Normalized shapes
// ============================================================

// StitchType назначается классификатором один раз и дальше не меняется.
type StitchType int

const (
	StitchSatin StitchType = iota
	StitchFill
	StitchRunning
)

func (t StitchType) String() string {
	switch t {
	case StitchSatin:
		return "satin"
	case StitchFill:
		return "fill"
	case StitchRunning:
		return "running"
	}
	return "unknown"
}

// Shape — нормализованный контур в миллиметрах. После классификации
// фигура считается неизменяемой; underlay строится как отдельный контур.
type Shape struct {
	Index            int // позиция во входном документе
	Points           []Point
	Filled           bool
	StrokeWidthMm    float64
	EffectiveWidthMm float64
	Type             StitchType
}

// ============================================================
// Stitch stream
// ============================================================

// Stitch — одно опускание иглы. Jump = перемещение без шитья.
type Stitch struct {
	Point Point `json:"point"`
	Jump  bool  `json:"jump,omitempty"`
}

// Block — ограниченная по размеру часть потока стежков.
// Границы блоков допустимы только на jump-стежке или на границе фигур.
type Block struct {
	Index    int      `json:"index"`
	Stitches []Stitch `json:"stitches"`
}

// ConversionResult — итог конвертации: блоки в порядке шитья
// плюс предупреждения о выброшенных вырожденных фигурах.
type ConversionResult struct {
	Blocks      []Block                  `json:"blocks"`
	Warnings    []DegenerateShapeWarning `json:"warnings,omitempty"`
	StitchCount int                      `json:"stitchCount"`
	WidthMm     float64                  `json:"widthMm"`
	HeightMm    float64                  `json:"heightMm"`
}

// Stitches возвращает весь поток одним срезом (порядок блоков сохраняется).
func (r *ConversionResult) Stitches() []Stitch {
	out := make([]Stitch, 0, r.StitchCount)
	for _, b := range r.Blocks {
		out = append(out, b.Stitches...)
	}
	return out
}

// ============================================================
// Density configuration
// ============================================================

// DensityConfig — все плотности и лимиты конвейера. Значения по умолчанию
// соответствуют профессиональным стандартам (6.3 строк на дюйм для заливки).
type DensityConfig struct {
	FillRowPitchMm    float64 `json:"fillRowPitchMm"`
	FillStitchMm      float64 `json:"fillStitchMm"`
	SatinStitchMm     float64 `json:"satinStitchMm"`
	RunningStitchMm   float64 `json:"runningStitchMm"`
	SatinMaxWidthMm   float64 `json:"satinMaxWidthMm"`
	MinStitchMm       float64 `json:"minStitchMm"`
	MaxStitchMm       float64 `json:"maxStitchMm"`
	UnderlayInsetMm   float64 `json:"underlayInsetMm"`
	UnderlayPitchMm   float64 `json:"underlayPitchMm"`
	FillAngleStepDeg  float64 `json:"fillAngleStepDeg"`
	BlockCapacity     int     `json:"blockCapacity"`
	HoopWidthMm       float64 `json:"hoopWidthMm"`
	HoopHeightMm      float64 `json:"hoopHeightMm"`
	PxPerInch         float64 `json:"pxPerInch"`
	DedupeEpsilonMm   float64 `json:"dedupeEpsilonMm"`
	DefaultStrokeMm   float64 `json:"defaultStrokeMm"`
	RelaxationFactor  float64 `json:"relaxationFactor"`
	RelaxationRetries int     `json:"relaxationRetries"`
}

// DefaultDensity возвращает конфигурацию по умолчанию.
// 25.4 / 6.3 ≈ 4.03mm — стандартный шаг строк заливки.
func DefaultDensity() DensityConfig {
	return DensityConfig{
		FillRowPitchMm:    4.03,
		FillStitchMm:      1.5,
		SatinStitchMm:     2.0,
		RunningStitchMm:   2.5,
		SatinMaxWidthMm:   8.0,
		MinStitchMm:       0.5,
		MaxStitchMm:       4.0,
		UnderlayInsetMm:   0.4,
		UnderlayPitchMm:   3.5,
		FillAngleStepDeg:  15,
		BlockCapacity:     2000,
		HoopWidthMm:       130,
		HoopHeightMm:      180,
		PxPerInch:         96,
		DedupeEpsilonMm:   0.01,
		DefaultStrokeMm:   1.0,
		RelaxationFactor:  1.5,
		RelaxationRetries: 2,
	}
}

// Validate проверяет конфигурацию до запуска конвейера. Конфигурация
// приходит от клиента как есть; нулевой шаг строк или стежков ломает
// циклы генерации, поэтому все шаги и лимиты обязаны быть положительными.
func (c DensityConfig) Validate() error {
	positive := []struct {
		field string
		value float64
	}{
		{"fillRowPitchMm", c.FillRowPitchMm},
		{"fillStitchMm", c.FillStitchMm},
		{"satinStitchMm", c.SatinStitchMm},
		{"runningStitchMm", c.RunningStitchMm},
		{"satinMaxWidthMm", c.SatinMaxWidthMm},
		{"minStitchMm", c.MinStitchMm},
		{"maxStitchMm", c.MaxStitchMm},
		{"underlayPitchMm", c.UnderlayPitchMm},
		{"hoopWidthMm", c.HoopWidthMm},
		{"hoopHeightMm", c.HoopHeightMm},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return &ConfigError{Field: p.field, Msg: "must be positive"}
		}
	}
	if c.BlockCapacity < 1 {
		return &ConfigError{Field: "blockCapacity", Msg: "must be at least 1"}
	}
	if c.MinStitchMm >= c.MaxStitchMm {
		return &ConfigError{Field: "minStitchMm", Msg: "must be below maxStitchMm"}
	}
	return nil
}

// Relaxed возвращает копию с укрупнённым шагом стежков — используется
// при переполнении блока (запрос губернатора качества).
func (c DensityConfig) Relaxed() DensityConfig {
	f := c.RelaxationFactor
	if f <= 1 {
		f = 1.5
	}
	out := c
	out.FillRowPitchMm *= f
	out.FillStitchMm *= f
	out.SatinStitchMm *= f
	out.RunningStitchMm *= f
	out.UnderlayPitchMm *= f
	if out.FillStitchMm > out.MaxStitchMm {
		out.FillStitchMm = out.MaxStitchMm
	}
	if out.SatinStitchMm > out.MaxStitchMm {
		out.SatinStitchMm = out.MaxStitchMm
	}
	if out.RunningStitchMm > out.MaxStitchMm {
		out.RunningStitchMm = out.MaxStitchMm
	}
	return out
}
