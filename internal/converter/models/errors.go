package models

import "fmt"

// ============================================================
// Error taxonomy
// ============================================================

// Все ошибки конвейера типизированы, чтобы сервисный слой мог отличать
// их через errors.As. Единственная восстановимая — DegenerateShapeWarning:
// фигура пропускается, конвертация продолжается. Остальные фатальны для
// всей конвертации: половина дизайна вышивки бесполезна.

// ConfigError — недопустимое значение в конфигурации плотностей.
// Конфигурация приходит от клиента и проверяется до запуска конвейера.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Field, e.Msg)
}

// UnitConversionError — неизвестная или пустая единица измерения.
type UnitConversionError struct {
	Unit Unit
}

func (e *UnitConversionError) Error() string {
	return fmt.Sprintf("unsupported unit %q", string(e.Unit))
}

// DegenerateShapeWarning — фигура не даёт ничего шьемого (нулевая площадь,
// слишком мало точек). Не ошибка конвертации: фиксируется и пропускается.
type DegenerateShapeWarning struct {
	ShapeIndex int    `json:"shapeIndex"`
	Reason     string `json:"reason"`
}

func (e *DegenerateShapeWarning) Error() string {
	return fmt.Sprintf("shape %d degenerate: %s", e.ShapeIndex, e.Reason)
}

// GeometryError — некорректный контур (самопересечение, нечётное число
// пересечений при сканировании). Генератор не чинит такую геометрию.
type GeometryError struct {
	ShapeIndex int
	Msg        string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("shape %d: %s", e.ShapeIndex, e.Msg)
}

// OutOfBoundsError — стежок за пределами пялец. Координату нельзя молча
// обрезать: машина должна смочь прошить каждую точку.
type OutOfBoundsError struct {
	ShapeIndex int
	Point      Point
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("shape %d: stitch (%.2f, %.2f) outside working area",
		e.ShapeIndex, e.Point.X, e.Point.Y)
}

// CapacityError — у фигуры нет безопасной точки разреза (jump или границы
// фигуры), а стежков больше вместимости блока.
type CapacityError struct {
	ShapeIndex int
	Stitches   int
	Capacity   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("shape %d: %d stitches exceed block capacity %d with no safe split point",
		e.ShapeIndex, e.Stitches, e.Capacity)
}
