package pes

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/brandon-urgd/stitch/internal/converter/models"
)

// ============================================================
// PES Writer
// ============================================================

// Бинарная сериализация потока блоков в PES-подобный файл: магия #PES0060,
// габариты дизайна в единицах 0.1mm, имена нитей и 6-байтовые записи
// стежков (команда + x + y, little-endian). Координаты сдвигаются в
// положительный квадрант относительно минимума дизайна.

const Magic = "#PES0060"

// команды записей стежков
const (
	cmdEnd    uint16 = 0
	cmdJump   uint16 = 1
	cmdStitch uint16 = 2
	cmdTrim   uint16 = 3
)

// единиц PES на миллиметр (0.1mm на единицу)
const unitsPerMm = 10

// Encode сериализует результат конвертации в бинарный PES.
func Encode(result *models.ConversionResult) ([]byte, error) {
	if result == nil || len(result.Blocks) == 0 {
		return nil, fmt.Errorf("empty conversion result")
	}

	minX, minY := math.MaxFloat64, math.MaxFloat64
	for _, b := range result.Blocks {
		for _, s := range b.Stitches {
			minX = math.Min(minX, s.Point.X)
			minY = math.Min(minY, s.Point.Y)
		}
	}

	buf := &bytes.Buffer{}
	buf.WriteString(Magic)
	buf.Write([]byte{0, 0, 0, 0}) // reserved

	writeU16(buf, 1) // hoop count
	writeU16(buf, 0) // reserved
	writeU16(buf, toUnits(result.WidthMm))
	writeU16(buf, toUnits(result.HeightMm))
	buf.Write([]byte{0, 0, 0, 0}) // reserved

	// один цвет нити: входные дескрипторы цвет не несут
	writeU16(buf, 1)
	buf.WriteString("Thread 1")
	buf.WriteByte(0)

	for bi, block := range result.Blocks {
		if bi > 0 {
			// между блоками нить обрезается
			prev := result.Blocks[bi-1].Stitches
			last := prev[len(prev)-1].Point
			writeRecord(buf, cmdTrim, last, minX, minY)
		}
		for _, s := range block.Stitches {
			cmd := cmdStitch
			if s.Jump {
				cmd = cmdJump
			}
			writeRecord(buf, cmd, s.Point, minX, minY)
		}
	}

	// завершающая запись
	writeU16(buf, cmdEnd)
	writeU16(buf, 0)
	writeU16(buf, 0)

	return buf.Bytes(), nil
}

func writeRecord(buf *bytes.Buffer, cmd uint16, p models.Point, minX, minY float64) {
	writeU16(buf, cmd)
	writeU16(buf, toUnits(p.X-minX))
	writeU16(buf, toUnits(p.Y-minY))
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

// toUnits переводит миллиметры в 0.1mm единицы формата. Губернатор уже
// проверил дизайн по пяльцам, так что после сдвига в положительный
// квадрант значения помещаются в uint16; выход за диапазон насыщается,
// а не переносится через ноль.
func toUnits(mm float64) uint16 {
	u := math.Round(mm * unitsPerMm)
	if u < 0 {
		return 0
	}
	if u > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(u)
}
