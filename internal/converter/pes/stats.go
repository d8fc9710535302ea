package pes

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ============================================================
// PES Stats
// ============================================================

// Stats — сводка по PES файлу: размеры из заголовка и счётчики записей.
type Stats struct {
	StitchCount int     `json:"stitchCount"`
	JumpCount   int     `json:"jumpCount"`
	TrimCount   int     `json:"trimCount"`
	WidthMm     float64 `json:"widthMm"`
	HeightMm    float64 `json:"heightMm"`
}

// Analyze разбирает PES файл, записанный Encode: заголовок с габаритами,
// блок нитей, затем записи стежков до завершающей.
func Analyze(data []byte) (*Stats, error) {
	if len(data) < len(Magic)+16 {
		return nil, fmt.Errorf("file too short for PES header")
	}
	if !bytes.HasPrefix(data, []byte(Magic)) {
		return nil, fmt.Errorf("not a PES file")
	}

	off := len(Magic) + 4 // magic + reserved
	off += 4              // hoop count + reserved

	width := binary.LittleEndian.Uint16(data[off:])
	height := binary.LittleEndian.Uint16(data[off+2:])
	off += 4
	off += 4 // reserved

	if off+2 > len(data) {
		return nil, fmt.Errorf("truncated thread table")
	}
	threads := int(binary.LittleEndian.Uint16(data[off:]))
	off += 2
	for i := 0; i < threads; i++ {
		end := bytes.IndexByte(data[off:], 0)
		if end < 0 {
			return nil, fmt.Errorf("unterminated thread name")
		}
		off += end + 1
	}

	stats := &Stats{
		WidthMm:  float64(width) / unitsPerMm,
		HeightMm: float64(height) / unitsPerMm,
	}

	for off+6 <= len(data) {
		cmd := binary.LittleEndian.Uint16(data[off:])
		off += 6
		switch cmd {
		case cmdEnd:
			return stats, nil
		case cmdJump:
			stats.JumpCount++
			stats.StitchCount++
		case cmdStitch:
			stats.StitchCount++
		case cmdTrim:
			stats.TrimCount++
		default:
			return nil, fmt.Errorf("unknown stitch command %d", cmd)
		}
	}

	return nil, fmt.Errorf("missing end record")
}
