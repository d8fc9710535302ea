package pes_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brandon-urgd/stitch/internal/converter/models"
	"github.com/brandon-urgd/stitch/internal/converter/pes"
)

func sampleResult() *models.ConversionResult {
	return &models.ConversionResult{
		Blocks: []models.Block{
			{Index: 0, Stitches: []models.Stitch{
				{Point: models.Point{X: 0, Y: 0}},
				{Point: models.Point{X: 1.5, Y: 0}},
				{Point: models.Point{X: 3, Y: 0}},
			}},
			{Index: 1, Stitches: []models.Stitch{
				{Point: models.Point{X: 5, Y: 5}, Jump: true},
				{Point: models.Point{X: 6, Y: 5}},
			}},
		},
		StitchCount: 5,
		WidthMm:     6,
		HeightMm:    5,
	}
}

func TestEncodeHeader(t *testing.T) {
	data, err := pes.Encode(sampleResult())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte(pes.Magic)))
}

func TestEncodeAnalyzeRoundtrip(t *testing.T) {
	data, err := pes.Encode(sampleResult())
	require.NoError(t, err)

	stats, err := pes.Analyze(data)
	require.NoError(t, err)

	require.Equal(t, 5, stats.StitchCount)
	require.Equal(t, 1, stats.JumpCount)
	require.Equal(t, 1, stats.TrimCount, "one trim between two blocks")
	require.InDelta(t, 6, stats.WidthMm, 0.1)
	require.InDelta(t, 5, stats.HeightMm, 0.1)
}

func TestEncodeEmptyResult(t *testing.T) {
	_, err := pes.Encode(&models.ConversionResult{})
	require.Error(t, err)

	_, err = pes.Encode(nil)
	require.Error(t, err)
}

func TestAnalyzeRejectsGarbage(t *testing.T) {
	_, err := pes.Analyze([]byte("definitely not a pes file, much too plain"))
	require.Error(t, err)

	_, err = pes.Analyze([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestAnalyzeRejectsTruncated(t *testing.T) {
	data, err := pes.Encode(sampleResult())
	require.NoError(t, err)

	// chop off the end record
	_, err = pes.Analyze(data[:len(data)-6])
	require.Error(t, err)
}
