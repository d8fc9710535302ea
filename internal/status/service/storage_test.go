package service_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brandon-urgd/stitch/internal/status/service"
)

func TestFileStorageRoundtrip(t *testing.T) {
	storage := service.NewFileStorage(t.TempDir())

	require.NoError(t, storage.SaveSVG("req-1", []byte("<svg/>")))
	data, err := os.ReadFile(storage.SVGPath("req-1"))
	require.NoError(t, err)
	require.Equal(t, "<svg/>", string(data))

	require.NoError(t, storage.SavePES("req-1", []byte{0x23, 0x50}))
	_, err = os.Stat(storage.PESPath("req-1"))
	require.NoError(t, err)

	require.NoError(t, storage.RemoveSVG("req-1"))
	_, err = os.Stat(storage.SVGPath("req-1"))
	require.True(t, os.IsNotExist(err))
}

func TestFileStoragePaths(t *testing.T) {
	storage := service.NewFileStorage("data")

	require.Contains(t, storage.SVGPath("abc"), "uploads")
	require.Contains(t, storage.PESPath("abc"), "converted")
}
