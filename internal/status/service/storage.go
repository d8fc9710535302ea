package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage раскладывает файлы запросов: исходный SVG в uploads/,
// готовый PES в converted/. Имена — request_id.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) UploadsDir() string {
	return filepath.Join(s.root, "uploads")
}

func (s *FileStorage) ConvertedDir() string {
	return filepath.Join(s.root, "converted")
}

func (s *FileStorage) SVGPath(requestID string) string {
	return filepath.Join(s.UploadsDir(), requestID+".svg")
}

func (s *FileStorage) PESPath(requestID string) string {
	return filepath.Join(s.ConvertedDir(), requestID+".pes")
}

func (s *FileStorage) EnsureDirs() error {
	for _, dir := range []string{s.UploadsDir(), s.ConvertedDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	return nil
}

func (s *FileStorage) SaveSVG(requestID string, data []byte) error {
	if err := s.EnsureDirs(); err != nil {
		return err
	}
	return os.WriteFile(s.SVGPath(requestID), data, 0o644)
}

func (s *FileStorage) SavePES(requestID string, data []byte) error {
	if err := s.EnsureDirs(); err != nil {
		return err
	}
	return os.WriteFile(s.PESPath(requestID), data, 0o644)
}

// RemoveSVG подчищает исходник после успешной конвертации.
func (s *FileStorage) RemoveSVG(requestID string) error {
	return os.Remove(s.SVGPath(requestID))
}
