package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidFileType = errors.New("only PDF files are allowed")

type StorageService interface {
	SaveUpload(file *multipart.FileHeader) (string, error)
	DeleteUpload(filePath string) error
	SaveGenerated(prefix, content string) (string, error)
	GeneratedFilePath(filename string) (string, error)
	DeleteGenerated(filename string) error
	EnsureDirs() error
}

type storageService struct {
	uploadPath    string
	generatedPath string
}

func NewStorageService(uploadPath, generatedPath string) StorageService {
	return &storageService{
		uploadPath:    uploadPath,
		generatedPath: generatedPath,
	}
}

func (s *storageService) EnsureDirs() error {
	for _, dir := range []string{s.uploadPath, s.generatedPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// SaveUpload stores an uploaded PDF under a unique name and returns its path.
func (s *storageService) SaveUpload(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return "", fmt.Errorf("%w: got %q", ErrInvalidFileType, ext)
	}

	filePath := filepath.Join(s.uploadPath, fmt.Sprintf("%s%s", uuid.New().String(), ext))

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	return filePath, nil
}

func (s *storageService) DeleteUpload(filePath string) error {
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SaveGenerated writes an HTML artifact named <prefix>_<8 hex>.html.
func (s *storageService) SaveGenerated(prefix, content string) (string, error) {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	filename := fmt.Sprintf("%s_%s.html", prefix, id)

	if err := os.MkdirAll(s.generatedPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create generated directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.generatedPath, filename), []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}

	return filename, nil
}

// GeneratedFilePath resolves a bare artifact name; anything carrying a path
// component is rejected.
func (s *storageService) GeneratedFilePath(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("invalid filename: %q", filename)
	}

	filePath := filepath.Join(s.generatedPath, filename)
	if _, err := os.Stat(filePath); err != nil {
		return "", fmt.Errorf("file not found: %w", err)
	}

	return filePath, nil
}

func (s *storageService) DeleteGenerated(filename string) error {
	filePath, err := s.GeneratedFilePath(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete %s: %w", filename, err)
	}
	return nil
}
