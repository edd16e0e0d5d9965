// utils/file_utils.go
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Maximum accepted upload size (10MB)
	MaxFileSize = 10 * 1024 * 1024

	thumbnailWidth = 256
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

var filenameCleaner = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// UploadBaseDir returns the directory uploaded blobs are stored under.
func UploadBaseDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "uploads"
}

// CleanFilename strips path components and any character that has no
// business being in a stored filename.
func CleanFilename(filename string) string {
	filename = filepath.Base(filename)
	return filenameCleaner.ReplaceAllString(filename, "")
}

// IsImageFilename reports whether the extension is a supported image type.
func IsImageFilename(filename string) bool {
	return allowedImageExts[strings.ToLower(filepath.Ext(filename))]
}

// InitializeStorage creates the upload directories.
func InitializeStorage() error {
	dirs := []string{
		UploadBaseDir(),
		filepath.Join(UploadBaseDir(), "thumbnails"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return nil
}

// SaveUploadedFile writes an uploaded blob under a collision-free name and
// returns the stored filename relative to the upload dir.
func SaveUploadedFile(data []byte, originalName string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}
	if len(data) > MaxFileSize {
		return "", fmt.Errorf("file too large. Maximum size is %d bytes", MaxFileSize)
	}

	if err := InitializeStorage(); err != nil {
		return "", err
	}

	cleanName := CleanFilename(originalName)
	if cleanName == "" {
		cleanName = "upload"
	}
	storedName := fmt.Sprintf("%s_%s", uuid.NewString(), cleanName)

	fullPath := filepath.Join(UploadBaseDir(), storedName)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}

	return storedName, nil
}

// GenerateThumbnail produces a fixed-width thumbnail for an uploaded image
// and returns its filename relative to the upload dir. Non-image uploads
// return an empty name without error.
func GenerateThumbnail(storedName string) (string, error) {
	if !IsImageFilename(storedName) {
		return "", nil
	}

	src, err := imaging.Open(filepath.Join(UploadBaseDir(), storedName))
	if err != nil {
		return "", fmt.Errorf("failed to open image: %v", err)
	}

	thumb := imaging.Resize(src, thumbnailWidth, 0, imaging.Lanczos)
	thumbName := filepath.Join("thumbnails", storedName)
	if err := imaging.Save(thumb, filepath.Join(UploadBaseDir(), thumbName)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %v", err)
	}

	return thumbName, nil
}

// FileURL resolves a stored filename to its public URL.
func FileURL(storedName string) string {
	base := os.Getenv("PUBLIC_BASE_URL")
	return base + "/uploads/" + filepath.ToSlash(storedName)
}
