package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (10MB)
	maxFileSize = 10 * 1024 * 1024
)

// Allowed image extensions
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// cleanFilename removes any potentially dangerous characters from the filename
func cleanFilename(filename string) string {
	// Remove any path components
	filename = filepath.Base(filename)
	reg := regexp.MustCompile(`[^a-zA-Z0-9.-]`)
	return reg.ReplaceAllString(filename, "")
}

// ValidateFileType checks if the file extension is allowed for the given media type
func ValidateFileType(filename, mediaType string) error {
	ext := strings.ToLower(filepath.Ext(filename))

	switch mediaType {
	case "image":
		if !allowedImageExts[ext] {
			return fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif, webp")
		}
	default:
		return fmt.Errorf("invalid media type. Must be 'image'")
	}
	return nil
}

// InitializeStorage creates necessary directories for file storage
func InitializeStorage() error {
	if err := os.MkdirAll(uploadBaseDir, 0755); err != nil {
		return fmt.Errorf("failed to create uploads directory: %v", err)
	}

	dirs := []string{
		filepath.Join(uploadBaseDir, "properties"),
		filepath.Join(uploadBaseDir, "thumbnails"),
		filepath.Join(uploadBaseDir, "blogs"),
		filepath.Join(uploadBaseDir, "profiles"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// UploadFileToPath saves a file under uploads/<subDir> and returns the URL
func UploadFileToPath(fileData []byte, filename, mediaType, subDir string) (string, error) {
	if len(fileData) > maxFileSize {
		return "", fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}

	cleanName := cleanFilename(filename)
	if err := ValidateFileType(cleanName, mediaType); err != nil {
		return "", err
	}

	if err := InitializeStorage(); err != nil {
		return "", err
	}

	fullPath := filepath.Join(uploadBaseDir, subDir, cleanName)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %v", err)
	}

	if err := os.WriteFile(fullPath, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %v", err)
	}

	return fmt.Sprintf("%s/%s/%s", baseURL, subDir, cleanName), nil
}

// GenerateImageThumbnail resizes an uploaded image to a 320px-wide JPEG
// thumbnail and returns its URL
func GenerateImageThumbnail(imageData []byte, filename string) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}

	resized := imaging.Resize(img, 320, 0, imaging.Lanczos)

	if err := InitializeStorage(); err != nil {
		return "", err
	}

	base := strings.TrimSuffix(cleanFilename(filename), filepath.Ext(filename))
	thumbName := base + "_thumb.jpg"
	thumbPath := filepath.Join(uploadBaseDir, "thumbnails", thumbName)

	if err := imaging.Save(resized, thumbPath, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %v", err)
	}

	return fmt.Sprintf("%s/thumbnails/%s", baseURL, thumbName), nil
}
