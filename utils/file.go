package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

const uploadDir = "uploads"

// EnsureUploadDir creates the local uploads directory if it doesn't exist.
func EnsureUploadDir() error {
	return os.MkdirAll(uploadDir, os.ModePerm)
}

// SaveAssetLocally is the fallback when R2 is not configured: it writes the
// uploaded asset under ./uploads and returns the path served by the static
// route.
func SaveAssetLocally(fileHeader *multipart.FileHeader, key string) (string, error) {
	destPath := filepath.Join(uploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("/%s/%s", uploadDir, key), nil
}

// StoreAsset uploads to R2 when configured, local disk otherwise.
func StoreAsset(fileHeader *multipart.FileHeader, key string) (string, error) {
	if R2Enabled() {
		return UploadAssetToR2(fileHeader, key)
	}
	return SaveAssetLocally(fileHeader, key)
}
