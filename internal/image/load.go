package image

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageLoadError эталонное изображение не удалось прочитать или декодировать
type ImageLoadError struct {
	Path string
	Err  error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("не удалось загрузить изображение %s: %v", e.Path, e.Err)
}

func (e *ImageLoadError) Unwrap() error {
	return e.Err
}

// LoadReference читает эталонное изображение (png, jpeg, gif, bmp, webp)
func LoadReference(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ImageLoadError{Path: path, Err: err}
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, &ImageLoadError{Path: path, Err: err}
	}
	return img, nil
}

// SaveReference сохраняет изображение в PNG, создавая папку при необходимости
func SaveReference(img image.Image, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}
