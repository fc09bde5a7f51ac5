package assets

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
)

// ImageInfo describes a decoded candidate image.
type ImageInfo struct {
	Path   string
	Format string
	Width  int
	Height int
	Size   int64
}

// Verify decodes the header of every entry's image under publicDir. Paths
// are resolved relative to publicDir the same way the static file server
// resolves them. All failures are collected and returned together.
func Verify(publicDir string, entries []Entry) ([]ImageInfo, error) {
	var (
		infos []ImageInfo
		errs  []error
	)
	for _, e := range entries {
		info, err := inspectImage(publicDir, e.Path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", e.Path, err))
			continue
		}
		infos = append(infos, info)
	}
	return infos, errors.Join(errs...)
}

func inspectImage(publicDir, assetPath string) (ImageInfo, error) {
	rel := filepath.FromSlash(strings.TrimPrefix(assetPath, "/"))
	if rel == "" || strings.HasPrefix(filepath.Clean(rel), "..") {
		return ImageInfo{}, fmt.Errorf("invalid asset path")
	}
	f, err := os.Open(filepath.Join(publicDir, rel))
	if err != nil {
		return ImageInfo{}, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return ImageInfo{}, err
	}
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("decode image: %w", err)
	}
	return ImageInfo{
		Path:   assetPath,
		Format: format,
		Width:  cfg.Width,
		Height: cfg.Height,
		Size:   st.Size(),
	}, nil
}
