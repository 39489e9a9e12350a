// Package thumbs renders and caches square JPEG thumbnails for image files
// served under the thumbnail URL namespace.
package thumbs

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io/fs"
	"os"

	// Decoders for the supported image formats.
	_ "image/gif"
	_ "image/png"

	"github.com/nfnt/resize"

	"github.com/webindexer/webindexer/internal/logger"
)

// ErrUnrenderable indicates the source file is missing or not a decodable
// image. The transport answers it with a not-found page.
var ErrUnrenderable = errors.New("cannot render thumbnail")

// Service renders thumbnails on demand and memoizes them in a Cache.
type Service struct {
	cache   Cache
	size    uint
	quality int
}

// NewService creates a thumbnail service. size is the bounding box edge in
// pixels and quality the JPEG encoder quality.
func NewService(cache Cache, size uint, quality int) *Service {
	return &Service{cache: cache, size: size, quality: quality}
}

// Render returns the JPEG thumbnail for the image file at localPath,
// serving from cache when possible. Cache failures degrade to rendering
// every time rather than failing the request.
func (s *Service) Render(localPath string) ([]byte, error) {
	key := cacheKey(localPath)

	if data, ok, err := s.cache.Get(key); err != nil {
		logger.Warn("Thumbnail cache read failed: %v", err)
	} else if ok {
		return data, nil
	}

	data, err := s.render(localPath)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, data); err != nil {
		logger.Warn("Thumbnail cache write failed: %v", err)
	}

	return data, nil
}

func (s *Service) render(localPath string) ([]byte, error) {
	f, err := os.Open(localPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrUnrenderable
		}
		return nil, fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		logger.Debug("Cannot decode %s: %v", localPath, err)
		return nil, ErrUnrenderable
	}

	thumb := resize.Thumbnail(s.size, s.size, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: s.quality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail for %s: %w", localPath, err)
	}

	return buf.Bytes(), nil
}

// cacheKey derives the cache key from the source path. Keys are stable
// across restarts so persistent caches keep paying off.
func cacheKey(localPath string) string {
	sum := sha1.Sum([]byte(localPath))
	return hex.EncodeToString(sum[:])
}
