// Package storage persists payment-proof images. The core only ever stores
// the returned reference string, never the image bytes.
package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileStore accepts an image payload and returns a stable reference
type FileStore interface {
	SaveImage(ctx context.Context, dataURL string) (string, error)
}

type localFileStore struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewLocalFileStore writes images under dir and returns baseURL-prefixed refs
func NewLocalFileStore(dir, baseURL string, logger *zap.Logger) (*localFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &localFileStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}, nil
}

// SaveImage decodes a data:image/... URL and writes it to disk.
func (s *localFileStore) SaveImage(ctx context.Context, dataURL string) (string, error) {
	mediaType, data, err := decodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	name := uuid.New().String() + extFor(mediaType)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.logger.Error("Failed to write proof image", zap.Error(err))
		return "", err
	}

	return s.baseURL + "/" + name, nil
}

func decodeDataURL(dataURL string) (string, []byte, error) {
	if !strings.HasPrefix(dataURL, "data:image") {
		return "", nil, fmt.Errorf("not an image data URL")
	}
	comma := strings.IndexByte(dataURL, ',')
	if comma < 0 {
		return "", nil, fmt.Errorf("malformed data URL")
	}
	meta := dataURL[len("data:"):comma]
	mediaType := strings.SplitN(meta, ";", 2)[0]

	data, err := base64.StdEncoding.DecodeString(dataURL[comma+1:])
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return mediaType, data, nil
}

func extFor(mediaType string) string {
	switch mediaType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
