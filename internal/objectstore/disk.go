package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var ErrBadKey = errors.New("invalid object key")

// Disk writes photos into a local directory that the HTTP router serves
// under the public base URL.
type Disk struct {
	dir     string
	baseURL string
}

func NewDisk(dir, publicBaseURL string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("objectstore.NewDisk: %w", err)
	}
	return &Disk{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

func (d *Disk) Dir() string { return d.dir }

func (d *Disk) Put(ctx context.Context, key string, body io.Reader, size int64, _ string) (string, error) {
	const op = "objectstore.Disk.Put"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("%s: %q: %w", op, key, ErrBadKey)
	}

	path := filepath.Join(d.dir, key)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if size >= 0 {
		body = io.LimitReader(body, size)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return d.baseURL + "/" + key, nil
}
