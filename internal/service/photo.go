package service

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"villagevoice/internal/domain"
	"villagevoice/pkg/e"
)

// PhotoKey names an uploaded photo as <complaintID>-<unix ms><ext>.
func PhotoKey(complaintID string, at time.Time, filename string) string {
	return fmt.Sprintf("%s-%d%s", complaintID, at.UnixMilli(), strings.ToLower(filepath.Ext(filename)))
}

func (s *complaintService) uploadPhoto(ctx context.Context, complaintID string, photo *domain.PhotoUpload) (string, error) {
	const op = "service.Complaint.uploadPhoto"

	if photo.Body == nil {
		return "", fmt.Errorf("%s: empty body: %w", op, e.ErrUpload)
	}

	key := PhotoKey(complaintID, s.now(), photo.Filename)
	contentType := photo.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(key))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	size := photo.Size
	if size <= 0 {
		size = -1 // unknown
	}

	url, err := s.photos.Put(ctx, key, photo.Body, size, contentType)
	if err != nil {
		return "", fmt.Errorf("%s: %w: %w", op, e.ErrUpload, err)
	}
	return url, nil
}
