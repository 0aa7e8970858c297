package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"gas-complaint-server/config"
	"gas-complaint-server/models"
)

const maxAttachmentSize = 5 * 1024 * 1024 // 5MB

// UploadService turns an uploaded file into an immutable attachment. With
// Cloudinary configured the content is hosted and the attachment carries the
// hosted URL; otherwise the bytes are inlined as a data: URL, mirroring the
// local persistence fallback.
type UploadService struct {
	cld *cloudinary.Cloudinary
}

func NewUploadService(cfg *config.Config) (*UploadService, error) {
	s := &UploadService{}
	if cfg.Storage.CloudinaryURL != "" {
		cld, err := cloudinary.NewFromURL(cfg.Storage.CloudinaryURL)
		if err != nil {
			return nil, fmt.Errorf("cloudinary init: %w", err)
		}
		s.cld = cld
	}
	return s, nil
}

// validateAttachmentFile checks extension and size (<= 5MB).
func validateAttachmentFile(h *multipart.FileHeader) error {
	if h == nil || h.Size <= 0 {
		return validationErrorf("empty file")
	}
	if h.Size > maxAttachmentSize {
		return validationErrorf("file %q exceeds the 5MB limit", h.Filename)
	}
	switch strings.ToLower(filepath.Ext(h.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".pdf":
		return nil
	default:
		return validationErrorf("file type of %q is not allowed", h.Filename)
	}
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Process uploads or inlines the file and returns the attachment record.
func (s *UploadService) Process(ctx context.Context, header *multipart.FileHeader) (*models.Attachment, error) {
	if err := validateAttachmentFile(header); err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	id := uuid.NewString()

	if s.cld != nil {
		result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
			Folder:   "gas-complaints",
			PublicID: id,
		})
		if err != nil {
			return nil, fmt.Errorf("cloudinary upload: %w", err)
		}
		return &models.Attachment{ID: id, Name: header.Filename, URL: result.SecureURL}, nil
	}

	raw, err := io.ReadAll(io.LimitReader(file, maxAttachmentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	url := fmt.Sprintf("data:%s;base64,%s", contentTypeFor(header.Filename),
		base64.StdEncoding.EncodeToString(raw))
	return &models.Attachment{ID: id, Name: header.Filename, URL: url}, nil
}
