package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/alumnihub/internal/app/models/dto"
	"github.com/yigit/alumnihub/internal/pkg/apperrors"
	"github.com/yigit/alumnihub/internal/pkg/filestorage"
	"github.com/yigit/alumnihub/internal/pkg/helpers"
)

// sniffLen is the number of leading bytes inspected to detect the content type
const sniffLen = 3072

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadService stores user-supplied images
type UploadService struct {
	storage  filestorage.FileStorage
	maxBytes int64
	logger   zerolog.Logger
}

// NewUploadService creates a new UploadService accepting files up to maxBytes
func NewUploadService(storage filestorage.FileStorage, maxBytes int64, logger zerolog.Logger) *UploadService {
	return &UploadService{storage: storage, maxBytes: maxBytes, logger: logger}
}

// MaxBytes is the largest file UploadImage accepts
func (s *UploadService) MaxBytes() int64 {
	return s.maxBytes
}

// UploadImage validates and stores an image below folder and returns its
// public URL. The content type is sniffed from the bytes, never trusted
// from the client.
func (s *UploadService) UploadImage(ctx context.Context, userID int64, folder, filename string, size int64, r io.Reader) (*dto.UploadResponse, error) {
	if size > s.maxBytes {
		return nil, apperrors.NewCustomError(apperrors.ErrFileTooLarge,
			fmt.Sprintf("File exceeds the %d MB limit", s.maxBytes>>20))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]
	if n == 0 {
		return nil, apperrors.NewBadRequestError("File is empty")
	}

	mtype := mimetype.Detect(head)
	if !allowedImageTypes[mtype.String()] {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidFileType, "Only JPEG, PNG, GIF and WebP images are allowed")
	}

	key := objectKey(folder, filename, mtype.Extension())
	body := io.LimitReader(io.MultiReader(bytes.NewReader(head), r), s.maxBytes+1)

	url, err := s.storage.Save(ctx, key, body, mtype.String())
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to store upload")
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	s.logger.Info().
		Int64("userID", userID).
		Str("key", key).
		Str("contentType", mtype.String()).
		Msg("File uploaded")
	return &dto.UploadResponse{URL: url}, nil
}

// objectKey builds "<folder>/<uuid>-<slug><ext>"
func objectKey(folder, filename, ext string) string {
	base := strings.TrimSuffix(path.Base(strings.ReplaceAll(filename, "\\", "/")), path.Ext(filename))
	slug := helpers.Slugify(base)
	if slug == "" {
		slug = "file"
	}

	folder = helpers.Slugify(folder)
	if folder == "" {
		folder = "misc"
	}
	return folder + "/" + uuid.NewString() + "-" + slug + ext
}
