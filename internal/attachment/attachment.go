// Package attachment stores transaction receipts in Cloudinary and
// returns their public URL.
package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/logger"
)

var (
	ErrAttachmentsDisabled = errors.New("attachment uploads are not configured")
	ErrUnsupportedFile     = errors.New("only pdf, jpg, jpeg, png and webp files are allowed")
	ErrFileTooLarge        = errors.New("file is too large")
	ErrUploadFailed        = errors.New("error uploading attachment")
)

// AllowedExtensions lists accepted receipt file extensions.
var AllowedExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".webp"}

// CheckFile validates the name and size of an upload against the
// accepted extensions and maxSize.
func CheckFile(name string, size, maxSize int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(AllowedExtensions, ext) {
		return ErrUnsupportedFile
	}
	if maxSize > 0 && size > maxSize {
		return fmt.Errorf("%w (max %d bytes)", ErrFileTooLarge, maxSize)
	}
	return nil
}

// uploadAPI is the subset of the Cloudinary upload API used here.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

type CloudinaryStore struct {
	api    uploadAPI
	folder string
}

// New returns a Cloudinary store, or a disabled store when no Cloudinary
// URL is configured.
func New(cfg config.Attachments, log *logger.Logger) (Store, error) {
	if !cfg.Enabled() {
		log.Warn().Msg("cloudinary is not configured, attachment uploads are disabled")
		return DisabledStore{}, nil
	}

	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("error configuring cloudinary: %w", err)
	}

	return newCloudinaryStore(&cld.Upload, cfg.Folder), nil
}

func newCloudinaryStore(api uploadAPI, folder string) *CloudinaryStore {
	return &CloudinaryStore{api: api, folder: folder}
}

func (s *CloudinaryStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	res, err := s.api.Upload(ctx, r, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "auto",
		Overwrite:    boolPtr(false),
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*CloudinaryStore.Upload").Str("file", name).Msg("cloudinary upload failed")
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	if res.Error.Message != "" {
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, res.Error.Message)
	}

	return res.SecureURL, nil
}

func boolPtr(b bool) *bool {
	return &b
}

// DisabledStore rejects every upload.
type DisabledStore struct{}

func (DisabledStore) Upload(context.Context, string, io.Reader) (string, error) {
	return "", ErrAttachmentsDisabled
}
