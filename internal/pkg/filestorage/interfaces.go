package filestorage

import (
	"context"
	"io"
)

// FileStorage stores uploaded blobs and returns a publicly reachable URL
type FileStorage interface {
	// Save writes the content of r under key and returns its public URL
	Save(ctx context.Context, key string, r io.Reader, contentType string) (string, error)

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error
}

// Config selects and configures a storage driver
type Config struct {
	Driver    string // "local" or "s3"
	LocalPath string
	Prefix    string
	BaseURL   string // public base URL of the API, used by the local driver
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
}

// New builds the storage driver named by cfg.Driver
func New(cfg Config) (FileStorage, error) {
	if cfg.Driver == "s3" {
		return NewS3Storage(cfg)
	}
	return NewLocalStorage(cfg.LocalPath, cfg.BaseURL+"/"+cfg.Prefix)
}
