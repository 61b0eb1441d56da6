package media

import (
	"context"
	"io"
	"path"

	"github.com/google/uuid"
)

// ObjectStore persists a blob and returns where it can be fetched.
type ObjectStore interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Uploader normalizes images and stores them under a folder with a random name.
type Uploader struct {
	processor *Processor
	store     ObjectStore
}

// NewUploader builds an Uploader.
func NewUploader(processor *Processor, store ObjectStore) *Uploader {
	return &Uploader{processor: processor, store: store}
}

// Put converts src to webp and uploads it to folder/<uuid>.webp.
func (u *Uploader) Put(ctx context.Context, folder string, src io.Reader) (string, error) {
	data, err := u.processor.Normalize(src)
	if err != nil {
		return "", err
	}
	key := path.Join(folder, uuid.NewString()+".webp")
	return u.store.PutObject(ctx, key, data, ContentType)
}
