package model

import (
	"context"
	"io"
)

// Storage keeps opaque objects, used to archive undelivered mail.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
}
