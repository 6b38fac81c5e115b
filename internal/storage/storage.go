// Package storage keeps uploaded files on local disk or in S3 and returns
// the URL they are served from.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid storage key")

type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a URL returned by Put back to its key. ok is false for
	// URLs this store does not own.
	KeyFromURL(url string) (key string, ok bool)
}

// NewKey builds a collision free key under folder keeping the extension of
// the original file name.
func NewKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}

func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if key == "" || key == "." || strings.HasPrefix(key, "..") {
		return "", ErrInvalidKey
	}
	return key, nil
}
