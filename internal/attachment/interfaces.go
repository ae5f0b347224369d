package attachment

import (
	"context"
	"io"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/attachment_mock.go -package=mock

// Store uploads a named file and returns its public URL.
type Store interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
}
