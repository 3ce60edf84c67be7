package dataset

import (
	"context"

	"github.com/spendinglol/spending/pkg/errors"
	"github.com/spendinglol/spending/pkg/hierarchy"
)

// Source returns the spending response for one level.
type Source interface {
	Response(ctx context.Context, key hierarchy.Key) (hierarchy.Response, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context, key hierarchy.Key) (hierarchy.Response, error)

func (f SourceFunc) Response(ctx context.Context, key hierarchy.Key) (hierarchy.Response, error) {
	return f(ctx, key)
}

// Chain returns a Source that asks each source in turn and returns the first
// response. A source reporting the level as missing passes to the next one;
// any other error stops the chain.
func Chain(sources ...Source) Source {
	return SourceFunc(func(ctx context.Context, key hierarchy.Key) (hierarchy.Response, error) {
		var last error = errors.New(errors.ErrCodeLevelNotFound, "no source for %s", key)
		for _, s := range sources {
			resp, err := s.Response(ctx, key)
			if err == nil {
				return resp, nil
			}
			if !IsNotFound(err) {
				return hierarchy.Response{}, err
			}
			last = err
		}
		return hierarchy.Response{}, last
	})
}

// IsNotFound reports whether err means the level has no data.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrCodeLevelNotFound) || errors.Is(err, errors.ErrCodeNotFound)
}
