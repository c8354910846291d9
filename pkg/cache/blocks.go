package cache

import (
	"context"
	"time"

	"github.com/matzehuels/styletower/pkg/errors"
	"github.com/matzehuels/styletower/pkg/extract"
	"github.com/matzehuels/styletower/pkg/hasher"
	"github.com/matzehuels/styletower/pkg/observability"
)

const (
	keyTypeBlock = "block"
	keyTypePage  = "page"
)

// StoreBlocks writes the CSS of each block under its token. Blocks sharing a
// token are written once.
func StoreBlocks(ctx context.Context, c Cache, k Keyer, blocks []extract.Block, ttl time.Duration) error {
	seen := make(map[string]struct{}, len(blocks))
	for _, b := range blocks {
		if _, ok := seen[b.Token]; ok {
			continue
		}
		seen[b.Token] = struct{}{}
		if err := c.Set(ctx, k.BlockKey(b.Token), []byte(b.CSS), ttl); err != nil {
			return err
		}
		observability.Cache().OnCacheSet(ctx, keyTypeBlock, len(b.CSS))
	}
	return nil
}

// LoadBlock returns the CSS stored under token. It fails with
// INVALID_TOKEN for a malformed token and with ErrNotFound on a miss.
func LoadBlock(ctx context.Context, c Cache, k Keyer, token string) (string, error) {
	if !hasher.Valid(token) {
		return "", errors.New(errors.ErrCodeInvalidToken, "malformed block token %q", token)
	}
	data, ok, err := c.Get(ctx, k.BlockKey(token))
	if err != nil {
		return "", err
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, keyTypeBlock)
		return "", ErrNotFound
	}
	observability.Cache().OnCacheHit(ctx, keyTypeBlock)
	return string(data), nil
}

// StorePage caches a rendered page.
func StorePage(ctx context.Context, c Cache, k Keyer, component string, props map[string]string, page []byte, ttl time.Duration) error {
	if err := c.Set(ctx, k.PageKey(component, props), page, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyTypePage, len(page))
	return nil
}

// LoadPage returns a cached page and whether it was present.
func LoadPage(ctx context.Context, c Cache, k Keyer, component string, props map[string]string) ([]byte, bool, error) {
	data, ok, err := c.Get(ctx, k.PageKey(component, props))
	if err != nil {
		return nil, false, err
	}
	if ok {
		observability.Cache().OnCacheHit(ctx, keyTypePage)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyTypePage)
	}
	return data, ok, nil
}
