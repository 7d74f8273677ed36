// Package persistence stores and retrieves the single ContentDocument,
// tolerating an unreliable remote host. Tiers, in descending priority
// on load: remote, local cache, hard-coded empty default. Saves degrade
// the other way: remote first, cache as the guaranteed fallback.
//
// There is no optimistic concurrency: last writer wins, with no
// versioning or merge of concurrent edits from different clients. The
// site has a single logical admin, so this is accepted.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/EMNTV/excellencemedianumerique/internal/cache"
	"github.com/EMNTV/excellencemedianumerique/internal/common"
	"github.com/EMNTV/excellencemedianumerique/internal/logging"
	"github.com/EMNTV/excellencemedianumerique/internal/media"
)

// Tier tags where a save landed.
type Tier string

const (
	TierRemote Tier = "remote"
	TierLocal  Tier = "local"
)

// Source tags where a load came from.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceCache   Source = "cache"
	SourceDefault Source = "default"
)

// SaveResult reports the tier a save landed on and, for remote saves,
// the durable document URL.
type SaveResult struct {
	Tier Tier
	URL  string
}

// LoadResult carries the loaded document and its source tier. Doc is
// always usable: fully populated, never nil.
type LoadResult struct {
	Doc    *media.ContentDocument
	Source Source
}

// Persister is what the store persists through.
type Persister interface {
	Save(ctx context.Context, doc *media.ContentDocument) (SaveResult, error)
	Load(ctx context.Context) (LoadResult, error)
}

// DocumentPersistence implements Persister over a RemoteHost and a
// local cache.
type DocumentPersistence struct {
	remote RemoteHost
	cache  cache.Cache
	logger logging.Logger
}

var _ Persister = (*DocumentPersistence)(nil)

// New wires a DocumentPersistence.
func New(remote RemoteHost, c cache.Cache, logger logging.Logger) *DocumentPersistence {
	return &DocumentPersistence{remote: remote, cache: c, logger: logger.With("component", "persistence")}
}

// Save serializes doc and attempts the remote host first. On remote
// success the cache is refreshed write-through (best effort) and the
// result is tagged remote. On any remote error the serialized form goes
// to the cache only and the result is tagged local; in that path a
// cache write error is the one condition fatal to a save
// (common.ErrCacheWrite).
func (p *DocumentPersistence) Save(ctx context.Context, doc *media.ContentDocument) (SaveResult, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return SaveResult{}, fmt.Errorf("marshal document: %w", err)
	}

	url, remoteErr := p.remote.Put(ctx, data)
	if remoteErr == nil {
		if err := p.writeCache(ctx, data); err != nil {
			// The document is durable remotely; a stale cache only costs a
			// slower load after the next remote outage.
			p.logger.Warn(ctx, "cache refresh after remote save failed", "error", err)
		}
		return SaveResult{Tier: TierRemote, URL: url}, nil
	}

	p.logger.Warn(ctx, "remote save failed, falling back to cache", "error", remoteErr)

	if err := p.writeCache(ctx, data); err != nil {
		return SaveResult{}, fmt.Errorf("%w: %v", common.ErrCacheWrite, err)
	}
	return SaveResult{Tier: TierLocal}, nil
}

// Load attempts a remote read first (cache-busted), refreshing the
// cache on success. On remote failure it falls back to the cached copy,
// and if that is missing or unreadable it synthesizes the empty default
// document, eagerly persisting it remotely (best effort) so subsequent
// loads succeed. Remote and cache failures never surface to the caller;
// the returned document is always usable.
func (p *DocumentPersistence) Load(ctx context.Context) (LoadResult, error) {
	if doc, data, err := p.loadRemote(ctx); err == nil {
		if cerr := p.writeCache(ctx, data); cerr != nil {
			p.logger.Warn(ctx, "cache refresh after remote load failed", "error", cerr)
		}
		return LoadResult{Doc: doc, Source: SourceRemote}, nil
	} else {
		p.logger.Warn(ctx, "remote load failed", "error", err)
	}

	if doc, err := p.loadCache(ctx); err == nil {
		return LoadResult{Doc: doc, Source: SourceCache}, nil
	} else if !errors.Is(err, common.ErrNotFound) {
		p.logger.Warn(ctx, "cache load failed", "error", err)
	}

	doc := media.DefaultDocument()
	if data, err := json.Marshal(doc); err == nil {
		if _, err := p.remote.Put(ctx, data); err != nil {
			p.logger.Debug(ctx, "eager default save failed", "error", err)
		}
		if err := p.writeCache(ctx, data); err != nil {
			p.logger.Warn(ctx, "default cache write failed", "error", err)
		}
	}
	return LoadResult{Doc: doc, Source: SourceDefault}, nil
}

func (p *DocumentPersistence) loadRemote(ctx context.Context) (*media.ContentDocument, []byte, error) {
	data, err := p.remote.Get(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrRemoteUnavailable, err)
	}

	doc := &media.ContentDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}
	doc.Normalize()
	return doc, data, nil
}

func (p *DocumentPersistence) loadCache(ctx context.Context) (*media.ContentDocument, error) {
	data, err := p.cache.Get(ctx, common.DocumentCacheKey)
	if err != nil {
		return nil, fmt.Errorf("cache read: %w", err)
	}
	if data == nil {
		return nil, common.ErrNotFound
	}

	doc := &media.ContentDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("cache decode: %w", err)
	}
	doc.Normalize()
	return doc, nil
}

func (p *DocumentPersistence) writeCache(ctx context.Context, data []byte) error {
	return p.cache.SetMany(ctx, map[string][]byte{
		common.DocumentCacheKey:  data,
		common.LastSavedCacheKey: []byte(media.NowISO()),
	})
}
