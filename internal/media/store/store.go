// Package store maintains the in-memory ContentDocument and provides
// category-scoped CRUD and reorder operations, each persisted as a full
// document write.
//
// The store has two observable states, unloaded and loaded. Every
// operation fails with common.ErrNotLoaded until the first successful
// Load, instead of silently operating on empty data.
//
// Mutations are serialized by an in-process mutex held across the whole
// mutate-then-save sequence, so interleaved admin actions never race on
// the document. Reads serve the last-settled snapshot and may proceed
// while a write is in flight. Concurrent Loads race to completion and
// the last one to resolve wins; that weak consistency is accepted, not
// a bug.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/EMNTV/excellencemedianumerique/internal/common"
	"github.com/EMNTV/excellencemedianumerique/internal/logging"
	"github.com/EMNTV/excellencemedianumerique/internal/media"
	"github.com/EMNTV/excellencemedianumerique/internal/persistence"
)

// PressFields is the caller-supplied part of a new press article.
type PressFields struct {
	Title       string
	Description string
	Image       string
}

// VideoFields is the caller-supplied part of a new video entry.
type VideoFields struct {
	Title string
	URL   string
}

// PressPatch updates selected fields of a press article; nil fields are
// left untouched.
type PressPatch struct {
	Title       *string
	Description *string
	Image       *string
}

// VideoPatch updates selected fields of a video entry; nil fields are
// left untouched.
type VideoPatch struct {
	Title *string
	URL   *string
}

// Stats summarizes the document: per-category record counts plus the
// last update timestamp.
type Stats struct {
	Press       int    `json:"presse"`
	AudioVisual int    `json:"audio"`
	Emissions   int    `json:"emissions"`
	Spots       int    `json:"spots"`
	NoComment   int    `json:"nocomment"`
	LastUpdated string `json:"lastUpdated"`
}

// Store owns the in-memory document and persists every mutation through
// a Persister.
type Store struct {
	persister persistence.Persister
	logger    logging.Logger

	// writeMu serializes mutations end-to-end, including the
	// persistence write.
	writeMu sync.Mutex

	// mu guards the settled snapshot below.
	mu     sync.RWMutex
	doc    *media.ContentDocument
	loaded bool
}

// New builds an unloaded Store. Call Load before any other operation.
func New(p persistence.Persister, logger logging.Logger) *Store {
	return &Store{persister: p, logger: logger.With("component", "store")}
}

// Load fetches the document through the persistence tiers and replaces
// the in-memory state. It never fails on remote or cache trouble; the
// worst case is the empty default document.
func (s *Store) Load(ctx context.Context) (persistence.Source, error) {
	res, err := s.persister.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load document: %w", err)
	}

	s.mu.Lock()
	s.doc = res.Doc
	s.loaded = true
	s.mu.Unlock()

	s.logger.Info(ctx, "document loaded",
		"source", res.Source,
		"press", res.Doc.Count(media.CategoryPress),
		"audiovisuel", res.Doc.Count(media.CategoryAudioVisual),
		"emission", res.Doc.Count(media.CategoryEmission),
		"spot", res.Doc.Count(media.CategorySpot),
		"nocomment", res.Doc.Count(media.CategoryNoComment),
	)
	return res.Source, nil
}

// Document returns a deep copy of the settled document for rendering.
func (s *Store) Document() (*media.ContentDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return nil, common.ErrNotLoaded
	}
	return s.doc.Clone(), nil
}

// Stats is a pure read over the settled snapshot.
func (s *Store) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return Stats{}, common.ErrNotLoaded
	}
	return Stats{
		Press:       len(s.doc.PressData),
		AudioVisual: len(s.doc.AudioVisual),
		Emissions:   len(s.doc.EmissionData),
		Spots:       len(s.doc.SpotData),
		NoComment:   len(s.doc.NoCommentData),
		LastUpdated: s.doc.Metadata.LastUpdated,
	}, nil
}

// AddPress validates fields, stamps id and timestamps, prepends the
// article (newest first) and persists. An empty image falls back to the
// placeholder so the gallery never renders a broken card.
func (s *Store) AddPress(ctx context.Context, fields PressFields) (*media.PressRecord, error) {
	if fields.Title == "" || fields.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", common.ErrValidation)
	}
	if fields.Image == "" {
		fields.Image = common.PlaceholderImageURL
	}

	now := media.NowISO()
	rec := media.PressRecord{
		ID:           media.NewID(media.CategoryPress),
		Title:        fields.Title,
		Description:  fields.Description,
		Image:        fields.Image,
		DateAdded:    now,
		LastModified: now,
	}

	err := s.mutate(ctx, func(doc *media.ContentDocument) error {
		doc.PressData = append([]media.PressRecord{rec}, doc.PressData...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// AddVideo validates fields, stamps id and timestamps, prepends the
// video to its category (newest first) and persists. The category must
// be one of the four video categories.
func (s *Store) AddVideo(ctx context.Context, cat media.Category, fields VideoFields) (*media.VideoRecord, error) {
	if !cat.IsVideo() {
		return nil, fmt.Errorf("%w: %s is not a video category", common.ErrValidation, cat)
	}
	if fields.Title == "" || fields.URL == "" {
		return nil, fmt.Errorf("%w: title and url are required", common.ErrValidation)
	}

	now := media.NowISO()
	rec := media.VideoRecord{
		ID:           media.NewID(cat),
		Title:        fields.Title,
		URL:          fields.URL,
		DateAdded:    now,
		LastModified: now,
	}

	err := s.mutate(ctx, func(doc *media.ContentDocument) error {
		doc.SetVideos(cat, append([]media.VideoRecord{rec}, doc.Videos(cat)...))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdatePress merges patch over the article with the given id,
// refreshes lastModified and persists. Returns common.ErrNotFound when
// the id is absent, leaving the document unchanged.
func (s *Store) UpdatePress(ctx context.Context, id string, patch PressPatch) (*media.PressRecord, error) {
	var updated media.PressRecord

	err := s.mutate(ctx, func(doc *media.ContentDocument) error {
		for i := range doc.PressData {
			if doc.PressData[i].ID != id {
				continue
			}
			if patch.Title != nil {
				doc.PressData[i].Title = *patch.Title
			}
			if patch.Description != nil {
				doc.PressData[i].Description = *patch.Description
			}
			if patch.Image != nil {
				doc.PressData[i].Image = *patch.Image
			}
			doc.PressData[i].LastModified = media.NowISO()
			updated = doc.PressData[i]
			return nil
		}
		return fmt.Errorf("press article %s: %w", id, common.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateVideo merges patch over the video with the given id in cat,
// refreshes lastModified and persists. Returns common.ErrNotFound when
// the id is absent from that category.
func (s *Store) UpdateVideo(ctx context.Context, cat media.Category, id string, patch VideoPatch) (*media.VideoRecord, error) {
	if !cat.IsVideo() {
		return nil, fmt.Errorf("%w: %s is not a video category", common.ErrValidation, cat)
	}

	var updated media.VideoRecord

	err := s.mutate(ctx, func(doc *media.ContentDocument) error {
		videos := doc.Videos(cat)
		for i := range videos {
			if videos[i].ID != id {
				continue
			}
			if patch.Title != nil {
				videos[i].Title = *patch.Title
			}
			if patch.URL != nil {
				videos[i].URL = *patch.URL
			}
			videos[i].LastModified = media.NowISO()
			updated = videos[i]
			doc.SetVideos(cat, videos)
			return nil
		}
		return fmt.Errorf("video %s in %s: %w", id, cat, common.ErrNotFound)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the record with the given id from cat and persists.
// Deleting an absent id is a no-op success: deletion is idempotent.
func (s *Store) Delete(ctx context.Context, cat media.Category, id string) error {
	return s.mutate(ctx, func(doc *media.ContentDocument) error {
		if cat == media.CategoryPress {
			kept := doc.PressData[:0:0]
			for _, r := range doc.PressData {
				if r.ID != id {
					kept = append(kept, r)
				}
			}
			doc.PressData = kept
			return nil
		}

		videos := doc.Videos(cat)
		kept := videos[:0:0]
		for _, r := range videos {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		doc.SetVideos(cat, kept)
		return nil
	})
}

// Reorder rebuilds cat's sequence to match orderedIds exactly: ids not
// present in the category are skipped, and existing records whose id is
// absent from orderedIds are dropped. The drop makes reorder an
// implicit filter; the admin dashboard always submits the complete id
// list, so a partial list losing records is a known sharp edge kept for
// compatibility.
func (s *Store) Reorder(ctx context.Context, cat media.Category, orderedIds []string) error {
	return s.mutate(ctx, func(doc *media.ContentDocument) error {
		if cat == media.CategoryPress {
			byID := make(map[string]media.PressRecord, len(doc.PressData))
			for _, r := range doc.PressData {
				byID[r.ID] = r
			}
			reordered := []media.PressRecord{}
			for _, id := range orderedIds {
				if r, ok := byID[id]; ok {
					reordered = append(reordered, r)
				}
			}
			doc.PressData = reordered
			return nil
		}

		videos := doc.Videos(cat)
		byID := make(map[string]media.VideoRecord, len(videos))
		for _, r := range videos {
			byID[r.ID] = r
		}
		reordered := []media.VideoRecord{}
		for _, id := range orderedIds {
			if r, ok := byID[id]; ok {
				reordered = append(reordered, r)
			}
		}
		doc.SetVideos(cat, reordered)
		return nil
	})
}

// Clear resets the document to the empty default and persists it.
func (s *Store) Clear(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if !loaded {
		return common.ErrNotLoaded
	}

	doc := media.DefaultDocument()
	if _, err := s.persister.Save(ctx, doc); err != nil {
		return fmt.Errorf("persist document: %w", err)
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// mutate runs fn on a working copy of the document under the write
// mutex, persists the result and, only then, publishes it as the new
// settled snapshot. A failed persistence write leaves the settled
// state untouched.
func (s *Store) mutate(ctx context.Context, fn func(doc *media.ContentDocument) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	loaded := s.loaded
	var work *media.ContentDocument
	if loaded {
		work = s.doc.Clone()
	}
	s.mu.RUnlock()

	if !loaded {
		return common.ErrNotLoaded
	}

	if err := fn(work); err != nil {
		return err
	}
	work.Metadata.LastUpdated = media.NowISO()

	if _, err := s.persister.Save(ctx, work); err != nil {
		return fmt.Errorf("persist document: %w", err)
	}

	s.mu.Lock()
	s.doc = work
	s.mu.Unlock()
	return nil
}
