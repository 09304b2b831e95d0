package syncer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"vistopia-archiver/internal/store"
	"vistopia-archiver/internal/vistopia"
)

// fakeAPI is an in-memory stand-in for the remote content API.
type fakeAPI struct {
	mu sync.Mutex

	pages   map[int]vistopia.ContentPage
	pageErr map[int]error

	lists   map[string][]vistopia.ArticleSummary
	listErr map[string]error

	details   map[string][]vistopia.Part
	detailErr map[string]error

	shows   map[string]json.RawMessage
	showErr map[string]error

	detailCalls map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pages:       make(map[int]vistopia.ContentPage),
		pageErr:     make(map[int]error),
		lists:       make(map[string][]vistopia.ArticleSummary),
		listErr:     make(map[string]error),
		details:     make(map[string][]vistopia.Part),
		detailErr:   make(map[string]error),
		shows:       make(map[string]json.RawMessage),
		showErr:     make(map[string]error),
		detailCalls: make(map[string]int),
	}
}

func (f *fakeAPI) ContentPage(_ context.Context, page, _ int) (vistopia.ContentPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.pageErr[page]; err != nil {
		return vistopia.ContentPage{}, err
	}
	return f.pages[page], nil
}

func (f *fakeAPI) ArticleList(_ context.Context, contentID string, _ int) ([]vistopia.ArticleSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listErr[contentID]; err != nil {
		return nil, err
	}
	return f.lists[contentID], nil
}

func (f *fakeAPI) SectionDetail(_ context.Context, articleID string) ([]vistopia.Part, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailCalls[articleID]++
	if err := f.detailErr[articleID]; err != nil {
		return nil, err
	}
	return f.details[articleID], nil
}

func (f *fakeAPI) ContentShow(_ context.Context, contentID string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.showErr[contentID]; err != nil {
		return nil, err
	}
	return f.shows[contentID], nil
}

func (f *fakeAPI) detailCallCount(articleID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.detailCalls[articleID]
}

// fakeStore is an in-memory stand-in for the document store.
type fakeStore struct {
	mu sync.Mutex

	contents map[string]store.ContentRecord
	parts    []store.PartRecord
	shows    []store.ShowRecord

	watermark     time.Time
	hasWatermark  bool
	setWatermarks []time.Time

	upsertContentErr error
	showUpsertErr    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{contents: make(map[string]store.ContentRecord)}
}

func (f *fakeStore) UpsertContent(_ context.Context, rec store.ContentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertContentErr != nil {
		return f.upsertContentErr
	}
	f.contents[rec.ContentID] = rec
	return nil
}

func (f *fakeStore) ContentRefs(_ context.Context) ([]store.ContentRef, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	refs := make([]store.ContentRef, 0, len(f.contents))
	for _, rec := range f.contents {
		refs = append(refs, store.ContentRef{
			ContentID:         rec.ContentID,
			ArticleUpdateTime: rec.ArticleUpdateTime,
		})
	}
	return refs, nil
}

func (f *fakeStore) ContentIDs(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.contents))
	for id := range f.contents {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStore) ArticleExists(_ context.Context, articleID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.parts {
		if p.ArticleID == articleID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) UpsertPart(_ context.Context, rec store.PartRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.parts {
		if p.ArticleID == rec.ArticleID && p.PartID == rec.PartID {
			f.parts[i] = rec
			return nil
		}
	}
	f.parts = append(f.parts, rec)
	return nil
}

func (f *fakeStore) Watermark(_ context.Context, _ string) (time.Time, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hasWatermark {
		return time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
	return f.watermark, nil
}

func (f *fakeStore) SetWatermark(_ context.Context, _ string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watermark = at
	f.hasWatermark = true
	f.setWatermarks = append(f.setWatermarks, at)
	return nil
}

func (f *fakeStore) UpsertContentShow(_ context.Context, rec store.ShowRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.showUpsertErr != nil {
		return f.showUpsertErr
	}
	f.shows = append(f.shows, rec)
	return nil
}

func (f *fakeStore) partCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.parts)
}
