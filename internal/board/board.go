package board

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"strings"
	"time"

	"github.com/careerdeck/careerdeck/internal/listing"
	"github.com/careerdeck/careerdeck/internal/searchapi"

	"github.com/allegro/bigcache/v3"
	"github.com/dustin/go-humanize"
)

// fetchPerPage bounds the upstream fetch that feeds the local pipeline.
const fetchPerPage = 200

type Fetcher interface {
	SearchJobs(ctx context.Context, prefs searchapi.Preferences, page, perPage int) (searchapi.JobSearchResult, error)
}

// Board is the job board page controller. It owns the single fetched
// source list for one user's preferences; every derived view is recomputed
// from that list, which is never partially mutated. A Board belongs to a
// single request and is not shared between goroutines.
type Board struct {
	fetcher Fetcher
	cache   *bigcache.BigCache
	prefs   searchapi.Preferences

	source    []listing.Posting
	fetchedAt time.Time

	searchText  string
	jobType     string
	sortKey     listing.SortKey
	currentPage int
}

func New(fetcher Fetcher, cache *bigcache.BigCache, prefs searchapi.Preferences) *Board {
	return &Board{
		fetcher:     fetcher,
		cache:       cache,
		prefs:       prefs,
		jobType:     listing.JobTypeAll,
		sortKey:     listing.SortByMatch,
		currentPage: 1,
	}
}

// Load populates the source list, serving a cached fetch for these
// preferences when one exists and hitting the backend otherwise.
func (b *Board) Load(ctx context.Context) error {
	if b.cache != nil {
		if cached, err := b.cache.Get(b.cacheKey()); err == nil {
			var entry cacheEntry
			dec := gob.NewDecoder(bytes.NewReader(cached))
			if err := dec.Decode(&entry); err == nil {
				b.source = entry.Postings
				b.fetchedAt = entry.FetchedAt
				return nil
			}
		}
	}
	return b.Refresh(ctx)
}

// Refresh re-fetches the source list from the backend, bypassing the
// cache. On failure the previously held list stays in place and the error
// is surfaced as a non-fatal notification by the caller.
func (b *Board) Refresh(ctx context.Context) error {
	res, err := b.fetcher.SearchJobs(ctx, b.prefs, 1, fetchPerPage)
	if err != nil {
		return err
	}
	b.source = res.Postings
	b.fetchedAt = time.Now().UTC()
	if b.cache != nil {
		buf := &bytes.Buffer{}
		enc := gob.NewEncoder(buf)
		if err := enc.Encode(cacheEntry{Postings: b.source, FetchedAt: b.fetchedAt}); err == nil {
			b.cache.Set(b.cacheKey(), buf.Bytes())
		}
	}
	return nil
}

// SetSearchText updates the free-text filter. Changing it snaps the view
// back to the first page.
func (b *Board) SetSearchText(s string) {
	if s == b.searchText {
		return
	}
	b.searchText = s
	b.currentPage = 1
}

// SetJobType updates the job type selector. Values outside the known
// enumeration fall back to JobTypeAll instead of filtering everything out.
func (b *Board) SetJobType(t string) {
	if !knownJobType(t) {
		t = listing.JobTypeAll
	}
	if t == b.jobType {
		return
	}
	b.jobType = t
	b.currentPage = 1
}

func knownJobType(t string) bool {
	if t == listing.JobTypeAll {
		return true
	}
	for _, known := range listing.KnownJobTypes() {
		if t == known {
			return true
		}
	}
	return false
}

func (b *Board) SetSortKey(k listing.SortKey) {
	if !listing.ValidSortKey(k) || k == b.sortKey {
		return
	}
	b.sortKey = k
	b.currentPage = 1
}

func (b *Board) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	b.currentPage = p
}

// Source returns a copy of the fetched set, unfiltered and unsorted.
func (b *Board) Source() []listing.Posting {
	out := make([]listing.Posting, len(b.source))
	copy(out, b.source)
	return out
}

type View struct {
	Postings           []listing.Posting `json:"jobs"`
	CurrentPage        int               `json:"currentPage"`
	TotalPages         int               `json:"totalPages"`
	TotalMatches       int               `json:"totalMatches"`
	SearchText         string            `json:"searchText,omitempty"`
	JobType            string            `json:"jobType"`
	SortKey            listing.SortKey   `json:"sortKey"`
	FetchedAt          time.Time         `json:"fetchedAt"`
	FetchedAtHumanized string            `json:"fetchedAtHumanized"`
}

// View recomputes filter, sort and pagination over the source list. The
// pipeline is pure so calling View repeatedly with unchanged inputs yields
// the same result.
func (b *Board) View() View {
	filtered := listing.Filter(b.source, b.searchText, b.jobType)
	sorted := listing.Sort(filtered, b.sortKey)
	page := listing.Page(sorted, b.currentPage, listing.PostingsPerPage)
	return View{
		Postings:           page,
		CurrentPage:        b.currentPage,
		TotalPages:         listing.TotalPages(len(sorted), listing.PostingsPerPage),
		TotalMatches:       len(sorted),
		SearchText:         b.searchText,
		JobType:            b.jobType,
		SortKey:            b.sortKey,
		FetchedAt:          b.fetchedAt,
		FetchedAtHumanized: humanize.Time(b.fetchedAt),
	}
}

type cacheEntry struct {
	Postings  []listing.Posting
	FetchedAt time.Time
}

func (b *Board) cacheKey() string {
	return fmt.Sprintf("board:%s|%s|%s",
		strings.Join(b.prefs.JobTypes, ","),
		strings.Join(b.prefs.Industries, ","),
		strings.Join(b.prefs.Locations, ","),
	)
}
