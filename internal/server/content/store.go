package content

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/itsghostchannel/my-x402-articles-sub001/internal/common"
	"github.com/itsghostchannel/my-x402-articles-sub001/internal/logging"
)

const sourceExtension = ".md"

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidID reports whether id matches the identifier grammar. Anything else
// is treated as absent, never as an error, so lookups cannot probe the
// filesystem.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Store caches parsed articles from a Source. Snapshots are replaced as a
// unit by scans; any number of readers may read concurrently.
type Store struct {
	source      Source
	ttl         time.Duration
	concurrency int
	logger      logging.Logger

	// now is swappable for TTL tests.
	now func() time.Time

	mu       sync.RWMutex
	items    map[string]cacheEntry
	lastScan time.Time
}

func NewStore(source Source, ttl time.Duration, concurrency int, logger logging.Logger) *Store {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Store{
		source:      source,
		ttl:         ttl,
		concurrency: concurrency,
		logger:      logger.With("module", "content_store"),
		now:         time.Now,
	}
}

// Scan enumerates the source and rebuilds the snapshot. A single file's
// processing failure drops that file with a diagnostic; the scan still
// succeeds for the rest. An enumeration failure or a cancelled context
// fails the batch as a unit and leaves the previous snapshot serving.
func (s *Store) Scan(ctx context.Context) error {
	names, err := s.source.List(ctx)
	if err != nil {
		return err
	}

	var candidates []string
	for _, name := range names {
		if !strings.HasSuffix(name, sourceExtension) {
			continue
		}
		if unsafeName(name) {
			s.logger.Warn(ctx, "skipping unsafe file name", "file", name)
			continue
		}
		candidates = append(candidates, name)
	}

	entries := make([]*cacheEntry, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, name := range candidates {
		i, name := i, name
		g.Go(func() error {
			entry, err := s.process(gctx, name)
			if err != nil {
				// Cancellation aborts the whole batch; anything else is
				// contained so one bad file never fails the scan.
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn(gctx, "skipping article", "file", name, "error", err.Error())
				return nil
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorScanFailed, err)
	}

	items := make(map[string]cacheEntry, len(entries))
	for _, e := range entries {
		if e != nil {
			items[e.article.ID] = *e
		}
	}

	s.mu.Lock()
	s.items = items
	s.lastScan = s.now()
	s.mu.Unlock()

	s.logger.Debug(ctx, "scan complete", "articles", len(items))
	return nil
}

func (s *Store) process(ctx context.Context, name string) (*cacheEntry, error) {
	id := strings.TrimSuffix(name, sourceExtension)
	if !ValidID(id) {
		return nil, fmt.Errorf("%w: invalid identifier", common.ErrorValidation)
	}

	path, err := s.source.Resolve(name)
	if err != nil {
		return nil, err
	}

	raw, err := s.source.Read(ctx, name)
	if err != nil {
		return nil, err
	}

	meta, body, err := splitDocument(string(raw))
	if err != nil {
		return nil, err
	}

	clean, ok := Sanitize(body)
	if !ok {
		return nil, fmt.Errorf("%w: empty after sanitization", common.ErrorValidation)
	}

	article := Article{
		ID:             id,
		Title:          meta.Title,
		Author:         meta.Author,
		Date:           meta.Date,
		Tags:           meta.Tags,
		Gated:          true,
		CurrencySymbol: meta.CurrencySymbol,
		CurrencyName:   meta.CurrencyName,
		Excerpt:        meta.Excerpt,
	}
	if article.Title == "" {
		article.Title = id
	}
	if meta.Gated != nil {
		article.Gated = *meta.Gated
	}
	if meta.Price != nil {
		p := decimal.NewFromFloat(*meta.Price)
		if p.IsNegative() {
			return nil, fmt.Errorf("%w: negative price", common.ErrorValidation)
		}
		article.Price = &p
	}
	if article.Excerpt == "" {
		article.Excerpt = Excerpt(clean, DefaultExcerptLength)
	}
	article.WordCount = countWords(clean)
	article.ReadTimeMinutes = readTimeMinutes(article.WordCount)

	return &cacheEntry{
		article:  article,
		fileName: name,
		path:     path,
		cachedAt: s.now().UnixNano(),
	}, nil
}

// refresh rescans when the snapshot is missing or older than the TTL.
// Scan failures keep the previous snapshot serving; the error is surfaced
// only when there is nothing to serve at all.
func (s *Store) refresh(ctx context.Context) error {
	s.mu.RLock()
	stale := s.items == nil || s.now().Sub(s.lastScan) > s.ttl
	empty := s.items == nil
	s.mu.RUnlock()

	if !stale {
		return nil
	}

	if err := s.Scan(ctx); err != nil {
		s.logger.Error(ctx, "content scan failed", "error", err.Error())
		if empty {
			return err
		}
	}
	return nil
}

// List returns article summaries (no bodies) sorted by date descending,
// then by identifier.
func (s *Store) List(ctx context.Context) ([]Article, error) {
	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]Article, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e.article)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Get returns one article with a freshly loaded body and rendered HTML.
// The cached metadata is trusted for the TTL window, but the body is re-read
// per call so file edits show up without a full rescan. A cache miss
// triggers one rescan before reporting absence.
func (s *Store) Get(ctx context.Context, id string) (*Article, error) {
	if !ValidID(id) {
		return nil, common.ErrorNotFound
	}

	if err := s.refresh(ctx); err != nil {
		return nil, err
	}

	entry, ok := s.lookup(id)
	if !ok {
		if err := s.Scan(ctx); err != nil {
			return nil, common.ErrorNotFound
		}
		if entry, ok = s.lookup(id); !ok {
			return nil, common.ErrorNotFound
		}
	}

	raw, err := s.source.Read(ctx, entry.fileName)
	if err != nil {
		s.logger.Warn(ctx, "article body unreadable", "id", id, "error", err.Error())
		return nil, common.ErrorNotFound
	}

	_, body, err := splitDocument(string(raw))
	if err != nil {
		s.logger.Warn(ctx, "article body unparsable", "id", id, "error", err.Error())
		return nil, common.ErrorNotFound
	}

	clean, ok := Sanitize(body)
	if !ok {
		return nil, common.ErrorNotFound
	}

	article := entry.article
	article.Body = clean
	article.HTML = Render(clean)
	return &article, nil
}

func (s *Store) lookup(id string) (cacheEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[id]
	return e, ok
}
