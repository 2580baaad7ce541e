// Package assetcache is the offline asset cache: a bbolt database holding
// fetched documents keyed by URL, served cache-first.
package assetcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Name is the cache's versioned name. Bumping it starts a fresh cache.
const Name = "love-story-v1"

// ErrNotCached is returned by Lookup for URLs not in the cache.
var ErrNotCached = errors.New("not cached")

const userAgent = "lovestory-cache"

// Entry is one cached response.
type Entry struct {
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	FetchedAt   time.Time `json:"fetched_at"`
	Body        []byte    `json:"body"`
}

// Cache stores responses in a bbolt bucket named after Name.
type Cache struct {
	db     *bbolt.DB
	bucket []byte
	client *http.Client
	base   *url.URL
	local  map[string][]byte
	limit  int
	log    *zap.Logger
}

// Option configures Open.
type Option func(*Cache)

// WithHTTPClient sets the client used for network fetches.
func WithHTTPClient(c *http.Client) Option { return func(ca *Cache) { ca.client = c } }

// WithBaseURL resolves relative URLs such as "/" against base.
func WithBaseURL(base *url.URL) Option { return func(ca *Cache) { ca.base = base } }

// WithLocal serves a relative path from memory when no base URL is set.
// The card's own documents are registered this way.
func WithLocal(path string, body []byte) Option {
	return func(ca *Cache) { ca.local[path] = body }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option { return func(ca *Cache) { ca.log = l } }

// WithConcurrency bounds parallel fetches in Precache.
func WithConcurrency(n int) Option { return func(ca *Cache) { ca.limit = n } }

// Open opens or creates the cache database in dir.
func Open(dir string, opts ...Option) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create cache dir: %w", err)
	}
	db, err := bbolt.Open(filepath.Join(dir, Name+".db"), 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("could not open cache database: %w", err)
	}

	c := &Cache{
		db:     db,
		bucket: []byte(Name),
		client: &http.Client{Timeout: 15 * time.Second},
		local:  map[string][]byte{},
		limit:  4,
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(c.bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create cache bucket: %w", err)
	}
	return c, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Precache fetches every URL concurrently and stores the results. It fails
// if any fetch fails, but entries fetched before the failure stay cached.
func (c *Cache) Precache(ctx context.Context, urls []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit)
	for _, u := range urls {
		u := u
		g.Go(func() error {
			e, err := c.fetch(ctx, u)
			if err != nil {
				return err
			}
			if err := c.put(e); err != nil {
				return err
			}
			c.log.Debug("precached", zap.String("url", u), zap.Int("bytes", len(e.Body)))
			return nil
		})
	}
	return g.Wait()
}

// Get serves rawURL from the cache, falling back to the network and storing
// what it fetched.
func (c *Cache) Get(ctx context.Context, rawURL string) ([]byte, error) {
	e, err := c.Lookup(rawURL)
	if err == nil {
		return e.Body, nil
	}
	if !errors.Is(err, ErrNotCached) {
		return nil, err
	}

	e, err = c.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if err := c.put(e); err != nil {
		c.log.Warn("cache store failed", zap.String("url", rawURL), zap.Error(err))
	}
	return e.Body, nil
}

// Lookup returns the cached entry for rawURL.
func (c *Cache) Lookup(rawURL string) (Entry, error) {
	var e Entry
	err := c.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(c.bucket).Get([]byte(rawURL))
		if v == nil {
			return fmt.Errorf("%s: %w", rawURL, ErrNotCached)
		}
		if err := json.Unmarshal(v, &e); err != nil {
			return fmt.Errorf("error deserializing cache entry: %w", err)
		}
		return nil
	})
	return e, err
}

// Keys lists cached URLs in key order.
func (c *Cache) Keys() ([]string, error) {
	var keys []string
	err := c.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(c.bucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

func (c *Cache) put(e Entry) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("error serializing cache entry: %w", err)
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(c.bucket).Put([]byte(e.URL), value)
	})
}

func (c *Cache) fetch(ctx context.Context, rawURL string) (Entry, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Entry{}, fmt.Errorf("parse %q: %w", rawURL, err)
	}
	if !u.IsAbs() {
		if c.base == nil {
			body, ok := c.local[rawURL]
			if !ok {
				return Entry{}, fmt.Errorf("no origin for relative url %q", rawURL)
			}
			return Entry{URL: rawURL, ContentType: contentType(rawURL), FetchedAt: time.Now(), Body: body}, nil
		}
		u = c.base.ResolveReference(u)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Entry{}, err
	}
	req.Header.Set("User-Agent", userAgent)
	res, err := c.client.Do(req)
	if err != nil {
		return Entry{}, fmt.Errorf("download %s: %w", u, err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return Entry{}, fmt.Errorf("download failed %s: %s", u, res.Status)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Entry{}, fmt.Errorf("read %s: %w", u, err)
	}
	return Entry{
		URL:         rawURL,
		ContentType: res.Header.Get("Content-Type"),
		FetchedAt:   time.Now(),
		Body:        body,
	}, nil
}

func contentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".json"):
		return "application/json"
	case strings.HasSuffix(path, ".toml"):
		return "application/toml"
	default:
		return "text/plain; charset=utf-8"
	}
}
