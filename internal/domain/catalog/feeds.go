// internal/domain/catalog/feeds.go
package catalog

import (
	"sync"

	"github.com/sirupsen/logrus"
)

type feedKey struct {
	session string
	kind    Kind
}

// Feeds keeps one Fetcher per session and collection
type Feeds struct {
	source Querier
	logger *logrus.Logger

	mu    sync.Mutex
	feeds map[feedKey]*Fetcher
}

// NewFeeds creates an empty feed registry
func NewFeeds(source Querier, logger *logrus.Logger) *Feeds {
	return &Feeds{
		source: source,
		logger: logger,
		feeds:  make(map[feedKey]*Fetcher),
	}
}

// Get returns the session's fetcher for kind, creating it on first use
func (fs *Feeds) Get(sessionID string, kind Kind) *Fetcher {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	key := feedKey{session: sessionID, kind: kind}
	if f, ok := fs.feeds[key]; ok {
		return f
	}
	f := NewFetcher(kind, fs.source, fs.logger)
	fs.feeds[key] = f
	return f
}

// Drop closes and forgets every fetcher of the session
func (fs *Feeds) Drop(sessionID string) {
	fs.mu.Lock()
	var dropped []*Fetcher
	for key, f := range fs.feeds {
		if key.session == sessionID {
			dropped = append(dropped, f)
			delete(fs.feeds, key)
		}
	}
	fs.mu.Unlock()

	for _, f := range dropped {
		f.Close()
	}
}

// Len returns the number of live fetchers
func (fs *Feeds) Len() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.feeds)
}

// Close closes every fetcher
func (fs *Feeds) Close() {
	fs.mu.Lock()
	all := fs.feeds
	fs.feeds = make(map[feedKey]*Fetcher)
	fs.mu.Unlock()

	for _, f := range all {
		f.Close()
	}
}
