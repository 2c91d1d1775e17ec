package sink

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/docsmith/internal/client/api"
	"github.com/dmitrijs2005/docsmith/internal/logging"
)

// Fetcher downloads an authenticated URL from the backend.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*api.Download, error)
}

// ReadmeSaver is an api.Opener that saves the download target to a Sink
// instead of handing it to a browser.
type ReadmeSaver struct {
	fetcher Fetcher
	sink    Sink
	log     logging.Logger

	mu   sync.Mutex
	last string
}

func NewReadmeSaver(f Fetcher, s Sink, log logging.Logger) *ReadmeSaver {
	return &ReadmeSaver{fetcher: f, sink: s, log: log.With("component", "readme-saver")}
}

func (r *ReadmeSaver) Open(ctx context.Context, url string) error {
	dl, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return err
	}
	defer dl.Body.Close()

	loc, err := r.sink.Put(ctx, dl.Filename, dl.ContentType, dl.Body)
	if err != nil {
		return fmt.Errorf("save %s: %w", dl.Filename, err)
	}

	r.mu.Lock()
	r.last = loc
	r.mu.Unlock()

	r.log.Info(ctx, "readme saved", "location", loc)
	return nil
}

// LastLocation is where the most recent successful Open stored its file.
func (r *ReadmeSaver) LastLocation() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

var _ api.Opener = (*ReadmeSaver)(nil)
