package stream

import (
	"context"
	"sync"

	"github.com/s3bridge/s3bridge/pkg/models"
)

// PageFetcher returns the listing page at the given continuation token.
// An empty token requests the first page. The fetcher is invoked once
// per pull, so listing work happens lazily.
type PageFetcher func(ctx context.Context, token string) (*models.ListingPage, error)

// ListObjectStream is a lazy sequence of listing pages. Each pull issues
// one engine round trip, continuing from the previous page's token; the
// stream is exhausted once a page arrives without a continuation token.
// Page order preserves the backend's lexicographic key order across page
// boundaries. A stream is not restartable; a fresh list call starts an
// independent listing.
type ListObjectStream struct {
	mu     sync.Mutex
	state  State
	busy   bool
	fetch  PageFetcher
	ctx    context.Context
	cancel context.CancelFunc
	token  string
	page   *models.ListingPage
	err    error
}

// NewListObjectStream wraps a page fetcher
func NewListObjectStream(fetch PageFetcher) *ListObjectStream {
	ctx, cancel := context.WithCancel(context.Background())
	return &ListObjectStream{
		state:  StateCreated,
		fetch:  fetch,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Next blocks for one listing round trip and reports whether a page was
// received. The stream lock is released for the duration of the fetch.
func (s *ListObjectStream) Next() bool {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return false
	}
	if s.busy {
		s.state = StateErrored
		s.err = ErrConcurrentUse
		s.mu.Unlock()
		return false
	}
	if s.state == StateYielding && s.token == "" {
		// Previous page carried no continuation token.
		s.state = StateExhausted
		s.mu.Unlock()
		return false
	}
	token := s.token
	s.state = StateActive
	s.busy = true
	ctx := s.ctx
	s.mu.Unlock()

	page, err := s.fetch(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if s.state == StateCancelled {
		return false
	}
	if err != nil {
		s.state = StateErrored
		s.err = err
		return false
	}
	s.page = page
	s.token = page.ContinuationToken
	s.state = StateYielding
	return true
}

// Page returns the page received by the last successful Next
func (s *ListObjectStream) Page() *models.ListingPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Err returns the error that terminated the stream, if any
func (s *ListObjectStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// State returns the stream's current lifecycle state
func (s *ListObjectStream) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close abandons the listing. Idempotent; never reports cancellation as
// a failure.
func (s *ListObjectStream) Close() error {
	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return nil
	}
	s.state = StateCancelled
	s.mu.Unlock()

	s.cancel()
	return nil
}
