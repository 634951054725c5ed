package core

// upload_limiter.go gates how many uploaded files are parsed at once.
//
// A parse holds the raw file and the decoded table in memory together, so
// the server admits a bounded number of loads across all sessions. An upload
// that finds every slot taken queues for up to maxWait and then fails with
// ErrTooManyUploads; its session keeps whatever table it already had.

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"
)

// ErrTooManyUploads is returned when all upload slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyUploads = errors.New("too many uploads in progress, please try again later")

// DefaultMaxConcurrentUploads is the default limit for parallel parses.
const DefaultMaxConcurrentUploads = 5

// DefaultMaxWaitTime is how long an upload queues for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// UploadLimiter admits uploads into sessions a bounded number at a time.
type UploadLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu       sync.Mutex
	inFlight map[string]int // file name -> parses running
	active   int
	waiting  int
	idle     chan struct{} // closed while nothing is parsing
}

// NewUploadLimiter creates a limiter that parses at most maxConcurrent files
// at once. Uploads that cannot get a slot within maxWait are rejected.
func NewUploadLimiter(maxConcurrent int, maxWait time.Duration) *UploadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentUploads
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	idle := make(chan struct{})
	close(idle)
	return &UploadLimiter{
		slots:    make(chan struct{}, maxConcurrent),
		maxWait:  maxWait,
		inFlight: make(map[string]int),
		idle:     idle,
	}
}

// Load parses r into sess once a slot is free, reading at most limit bytes.
// The session is left untouched when the upload is rejected or fails to parse.
func (l *UploadLimiter) Load(ctx context.Context, sess *Session, r io.Reader, fileName string, limit int64) error {
	logger := slog.With("session_id", sess.ID, "file", fileName)

	queued := time.Now()
	if err := l.acquire(ctx, fileName); err != nil {
		logger.Warn("upload rejected", "error", err, "waited_ms", time.Since(queued).Milliseconds())
		return err
	}
	defer l.release(fileName)

	if wait := time.Since(queued); wait > 100*time.Millisecond {
		logger.Debug("upload slot acquired", "waited_ms", wait.Milliseconds())
	}
	return sess.LoadReader(r, fileName, limit)
}

// acquire takes a slot for fileName, waiting up to maxWait.
func (l *UploadLimiter) acquire(ctx context.Context, fileName string) error {
	l.mu.Lock()
	l.waiting++
	l.mu.Unlock()

	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	var err error
	select {
	case l.slots <- struct{}{}:
	case <-waitCtx.Done():
		// The caller going away is not a capacity problem.
		err = ctx.Err()
		if err == nil {
			err = ErrTooManyUploads
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.waiting--
	if err != nil {
		return err
	}
	if l.active == 0 {
		l.idle = make(chan struct{})
	}
	l.active++
	l.inFlight[fileName]++
	return nil
}

func (l *UploadLimiter) release(fileName string) {
	l.mu.Lock()
	l.active--
	l.inFlight[fileName]--
	if l.inFlight[fileName] == 0 {
		delete(l.inFlight, fileName)
	}
	if l.active == 0 {
		close(l.idle)
	}
	l.mu.Unlock()

	<-l.slots
}

// ActiveCount returns the number of files being parsed.
func (l *UploadLimiter) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// MaxConcurrent returns the maximum number of parallel parses.
func (l *UploadLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// WaitForDrain blocks until no file is being parsed or ctx is done.
// Used on shutdown so accepted uploads land in their sessions.
func (l *UploadLimiter) WaitForDrain(ctx context.Context) error {
	l.mu.Lock()
	idle := l.idle
	l.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// UploadLimiterStatus is a snapshot of the limiter's current state.
type UploadLimiterStatus struct {
	Active        int      `json:"active"`
	Waiting       int      `json:"waiting"`
	Available     int      `json:"available"`
	MaxConcurrent int      `json:"max_concurrent"`
	Files         []string `json:"files,omitempty"`
}

// Status returns the current limiter state, including the names of the
// files being parsed.
func (l *UploadLimiter) Status() UploadLimiterStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	files := make([]string, 0, len(l.inFlight))
	for name := range l.inFlight {
		files = append(files, name)
	}
	slices.Sort(files)

	return UploadLimiterStatus{
		Active:        l.active,
		Waiting:       l.waiting,
		Available:     cap(l.slots) - l.active,
		MaxConcurrent: cap(l.slots),
		Files:         files,
	}
}
