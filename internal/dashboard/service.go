package dashboard

import (
	"strconv"
	"time"

	"tracker/internal/cache"
	"tracker/internal/ledger"
	"tracker/internal/log"
)

// Snapshotter supplies the current ledger snapshot.
type Snapshotter interface {
	Snapshot() ledger.Snapshot
}

// Service memoizes Build per snapshot revision and calendar month.
type Service struct {
	src    Snapshotter
	cache  cache.Cache[View]
	months int
	recent int
	now    func() time.Time
	logger *log.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l.WithComponent(log.ComponentDashboard) }
}

func NewService(src Snapshotter, c cache.Cache[View], months, recent int, opts ...Option) *Service {
	s := &Service{
		src:    src,
		cache:  c,
		months: months,
		recent: recent,
		now:    time.Now,
		logger: log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// View returns the dashboard for the current snapshot. Recent-activity
// timestamps are relative to the time the entry was cached.
func (s *Service) View() View {
	snap := s.src.Snapshot()
	now := s.now()
	key := cacheKey(snap.Revision, now)

	if v, ok := s.cache.Get(key); ok {
		return v
	}
	v := Build(snap, now, s.months, s.recent)
	s.cache.Set(key, v)
	s.logger.Debug("dashboard rebuilt",
		log.FieldRevision, snap.Revision,
		log.FieldCount, snap.Len())
	return v
}

// Invalidate drops the cached view for snap. Registered as a ledger subscriber.
func (s *Service) Invalidate(snap ledger.Snapshot) {
	if snap.Revision > 0 {
		s.cache.Delete(cacheKey(snap.Revision-1, s.now()))
	}
}

func cacheKey(rev uint64, now time.Time) string {
	return strconv.FormatUint(rev, 10) + "@" + now.Format("2006-01")
}
