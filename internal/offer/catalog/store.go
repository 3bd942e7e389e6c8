package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"offer-match/internal/offer/model"
)

// Snapshot неизменяемый срез каталога. Records не модифицируются после публикации.
type Snapshot struct {
	Records  []model.ContractRecord `json:"-"`
	Count    int                    `json:"count"`
	Source   string                 `json:"source"`
	LoadedAt time.Time              `json:"loadedAt"`
	Degraded bool                   `json:"degraded"` // основной источник не загрузился, работаем на встроенном
	Dropped  int                    `json:"dropped"`  // записи, отброшенные проверкой целостности
	Error    string                 `json:"error,omitempty"`
}

// Store держит текущий снимок каталога; замена атомарная, читатели не блокируются.
type Store struct {
	source   Source
	fallback Source
	timeout  time.Duration
	log      zerolog.Logger

	current atomic.Pointer[Snapshot]
	loadMu  sync.Mutex // только сериализует загрузки
}

func NewStore(source Source, timeout time.Duration, logger zerolog.Logger) *Store {
	return &Store{
		source:   source,
		fallback: Embedded{},
		timeout:  timeout,
		log:      logger.With().Str("component", "catalog").Logger(),
	}
}

// Snapshot лениво загружает каталог при первом обращении и дальше отдаёт кэш.
func (s *Store) Snapshot(ctx context.Context) *Snapshot {
	if snap := s.current.Load(); snap != nil {
		return snap
	}
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	if snap := s.current.Load(); snap != nil {
		return snap
	}
	// первый запрос может отвалиться раньше, чем догрузится каталог; кэшируется надолго
	snap := s.load(context.WithoutCancel(ctx))
	s.current.Store(snap)
	return snap
}

func (s *Store) Records(ctx context.Context) []model.ContractRecord {
	return s.Snapshot(ctx).Records
}

// Reload перечитывает источник и атомарно подменяет снимок.
func (s *Store) Reload(ctx context.Context) *Snapshot {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	snap := s.load(ctx)
	s.current.Store(snap)
	return snap
}

func (s *Store) load(ctx context.Context) *Snapshot {
	start := time.Now()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	recs, dropped, err := s.loadFrom(ctx, s.source)
	if err == nil {
		s.log.Info().
			Str("source", s.source.Name()).
			Int("records", len(recs)).
			Int("dropped", dropped).
			Dur("elapsed", time.Since(start)).
			Msg("catalog loaded")
		return &Snapshot{Records: recs, Count: len(recs), Source: s.source.Name(), LoadedAt: time.Now(), Dropped: dropped}
	}

	s.log.Warn().Err(err).Str("source", s.source.Name()).Msg("catalog load failed, using embedded fallback")
	fb, fbDropped, fbErr := s.loadFrom(context.Background(), s.fallback)
	if fbErr != nil {
		// встроенный каталог собирается вместе с бинарником; сюда попадаем только при битой сборке
		s.log.Error().Err(fbErr).Msg("embedded catalog is invalid")
	}
	return &Snapshot{
		Records:  fb,
		Count:    len(fb),
		Source:   s.fallback.Name(),
		LoadedAt: time.Now(),
		Degraded: true,
		Dropped:  fbDropped,
		Error:    err.Error(),
	}
}

func (s *Store) loadFrom(ctx context.Context, src Source) ([]model.ContractRecord, int, error) {
	raw, err := src.Load(ctx)
	if err != nil {
		return nil, 0, err
	}
	recs, dropped := sanitize(raw)
	if len(recs) == 0 {
		return nil, dropped, eris.Errorf("catalog: %s has no valid records (%d dropped)", src.Name(), dropped)
	}
	if dropped > 0 {
		s.log.Warn().Str("source", src.Name()).Int("dropped", dropped).Msg("catalog records without insurer dropped")
	}
	return recs, dropped, nil
}
