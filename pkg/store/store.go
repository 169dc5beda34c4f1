// Package store implements the namespaced in-memory key-value store.
package store

import (
	"github.com/SashaG-T/chash/pkg/config"
	"github.com/SashaG-T/chash/pkg/container/chmap"
	"github.com/SashaG-T/chash/pkg/segmented"

	"github.com/dustin/go-humanize"
	plog "github.com/phuslu/log"
)

// Store holds all configured namespaces.
// The namespace registry is immutable after New,
// hence safe for concurrent lookups.
type Store struct {
	log        plog.Logger
	namespaces *chmap.Table[string, *Namespace]
	ids        []string
}

// New initializes all namespaces defined by conf
// and preloads warmup data.
func New(conf *config.Config, log plog.Logger) *Store {
	log.Context = plog.NewContext(nil).
		Str("component", "store").
		Value()

	s := &Store{
		log: log,
		namespaces: chmap.New[string, *Namespace](
			0,
			chmap.EqualComparable[string],
			new(chmap.HasherXXH3[string]),
			nil,
		),
	}

	for _, nc := range conf.Namespaces {
		n := newNamespace(nc)
		if nc.Warmup != nil {
			var preloaded, preloadedBytes int
			nc.Warmup.VisitAll(func(key string, seg segmented.Segment) {
				v := nc.Warmup.GetSegment(seg)
				if n.Set(key, v) {
					preloaded++
				}
				preloadedBytes += len(v)
			})
			s.log.Info().
				Str("namespace", n.id).
				Int("entries", preloaded).
				Str("size", humanize.Bytes(uint64(preloadedBytes))).
				Msg("namespace warmed up")
		}
		*s.namespaces.At(n.id) = n
		s.ids = append(s.ids, n.id)
	}

	s.log.Info().
		Int("namespaces", len(s.ids)).
		Msg("store initialized")

	return s
}

// Namespace returns the namespace by id.
// Returns nil if no such namespace is configured.
func (s *Store) Namespace(id string) *Namespace {
	if p := s.namespaces.Lookup(id); p != nil {
		return *p
	}
	return nil
}

// Namespaces calls fn for every configured namespace
// in order of configuration.
func (s *Store) Namespaces(fn func(*Namespace)) {
	for _, id := range s.ids {
		fn(*s.namespaces.Lookup(id))
	}
}

// Len returns the number of configured namespaces.
func (s *Store) Len() int {
	return s.namespaces.Len()
}
