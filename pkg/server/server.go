// Package server implements the HTTP interface of the key-value store.
package server

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/SashaG-T/chash/pkg/config"
	"github.com/SashaG-T/chash/pkg/statistics"
	"github.com/SashaG-T/chash/pkg/store"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	plog "github.com/phuslu/log"
	"github.com/sugawarayuuta/sonnet"
	"github.com/tidwall/gjson"
	"github.com/valyala/fasthttp"
)

const (
	prefixKV    = "/kv/"
	prefixFlush = "/flush/"
	pathStats   = "/stats"
)

// Server is the HTTP server exposing the key-value store.
type Server struct {
	config *config.Config
	server *fasthttp.Server
	store  *store.Store
	stats  *statistics.ServerSync
	start  time.Time
	log    plog.Logger
}

func New(
	conf *config.Config,
	readTimeout, writeTimeout time.Duration,
	readBufferSize, writeBufferSize int,
	log plog.Logger,
	start time.Time, // When was the server started?
	st *store.Store,
) *Server {
	lFasthttp := log
	lFasthttp.Context = plog.NewContext(nil).
		Str("server-module", "fasthttp").Value()

	srv := &Server{
		config: conf,
		server: &fasthttp.Server{
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			ReadBufferSize:     readBufferSize,
			WriteBufferSize:    writeBufferSize,
			Logger:             &lFasthttp,
			MaxRequestBodySize: conf.MaxReqBodySizeBytes,
		},
		store: st,
		stats: statistics.NewServerSync(),
		start: start,
		log:   log,
	}
	srv.server.Handler = srv.handle
	return srv
}

// Statistics returns the server statistics counters.
func (s *Server) Statistics() *statistics.ServerSync {
	return s.stats
}

func (s *Server) handle(ctx *fasthttp.RequestCtx) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("recovered", fmt.Sprint(r)).Msg("handler panic")
		}
	}()
	start := time.Now()
	defer func() {
		s.stats.Update(
			len(ctx.Request.Body()),
			len(ctx.Response.Body()),
			time.Since(start),
		)
	}()

	requestID := uuid.NewString()
	ctx.Response.Header.Set("X-Request-ID", requestID)

	s.log.Info().
		Str("request", requestID).
		Bytes("method", ctx.Method()).
		Bytes("path", ctx.Path()).
		Msg("handling request")

	path := string(ctx.Path())
	switch {
	case strings.HasPrefix(path, prefixKV):
		s.handleKV(ctx, path[len(prefixKV):])
	case strings.HasPrefix(path, prefixFlush):
		s.handleFlush(ctx, path[len(prefixFlush):])
	case path == pathStats:
		s.handleStats(ctx)
	default:
		s.log.Debug().
			Bytes("path", ctx.Path()).
			Msg("endpoint not found")
		const c = fasthttp.StatusNotFound
		ctx.Error(fasthttp.StatusMessage(c), c)
	}
}

func (s *Server) handleKV(ctx *fasthttp.RequestCtx, rest string) {
	i := strings.IndexByte(rest, '/')
	if i < 0 || i+1 >= len(rest) {
		const c = fasthttp.StatusNotFound
		ctx.Error(fasthttp.StatusMessage(c), c)
		return
	}
	namespace, key := rest[:i], rest[i+1:]

	n := s.store.Namespace(namespace)
	if n == nil {
		s.log.Debug().
			Str("namespace", namespace).
			Msg("namespace not found")
		const c = fasthttp.StatusNotFound
		ctx.Error(fasthttp.StatusMessage(c), c)
		return
	}

	switch string(ctx.Method()) {
	case fasthttp.MethodGet:
		v, ok := n.Get(key)
		if !ok {
			const c = fasthttp.StatusNotFound
			ctx.Error(fasthttp.StatusMessage(c), c)
			return
		}
		ctx.SetContentType("application/octet-stream")
		ctx.SetBody(v)

	case fasthttp.MethodPut:
		value := gjson.GetBytes(ctx.Request.Body(), "value")
		if !value.Exists() || value.Type != gjson.String {
			const c = fasthttp.StatusBadRequest
			ctx.Error(fasthttp.StatusMessage(c), c)
			return
		}
		if n.Set(key, []byte(value.String())) {
			ctx.SetStatusCode(fasthttp.StatusCreated)
		} else {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
		}

	case fasthttp.MethodDelete:
		// Entries can't be removed individually,
		// namespaces are flushed as a whole.
		const c = fasthttp.StatusMethodNotAllowed
		ctx.Error(fasthttp.StatusMessage(c), c)

	default:
		const c = fasthttp.StatusMethodNotAllowed
		ctx.Error(fasthttp.StatusMessage(c), c)
	}
}

func (s *Server) handleFlush(ctx *fasthttp.RequestCtx, namespace string) {
	if string(ctx.Method()) != fasthttp.MethodPost {
		const c = fasthttp.StatusMethodNotAllowed
		ctx.Error(fasthttp.StatusMessage(c), c)
		return
	}
	n := s.store.Namespace(namespace)
	if n == nil {
		s.log.Debug().
			Str("namespace", namespace).
			Msg("namespace not found")
		const c = fasthttp.StatusNotFound
		ctx.Error(fasthttp.StatusMessage(c), c)
		return
	}

	released := n.Flush()
	s.log.Info().
		Str("namespace", namespace).
		Int("released", released).
		Msg("namespace flushed")

	b, err := sonnet.Marshal(flushReport{
		Namespace: namespace,
		Released:  released,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("encoding flush report")
		const c = fasthttp.StatusInternalServerError
		ctx.Error(fasthttp.StatusMessage(c), c)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(b)
}

func (s *Server) handleStats(ctx *fasthttp.RequestCtx) {
	if string(ctx.Method()) != fasthttp.MethodGet {
		const c = fasthttp.StatusMethodNotAllowed
		ctx.Error(fasthttp.StatusMessage(c), c)
		return
	}

	r := report{
		Started:         s.start.Format(time.RFC3339),
		Uptime:          humanize.Time(s.start),
		HandledRequests: s.stats.GetHandledRequests(),
		Received:        humanize.Bytes(uint64(s.stats.GetReceivedBytes())),
		Sent:            humanize.Bytes(uint64(s.stats.GetSentBytes())),
		AverageProcessingTime: time.Duration(
			s.stats.GetAverageProcessingTime(),
		).String(),
		HighestProcessingTime: time.Duration(
			s.stats.GetHighestProcessingTime(),
		).String(),
	}
	s.store.Namespaces(func(n *store.Namespace) {
		st := n.Stats()
		r.Namespaces = append(r.Namespaces, namespaceReport{
			ID:              n.ID(),
			Entries:         n.Len(),
			Stored:          humanize.Bytes(uint64(st.GetStoredBytes())),
			StoredBytes:     st.GetStoredBytes(),
			Reads:           st.GetReads(),
			Hits:            st.GetHits(),
			Misses:          st.GetMisses(),
			Writes:          st.GetWrites(),
			Insertions:      st.GetInsertions(),
			Flushes:         st.GetFlushes(),
			EntriesReleased: st.GetEntriesReleased(),
		})
	})

	b, err := sonnet.Marshal(r)
	if err != nil {
		s.log.Error().Err(err).Msg("encoding stats report")
		const c = fasthttp.StatusInternalServerError
		ctx.Error(fasthttp.StatusMessage(c), c)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(b)
}

type report struct {
	Started               string            `json:"started"`
	Uptime                string            `json:"uptime"`
	HandledRequests       int64             `json:"handledRequests"`
	Received              string            `json:"received"`
	Sent                  string            `json:"sent"`
	AverageProcessingTime string            `json:"averageProcessingTime"`
	HighestProcessingTime string            `json:"highestProcessingTime"`
	Namespaces            []namespaceReport `json:"namespaces"`
}

type namespaceReport struct {
	ID              string `json:"id"`
	Entries         int    `json:"entries"`
	Stored          string `json:"stored"`
	StoredBytes     int64  `json:"storedBytes"`
	Reads           int64  `json:"reads"`
	Hits            int64  `json:"hits"`
	Misses          int64  `json:"misses"`
	Writes          int64  `json:"writes"`
	Insertions      int64  `json:"insertions"`
	Flushes         int64  `json:"flushes"`
	EntriesReleased int64  `json:"entriesReleased"`
}

type flushReport struct {
	Namespace string `json:"namespace"`
	Released  int    `json:"released"`
}

// Serve starts the server and blocks until it's shut down.
// If listener is nil then the server listens on the configured host.
func (s *Server) Serve(listener net.Listener) {
	namespaceIDs := make([]string, 0, s.store.Len())
	s.store.Namespaces(func(n *store.Namespace) {
		namespaceIDs = append(namespaceIDs, n.ID())
	})
	s.log.Info().
		Str("host", s.config.Host).
		Strs("namespaces", namespaceIDs).
		Msg("listening")

	var err error
	if listener != nil {
		err = s.server.Serve(listener)
	} else {
		err = s.server.ListenAndServe(s.config.Host)
	}
	if err != nil {
		s.log.Fatal().Err(err).Msg("listening")
	}
}

// Shutdown returns once the server was shutdown.
// Logs shutdown and errors.
func (s *Server) Shutdown() error {
	err := s.server.Shutdown()
	if err != nil {
		s.log.Error().Err(err).Msg("shutting down")
		return err
	}
	s.log.Info().Msg("shutdown")
	return nil
}
