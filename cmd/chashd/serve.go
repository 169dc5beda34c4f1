package main

import (
	"io"
	"time"

	"github.com/SashaG-T/chash/pkg/cli"
	"github.com/SashaG-T/chash/pkg/server"
	"github.com/SashaG-T/chash/pkg/store"

	"github.com/phuslu/log"
)

// serve turns the CLI process into a chashd server process.
func serve(w io.Writer, c cli.CommandServe) {
	conf := ReadConfig(w, c.ConfigPath)
	if conf == nil {
		return
	}

	l := log.Logger{
		Level:  log.InfoLevel,
		Writer: &log.IOWriter{Writer: w},
	}
	if c.Debug {
		l.Level = log.DebugLevel
	}

	start := time.Now()

	st := store.New(conf, l)

	var s *server.Server
	{
		lServer := l
		lServer.Context = log.NewContext(nil).
			Str("server", "kv").Value()
		s = server.New(
			conf,
			10*time.Second,
			10*time.Second,
			1024*1024*4,
			1024*1024*4,
			lServer,
			start,
			st,
		)
	}

	stopTriggered := RegisterStop()
	go func() {
		<-stopTriggered
		l.Info().Msg("stopping")
		_ = s.Shutdown()
	}()

	s.Serve(nil)
	l.Info().Msg("terminated gracefully")
}
