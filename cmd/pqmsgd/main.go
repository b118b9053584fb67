// pqmsgd: responder daemon. Listens on a unix domain socket (and optionally
// QUIC) for framed key-exchange requests and answers them.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"dev.c0redev.pqmsg/internal/config"
	"dev.c0redev.pqmsg/internal/journal"
	"dev.c0redev.pqmsg/internal/responder"
	"dev.c0redev.pqmsg/internal/transport"
)

func main() {
	configPath := flag.String("config", "", "path to pqmsgd.toml")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	cfg = config.ApplyEnv(cfg)

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		log = log.Level(lvl)
	} else if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}

	var j *journal.Journal
	if cfg.JournalPath != "" {
		j, err = journal.Open(cfg.JournalPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.JournalPath).Msg("journal")
		}
		defer j.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting down")
		cancel()
	}()

	srv := responder.New(log, j)

	if cfg.QUICAddr != "" {
		cert, err := transport.GenerateSelfSignedCert()
		if err != nil {
			log.Fatal().Err(err).Msg("quic tls cert")
		}
		ql, err := transport.ListenQUIC(cfg.QUICAddr, transport.ServerQUICTLS(cert))
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.QUICAddr).Msg("quic listen")
		}
		defer ql.Close()
		go func() {
			for {
				qconn, err := ql.Accept(ctx)
				if err != nil {
					return
				}
				go func() {
					conn, err := transport.AcceptStream(ctx, qconn)
					if err != nil {
						return
					}
					srv.HandleConn(conn)
				}()
			}
		}()
		log.Info().Str("addr", cfg.QUICAddr).Msg("quic on")
	}

	ln, err := transport.ListenUnix(cfg.SocketPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SocketPath).Msg("listen")
	}
	log.Info().Str("socket", cfg.SocketPath).Msg("pqmsgd up")
	if err := srv.Serve(ctx, ln); err != nil {
		log.Fatal().Err(err).Msg("serve")
	}
	_ = os.Remove(cfg.SocketPath)
}
