package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"go.uber.org/zap"

	"github.com/libertyswede/nxtnode/app/services/node/handlers"
	"github.com/libertyswede/nxtnode/app/services/node/handlers/v1/peergrp"
	"github.com/libertyswede/nxtnode/business/sys/metrics"
	"github.com/libertyswede/nxtnode/foundation/blockchain/chainsync"
	"github.com/libertyswede/nxtnode/foundation/blockchain/database/storage/disk"
	"github.com/libertyswede/nxtnode/foundation/blockchain/genesis"
	"github.com/libertyswede/nxtnode/foundation/blockchain/peer"
	"github.com/libertyswede/nxtnode/foundation/blockchain/protocol"
	"github.com/libertyswede/nxtnode/foundation/blockchain/state"
	"github.com/libertyswede/nxtnode/foundation/blockchain/worker"
	"github.com/libertyswede/nxtnode/foundation/events"
	"github.com/libertyswede/nxtnode/foundation/logger"
	"github.com/libertyswede/nxtnode/foundation/nameservice"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:30s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:7876"`
			PeerHost        string        `conf:"default:0.0.0.0:7874"`
		}
		State struct {
			AnnouncedAddress string        `conf:"default:127.0.0.1:7874"`
			DBPath           string        `conf:"default:zblock/blocks/"`
			GenesisPath      string        `conf:"default:zblock/genesis.json"`
			AccountsPath     string        `conf:"default:zblock/accounts/"`
			SelectStrategy   string        `conf:"default:fee"`
			KnownPeers       []string      `conf:"default:127.0.0.1:7974;127.0.0.1:8074"`
			BlacklistPeriod  time.Duration `conf:"default:10m"`
		}
		Worker struct {
			PeerInterval        time.Duration `conf:"default:20s"`
			SyncInterval        time.Duration `conf:"default:1s"`
			UnconfirmedInterval time.Duration `conf:"default:5s"`
			MaxConnectedPeers   int           `conf:"default:20"`
		}
		Peer struct {
			Timeout           time.Duration `conf:"default:10s"`
			RequestsPerSecond int           `conf:"default:50"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "Nxt proof of stake full node",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Blockchain Support

	gen, err := genesis.Load(cfg.State.GenesisPath)
	if err != nil {
		return fmt.Errorf("unable to load genesis file: %w", err)
	}
	log.Infow("startup", "status", "genesis loaded", "network", gen.Network, "allocations", len(gen.Allocations))

	ns, err := nameservice.New(cfg.State.AccountsPath)
	if err != nil {
		return fmt.Errorf("unable to load account names: %w", err)
	}

	for id, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "account", id)
	}

	storage, err := disk.New(cfg.State.DBPath)
	if err != nil {
		return fmt.Errorf("unable to open block storage: %w", err)
	}

	// A peer set is a collection of known nodes in the network so transactions
	// and blocks can be shared.
	peerSet := peer.NewPeerSet(cfg.State.BlacklistPeriod)
	for _, host := range cfg.State.KnownPeers {
		peerSet.Add(host)
	}

	// The blockchain packages accept a function of this signature to allow the
	// application to log. These raw messages are also sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	send := evts.Handler()
	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...), "traceid", "00000000-0000-0000-0000-000000000000")
		send(v, args...)
	}

	// The state value represents the blockchain node and manages the blockchain
	// database and provides an API for application support.
	st, err := state.New(state.Config{
		Host:           cfg.State.AnnouncedAddress,
		Genesis:        gen,
		Storage:        storage,
		SelectStrategy: cfg.State.SelectStrategy,
		KnownPeers:     peerSet,
		EvHandler:      ev,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	if err := st.AddGenesisBlockIfNeeded(); err != nil {
		return fmt.Errorf("unable to add genesis block: %w", err)
	}

	st.Subscribe(metrics.NewLedger())

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 2)

	// =========================================================================
	// Worker Support

	client := peer.NewClient(peer.ClientConfig{
		Self: protocol.GetInfoRequest{
			Application:      peergrp.Application,
			Version:          build,
			Platform:         runtime.GOOS,
			ShareAddress:     true,
			AnnouncedAddress: cfg.State.AnnouncedAddress,
		},
		Timeout:           cfg.Peer.Timeout,
		RequestsPerSecond: cfg.Peer.RequestsPerSecond,
		Observer:          metrics.NewPeerClient(),
	})

	syncer := chainsync.New(st, metrics.NewChainSync(), ev)

	// A fault the node can not recover from brings the service down the same
	// way a signal does.
	fatal := func(err error) {
		log.Errorw("worker", "status", "fatal", "ERROR", err)
		select {
		case shutdown <- syscall.SIGTERM:
		default:
		}
	}

	// The worker package implements the peer updates, chain sync, and
	// sharing workflows. The worker will register itself with the state.
	worker.Run(st, client, syncer, metrics.NewMempool(), worker.Config{
		PeerInterval:        cfg.Worker.PeerInterval,
		SyncInterval:        cfg.Worker.SyncInterval,
		UnconfirmedInterval: cfg.Worker.UnconfirmedInterval,
		MaxConnectedPeers:   cfg.Worker.MaxConnectedPeers,
	}, ev, fatal)

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	debugMux := handlers.DebugMux(build, log, st)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	muxCfg := handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		Evts:     evts,
		NS:       ns,
		Build:    build,
	}

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      handlers.PublicMux(muxCfg),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Start Peer Service

	log.Infow("startup", "status", "initializing peer endpoint support")

	peers := http.Server{
		Addr:         cfg.Web.PeerHost,
		Handler:      handlers.PeerMux(muxCfg),
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	go func() {
		log.Infow("startup", "status", "peer router started", "host", peers.Addr)
		serverErrors <- peers.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		log.Infow("shutdown", "status", "shutdown peer endpoint started")
		if err := peers.Shutdown(ctx); err != nil {
			peers.Close()
			return fmt.Errorf("could not stop peer service gracefully: %w", err)
		}

		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}
