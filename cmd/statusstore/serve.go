package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/buildsignal/statusstore/internal/config"
	"github.com/buildsignal/statusstore/internal/logging"
	"github.com/buildsignal/statusstore/internal/rpc"
	"github.com/buildsignal/statusstore/internal/sqlitestore"
)

// exit codes per spec.md §6.
const (
	exitOK               = 0
	exitFatalInit        = 1
	exitConfigurationBad = 2
)

func newServeCmd() *cobra.Command {
	var storeDirFlag, listenAddrFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the status-store daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Initialize(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(exitConfigurationBad)
			}
			if storeDirFlag != "" {
				config.Set("store-dir", storeDirFlag)
			}
			if listenAddrFlag != "" {
				config.Set("listen-addr", listenAddrFlag)
			}
			return runServe()
		},
	}

	cmd.Flags().StringVar(&storeDirFlag, "store-dir", "", "directory holding one SQLite file per repository (overrides STORE_DIR)")
	cmd.Flags().StringVar(&listenAddrFlag, "listen-addr", "", "address to bind the gRPC server (overrides LISTEN_ADDR)")
	return cmd
}

// daemonSignals are the signals that trigger a graceful shutdown, matching
// the ingestion daemon's shutdown set.
var daemonSignals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}

// lockRetryInterval is the pause between single-instance lock attempts.
const lockRetryInterval = 200 * time.Millisecond

// acquireLock retries lock.TryLock() until it succeeds or timeout elapses,
// since another statusstore process (or a slow-to-release prior instance)
// may be mid-shutdown rather than permanently holding the lock.
func acquireLock(lock *flock.Flock, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		locked, err := lock.TryLock()
		if err != nil {
			return err
		}
		if locked {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("timed out after %s waiting for instance lock", timeout)
		}
		time.Sleep(lockRetryInterval)
	}
}

func runServe() error {
	log, err := logging.New(config.LogLevel(), config.LogFormat())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFatalInit)
	}
	defer func() { _ = log.Sync() }()

	storeDir := config.StoreDir()
	if err := os.MkdirAll(storeDir, 0o750); err != nil {
		log.Error("cannot create store directory", zap.String("dir", storeDir), zap.Error(err))
		os.Exit(exitFatalInit)
	}

	lockPath := filepath.Join(storeDir, ".lock")
	lock := flock.New(lockPath)
	if err := acquireLock(lock, config.LockTimeout()); err != nil {
		log.Error("acquiring instance lock", zap.String("path", lockPath), zap.Error(err))
		os.Exit(exitFatalInit)
	}
	defer func() { _ = lock.Unlock() }()

	pool := sqlitestore.NewPool(storeDir)
	defer func() { _ = pool.Close() }()

	addr := config.ListenAddr()
	server, err := rpc.NewGRPCServer(addr, pool, log)
	if err != nil {
		log.Error("starting gRPC server", zap.String("addr", addr), zap.Error(err))
		os.Exit(exitFatalInit)
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("serving", zap.String("addr", server.Addr()))
		if err := server.Serve(); err != nil {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, daemonSignals...)
	defer signal.Stop(sigChan)

	select {
	case err := <-serverErr:
		log.Error("gRPC server exited", zap.Error(err))
		return err
	case sig := <-sigChan:
		log.Info("received signal, shutting down gracefully", zap.String("signal", sig.String()))
		server.Stop(config.ShutdownTimeout())
	}

	return nil
}
