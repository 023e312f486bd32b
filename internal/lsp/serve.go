package lsp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	glspserver "github.com/tliron/glsp/server"

	"github.com/bastiangx/stache/internal/logger"
	"github.com/bastiangx/stache/pkg/suggest"
)

// Options configure the language server.
type Options struct {
	Version string
	// Limit caps completion items; 0 keeps all.
	Limit int
	Debug bool
}

// ServeStdio serves one client over stdin/stdout until it disconnects.
func ServeStdio(completer suggest.ICompleter, opts Options) error {
	h := NewHandler(completer, opts.Version, opts.Limit)
	srv := glspserver.NewServer(h.Protocol(), ServerName, opts.Debug)
	logger.New("lsp").Debug("Serving over stdio")
	return srv.RunStdio()
}

var upgrader = websocket.Upgrader{
	// Any origin is accepted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketHandler upgrades each request and serves LSP on it. Every
// connection gets its own document set.
func WebSocketHandler(completer suggest.ICompleter, opts Options) http.Handler {
	log := logger.New("lsp")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Errorf("Failed to upgrade WebSocket from %s: %v", r.RemoteAddr, err)
			return
		}

		h := NewHandler(completer, opts.Version, opts.Limit)
		srv := glspserver.NewServer(h.Protocol(), ServerName, opts.Debug)

		log.Debugf("Serving WebSocket client %s", r.RemoteAddr)
		// Blocks until the connection closes.
		srv.ServeWebSocket(conn)
		log.Debugf("WebSocket client %s closed", r.RemoteAddr)
	})
}

// ServeWebSocket listens on addr until ctx is cancelled.
func ServeWebSocket(ctx context.Context, addr string, completer suggest.ICompleter, opts Options) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           WebSocketHandler(completer, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.New("lsp").Infof("listening on ws://%s", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
