package server

import (
	"context"
	"fmt"
	"net"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/ogurasousui/codex-skill-tracker/internal/platform/config"
)

// Server は HTTP サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	httpServer *fasthttp.Server
}

// New は設定とハンドラーから HTTP サーバーを構築します。
func New(cfg config.ServerConfig, handler fasthttp.RequestHandler) *Server {
	return &Server{
		listenAddr: cfg.ListenAddr,
		httpServer: &fasthttp.Server{
			Handler:            handler,
			Name:               "skill-tracker",
			ReadTimeout:        cfg.ReadTimeout,
			WriteTimeout:       cfg.WriteTimeout,
			MaxRequestBodySize: cfg.MaxBodyBytes,
		},
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると Shutdown します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は指定されたリスナーで待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	log.Info().Str("addr", lis.Addr().String()).Msg("HTTP server listening")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down HTTP server")
		if err := s.httpServer.Shutdown(); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	}
}
