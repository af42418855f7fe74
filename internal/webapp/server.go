// Package webapp serves the generated static app locally so a
// projection run can be inspected before publishing.
package webapp

import (
	"context"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/futbolcanario/futbolbase/internal/platform/logging"
)

// Server is a read-only static file server over the output directory.
type Server struct {
	addr   string
	server *fasthttp.Server
	logger *logging.Logger
}

func NewServer(addr, root string, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}

	fs := &fasthttp.FS{
		Root:               root,
		IndexNames:         []string{"index.html"},
		GenerateIndexPages: false,
		AcceptByteRange:    true,
	}
	fileHandler := fs.NewRequestHandler()

	handler := func(ctx *fasthttp.RequestCtx) {
		if !ctx.IsGet() && !ctx.IsHead() {
			ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
			return
		}

		// Generated data files change between runs; keep the browser
		// from pinning a stale copy during review.
		if strings.HasSuffix(string(ctx.Path()), ".js") {
			ctx.Response.Header.Set("Cache-Control", "no-cache")
		}
		fileHandler(ctx)
	}

	return &Server{
		addr: addr,
		server: &fasthttp.Server{
			Handler:         handler,
			Name:            "futbolbase-preview",
			ReadBufferSize:  16 << 10,
			CloseOnShutdown: true,
		},
		logger: logger,
	}
}

// ListenAndServe blocks until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("preview server starting", "addr", s.addr)
	return s.server.ListenAndServe(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.ShutdownWithContext(ctx)
}
