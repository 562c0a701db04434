package proxy

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"

	"mercator-hq/hermes/pkg/proxy/middleware"
	"mercator-hq/hermes/pkg/routing"
)

// Passthrough forwards plain HTTP requests to the backend resolved by the
// routing table. The gateway's only duty here is target resolution; the
// reverse proxy handles method and header passthrough and response relay.
type Passthrough struct {
	table  *routing.Table
	proxy  *httputil.ReverseProxy
	logger *slog.Logger
}

// NewPassthrough creates the plain HTTP passthrough handler.
func NewPassthrough(table *routing.Table) *Passthrough {
	p := &Passthrough{
		table:  table,
		logger: slog.Default().With("component", "http-passthrough"),
	}

	p.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			target := pr.In.Context().Value(targetKey{}).(*url.URL)
			pr.SetURL(&url.URL{Scheme: httpScheme(target), Host: target.Host})
			pr.Out.URL.Path = pr.In.URL.Path
			pr.Out.URL.RawQuery = pr.In.URL.RawQuery
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			p.logger.Error("passthrough request failed",
				"path", r.URL.Path,
				"request_id", middleware.GetRequestID(r.Context()),
				"error", err,
			)
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		},
	}

	return p
}

// targetKey carries the resolved backend URL from ServeHTTP to Rewrite.
type targetKey struct{}

// contextWithTarget stashes the resolved target on the request context.
func contextWithTarget(ctx context.Context, target *url.URL) context.Context {
	return context.WithValue(ctx, targetKey{}, target)
}

// ServeHTTP resolves the target and forwards the request.
func (p *Passthrough) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	target, err := p.table.ResolveTarget(r.URL.Path)
	if err != nil {
		p.logger.Warn("no route for request",
			"path", r.URL.Path,
			"request_id", middleware.GetRequestID(r.Context()),
		)
		http.Error(w, "no route for path", http.StatusBadGateway)
		return
	}

	ctx := contextWithTarget(r.Context(), target)
	p.proxy.ServeHTTP(w, r.WithContext(ctx))
}

// httpScheme maps a target scheme to the HTTP scheme used for plain
// passthrough. Route targets may be declared ws/wss for the upgrade path;
// plain requests to the same backend go over http/https.
func httpScheme(target *url.URL) string {
	switch target.Scheme {
	case "ws":
		return "http"
	case "wss":
		return "https"
	default:
		return target.Scheme
	}
}
