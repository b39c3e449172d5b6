package backend

import (
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/idlenpu/waker-desktop/internal/config"
)

const (
	// APIPrefix is always forwarded to the backend.
	APIPrefix = "/api/"
	// toolkitPrefix holds the window toolkit's own runtime assets, which
	// are never forwarded.
	toolkitPrefix = "/wails/"
)

// errNoSuchPage makes the proxy hand a page the backend does not have
// back to the bundled assets.
var errNoSuchPage = errors.New("backend has no such page")

// UIProxy returns asset-server middleware for the shell's windows.
//
// /api/* always goes to the backend on ep. Until handedOff reports true
// every other path is served by next, the bundled pages. After that the
// backend serves them too, so its UI loads on the app's own origin and
// keeps access to the shell's bindings. A 404 from the backend for a
// non-API path falls back to next.
func UIProxy(ep config.Endpoint, handedOff func() bool, logger zerolog.Logger) func(next http.Handler) http.Handler {
	target := &url.URL{Scheme: "http", Host: ep.Address()}

	return func(next http.Handler) http.Handler {
		proxy := httputil.NewSingleHostReverseProxy(target)
		proxy.ModifyResponse = func(resp *http.Response) error {
			if resp.StatusCode == http.StatusNotFound && !strings.HasPrefix(resp.Request.URL.Path, APIPrefix) {
				resp.Body.Close()
				return errNoSuchPage
			}
			return nil
		}
		// The backend is down until it finishes starting; answer 502 meanwhile.
		proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			if errors.Is(err, errNoSuchPage) {
				next.ServeHTTP(w, r)
				return
			}
			logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Proxy error")
			http.Error(w, "Backend unavailable", http.StatusBadGateway)
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasPrefix(r.URL.Path, APIPrefix):
				proxy.ServeHTTP(w, r)
			case strings.HasPrefix(r.URL.Path, toolkitPrefix), handedOff == nil || !handedOff():
				next.ServeHTTP(w, r)
			default:
				proxy.ServeHTTP(w, r)
			}
		})
	}
}
