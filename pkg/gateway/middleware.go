package gateway

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/flaretrack/flaretrack/pkg/gateway/ctxkeys"
	"github.com/flaretrack/flaretrack/pkg/httputil"
	"github.com/flaretrack/flaretrack/pkg/logging"
)

// statusResponseWriter records the status code and bytes written for
// request logging.
type statusResponseWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// loggingMiddleware logs basic request info and duration.
func (g *Gateway) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(srw, r)
		g.logger.ComponentInfo(logging.ComponentGateway, "request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", srw.status),
			zap.Int("bytes", srw.bytes),
			zap.String("duration", time.Since(start).String()),
		)
	})
}

// corsMiddleware applies permissive CORS headers suitable for a
// browser-based client.
func (g *Gateway) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", strconv.Itoa(600))
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAuth verifies the bearer session token and resolves the account
// id every downstream handler scopes with. All failures surface as one
// uniform 401 regardless of whether the header was missing, malformed,
// or the token expired.
func (g *Gateway) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := httputil.ExtractBearerToken(r)
		if token == "" {
			w.Header().Set("WWW-Authenticate", "Bearer realm=\"flaretrack\", charset=\"UTF-8\"")
			httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		claims, err := g.authService.Tokens.Verify(token)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer error=\"invalid_token\"")
			httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := ctxkeys.WithAccountID(r.Context(), claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
