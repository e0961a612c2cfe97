package middleware

import (
	"net"
	"net/http"

	"github.com/mssola/useragent"

	"namehaus/pkg/requestcontext"
)

// ClientMetadata records the remote IP and the parsed client name so events
// appended by the registry can say which client drove a change.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			ip = host
		}
		ctx = requestcontext.WithClientIP(ctx, ip)

		if ua := r.Header.Get("User-Agent"); ua != "" {
			parsed := useragent.New(ua)
			name, version := parsed.Browser()
			if name != "" {
				if version != "" {
					name = name + "/" + version
				}
				ctx = requestcontext.WithClientName(ctx, name)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
