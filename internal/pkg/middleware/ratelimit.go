package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"techproducts/internal/domain"
	"techproducts/internal/pkg/cache"
)

// rateLimitKeyPrefix é o prefixo das chaves de contador no cache.
const rateLimitKeyPrefix = "rate-limit:"

// RateLimiter limita requisições por IP com um contador de janela fixa no
// cache. O cache não é crítico para o serviço: falhas de leitura que não
// sejam miss deixam a requisição passar, a mesma política de degradação do
// cache-aside do repositório.
func RateLimiter(client cache.Client, limit int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := rateLimitKeyPrefix + clientIP(r)

			count, err := client.GetInt(ctx, key)
			if err == cache.ErrCacheMiss {
				// Primeira requisição da janela: abre o contador com TTL.
				_ = client.Set(ctx, key, 1, window)
				w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-1))
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if count >= limit {
				writeRateLimited(w, window)
				return
			}

			_ = client.Incr(ctx, key)
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(limit-count-1))
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extrai o IP do cliente, tolerando RemoteAddr sem porta.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// writeRateLimited responde 429 no mesmo formato de erro do restante da API.
func writeRateLimited(w http.ResponseWriter, window time.Duration) {
	w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     http.StatusTooManyRequests,
		Category: "RATE_LIMITED",
		Message:  "Too many requests",
	})
}
