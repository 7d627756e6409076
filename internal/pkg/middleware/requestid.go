package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	// RequestIDKey é a chave de contexto do identificador da requisição.
	RequestIDKey ContextKey = iota + 10
)

// requestIDHeader é o header propagado de/para o cliente.
const requestIDHeader = "X-Request-ID"

// RequestID anexa um identificador único a cada requisição, reaproveitando o
// header do cliente quando presente. O valor volta na resposta e fica no
// contexto para correlação de logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestIDFromContext extrai o identificador anexado pelo RequestID.
func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDKey).(string)
	return id, ok
}
