package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"techproducts/internal/domain"
	apperror "techproducts/internal/errors"
	"techproducts/internal/pkg/identity"
)

// ContextKey é o tipo das chaves de contexto deste pacote. Usamos um tipo
// próprio para garantir que não haja conflito com chaves de outros pacotes.
type ContextKey int

const (
	// PrincipalKey é a chave usada para anexar o Principal ao contexto.
	PrincipalKey ContextKey = iota
)

// AdminRequired cria o middleware que protege as rotas de mutação do catálogo.
//
// O fluxo é: extrair o bearer token do header Authorization, delegar a
// verificação ao TokenVerifier e anexar o Principal resultante ao contexto.
// Toda rejeição aqui é 401; um token que verifica com sucesso passa,
// independentemente do flag de admin (comportamento herdado do serviço
// original, preservado por compatibilidade).
func AdminRequired(verifier domain.TokenVerifier) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				writeUnauthorized(w, "Authentication credentials not provided")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if strings.TrimSpace(tokenString) == "" {
				writeUnauthorized(w, "Token must be a non-empty string")
				return
			}

			principal, err := verifier.Verify(r.Context(), tokenString)
			if err != nil {
				if identity.IsVerificationError(err) {
					writeUnauthorized(w, "Invalid authentication credentials")
				} else {
					// Falha inesperada ainda responde 401, nunca 500.
					writeUnauthorized(w, "Authentication error")
				}
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetPrincipalFromContext extrai o Principal anexado pelo AdminRequired.
func GetPrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(PrincipalKey).(domain.Principal)
	return principal, ok
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	appErr := apperror.NewUnauthorizedError(message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.HTTPStatus())
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Code:     appErr.HTTPStatus(),
		Category: appErr.Category(),
		Message:  appErr.Error(),
	})
}
