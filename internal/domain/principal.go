package domain

import "context"

// Principal é a identidade autenticada derivada de um token verificado.
// É transiente: reconstruída a cada requisição, nunca persistida.
type Principal struct {
	Username   string            `json:"username"`
	IsAdmin    bool              `json:"is_admin"`
	Attributes map[string]string `json:"attributes"`
}

// IdentityGateway define o contrato com o provedor de identidade (Cognito).
// Apenas a verificação de tokens já emitidos importa aqui; a emissão de
// credenciais fica fora deste serviço.
type IdentityGateway interface {
	VerifyToken(ctx context.Context, token string) (Principal, error)
}

// TokenVerifier é o contrato que o middleware de autorização espera da
// camada de serviço (o caso de uso de verificação de token).
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Principal, error)
}
