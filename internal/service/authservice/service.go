package authservice

import (
	"context"

	"techproducts/internal/domain"
	"techproducts/internal/pkg/logger"
)

// Service implementa domain.TokenVerifier. É um caso de uso fino: não agrega
// regra de negócio além do repasse ao gateway de identidade, apenas normaliza
// a propagação de erros para o middleware de autorização.
type Service struct {
	gateway domain.IdentityGateway
	logger  logger.Logger
}

// NewService cria e retorna uma nova instância do serviço de verificação de token.
func NewService(gateway domain.IdentityGateway, log logger.Logger) *Service {
	return &Service{
		gateway: gateway,
		logger:  log,
	}
}

// Verify delega a verificação do token ao provedor de identidade.
func (s *Service) Verify(ctx context.Context, tokenString string) (domain.Principal, error) {
	s.logger.Debug("Iniciando verificação de token.", nil)

	principal, err := s.gateway.VerifyToken(ctx, tokenString)
	if err != nil {
		s.logger.Debug("Verificação de token falhou.", map[string]interface{}{"error": err.Error()})
		return domain.Principal{}, err
	}

	s.logger.Debug("Token verificado.", map[string]interface{}{
		"username": principal.Username,
		"is_admin": principal.IsAdmin,
	})
	return principal, nil
}
