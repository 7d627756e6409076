package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"

	"techproducts/internal/domain"
	"techproducts/internal/pkg/logger"
	"techproducts/internal/pkg/token"
)

// Erros de verificação. O middleware usa IsVerificationError para separar
// falhas de verificação (401 "Invalid authentication credentials") de
// falhas inesperadas (401 "Authentication error").
var (
	// ErrMissingIdentifier indica um token sem nenhuma claim de identidade.
	ErrMissingIdentifier = errors.New("Token does not contain user identifier")

	// ErrUserNotFound indica que o provedor não conhece o usuário do token.
	ErrUserNotFound = errors.New("User not found")

	// ErrAdminStatusCheck indica falha na consulta de grupos ao provedor.
	ErrAdminStatusCheck = errors.New("Failed to verify admin status")
)

// cognitoAPI é o subconjunto do cliente Cognito que o gateway utiliza.
// Mantido como interface para permitir mocks nos testes.
type cognitoAPI interface {
	AdminGetUser(ctx context.Context, params *cognito.AdminGetUserInput, optFns ...func(*cognito.Options)) (*cognito.AdminGetUserOutput, error)
	AdminListGroupsForUser(ctx context.Context, params *cognito.AdminListGroupsForUserInput, optFns ...func(*cognito.Options)) (*cognito.AdminListGroupsForUserOutput, error)
}

// CognitoGateway implementa domain.IdentityGateway contra o AWS Cognito.
// A decodificação do token é puramente estrutural (sem verificação de
// assinatura); quando o token não carrega a lista de grupos, o gateway
// consulta o user pool diretamente.
type CognitoGateway struct {
	client     cognitoAPI
	userPoolID string
	adminGroup string
	logger     logger.Logger
}

// NewCognitoGateway carrega a configuração AWS e cria o gateway.
func NewCognitoGateway(ctx context.Context, region, userPoolID, adminGroup string, log logger.Logger) (*CognitoGateway, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar a configuração AWS: %w", err)
	}

	return &CognitoGateway{
		client:     cognito.NewFromConfig(cfg),
		userPoolID: userPoolID,
		adminGroup: adminGroup,
		logger:     log,
	}, nil
}

// VerifyToken transforma um bearer token opaco em um Principal, ou falha.
func (g *CognitoGateway) VerifyToken(ctx context.Context, tokenString string) (domain.Principal, error) {
	claims, err := token.DecodeUnverified(tokenString)
	if err != nil {
		return domain.Principal{}, err
	}

	// Identificador estável do usuário: verificado em múltiplas claims
	// candidatas, na ordem que o Cognito as emite.
	identifier, ok := token.StringClaim(claims, "cognito:username")
	if !ok {
		identifier, ok = token.StringClaim(claims, "sub")
	}
	if !ok {
		identifier, ok = token.StringClaim(claims, "username")
	}
	if !ok {
		return domain.Principal{}, ErrMissingIdentifier
	}

	attributes := map[string]string{}
	if sub, ok := token.StringClaim(claims, "sub"); ok {
		attributes["sub"] = sub
	}
	if email, ok := token.StringClaim(claims, "email"); ok {
		attributes["email"] = email
	}

	// Caminho rápido: o próprio token carrega a lista de grupos.
	if groups, ok := token.StringListClaim(claims, "cognito:groups"); ok {
		return domain.Principal{
			Username:   identifier,
			IsAdmin:    contains(groups, g.adminGroup),
			Attributes: attributes,
		}, nil
	}

	// Fallback: sem claim de grupos, consulta o provedor diretamente.
	isAdmin, err := g.lookupAdminStatus(ctx, identifier, attributes)
	if err != nil {
		return domain.Principal{}, err
	}

	return domain.Principal{
		Username:   identifier,
		IsAdmin:    isAdmin,
		Attributes: attributes,
	}, nil
}

// lookupAdminStatus confirma o usuário no user pool e verifica a pertinência
// ao grupo de administradores. Também completa atributos ausentes no token.
func (g *CognitoGateway) lookupAdminStatus(ctx context.Context, username string, attributes map[string]string) (bool, error) {
	user, err := g.client.AdminGetUser(ctx, &cognito.AdminGetUserInput{
		UserPoolId: aws.String(g.userPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		var notFound *types.UserNotFoundException
		if errors.As(err, &notFound) {
			return false, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		return false, fmt.Errorf("%w: %s", ErrAdminStatusCheck, err.Error())
	}

	for _, attr := range user.UserAttributes {
		name := aws.ToString(attr.Name)
		if (name == "sub" || name == "email") && attributes[name] == "" {
			attributes[name] = aws.ToString(attr.Value)
		}
	}

	groupsOut, err := g.client.AdminListGroupsForUser(ctx, &cognito.AdminListGroupsForUserInput{
		UserPoolId: aws.String(g.userPoolID),
		Username:   aws.String(username),
	})
	if err != nil {
		var notFound *types.UserNotFoundException
		if errors.As(err, &notFound) {
			return false, fmt.Errorf("%w: %s", ErrUserNotFound, username)
		}
		g.logger.Error("Falha ao consultar grupos do usuário no Cognito.", err)
		return false, fmt.Errorf("%w: %s", ErrAdminStatusCheck, err.Error())
	}

	for _, group := range groupsOut.Groups {
		if aws.ToString(group.GroupName) == g.adminGroup {
			return true, nil
		}
	}
	return false, nil
}

// IsVerificationError informa se o erro é uma falha de verificação conhecida,
// em oposição a uma falha inesperada de infraestrutura.
func IsVerificationError(err error) bool {
	return errors.Is(err, token.ErrInvalidFormat) ||
		errors.Is(err, ErrMissingIdentifier) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrAdminStatusCheck)
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
