package identity

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"

	"techproducts/internal/pkg/logger"
	"techproducts/internal/pkg/token"
)

// stubCognitoAPI permite configurar as respostas do user pool por teste.
type stubCognitoAPI struct {
	getUserOut   *cognito.AdminGetUserOutput
	getUserErr   error
	groupsOut    *cognito.AdminListGroupsForUserOutput
	groupsErr    error
	getUserCalls int
	groupsCalls  int
}

func (s *stubCognitoAPI) AdminGetUser(ctx context.Context, params *cognito.AdminGetUserInput, optFns ...func(*cognito.Options)) (*cognito.AdminGetUserOutput, error) {
	s.getUserCalls++
	return s.getUserOut, s.getUserErr
}

func (s *stubCognitoAPI) AdminListGroupsForUser(ctx context.Context, params *cognito.AdminListGroupsForUserInput, optFns ...func(*cognito.Options)) (*cognito.AdminListGroupsForUserOutput, error) {
	s.groupsCalls++
	return s.groupsOut, s.groupsErr
}

func newGateway(stub *stubCognitoAPI) *CognitoGateway {
	return &CognitoGateway{
		client:     stub,
		userPoolID: "us-east-1_testpool",
		adminGroup: "admin",
		logger:     logger.NewLogger("error"),
	}
}

func makeToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	assert.NoError(t, err)

	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".signature"
}

func TestVerifyToken_GroupsInToken(t *testing.T) {
	stub := &stubCognitoAPI{}
	gateway := newGateway(stub)

	tokenString := makeToken(t, map[string]interface{}{
		"sub":              "test-user-id",
		"cognito:username": "test-user",
		"email":            "test@example.com",
		"cognito:groups":   []string{"admin", "users"},
	})

	principal, err := gateway.VerifyToken(context.Background(), tokenString)

	assert.NoError(t, err)
	assert.Equal(t, "test-user", principal.Username)
	assert.True(t, principal.IsAdmin)
	assert.Equal(t, "test-user-id", principal.Attributes["sub"])
	assert.Equal(t, "test@example.com", principal.Attributes["email"])
	// Com grupos no próprio token, o provedor não é consultado.
	assert.Zero(t, stub.getUserCalls)
	assert.Zero(t, stub.groupsCalls)
}

func TestVerifyToken_NonAdminGroups(t *testing.T) {
	gateway := newGateway(&stubCognitoAPI{})

	tokenString := makeToken(t, map[string]interface{}{
		"sub":            "test-user-id",
		"cognito:groups": []string{"users"},
	})

	principal, err := gateway.VerifyToken(context.Background(), tokenString)

	assert.NoError(t, err)
	assert.False(t, principal.IsAdmin)
}

func TestVerifyToken_FallbackToProvider(t *testing.T) {
	stub := &stubCognitoAPI{
		getUserOut: &cognito.AdminGetUserOutput{
			Username: aws.String("test-user-id"),
			UserAttributes: []types.AttributeType{
				{Name: aws.String("sub"), Value: aws.String("test-user-id")},
				{Name: aws.String("email"), Value: aws.String("test@example.com")},
			},
		},
		groupsOut: &cognito.AdminListGroupsForUserOutput{
			Groups: []types.GroupType{
				{GroupName: aws.String("users")},
				{GroupName: aws.String("admin")},
			},
		},
	}
	gateway := newGateway(stub)

	// Token sem claim de grupos força a consulta ao user pool.
	tokenString := makeToken(t, map[string]interface{}{"sub": "test-user-id"})

	principal, err := gateway.VerifyToken(context.Background(), tokenString)

	assert.NoError(t, err)
	assert.Equal(t, "test-user-id", principal.Username)
	assert.True(t, principal.IsAdmin)
	assert.Equal(t, "test@example.com", principal.Attributes["email"])
	assert.Equal(t, 1, stub.getUserCalls)
	assert.Equal(t, 1, stub.groupsCalls)
}

func TestVerifyToken_UserNotFound(t *testing.T) {
	stub := &stubCognitoAPI{
		getUserErr: &types.UserNotFoundException{},
	}
	gateway := newGateway(stub)

	tokenString := makeToken(t, map[string]interface{}{"sub": "nonexistent-user"})

	_, err := gateway.VerifyToken(context.Background(), tokenString)

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.True(t, IsVerificationError(err))
}

func TestVerifyToken_AdminStatusCheckFailure(t *testing.T) {
	stub := &stubCognitoAPI{
		getUserOut: &cognito.AdminGetUserOutput{Username: aws.String("test-user-id")},
		groupsErr:  errors.New("error checking groups"),
	}
	gateway := newGateway(stub)

	tokenString := makeToken(t, map[string]interface{}{"sub": "test-user-id"})

	_, err := gateway.VerifyToken(context.Background(), tokenString)

	assert.ErrorIs(t, err, ErrAdminStatusCheck)
	assert.Contains(t, err.Error(), "Failed to verify admin status")
}

func TestVerifyToken_InvalidFormat(t *testing.T) {
	gateway := newGateway(&stubCognitoAPI{})

	_, err := gateway.VerifyToken(context.Background(), "invalid-token")

	assert.ErrorIs(t, err, token.ErrInvalidFormat)
	assert.True(t, IsVerificationError(err))
}

func TestVerifyToken_MissingIdentifier(t *testing.T) {
	gateway := newGateway(&stubCognitoAPI{})

	tokenString := makeToken(t, map[string]interface{}{"email": "test@example.com"})

	_, err := gateway.VerifyToken(context.Background(), tokenString)

	assert.ErrorIs(t, err, ErrMissingIdentifier)
	assert.Contains(t, err.Error(), "user identifier")
}
