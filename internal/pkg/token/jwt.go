package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidFormat indica um token que não é um JWT estrutural válido
// (número errado de segmentos ou payload de claims indecodificável).
var ErrInvalidFormat = errors.New("Invalid JWT format")

// Claims é o payload de claims extraído do segmento central do token.
type Claims = jwt.MapClaims

// DecodeUnverified decodifica estruturalmente um JWT sem verificar a assinatura.
// O Cognito emite os tokens e a validação criptográfica acontece na borda da
// infraestrutura; aqui interessa apenas extrair as claims do segmento central.
func DecodeUnverified(tokenString string) (Claims, error) {
	claims := Claims{}
	parser := jwt.NewParser()

	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, err.Error())
	}

	return claims, nil
}

// StringClaim retorna a claim como string, se presente e do tipo esperado.
func StringClaim(claims Claims, key string) (string, bool) {
	raw, ok := claims[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// StringListClaim retorna a claim como lista de strings, se presente.
// O decoder JSON entrega listas como []interface{}; elementos não-string
// são ignorados.
func StringListClaim(claims Claims, key string) ([]string, bool) {
	raw, ok := claims[key]
	if !ok {
		return nil, false
	}

	items, ok := raw.([]interface{})
	if !ok {
		return nil, false
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}
