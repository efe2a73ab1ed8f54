package main

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// AgentAuth verifies externally issued agent identity tokens. Session
// issuance lives outside this process; the gateway only checks the HS256
// signature and lifts the stable agent identity out of the claims.
type AgentAuth struct {
	secret []byte
}

// NewAgentAuth returns a verifier for the given shared secret, or nil when
// no secret is configured (anonymous agents only)
func NewAgentAuth(secret string) *AgentAuth {
	if secret == "" {
		return nil
	}
	return &AgentAuth{secret: []byte(secret)}
}

// VerifyAgentToken validates a token and returns the agent id (subject) and
// optional display name claim
func (a *AgentAuth) VerifyAgentToken(tokenStr string) (agentID, displayName string, err error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", "", fmt.Errorf("token has no subject")
	}
	name, _ := claims["name"].(string)
	return sub, name, nil
}
