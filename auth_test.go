package main

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signAgentToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestVerifyAgentToken(t *testing.T) {
	auth := NewAgentAuth("test-secret")
	tokenStr := signAgentToken(t, "test-secret", jwt.MapClaims{
		"sub":  "agent_abc",
		"name": "Strategist",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	agentID, name, err := auth.VerifyAgentToken(tokenStr)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if agentID != "agent_abc" || name != "Strategist" {
		t.Errorf("got %q/%q", agentID, name)
	}
}

func TestVerifyAgentTokenRejections(t *testing.T) {
	auth := NewAgentAuth("test-secret")

	wrongKey := signAgentToken(t, "other-secret", jwt.MapClaims{"sub": "agent_abc"})
	if _, _, err := auth.VerifyAgentToken(wrongKey); err == nil {
		t.Error("token signed with the wrong secret should be rejected")
	}

	noSub := signAgentToken(t, "test-secret", jwt.MapClaims{"name": "Nameless"})
	if _, _, err := auth.VerifyAgentToken(noSub); err == nil {
		t.Error("token without a subject should be rejected")
	}

	expired := signAgentToken(t, "test-secret", jwt.MapClaims{
		"sub": "agent_abc",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	if _, _, err := auth.VerifyAgentToken(expired); err == nil {
		t.Error("expired token should be rejected")
	}

	if _, _, err := auth.VerifyAgentToken("not.a.token"); err == nil {
		t.Error("garbage should be rejected")
	}
}

func TestNewAgentAuthEmptySecret(t *testing.T) {
	if NewAgentAuth("") != nil {
		t.Error("empty secret should disable token verification")
	}
}
