package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStaticKeyAuthEmptyKeyAllowsAny(t *testing.T) {
	a := NewAuthenticator(authConfig{})
	if !a.AuthorizeKey("anything") {
		t.Fatal("expected empty StaticKey to allow any api key")
	}
}

func TestStaticKeyAuthRejectsMismatch(t *testing.T) {
	a := NewAuthenticator(authConfig{StaticKey: "secret"})
	if a.AuthorizeKey("wrong") {
		t.Fatal("expected mismatched key to be rejected")
	}
	if !a.AuthorizeKey("secret") {
		t.Fatal("expected matching key to be authorized")
	}
}

func TestJWTAuthRoundTrip(t *testing.T) {
	a := NewAuthenticator(authConfig{SecretKey: "shh"})
	token, err := GenerateJWT("alice", "shh")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	if !a.AuthorizeKey(token) {
		t.Fatal("expected token signed with the right secret to authorize")
	}
	if a.AuthorizeKey("not-a-jwt") {
		t.Fatal("expected garbage token to be rejected")
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	a := NewAuthenticator(authConfig{SecretKey: "shh"})
	token, err := GenerateJWT("alice", "different-secret")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	if a.AuthorizeKey(token) {
		t.Fatal("expected token signed with a different secret to be rejected")
	}
}

func TestJWTAuthorizeRequestParsesBearerHeader(t *testing.T) {
	a := NewAuthenticator(authConfig{SecretKey: "shh"})
	token, err := GenerateJWT("alice", "shh")
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	r := httptest.NewRequest(http.MethodGet, "/api/list", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	if !a.AuthorizeRequest(r) {
		t.Fatal("expected well-formed bearer header to authorize")
	}

	r2 := httptest.NewRequest(http.MethodGet, "/api/list", nil)
	if a.AuthorizeRequest(r2) {
		t.Fatal("expected missing Authorization header to be rejected")
	}
}
