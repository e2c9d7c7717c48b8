package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashgen-api/auth"
	"github.com/andrewpaige1/flashgen-api/config"
	"github.com/andrewpaige1/flashgen-api/utils"
)

var testAuth = config.AuthConfig{
	Issuer:    "https://issuer.test/",
	Audience:  "flashgen",
	JWTSecret: "test-secret",
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	owner, _ := utils.GetOwnerID(r)
	w.Write([]byte(owner))
}

func newProtectedHandler(t *testing.T) http.Handler {
	t.Helper()
	ensure, err := EnsureValidToken(testAuth)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /open", whoAmI)
	mux.HandleFunc("GET /private", RequireOwner(whoAmI))
	return ensure(mux)
}

func tokenFor(t *testing.T, cfg config.AuthConfig, subject string) string {
	t.Helper()
	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.Issuer, cfg.Audience)
	require.NoError(t, err)
	token, err := issuer.CreateToken(subject, "")
	require.NoError(t, err)
	return token
}

func TestEnsureValidToken_ValidTokenSetsOwner(t *testing.T) {
	handler := newProtectedHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, testAuth, "user_42"))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user_42", rec.Body.String())
}

func TestEnsureValidToken_NoTokenIsAnonymous(t *testing.T) {
	handler := newProtectedHandler(t)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"You must be logged in to manage flashcards."}`, rec.Body.String())
}

func TestEnsureValidToken_RejectsBadTokens(t *testing.T) {
	handler := newProtectedHandler(t)

	wrongSecret := testAuth
	wrongSecret.JWTSecret = "other-secret"
	wrongAudience := testAuth
	wrongAudience.Audience = "other-api"

	for name, token := range map[string]string{
		"garbage":        "abc.def.ghi",
		"wrong secret":   tokenFor(t, wrongSecret, "user_42"),
		"wrong audience": tokenFor(t, wrongAudience, "user_42"),
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/open", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestEnsureValidToken_Config(t *testing.T) {
	_, err := EnsureValidToken(config.AuthConfig{Audience: "a", JWTSecret: "s"})
	assert.Error(t, err)

	_, err = EnsureValidToken(config.AuthConfig{Issuer: "https://issuer.test/", Audience: "a"})
	assert.Error(t, err)

	_, err = EnsureValidToken(config.AuthConfig{Issuer: "https://issuer.test/", Audience: "a", JWKS: true})
	assert.NoError(t, err)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	handler := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, buf.String(), "POST /generate 418")
}
