package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	id "locreg/pkg/domain"
	"locreg/pkg/requestcontext"
)

const testAccount = "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty"

type MockJWTValidator struct {
	mock.Mock
}

func (m *MockJWTValidator) ValidateToken(tokenString string) (*JWTClaims, error) {
	args := m.Called(tokenString)
	if claims := args.Get(0); claims != nil {
		return claims.(*JWTClaims), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockTokenRevocationChecker struct {
	mock.Mock
}

func (m *MockTokenRevocationChecker) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}

type AuthMiddlewareSuite struct {
	suite.Suite
	validator *MockJWTValidator
	revoker   *MockTokenRevocationChecker
	logger    *slog.Logger

	called bool
	caller id.AccountID
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.validator = new(MockJWTValidator)
	s.revoker = new(MockTokenRevocationChecker)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.called = false
	s.caller = ""
}

func (s *AuthMiddlewareSuite) TearDownTest() {
	s.validator.AssertExpectations(s.T())
	s.revoker.AssertExpectations(s.T())
}

func (s *AuthMiddlewareSuite) serve(revoker TokenRevocationChecker, authHeader string) *httptest.ResponseRecorder {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.called = true
		s.caller = requestcontext.Caller(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/locs/x", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	RequireAuth(s.validator, revoker, s.logger)(next).ServeHTTP(w, req)
	return w
}

func (s *AuthMiddlewareSuite) TestValidToken() {
	s.validator.On("ValidateToken", "good").Return(&JWTClaims{Account: testAccount, JTI: "jti-1"}, nil)
	s.revoker.On("IsTokenRevoked", mock.Anything, "jti-1").Return(false, nil)

	w := s.serve(s.revoker, "Bearer good")

	s.Equal(http.StatusOK, w.Code)
	s.True(s.called)
	s.Equal(id.AccountID(testAccount), s.caller)
}

func (s *AuthMiddlewareSuite) TestValidTokenWithoutRevocationList() {
	s.validator.On("ValidateToken", "good").Return(&JWTClaims{Account: testAccount}, nil)

	w := s.serve(nil, "Bearer good")

	s.Equal(http.StatusOK, w.Code)
	s.Equal(id.AccountID(testAccount), s.caller)
}

func (s *AuthMiddlewareSuite) TestMissingOrMalformedHeader() {
	for name, header := range map[string]string{
		"absent":           "",
		"basic scheme":     "Basic dXNlcjpwYXNz",
		"lowercase scheme": "bearer token",
		"no separator":     "Bearertoken",
		"empty token":      "Bearer ",
		"blank token":      "Bearer    ",
	} {
		s.Run(name, func() {
			w := s.serve(nil, header)

			s.False(s.called)
			s.Equal(http.StatusUnauthorized, w.Code)
			s.Equal(`Bearer realm="locreg"`, w.Header().Get("WWW-Authenticate"))
			s.JSONEq(`{"error":"unauthorized","error_description":"Missing or invalid Authorization header"}`, w.Body.String())
		})
	}
}

func (s *AuthMiddlewareSuite) TestRejectedTokens() {
	tests := []struct {
		name        string
		claims      *JWTClaims
		validateErr error
		revoked     bool
		checkRevoke bool
		description string
	}{
		{name: "invalid signature or expiry", validateErr: errors.New("token expired"), description: "Invalid or expired token"},
		{name: "revoked", claims: &JWTClaims{Account: testAccount, JTI: "jti-1"}, revoked: true, checkRevoke: true, description: "Token has been revoked"},
		{name: "missing jti", claims: &JWTClaims{Account: testAccount}, description: "Token has been revoked"},
		{name: "malformed subject", claims: &JWTClaims{Account: "not an account", JTI: "jti-1"}, checkRevoke: true, description: "Invalid or expired token"},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()
			s.validator.On("ValidateToken", "tok").Return(tt.claims, tt.validateErr)
			if tt.checkRevoke {
				s.revoker.On("IsTokenRevoked", mock.Anything, "jti-1").Return(tt.revoked, nil)
			}

			w := s.serve(s.revoker, "Bearer tok")

			s.False(s.called)
			s.Equal(http.StatusUnauthorized, w.Code)
			s.Equal("application/json", w.Header().Get("Content-Type"))
			s.Contains(w.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
			s.JSONEq(`{"error":"unauthorized","error_description":"`+tt.description+`"}`, w.Body.String())
			s.validator.AssertExpectations(s.T())
			s.revoker.AssertExpectations(s.T())
		})
	}
}

func (s *AuthMiddlewareSuite) TestRevocationStoreFailure() {
	s.validator.On("ValidateToken", "tok").Return(&JWTClaims{Account: testAccount, JTI: "jti-1"}, nil)
	s.revoker.On("IsTokenRevoked", mock.Anything, "jti-1").Return(false, errors.New("redis down"))

	w := s.serve(s.revoker, "Bearer tok")

	s.False(s.called)
	s.Equal(http.StatusInternalServerError, w.Code)
	s.Empty(w.Header().Get("WWW-Authenticate"))
	s.JSONEq(`{"error":"internal_error","error_description":"Failed to validate token"}`, w.Body.String())
}
