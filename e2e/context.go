package e2e

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	jwttoken "locreg/internal/jwt_token"
	id "locreg/pkg/domain"
)

// Well-known development accounts used as named actors in features.
var accounts = map[string]id.AccountID{
	"alice":   "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY",
	"bob":     "5FHneW46xGXgs5mUiveU4sbTyGBzmstUspZC92UhjJM694ty",
	"charlie": "5FLSigC9HGRKVhB9FiEo4Y3koPsNmBmLJbpXg2mp1hXcS59Y",
	"dave":    "5DAAnrj7VHTznn2AWBemMuyBwZWs6FNFjdyVXUeYum3PTXFy",
	"eve":     "5HGjWAeFDfFCWPsjFQdVV2Msvz2XtMktvgocEZcCj68kUMaw",
}

// target is the server under test, set once by TestFeatures.
var target struct {
	baseURL    string
	signingKey string
	issuer     string
	adminToken string
}

// TestContext holds state between test steps
type TestContext struct {
	BaseURL          string
	HTTPClient       *http.Client
	LastResponse     *http.Response
	LastResponseBody []byte

	tokens *jwttoken.JWTService
	// Feature aliases map to ids that are fresh for every scenario.
	locs  map[string]id.LocID
	hexes map[string]string
	// pinned tokens are reused instead of minting a fresh one per request.
	pinned map[string]string
}

// NewTestContext creates a new test context
func NewTestContext() *TestContext {
	return &TestContext{
		BaseURL: target.baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		tokens: jwttoken.NewJWTService(target.signingKey, target.issuer, 15*time.Minute),
		locs:   make(map[string]id.LocID),
		hexes:  make(map[string]string),
		pinned: make(map[string]string),
	}
}

// resolveTarget reads BASE_URL and the matching secrets from the environment.
func resolveTarget() bool {
	target.baseURL = strings.TrimRight(os.Getenv("BASE_URL"), "/")
	target.signingKey = envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production")
	target.issuer = envOr("JWT_ISSUER", "locreg")
	target.adminToken = os.Getenv("ADMIN_TOKEN")
	return target.baseURL != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// POST makes an unauthenticated POST request and stores the response
func (tc *TestContext) POST(path string, body interface{}) error {
	return tc.POSTWithHeaders(path, body, nil)
}

// POSTWithHeaders makes a POST request with optional headers
func (tc *TestContext) POSTWithHeaders(path string, body interface{}, headers map[string]string) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, tc.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return tc.do(req)
}

// POSTAs signs the request with an access token for the named account.
func (tc *TestContext) POSTAs(actor, path string, body interface{}) error {
	headers, err := tc.authHeaders(actor)
	if err != nil {
		return err
	}
	return tc.POSTWithHeaders(path, body, headers)
}

// POSTAdmin sends the configured admin token.
func (tc *TestContext) POSTAdmin(path string, body interface{}) error {
	return tc.POSTWithHeaders(path, body, map[string]string{"X-Admin-Token": target.adminToken})
}

// GET makes a GET request and stores the response
func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, tc.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return tc.do(req)
}

// GETAs signs the request with an access token for the named account.
func (tc *TestContext) GETAs(actor, path string) error {
	headers, err := tc.authHeaders(actor)
	if err != nil {
		return err
	}
	return tc.GET(path, headers)
}

// GETAdmin sends the configured admin token.
func (tc *TestContext) GETAdmin(path string) error {
	return tc.GET(path, map[string]string{"X-Admin-Token": target.adminToken})
}

// CurrentBlock reads the block height from the admin stats without
// replacing the last response.
func (tc *TestContext) CurrentBlock() (uint64, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, tc.BaseURL+"/admin/stats", nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Admin-Token", target.adminToken)

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to read stats: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("admin stats returned %d", resp.StatusCode)
	}

	var stats struct {
		CurrentBlock uint64 `json:"current_block"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return 0, fmt.Errorf("failed to decode stats: %w", err)
	}
	return stats.CurrentBlock, nil
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}

	tc.LastResponse = resp
	tc.LastResponseBody, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

func (tc *TestContext) authHeaders(actor string) (map[string]string, error) {
	token, ok := tc.pinned[actor]
	if !ok {
		var err error
		if token, _, err = tc.issueToken(actor); err != nil {
			return nil, err
		}
	}
	return map[string]string{"Authorization": "Bearer " + token}, nil
}

// PinToken issues a token for actor, uses it for the rest of the scenario and
// returns its JTI.
func (tc *TestContext) PinToken(actor string) (string, error) {
	token, jti, err := tc.issueToken(actor)
	if err != nil {
		return "", err
	}
	tc.pinned[actor] = token
	return jti, nil
}

func (tc *TestContext) issueToken(actor string) (string, string, error) {
	account, err := tc.Account(actor)
	if err != nil {
		return "", "", err
	}
	token, jti, err := tc.tokens.GenerateAccountToken(context.Background(), account)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token for %s: %w", actor, err)
	}
	return token, jti, nil
}

// ResponseContains checks if the response body contains a field or text
func (tc *TestContext) ResponseContains(text string) bool {
	if strings.Contains(string(tc.LastResponseBody), text) {
		return true
	}

	var data map[string]interface{}
	if err := json.Unmarshal(tc.LastResponseBody, &data); err == nil {
		if _, ok := data[text]; ok {
			return true
		}
	}

	return false
}

// Account resolves a named actor.
func (tc *TestContext) Account(name string) (id.AccountID, error) {
	account, ok := accounts[strings.ToLower(name)]
	if !ok {
		return "", fmt.Errorf("unknown account %q", name)
	}
	return account, nil
}

// LocID returns the id behind a LOC alias, allocating it on first use.
func (tc *TestContext) LocID(alias string) id.LocID {
	if locID, ok := tc.locs[alias]; ok {
		return locID
	}
	locID := id.LocID(uuid.New())
	tc.locs[alias] = locID
	return locID
}

// Hex32 maps an alias to a random 32-byte hex value, stable within the scenario.
func (tc *TestContext) Hex32(alias string) string {
	if value, ok := tc.hexes[alias]; ok {
		return value
	}
	sum := sha256.Sum256([]byte(uuid.NewString() + alias))
	value := "0x" + hex.EncodeToString(sum[:])
	tc.hexes[alias] = value
	return value
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.LastResponseBody
}
