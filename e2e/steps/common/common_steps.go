// Package common holds steps shared by every feature: liveness, raw
// requests and response assertions.
package common

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// TestContext is the part of the e2e context these steps need.
type TestContext interface {
	GET(path string, headers map[string]string) error
	ResponseContains(text string) bool
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

func RegisterSteps(sc *godog.ScenarioContext, tc TestContext) {
	s := &steps{tc: tc}

	sc.Step(`^the registry is running$`, s.registryIsRunning)

	sc.Step(`^I GET "([^"]*)" without authorization$`, s.getAnonymous)
	sc.Step(`^I GET "([^"]*)" with invalid token "([^"]*)"$`, s.getWithToken)

	sc.Step(`^the response status should be (\d+)$`, s.statusIs)
	sc.Step(`^the response should contain "([^"]*)"$`, s.bodyContains)
	sc.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, s.fieldEquals)
	sc.Step(`^the response field "([^"]*)" should contain "([^"]*)"$`, s.fieldContains)
	sc.Step(`^the request should be rejected with (\d+) "([^"]*)"$`, s.rejectedWith)
}

type steps struct {
	tc TestContext
}

func (s *steps) registryIsRunning() error {
	if err := s.tc.GET("/health/live", nil); err != nil {
		return err
	}
	return s.statusIs(200)
}

func (s *steps) getAnonymous(path string) error {
	return s.tc.GET(path, nil)
}

func (s *steps) getWithToken(path, token string) error {
	return s.tc.GET(path, map[string]string{"Authorization": "Bearer " + token})
}

func (s *steps) statusIs(want int) error {
	if got := s.tc.GetLastResponseStatus(); got != want {
		return fmt.Errorf("status: want %d, got %d\nbody: %s", want, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *steps) bodyContains(text string) error {
	if !s.tc.ResponseContains(text) {
		return fmt.Errorf("response lacks %q\nbody: %s", text, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *steps) fieldEquals(path, want string) error {
	got, err := s.lookup(path)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%s: want %q, got %q", path, want, got)
	}
	return nil
}

func (s *steps) fieldContains(path, part string) error {
	got, err := s.lookup(path)
	if err != nil {
		return err
	}
	if !strings.Contains(got, part) {
		return fmt.Errorf("%s: %q does not contain %q", path, got, part)
	}
	return nil
}

// rejectedWith checks the status and the rule named in "reason".
func (s *steps) rejectedWith(ctx context.Context, status int, reason string) error {
	if err := s.statusIs(status); err != nil {
		return err
	}
	return s.fieldEquals("reason", reason)
}

// lookup resolves a dotted path such as "items.0.id" in the last JSON body
// and renders the value with fmt.
func (s *steps) lookup(path string) (string, error) {
	var node any
	if err := json.Unmarshal(s.tc.GetLastResponseBody(), &node); err != nil {
		return "", fmt.Errorf("response is not JSON: %w", err)
	}
	for _, part := range strings.Split(path, ".") {
		switch v := node.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return "", fmt.Errorf("%s: %q missing in %s", path, part, s.tc.GetLastResponseBody())
			}
			node = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(v) {
				return "", fmt.Errorf("%s: bad index %q", path, part)
			}
			node = v[i]
		default:
			return "", fmt.Errorf("%s: cannot descend into %T", path, node)
		}
	}
	return fmt.Sprint(node), nil
}
