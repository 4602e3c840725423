package admin

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POSTAdmin(path string, body interface{}) error
	POSTWithHeaders(path string, body interface{}, headers map[string]string) error
	GET(path string, headers map[string]string) error
	GETAdmin(path string) error
	CurrentBlock() (uint64, error)
	PinToken(actor string) (string, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

// RegisterSteps registers admin-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &adminSteps{tc: tc}

	// Chain steps
	ctx.Step(`^the chain advances (\d+) blocks?$`, steps.chainAdvances)
	ctx.Step(`^I publish a block behind the current one$`, steps.publishOlderBlock)

	// Stats steps
	ctx.Step(`^I request the admin stats$`, steps.requestStats)
	ctx.Step(`^I request the admin stats with token "([^"]*)"$`, steps.requestStatsWithToken)

	// Token steps
	ctx.Step(`^the access token of "([^"]*)" is revoked$`, steps.revokeAccessToken)
}

type adminSteps struct {
	tc TestContext
}

// The block clock is shared by every scenario and never moves back, so
// heights are always relative to the current one.
func (s *adminSteps) chainAdvances(ctx context.Context, blocks int) error {
	current, err := s.tc.CurrentBlock()
	if err != nil {
		return err
	}
	next := current + uint64(blocks) // #nosec G115 -- step regex only matches digits
	if err := s.publishBlock(next); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 204 {
		return fmt.Errorf("failed to publish block %d: status %d: %s", next, status, string(s.tc.GetLastResponseBody()))
	}
	return nil
}

func (s *adminSteps) publishOlderBlock(ctx context.Context) error {
	if err := s.chainAdvances(ctx, 1); err != nil {
		return err
	}
	current, err := s.tc.CurrentBlock()
	if err != nil {
		return err
	}
	return s.publishBlock(current - 1)
}

func (s *adminSteps) publishBlock(block uint64) error {
	return s.tc.POSTAdmin("/admin/chain/block", map[string]interface{}{
		"block": block,
	})
}

func (s *adminSteps) requestStats(ctx context.Context) error {
	return s.tc.GETAdmin("/admin/stats")
}

func (s *adminSteps) requestStatsWithToken(ctx context.Context, token string) error {
	return s.tc.GET("/admin/stats", map[string]string{
		"X-Admin-Token": token,
	})
}

func (s *adminSteps) revokeAccessToken(ctx context.Context, actor string) error {
	jti, err := s.tc.PinToken(actor)
	if err != nil {
		return err
	}
	if err := s.tc.POSTAdmin("/admin/tokens/revoke", map[string]interface{}{
		"jti":         jti,
		"ttl_seconds": 900,
	}); err != nil {
		return err
	}
	if status := s.tc.GetLastResponseStatus(); status != 204 {
		return fmt.Errorf("failed to revoke token: status %d: %s", status, string(s.tc.GetLastResponseBody()))
	}
	return nil
}
