package e2e

import (
	"github.com/cucumber/godog"

	"locreg/e2e/steps/admin"
	"locreg/e2e/steps/common"
	"locreg/e2e/steps/loc"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	loc.RegisterSteps(ctx, tc)
	admin.RegisterSteps(ctx, tc)
}
