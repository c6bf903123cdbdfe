package e2e

import (
	"github.com/cucumber/godog"

	"escriba/e2e/steps/cartorio"
	"escriba/e2e/steps/common"
	"escriba/e2e/steps/lookups"
	"escriba/e2e/steps/ratelimit"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register situação and atribuição steps
	lookups.RegisterSteps(ctx, tc)

	// Register cartório steps
	cartorio.RegisterSteps(ctx, tc)

	// Register rate limit header steps
	ratelimit.RegisterSteps(ctx, tc)
}
