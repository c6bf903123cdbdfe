package ratelimit

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	GetLastResponseStatus() int
	GetLastResponseHeader(name string) string
}

// RegisterSteps registers rate-limiting step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^the response should carry rate limit headers$`, steps.responseCarriesHeaders)
	ctx.Step(`^I GET "([^"]*)" (\d+) times$`, steps.getNTimes)
	ctx.Step(`^at least one response should be refused with Retry-After$`, steps.oneRefused)
}

type ratelimitSteps struct {
	tc      TestContext
	refused int
	retry   string
}

func (s *ratelimitSteps) responseCarriesHeaders(ctx context.Context) error {
	limit := s.tc.GetLastResponseHeader("X-RateLimit-Limit")
	if _, err := strconv.Atoi(limit); err != nil {
		return fmt.Errorf("expected numeric X-RateLimit-Limit, got %q", limit)
	}
	if s.tc.GetLastResponseHeader("X-RateLimit-Remaining") == "" {
		return fmt.Errorf("missing X-RateLimit-Remaining")
	}
	return nil
}

func (s *ratelimitSteps) getNTimes(ctx context.Context, path string, n int) error {
	s.refused = 0
	for range n {
		if err := s.tc.GET(path); err != nil {
			return err
		}
		if s.tc.GetLastResponseStatus() == 429 {
			s.refused++
			s.retry = s.tc.GetLastResponseHeader("Retry-After")
		}
	}
	return nil
}

func (s *ratelimitSteps) oneRefused(ctx context.Context) error {
	if s.refused == 0 {
		return fmt.Errorf("no request was refused; is RATE_LIMIT_BURST low enough?")
	}
	if s.retry == "" {
		return fmt.Errorf("refused response carried no Retry-After")
	}
	return nil
}
