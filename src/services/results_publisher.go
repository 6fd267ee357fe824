package services

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"pipeline/src/clients/xray"
	"pipeline/src/config"
	"pipeline/src/utils"

	"github.com/sirupsen/logrus"
)

// CommandRunner runs the test command. The command's own exit status is
// reported but does not stop publishing: failed tests are results too.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// PublishResult is what the publisher reports back.
type PublishResult struct {
	ExecutionKey string
	BrowseURL    string
	Summary      JUnitSummary
}

type ResultsPublisher struct {
	cfg    config.XrayConfig
	client xray.XrayServiceClientI
	runner CommandRunner
}

func NewResultsPublisher(cfg config.XrayConfig, client xray.XrayServiceClientI, runner CommandRunner) *ResultsPublisher {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &ResultsPublisher{cfg: cfg, client: client, runner: runner}
}

// Publish runs the tests, authenticates and forwards the raw JUnit report.
func (p *ResultsPublisher) Publish(ctx context.Context) (*PublishResult, error) {
	logger := utils.LoggerFromContext(ctx)

	if p.cfg.ClientID == "" || p.cfg.ClientSecret == "" {
		return nil, xray.ErrMissingCredentials
	}

	if len(p.cfg.TestCommand) > 0 {
		logger.WithField("command", strings.Join(p.cfg.TestCommand, " ")).Info("generating JUnit report")
		if err := p.runner.Run(ctx, p.cfg.TestCommand[0], p.cfg.TestCommand[1:]...); err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return nil, fmt.Errorf("failed to run tests: %w", err)
			}
			logger.WithField("exitCode", exitErr.ExitCode()).Warn("test command reported failures")
		}
	}

	report, err := os.ReadFile(p.cfg.ReportFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", p.cfg.ReportFile, err)
	}
	summary, err := SummarizeJUnit(report, p.cfg.ProjectKey)
	if err != nil {
		logger.WithError(err).Warn("could not summarize report, publishing raw file anyway")
	}

	logger.Info("authenticating with xray")
	token, err := p.client.Authenticate(ctx, p.cfg.ClientID, p.cfg.ClientSecret)
	if err != nil {
		return nil, err
	}

	logger.WithField("projectKey", p.cfg.ProjectKey).Info("publishing results to xray")
	imported, err := p.client.ImportJUnit(ctx, token, p.cfg.ProjectKey, report)
	if err != nil {
		return nil, err
	}

	result := &PublishResult{ExecutionKey: imported.Key, Summary: summary}
	if p.cfg.JiraBaseURL != "" {
		result.BrowseURL = strings.TrimRight(p.cfg.JiraBaseURL, "/") + "/browse/" + imported.Key
	}
	logger.WithFields(logrus.Fields{
		"executionKey": result.ExecutionKey,
		"url":          result.BrowseURL,
	}).Info("results published")
	return result, nil
}

// JUnitSummary counts the test cases of a JUnit report and lists the test
// keys found in their names.
type JUnitSummary struct {
	Tests    int
	Failures int
	Skipped  int
	Keys     map[string]string
}

type junitCase struct {
	Name    string    `xml:"name,attr"`
	Failure *struct{} `xml:"failure"`
	Error   *struct{} `xml:"error"`
	Skipped *struct{} `xml:"skipped"`
}

type junitSuite struct {
	Cases  []junitCase  `xml:"testcase"`
	Suites []junitSuite `xml:"testsuite"`
}

// SummarizeJUnit parses a <testsuites> or <testsuite> document. A test named
// like "TestII_61_Sync" maps key "II-61" to PASS or FAIL.
func SummarizeJUnit(report []byte, projectKey string) (JUnitSummary, error) {
	summary := JUnitSummary{Keys: map[string]string{}}

	var root junitSuite
	if err := xml.Unmarshal(report, &root); err != nil {
		return summary, fmt.Errorf("invalid JUnit report: %w", err)
	}

	var keyPattern *regexp.Regexp
	if projectKey != "" {
		keyPattern = regexp.MustCompile(`(?:^|[_/])(?:Test)?(` + regexp.QuoteMeta(projectKey) + `)_(\d+)_`)
	}

	var walk func(s junitSuite)
	walk = func(s junitSuite) {
		for _, c := range s.Cases {
			summary.Tests++
			status := "PASS"
			switch {
			case c.Failure != nil || c.Error != nil:
				summary.Failures++
				status = "FAIL"
			case c.Skipped != nil:
				summary.Skipped++
				status = "SKIP"
			}
			if keyPattern == nil {
				continue
			}
			if m := keyPattern.FindStringSubmatch(c.Name); m != nil {
				summary.Keys[m[1]+"-"+m[2]] = status
			}
		}
		for _, child := range s.Suites {
			walk(child)
		}
	}
	walk(root)
	return summary, nil
}
