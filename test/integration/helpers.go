// +build integration

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	APIEndpoint string
	Token       string
	Repo        string
	GhapiPath   string
	Verbose     bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIEndpoint: os.Getenv("GHAPI_TEST_API"),
		Token:       os.Getenv("GHAPI_TEST_TOKEN"),
		Repo:        os.Getenv("GHAPI_TEST_REPO"),
		GhapiPath:   getGhapiPath(),
		Verbose:     os.Getenv("GHAPI_TEST_VERBOSE") == "true",
	}
}

// getGhapiPath determines the path to the ghapi binary
func getGhapiPath() string {
	if path := os.Getenv("GHAPI_BINARY_PATH"); path != "" {
		return path
	}

	// Try common locations
	candidates := []string{
		"../../ghapi",
		"./ghapi",
		"../ghapi",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "ghapi" // Fallback to PATH
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	if config.Token == "" {
		t.Skip("GHAPI_TEST_TOKEN not set, skipping integration test")
	}

	if config.Repo == "" {
		t.Skip("GHAPI_TEST_REPO not set, skipping integration test")
	}

	if _, err := os.Stat(config.GhapiPath); os.IsNotExist(err) {
		if _, err := exec.LookPath(config.GhapiPath); err != nil {
			t.Skipf("ghapi binary not found at %s, skipping integration test", config.GhapiPath)
		}
	}
}

// CommandRunner provides utilities for running ghapi commands
type CommandRunner struct {
	config *TestConfig
	t      *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	return &CommandRunner{
		config: config,
		t:      t,
	}
}

// globalArgs returns the flags every invocation carries so tests stay
// independent of any config file on the host.
func (runner *CommandRunner) globalArgs() []string {
	args := []string{"--token", runner.config.Token, "--repo", runner.config.Repo}
	if runner.config.APIEndpoint != "" {
		args = append(args, "--api", runner.config.APIEndpoint)
	}
	return args
}

// Run executes a ghapi command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	fullArgs := append(runner.globalArgs(), args...)
	cmd := exec.Command(runner.config.GhapiPath, fullArgs...)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.GhapiPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunBare executes a ghapi command without the shared global flags
func (runner *CommandRunner) RunBare(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.GhapiPath, args...)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.GhapiPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// RunWithInput executes a ghapi command with stdin input. The shared
// global flags are not added because stdin-driven commands such as
// "auth login --with-token" carry their own credentials.
func (runner *CommandRunner) RunWithInput(input string, args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.GhapiPath, args...)
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.Stdin = strings.NewReader(input)

	if runner.config.Verbose {
		runner.t.Logf("Running with input: %s %s", runner.config.GhapiPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// GenerateTestName creates a unique test resource name
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().Unix())
}

// CleanupResource attempts to delete a test resource
func (runner *CommandRunner) CleanupResource(resourceType, name string) {
	var args []string
	switch resourceType {
	case "label":
		args = []string{"labels", "delete", name}
	case "issue":
		// Issues cannot be deleted through the API, close them instead
		args = []string{"issues", "close", name}
	case "gist":
		args = []string{"gists", "delete", name}
	default:
		runner.t.Logf("Unknown resource type for cleanup: %s", resourceType)
		return
	}

	stdout, stderr, err := runner.Run(args...)
	if err != nil && runner.config.Verbose {
		runner.t.Logf("Cleanup warning for %s %s: %s\nStderr: %s", resourceType, name, stdout, stderr)
	}
}

// WaitForCondition waits for a condition to be met with timeout
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	// Basic JSON validation
	output = strings.TrimSpace(output)
	if !strings.HasPrefix(output, "{") && !strings.HasPrefix(output, "[") {
		t.Errorf("Output does not appear to be JSON: %s", output)
	}
}

// AssertYAMLOutput verifies command output is valid YAML
func AssertYAMLOutput(t *testing.T, output string) {
	// Basic YAML validation
	output = strings.TrimSpace(output)
	if strings.Contains(output, "---") || strings.Contains(output, ":") {
		return // Looks like YAML
	}
	t.Errorf("Output does not appear to be YAML: %s", output)
}
