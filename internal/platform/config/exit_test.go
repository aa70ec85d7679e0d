package config_test

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/ashfall-games/territory/internal/platform/config"
)

// Exitf calls os.Exit, which cannot be intercepted in-process, so the test
// re-runs itself as a subprocess and checks the exit code and stderr.
func TestExitfFailsWithMessage(t *testing.T) {
	if os.Getenv("TERRITORY_TEST_EXITF") == "1" {
		config.Exitf("Error: %s", "tuning file missing")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfFailsWithMessage$")
	cmd.Env = append(os.Environ(), "TERRITORY_TEST_EXITF=1")

	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != 1 {
		t.Fatalf("expected exit code 1, got %d", exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "Error: tuning file missing") {
		t.Fatalf("expected stderr to carry the message, got %q", string(out))
	}
}
