package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Status reports the availability of one piece of the build environment.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckInterpreter reports whether the configured Python interpreter can be
// launched. It resolves PATH lookups so the doctor output names the binary a
// build would actually run.
func CheckInterpreter(python string) Status {
	status := Status{
		Name:        "Python",
		Command:     strings.TrimSpace(python),
		Description: "Interpreter that runs the packaging tool",
	}
	if status.Command == "" {
		status.Detail = "interpreter not configured"
		return status
	}
	resolved, err := exec.LookPath(status.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Command = resolved
	status.Available = true
	return status
}
