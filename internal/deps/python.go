package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"pybundle/internal/upx"
)

// CheckPackagingModule reports whether the packaging module is importable by
// the configured interpreter by asking it for its version.
func CheckPackagingModule(ctx context.Context, python, module string) Status {
	result := Status{
		Name:        module,
		Description: "Builds the standalone executable",
	}

	interpreter := strings.TrimSpace(python)
	if interpreter == "" {
		result.Detail = "interpreter not configured"
		return result
	}
	resolved, err := exec.LookPath(interpreter)
	if err != nil {
		result.Command = interpreter
		result.Detail = fmt.Sprintf("binary %q not found", interpreter)
		return result
	}
	result.Command = fmt.Sprintf("%s -m %s", resolved, module)

	probeCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	out, err := exec.CommandContext(probeCtx, resolved, "-m", module, "--version").CombinedOutput()
	if err != nil {
		result.Detail = fmt.Sprintf("module %q not importable", module)
		return result
	}

	result.Available = true
	if version := strings.TrimSpace(string(out)); version != "" {
		result.Detail = "version " + version
	}
	return result
}

// CheckCompressor reports the UPX binary a build with compression enabled
// would use. A bundled copy next to this executable (or in the configured
// directory) takes precedence over PATH, matching the build-time lookup.
func CheckCompressor(bundledDir string) Status {
	result := Status{
		Name:        "UPX",
		Description: "Optional executable compressor",
		Optional:    true,
	}

	if dir, ok := upx.ResolveBundled(bundledDir); ok {
		result.Command = dir
		result.Available = true
		result.Detail = "bundled"
		return result
	}
	if path, err := exec.LookPath("upx"); err == nil {
		result.Command = path
		result.Available = true
		return result
	}

	result.Command = "upx"
	result.Detail = `binary "upx" not found`
	return result
}
