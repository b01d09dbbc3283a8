package upx

import (
	"os"
	"path/filepath"
)

// executableNames are probed inside a candidate directory. Windows installs
// ship UPX.EXE next to the application; POSIX builds of the tool use "upx".
var executableNames = []string{"upx.exe", "UPX.EXE", "upx"}

var osExecutable = os.Executable

// ResolveBundled returns the directory holding the bundled compressor, or
// false when none is present. configuredDir takes precedence; when empty the
// directory of the running executable is probed, matching how the tool is
// distributed. Resolution never fails hard; a missing compressor just means
// the packaging tool searches its own defaults.
func ResolveBundled(configuredDir string) (string, bool) {
	if configuredDir != "" {
		if dirContainsUPX(configuredDir) {
			return configuredDir, true
		}
		return "", false
	}

	self, err := osExecutable()
	if err != nil {
		return "", false
	}
	dir := filepath.Dir(self)
	if dirContainsUPX(dir) {
		return dir, true
	}
	return "", false
}

func dirContainsUPX(dir string) bool {
	for _, name := range executableNames {
		info, err := os.Stat(filepath.Join(dir, name))
		if err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
