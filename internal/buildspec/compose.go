package buildspec

import (
	"errors"
	"fmt"
)

// ErrInvalidOptions tags composition failures caused by bad input.
var ErrInvalidOptions = errors.New("invalid build options")

// Compose turns options into the packaging tool's argument list. It is pure
// and deterministic; identical input yields an identical list. bundledUPXDir
// is the pre-resolved location of the bundled compressor, empty when
// unresolved. An unresolved bundled dir silently omits the directory flag so
// the tool falls back to its own search; it never aborts composition.
//
// Argument order is fixed so transcripts and tests read the same way from
// build to build:
//
//	mode, runtime, --name, --icon, --uac-admin, --clean, -y,
//	--specpath, --workpath, UPX flags, --distpath, script.
func Compose(opts Options, bundledUPXDir string) ([]string, error) {
	opts = opts.Normalized()
	if opts.Script == "" {
		return nil, fmt.Errorf("%w: script path required", ErrInvalidOptions)
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("%w: output directory required", ErrInvalidOptions)
	}

	args := make([]string, 0, 16)

	switch opts.Mode {
	case ModeOneDir:
		args = append(args, "--onedir")
	default:
		args = append(args, "--onefile")
	}

	switch opts.Runtime {
	case RuntimeConsole:
		args = append(args, "--console")
	default:
		args = append(args, "--windowed")
	}

	if opts.Name != "" {
		args = append(args, "--name", opts.Name)
	}
	if opts.IconPath != "" {
		args = append(args, "--icon", opts.IconPath)
	}
	if opts.AdminPrivilege {
		args = append(args, "--uac-admin")
	}
	if opts.CleanCache {
		args = append(args, "--clean")
	}
	if opts.OverwriteWithoutPrompt {
		args = append(args, "-y")
	}
	if opts.SpecPath != "" {
		args = append(args, "--specpath", opts.SpecPath)
	}
	if opts.WorkPath != "" {
		args = append(args, "--workpath", opts.WorkPath)
	}

	switch {
	case !opts.UPX.Enabled:
		args = append(args, "--noupx")
	case opts.UPX.CustomDir != "":
		args = append(args, "--upx-dir", opts.UPX.CustomDir)
	case bundledUPXDir != "":
		args = append(args, "--upx-dir", bundledUPXDir)
	}

	args = append(args, "--distpath", opts.OutputDir)
	args = append(args, opts.Script)
	return args, nil
}
