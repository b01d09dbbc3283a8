package buildspec

import (
	"path/filepath"
	"strings"
)

// Mode selects how the packaging tool lays out its output.
type Mode string

const (
	ModeOneFile Mode = "onefile"
	ModeOneDir  Mode = "onedir"
)

// Runtime selects the console behavior of the packaged executable.
type Runtime string

const (
	RuntimeWindowed Runtime = "windowed"
	RuntimeConsole  Runtime = "console"
)

// UPX controls executable compression.
type UPX struct {
	// Enabled requests compression. When false a disable flag is emitted and
	// no directory argument is ever passed.
	Enabled bool
	// CustomDir overrides the bundled compressor location when set.
	CustomDir string
}

// Options is the immutable input of one build. The UI boundary fills it in;
// once a session starts the engine works from its own snapshot.
type Options struct {
	// Script is the Python source file to package. Required.
	Script string
	// OutputDir receives the packaged executable. Required; created if absent.
	OutputDir string

	Mode    Mode
	Runtime Runtime

	// Name of the produced executable. Empty derives it from the script stem.
	Name string
	// IconPath is an optional .ico file.
	IconPath string

	AdminPrivilege         bool
	CleanCache             bool
	OverwriteWithoutPrompt bool

	UPX UPX

	// SpecPath and WorkPath are optional pass-through directories for the
	// packaging tool's spec file and build scratch space.
	SpecPath string
	WorkPath string
}

// Normalized returns a copy with whitespace trimmed and defaults applied.
func (o Options) Normalized() Options {
	o.Script = strings.TrimSpace(o.Script)
	o.OutputDir = strings.TrimSpace(o.OutputDir)
	o.Name = strings.TrimSpace(o.Name)
	o.IconPath = strings.TrimSpace(o.IconPath)
	o.UPX.CustomDir = strings.TrimSpace(o.UPX.CustomDir)
	o.SpecPath = strings.TrimSpace(o.SpecPath)
	o.WorkPath = strings.TrimSpace(o.WorkPath)
	if o.Mode == "" {
		o.Mode = ModeOneFile
	}
	if o.Runtime == "" {
		o.Runtime = RuntimeWindowed
	}
	return o
}

// ExecutableName returns the configured name, or the script stem when unset.
func (o Options) ExecutableName() string {
	if o.Name != "" {
		return o.Name
	}
	base := filepath.Base(o.Script)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
