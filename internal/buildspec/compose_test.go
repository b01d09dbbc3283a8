package buildspec

import (
	"errors"
	"reflect"
	"testing"
)

func TestComposeRequiresScriptAndOutputDir(t *testing.T) {
	if _, err := Compose(Options{OutputDir: "dist"}, ""); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions for empty script, got %v", err)
	}
	if _, err := Compose(Options{Script: "app.py"}, ""); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions for empty output dir, got %v", err)
	}
}

func TestComposeDefaultScenario(t *testing.T) {
	opts := Options{
		Script:    "app.py",
		OutputDir: "dist",
		Mode:      ModeOneFile,
		Runtime:   RuntimeWindowed,
	}
	args, err := Compose(opts, "")
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	want := []string{"--onefile", "--windowed", "--noupx", "--distpath", "dist", "app.py"}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", args, want)
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	opts := Options{
		Script:                 "tool.py",
		OutputDir:              "out",
		Mode:                   ModeOneDir,
		Runtime:                RuntimeConsole,
		Name:                   "tool",
		IconPath:               "tool.ico",
		AdminPrivilege:         true,
		CleanCache:             true,
		OverwriteWithoutPrompt: true,
		SpecPath:               "spec",
		WorkPath:               "work",
		UPX:                    UPX{Enabled: true, CustomDir: `C:\upx`},
	}
	first, err := Compose(opts, "")
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	second, err := Compose(opts, "")
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Compose not deterministic:\n%v\n%v", first, second)
	}
	want := []string{
		"--onedir", "--console",
		"--name", "tool",
		"--icon", "tool.ico",
		"--uac-admin", "--clean", "-y",
		"--specpath", "spec",
		"--workpath", "work",
		"--upx-dir", `C:\upx`,
		"--distpath", "out",
		"tool.py",
	}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", first, want)
	}
}

func TestComposeExactlyOneModeAndRuntimeFlag(t *testing.T) {
	for _, opts := range []Options{
		{Script: "a.py", OutputDir: "d", Mode: ModeOneFile, Runtime: RuntimeConsole},
		{Script: "a.py", OutputDir: "d", Mode: ModeOneDir, Runtime: RuntimeWindowed},
		{Script: "a.py", OutputDir: "d"},
	} {
		args, err := Compose(opts, "")
		if err != nil {
			t.Fatalf("Compose returned error: %v", err)
		}
		counts := map[string]int{}
		for _, arg := range args {
			counts[arg]++
		}
		if counts["--onefile"]+counts["--onedir"] != 1 {
			t.Fatalf("expected exactly one mode flag in %v", args)
		}
		if counts["--windowed"]+counts["--console"] != 1 {
			t.Fatalf("expected exactly one runtime flag in %v", args)
		}
	}
}

func TestComposeUPXRules(t *testing.T) {
	base := Options{Script: "a.py", OutputDir: "d"}

	disabled := base
	disabled.UPX = UPX{Enabled: false, CustomDir: `C:\upx`}
	args, err := Compose(disabled, `C:\bundled`)
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	for i, arg := range args {
		if arg == "--upx-dir" {
			t.Fatalf("disabled UPX must not emit --upx-dir (index %d): %v", i, args)
		}
	}
	if !contains(args, "--noupx") {
		t.Fatalf("disabled UPX must emit --noupx: %v", args)
	}

	bundled := base
	bundled.UPX = UPX{Enabled: true}
	args, err = Compose(bundled, `C:\bundled`)
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if !containsPair(args, "--upx-dir", `C:\bundled`) {
		t.Fatalf("expected bundled upx dir in %v", args)
	}

	unresolved := base
	unresolved.UPX = UPX{Enabled: true}
	args, err = Compose(unresolved, "")
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	for _, arg := range args {
		if arg == "--upx-dir" || arg == "--noupx" {
			t.Fatalf("unresolved bundled dir must omit all UPX flags: %v", args)
		}
	}
}

func TestComposeTailOrder(t *testing.T) {
	args, err := Compose(Options{Script: "app.py", OutputDir: "dist", UPX: UPX{}}, "")
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	n := len(args)
	tail := args[n-4:]
	want := []string{"--noupx", "--distpath", "dist", "app.py"}
	if !reflect.DeepEqual(tail, want) {
		t.Fatalf("unexpected tail: got %v want %v", tail, want)
	}
}

func TestExecutableNameDerivedFromScript(t *testing.T) {
	opts := Options{Script: "work/my_tool.py", OutputDir: "dist"}
	if got := opts.Normalized().ExecutableName(); got != "my_tool" {
		t.Fatalf("unexpected derived name: %q", got)
	}
	opts.Name = "custom"
	if got := opts.ExecutableName(); got != "custom" {
		t.Fatalf("expected explicit name to win, got %q", got)
	}
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func containsPair(list []string, flag, value string) bool {
	for i := 0; i+1 < len(list); i++ {
		if list[i] == flag && list[i+1] == value {
			return true
		}
	}
	return false
}
