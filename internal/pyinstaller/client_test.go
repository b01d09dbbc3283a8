package pyinstaller

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"reflect"
	"testing"
	"time"
)

type stubExecutor struct {
	binary string
	args   []string
	dir    string
	lines  []string
	code   int
	err    error
}

func (s *stubExecutor) Run(_ context.Context, binary string, args []string, dir string, onLine func(string)) (int, error) {
	s.binary = binary
	s.args = args
	s.dir = dir
	for _, line := range s.lines {
		if onLine != nil {
			onLine(line)
		}
	}
	return s.code, s.err
}

func TestNewRequiresInterpreterAndModule(t *testing.T) {
	if _, err := New("", "PyInstaller"); err == nil {
		t.Fatal("expected error for empty interpreter")
	}
	if _, err := New("python", " "); err == nil {
		t.Fatal("expected error for empty module")
	}
}

func TestBuildPrependsModuleInvocation(t *testing.T) {
	stub := &stubExecutor{code: 0}
	client, err := New("python", "PyInstaller", WithExecutor(stub))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	code, err := client.Build(context.Background(), []string{"--onefile", "app.py"}, "/work", nil)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if code != 0 {
		t.Fatalf("unexpected exit code: %d", code)
	}
	if stub.binary != "python" {
		t.Fatalf("unexpected binary: %q", stub.binary)
	}
	want := []string{"-m", "PyInstaller", "--onefile", "app.py"}
	if !reflect.DeepEqual(stub.args, want) {
		t.Fatalf("unexpected args: got %v want %v", stub.args, want)
	}
	if stub.dir != "/work" {
		t.Fatalf("unexpected working dir: %q", stub.dir)
	}
}

func TestInvocationEchoesFullCommandLine(t *testing.T) {
	client, err := New("py", "PyInstaller")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	got := client.Invocation([]string{"--clean", "app.py"})
	want := []string{"py", "-m", "PyInstaller", "--clean", "app.py"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected invocation: got %v want %v", got, want)
	}
}

func TestBuildForwardsLines(t *testing.T) {
	stub := &stubExecutor{lines: []string{"first", "second"}, code: 1}
	client, err := New("python", "PyInstaller", WithExecutor(stub))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	var seen []string
	code, err := client.Build(context.Background(), nil, "", func(line string) {
		seen = append(seen, line)
	})
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if code != 1 {
		t.Fatalf("unexpected exit code: %d", code)
	}
	if !reflect.DeepEqual(seen, []string{"first", "second"}) {
		t.Fatalf("unexpected lines: %v", seen)
	}
}

func TestBuildClassifiesSpawnErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"not found", fmt.Errorf("start python: %w", exec.ErrNotFound), ErrToolNotFound},
		{"missing file", fmt.Errorf("start python: %w", fs.ErrNotExist), ErrToolNotFound},
		{"permission", fmt.Errorf("start python: %w", fs.ErrPermission), ErrPermissionDenied},
		{"other", errors.New("fork failed"), ErrSpawnFailed},
		{"run failure", fmt.Errorf("%w: read output: %w", ErrRunFailed, errors.New("token too long")), ErrRunFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubExecutor{code: -1, err: tc.err}
			client, err := New("python", "PyInstaller", WithExecutor(stub))
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}
			if _, err := client.Build(context.Background(), nil, "", nil); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestBuildKeepsRunFailureDistinct(t *testing.T) {
	stub := &stubExecutor{code: -1, err: fmt.Errorf("%w: wait command: %w", ErrRunFailed, errors.New("waitid: no child processes"))}
	client, err := New("python", "PyInstaller", WithExecutor(stub))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, buildErr := client.Build(context.Background(), nil, "", nil)
	if !errors.Is(buildErr, ErrRunFailed) {
		t.Fatalf("expected ErrRunFailed, got %v", buildErr)
	}
	if errors.Is(buildErr, ErrSpawnFailed) {
		t.Fatalf("a failure after start must not report as a spawn failure: %v", buildErr)
	}
}

func TestBuildPassesThroughCancellation(t *testing.T) {
	stub := &stubExecutor{code: -1, err: context.Canceled}
	client, err := New("python", "PyInstaller", WithExecutor(stub))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, buildErr := client.Build(context.Background(), nil, "", nil)
	if !errors.Is(buildErr, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", buildErr)
	}
	for _, sentinel := range []error{ErrToolNotFound, ErrPermissionDenied, ErrSpawnFailed} {
		if errors.Is(buildErr, sentinel) {
			t.Fatalf("cancellation must not look like a spawn failure (%v)", sentinel)
		}
	}
}

func TestCommandExecutorStreamsInOrder(t *testing.T) {
	exe := commandExecutor{grace: time.Second}
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("PYBUNDLE_HELPER_MODE", "")

	var lines []string
	code, err := exe.Run(context.Background(), os.Args[0], []string{"-test.run=TestHelperProcess"}, "", func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if code != 0 {
		t.Fatalf("unexpected exit code: %d", code)
	}
	// The helper alternates stdout and stderr writes; both share one pipe so
	// the transcript must contain all of them in write order.
	want := []string{"out 1", "err 1", "out 2", "err 2"}
	if !reflect.DeepEqual(filterHelperLines(lines), want) {
		t.Fatalf("unexpected transcript: %v", lines)
	}
}

func TestCommandExecutorReportsExitCode(t *testing.T) {
	exe := commandExecutor{grace: time.Second}
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("PYBUNDLE_HELPER_MODE", "fail")

	code, err := exe.Run(context.Background(), os.Args[0], []string{"-test.run=TestHelperProcess"}, "", nil)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if code != 3 {
		t.Fatalf("expected exit code 3, got %d", code)
	}
}

func TestCommandExecutorMissingBinary(t *testing.T) {
	exe := commandExecutor{grace: time.Second}
	_, err := exe.Run(context.Background(), "/nonexistent/pybundle-python", nil, "", nil)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestCommandExecutorCancellationKillsProcess(t *testing.T) {
	exe := commandExecutor{grace: 500 * time.Millisecond}
	t.Setenv("GO_WANT_HELPER_PROCESS", "1")
	t.Setenv("PYBUNDLE_HELPER_MODE", "hang")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(200 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := exe.Run(ctx, os.Args[0], []string{"-test.run=TestHelperProcess"}, "", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("cancelled process lingered for %v", elapsed)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("PYBUNDLE_HELPER_MODE") {
	case "fail":
		fmt.Println("helper: boom")
		os.Exit(3)
	case "hang":
		fmt.Println("helper: hanging")
		time.Sleep(time.Minute)
		os.Exit(0)
	default:
		fmt.Fprintln(os.Stdout, "out 1")
		os.Stdout.Sync()
		fmt.Fprintln(os.Stderr, "err 1")
		os.Stderr.Sync()
		fmt.Fprintln(os.Stdout, "out 2")
		os.Stdout.Sync()
		fmt.Fprintln(os.Stderr, "err 2")
		os.Exit(0)
	}
}

func filterHelperLines(lines []string) []string {
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		switch line {
		case "out 1", "out 2", "err 1", "err 2":
			filtered = append(filtered, line)
		}
	}
	return filtered
}
