package pexec

import (
	"context"
	"os"
	"testing"
	"time"
)

// requireITEST skips tests that spawn real system commands unless the
// ITEST environment variable is set, matching the teacher's
// pexec/exec-stream_test.go gating for tests that depend on external
// binaries being present (here: a POSIX shell's coreutils).
func requireITEST(t *testing.T) {
	t.Helper()
	if os.Getenv("ITEST") == "" {
		t.Skip("set ITEST=1 to run tests that spawn real system commands")
	}
}

func TestOptionsValidateRejectsEmptyPath(t *testing.T) {
	var opts = StartOptions{}
	if err := opts.Validate(); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOptionsValidateRejectsEmptyArgs(t *testing.T) {
	var opts = StartOptions{Path: "/bin/true"}
	if err := opts.Validate(); err == nil {
		t.Fatal("expected error for empty argv")
	}
}

func TestOptionsEnvUnreferencedByDefault(t *testing.T) {
	var opts = StartOptions{}
	if _, referenced := opts.Env(); referenced {
		t.Fatal("expected unreferenced environment on a fresh StartOptions")
	}
	opts.SetEnvVar("FOO", "bar")
	if _, referenced := opts.Env(); !referenced {
		t.Fatal("expected referenced=true after SetEnvVar")
	}
}

func TestOptionsInheritHandlesDedupedAgainstStdio(t *testing.T) {
	var opts = StartOptions{
		Path:           "/bin/true",
		Args:           []string{"true"},
		Stdin:          os.Stdin,
		InheritHandles: []*os.File{os.Stdin, os.Stderr},
	}
	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(opts.InheritHandles) != 1 || opts.InheritHandles[0] != os.Stderr {
		t.Fatalf("expected stdin deduped, got %v", opts.InheritHandles)
	}
}

func TestCaptureOutputRunsEcho(t *testing.T) {
	requireITEST(t)
	var stdout, stderr, status, err = CaptureOutput(context.Background(), StartOptions{
		Path: "/bin/echo",
		Args: []string{"echo", "hello"},
	}, "")
	if err != nil {
		t.Fatalf("CaptureOutput: %v", err)
	}
	if !status.Success() {
		t.Fatalf("expected success, got %+v", status)
	}
	if string(stdout) != "hello\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	if len(stderr) != 0 {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestCaptureCombinedNonZeroExit(t *testing.T) {
	requireITEST(t)
	var result, err = CaptureCombined(context.Background(), StartOptions{
		Path: "/bin/sh",
		Args: []string{"sh", "-c", "exit 3"},
	}, "")
	if err != nil {
		t.Fatalf("CaptureCombined: %v", err)
	}
	if result.Status.Kind != ExitStatusNormal || result.Status.Code != 3 {
		t.Fatalf("expected exit code 3, got %+v", result.Status)
	}
}

func TestStreamOutputLinesMergesBothStreams(t *testing.T) {
	requireITEST(t)
	var lines, h, err = StreamOutputLines(context.Background(), StartOptions{
		Path: "/bin/sh",
		Args: []string{"sh", "-c", "echo out1; echo err1 1>&2; echo out2"},
	}, StreamOptions{})
	if err != nil {
		t.Fatalf("StreamOutputLines: %v", err)
	}
	defer h.Dispose()

	var stdoutCount, stderrCount int
	for line := range lines {
		if line.Err != nil {
			t.Fatalf("unexpected line error: %v", line.Err)
		}
		if line.FromStderr {
			stderrCount++
		} else {
			stdoutCount++
		}
	}
	if stdoutCount != 2 || stderrCount != 1 {
		t.Fatalf("got stdout=%d stderr=%d", stdoutCount, stderrCount)
	}
	if status, err := h.Wait(context.Background()); err != nil || !status.Success() {
		t.Fatalf("Wait: status=%+v err=%v", status, err)
	}
}

func TestFireAndForgetDoesNotLeaveZombie(t *testing.T) {
	requireITEST(t)
	var h, err = FireAndForget(StartOptions{Path: "/bin/sleep", Args: []string{"sleep", "0"}})
	if err != nil {
		t.Fatalf("FireAndForget: %v", err)
	}
	select {
	case <-h.Exited():
	case <-time.After(5 * time.Second):
		t.Fatal("process was not reaped")
	}
}

func TestKillTerminatesRunningProcess(t *testing.T) {
	requireITEST(t)
	var h, err = FireAndForget(StartOptions{Path: "/bin/sleep", Args: []string{"sleep", "30"}})
	if err != nil {
		t.Fatalf("FireAndForget: %v", err)
	}
	defer h.Dispose()
	if err := h.Kill(); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	select {
	case <-h.Exited():
	case <-time.After(5 * time.Second):
		t.Fatal("process was not observed exited after Kill")
	}
	var status, waitErr = h.Wait(context.Background())
	if waitErr != nil {
		t.Fatalf("Wait: %v", waitErr)
	}
	if status.Kind != ExitStatusSignaled {
		t.Fatalf("expected signaled status, got %+v", status)
	}
}

// TestCaptureOutputGrandchildHoldsPipe exercises End-to-End scenario 3:
// a grandchild that inherits the child's stdout and sleeps must not
// delay CaptureOutput past the child's own exit — the wait path must
// be identity-based, not pipe-EOF-based (spec.md §4.3, testable
// property "Process-exit independence from pipe EOF").
func TestCaptureOutputGrandchildHoldsPipe(t *testing.T) {
	requireITEST(t)
	var ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var started = time.Now()
	var stdout, _, status, err = CaptureOutput(ctx, StartOptions{
		Path: "/bin/sh",
		Args: []string{"sh", "-c", "echo Child output; (sleep 3 &); exit 0"},
	}, "")
	if err != nil {
		t.Fatalf("CaptureOutput: %v", err)
	}
	if elapsed := time.Since(started); elapsed > 2*time.Second {
		t.Fatalf("CaptureOutput waited %v, expected return near the child's own exit", elapsed)
	}
	if string(stdout) != "Child output\n" {
		t.Fatalf("stdout = %q", stdout)
	}
	if !status.Success() {
		t.Fatalf("expected success, got %+v", status)
	}
}

// TestDiscardDeadlineKillsProcess exercises End-to-End scenario 4: a
// deadline that trips before the child exits on its own must kill and
// reap it, returning a status with Canceled set (spec.md §4.3
// wait_or_kill, §4.6).
func TestDiscardDeadlineKillsProcess(t *testing.T) {
	requireITEST(t)
	var ctx, cancel = context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var started = time.Now()
	var status, err = Discard(ctx, StartOptions{
		Path: "/bin/sleep",
		Args: []string{"sleep", "10"},
	})
	if err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if elapsed := time.Since(started); elapsed > 2*time.Second {
		t.Fatalf("expected kill near the 500ms deadline, took %v", elapsed)
	}
	if !status.Canceled {
		t.Fatalf("expected Canceled status, got %+v", status)
	}
	if status.Kind != ExitStatusSignaled || status.Signal != SIGKILL {
		t.Fatalf("expected SIGKILL-signaled status, got %+v", status)
	}
}

func TestRunConvenience(t *testing.T) {
	requireITEST(t)
	var result, err = Run(context.Background(), "/bin/echo", "hi")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if string(result.Bytes) != "hi\n" {
		t.Fatalf("got %q", result.Bytes)
	}
}
