package perrs

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorfCapturesStack(t *testing.T) {
	var err = Errorf("boom: %d", 42)
	if !HasStack(err) {
		t.Fatal("Errorf did not attach a stack")
	}
	var se *stackErr
	if !errors.As(err, &se) {
		t.Fatal("err is not a *stackErr")
	}
	if !strings.Contains(se.StackTrace(), "TestErrorfCapturesStack") {
		t.Errorf("stack trace missing test function: %s", se.StackTrace())
	}
}

func TestErrorfWrapsAlreadyStackedError(t *testing.T) {
	var err = Errorf("inner")
	var err2 = Errorf("outer: %w", err)
	if !HasStack(err2) {
		t.Fatal("outer error should have a stack")
	}
	if !strings.Contains(err2.Error(), "inner") {
		t.Errorf("outer error lost inner message: %s", err2.Error())
	}
}

func TestAppendError(t *testing.T) {
	if AppendError(nil, nil) != nil {
		t.Error("AppendError(nil, nil) should be nil")
	}
	var err1 = errors.New("first")
	if AppendError(err1, nil) != err1 {
		t.Error("AppendError(err, nil) should return err unchanged")
	}
	var err2 = errors.New("second")
	if AppendError(nil, err2) != err2 {
		t.Error("AppendError(nil, err2) should return err2")
	}
	var combined = AppendError(err1, err2)
	if !strings.Contains(combined.Error(), "first") || !strings.Contains(combined.Error(), "second") {
		t.Errorf("combined error missing a message: %s", combined.Error())
	}
}

func TestKinds(t *testing.T) {
	if err := SpawnConfigError("empty path"); !errors.Is(err, ErrSpawnConfig) {
		t.Errorf("SpawnConfigError does not match ErrSpawnConfig: %v", err)
	}
	if err := PlatformUnsupportedError("SIGUSR1 on windows"); !errors.Is(err, ErrPlatformUnsupported) {
		t.Errorf("PlatformUnsupportedError does not match sentinel: %v", err)
	}
	var err = NewChildExecError("exec", errors.New("no such file"), []string{"a b", "c"})
	if !errors.Is(err, ErrChildExec) {
		t.Errorf("ChildExecError does not match ErrChildExec: %v", err)
	}
	if !strings.Contains(err.Error(), "'a b'") && !strings.Contains(err.Error(), `"a b"`) {
		t.Errorf("ChildExecError message not shell-quoted: %v", err)
	}
}
