package preader

import (
	"os"
	"testing"
	"time"
)

func writeAndClose(t *testing.T, s string) *os.File {
	t.Helper()
	var r, w, err = os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	go func() {
		w.WriteString(s)
		w.Close()
	}()
	return r
}

func TestStreamLinesSplitsAndTrims(t *testing.T) {
	var f = writeAndClose(t, "one\r\ntwo\nthree")
	var exited = make(chan struct{})
	var lines []Line
	for line := range StreamLines([]Source{{Stream: Stdout, File: f}}, LineOptions{}, exited) {
		lines = append(lines, line)
	}
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %#v", len(lines), lines)
	}
	if lines[0].Text != "one" || lines[1].Text != "two" || lines[2].Text != "three" {
		t.Fatalf("unexpected text: %#v", lines)
	}
}

func TestStreamLinesMergesStreams(t *testing.T) {
	var out1 = writeAndClose(t, "a\n")
	var out2 = writeAndClose(t, "b\n")
	var exited = make(chan struct{})
	var seen = map[Stream]int{}
	for line := range StreamLines([]Source{
		{Stream: Stdout, File: out1},
		{Stream: Stderr, File: out2},
	}, LineOptions{}, exited) {
		seen[line.Stream]++
	}
	if seen[Stdout] != 1 || seen[Stderr] != 1 {
		t.Fatalf("got %#v", seen)
	}
}

func TestCaptureCombinesBuffers(t *testing.T) {
	var out = writeAndClose(t, "hello")
	var exited = make(chan struct{})
	var result = Capture([]Source{{Stream: Stdout, File: out}}, "", true, exited)
	if string(result.Bytes(Stdout)) != "hello" {
		t.Fatalf("got %q", result.Bytes(Stdout))
	}
	if string(result.Bytes(Combined)) != "hello" {
		t.Fatalf("combined: got %q", result.Bytes(Combined))
	}
	if len(result.Errors()) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors())
	}
}

func TestStreamLinesStopsOnExitSignal(t *testing.T) {
	var r, w, err = os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer w.Close() // simulate a grandchild still holding the write end
	var exited = make(chan struct{})
	var done = make(chan struct{})
	go func() {
		for range StreamLines([]Source{{Stream: Stdout, File: r}}, LineOptions{}, exited) {
		}
		close(done)
	}()
	close(exited)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("StreamLines did not stop after exit signal")
	}
}
