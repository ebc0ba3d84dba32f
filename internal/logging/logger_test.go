package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestNewLogger_CreatesDirAndLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log, err := NewLogger(Options{Dir: dir, Level: "debug"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer func() { _ = log.Sync() }()

	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir missing: %v", err)
	}

	log.Debug("test_message_from_logging_test")

	// Best-effort: a file might not be flushed immediately; don't fail on it.
	if entries, _ := os.ReadDir(dir); len(entries) == 0 {
		t.Logf("no files yet in %s (ok; async writers may delay)", dir)
	}
}

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	if _, err := NewLogger(Options{Dir: t.TempDir(), Level: "loud"}); err == nil {
		t.Fatal("want error for unknown level")
	}
}

func TestCauseChain(t *testing.T) {
	root := errors.New("connection refused")
	err := errors.Wrap(errors.Wrap(root, "GET http://h"), "store tcp result for h")

	got := CauseChain(err)
	want := []string{"store tcp result for h", "GET http://h", "connection refused"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("chain = %q, want %q", got, want)
	}
}

func TestCauseChain_StdlibWrap(t *testing.T) {
	err := fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", os.ErrNotExist))
	got := CauseChain(err)
	want := []string{"outer", "inner", os.ErrNotExist.Error()}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("chain = %q, want %q", got, want)
	}
}

func TestCauseChain_Nil(t *testing.T) {
	if got := CauseChain(nil); len(got) != 0 {
		t.Fatalf("want empty chain, got %q", got)
	}
}
