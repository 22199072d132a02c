package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	log, err := New("debug", "")
	if err != nil {
		t.Fatal(err)
	}
	log.Debug("console only")

	if _, err := New("verbose", ""); err == nil {
		t.Error("unknown level accepted")
	}
}

func TestNewWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c3tconv.log")
	log, err := New("info", path)
	if err != nil {
		t.Fatal(err)
	}
	log.Info("written to file")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("log file empty")
	}
}
