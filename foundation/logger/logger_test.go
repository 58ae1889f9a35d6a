package logger_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/logger"
)

func Test_New(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.log")

	log, err := logger.New("TEST", path)
	if err != nil {
		t.Fatalf("Should be able to construct a logger: %s", err)
	}

	log.Infow("startup", "status", "started")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Should be able to read the log file: %s", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("Should write a json log entry: %s", err)
	}

	if entry["service"] != "TEST" || entry["msg"] != "startup" || entry["status"] != "started" {
		t.Fatalf("Should have the service, message and fields, got %v", entry)
	}
}
