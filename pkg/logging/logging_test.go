package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetupLogging_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "keyring-tool.log")
	SetupLogging(true, path)
	defer SetupLogging(false, "")

	if logrus.GetLevel() != logrus.DebugLevel {
		t.Errorf("Expected debug level, got %s", logrus.GetLevel())
	}

	Component("test").Debug("written to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "written to file") || !strings.Contains(string(data), "component=test") {
		t.Errorf("Unexpected log content %q", data)
	}
}

func TestSetupLogging_Level(t *testing.T) {
	SetupLogging(false, "")
	if logrus.GetLevel() != logrus.InfoLevel {
		t.Errorf("Expected info level, got %s", logrus.GetLevel())
	}
}
