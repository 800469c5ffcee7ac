package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
# Comment
KEY1=VALUE1
KEY2="quoted value"

KEY3=
`
	r := strings.NewReader(input)
	cfg, err := Parse(r)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	expected := Config{
		"KEY1": "VALUE1",
		"KEY2": "quoted value",
		"KEY3": "",
	}

	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf("Expected %v, got %v", expected, cfg)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(cfg) != 0 {
		t.Errorf("Expected empty config, got %v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.env")
	if err := os.WriteFile(path, []byte("REVIEWKIT_DB_DSN=file.db\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if got := cfg.Get("REVIEWKIT_DB_DSN", ""); got != "file.db" {
		t.Errorf("Expected file.db, got %q", got)
	}
}

func TestMergeConfigs(t *testing.T) {
	c1 := Config{"A": "1", "B": "1"}
	c2 := Config{"B": "2", "C": "2"}
	c3 := Config{"C": "3", "D": "3"}

	res := MergeConfigs(c1, c2, c3)

	expected := Config{
		"A": "1",
		"B": "1", // c1 has highest priority
		"C": "2", // c2 has middle priority
		"D": "3", // c3 has lowest priority
	}

	if !reflect.DeepEqual(res, expected) {
		t.Errorf("Expected %v, got %v", expected, res)
	}
}

func TestLookup(t *testing.T) {
	cfg := Config{"SET": "x", "EMPTY": ""}
	if v, ok := cfg.Lookup("SET"); !ok || v != "x" {
		t.Errorf("Expected SET=x, got %q %v", v, ok)
	}
	if _, ok := cfg.Lookup("EMPTY"); ok {
		t.Error("Expected empty value to be reported as absent")
	}
	if _, ok := cfg.Lookup("MISSING"); ok {
		t.Error("Expected missing key to be reported as absent")
	}
}

func TestFromEnviron(t *testing.T) {
	environ := []string{
		"SERVICE_NAME=svc",
		"SERVICE_NAME_EXTRA=ignored",
		"REVIEWKIT_DB_DSN=x.db",
		"REVIEWKIT_DB_TABLE=docs",
		"HOME=/root",
		"MALFORMED",
	}
	cfg := FromEnviron(environ, "SERVICE_NAME", "REVIEWKIT_")

	expected := Config{
		"SERVICE_NAME":       "svc",
		"REVIEWKIT_DB_DSN":   "x.db",
		"REVIEWKIT_DB_TABLE": "docs",
	}
	if !reflect.DeepEqual(cfg, expected) {
		t.Errorf("Expected %v, got %v", expected, cfg)
	}
}
