package fixture

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/reviewdesk/reviewkit/pkg/store"
)

func TestUse_ReleasesAfterTest(t *testing.T) {
	m, gw := newSQLiteManager(t)

	t.Run("body", func(t *testing.T) {
		ids := Use(t, m, BothReviewersScenario())
		if got := storedIDs(t, gw); !reflect.DeepEqual(got, ids) {
			t.Errorf("Expected %v in store during the test, got %v", ids, got)
		}
	})

	if got := storedIDs(t, gw); len(got) != 0 {
		t.Errorf("Expected rows to be released after the test, got %v", got)
	}
}

func TestUse_ReleasesAfterFailedTest(t *testing.T) {
	m, gw := newSQLiteManager(t)
	tb := &recordingTB{TB: t}

	ids := Use(tb, m, NoReviewersScenario())
	if len(ids) != 3 {
		t.Fatalf("Expected 3 ids, got %v", ids)
	}
	tb.Errorf("assertion in test body failed")
	tb.finish()

	if got := storedIDs(t, gw); len(got) != 0 {
		t.Errorf("Expected rows to be released after a failing test, got %v", got)
	}
	if len(tb.errors) != 1 {
		t.Errorf("Expected only the body failure to be reported, got %v", tb.errors)
	}
}

func TestUse_ProvisionFailure(t *testing.T) {
	m, gw := newSQLiteManager(t)
	tb := &recordingTB{TB: t}

	broken := Scenario{
		Name:    "broken",
		Files:   []string{"NOREW0000001.json", "DOES_NOT_EXIST.json"},
		Overlay: NoReviewers,
	}
	Use(tb, m, broken)

	if len(tb.fatals) != 1 || !strings.Contains(tb.fatals[0], "broken") {
		t.Fatalf("Expected a fatal provisioning report, got %v", tb.fatals)
	}
	tb.finish()

	if got := storedIDs(t, gw); len(got) != 0 {
		t.Errorf("Expected partially inserted rows to be released, got %v", got)
	}
}

func TestUse_ReportsReleaseFailure(t *testing.T) {
	gw := newMemGateway()
	m, err := NewManager(gw, Options{Dir: "testdata/mocks"})
	if err != nil {
		t.Fatal(err)
	}
	tb := &recordingTB{TB: t}

	Use(tb, m, OneReviewerScenario())
	gw.failDelete["ONEREW000002"] = context.DeadlineExceeded
	tb.finish()

	if len(tb.errors) != 1 || !strings.Contains(tb.errors[0], "ONEREW000002") {
		t.Errorf("Expected the release failure to be reported, got %v", tb.errors)
	}
	if len(gw.deletes) != 3 {
		t.Errorf("Expected 3 delete attempts, got %v", gw.deletes)
	}
}

func TestOpen_FromSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.env")
	writeFile(t, path, "REVIEWKIT_DB_DSN="+filepath.Join(dir, "review.db")+"\n")

	s, err := settingsFrom(nil, path)
	if err != nil {
		t.Fatalf("settingsFrom failed: %v", err)
	}
	s.MocksDir, _ = filepath.Abs("testdata/mocks")

	ctx := context.Background()
	m, gw, err := Open(ctx, s)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { gw.Close() })
	if err := gw.CreateTable(ctx); err != nil {
		t.Fatal(err)
	}
	if gw.Table() != store.DefaultTable {
		t.Errorf("Expected default table, got %s", gw.Table())
	}

	ids := Use(t, m, OneReviewerScenario())
	if len(ids) != 3 {
		t.Errorf("Expected 3 ids, got %v", ids)
	}
}
