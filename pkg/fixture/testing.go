package fixture

import (
	"context"
	"testing"
	"time"
)

const releaseTimeout = 30 * time.Second

// Use provisions sc for the duration of t and registers its release with
// t.Cleanup, so the records are removed whether the test passes, fails or
// panics. A provisioning failure stops the test before its body runs.
func Use(t testing.TB, m *Manager, sc Scenario) []string {
	t.Helper()

	ids, err := m.ProvisionScenario(context.Background(), sc)
	t.Cleanup(func() {
		if len(ids) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := m.Release(ctx, ids); err != nil {
			t.Errorf("fixture: release %s: %v", sc.Name, err)
		}
	})
	if err != nil {
		t.Fatalf("fixture: provision %s: %v", sc.Name, err)
	}
	return ids
}
