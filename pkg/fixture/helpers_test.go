package fixture

import (
	"fmt"
	"os"
	"testing"

	"github.com/reviewdesk/reviewkit/pkg/record"
)

func identity(id string) record.Identity {
	return record.Identity{ID: id}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

// recordingTB captures what Use reports instead of failing the real test.
type recordingTB struct {
	testing.TB
	cleanups []func()
	errors   []string
	fatals   []string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Cleanup(f func()) {
	r.cleanups = append(r.cleanups, f)
}

func (r *recordingTB) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recordingTB) Fatalf(format string, args ...any) {
	r.fatals = append(r.fatals, fmt.Sprintf(format, args...))
}

func (r *recordingTB) finish() {
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
}
