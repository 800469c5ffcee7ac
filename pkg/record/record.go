// Package record defines the reviewer records seeded into the review table
// and the Record Source files they are loaded from.
package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// TimeLayout is how assignment timestamps are bound to and read from the store.
const TimeLayout = "2006-01-02 15:04:05"

// ErrMalformedFixtureData marks a Record Source file that is missing or
// cannot be parsed into an Identity.
var ErrMalformedFixtureData = errors.New("malformed fixture data")

// Identity is the raw identity carried by a Record Source file.
type Identity struct {
	ID string `json:"id"`
}

// Record is one unit of work under review. Nil fields are stored as NULL.
type Record struct {
	ID            string
	Reviewer1     *string
	Reviewer1Time *time.Time
	Reviewer2     *string
	Reviewer2Time *time.Time
	ToUpdate      *bool
}

// Params returns the named statement parameters for r.
func (r Record) Params() map[string]any {
	return map[string]any{
		"id":             r.ID,
		"reviewer1":      nullString(r.Reviewer1),
		"reviewer1_time": nullTime(r.Reviewer1Time),
		"reviewer2":      nullString(r.Reviewer2),
		"reviewer2_time": nullTime(r.Reviewer2Time),
		"to_update":      nullBool(r.ToUpdate),
	}
}

// LoadIdentity reads the Record Source file at path.
func LoadIdentity(path string) (Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformedFixtureData, err)
	}
	return ParseIdentity(data, path)
}

// ParseIdentity decodes a Record Source document. name only labels errors.
func ParseIdentity(data []byte, name string) (Identity, error) {
	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return Identity{}, fmt.Errorf("%w: %s: %v", ErrMalformedFixtureData, name, err)
	}
	if strings.TrimSpace(id.ID) == "" {
		return Identity{}, fmt.Errorf("%w: %s: missing id", ErrMalformedFixtureData, name)
	}
	return id, nil
}

// ParseTime parses a timestamp written with TimeLayout.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(TimeLayout)
}

func nullBool(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}
