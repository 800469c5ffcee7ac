package fixture

import (
	"fmt"
	"time"

	"github.com/reviewdesk/reviewkit/pkg/record"
)

// Reviewer identities and assignment times stamped by the built-in overlays.
const (
	User1         = "oleksandra@domen.com"
	User2         = "second_user@post.de"
	Reviewer1Time = "2023-09-01 14:30:00"
	Reviewer2Time = "2023-09-02 17:00:00"
)

// Reviewer is an assigned reviewer and the moment of assignment.
type Reviewer struct {
	Identity   string
	AssignedAt time.Time
}

var (
	reviewer1 = Reviewer{Identity: User1, AssignedAt: mustParseTime(Reviewer1Time)}
	reviewer2 = Reviewer{Identity: User2, AssignedAt: mustParseTime(Reviewer2Time)}
)

func Reviewer1() Reviewer { return reviewer1 }

func Reviewer2() Reviewer { return reviewer2 }

// Overlay turns a raw identity into the complete record to insert. Overlays
// must be pure: the same identity always yields the same record.
type Overlay func(record.Identity) record.Record

// NoReviewers leaves every reviewer field NULL.
func NoReviewers(id record.Identity) record.Record {
	return record.Record{ID: id.ID}
}

// OneReviewer assigns Reviewer1 only.
func OneReviewer(id record.Identity) record.Record {
	r := NoReviewers(id)
	r.Reviewer1, r.Reviewer1Time = reviewer1.fields()
	return r
}

// BothReviewers assigns Reviewer1 and Reviewer2.
func BothReviewers(id record.Identity) record.Record {
	r := OneReviewer(id)
	r.Reviewer2, r.Reviewer2Time = reviewer2.fields()
	return r
}

// OverlayByName resolves the overlay names used in scenario catalogs.
func OverlayByName(name string) (Overlay, error) {
	switch name {
	case "none":
		return NoReviewers, nil
	case "one":
		return OneReviewer, nil
	case "both":
		return BothReviewers, nil
	}
	return nil, fmt.Errorf("fixture: unknown overlay %q (want none, one or both)", name)
}

// fields returns fresh pointers so records never share state.
func (r Reviewer) fields() (*string, *time.Time) {
	identity, at := r.Identity, r.AssignedAt
	return &identity, &at
}

func mustParseTime(s string) time.Time {
	t, err := record.ParseTime(s)
	if err != nil {
		panic(err)
	}
	return t
}
