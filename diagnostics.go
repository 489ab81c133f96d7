package mapmodel

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidLaneConfig signals that tag data implies an inconsistent lane
	// cross-section. Reported per-road; the pipeline clamps the configuration
	// and continues instead of aborting.
	ErrInvalidLaneConfig = errors.New("invalid lane configuration")
	// ErrDegenerateGeometry signals a centerline with fewer than two distinct
	// points or zero length. The road is excluded from the model.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)

type EntityKind uint16

const (
	ENTITY_ROAD = EntityKind(iota + 1)
	ENTITY_INTERSECTION
	ENTITY_BUILDING
	ENTITY_PARCEL

	ENTITY_UNDEFINED = EntityKind(0)
)

func (iotaIdx EntityKind) String() string {
	return [...]string{"undefined", "road", "intersection", "building", "parcel"}[iotaIdx]
}

type IssueKind uint16

const (
	ISSUE_SKIPPED = IssueKind(iota + 1)
	ISSUE_DEFAULTED
	ISSUE_WARNING

	ISSUE_UNDEFINED = IssueKind(0)
)

func (iotaIdx IssueKind) String() string {
	return [...]string{"undefined", "skipped", "defaulted", "warning"}[iotaIdx]
}

// Issue describes one per-entity problem encountered during the batch pass
type Issue struct {
	Kind       IssueKind
	EntityKind EntityKind
	EntityID   int64
	Err        error
	Message    string
}

func (issue Issue) String() string {
	if issue.Err != nil {
		return fmt.Sprintf("%s %s %d: %s: %s", issue.Kind, issue.EntityKind, issue.EntityID, issue.Message, issue.Err)
	}
	return fmt.Sprintf("%s %s %d: %s", issue.Kind, issue.EntityKind, issue.EntityID, issue.Message)
}

// Report accumulates per-entity issues across parallel pipeline stages. A
// failure on one entity never aborts its siblings: the pipeline completes with
// a partial model plus this report.
type Report struct {
	mu     sync.Mutex
	Issues []Issue
}

func (report *Report) add(issue Issue) {
	report.mu.Lock()
	report.Issues = append(report.Issues, issue)
	report.mu.Unlock()
}

// Skipped returns ids of entities of given kind that were excluded from the model
func (report *Report) Skipped(kind EntityKind) []int64 {
	ids := []int64{}
	for _, issue := range report.Issues {
		if issue.Kind == ISSUE_SKIPPED && issue.EntityKind == kind {
			ids = append(ids, issue.EntityID)
		}
	}
	return ids
}
