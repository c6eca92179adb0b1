package importer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Result accumulates the outcome of one import session. It is owned by a
// single Run invocation and never shared across sessions.
type Result struct {
	TotalRecords         int
	SuccessfulImports    int
	DuplicatesSkipped    int
	FailedImports        int
	CreatedArtworkIDs    []uuid.UUID
	CreatedArtistIDs     []uuid.UUID
	CreatedSubmissionIDs []uuid.UUID
	Errors               []string
	Warnings             []string
	ProcessingTime       time.Duration
}

// recordFailure counts one failed record and keeps its error message.
func (r *Result) recordFailure(label string, err error) {
	r.FailedImports++
	r.Errors = append(r.Errors, fmt.Sprintf("record %s: %v", label, err))
}

// addWarning keeps a non-fatal session-level message.
func (r *Result) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
