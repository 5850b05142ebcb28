package combination

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Onvitec/adminportal-onvitech-sub001/models"
)

// Named resolution failures. Both are user-reported, non-fatal, and leave
// stored data untouched: the viewer goes back and changes answers.
var (
	// ErrNoCombinationMatch: no declared combination equals the selected
	// answer set.
	ErrNoCombinationMatch = errors.New("no solution found for this answer combination")
	// ErrSolutionNotFound: a combination matched but its solution_id does
	// not resolve to any loaded solution.
	ErrSolutionNotFound = errors.New("solution not found")
)

// Key normalizes a set of answer IDs into a canonical, order-independent
// form: IDs sorted and joined. Two sets are equal iff their keys are equal.
func Key(ids []uuid.UUID) string {
	ss := make([]string, 0, len(ids))
	for _, id := range ids {
		ss = append(ss, id.String())
	}
	sort.Strings(ss)
	return strings.Join(ss, "|")
}

// Resolve matches the viewer's full selected answer set against the
// session's declared combinations and returns the terminal solution of the
// match. Matching is exact set equality, never subset or superset. When the
// data is malformed and several combinations share one answer set, the first
// match wins; authoring should have rejected the duplicate (see Duplicates).
//
// The caller guarantees completeness (one selected answer per answered
// question) before resolving; this function does not validate it.
func Resolve(selected []uuid.UUID, combos []models.AnswerCombination, solutions []models.Solution) (*models.Solution, error) {
	want := Key(selected)

	var matched *models.AnswerCombination
	for i := range combos {
		if Key(combos[i].AnswerIDs()) == want {
			matched = &combos[i]
			break
		}
	}
	if matched == nil {
		return nil, ErrNoCombinationMatch
	}

	for i := range solutions {
		if solutions[i].ID == matched.SolutionID {
			return &solutions[i], nil
		}
	}
	return nil, ErrSolutionNotFound
}

// Duplicates reports the canonical keys declared by more than one
// combination in the set. A non-empty result means Resolve's first-match
// policy would be ambiguous, so the authoring API rejects the write instead
// of leaving the ambiguity to playback.
func Duplicates(combos []models.AnswerCombination) []string {
	byKey := make(map[string]int, len(combos))
	for i := range combos {
		byKey[Key(combos[i].AnswerIDs())]++
	}
	var dup []string
	for k, n := range byKey {
		if n > 1 {
			dup = append(dup, k)
		}
	}
	sort.Strings(dup)
	return dup
}
