package combination

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Onvitec/adminportal-onvitech-sub001/models"
)

func combo(sessionID, solutionID uuid.UUID, answerIDs ...uuid.UUID) models.AnswerCombination {
	c := models.AnswerCombination{
		ID:         uuid.New(),
		SessionID:  sessionID,
		SolutionID: solutionID,
	}
	for _, aid := range answerIDs {
		c.CombinationAnswers = append(c.CombinationAnswers, models.CombinationAnswer{
			ID:            uuid.New(),
			CombinationID: c.ID,
			AnswerID:      aid,
		})
	}
	return c
}

func TestKeyOrderIndependent(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	assert.Equal(t, Key([]uuid.UUID{a, b}), Key([]uuid.UUID{b, a}))
	assert.NotEqual(t, Key([]uuid.UUID{a}), Key([]uuid.UUID{a, b}))
}

func TestResolveExactMatchAnyOrder(t *testing.T) {
	session := uuid.New()
	a1, a2, a3 := uuid.New(), uuid.New(), uuid.New()
	s1 := models.Solution{ID: uuid.New(), SessionID: session, CategoryID: models.SolutionCategoryLink, Name: "S1"}
	s2 := models.Solution{ID: uuid.New(), SessionID: session, CategoryID: models.SolutionCategoryLink, Name: "S2"}
	combos := []models.AnswerCombination{
		combo(session, s1.ID, a1, a2),
		combo(session, s2.ID, a1, a3),
	}
	solutions := []models.Solution{s1, s2}

	got, err := Resolve([]uuid.UUID{a2, a1}, combos, solutions)
	require.NoError(t, err)
	assert.Equal(t, s1.ID, got.ID)

	got, err = Resolve([]uuid.UUID{a3, a1}, combos, solutions)
	require.NoError(t, err)
	assert.Equal(t, s2.ID, got.ID)
}

func TestResolveSupersetIsNoMatch(t *testing.T) {
	session := uuid.New()
	a1, a2, a4 := uuid.New(), uuid.New(), uuid.New()
	s1 := models.Solution{ID: uuid.New(), SessionID: session, CategoryID: models.SolutionCategoryLink, Name: "S1"}
	combos := []models.AnswerCombination{combo(session, s1.ID, a1, a2)}

	_, err := Resolve([]uuid.UUID{a1, a2, a4}, combos, []models.Solution{s1})
	assert.ErrorIs(t, err, ErrNoCombinationMatch)

	_, err = Resolve([]uuid.UUID{a1}, combos, []models.Solution{s1})
	assert.ErrorIs(t, err, ErrNoCombinationMatch, "subset must not match either")
}

func TestResolveMissingSolution(t *testing.T) {
	session := uuid.New()
	a1 := uuid.New()
	combos := []models.AnswerCombination{combo(session, uuid.New(), a1)}

	_, err := Resolve([]uuid.UUID{a1}, combos, nil)
	assert.ErrorIs(t, err, ErrSolutionNotFound)
}

func TestResolveFirstMatchWinsOnDuplicates(t *testing.T) {
	session := uuid.New()
	a1 := uuid.New()
	s1 := models.Solution{ID: uuid.New(), SessionID: session, CategoryID: models.SolutionCategoryLink, Name: "first"}
	s2 := models.Solution{ID: uuid.New(), SessionID: session, CategoryID: models.SolutionCategoryLink, Name: "second"}
	combos := []models.AnswerCombination{
		combo(session, s1.ID, a1),
		combo(session, s2.ID, a1),
	}

	got, err := Resolve([]uuid.UUID{a1}, combos, []models.Solution{s1, s2})
	require.NoError(t, err)
	assert.Equal(t, s1.ID, got.ID)
}

func TestDuplicates(t *testing.T) {
	session := uuid.New()
	a1, a2 := uuid.New(), uuid.New()
	combos := []models.AnswerCombination{
		combo(session, uuid.New(), a1, a2),
		combo(session, uuid.New(), a2, a1),
		combo(session, uuid.New(), a1),
	}

	dup := Duplicates(combos)
	require.Len(t, dup, 1)
	assert.Equal(t, Key([]uuid.UUID{a1, a2}), dup[0])

	assert.Empty(t, Duplicates(combos[1:]))
}
