package flowgraph

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Onvitec/adminportal-onvitech-sub001/models"
)

func video(title string, isMain bool) models.Video {
	return models.Video{ID: uuid.New(), SessionID: uuid.New(), Title: title, IsMain: isMain}
}

func question(videoID uuid.UUID, text string) models.Question {
	return models.Question{ID: uuid.New(), VideoID: videoID, QuestionText: text}
}

func answer(questionID uuid.UUID, text string, dest *uuid.UUID) models.Answer {
	return models.Answer{ID: uuid.New(), QuestionID: questionID, AnswerText: text, DestinationVideoID: dest}
}

func edgeSet(g *Graph) map[[2]uuid.UUID]int {
	set := make(map[[2]uuid.UUID]int)
	for _, e := range g.Edges {
		set[[2]uuid.UUID{e.From, e.To}]++
	}
	return set
}

func TestBuildEmpty(t *testing.T) {
	g := Build(nil, nil, nil)
	assert.Empty(t, g.Nodes)
	assert.Empty(t, g.Edges)
}

func TestBuildGraphCompleteness(t *testing.T) {
	v1 := video("intro", true)
	v2 := video("branch a", false)
	v3 := video("branch b", false)
	q := question(v1.ID, "where to?")
	a1 := answer(q.ID, "go a", &v2.ID)
	a2 := answer(q.ID, "go b", &v3.ID)

	g := Build(
		[]models.Video{v1, v2, v3},
		[]models.Question{q},
		[]models.Answer{a1, a2},
	)

	require.Len(t, g.Nodes, 6)
	assert.Equal(t, v1.ID, g.RootID)

	edges := edgeSet(g)
	assert.Equal(t, 1, edges[[2]uuid.UUID{v1.ID, q.ID}], "exactly one video->question edge")
	assert.Equal(t, 1, edges[[2]uuid.UUID{q.ID, a1.ID}], "exactly one question->answer edge per answer")
	assert.Equal(t, 1, edges[[2]uuid.UUID{q.ID, a2.ID}])
	assert.Equal(t, 1, edges[[2]uuid.UUID{a1.ID, v2.ID}])
	assert.Equal(t, 1, edges[[2]uuid.UUID{a2.ID, v3.ID}])
	assert.Len(t, g.Edges, 5)
}

func TestBuildRootFallsBackToFirstVideo(t *testing.T) {
	v1 := video("first", false)
	v2 := video("second", false)

	g := Build([]models.Video{v1, v2}, nil, nil)
	assert.Equal(t, v1.ID, g.RootID)
}

func TestBuildCycleTolerance(t *testing.T) {
	vA := video("a", true)
	vB := video("b", false)
	qA := question(vA.ID, "in a")
	qB := question(vB.ID, "in b")
	toB := answer(qA.ID, "to b", &vB.ID)
	toA := answer(qB.ID, "back to a", &vA.ID)

	g := Build(
		[]models.Video{vA, vB},
		[]models.Question{qA, qB},
		[]models.Answer{toB, toA},
	)

	// Two video nodes, two question nodes, two answer nodes. Never more.
	require.Len(t, g.Nodes, 6)
	videoNodes := 0
	for _, n := range g.Nodes {
		if n.Type == NodeVideo {
			videoNodes++
		}
	}
	assert.Equal(t, 2, videoNodes)

	// Both answer->video edges exist, one in each direction; the cycle edge
	// points at the existing node rather than being dropped.
	edges := edgeSet(g)
	assert.Equal(t, 1, edges[[2]uuid.UUID{toB.ID, vB.ID}])
	assert.Equal(t, 1, edges[[2]uuid.UUID{toA.ID, vA.ID}])
}

func TestBuildDanglingDestinationOmitsEdge(t *testing.T) {
	v := video("only", true)
	q := question(v.ID, "q")
	gone := uuid.New()
	a := answer(q.ID, "nowhere", &gone)

	g := Build([]models.Video{v}, []models.Question{q}, []models.Answer{a})

	require.Len(t, g.Nodes, 3)
	for _, e := range g.Edges {
		assert.NotEqual(t, gone, e.To, "no edge may point at a video outside the session")
	}
	assert.Len(t, g.Edges, 2)
}

func TestBuildDisconnectedVideosStillMaterialized(t *testing.T) {
	v1 := video("main", true)
	orphan := video("orphan", false)
	q := question(orphan.ID, "orphan q")
	a := answer(q.ID, "orphan a", nil)

	g := Build([]models.Video{v1, orphan}, []models.Question{q}, []models.Answer{a})

	require.NotNil(t, g.Node(orphan.ID))
	require.NotNil(t, g.Node(q.ID))
	require.NotNil(t, g.Node(a.ID))

	edges := edgeSet(g)
	assert.Equal(t, 1, edges[[2]uuid.UUID{orphan.ID, q.ID}])
	assert.Equal(t, 1, edges[[2]uuid.UUID{q.ID, a.ID}])
}

func TestBuildSharedDestinationConverges(t *testing.T) {
	v1 := video("root", true)
	v2 := video("shared", false)
	q := question(v1.ID, "pick")
	a1 := answer(q.ID, "left", &v2.ID)
	a2 := answer(q.ID, "right", &v2.ID)

	g := Build([]models.Video{v1, v2}, []models.Question{q}, []models.Answer{a1, a2})

	videoNodes := 0
	for _, n := range g.Nodes {
		if n.Type == NodeVideo {
			videoNodes++
		}
	}
	assert.Equal(t, 2, videoNodes, "shared destination is materialized once")

	edges := edgeSet(g)
	assert.Equal(t, 1, edges[[2]uuid.UUID{a1.ID, v2.ID}])
	assert.Equal(t, 1, edges[[2]uuid.UUID{a2.ID, v2.ID}])
}

func TestLayoutLayersByDepth(t *testing.T) {
	v1 := video("root", true)
	v2 := video("next", false)
	q := question(v1.ID, "q")
	a := answer(q.ID, "a", &v2.ID)

	g := Build([]models.Video{v1, v2}, []models.Question{q}, []models.Answer{a})

	root := g.Node(v1.ID)
	qn := g.Node(q.ID)
	an := g.Node(a.ID)
	dest := g.Node(v2.ID)
	require.NotNil(t, root)
	require.NotNil(t, qn)
	require.NotNil(t, an)
	require.NotNil(t, dest)

	assert.Equal(t, 0, root.Depth)
	assert.Equal(t, 1, qn.Depth)
	assert.Equal(t, 2, an.Depth)
	assert.Equal(t, 3, dest.Depth)

	assert.Less(t, root.Y, qn.Y)
	assert.Less(t, qn.Y, an.Y)
	assert.Less(t, an.Y, dest.Y)

	// A single child sits directly under its parent.
	assert.Equal(t, root.X, qn.X)
	assert.Equal(t, qn.X, an.X)
}

func TestLayoutSiblingsCenteredUnderParent(t *testing.T) {
	v := video("root", true)
	q := question(v.ID, "q")
	a1 := answer(q.ID, "a1", nil)
	a2 := answer(q.ID, "a2", nil)
	a3 := answer(q.ID, "a3", nil)

	g := Build([]models.Video{v}, []models.Question{q}, []models.Answer{a1, a2, a3})

	qn := g.Node(q.ID)
	xs := []float64{g.Node(a1.ID).X, g.Node(a2.ID).X, g.Node(a3.ID).X}
	assert.Equal(t, qn.X, (xs[0]+xs[1]+xs[2])/3, "siblings centered around parent x")
	assert.Equal(t, qn.X, xs[1], "middle sibling under parent")
}
