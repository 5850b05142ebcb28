package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	supa "github.com/supabase-community/supabase-go"

	"github.com/Onvitec/adminportal-onvitech-sub001/internal/store"
	"github.com/Onvitec/adminportal-onvitech-sub001/internal/worker"
	"github.com/Onvitec/adminportal-onvitech-sub001/models"
)

// fakeTables serves canned rows for any PostgREST query, honoring the eq
// filter on answers.question_id so the concurrent fan-out gets per-question
// results.
type fakeTables map[string]interface{}

func (ft fakeTables) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := strings.Split(strings.TrimPrefix(r.URL.Path, "/rest/v1/"), "/")[0]
		rows, ok := ft[table]
		if !ok {
			http.Error(w, "relation does not exist", http.StatusNotFound)
			return
		}
		if table == "answers" {
			if filter := r.URL.Query().Get("question_id"); filter != "" {
				qid := strings.TrimPrefix(filter, "eq.")
				var filtered []models.Answer
				for _, a := range rows.([]models.Answer) {
					if a.QuestionID.String() == qid {
						filtered = append(filtered, a)
					}
				}
				rows = filtered
			}
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(rows))
	}
}

func newTestApp(t *testing.T, tables fakeTables) *fiber.App {
	srv := httptest.NewServer(tables.handler(t))
	t.Cleanup(srv.Close)

	client, err := supa.NewClient(srv.URL, "test-key", nil)
	require.NoError(t, err)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	log.SetOutput(io.Discard)

	h := NewApplicationHandler(log, client, store.New(client, log), worker.NewDispatcher(1, 4, log), "session-videos")

	app := fiber.New()
	app.Get("/api/v1/sessions/:sessionId/flow", h.GetSessionFlow)
	app.Post("/api/v1/sessions/:sessionId/resolve", h.ResolveSession)
	app.Get("/api/v1/videos/:videoId/links/active", h.GetActiveLinks)
	return app
}

func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, "success", envelope.Status)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func TestGetSessionFlow(t *testing.T) {
	sessionID := uuid.New()
	v1 := models.Video{ID: uuid.New(), SessionID: sessionID, Title: "intro", IsMain: true}
	v2 := models.Video{ID: uuid.New(), SessionID: sessionID, Title: "next"}
	q := models.Question{ID: uuid.New(), VideoID: v1.ID, QuestionText: "continue?"}
	a := models.Answer{ID: uuid.New(), QuestionID: q.ID, AnswerText: "yes", DestinationVideoID: &v2.ID}

	app := newTestApp(t, fakeTables{
		"videos":    []models.Video{v1, v2},
		"questions": []models.Question{q},
		"answers":   []models.Answer{a},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/"+sessionID.String()+"/flow", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var graph struct {
		RootID uuid.UUID `json:"root_id"`
		Nodes  []struct {
			ID   uuid.UUID `json:"id"`
			Type string    `json:"type"`
		} `json:"nodes"`
		Edges []struct {
			From uuid.UUID `json:"from"`
			To   uuid.UUID `json:"to"`
		} `json:"edges"`
	}
	decodeData(t, resp, &graph)

	assert.Equal(t, v1.ID, graph.RootID)
	assert.Len(t, graph.Nodes, 4)
	assert.Len(t, graph.Edges, 3)
}

func TestGetSessionFlowBadID(t *testing.T) {
	app := newTestApp(t, fakeTables{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/not-a-uuid/flow", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func resolveRequest(t *testing.T, sessionID uuid.UUID, answerIDs ...uuid.UUID) *http.Request {
	ids := make([]string, 0, len(answerIDs))
	for _, id := range answerIDs {
		ids = append(ids, id.String())
	}
	body, err := json.Marshal(map[string]interface{}{"answer_ids": ids})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/"+sessionID.String()+"/resolve", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func TestResolveSession(t *testing.T) {
	sessionID := uuid.New()
	a1, a2 := uuid.New(), uuid.New()
	solutionURL := "https://example.com/offer"
	sol := models.Solution{
		ID:         uuid.New(),
		SessionID:  sessionID,
		CategoryID: models.SolutionCategoryLink,
		Name:       "offer",
		URL:        &solutionURL,
	}
	combo := models.AnswerCombination{
		ID:         uuid.New(),
		SessionID:  sessionID,
		SolutionID: sol.ID,
		CombinationAnswers: []models.CombinationAnswer{
			{ID: uuid.New(), AnswerID: a1},
			{ID: uuid.New(), AnswerID: a2},
		},
	}

	app := newTestApp(t, fakeTables{
		"answer_combinations": []models.AnswerCombination{combo},
		"solutions":           []models.Solution{sol},
	})

	// Selection order must not matter.
	resp, err := app.Test(resolveRequest(t, sessionID, a2, a1), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Solution
	decodeData(t, resp, &got)
	assert.Equal(t, sol.ID, got.ID)

	// A superset of a declared combination is not a match.
	resp, err = app.Test(resolveRequest(t, sessionID, a1, a2, uuid.New()), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "no solution found for this answer combination")
}

func TestResolveSessionMissingSolution(t *testing.T) {
	sessionID := uuid.New()
	a1 := uuid.New()
	combo := models.AnswerCombination{
		ID:                 uuid.New(),
		SessionID:          sessionID,
		SolutionID:         uuid.New(),
		CombinationAnswers: []models.CombinationAnswer{{ID: uuid.New(), AnswerID: a1}},
	}

	app := newTestApp(t, fakeTables{
		"answer_combinations": []models.AnswerCombination{combo},
		"solutions":           []models.Solution{},
	})

	resp, err := app.Test(resolveRequest(t, sessionID, a1), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "solution not found")
}

func TestGetActiveLinks(t *testing.T) {
	nativeW, nativeH := 1920, 1080
	videoID := uuid.New()
	video := models.Video{
		ID: videoID, SessionID: uuid.New(), Title: "clip",
		NativeWidth: &nativeW, NativeHeight: &nativeH,
	}
	duration := 3000
	imgW, imgH := 192.0, 108.0
	active := models.VideoLink{
		ID: uuid.New(), VideoID: videoID, TimestampSeconds: 10, DurationMS: &duration,
		Label: "buy now", PositionX: 50, PositionY: 50,
		ImageWidth: &imgW, ImageHeight: &imgH,
	}
	inactive := models.VideoLink{
		ID: uuid.New(), VideoID: videoID, TimestampSeconds: 60,
		Label: "later", PositionX: 10, PositionY: 10,
	}

	app := newTestApp(t, fakeTables{
		"videos":      []models.Video{video},
		"video_links": []models.VideoLink{active, inactive},
	})

	url := "/api/v1/videos/" + videoID.String() + "/links/active?t=11&rendered_width=960&rendered_height=540"
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var data struct {
		T     float64 `json:"t"`
		Links []struct {
			ID            uuid.UUID `json:"id"`
			EffectiveType string    `json:"effective_type"`
			Placement     *struct {
				X     float64 `json:"x"`
				Width float64 `json:"width"`
			} `json:"placement"`
		} `json:"links"`
	}
	decodeData(t, resp, &data)

	require.Len(t, data.Links, 1)
	assert.Equal(t, active.ID, data.Links[0].ID)
	require.NotNil(t, data.Links[0].Placement)
	// 50% of 960 rendered pixels; image scaled by 960/1920.
	assert.Equal(t, 480.0, data.Links[0].Placement.X)
	assert.Equal(t, 96.0, data.Links[0].Placement.Width)
}

func TestGetActiveLinksRequiresT(t *testing.T) {
	app := newTestApp(t, fakeTables{"video_links": []models.VideoLink{}})
	url := "/api/v1/videos/" + uuid.New().String() + "/links/active"
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
