package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/supabase-community/postgrest-go"
	supa "github.com/supabase-community/supabase-go"

	"github.com/Onvitec/adminportal-onvitech-sub001/models"
)

// Table names in the Supabase project.
const (
	TableSessions           = "sessions"
	TableVideos             = "videos"
	TableVideoLinks         = "video_links"
	TableQuestions          = "questions"
	TableAnswers            = "answers"
	TableCombinations       = "answer_combinations"
	TableCombinationAnswers = "combination_answers"
	TableSolutions          = "solutions"
	TableLeads              = "leads"
	TableWatchEvents        = "watch_events"
	TableVideoStats         = "video_stats"
)

// Store is the read/write boundary to the Entity Store (Supabase tables).
// Rows come back as flat JSON; foreign keys are plain ID strings that get
// joined in memory by the callers. The store does not retry: transport errors
// surface to the caller, which converts them to a user-visible failure.
type Store struct {
	db  *supa.Client
	log *logrus.Logger
}

// New creates a Store over an initialized Supabase client.
func New(db *supa.Client, log *logrus.Logger) *Store {
	return &Store{db: db, log: log}
}

// decodeRows unmarshals a PostgREST response body into typed rows and runs
// each row through its Validate method when it has one, so malformed rows
// fail at this boundary instead of propagating zero values downstream.
func decodeRows[T any](body []byte) ([]T, error) {
	var rows []T
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decoding rows: %w", err)
	}
	for i := range rows {
		if v, ok := any(&rows[i]).(interface{ Validate() error }); ok {
			if err := v.Validate(); err != nil {
				return nil, fmt.Errorf("invalid row: %w", err)
			}
		}
	}
	return rows, nil
}

// SessionByID fetches a single session row, or nil when it does not exist.
func (s *Store) SessionByID(id uuid.UUID) (*models.Session, error) {
	body, _, err := s.db.From(TableSessions).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching session %s: %w", id, err)
	}
	rows, err := decodeRows[models.Session](body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// VideosForSession fetches the session's videos in authoring order.
func (s *Store) VideosForSession(sessionID uuid.UUID) ([]models.Video, error) {
	body, _, err := s.db.From(TableVideos).
		Select("*", "", false).
		Eq("session_id", sessionID.String()).
		Order("order_index", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching videos for session %s: %w", sessionID, err)
	}
	return decodeRows[models.Video](body)
}

// VideoByID fetches a single video row, or nil when it does not exist.
func (s *Store) VideoByID(id uuid.UUID) (*models.Video, error) {
	body, _, err := s.db.From(TableVideos).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching video %s: %w", id, err)
	}
	rows, err := decodeRows[models.Video](body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// LinksForVideo fetches the overlay links of one video ordered by activation
// time.
func (s *Store) LinksForVideo(videoID uuid.UUID) ([]models.VideoLink, error) {
	body, _, err := s.db.From(TableVideoLinks).
		Select("*", "", false).
		Eq("video_id", videoID.String()).
		Order("timestamp_seconds", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching links for video %s: %w", videoID, err)
	}
	return decodeRows[models.VideoLink](body)
}

// QuestionsForVideos fetches every question owned by any of the given videos.
func (s *Store) QuestionsForVideos(videoIDs []uuid.UUID) ([]models.Question, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(videoIDs))
	for _, id := range videoIDs {
		ids = append(ids, id.String())
	}
	body, _, err := s.db.From(TableQuestions).
		Select("*", "", false).
		In("video_id", ids).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching questions: %w", err)
	}
	return decodeRows[models.Question](body)
}

// AnswersForQuestions fetches the answers of every given question. The
// per-question fetches are issued concurrently and merged afterward; ordering
// between them is neither guaranteed nor required since each result set is
// keyed by its own question ID. The merged result is sorted by question ID
// then creation time so callers see a stable order.
func (s *Store) AnswersForQuestions(questionIDs []uuid.UUID) ([]models.Answer, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}

	type result struct {
		answers []models.Answer
		err     error
	}

	results := make(chan result, len(questionIDs))
	var wg sync.WaitGroup
	for _, qid := range questionIDs {
		wg.Add(1)
		go func(qid uuid.UUID) {
			defer wg.Done()
			body, _, err := s.db.From(TableAnswers).
				Select("*", "", false).
				Eq("question_id", qid.String()).
				Execute()
			if err != nil {
				results <- result{err: fmt.Errorf("fetching answers for question %s: %w", qid, err)}
				return
			}
			rows, err := decodeRows[models.Answer](body)
			results <- result{answers: rows, err: err}
		}(qid)
	}
	wg.Wait()
	close(results)

	var merged []models.Answer
	for r := range results {
		if r.err != nil {
			return nil, r.err
		}
		merged = append(merged, r.answers...)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].QuestionID != merged[j].QuestionID {
			return merged[i].QuestionID.String() < merged[j].QuestionID.String()
		}
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})
	return merged, nil
}

// CombinationsForSession fetches the session's answer combinations with their
// member answers embedded via a PostgREST relational select.
func (s *Store) CombinationsForSession(sessionID uuid.UUID) ([]models.AnswerCombination, error) {
	body, _, err := s.db.From(TableCombinations).
		Select("*, combination_answers(*)", "", false).
		Eq("session_id", sessionID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching combinations for session %s: %w", sessionID, err)
	}
	return decodeRows[models.AnswerCombination](body)
}

// SolutionsForSession fetches the session's terminal solutions.
func (s *Store) SolutionsForSession(sessionID uuid.UUID) ([]models.Solution, error) {
	body, _, err := s.db.From(TableSolutions).
		Select("*", "", false).
		Eq("session_id", sessionID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching solutions for session %s: %w", sessionID, err)
	}
	return decodeRows[models.Solution](body)
}

// InsertWatchEvent records one playback stretch. The ID and timestamp are
// filled in here when the caller left them zero, so the serialized row never
// carries a nil UUID into the id column.
func (s *Store) InsertWatchEvent(ev models.WatchEvent) error {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	_, _, err := s.db.From(TableWatchEvents).
		Insert(ev, false, "", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("inserting watch event: %w", err)
	}
	return nil
}

// WatchEventsForVideo fetches every recorded watch event of one video.
func (s *Store) WatchEventsForVideo(videoID uuid.UUID) ([]models.WatchEvent, error) {
	body, _, err := s.db.From(TableWatchEvents).
		Select("*", "", false).
		Eq("video_id", videoID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching watch events for video %s: %w", videoID, err)
	}
	return decodeRows[models.WatchEvent](body)
}

// UpsertVideoStats writes the aggregated stats row for a video.
func (s *Store) UpsertVideoStats(stats models.VideoStats) error {
	_, _, err := s.db.From(TableVideoStats).
		Insert(stats, true, "video_id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("upserting stats for video %s: %w", stats.VideoID, err)
	}
	return nil
}

// StatsForSession fetches the aggregated stats rows of every video in a
// session.
func (s *Store) StatsForSession(sessionID uuid.UUID) ([]models.VideoStats, error) {
	body, _, err := s.db.From(TableVideoStats).
		Select("*", "", false).
		Eq("session_id", sessionID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching stats for session %s: %w", sessionID, err)
	}
	return decodeRows[models.VideoStats](body)
}

// StatsForVideo fetches the aggregated stats row of one video, or nil when no
// aggregation has run yet.
func (s *Store) StatsForVideo(videoID uuid.UUID) (*models.VideoStats, error) {
	body, _, err := s.db.From(TableVideoStats).
		Select("*", "", false).
		Eq("video_id", videoID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("fetching stats for video %s: %w", videoID, err)
	}
	rows, err := decodeRows[models.VideoStats](body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
