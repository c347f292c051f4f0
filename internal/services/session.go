package services

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"time"

	"gameroom-backend/internal/catalog"
	"gameroom-backend/internal/config"
	"gameroom-backend/internal/models"
	"gameroom-backend/internal/ws"

	"gorm.io/gorm"
)

// SessionService drives a room's game from the first question to the final
// rankings. Every public method takes the room lock, so mutations to one
// room's state are serialized; rooms never contend with each other.
type SessionService struct {
	db      *gorm.DB
	cfg     *config.Config
	hub     *ws.Hub
	catalog *catalog.Service
	users   *UserService
	locks   *LockTable
}

func NewSessionService(db *gorm.DB, cfg *config.Config, hub *ws.Hub, cat *catalog.Service,
	users *UserService, locks *LockTable) *SessionService {
	return &SessionService{db: db, cfg: cfg, hub: hub, catalog: cat, users: users, locks: locks}
}

// Advance is the host's manual "next question". Only meaningful in quiz mode;
// speed mode advances itself and independent modes have no shared sequence.
func (s *SessionService) Advance(code string, userID uint) error {
	lock := s.locks.Get(code)
	lock.Lock()
	defer lock.Unlock()

	room, session, err := s.load(code)
	if err != nil {
		return err
	}
	if room.HostID != userID {
		return ErrForbidden
	}
	if room.Status != models.RoomStatusPlaying || room.Mode != models.RoomModeQuiz {
		return ErrInvalidState
	}

	switch session.Status {
	case models.SessionStatusQuestion:
		// Host moves on before everyone answered; the question is resolved
		// with whatever responses came in.
		session.Status = models.SessionStatusResolved
	case models.SessionStatusIdle, models.SessionStatusResolved:
	default:
		return ErrInvalidState
	}

	return s.nextQuestionLocked(room, session)
}

// Buzz registers a first-press claim on the active question. Later presses
// are ignored without error; only the first one matters.
func (s *SessionService) Buzz(code string, userID uint) error {
	lock := s.locks.Get(code)
	lock.Lock()
	defer lock.Unlock()

	room, session, err := s.load(code)
	if err != nil {
		return err
	}
	if room.Mode != models.RoomModeQuiz {
		return ErrInvalidState
	}
	if session.Status != models.SessionStatusQuestion {
		return ErrInvalidState
	}
	if err := s.requireMember(room.ID, userID); err != nil {
		return err
	}

	if session.BuzzUserID != 0 {
		return nil
	}

	session.BuzzUserID = userID
	if err := s.db.Save(session).Error; err != nil {
		return fmt.Errorf("failed to record buzz: %w", err)
	}

	s.hub.Broadcast(code, ws.Event{Type: ws.EventBuzzRegistered, Data: map[string]interface{}{
		"user_id":        userID,
		"question_index": session.CurrentQuestion - 1,
	}})
	return nil
}

// SubmitAnswer grades one user's answer for the active question. A user gets
// exactly one recorded response per question.
func (s *SessionService) SubmitAnswer(code string, userID uint, answer string) (*GradedAnswer, error) {
	lock := s.locks.Get(code)
	lock.Lock()
	defer lock.Unlock()

	room, session, err := s.load(code)
	if err != nil {
		return nil, err
	}
	if models.IndependentMode(room.Mode) {
		return nil, ErrInvalidState
	}
	if session.Status != models.SessionStatusQuestion {
		return nil, ErrInvalidState
	}
	if err := s.requireMember(room.ID, userID); err != nil {
		return nil, err
	}

	activeIndex := session.CurrentQuestion - 1

	var existing models.Response
	if err := s.db.Where("room_id = ? AND user_id = ? AND question_index = ?",
		room.ID, userID, activeIndex).First(&existing).Error; err == nil {
		return nil, ErrAlreadyAnswered
	}

	question, err := s.activeQuestion(room, activeIndex)
	if err != nil {
		return nil, err
	}

	correct := equalAnswer(answer, question.Answer)
	score := 0
	if correct {
		score = question.Points
		if score == 0 {
			score = s.cfg.BasePoints
		}
		if room.Mode == models.RoomModeQuiz && session.BuzzUserID == userID {
			score += s.cfg.BuzzBonus
		}
	}

	response := models.Response{
		RoomID:        room.ID,
		UserID:        userID,
		QuestionIndex: activeIndex,
		Answer:        answer,
		IsCorrect:     correct,
		Score:         score,
		AnsweredAt:    time.Now(),
	}
	if err := s.db.Create(&response).Error; err != nil {
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	if score > 0 {
		s.db.Model(&models.Participant{}).
			Where("room_id = ? AND user_id = ?", room.ID, userID).
			Update("score", gorm.Expr("score + ?", score))
	}

	graded := &GradedAnswer{
		QuestionIndex: activeIndex,
		IsCorrect:     correct,
		Score:         score,
	}

	s.hub.SendToUser(code, userID, ws.Event{Type: ws.EventAnswerGraded, Data: graded})
	s.hub.Broadcast(code, ws.Event{Type: ws.EventScoresUpdated, Data: s.leaderboard(room)})

	s.maybeResolveLocked(room, session, activeIndex)
	return graded, nil
}

// CompleteIndependently records one player's finish time in puzzle/coding
// modes. First call wins; once everyone is in, ranks are assigned by
// ascending time and the game ends.
func (s *SessionService) CompleteIndependently(code string, userID uint, elapsed float64) error {
	lock := s.locks.Get(code)
	lock.Lock()
	defer lock.Unlock()

	room, session, err := s.load(code)
	if err != nil {
		return err
	}
	if !models.IndependentMode(room.Mode) {
		return ErrInvalidState
	}
	if session.Status != models.SessionStatusInProgress {
		return ErrInvalidState
	}

	var participant models.Participant
	if err := s.db.Where("room_id = ? AND user_id = ?", room.ID, userID).
		First(&participant).Error; err != nil {
		return ErrNotMember
	}
	if participant.CompletionTime != nil {
		return ErrAlreadyCompleted
	}

	participant.CompletionTime = &elapsed
	if err := s.db.Save(&participant).Error; err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}

	var pending int64
	s.db.Model(&models.Participant{}).
		Where("room_id = ? AND completion_time IS NULL", room.ID).
		Count(&pending)
	if pending > 0 {
		s.hub.Broadcast(code, ws.Event{Type: ws.EventScoresUpdated, Data: s.leaderboard(room)})
		return nil
	}

	return s.finishLocked(room, session)
}

// SessionView is the aggregate snapshot replayed to clients on (re)connect
// and served by the room-details endpoint.
func (s *SessionService) SessionView(code string) (*SessionStateView, error) {
	var room models.Room
	if err := s.db.Where("code = ?", code).First(&room).Error; err != nil {
		return nil, ErrRoomNotFound
	}
	var session models.SessionState
	if err := s.db.Where("room_id = ?", room.ID).First(&session).Error; err != nil {
		return nil, fmt.Errorf("session state missing for room %s: %w", code, err)
	}

	view := &SessionStateView{
		Status:          session.Status,
		CurrentQuestion: session.CurrentQuestion,
		TotalQuestions:  session.TotalQuestions,
		BuzzUserID:      session.BuzzUserID,
	}

	if session.Status == models.SessionStatusQuestion || session.Status == models.SessionStatusResolved {
		activeIndex := session.CurrentQuestion - 1
		question, err := s.activeQuestion(&room, activeIndex)
		if err == nil {
			qv := questionView(question, activeIndex, session.TotalQuestions, s.cfg.BasePoints)
			if session.Status == models.SessionStatusResolved {
				qv.Answer = question.Answer
			}
			view.ActiveQuestion = &qv

			var count int64
			s.db.Model(&models.Response{}).
				Where("room_id = ? AND question_index = ?", room.ID, activeIndex).
				Count(&count)
			view.AnswerCount = int(count)
		}
	}

	return view, nil
}

func (s *SessionService) Leaderboard(code string) ([]RankEntry, error) {
	var room models.Room
	if err := s.db.Where("code = ?", code).First(&room).Error; err != nil {
		return nil, ErrRoomNotFound
	}
	return s.leaderboard(&room), nil
}

// departureRecheckLocked re-runs the completion aggregates after a participant
// leaves mid-game. The leaver no longer counts toward "everyone answered" or
// "everyone completed", so their departure can be the event that closes the
// question or ends the game. Callers hold the room lock.
func (s *SessionService) departureRecheckLocked(room *models.Room) {
	var session models.SessionState
	if err := s.db.Where("room_id = ?", room.ID).First(&session).Error; err != nil {
		return
	}

	if models.IndependentMode(room.Mode) {
		if session.Status != models.SessionStatusInProgress {
			return
		}
		var pending int64
		s.db.Model(&models.Participant{}).
			Where("room_id = ? AND completion_time IS NULL", room.ID).
			Count(&pending)
		if pending > 0 {
			return
		}
		if err := s.finishLocked(room, &session); err != nil {
			log.Printf("session: failed to finish room %s after departure: %v", room.Code, err)
		}
		return
	}

	if session.Status != models.SessionStatusQuestion {
		return
	}
	s.maybeResolveLocked(room, &session, session.CurrentQuestion-1)
}

// nextQuestionLocked advances to the next question or finishes the game when
// the sequence is exhausted. Callers hold the room lock.
func (s *SessionService) nextQuestionLocked(room *models.Room, session *models.SessionState) error {
	if session.CurrentQuestion >= session.TotalQuestions {
		return s.finishLocked(room, session)
	}

	question, err := s.activeQuestion(room, session.CurrentQuestion)
	if err != nil {
		return err
	}

	view := questionView(question, session.CurrentQuestion, session.TotalQuestions, s.cfg.BasePoints)

	session.BuzzUserID = 0
	session.CurrentQuestion++
	session.Status = models.SessionStatusQuestion
	if err := s.db.Save(session).Error; err != nil {
		return fmt.Errorf("failed to advance session: %w", err)
	}

	s.hub.Broadcast(room.Code, ws.Event{Type: ws.EventQuestionLoaded, Data: view})
	return nil
}

// maybeResolveLocked closes the active question once every participant has a
// recorded response. In speed mode that also schedules the automatic advance.
func (s *SessionService) maybeResolveLocked(room *models.Room, session *models.SessionState, activeIndex int) {
	var responses, participants int64
	s.db.Model(&models.Response{}).
		Where("room_id = ? AND question_index = ?", room.ID, activeIndex).
		Count(&responses)
	s.db.Model(&models.Participant{}).Where("room_id = ?", room.ID).Count(&participants)

	if responses < participants {
		return
	}

	session.Status = models.SessionStatusResolved
	if err := s.db.Save(session).Error; err != nil {
		log.Printf("session: failed to resolve question in room %s: %v", room.Code, err)
		return
	}

	if room.Mode == models.RoomModeSpeed {
		code := room.Code
		expected := session.CurrentQuestion
		time.AfterFunc(s.cfg.AutoAdvanceDelay, func() {
			s.autoAdvance(code, expected)
		})
	}
}

// autoAdvance fires after the speed-mode delay. State is re-checked under the
// lock: if the room moved on (or died) in the meantime, this is a no-op.
func (s *SessionService) autoAdvance(code string, expectedQuestion int) {
	lock := s.locks.Get(code)
	lock.Lock()
	defer lock.Unlock()

	room, session, err := s.load(code)
	if err != nil {
		return
	}
	if session.Status != models.SessionStatusResolved || session.CurrentQuestion != expectedQuestion {
		return
	}

	if err := s.nextQuestionLocked(room, session); err != nil {
		log.Printf("session: auto-advance failed in room %s: %v", code, err)
	}
}

// finishLocked ranks everyone and ends the game. Quiz/speed rank by score
// descending with join order breaking ties; independent modes rank by
// ascending completion time.
func (s *SessionService) finishLocked(room *models.Room, session *models.SessionState) error {
	var participants []models.Participant
	s.db.Where("room_id = ?", room.ID).Order("joined_at ASC").Find(&participants)

	if models.IndependentMode(room.Mode) {
		sort.SliceStable(participants, func(i, j int) bool {
			ti, tj := participants[i].CompletionTime, participants[j].CompletionTime
			if ti == nil || tj == nil {
				return tj == nil && ti != nil
			}
			return *ti < *tj
		})
	} else {
		sort.SliceStable(participants, func(i, j int) bool {
			return participants[i].Score > participants[j].Score
		})
	}

	for i := range participants {
		participants[i].Rank = i + 1
		s.db.Model(&models.Participant{}).Where("id = ?", participants[i].ID).
			Update("rank", i+1)
	}

	session.Status = models.SessionStatusFinished
	session.BuzzUserID = 0
	if err := s.db.Save(session).Error; err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}
	room.Status = models.RoomStatusFinished
	if err := s.db.Model(&models.Room{}).Where("id = ?", room.ID).
		Update("status", room.Status).Error; err != nil {
		return fmt.Errorf("failed to finish room: %w", err)
	}

	ids := make([]uint, len(participants))
	for i, p := range participants {
		ids[i] = p.UserID
	}
	names := s.users.Usernames(ids)

	rankings := make([]RankEntry, len(participants))
	for i, p := range participants {
		rankings[i] = RankEntry{
			Position:       p.Rank,
			UserID:         p.UserID,
			Username:       names[p.UserID],
			Score:          p.Score,
			CompletionTime: p.CompletionTime,
		}
	}

	s.hub.Broadcast(room.Code, ws.Event{Type: ws.EventGameFinished, Data: rankings})
	return nil
}

func (s *SessionService) load(code string) (*models.Room, *models.SessionState, error) {
	var room models.Room
	if err := s.db.Where("code = ?", code).First(&room).Error; err != nil {
		return nil, nil, ErrRoomNotFound
	}
	var session models.SessionState
	if err := s.db.Where("room_id = ?", room.ID).First(&session).Error; err != nil {
		return nil, nil, fmt.Errorf("session state missing for room %s: %w", code, err)
	}
	return &room, &session, nil
}

func (s *SessionService) requireMember(roomID, userID uint) error {
	var participant models.Participant
	if err := s.db.Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&participant).Error; err != nil {
		return ErrNotMember
	}
	return nil
}

func (s *SessionService) activeQuestion(room *models.Room, index int) (*models.Question, error) {
	game, err := s.catalog.GetGameWithQuestions(room.GameID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(game.Questions) {
		return nil, ErrNoQuestions
	}
	return &game.Questions[index], nil
}

func (s *SessionService) leaderboard(room *models.Room) []RankEntry {
	var participants []models.Participant
	s.db.Where("room_id = ?", room.ID).
		Order("score DESC, joined_at ASC").
		Find(&participants)

	ids := make([]uint, len(participants))
	for i, p := range participants {
		ids[i] = p.UserID
	}
	names := s.users.Usernames(ids)

	entries := make([]RankEntry, len(participants))
	for i, p := range participants {
		entries[i] = RankEntry{
			Position:       i + 1,
			UserID:         p.UserID,
			Username:       names[p.UserID],
			Score:          p.Score,
			CompletionTime: p.CompletionTime,
		}
	}
	return entries
}

func equalAnswer(submitted, correct string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(correct))
}

// questionView sanitizes a question for broadcast: the correct answer is
// mixed into the option list and never sent on its own before grading.
func questionView(q *models.Question, index, total, basePoints int) QuestionView {
	options := make([]string, 0, len(q.Options)+1)
	for _, o := range q.Options {
		options = append(options, o.Text)
	}
	options = append(options, q.Answer)
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	// Same fallback grading uses, so the advertised points always match the
	// awarded score.
	points := q.Points
	if points == 0 {
		points = basePoints
	}

	return QuestionView{
		Index:     index,
		Number:    index + 1,
		Total:     total,
		Text:      q.Text,
		Options:   options,
		TimeLimit: q.TimeLimit,
		Points:    points,
	}
}

type QuestionView struct {
	Index     int      `json:"index"`
	Number    int      `json:"number"`
	Total     int      `json:"total"`
	Text      string   `json:"text"`
	Options   []string `json:"options"`
	TimeLimit int      `json:"time_limit"`
	Points    int      `json:"points"`
	Answer    string   `json:"answer,omitempty"`
}

type GradedAnswer struct {
	QuestionIndex int  `json:"question_index"`
	IsCorrect     bool `json:"is_correct"`
	Score         int  `json:"score"`
}

type SessionStateView struct {
	Status          string        `json:"status"`
	CurrentQuestion int           `json:"current_question"`
	TotalQuestions  int           `json:"total_questions"`
	BuzzUserID      uint          `json:"buzz_user_id,omitempty"`
	ActiveQuestion  *QuestionView `json:"active_question,omitempty"`
	AnswerCount     int           `json:"answer_count"`
}

type RankEntry struct {
	Position       int      `json:"position"`
	UserID         uint     `json:"user_id"`
	Username       string   `json:"username"`
	Score          int      `json:"score"`
	CompletionTime *float64 `json:"completion_time,omitempty"`
}
