package ws

// Event is the envelope for everything the server pushes over a room socket.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Outbound event names. One per state transition the session machine emits.
const (
	EventRosterChanged  = "room_roster_changed"
	EventAllReady       = "all_ready"
	EventQuestionLoaded = "question_loaded"
	EventBuzzRegistered = "buzz_registered"
	EventAnswerGraded   = "answer_graded"
	EventScoresUpdated  = "scores_updated"
	EventGameStarted    = "game_started"
	EventGameFinished   = "game_finished"
	EventRoomDeleted    = "room_deleted"
	EventError          = "error"
	EventRoomState      = "room_state"
)

// Command is an inbound client message. The Type tag selects which of the
// optional fields are meaningful; Validate enforces that before anything
// reaches the session machine.
type Command struct {
	Type        string  `json:"type"`
	Ready       *bool   `json:"ready,omitempty"`
	Answer      string  `json:"answer,omitempty"`
	ElapsedTime float64 `json:"elapsed_time,omitempty"`
}

const (
	CmdSetReady = "set_ready"
	CmdBuzz     = "buzz"
	CmdAnswer   = "submit_answer"
	CmdComplete = "complete"
	CmdNext     = "next_question"
)

// Validate checks the closed command schema: known type, required fields set.
func (c *Command) Validate() bool {
	switch c.Type {
	case CmdSetReady:
		return c.Ready != nil
	case CmdAnswer:
		return c.Answer != ""
	case CmdComplete:
		return c.ElapsedTime > 0
	case CmdBuzz, CmdNext:
		return true
	}
	return false
}
