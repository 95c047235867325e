package game

import "time"

// Event codes. Every broadcast carries one; clients dispatch on it.
const (
	CodeUserChangeState   = "USER_CHANGE_STATE"
	CodeUserCurrentPoint  = "USER_CURRENT_POINT"
	CodeShowCards         = "SHOW_CARDS"
	CodeShowCardsEqual    = "SHOW_CARDS_EQUAL"
	CodeShowCardsNotEqual = "SHOW_CARDS_NOT_EQUAL"
	CodeRestartGame       = "RESTART_GAME"
	CodeStartTimer        = "START_TIMER"
	CodeTimerLeft         = "TIMER_LEFT"
	CodeIsHost            = "IS_HOST"
	CodeInactiveHost      = "INACTIVE_HOST"
	CodeChangeHostTeam    = "CHANGE_HOST_TEAM"
	CodeChangeRole        = "CHANGE_ROLE"
	CodeSelfChangeRole    = "SELF_CHANGE_ROLE"
	CodeAddMember         = "ADD_MEMBER"
	CodePing              = "PING"
	CodeAddCard           = "ADD_CARD"
	CodeImportCard        = "IMPORT_CARD"
	CodeUpdateCard        = "UPDATE_CARD"
	CodeRemoveCardByID    = "REMOVE_CARD_BY_ID"
	CodeRemoveAllCard     = "REMOVE_ALL_CARD"
	CodeSelectCard        = "SELECT_CARD"
	CodeDeselectCard      = "DESELECT_CARD"
)

type Event struct {
	Code         string       `json:"code"`
	UserAction   *UserAction  `json:"user_action,omitempty"`
	CardValues   []CardValue  `json:"card_values,omitempty"`
	CardIssue    *CardIssue   `json:"card_issue,omitempty"`
	CardIssues   []CardIssue  `json:"card_issues,omitempty"`
	Timer        *TimerInfo   `json:"timer,omitempty"`
	CurrentPoint *int         `json:"current_point,omitempty"`
	NewMembers   []MemberInfo `json:"new_members,omitempty"`
}

type UserAction struct {
	ID        uint `json:"id"`
	CardState *int `json:"card_state,omitempty"`
	Role      *int `json:"role,omitempty"`
}

// CardValue is one member's raw pick as stored, sentinels included.
type CardValue struct {
	ID    uint   `json:"id"`
	Point string `json:"point"`
}

type TimerInfo struct {
	Seconds int `json:"seconds"`
	Left    int `json:"left,omitempty"`
}

type CardIssue struct {
	ID          string    `json:"id"`
	Issue       string    `json:"issue"`
	VoteScore   int       `json:"vote_score"`
	Link        string    `json:"link,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func intp(v int) *int { return &v }
