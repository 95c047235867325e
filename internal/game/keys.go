package game

import "fmt"

// Per-team key layout in the room store. Every key carries the team id so
// any server instance can serve any client.
func gameRoomKey(teamID uint) string    { return fmt.Sprintf("gameroom:%d", teamID) }
func userConnKey(teamID uint) string    { return fmt.Sprintf("userconn:%d", teamID) }
func hostKey(teamID uint) string        { return fmt.Sprintf("hostroom:%d", teamID) }
func adminKey(teamID uint) string       { return fmt.Sprintf("adminroom:%d", teamID) }
func currentCardKey(teamID uint) string { return fmt.Sprintf("currentcard:%d", teamID) }
func cardIssueKey(teamID uint) string   { return fmt.Sprintf("cardissue:%d", teamID) }
func timerKey(teamID uint) string       { return fmt.Sprintf("timer:%d", teamID) }
func countdownKey(teamID uint) string   { return fmt.Sprintf("countdown:%d", teamID) }

func userChannel(teamID, userID uint) string { return fmt.Sprintf("%d:%d", teamID, userID) }

// Sentinel pick values stored in the game-room hash.
const (
	NotPickValue   = "-1"
	SpectatorValue = "-2"
)

// NotPickPoint is the API-side pick that clears a member's card.
const NotPickPoint = -1

// Card states shown to clients.
const (
	CardStateOffline = 0
	CardStateNotPick = 1
	CardStatePicked  = 2
)

func classifyCard(value string) int {
	switch value {
	case "":
		return CardStateOffline
	case NotPickValue, SpectatorValue:
		return CardStateNotPick
	default:
		return CardStatePicked
	}
}
