package game

import (
	"reflect"
	"testing"

	"github.com/liemhoanglong/voting-game-server/internal/models"
)

func TestDeck(t *testing.T) {
	t.Parallel()
	want := []int{0, 1, 2, 3, 5, 8, 13, 21, 34, 55, 89}
	if got := Deck(models.VotingSystemFibonacci); !reflect.DeepEqual(got, want) {
		t.Errorf("Deck(fibonacci) = %v, want %v", got, want)
	}
	if got := Deck(42); !reflect.DeepEqual(got, want) {
		t.Errorf("Deck(unknown) = %v, want fibonacci fallback %v", got, want)
	}
}

func TestAllPicked(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		picks map[string]string
		want  bool
	}{
		{"empty room", map[string]string{}, false},
		{"all picked with spectator", map[string]string{"1": "5", "2": "5", "3": SpectatorValue}, true},
		{"one missing pick", map[string]string{"1": "5", "2": NotPickValue}, false},
		{"only spectators", map[string]string{"1": SpectatorValue, "2": SpectatorValue}, false},
		{"single voter picked", map[string]string{"1": "8"}, true},
	}
	for _, tc := range cases {
		if got := allPicked(tc.picks); got != tc.want {
			t.Errorf("%s: allPicked = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestConsensusPoint(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		picks     map[string]string
		want      bool
		wantScore int
	}{
		{"unanimous", map[string]string{"1": "5", "2": "5"}, true, 5},
		{"unanimous with spectator", map[string]string{"1": "5", "2": "5", "3": SpectatorValue}, true, 5},
		{"split", map[string]string{"1": "5", "2": "3"}, false, 0},
		{"only spectators", map[string]string{"1": SpectatorValue}, false, 0},
		{"single voter", map[string]string{"1": "13"}, true, 13},
	}
	for _, tc := range cases {
		got, score := consensusPoint(tc.picks)
		if got != tc.want || score != tc.wantScore {
			t.Errorf("%s: consensusPoint = (%v, %d), want (%v, %d)", tc.name, got, score, tc.want, tc.wantScore)
		}
	}
}

func TestClassifyCard(t *testing.T) {
	t.Parallel()
	cases := []struct {
		value string
		want  int
	}{
		{"", CardStateOffline},
		{NotPickValue, CardStateNotPick},
		{SpectatorValue, CardStateNotPick},
		{"5", CardStatePicked},
		{"0", CardStatePicked},
	}
	for _, tc := range cases {
		if got := classifyCard(tc.value); got != tc.want {
			t.Errorf("classifyCard(%q) = %d, want %d", tc.value, got, tc.want)
		}
	}
}
