package coach

import (
	"testing"

	"fitcoach/services/coach-api/internal/domain/tools"
)

func TestKeywordMatcherSessionIndex(t *testing.T) {
	matcher := NewKeywordMatcher()

	tests := []struct {
		message  string
		wantArgs string
	}{
		{"Parle-moi de ma séance 2", `{"index": 2}`},
		{"c'était quoi la séance n°3 ?", `{"index": 3}`},
		{"ma seance 1 stp", `{"index": 1}`},
		{"what was session 4 about?", `{"index": 4}`},
	}
	for _, tt := range tests {
		forced := matcher.Match(tt.message)
		if forced == nil {
			t.Errorf("%q: no match", tt.message)
			continue
		}
		if forced.Name != tools.NameSessionByIndex {
			t.Errorf("%q: tool = %s", tt.message, forced.Name)
		}
		if forced.Args != tt.wantArgs {
			t.Errorf("%q: args = %s, want %s", tt.message, forced.Args, tt.wantArgs)
		}
	}
}

func TestKeywordMatcherKeywords(t *testing.T) {
	matcher := NewKeywordMatcher()

	tests := []struct {
		message string
		want    string
	}{
		{"Quel est mon poids ?", tools.NameWeightHistory},
		{"How much do I weight these days", tools.NameWeightHistory},
		{"combien de calories je dois manger", tools.NameNutritionTargets},
		{"j'ai des allergies ?", tools.NameUserProfile},
		{"c'est quand ma prochaine séance ?", tools.NameNextSession},
		{"mes séances de la semaine", tools.NameWeekSessions},
		{"je dors mal, mon sommeil ?", tools.NameCheckinStats},
		{"quel split je fais déjà ?", tools.NameTrainingPrefs},
		{"est-ce que je progresse ?", tools.NameWeeklyProgress},
	}
	for _, tt := range tests {
		forced := matcher.Match(tt.message)
		if forced == nil {
			t.Errorf("%q: no match, want %s", tt.message, tt.want)
			continue
		}
		if forced.Name != tt.want {
			t.Errorf("%q: tool = %s, want %s", tt.message, forced.Name, tt.want)
		}
		if forced.Args != "" {
			t.Errorf("%q: keyword match must not carry args, got %s", tt.message, forced.Args)
		}
	}
}

func TestKeywordMatcherNoMatch(t *testing.T) {
	matcher := NewKeywordMatcher()
	for _, message := range []string{
		"Bonjour !",
		"Donne-moi des conseils d'échauffement",
		"merci coach",
	} {
		if forced := matcher.Match(message); forced != nil {
			t.Errorf("%q: unexpected match %+v", message, forced)
		}
	}
}
