package coach

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fitcoach/services/coach-api/internal/domain/tools"
)

// ForcedTool is the pre-router's hint: force the model's first call to this
// tool. Args, when non-empty, carries arguments extracted from the message
// (e.g. the session index) and is applied if the model leaves the forced
// call's arguments empty.
type ForcedTool struct {
	Name string
	Args string
}

// Matcher inspects the latest user message and optionally returns a forced
// tool hint. Implementations must be pure; the router is a heuristic
// guardrail, not a correctness requirement.
type Matcher interface {
	Match(message string) *ForcedTool
}

// sessionIndexPattern captures "ma séance 2", "séance n°3", "session 1".
var sessionIndexPattern = regexp.MustCompile(`(?i)s[ée]ance\s*(?:n[°o]\s*)?(\d{1,2})\b|\bsession\s+(\d{1,2})\b`)

type keywordRule struct {
	tool     string
	keywords []string
}

// Rules are checked in order; the first hit wins. Keywords are matched on
// the lowercased message, so accented variants are listed explicitly.
var keywordRules = []keywordRule{
	{tools.NameNextSession, []string{"prochaine séance", "prochaine seance", "next session", "next workout"}},
	{tools.NameWeekSessions, []string{"séances de la semaine", "seances de la semaine", "cette semaine", "this week"}},
	{tools.NameWeeklyProgress, []string{"progression", "progrès", "progres", "progress", "adhérence", "adherence"}},
	{tools.NameWeightHistory, []string{"poids", "weight", "pèse", "pese", "kilos"}},
	{tools.NameNutritionTargets, []string{"calorie", "kcal", "macro", "protéine", "proteine", "protein", "glucide", "lipide", "tdee", "besoin énergétique", "besoin energetique"}},
	{tools.NameNutritionLog, []string{"mangé", "mange", "journal alimentaire", "nutrition log", "what i ate"}},
	{tools.NameUserProfile, []string{"allergie", "allergy", "allergies", "mon profil", "my profile"}},
	{tools.NameCheckinStats, []string{"sommeil", "sleep", "énergie", "energie", "energy", "humeur", "mood"}},
	{tools.NameTrainingPrefs, []string{"split", "zone", "limitation", "matériel", "materiel", "equipment", "équipement", "equipement"}},
}

// KeywordMatcher is the default pre-router: a fixed French/English keyword
// list plus session-index extraction.
type KeywordMatcher struct{}

func NewKeywordMatcher() *KeywordMatcher {
	return &KeywordMatcher{}
}

func (m *KeywordMatcher) Match(message string) *ForcedTool {
	lowered := strings.ToLower(message)

	if groups := sessionIndexPattern.FindStringSubmatch(lowered); groups != nil {
		raw := groups[1]
		if raw == "" {
			raw = groups[2]
		}
		if index, err := strconv.Atoi(raw); err == nil && index >= 1 {
			return &ForcedTool{
				Name: tools.NameSessionByIndex,
				Args: fmt.Sprintf(`{"index": %d}`, index),
			}
		}
	}

	for _, rule := range keywordRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return &ForcedTool{Name: rule.tool}
			}
		}
	}
	return nil
}
