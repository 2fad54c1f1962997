package coach

import (
	"fmt"
	"strings"

	"fitcoach/services/coach-api/internal/domain/tools"
)

// GenericDisclosurePrefix is the fixed marker the model must open its
// answer with when personal-data access was not granted. The UI relies on
// this exact string.
const GenericDisclosurePrefix = "[Conseil général]"

// ConsentDecision is the result of the consent gate: the system prompt to
// use and whether the tool path is enabled. Decided exactly once per
// request; a later loop iteration may not re-enable tools.
type ConsentDecision struct {
	SystemPrompt string
	ToolsEnabled bool
}

// ResolveConsent applies the consent gate. Only an explicit true grants
// data access; false, absent or anything else selects the generic prompt.
func ResolveConsent(dataConsent *bool, fields PromptFields, catalogue []tools.Spec) ConsentDecision {
	if dataConsent != nil && *dataConsent {
		return ConsentDecision{
			SystemPrompt: groundedPrompt(fields, catalogue),
			ToolsEnabled: true,
		}
	}
	return ConsentDecision{
		SystemPrompt: genericPrompt(fields),
		ToolsEnabled: false,
	}
}

func profileBlock(fields PromptFields) string {
	return fmt.Sprintf(`Profil déclaré :
- Objectif : %s
- Fréquence d'entraînement : %s
- Niveau : %s
- Matériel : %s
- Type de séance : %s
- Limitations : %s`,
		fields.Goal, fields.Frequency, fields.Experience,
		fields.Equipment, fields.SessionType, fields.Limitations)
}

func groundedPrompt(fields PromptFields, catalogue []tools.Spec) string {
	var list strings.Builder
	for _, spec := range catalogue {
		fmt.Fprintf(&list, "- %s : %s\n", spec.Name, spec.Description)
	}

	return fmt.Sprintf(`Tu es un coach sportif et nutritionnel. L'utilisateur a autorisé l'accès à ses données personnelles d'entraînement et de nutrition.

%s

Tu disposes des outils de consultation suivants :
%s
Règles :
- Appelle toujours un outil avant d'annoncer un chiffre personnel (poids, calories, séances, progression). N'invente jamais une valeur.
- Si un outil ne renvoie aucune donnée, dis-le explicitement au lieu d'estimer.
- Réponds dans la langue de l'utilisateur, de façon concise et encourageante.`,
		profileBlock(fields), list.String())
}

func genericPrompt(fields PromptFields) string {
	return fmt.Sprintf(`Tu es un coach sportif et nutritionnel. L'utilisateur n'a PAS autorisé l'accès à ses données personnelles.

%s

Règles :
- Commence impérativement ta réponse par « %s ».
- Ne cite jamais de chiffre personnel (poids, calories consommées, séances réalisées) : tu n'y as pas accès.
- Donne uniquement des conseils généraux, et invite l'utilisateur à activer le partage de données pour un suivi personnalisé.
- Réponds dans la langue de l'utilisateur.`,
		profileBlock(fields), GenericDisclosurePrefix)
}
