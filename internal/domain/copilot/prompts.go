package copilot

import (
	"encoding/json"
	"fmt"
)

const maxTokens = 1024

var systemPrompts = map[Action]string{
	ActionRSVPReminder: `Tu es un assistant professionnel pour I&P (Investisseurs & Partenaires), un fonds d'investissement à impact en Afrique. Tu aides à rédiger des emails de relance pour les participants aux Advisory Committees/Boards.

Règles:
- Ton professionnel mais chaleureux
- En français si language=FR, en anglais sinon
- Email court et direct
- Rappeler les dates et le lieu de l'événement
- Demander une confirmation de participation`,

	ActionVisaLetter: `Tu es un assistant professionnel pour I&P. Tu aides à rédiger des lettres d'invitation pour les demandes de visa des participants aux Advisory Committees/Boards.

Règles:
- Format lettre officielle
- Inclure toutes les informations requises (dates, lieu, objet)
- Ton formel et professionnel`,

	ActionDeckRequest: `Tu es un assistant professionnel pour I&P. Tu aides à rédiger des emails pour demander aux entreprises du portefeuille d'envoyer leurs présentations pour les visites AC/AB.

Règles:
- Ton professionnel mais encourageant
- Rappeler la date limite
- Donner des indications sur le contenu attendu`,

	ActionRiskAnalysis: `Tu es un assistant professionnel pour I&P. Tu analyses les risques opérationnels pour un événement AC/AB et produis une synthèse claire.

Règles:
- Identifier les points de blocage
- Prioriser par criticité
- Proposer des actions correctives`,
}

// buildPrompt arma system + user para una acción ya validada.
func buildPrompt(action Action, lang Language, c map[string]any) Prompt {
	target := "anglais"
	if lang == LanguageFR {
		target = "français"
	}

	var user string
	switch action {
	case ActionRSVPReminder:
		user = fmt.Sprintf(`Génère un email de relance RSVP en %s pour:
- Participant: %s
- Organisation: %s
- Événement: %s
- Dates: %s
- Lieu: %s
- Date limite de réponse: %s`,
			target, field(c, "participantName"), field(c, "organization"), field(c, "eventName"),
			field(c, "eventDates"), field(c, "eventLocation"), field(c, "deadline"))

	case ActionVisaLetter:
		user = fmt.Sprintf(`Génère une lettre d'invitation pour visa en %s pour:
- Participant: %s
- Organisation: %s
- Nationalité: %s
- Événement: %s
- Dates: %s
- Lieu: %s
- Objet de la visite: Participation à l'Advisory Committee/Board`,
			target, field(c, "participantName"), field(c, "organization"), field(c, "nationality"),
			field(c, "eventName"), field(c, "eventDates"), field(c, "eventLocation"))

	case ActionDeckRequest:
		user = fmt.Sprintf(`Génère un email de demande de deck en %s pour:
- Entreprise(s): %s
- Événement: %s
- Date de la visite: %s
- Date limite d'envoi du deck: %s
- Format attendu: PowerPoint, 15-20 slides`,
			target, field(c, "companies"), field(c, "eventName"), field(c, "visitDate"), field(c, "deadline"))

	case ActionRiskAnalysis:
		user = fmt.Sprintf(`Analyse les risques pour l'événement "%s":
- Jours avant l'événement: %s
- Tâches bloquantes: %s
- Visas en attente: %s
- Contrats non signés: %s
- Budget: %s
- Blockers go/no-go en échec: %s

Produis une synthèse des risques et recommandations en %s.`,
			field(c, "eventName"), field(c, "daysUntil"), jsonField(c, "blockingTasks"),
			field(c, "pendingVisas"), jsonField(c, "unsignedContracts"), field(c, "budgetStatus"),
			jsonField(c, "failingBlockers"), target)
	}

	return Prompt{
		System:    systemPrompts[action],
		User:      user,
		MaxTokens: maxTokens,
	}
}

// field devuelve el valor como texto; ausente => "non renseigné".
func field(c map[string]any, key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return "non renseigné"
	}
	if s, ok := v.(string); ok {
		if s == "" {
			return "non renseigné"
		}
		return s
	}
	return fmt.Sprint(v)
}

func jsonField(c map[string]any, key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return "[]"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
