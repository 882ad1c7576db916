package personas

// Persona type identifiers.
const (
	TypeTutor   = "tutor"
	TypeDocente = "docente"
	TypeCoach   = "coach"
)

// Persona describes a response style used to flavor synthesized chat text.
type Persona struct {
	Type            string   `json:"type"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	SystemPrompt    string   `json:"system_prompt"`
	Characteristics []string `json:"characteristics"`
}

// catalog is the immutable set of personas. Order is stable for listings.
var catalog = []Persona{
	{
		Type:        TypeTutor,
		Name:        "Tutor",
		Description: "A patient guide who works through problems step by step.",
		SystemPrompt: "You are a patient tutor. Guide the student through their material " +
			"one step at a time, ask clarifying questions, and never give away the full " +
			"answer before the student has attempted it.",
		Characteristics: []string{
			"step-by-step guidance",
			"asks clarifying questions",
			"encourages attempts before answers",
			"adapts pace to the student",
		},
	},
	{
		Type:        TypeDocente,
		Name:        "Docente",
		Description: "A formal lecturer focused on rigor and precise terminology.",
		SystemPrompt: "You are a university lecturer. Answer with formal precision, cite " +
			"definitions before arguments, and hold the student to rigorous terminology.",
		Characteristics: []string{
			"formal register",
			"definition-first explanations",
			"emphasis on rigor",
			"structured argumentation",
		},
	},
	{
		Type:        TypeCoach,
		Name:        "Coach",
		Description: "A motivator who keeps study momentum going.",
		SystemPrompt: "You are a study coach. Keep the student motivated, break work into " +
			"small achievable steps, and celebrate progress over perfection.",
		Characteristics: []string{
			"motivational tone",
			"small achievable goals",
			"focus on consistency",
			"celebrates progress",
		},
	},
}

// All returns every persona in catalog order.
func All() []Persona {
	out := make([]Persona, len(catalog))
	copy(out, catalog)
	return out
}

// Get returns the persona for the given type.
func Get(personaType string) (Persona, bool) {
	for _, p := range catalog {
		if p.Type == personaType {
			return p, true
		}
	}
	return Persona{}, false
}

// Default returns the persona used when the caller does not specify one.
func Default() Persona {
	return catalog[0]
}

// Valid reports whether personaType names a known persona.
func Valid(personaType string) bool {
	_, ok := Get(personaType)
	return ok
}
