package analyzer

import "strings"

// SubjectGeneral is the fallback when no subject keywords match.
const SubjectGeneral = "general"

type subjectProfile struct {
	Name     string
	Keywords []string
}

// subjectProfiles maps subjects to their detection keywords. Order matters:
// ties are broken by declaration order.
var subjectProfiles = []subjectProfile{
	{
		Name: "mathematics",
		Keywords: []string{
			"equation", "theorem", "algebra", "geometry", "derivative", "integral",
			"matrice", "equazione", "teorema", "funzione", "calcolo", "matematica",
		},
	},
	{
		Name: "physics",
		Keywords: []string{
			"energy", "force", "velocity", "quantum", "relativity", "momentum",
			"energia", "forza", "velocità", "fisica", "onda", "particella",
		},
	},
	{
		Name: "history",
		Keywords: []string{
			"empire", "revolution", "century", "war", "treaty", "dynasty",
			"impero", "rivoluzione", "secolo", "guerra", "storia", "medioevo",
		},
	},
	{
		Name: "literature",
		Keywords: []string{
			"poem", "novel", "metaphor", "narrative", "author", "sonnet",
			"poesia", "romanzo", "metafora", "letteratura", "autore", "verso",
		},
	},
	{
		Name: "biology",
		Keywords: []string{
			"cell", "dna", "organism", "evolution", "protein", "photosynthesis",
			"cellula", "organismo", "evoluzione", "proteina", "fotosintesi", "biologia",
		},
	},
	{
		Name: "computer_science",
		Keywords: []string{
			"algorithm", "software", "database", "compiler", "network", "recursion",
			"algoritmo", "informatica", "programmazione", "rete", "dati", "codice",
		},
	},
}

// DetectSubject finds the subject whose keywords occur most often in content
// (case-insensitive substring count). Ties keep the earlier declaration;
// hint short-circuits when it names a known subject.
func DetectSubject(content, hint string) string {
	if hint != "" {
		normalized := strings.ToLower(strings.TrimSpace(hint))
		for _, p := range subjectProfiles {
			if p.Name == normalized {
				return p.Name
			}
		}
	}

	lowered := strings.ToLower(content)
	best := SubjectGeneral
	bestCount := 0
	for _, p := range subjectProfiles {
		count := 0
		for _, kw := range p.Keywords {
			count += strings.Count(lowered, kw)
		}
		if count > bestCount {
			best = p.Name
			bestCount = count
		}
	}
	return best
}
