package analyzer

import "strings"

// MaxTags caps the number of tags emitted per document.
const MaxTags = 15

// Tag is a descriptive label derived from document content.
type Tag struct {
	Name               string  `json:"name"`
	Category           string  `json:"category"`
	ConfidenceScore    float64 `json:"confidence_score"`
	DifficultyLevel    string  `json:"difficulty_level"`
	PositionReferences []int   `json:"position_references"`
}

type catalogEntry struct {
	Name       string
	Category   string
	Confidence float64
	Difficulty string
}

// tagCatalogs is the deterministic tag set per detected subject.
var tagCatalogs = map[string][]catalogEntry{
	"mathematics": {
		{"equation", "concept", 0.92, "intermediate"},
		{"theorem", "theory", 0.88, "advanced"},
		{"algebra", "topic", 0.85, "intermediate"},
		{"geometry", "topic", 0.84, "intermediate"},
		{"derivative", "method", 0.82, "advanced"},
		{"integral", "method", 0.81, "advanced"},
		{"function", "concept", 0.78, "beginner"},
		{"proof", "skill", 0.75, "advanced"},
	},
	"physics": {
		{"energy", "concept", 0.91, "beginner"},
		{"force", "concept", 0.89, "beginner"},
		{"velocity", "concept", 0.85, "intermediate"},
		{"quantum", "theory", 0.83, "advanced"},
		{"relativity", "theory", 0.82, "advanced"},
		{"momentum", "concept", 0.80, "intermediate"},
		{"experiment", "method", 0.74, "beginner"},
	},
	"history": {
		{"empire", "topic", 0.90, "intermediate"},
		{"revolution", "topic", 0.88, "intermediate"},
		{"war", "topic", 0.85, "beginner"},
		{"treaty", "keyword", 0.80, "intermediate"},
		{"century", "date", 0.76, "beginner"},
		{"primary source", "method", 0.72, "advanced"},
	},
	"literature": {
		{"metaphor", "concept", 0.90, "intermediate"},
		{"narrative", "concept", 0.87, "intermediate"},
		{"poem", "topic", 0.85, "beginner"},
		{"novel", "topic", 0.84, "beginner"},
		{"author", "person", 0.78, "beginner"},
		{"close reading", "skill", 0.73, "advanced"},
	},
	"biology": {
		{"cell", "concept", 0.93, "beginner"},
		{"dna", "concept", 0.91, "intermediate"},
		{"evolution", "theory", 0.88, "intermediate"},
		{"protein", "concept", 0.84, "advanced"},
		{"photosynthesis", "application", 0.82, "intermediate"},
		{"organism", "keyword", 0.77, "beginner"},
	},
	"computer_science": {
		{"algorithm", "concept", 0.94, "intermediate"},
		{"database", "topic", 0.88, "intermediate"},
		{"software", "topic", 0.85, "beginner"},
		{"recursion", "method", 0.83, "advanced"},
		{"network", "topic", 0.81, "intermediate"},
		{"compiler", "application", 0.78, "advanced"},
	},
	SubjectGeneral: {
		{"summary", "skill", 0.70, "beginner"},
		{"analysis", "skill", 0.68, "intermediate"},
		{"definition", "concept", 0.66, "beginner"},
		{"example", "keyword", 0.64, "beginner"},
	},
}

// GenerateTags derives tags from content. The subject decides which catalog
// applies; each emitted tag carries the ascending byte offsets of its
// case-insensitive occurrences. Output is capped at MaxTags, earliest first.
func GenerateTags(content, subjectHint, languageHint string) ([]Tag, string, string) {
	language := languageHint
	if language == "" {
		language = DetectLanguage(content)
	}
	subject := DetectSubject(content, subjectHint)

	catalog := tagCatalogs[subject]
	tags := make([]Tag, 0, len(catalog))
	for _, entry := range catalog {
		tags = append(tags, Tag{
			Name:               entry.Name,
			Category:           entry.Category,
			ConfidenceScore:    entry.Confidence,
			DifficultyLevel:    entry.Difficulty,
			PositionReferences: findOccurrences(content, entry.Name),
		})
		if len(tags) == MaxTags {
			break
		}
	}
	return tags, subject, language
}

// findOccurrences returns every byte offset where needle occurs in haystack,
// case-insensitive, in ascending order.
func findOccurrences(haystack, needle string) []int {
	if needle == "" {
		return nil
	}
	lowerHay := strings.ToLower(haystack)
	lowerNeedle := strings.ToLower(needle)

	var positions []int
	offset := 0
	for {
		idx := strings.Index(lowerHay[offset:], lowerNeedle)
		if idx < 0 {
			break
		}
		positions = append(positions, offset+idx)
		offset += idx + 1
	}
	return positions
}
