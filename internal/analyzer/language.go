package analyzer

import "strings"

// italianStopWords is the fixed list used for language classification.
var italianStopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"il", "lo", "la", "gli", "le", "un", "una", "uno",
		"di", "del", "della", "dei", "delle", "degli",
		"che", "chi", "cui", "non", "come", "dove", "quando",
		"per", "con", "su", "tra", "fra", "anche", "ancora",
		"sono", "essere", "stato", "questa", "questo", "questi", "queste",
		"ha", "hanno", "era", "più", "molto", "nella", "nel", "alla", "dal",
		"si", "ma", "se", "perché", "quindi", "ogni", "tutti", "tutte",
	} {
		italianStopWords[w] = struct{}{}
	}
}

const (
	languageSampleTokens  = 100
	italianRatioThreshold = 0.15
)

// DetectLanguage classifies content as "it" or "en" by counting Italian
// stop words among the first 100 tokens. A matched ratio above 0.15 wins.
func DetectLanguage(content string) string {
	tokens := strings.Fields(strings.ToLower(content))
	if len(tokens) > languageSampleTokens {
		tokens = tokens[:languageSampleTokens]
	}
	if len(tokens) == 0 {
		return "en"
	}

	matched := 0
	for _, tok := range tokens {
		tok = strings.Trim(tok, ".,;:!?\"'()[]")
		if _, ok := italianStopWords[tok]; ok {
			matched++
		}
	}

	if float64(matched)/float64(len(tokens)) > italianRatioThreshold {
		return "it"
	}
	return "en"
}
