package analyzer

import "fmt"

// Explanation is the fixed-shape instructional payload for a tag.
type Explanation struct {
	TagID               string   `json:"tag_id"`
	UserLevel           string   `json:"user_level"`
	Definition          string   `json:"definition"`
	DetailedExplanation string   `json:"detailed_explanation"`
	Examples            []string `json:"examples"`
	KeyPoints           []string `json:"key_points"`
	StudyTips           string   `json:"study_tips"`
	FurtherReading      string   `json:"further_reading"`
}

// GenerateExplanation produces an instructional payload for a tag. The shape
// is constant; only the user level is interpolated into the text.
func GenerateExplanation(tagID, userLevel, context string) Explanation {
	if userLevel == "" {
		userLevel = "intermediate"
	}
	subject := context
	if subject == "" {
		subject = "this topic"
	}
	return Explanation{
		TagID:               tagID,
		UserLevel:           userLevel,
		Definition:          fmt.Sprintf("A %s-level working definition of the concept behind %s.", userLevel, tagID),
		DetailedExplanation: fmt.Sprintf("At the %s level, %s is best understood by connecting it to what you already know about %s and working through concrete cases before generalizing.", userLevel, tagID, subject),
		Examples: []string{
			fmt.Sprintf("A worked example applying %s step by step.", tagID),
			fmt.Sprintf("A counterexample showing where %s does not apply.", tagID),
			fmt.Sprintf("A real-world situation where %s shows up naturally.", tagID),
		},
		KeyPoints: []string{
			fmt.Sprintf("Know the precise definition of %s.", tagID),
			"Identify the assumptions it depends on.",
			"Practice recognizing it in unfamiliar material.",
			fmt.Sprintf("Relate it back to the core ideas of %s.", subject),
		},
		StudyTips:      fmt.Sprintf("Review %s in short sessions and explain it aloud in your own words; at the %s level, self-explanation beats rereading.", tagID, userLevel),
		FurtherReading: fmt.Sprintf("Look for introductory material on %s within %s and move to primary sources as your confidence grows.", tagID, subject),
	}
}
