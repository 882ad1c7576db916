package tags

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"didattika-backend/internal/shared/telemetry"
	"didattika-backend/internal/synthesis"
)

// Validation actions accepted by Validate.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionModify  = "modify"
)

// Service applies teacher verdicts to tags.
type Service struct {
	Repo  Repo
	Synth synthesis.Client
}

// NewService constructs a Service.
func NewService(repo Repo, synth synthesis.Client) *Service {
	return &Service{Repo: repo, Synth: synth}
}

// ValidateInput is a teacher's verdict on one tag.
type ValidateInput struct {
	Action          string
	NewName         string
	NewDescription  string
	NewCategory     string
	Feedback        string
	ReasonForChange string
}

// ValidateResult is the recorded verdict plus the tag as it stands after.
type ValidateResult struct {
	Validation Validation
	UpdatedTag Tag
	AIFeedback string
}

// Validate records the verdict and, for "modify", rewrites the tag. Approval
// and rejection leave the tag untouched. The AI feedback note is best-effort:
// if synthesis fails the validation still succeeds without it.
func (s *Service) Validate(ctx context.Context, teacherID, tagID string, in ValidateInput) (ValidateResult, error) {
	if teacherID == "" || tagID == "" {
		return ValidateResult{}, ErrInvalidInput
	}

	tag, err := s.Repo.GetTag(ctx, tagID)
	if err != nil {
		return ValidateResult{}, err
	}

	v := Validation{
		ID:                  uuid.NewString(),
		TagID:               tag.ID,
		TeacherID:           teacherID,
		OriginalName:        tag.Name,
		ValidatedName:       tag.Name,
		OriginalDescription: tag.Description,
		Confidence:          tag.Confidence,
		Feedback:            strings.TrimSpace(in.Feedback),
		ReasonForChange:     strings.TrimSpace(in.ReasonForChange),
		Timestamp:           time.Now().UTC(),
	}

	updated := tag
	switch in.Action {
	case ActionApprove:
		v.FeedbackType = FeedbackApproved
		v.ValidatedDescription = tag.Description
	case ActionReject:
		v.FeedbackType = FeedbackRejected
		v.ValidatedDescription = tag.Description
	case ActionModify:
		newName := strings.TrimSpace(in.NewName)
		newDescription := strings.TrimSpace(in.NewDescription)
		if newName == "" && newDescription == "" && in.NewCategory == "" {
			return ValidateResult{}, fmt.Errorf("%w: modify requires a new name, description or category", ErrInvalidInput)
		}
		if in.NewCategory != "" && !ValidCategory(in.NewCategory) {
			return ValidateResult{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, in.NewCategory)
		}
		v.FeedbackType = FeedbackModified
		if newName != "" {
			updated.Name = newName
		}
		if newDescription != "" {
			updated.Description = newDescription
		}
		if in.NewCategory != "" {
			updated.Category = in.NewCategory
		}
		v.ValidatedName = updated.Name
		v.ValidatedDescription = updated.Description
	default:
		return ValidateResult{}, fmt.Errorf("%w: %q", ErrInvalidAction, in.Action)
	}

	// The audit record lands before the mutation; a tag must never change
	// without a validation entry explaining it.
	if err := s.Repo.AddValidation(ctx, v); err != nil {
		return ValidateResult{}, fmt.Errorf("record validation: %w", err)
	}
	if in.Action == ActionModify {
		if err := s.Repo.SaveTag(ctx, updated); err != nil {
			return ValidateResult{}, fmt.Errorf("save modified tag: %w", err)
		}
	}

	return ValidateResult{
		Validation: v,
		UpdatedTag: updated,
		AIFeedback: s.aiFeedback(ctx, v),
	}, nil
}

// Get returns a tag by id.
func (s *Service) Get(ctx context.Context, tagID string) (Tag, error) {
	if tagID == "" {
		return Tag{}, ErrInvalidInput
	}
	return s.Repo.GetTag(ctx, tagID)
}

// List returns the tag catalog.
func (s *Service) List(ctx context.Context) ([]Tag, error) {
	return s.Repo.ListTags(ctx)
}

// History returns the validation trail for a tag.
func (s *Service) History(ctx context.Context, tagID string) ([]Validation, error) {
	if _, err := s.Repo.GetTag(ctx, tagID); err != nil {
		return nil, err
	}
	return s.Repo.ListValidations(ctx, tagID)
}

// aiFeedback asks the synthesis backend for a short acknowledgement of the
// verdict. Failures are logged and swallowed.
func (s *Service) aiFeedback(ctx context.Context, v Validation) string {
	if s.Synth == nil {
		return ""
	}
	prompt := fmt.Sprintf("A teacher marked the tag %q as %s.", v.OriginalName, v.FeedbackType)
	if v.ReasonForChange != "" {
		prompt += " Reason: " + v.ReasonForChange
	}
	text, err := s.Synth.Generate(ctx, synthesis.Request{
		Message: prompt,
		Persona: "docente",
	})
	if err != nil {
		telemetry.Warn("tags.ai_feedback_failed", map[string]any{
			"tag_id": v.TagID,
			"error":  err.Error(),
		})
		return ""
	}
	return text
}
