package tags

import (
	"context"
	"errors"
	"testing"

	"didattika-backend/internal/synthesis"
)

type stubSynth struct {
	reply string
	err   error
}

func (s *stubSynth) Generate(ctx context.Context, req synthesis.Request) (string, error) {
	_ = ctx
	_ = req
	return s.reply, s.err
}

func TestValidateApproveLeavesTagUntouched(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	ctx := context.Background()

	before, err := svc.Get(ctx, "tag-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	res, err := svc.Validate(ctx, "teacher-1", "tag-1", ValidateInput{Action: ActionApprove})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Validation.FeedbackType != FeedbackApproved {
		t.Fatalf("expected approved, got %s", res.Validation.FeedbackType)
	}
	if res.UpdatedTag.Name != before.Name || res.UpdatedTag.Description != before.Description {
		t.Fatalf("approve must not mutate the tag")
	}

	after, err := svc.Get(ctx, "tag-1")
	if err != nil {
		t.Fatalf("get after: %v", err)
	}
	if after.Name != before.Name {
		t.Fatalf("stored tag changed on approve")
	}
}

func TestValidateRejectRecordsVerdictWithoutMutation(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	ctx := context.Background()

	res, err := svc.Validate(ctx, "teacher-1", "tag-2", ValidateInput{
		Action:   ActionReject,
		Feedback: "Troppo generico",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Validation.FeedbackType != FeedbackRejected {
		t.Fatalf("expected rejected, got %s", res.Validation.FeedbackType)
	}
	if res.Validation.Feedback != "Troppo generico" {
		t.Fatalf("feedback not recorded: %q", res.Validation.Feedback)
	}
}

func TestValidateModifyRewritesTag(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	ctx := context.Background()

	res, err := svc.Validate(ctx, "teacher-1", "tag-3", ValidateInput{
		Action:          ActionModify,
		NewName:         "rivoluzione industriale",
		NewCategory:     "topic",
		ReasonForChange: "Il documento tratta l'industrializzazione",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.Validation.FeedbackType != FeedbackModified {
		t.Fatalf("expected modified, got %s", res.Validation.FeedbackType)
	}
	if res.UpdatedTag.Name != "rivoluzione industriale" {
		t.Fatalf("tag name not rewritten: %q", res.UpdatedTag.Name)
	}
	if res.Validation.OriginalName == res.Validation.ValidatedName {
		t.Fatalf("validation should record the rename")
	}

	stored, err := svc.Get(ctx, "tag-3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Name != "rivoluzione industriale" {
		t.Fatalf("modification not persisted: %q", stored.Name)
	}
}

type failingAuditRepo struct {
	Repo
}

func (failingAuditRepo) AddValidation(ctx context.Context, v Validation) error {
	return errors.New("audit store down")
}

func TestValidateModifyAuditFailureLeavesTagUnchanged(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(failingAuditRepo{repo}, nil)
	ctx := context.Background()

	before, err := repo.GetTag(ctx, "tag-3")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	_, err = svc.Validate(ctx, "teacher-1", "tag-3", ValidateInput{
		Action:  ActionModify,
		NewName: "nuovo nome",
	})
	if err == nil {
		t.Fatalf("expected an error when the validation cannot be recorded")
	}

	after, err := repo.GetTag(ctx, "tag-3")
	if err != nil {
		t.Fatalf("get after: %v", err)
	}
	if after.Name != before.Name {
		t.Fatalf("tag mutated without an audit entry: %q -> %q", before.Name, after.Name)
	}
}

func TestValidateModifyRequiresAChange(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)

	_, err := svc.Validate(context.Background(), "teacher-1", "tag-1", ValidateInput{Action: ActionModify})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidateModifyRejectsUnknownCategory(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)

	_, err := svc.Validate(context.Background(), "teacher-1", "tag-1", ValidateInput{
		Action:      ActionModify,
		NewCategory: "astrologia",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestValidateUnknownAction(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)

	_, err := svc.Validate(context.Background(), "teacher-1", "tag-1", ValidateInput{Action: "archive"})
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestValidateUnknownTag(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)

	_, err := svc.Validate(context.Background(), "teacher-1", "tag-999", ValidateInput{Action: ActionApprove})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestValidateAIFeedbackIsBestEffort(t *testing.T) {
	// A failing synthesis backend must not fail the validation itself.
	svc := NewService(NewMemoryRepo(), &stubSynth{err: synthesis.ErrGeneration})

	res, err := svc.Validate(context.Background(), "teacher-1", "tag-1", ValidateInput{Action: ActionApprove})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.AIFeedback != "" {
		t.Fatalf("expected empty feedback on synthesis failure, got %q", res.AIFeedback)
	}

	svc = NewService(NewMemoryRepo(), &stubSynth{reply: "Verdetto registrato."})
	res, err = svc.Validate(context.Background(), "teacher-1", "tag-1", ValidateInput{Action: ActionApprove})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if res.AIFeedback != "Verdetto registrato." {
		t.Fatalf("expected feedback text, got %q", res.AIFeedback)
	}
}

func TestHistoryAccumulatesInOrder(t *testing.T) {
	svc := NewService(NewMemoryRepo(), nil)
	ctx := context.Background()

	if _, err := svc.Validate(ctx, "teacher-1", "tag-1", ValidateInput{Action: ActionApprove}); err != nil {
		t.Fatalf("first validate: %v", err)
	}
	if _, err := svc.Validate(ctx, "teacher-2", "tag-1", ValidateInput{Action: ActionReject}); err != nil {
		t.Fatalf("second validate: %v", err)
	}

	history, err := svc.History(ctx, "tag-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 validations, got %d", len(history))
	}
	if history[0].FeedbackType != FeedbackApproved || history[1].FeedbackType != FeedbackRejected {
		t.Fatalf("history out of order: %s, %s", history[0].FeedbackType, history[1].FeedbackType)
	}

	if _, err := svc.History(ctx, "tag-999"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown tag, got %v", err)
	}
}
