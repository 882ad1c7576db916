package tags

import "context"

// Repo persists tags and their validation history.
type Repo interface {
	GetTag(ctx context.Context, id string) (Tag, error)
	SaveTag(ctx context.Context, tag Tag) error
	ListTags(ctx context.Context) ([]Tag, error)

	AddValidation(ctx context.Context, v Validation) error
	ListValidations(ctx context.Context, tagID string) ([]Validation, error)
}
