package teacherreview

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"didattika-backend/internal/documents"
	"didattika-backend/internal/interactions"
	"didattika-backend/internal/users"
)

// Approval actions accepted by Review.
const (
	ActionApprove = "approve"
	ActionFlag    = "flag"
	ActionReject  = "reject"
	ActionModify  = "modify"
)

// ErrInvalidAction is returned for unknown approval actions.
var ErrInvalidAction = errors.New("invalid approval action")

const recentUploadWindow = 7 * 24 * time.Hour

// Service builds the review view over every student's documents and applies
// approval decisions. The platform serves Italian classrooms, so name and
// title ordering uses an Italian collator.
type Service struct {
	Docs         documents.Repo
	Users        users.Repo
	Interactions *interactions.Service
	Audit        AuditStore

	collator *collate.Collator
}

// NewService constructs a Service.
func NewService(docs documents.Repo, userRepo users.Repo, ix *interactions.Service, audit AuditStore) *Service {
	return &Service{
		Docs:         docs,
		Users:        userRepo,
		Interactions: ix,
		Audit:        audit,
		collator:     collate.New(language.Italian, collate.IgnoreCase),
	}
}

// ListResult is one page of the review view.
type ListResult struct {
	Documents []TeacherDocument
	Total     int
	Page      int
	Limit     int
	Analytics AnalyticsSummary
}

// List applies filters, sorting and pagination over all students' documents.
// The analytics summary is computed on the filtered set before pagination.
func (s *Service) List(ctx context.Context, f Filters, srt Sort, pg Page) (ListResult, error) {
	docs, err := s.Docs.ListAll(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("list documents: %w", err)
	}

	projected, err := s.project(ctx, docs)
	if err != nil {
		return ListResult{}, err
	}

	filtered := make([]TeacherDocument, 0, len(projected))
	for _, doc := range projected {
		if matches(doc, f) {
			filtered = append(filtered, doc)
		}
	}

	s.sortDocuments(filtered, srt)
	analytics := summarize(filtered, time.Now().UTC())

	if pg.Number < 1 {
		pg.Number = 1
	}
	if pg.Limit < 1 {
		pg.Limit = 20
	}
	total := len(filtered)
	start := (pg.Number - 1) * pg.Limit
	if start > total {
		start = total
	}
	end := start + pg.Limit
	if end > total {
		end = total
	}

	return ListResult{
		Documents: filtered[start:end],
		Total:     total,
		Page:      pg.Number,
		Limit:     pg.Limit,
		Analytics: analytics,
	}, nil
}

// ReviewInput is a teacher's decision on one document.
type ReviewInput struct {
	Action   string
	Feedback string
}

// Review updates the document's approval status and records an audit entry.
// The document itself stays visible to its owner whatever the decision.
func (s *Service) Review(ctx context.Context, teacherID, documentID string, in ReviewInput) (TeacherDocument, ApprovalRecord, error) {
	newStatus, err := statusForAction(in.Action)
	if err != nil {
		return TeacherDocument{}, ApprovalRecord{}, err
	}

	doc, err := s.findAcrossOwners(ctx, documentID)
	if err != nil {
		return TeacherDocument{}, ApprovalRecord{}, err
	}

	now := time.Now().UTC()
	feedback := strings.TrimSpace(in.Feedback)
	patch := documents.Patch{
		ApprovalStatus: &newStatus,
		ApprovalDate:   &now,
		TeacherID:      &teacherID,
	}
	if feedback != "" {
		patch.TeacherFeedback = &feedback
	}
	updated, err := s.Docs.Update(ctx, doc.ID, doc.UserID, patch)
	if err != nil {
		return TeacherDocument{}, ApprovalRecord{}, fmt.Errorf("apply approval: %w", err)
	}

	rec := ApprovalRecord{
		ID:             uuid.NewString(),
		DocumentID:     doc.ID,
		TeacherID:      teacherID,
		Action:         in.Action,
		PreviousStatus: doc.ApprovalStatus,
		NewStatus:      newStatus,
		Feedback:       feedback,
		Timestamp:      now,
	}
	if err := s.Audit.Add(ctx, rec); err != nil {
		return TeacherDocument{}, ApprovalRecord{}, fmt.Errorf("record approval audit: %w", err)
	}

	projected, err := s.project(ctx, []documents.Document{updated})
	if err != nil {
		return TeacherDocument{}, ApprovalRecord{}, err
	}
	return projected[0], rec, nil
}

// AuditTrail returns the approval history for a document.
func (s *Service) AuditTrail(ctx context.Context, documentID string) ([]ApprovalRecord, error) {
	if _, err := s.findAcrossOwners(ctx, documentID); err != nil {
		return nil, err
	}
	return s.Audit.ListByDocument(ctx, documentID)
}

// findAcrossOwners locates a document regardless of owner. Teachers see the
// whole store, so the owner-scoped lookup does not apply here.
func (s *Service) findAcrossOwners(ctx context.Context, documentID string) (documents.Document, error) {
	docs, err := s.Docs.ListAll(ctx)
	if err != nil {
		return documents.Document{}, fmt.Errorf("list documents: %w", err)
	}
	for _, doc := range docs {
		if doc.ID == documentID {
			return doc, nil
		}
	}
	return documents.Document{}, documents.ErrNotFound
}

func (s *Service) project(ctx context.Context, docs []documents.Document) ([]TeacherDocument, error) {
	ids := make([]string, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for _, doc := range docs {
		if !seen[doc.UserID] {
			seen[doc.UserID] = true
			ids = append(ids, doc.UserID)
		}
	}

	owners := map[string]users.User{}
	if s.Users != nil && len(ids) > 0 {
		found, err := s.Users.ListByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load students: %w", err)
		}
		owners = found
	}

	counts := map[string]interactions.Counts{}
	if s.Interactions != nil {
		all, err := s.Interactions.AllCounts(ctx)
		if err != nil {
			return nil, fmt.Errorf("load interaction counts: %w", err)
		}
		counts = all
	}

	out := make([]TeacherDocument, 0, len(docs))
	for _, doc := range docs {
		td := TeacherDocument{Document: doc, StudentID: doc.UserID}
		if owner, ok := owners[doc.UserID]; ok {
			td.StudentName = owner.FullName
			td.CourseID = owner.CourseID
			td.CourseName = owner.CourseName
		}
		if c, ok := counts[doc.ID]; ok {
			td.InteractionCount = c.Interactions
			td.AIQueriesCount = c.AIQueries
		}
		out = append(out, td)
	}
	return out, nil
}

func matches(doc TeacherDocument, f Filters) bool {
	if len(f.StudentIDs) > 0 && !containsString(f.StudentIDs, doc.StudentID) {
		return false
	}
	if len(f.CourseIDs) > 0 && !containsString(f.CourseIDs, doc.CourseID) {
		return false
	}
	if len(f.FileTypes) > 0 && !containsString(f.FileTypes, doc.FileType) {
		return false
	}
	if len(f.ApprovalStatus) > 0 && !containsString(f.ApprovalStatus, doc.ApprovalStatus) {
		return false
	}
	if len(f.Status) > 0 {
		if !containsString(f.Status, doc.Status) {
			return false
		}
	} else if doc.Status == documents.StatusDeleted {
		return false
	}
	if f.DateStart != nil && doc.CreatedAt.Before(*f.DateStart) {
		return false
	}
	if f.DateEnd != nil && doc.CreatedAt.After(*f.DateEnd) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.SearchQuery)); q != "" {
		haystacks := []string{doc.Title, doc.StudentName, doc.CourseName, doc.ContentText}
		hit := false
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), q) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func (s *Service) sortDocuments(docs []TeacherDocument, srt Sort) {
	desc := srt.Order != "asc"

	var less func(a, b TeacherDocument) bool
	switch srt.By {
	case SortByStudent:
		less = func(a, b TeacherDocument) bool {
			return s.collator.CompareString(a.StudentName, b.StudentName) < 0
		}
	case SortByName:
		less = func(a, b TeacherDocument) bool {
			return s.collator.CompareString(a.Title, b.Title) < 0
		}
	case SortBySize:
		less = func(a, b TeacherDocument) bool { return a.FileSize < b.FileSize }
	case SortByInteractions:
		less = func(a, b TeacherDocument) bool { return a.InteractionCount < b.InteractionCount }
	default: // SortByDate
		less = func(a, b TeacherDocument) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if desc {
			return less(docs[j], docs[i])
		}
		return less(docs[i], docs[j])
	})
}

func summarize(docs []TeacherDocument, now time.Time) AnalyticsSummary {
	var out AnalyticsSummary
	students := make(map[string]bool)
	cutoff := now.Add(-recentUploadWindow)
	for _, doc := range docs {
		students[doc.StudentID] = true
		switch doc.ApprovalStatus {
		case documents.ApprovalPending:
			out.PendingDocuments++
		case documents.ApprovalFlagged:
			out.FlaggedDocuments++
		}
		if !doc.CreatedAt.Before(cutoff) {
			out.RecentUploads++
		}
	}
	out.DistinctStudents = len(students)
	return out
}

func statusForAction(action string) (string, error) {
	switch action {
	case ActionApprove, ActionModify:
		// A modify decision accepts the document with teacher changes.
		return documents.ApprovalApproved, nil
	case ActionFlag:
		return documents.ApprovalFlagged, nil
	case ActionReject:
		return documents.ApprovalRejected, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
