package teacherreview

import (
	"context"
	"errors"
	"testing"
	"time"

	"didattika-backend/internal/documents"
	"didattika-backend/internal/interactions"
	"didattika-backend/internal/users"
)

type fixture struct {
	svc  *Service
	docs documents.Repo
	ix   *interactions.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	userRepo := users.NewMemoryRepo()
	for _, u := range []users.User{
		{ID: "s1", Email: "anna@example.com", FullName: "Anna Bianchi", CourseID: "c1", CourseName: "Matematica"},
		{ID: "s2", Email: "bruno@example.com", FullName: "Bruno Conti", CourseID: "c2", CourseName: "Storia"},
		{ID: "s3", Email: "zita@example.com", FullName: "Zita Esposito", CourseID: "c1", CourseName: "Matematica"},
	} {
		if err := userRepo.Upsert(ctx, u); err != nil {
			t.Fatalf("seed user %s: %v", u.ID, err)
		}
	}

	docRepo := documents.NewMemoryRepo()
	base := time.Date(2026, time.August, 1, 10, 0, 0, 0, time.UTC)
	seed := []documents.Document{
		{ID: "d1", UserID: "s1", Title: "Equazioni", FileType: documents.FileTypePDF, FileSize: 300, Status: documents.StatusCompleted, ApprovalStatus: documents.ApprovalPending, CreatedAt: base, UpdatedAt: base},
		{ID: "d2", UserID: "s2", Title: "Rivoluzione francese", FileType: documents.FileTypeTXT, FileSize: 100, Status: documents.StatusCompleted, ApprovalStatus: documents.ApprovalFlagged, CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour)},
		{ID: "d3", UserID: "s3", Title: "Derivate", FileType: documents.FileTypePDF, FileSize: 200, Status: documents.StatusCompleted, ApprovalStatus: documents.ApprovalPending, CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "d4", UserID: "s1", Title: "Bozza vecchia", FileType: documents.FileTypeTXT, FileSize: 50, Status: documents.StatusDeleted, ApprovalStatus: documents.ApprovalPending, CreatedAt: base.Add(3 * time.Hour), UpdatedAt: base.Add(3 * time.Hour)},
	}
	for _, d := range seed {
		if err := docRepo.Create(ctx, d); err != nil {
			t.Fatalf("seed doc %s: %v", d.ID, err)
		}
	}

	ix := interactions.NewService(interactions.NewMemoryStore())
	ix.RecordInteraction(ctx, "d1")
	ix.RecordInteraction(ctx, "d1")
	ix.RecordAIQuery(ctx, "d1")
	ix.RecordInteraction(ctx, "d3")

	return &fixture{
		svc:  NewService(docRepo, userRepo, ix, NewMemoryAuditStore()),
		docs: docRepo,
		ix:   ix,
	}
}

func TestListProjectsStudentAndCounts(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.svc.List(context.Background(), Filters{}, Sort{}, Page{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	// Deleted documents stay out of the default view.
	if res.Total != 3 {
		t.Fatalf("expected 3 documents, got %d", res.Total)
	}

	byID := map[string]TeacherDocument{}
	for _, doc := range res.Documents {
		byID[doc.ID] = doc
	}
	d1 := byID["d1"]
	if d1.StudentName != "Anna Bianchi" || d1.CourseName != "Matematica" {
		t.Fatalf("student projection missing: %+v", d1)
	}
	if d1.InteractionCount != 2 || d1.AIQueriesCount != 1 {
		t.Fatalf("counts wrong: %d interactions, %d queries", d1.InteractionCount, d1.AIQueriesCount)
	}
}

func TestListFlaggedFilterMatchesAnalytics(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.svc.List(context.Background(), Filters{ApprovalStatus: []string{documents.ApprovalFlagged}}, Sort{}, Page{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 1 {
		t.Fatalf("expected 1 flagged document, got %d", res.Total)
	}
	for _, doc := range res.Documents {
		if doc.ApprovalStatus != documents.ApprovalFlagged {
			t.Fatalf("non-flagged document leaked: %s", doc.ID)
		}
	}
	// Analytics describes the filtered set, so every counted document is in it.
	if res.Analytics.FlaggedDocuments != res.Total {
		t.Fatalf("analytics flagged %d != total %d", res.Analytics.FlaggedDocuments, res.Total)
	}
	if res.Analytics.PendingDocuments != 0 {
		t.Fatalf("pending count leaked into flagged view: %d", res.Analytics.PendingDocuments)
	}
	if res.Analytics.DistinctStudents != 1 {
		t.Fatalf("expected 1 distinct student, got %d", res.Analytics.DistinctStudents)
	}
}

func TestListSortByStudentUsesCollation(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.svc.List(context.Background(), Filters{}, Sort{By: SortByStudent, Order: "asc"}, Page{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Anna Bianchi", "Bruno Conti", "Zita Esposito"}
	for i, name := range want {
		if res.Documents[i].StudentName != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, res.Documents[i].StudentName)
		}
	}

	res, err = fx.svc.List(context.Background(), Filters{}, Sort{By: SortByStudent, Order: "desc"}, Page{})
	if err != nil {
		t.Fatalf("list desc: %v", err)
	}
	if res.Documents[0].StudentName != "Zita Esposito" {
		t.Fatalf("descending order broken: %s first", res.Documents[0].StudentName)
	}
}

func TestListDefaultSortIsDateDescending(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.svc.List(context.Background(), Filters{}, Sort{}, Page{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 1; i < len(res.Documents); i++ {
		if res.Documents[i].CreatedAt.After(res.Documents[i-1].CreatedAt) {
			t.Fatalf("documents not in descending date order at %d", i)
		}
	}
}

func TestListSearchMatchesStudentName(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.svc.List(context.Background(), Filters{SearchQuery: "bianchi"}, Sort{}, Page{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if res.Total != 1 || res.Documents[0].ID != "d1" {
		t.Fatalf("expected only d1, got %d docs", res.Total)
	}
}

func TestListPaginationAfterFiltering(t *testing.T) {
	fx := newFixture(t)

	page1, err := fx.svc.List(context.Background(), Filters{}, Sort{}, Page{Number: 1, Limit: 2})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	page2, err := fx.svc.List(context.Background(), Filters{}, Sort{}, Page{Number: 2, Limit: 2})
	if err != nil {
		t.Fatalf("page 2: %v", err)
	}
	if page1.Total != 3 || page2.Total != 3 {
		t.Fatalf("total must cover the whole filtered set: %d, %d", page1.Total, page2.Total)
	}
	if len(page1.Documents) != 2 || len(page2.Documents) != 1 {
		t.Fatalf("unexpected page sizes %d, %d", len(page1.Documents), len(page2.Documents))
	}
	// Analytics is identical across pages of the same filtered set.
	if page1.Analytics != page2.Analytics {
		t.Fatalf("analytics changed across pages: %+v vs %+v", page1.Analytics, page2.Analytics)
	}
}

func TestReviewApproveUpdatesDocumentAndAudit(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	doc, rec, err := fx.svc.Review(ctx, "teacher-1", "d1", ReviewInput{Action: ActionApprove, Feedback: "Ben fatto"})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if doc.ApprovalStatus != documents.ApprovalApproved {
		t.Fatalf("expected approved, got %s", doc.ApprovalStatus)
	}
	if doc.ApprovalDate == nil || doc.TeacherFeedback != "Ben fatto" {
		t.Fatalf("approval metadata missing: %+v", doc.Document)
	}
	if rec.PreviousStatus != documents.ApprovalPending || rec.NewStatus != documents.ApprovalApproved {
		t.Fatalf("audit transition wrong: %s -> %s", rec.PreviousStatus, rec.NewStatus)
	}

	trail, err := fx.svc.AuditTrail(ctx, "d1")
	if err != nil {
		t.Fatalf("audit trail: %v", err)
	}
	if len(trail) != 1 || trail[0].ID != rec.ID {
		t.Fatalf("audit trail not recorded: %+v", trail)
	}
}

func TestReviewModifyCountsAsApproval(t *testing.T) {
	fx := newFixture(t)

	doc, rec, err := fx.svc.Review(context.Background(), "teacher-1", "d3", ReviewInput{Action: ActionModify})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if doc.ApprovalStatus != documents.ApprovalApproved {
		t.Fatalf("modify should approve, got %s", doc.ApprovalStatus)
	}
	if rec.Action != ActionModify {
		t.Fatalf("audit should keep the original action, got %s", rec.Action)
	}
}

func TestReviewFlagAndReject(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	doc, _, err := fx.svc.Review(ctx, "teacher-1", "d1", ReviewInput{Action: ActionFlag})
	if err != nil {
		t.Fatalf("flag: %v", err)
	}
	if doc.ApprovalStatus != documents.ApprovalFlagged {
		t.Fatalf("expected flagged, got %s", doc.ApprovalStatus)
	}

	doc, _, err = fx.svc.Review(ctx, "teacher-1", "d1", ReviewInput{Action: ActionReject})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if doc.ApprovalStatus != documents.ApprovalRejected {
		t.Fatalf("expected rejected, got %s", doc.ApprovalStatus)
	}

	trail, err := fx.svc.AuditTrail(ctx, "d1")
	if err != nil {
		t.Fatalf("audit trail: %v", err)
	}
	if len(trail) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(trail))
	}
	if trail[1].PreviousStatus != documents.ApprovalFlagged {
		t.Fatalf("second entry should start from flagged, got %s", trail[1].PreviousStatus)
	}
}

func TestReviewInvalidAction(t *testing.T) {
	fx := newFixture(t)

	_, _, err := fx.svc.Review(context.Background(), "teacher-1", "d1", ReviewInput{Action: "archive"})
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("expected ErrInvalidAction, got %v", err)
	}
}

func TestReviewUnknownDocument(t *testing.T) {
	fx := newFixture(t)

	_, _, err := fx.svc.Review(context.Background(), "teacher-1", "missing", ReviewInput{Action: ActionApprove})
	if !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("expected documents.ErrNotFound, got %v", err)
	}
}

func TestSummarizeRecentUploads(t *testing.T) {
	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	docs := []TeacherDocument{
		{Document: documents.Document{ID: "old", UserID: "s1", ApprovalStatus: documents.ApprovalPending, CreatedAt: now.Add(-30 * 24 * time.Hour)}, StudentID: "s1"},
		{Document: documents.Document{ID: "new", UserID: "s2", ApprovalStatus: documents.ApprovalPending, CreatedAt: now.Add(-2 * 24 * time.Hour)}, StudentID: "s2"},
	}
	out := summarize(docs, now)
	if out.RecentUploads != 1 {
		t.Fatalf("expected 1 recent upload, got %d", out.RecentUploads)
	}
	if out.DistinctStudents != 2 || out.PendingDocuments != 2 {
		t.Fatalf("unexpected summary %+v", out)
	}
}
