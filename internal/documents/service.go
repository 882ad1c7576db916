package documents

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"didattika-backend/internal/analyzer"
	"didattika-backend/internal/extract"
	"didattika-backend/internal/queue"
	"didattika-backend/internal/shared/metrics"
	"didattika-backend/internal/shared/storage/object"
	"didattika-backend/internal/shared/telemetry"
)

// DefaultMaxUploadBytes caps accepted files at 10 MiB.
const DefaultMaxUploadBytes = 10 << 20

// Service contains business logic for the document lifecycle.
type Service struct {
	Repo              Repo
	Store             object.ObjectStore
	JobQueue          queue.Client
	MaxUploadBytes    int64
	ProcessingTimeout time.Duration
}

// UploadInput carries a multipart upload into the service.
type UploadInput struct {
	Title    string
	FileName string
	FileSize int64
	Body     io.Reader
}

// CreateInput creates a document record directly, bypassing file storage.
// When ContentText is provided the document is completed immediately.
type CreateInput struct {
	Title       string
	FileType    string
	FileSize    int64
	ContentText string
}

// Upload validates the file, stores it, records the document with status
// "uploading" and kicks off asynchronous processing. The returned document
// reflects the state at return time; completion is observed via Get or List.
func (s *Service) Upload(ctx context.Context, ownerID string, in UploadInput) (Document, error) {
	if ownerID == "" {
		return Document{}, ErrInvalidInput
	}

	fileType := fileTypeFromName(in.FileName)
	if err := s.validateFile(in, fileType); err != nil {
		return Document{}, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(in.FileName), filepath.Ext(in.FileName))
	}

	storageKey, size, _, err := s.Store.Save(ctx, ownerID, in.FileName, in.Body)
	if err != nil {
		return Document{}, fmt.Errorf("store upload: %w", err)
	}

	now := time.Now().UTC()
	doc := Document{
		ID:             uuid.NewString(),
		UserID:         ownerID,
		Title:          title,
		FilePath:       storageKey,
		FileType:       fileType,
		FileSize:       size,
		Status:         StatusUploading,
		ApprovalStatus: ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	s.dispatchProcessing(ctx, doc)
	return doc, nil
}

// Create records a document without going through file upload. Title, file
// type and size are required; supplying content text completes the document
// immediately, otherwise it is left in "processing".
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Document, error) {
	if ownerID == "" {
		return Document{}, ErrInvalidInput
	}
	var reasons []string
	if strings.TrimSpace(in.Title) == "" {
		reasons = append(reasons, "title is required")
	}
	if !ValidFileType(in.FileType) {
		reasons = append(reasons, fmt.Sprintf("file_type must be one of pdf, txt, docx (got %q)", in.FileType))
	}
	if in.FileSize <= 0 {
		reasons = append(reasons, "file_size must be positive")
	}
	if len(reasons) > 0 {
		return Document{}, &ValidationError{Reasons: reasons}
	}

	now := time.Now().UTC()
	doc := Document{
		ID:             uuid.NewString(),
		UserID:         ownerID,
		Title:          strings.TrimSpace(in.Title),
		FileType:       in.FileType,
		FileSize:       in.FileSize,
		Status:         StatusProcessing,
		ApprovalStatus: ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if in.ContentText != "" {
		doc.Status = StatusCompleted
		doc.ContentText = in.ContentText
		doc.Summary = analyzer.Summarize(in.ContentText)
		doc.Metadata = Metadata{
			WordCount: len(strings.Fields(in.ContentText)),
			PageCount: 1,
			Language:  analyzer.DetectLanguage(in.ContentText),
		}
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Get returns the document iff owned by ownerID.
func (s *Service) Get(ctx context.Context, documentID, ownerID string) (Document, error) {
	if documentID == "" || ownerID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, documentID, ownerID)
}

// Update merges the patch onto an owned document.
func (s *Service) Update(ctx context.Context, documentID, ownerID string, patch Patch) (Document, error) {
	if documentID == "" || ownerID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.Update(ctx, documentID, ownerID, patch)
}

// SoftDelete marks an owned document deleted. The record stays in the store
// and remains retrievable by direct lookup.
func (s *Service) SoftDelete(ctx context.Context, documentID, ownerID string) (Document, error) {
	if documentID == "" || ownerID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.SoftDelete(ctx, documentID, ownerID)
}

// List returns the owner's documents matching the filters.
func (s *Service) List(ctx context.Context, ownerID string, f Filters) ([]Document, int, error) {
	if ownerID == "" {
		return nil, 0, ErrInvalidInput
	}
	return s.Repo.List(ctx, ownerID, f)
}

func (s *Service) validateFile(in UploadInput, fileType string) error {
	maxBytes := s.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}

	var reasons []string
	if strings.TrimSpace(in.FileName) == "" {
		reasons = append(reasons, "file is required")
	}
	if fileType == "" {
		reasons = append(reasons, "file type must be one of pdf, txt, docx")
	}
	if in.FileSize <= 0 {
		reasons = append(reasons, "file is empty")
	}
	if in.FileSize > maxBytes {
		reasons = append(reasons, fmt.Sprintf("file exceeds maximum size of %d bytes", maxBytes))
	}
	if len(reasons) > 0 {
		return &ValidationError{Reasons: reasons}
	}
	return nil
}

// dispatchProcessing hands the document to the queue when one is configured,
// otherwise processes in-process. Either way the caller does not wait.
func (s *Service) dispatchProcessing(ctx context.Context, doc Document) {
	if s.JobQueue != nil {
		msg := queue.Message{
			DocumentID: doc.ID,
			UserID:     doc.UserID,
			RequestID:  requestIDFromContext(ctx),
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		if err := s.JobQueue.Send(ctx, msg); err != nil {
			// Fall back to in-process work rather than stranding the upload.
			telemetry.Warn("documents.enqueue_failed", map[string]any{
				"document_id": doc.ID,
				"error":       err.Error(),
			})
		} else {
			return
		}
	}
	go s.processAsync(backgroundWithRequestID(ctx), doc.ID, doc.UserID)
}

func (s *Service) processAsync(ctx context.Context, documentID, ownerID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failDocument(ctx, documentID, ownerID, fmt.Sprintf("panic: %v", r))
		}
	}()
	if err := s.Process(ctx, documentID, ownerID); err != nil {
		telemetry.Error("documents.processing_error", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"document_id": documentID,
			"user_id":     ownerID,
			"error":       err.Error(),
		})
	}
}

// Process runs extraction and analysis for a stored document, moving it from
// "uploading" to "processing" and then to a terminal "completed" or "failed".
// It is called from the in-process goroutine and from the queue worker.
func (s *Service) Process(ctx context.Context, documentID, ownerID string) error {
	timeout := s.ProcessingTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.runProcessing(pctx, documentID, ownerID)
	if err != nil && pctx.Err() != nil {
		// The deadline expired mid-flight. The document still has to land on
		// a terminal status; failDocument detaches from the expired context.
		s.failDocument(pctx, documentID, ownerID, fmt.Sprintf("processing timed out after %s", timeout))
		return nil
	}
	return err
}

func (s *Service) runProcessing(ctx context.Context, documentID, ownerID string) error {
	startedAt := time.Now()
	metrics.IncProcessingStarted()

	doc, err := s.Repo.GetByID(ctx, documentID, ownerID)
	if err != nil {
		return fmt.Errorf("document lookup: %w", err)
	}
	if IsTerminal(doc.Status) {
		return nil
	}

	processing := StatusProcessing
	if _, err := s.Repo.Update(ctx, documentID, ownerID, Patch{Status: &processing}); err != nil {
		return fmt.Errorf("set processing: %w", err)
	}
	telemetry.Info("documents.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       documentID,
		"user_id":           ownerID,
		"status":            StatusProcessing,
		"status_transition": StatusUploading + "->" + StatusProcessing,
	})

	body, err := s.Store.Open(ctx, doc.FilePath)
	if err != nil {
		s.failDocument(ctx, documentID, ownerID, fmt.Sprintf("open stored file: %v", err))
		return nil
	}
	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		s.failDocument(ctx, documentID, ownerID, fmt.Sprintf("read stored file: %v", err))
		return nil
	}

	result, err := extract.Extract(ctx, data, doc.FileType)
	if err != nil {
		s.failDocument(ctx, documentID, ownerID, fmt.Sprintf("extract %s: %v", doc.FileType, err))
		return nil
	}

	completed := StatusCompleted
	summary := analyzer.Summarize(result.Text)
	meta := Metadata{
		WordCount:        result.WordCount,
		PageCount:        result.PageCount,
		Language:         analyzer.DetectLanguage(result.Text),
		ExtractionMethod: result.Method,
	}
	if _, err := s.Repo.Update(ctx, documentID, ownerID, Patch{
		Status:      &completed,
		ContentText: &result.Text,
		Summary:     &summary,
		Metadata:    &meta,
	}); err != nil {
		return fmt.Errorf("set completed: %w", err)
	}

	metrics.IncProcessingCompleted()
	metrics.ObserveProcessingDurationMs(float64(time.Since(startedAt).Milliseconds()))
	telemetry.Info("documents.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       documentID,
		"user_id":           ownerID,
		"status":            StatusCompleted,
		"status_transition": StatusProcessing + "->" + StatusCompleted,
		"word_count":        meta.WordCount,
		"language":          meta.Language,
	})
	return nil
}

// failDocument moves a document to "failed" and appends the reason to its
// error log. Failure is terminal; there is no automatic retry.
func (s *Service) failDocument(ctx context.Context, documentID, ownerID, reason string) {
	// The processing context may already be expired; failing the document
	// must still go through.
	if ctx.Err() != nil {
		ctx = backgroundWithRequestID(ctx)
	}

	doc, err := s.Repo.GetByID(ctx, documentID, ownerID)
	if err != nil {
		telemetry.Error("documents.fail_lookup", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
		return
	}

	failed := StatusFailed
	meta := doc.Metadata
	meta.ErrorLog = append(meta.ErrorLog, reason)
	if _, err := s.Repo.Update(ctx, documentID, ownerID, Patch{Status: &failed, Metadata: &meta}); err != nil {
		telemetry.Error("documents.fail_update", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
		return
	}

	metrics.IncProcessingFailed()
	telemetry.Error("documents.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       documentID,
		"user_id":           ownerID,
		"status":            StatusFailed,
		"status_transition": StatusProcessing + "->" + StatusFailed,
		"reason":            reason,
	})
}

func fileTypeFromName(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return FileTypePDF
	case ".txt":
		return FileTypeTXT
	case ".docx":
		return FileTypeDOCX
	default:
		return ""
	}
}

type requestIDKey struct{}

// WithRequestID stores a request ID for background processing logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// backgroundWithRequestID detaches from the request context while keeping the
// request ID for log correlation.
func backgroundWithRequestID(ctx context.Context) context.Context {
	return WithRequestID(context.Background(), requestIDFromContext(ctx))
}
