package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/hr-operations-api/internal/constants"
	apierrors "github.com/yukikurage/hr-operations-api/internal/errors"
	"github.com/yukikurage/hr-operations-api/internal/models"
	"github.com/yukikurage/hr-operations-api/internal/repository"
	"github.com/yukikurage/hr-operations-api/internal/storage"
)

var (
	ErrFolderNotFound     = apierrors.NotFoundf("Folder not found")
	ErrDocumentNotFound   = apierrors.NotFoundf("Document not found")
	ErrFolderNameRequired = apierrors.Validation("name is required")
	ErrFileRequired       = apierrors.Validation("file is required")
	ErrFileTooLarge       = apierrors.Validation(fmt.Sprintf("File must be at most %d bytes", constants.MaxUploadSize))
)

// DocumentService manages folders and the documents stored in them
type DocumentService struct {
	repo         repository.DocumentRepository
	employeeRepo repository.EmployeeRepository
	blobs        storage.BlobStore
	notifier     *NotificationService
	log          logrus.FieldLogger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	repo repository.DocumentRepository,
	employeeRepo repository.EmployeeRepository,
	blobs storage.BlobStore,
	notifier *NotificationService,
	log logrus.FieldLogger,
) *DocumentService {
	return &DocumentService{
		repo:         repo,
		employeeRepo: employeeRepo,
		blobs:        blobs,
		notifier:     notifier,
		log:          log,
	}
}

type CreateFolderInput struct {
	Name       string
	EmployeeID *uint64
}

type UploadInput struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ListFolders lists every folder for HR/admin and the actor's folders otherwise
func (s *DocumentService) ListFolders(ctx context.Context, actor models.Actor) ([]models.Folder, error) {
	var visibleTo *uint64
	if !actor.IsHROrAdmin() {
		visibleTo = &actor.UserID
	}
	folders, err := s.repo.ListFolders(ctx, visibleTo)
	if err != nil {
		return nil, storeFault("failed to list folders", err)
	}
	return folders, nil
}

// CreateFolder creates a folder owned by the actor. Only HR/admin may file a
// folder for another employee.
func (s *DocumentService) CreateFolder(ctx context.Context, actor models.Actor, input CreateFolderInput) (*models.Folder, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrFolderNameRequired
	}
	if input.EmployeeID != nil && *input.EmployeeID != actor.UserID {
		if !actor.IsHROrAdmin() {
			return nil, ErrHROnly
		}
		if _, err := s.employeeRepo.FindByID(ctx, *input.EmployeeID); err != nil {
			return nil, notFoundOr(ErrEmployeeNotFound, "failed to find employee", err)
		}
	}

	folder := &models.Folder{
		Name:       name,
		OwnerID:    actor.UserID,
		EmployeeID: input.EmployeeID,
	}
	if err := s.repo.CreateFolder(ctx, folder); err != nil {
		return nil, storeFault("failed to create folder", err)
	}
	return folder, nil
}

// GetFolder returns a folder the actor can access. Inaccessible folders are
// reported as missing.
func (s *DocumentService) GetFolder(ctx context.Context, actor models.Actor, id uint64) (*models.Folder, error) {
	folder, err := s.repo.FindFolder(ctx, id)
	if err != nil {
		return nil, notFoundOr(ErrFolderNotFound, "failed to find folder", err)
	}
	if !folder.CanAccess(actor) {
		return nil, ErrFolderNotFound
	}
	return folder, nil
}

func (s *DocumentService) ListDocuments(ctx context.Context, actor models.Actor, folderID uint64) ([]models.Document, error) {
	if _, err := s.GetFolder(ctx, actor, folderID); err != nil {
		return nil, err
	}
	documents, err := s.repo.ListDocuments(ctx, folderID)
	if err != nil {
		return nil, storeFault("failed to list documents", err)
	}
	return documents, nil
}

// Upload stores the bytes in the blob store and then records the document.
// The blob is removed again when the row cannot be written.
func (s *DocumentService) Upload(ctx context.Context, actor models.Actor, folderID uint64, input UploadInput) (*models.Document, error) {
	folder, err := s.GetFolder(ctx, actor, folderID)
	if err != nil {
		return nil, err
	}
	name := path.Base(strings.TrimSpace(input.Name))
	if input.Body == nil || name == "" || name == "." || name == "/" {
		return nil, ErrFileRequired
	}
	if input.Size > constants.MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	contentType := input.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("folders/%d/%s", folder.ID, uuid.NewString())
	if err := s.blobs.Put(ctx, key, input.Body, input.Size, contentType); err != nil {
		return nil, apierrors.Unexpected(fmt.Errorf("failed to store document: %w", err))
	}

	document := &models.Document{
		FolderID:    folder.ID,
		Name:        name,
		ContentType: contentType,
		Size:        input.Size,
		StorageKey:  key,
		UploadedBy:  actor.UserID,
	}
	if err := s.repo.CreateDocument(ctx, document); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.log.WithError(delErr).WithField("storage_key", key).Warn("failed to remove orphaned blob")
		}
		return nil, storeFault("failed to create document", err)
	}

	s.notifyFolderEmployee(ctx, actor, *folder, *document)
	return document, nil
}

// Open returns the document and a reader over its bytes; the caller closes it
func (s *DocumentService) Open(ctx context.Context, actor models.Actor, id uint64) (*models.Document, io.ReadCloser, error) {
	document, err := s.findAccessibleDocument(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	body, err := s.blobs.Get(ctx, document.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, apierrors.Unexpected(fmt.Errorf("failed to read document: %w", err))
	}
	return document, body, nil
}

// Delete soft deletes the document row and removes its bytes
func (s *DocumentService) Delete(ctx context.Context, actor models.Actor, id uint64) error {
	document, err := s.findAccessibleDocument(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteDocument(ctx, document.ID); err != nil {
		return storeFault("failed to delete document", err)
	}
	if err := s.blobs.Delete(ctx, document.StorageKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.log.WithError(err).WithField("storage_key", document.StorageKey).Warn("failed to remove document blob")
	}
	return nil
}

func (s *DocumentService) findAccessibleDocument(ctx context.Context, actor models.Actor, id uint64) (*models.Document, error) {
	document, err := s.repo.FindDocument(ctx, id)
	if err != nil {
		return nil, notFoundOr(ErrDocumentNotFound, "failed to find document", err)
	}
	if !document.Folder.CanAccess(actor) {
		return nil, ErrDocumentNotFound
	}
	return document, nil
}

func (s *DocumentService) notifyFolderEmployee(ctx context.Context, actor models.Actor, folder models.Folder, document models.Document) {
	if s.notifier == nil || folder.EmployeeID == nil || *folder.EmployeeID == actor.UserID {
		return
	}
	err := s.notifier.Notify(ctx, []uint64{*folder.EmployeeID}, models.Notification{
		Type:  models.NotificationDocument,
		Title: fmt.Sprintf("New document %q in %s", document.Name, folder.Name),
		Link:  fmt.Sprintf("/folders/%d", folder.ID),
	})
	if err != nil {
		s.log.WithError(err).WithField("document_id", document.ID).Warn("failed to notify employee")
	}
}
