package repository

import (
	"context"

	"github.com/yukikurage/hr-operations-api/internal/models"
	"gorm.io/gorm"
)

// GormDocumentRepository is a GORM implementation of DocumentRepository
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &GormDocumentRepository{db: db}
}

func (r *GormDocumentRepository) CreateFolder(ctx context.Context, folder *models.Folder) error {
	return r.db.WithContext(ctx).Create(folder).Error
}

func (r *GormDocumentRepository) FindFolder(ctx context.Context, id uint64) (*models.Folder, error) {
	var folder models.Folder
	if err := r.db.WithContext(ctx).First(&folder, id).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

func (r *GormDocumentRepository) ListFolders(ctx context.Context, visibleTo *uint64) ([]models.Folder, error) {
	query := r.db.WithContext(ctx).Model(&models.Folder{})
	if visibleTo != nil {
		query = query.Where("owner_id = ? OR employee_id = ?", *visibleTo, *visibleTo)
	}

	var folders []models.Folder
	err := query.Order("name ASC").Order("id ASC").Find(&folders).Error
	return folders, err
}

func (r *GormDocumentRepository) CreateDocument(ctx context.Context, document *models.Document) error {
	return r.db.WithContext(ctx).Omit("Folder").Create(document).Error
}

func (r *GormDocumentRepository) FindDocument(ctx context.Context, id uint64) (*models.Document, error) {
	var document models.Document
	if err := r.db.WithContext(ctx).Preload("Folder").First(&document, id).Error; err != nil {
		return nil, err
	}
	return &document, nil
}

func (r *GormDocumentRepository) ListDocuments(ctx context.Context, folderID uint64) ([]models.Document, error) {
	var documents []models.Document
	err := r.db.WithContext(ctx).
		Where("folder_id = ?", folderID).
		Order("created_at DESC").Order("id DESC").
		Find(&documents).Error
	return documents, err
}

func (r *GormDocumentRepository) DeleteDocument(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&models.Document{}, id).Error
}
