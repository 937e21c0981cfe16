package port

import (
	"context"

	"github.com/google/uuid"

	"fieldlens/internal/domain"
)

// DocumentRepository persists the record of each processed upload.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, offset, limit int) ([]domain.Document, int, error)
}
