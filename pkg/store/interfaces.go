package store

import (
	"context"

	"homereel/pkg/model"
)

// GenerationStore handles the storyboard generation journal.
type GenerationStore interface {
	SaveGeneration(ctx context.Context, rec *model.GenerationRecord) error
	GetGeneration(ctx context.Context, id string) (*model.GenerationRecord, error)
	ListRecentGenerations(ctx context.Context, limit int) ([]*model.GenerationRecord, error)
}

// StateStore handles persistent application state.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}
