package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Label struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLabel(name, color string) *Label {
	if color == "" {
		color = "#6b7280"
	}
	return &Label{
		ID:        uuid.New().String(),
		Name:      name,
		Color:     color,
		CreatedAt: time.Now(),
	}
}

type LabelRepository interface {
	Create(ctx context.Context, l *Label) error
	List(ctx context.Context) ([]Label, error)
	Delete(ctx context.Context, id string) (int64, error)
}
