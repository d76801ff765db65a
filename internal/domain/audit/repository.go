package audit

import "context"

type Repository interface {
	Append(ctx context.Context, e Entry) error
	ListByEvent(ctx context.Context, eventID string, limit int) ([]Entry, error)
}
