package ledger

import "context"

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// Repository is an order-preserving store of entries keyed by id.
// Implementations return copies; mutating a returned entry does not touch the store.
type Repository interface {
	Get(ctx context.Context, id string) (*Entry, error)
	Put(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Entry, error)
}
