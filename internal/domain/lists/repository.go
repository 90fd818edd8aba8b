package lists

import "context"

// Repository persists lists. CreateList and UpdateList return ErrUnknownItem
// or ErrDuplicateItem when an entry does not resolve to a single catalog item.
type Repository interface {
	ListLists(ctx context.Context) ([]List, error)
	GetList(ctx context.Context, id string) (List, bool, error)
	CreateList(ctx context.Context, childName string, items []ListItem) (List, error)
	UpdateList(ctx context.Context, id string, patch Patch) (List, bool, error)
	DeleteList(ctx context.Context, id string) (bool, error)
}
