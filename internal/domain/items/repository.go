package items

import "context"

// Repository returns catalog entries already paired with their usage counts
// so both come from the same stored version.
type Repository interface {
	ListItemsWithUsage(ctx context.Context) ([]ItemWithUsage, error)
	GetItemWithUsage(ctx context.Context, id string) (ItemWithUsage, bool, error)
	CreateItem(ctx context.Context, name string) (Item, error)
	RenameItem(ctx context.Context, id, name string) (Item, bool, error)
	DeleteItem(ctx context.Context, id string) (bool, error)
}
