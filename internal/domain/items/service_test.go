package items

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeItemsRepo struct {
	items  []Item
	usage  map[string]int
	nextID int
	reads  int
	err    error
}

func newFakeItemsRepo(items ...Item) *fakeItemsRepo {
	return &fakeItemsRepo{items: items, usage: make(map[string]int)}
}

func (r *fakeItemsRepo) ListItemsWithUsage(ctx context.Context) ([]ItemWithUsage, error) {
	r.reads++
	if r.err != nil {
		return nil, r.err
	}
	result := make([]ItemWithUsage, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, ItemWithUsage{Item: item, UsageCount: r.usage[item.ID]})
	}
	return result, nil
}

func (r *fakeItemsRepo) GetItemWithUsage(ctx context.Context, id string) (ItemWithUsage, bool, error) {
	r.reads++
	if r.err != nil {
		return ItemWithUsage{}, false, r.err
	}
	for _, item := range r.items {
		if item.ID == id {
			return ItemWithUsage{Item: item, UsageCount: r.usage[id]}, true, nil
		}
	}
	return ItemWithUsage{}, false, nil
}

func (r *fakeItemsRepo) CreateItem(ctx context.Context, name string) (Item, error) {
	if r.err != nil {
		return Item{}, r.err
	}
	r.nextID++
	item := Item{ID: fmt.Sprintf("item-new-%d", r.nextID), Name: name}
	r.items = append(r.items, item)
	return item, nil
}

func (r *fakeItemsRepo) RenameItem(ctx context.Context, id, name string) (Item, bool, error) {
	if r.err != nil {
		return Item{}, false, r.err
	}
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Name = name
			return r.items[i], true, nil
		}
	}
	return Item{}, false, nil
}

func (r *fakeItemsRepo) DeleteItem(ctx context.Context, id string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			delete(r.usage, id)
			return true, nil
		}
	}
	return false, nil
}

func TestListItemsDecoratesUsage(t *testing.T) {
	repo := newFakeItemsRepo(Item{ID: "item-1", Name: "Biberon"}, Item{ID: "item-2", Name: "Couches"})
	repo.usage["item-2"] = 3

	svc := NewService(repo)
	result, err := svc.ListItems(context.Background())
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, 0, result[0].UsageCount)
	assert.Equal(t, "Couches", result[1].Name)
	assert.Equal(t, 3, result[1].UsageCount)
	assert.Equal(t, 1, repo.reads)
}

func TestCreateItemTrimsName(t *testing.T) {
	repo := newFakeItemsRepo()
	svc := NewService(repo)

	item, err := svc.CreateItem(context.Background(), "  Doudou \n")
	require.NoError(t, err)
	assert.Equal(t, "Doudou", item.Name)
	assert.Len(t, repo.items, 1)
}

func TestCreateItemComposesAccents(t *testing.T) {
	repo := newFakeItemsRepo()
	svc := NewService(repo)

	item, err := svc.CreateItem(context.Background(), "Te\u0301tine")
	require.NoError(t, err)
	assert.Equal(t, "T\u00e9tine", item.Name)
}

func TestCreateItemRejectsBlankName(t *testing.T) {
	repo := newFakeItemsRepo()
	svc := NewService(repo)

	_, err := svc.CreateItem(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrNameRequired)
	assert.Empty(t, repo.items)
}

func TestRenameItem(t *testing.T) {
	repo := newFakeItemsRepo(Item{ID: "item-1", Name: "Biberon"})
	svc := NewService(repo)

	item, err := svc.RenameItem(context.Background(), "item-1", " Biberon 2 ")
	require.NoError(t, err)
	assert.Equal(t, "Biberon 2", item.Name)
	assert.Equal(t, "item-1", item.ID)
}

func TestRenameItemNotFound(t *testing.T) {
	svc := NewService(newFakeItemsRepo())

	_, err := svc.RenameItem(context.Background(), "missing", "Name")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestRenameItemBlankNameChecksBeforeLookup(t *testing.T) {
	svc := NewService(newFakeItemsRepo())

	_, err := svc.RenameItem(context.Background(), "missing", " ")
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestGetItem(t *testing.T) {
	repo := newFakeItemsRepo(Item{ID: "item-1", Name: "Biberon"})
	repo.usage["item-1"] = 2
	svc := NewService(repo)

	item, err := svc.GetItem(context.Background(), "item-1")
	require.NoError(t, err)
	assert.Equal(t, 2, item.UsageCount)
	assert.Equal(t, 1, repo.reads)

	_, err = svc.GetItem(context.Background(), "item-9")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteItem(t *testing.T) {
	repo := newFakeItemsRepo(Item{ID: "item-1", Name: "Biberon"})
	svc := NewService(repo)

	require.NoError(t, svc.DeleteItem(context.Background(), "item-1"))
	assert.Empty(t, repo.items)

	err := svc.DeleteItem(context.Background(), "item-1")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestStorageErrorsPropagate(t *testing.T) {
	storageErr := errors.New("disk unavailable")
	repo := newFakeItemsRepo()
	repo.err = storageErr
	svc := NewService(repo)

	_, err := svc.ListItems(context.Background())
	assert.ErrorIs(t, err, storageErr)

	_, err = svc.CreateItem(context.Background(), "Name")
	assert.ErrorIs(t, err, storageErr)
	assert.NotErrorIs(t, err, ErrNameRequired)

	err = svc.DeleteItem(context.Background(), "item-1")
	assert.ErrorIs(t, err, storageErr)
	assert.NotErrorIs(t, err, ErrItemNotFound)
}
