package lists

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeListsRepo struct {
	lists   []List
	catalog map[string]struct{}
	now     time.Time
	err     error
	patches []Patch
}

func newFakeListsRepo(itemIDs ...string) *fakeListsRepo {
	catalog := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		catalog[id] = struct{}{}
	}
	return &fakeListsRepo{
		catalog: catalog,
		now:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeListsRepo) checkRefs(entries []ListItem) error {
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if _, ok := r.catalog[entry.ItemID]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownItem, entry.ItemID)
		}
		if _, ok := seen[entry.ItemID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateItem, entry.ItemID)
		}
		seen[entry.ItemID] = struct{}{}
	}
	return nil
}

func (r *fakeListsRepo) ListLists(ctx context.Context) ([]List, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]List(nil), r.lists...), nil
}

func (r *fakeListsRepo) GetList(ctx context.Context, id string) (List, bool, error) {
	if r.err != nil {
		return List{}, false, r.err
	}
	for _, list := range r.lists {
		if list.ID == id {
			return list, true, nil
		}
	}
	return List{}, false, nil
}

func (r *fakeListsRepo) CreateList(ctx context.Context, childName string, items []ListItem) (List, error) {
	if r.err != nil {
		return List{}, r.err
	}
	if err := r.checkRefs(items); err != nil {
		return List{}, err
	}
	list := List{
		ID:        fmt.Sprintf("list-%d", len(r.lists)+1),
		ChildName: childName,
		Items:     items,
		CreatedAt: r.now,
		UpdatedAt: r.now,
	}
	r.lists = append(r.lists, list)
	return list, nil
}

func (r *fakeListsRepo) UpdateList(ctx context.Context, id string, patch Patch) (List, bool, error) {
	r.patches = append(r.patches, patch)
	if r.err != nil {
		return List{}, false, r.err
	}
	for i := range r.lists {
		if r.lists[i].ID != id {
			continue
		}
		if patch.Items != nil {
			if err := r.checkRefs(*patch.Items); err != nil {
				return List{}, false, err
			}
			r.lists[i].Items = *patch.Items
		}
		if patch.ChildName != nil {
			r.lists[i].ChildName = *patch.ChildName
		}
		r.now = r.now.Add(time.Second)
		r.lists[i].UpdatedAt = r.now
		return r.lists[i], true, nil
	}
	return List{}, false, nil
}

func (r *fakeListsRepo) DeleteList(ctx context.Context, id string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for i := range r.lists {
		if r.lists[i].ID == id {
			r.lists = append(r.lists[:i], r.lists[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func stringPtr(value string) *string {
	return &value
}

func TestCreateListNormalizesInput(t *testing.T) {
	repo := newFakeListsRepo("item-1", "item-2")
	svc := NewService(repo)

	list, err := svc.CreateList(context.Background(), CreateListInput{
		ChildName: "  Lucas ",
		Items: []ListItem{
			{ItemID: " item-1 ", Quantity: 2, Note: " bring extra "},
			{ItemID: "item-2", Quantity: 0},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Lucas", list.ChildName)
	require.Len(t, list.Items, 2)
	assert.Equal(t, ListItem{ItemID: "item-1", Quantity: 2, Note: "bring extra"}, list.Items[0])
	assert.Equal(t, ListItem{ItemID: "item-2", Quantity: 1, Note: ""}, list.Items[1])
	assert.Equal(t, list.CreatedAt, list.UpdatedAt)
}

func TestCreateListComposesChildName(t *testing.T) {
	svc := NewService(newFakeListsRepo())

	list, err := svc.CreateList(context.Background(), CreateListInput{ChildName: "Le\u0301a"})
	require.NoError(t, err)
	assert.Equal(t, "L\u00e9a", list.ChildName)
}

func TestCreateListDefaultsToEmptyItems(t *testing.T) {
	svc := NewService(newFakeListsRepo())

	list, err := svc.CreateList(context.Background(), CreateListInput{ChildName: "Emma"})
	require.NoError(t, err)
	assert.NotNil(t, list.Items)
	assert.Empty(t, list.Items)
}

func TestCreateListValidation(t *testing.T) {
	cases := []struct {
		name  string
		input CreateListInput
		want  error
	}{
		{name: "blank child name", input: CreateListInput{ChildName: " \t"}, want: ErrChildNameRequired},
		{name: "blank item id", input: CreateListInput{ChildName: "Lucas", Items: []ListItem{{ItemID: " "}}}, want: ErrItemIDRequired},
		{name: "unknown item", input: CreateListInput{ChildName: "Lucas", Items: []ListItem{{ItemID: "item-9"}}}, want: ErrUnknownItem},
		{name: "duplicate item", input: CreateListInput{ChildName: "Lucas", Items: []ListItem{{ItemID: "item-1"}, {ItemID: "item-1"}}}, want: ErrDuplicateItem},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeListsRepo("item-1")
			svc := NewService(repo)

			_, err := svc.CreateList(context.Background(), tc.input)
			assert.ErrorIs(t, err, tc.want)
			assert.True(t, IsValidationError(err))
			assert.Empty(t, repo.lists)
		})
	}
}

func TestUpdateListOnlyProvidedFields(t *testing.T) {
	repo := newFakeListsRepo("item-1", "item-2")
	svc := NewService(repo)
	created, err := svc.CreateList(context.Background(), CreateListInput{
		ChildName: "Lucas",
		Items:     []ListItem{{ItemID: "item-1", Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateList(context.Background(), UpdateListInput{ID: created.ID, ChildName: stringPtr(" Léa ")})
	require.NoError(t, err)
	assert.Equal(t, "Léa", updated.ChildName)
	assert.Equal(t, created.Items, updated.Items)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	items := []ListItem{{ItemID: "item-2", Quantity: -4}}
	updated, err = svc.UpdateList(context.Background(), UpdateListInput{ID: created.ID, Items: &items})
	require.NoError(t, err)
	assert.Equal(t, "Léa", updated.ChildName)
	assert.Equal(t, []ListItem{{ItemID: "item-2", Quantity: 1}}, updated.Items)
}

func TestUpdateListWithoutFieldsStillTouches(t *testing.T) {
	repo := newFakeListsRepo()
	svc := NewService(repo)
	created, err := svc.CreateList(context.Background(), CreateListInput{ChildName: "Lucas"})
	require.NoError(t, err)

	updated, err := svc.UpdateList(context.Background(), UpdateListInput{ID: created.ID})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	require.Len(t, repo.patches, 1)
	assert.Nil(t, repo.patches[0].ChildName)
	assert.Nil(t, repo.patches[0].Items)
}

func TestUpdateListValidation(t *testing.T) {
	repo := newFakeListsRepo("item-1")
	svc := NewService(repo)

	_, err := svc.UpdateList(context.Background(), UpdateListInput{ID: "list-1", ChildName: stringPtr("  ")})
	assert.ErrorIs(t, err, ErrChildNameRequired)
	assert.Empty(t, repo.patches)

	_, err = svc.UpdateList(context.Background(), UpdateListInput{ID: "missing", ChildName: stringPtr("Lucas")})
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestGetAndDeleteList(t *testing.T) {
	repo := newFakeListsRepo()
	svc := NewService(repo)
	created, err := svc.CreateList(context.Background(), CreateListInput{ChildName: "Lucas"})
	require.NoError(t, err)

	got, err := svc.GetList(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	require.NoError(t, svc.DeleteList(context.Background(), created.ID))
	_, err = svc.GetList(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrListNotFound)
	assert.ErrorIs(t, svc.DeleteList(context.Background(), created.ID), ErrListNotFound)
}

func TestListStorageErrorIsNotValidation(t *testing.T) {
	repo := newFakeListsRepo()
	repo.err = errors.New("disk unavailable")
	svc := NewService(repo)

	_, err := svc.CreateList(context.Background(), CreateListInput{ChildName: "Lucas"})
	require.Error(t, err)
	assert.False(t, IsValidationError(err))

	_, err = svc.ListLists(context.Background())
	assert.ErrorIs(t, err, repo.err)
}

func TestListContains(t *testing.T) {
	list := List{Items: []ListItem{{ItemID: "item-1"}, {ItemID: "item-3"}}}
	assert.True(t, list.Contains("item-3"))
	assert.False(t, list.Contains("item-2"))
}
