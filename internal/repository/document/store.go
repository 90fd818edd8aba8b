package document

import (
	"context"
	"errors"
	"sync"
	"time"

	itemsdomain "bringlist/internal/domain/items"
	listsdomain "bringlist/internal/domain/lists"
	"github.com/google/uuid"
)

const (
	itemIDPrefix  = "item-"
	maxIDAttempts = 8
)

const (
	opLoad       = "load"
	opSave       = "save"
	opListItems  = "list_items"
	opGetItem    = "get_item"
	opCreateItem = "create_item"
	opRenameItem = "rename_item"
	opDeleteItem = "delete_item"
	opItemUsage  = "item_usage"
	opListLists  = "list_lists"
	opGetList    = "get_list"
	opCreateList = "create_list"
	opUpdateList = "update_list"
	opDeleteList = "delete_list"
)

// Store is the only component that touches the document. Every mutation is a
// single load-mutate-save cycle run under the write lock, so concurrent
// requests in one process never lose each other's updates.
type Store struct {
	backend Backend
	mu      sync.RWMutex
	now     func() time.Time
	newID   func() string
	metrics *Metrics
}

var (
	_ itemsdomain.Repository = (*Store)(nil)
	_ listsdomain.Repository = (*Store)(nil)
)

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(s *Store) {
		s.metrics = metrics
	}
}

func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Close() error {
	return s.backend.Close()
}

// NextID returns a fresh identifier. Identifiers handed out by Create* calls
// are additionally checked against the ids already in the document.
func (s *Store) NextID() string {
	return s.newID()
}

// Load returns the current document, writing the seed catalog first if
// nothing has been stored yet.
func (s *Store) Load(ctx context.Context) (db Database, err error) {
	defer s.observe(opLoad, time.Now(), &err)
	return s.load(ctx)
}

// Save replaces the whole document.
func (s *Store) Save(ctx context.Context, db Database) (err error) {
	defer s.observe(opSave, time.Now(), &err)

	data, err := Encode(db)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backend.Update(ctx, func([]byte) ([]byte, error) {
		return data, nil
	})
}

func (s *Store) ListItems(ctx context.Context) (result []itemsdomain.Item, err error) {
	defer s.observe(opListItems, time.Now(), &err)

	db, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return db.Items, nil
}

func (s *Store) GetItem(ctx context.Context, id string) (item itemsdomain.Item, found bool, err error) {
	defer s.observe(opGetItem, time.Now(), &err)

	db, err := s.load(ctx)
	if err != nil {
		return itemsdomain.Item{}, false, err
	}
	idx := db.itemIndex(id)
	if idx < 0 {
		return itemsdomain.Item{}, false, nil
	}
	return db.Items[idx], true, nil
}

// CreateItem expects name to be trimmed and non-empty already.
func (s *Store) CreateItem(ctx context.Context, name string) (created itemsdomain.Item, err error) {
	defer s.observe(opCreateItem, time.Now(), &err)

	if name == "" {
		return itemsdomain.Item{}, itemsdomain.ErrNameRequired
	}

	err = s.mutate(ctx, func(db *Database) (bool, error) {
		id, err := s.allocateID(*db, itemIDPrefix)
		if err != nil {
			return false, err
		}
		created = itemsdomain.Item{ID: id, Name: name}
		db.Items = append(db.Items, created)
		return true, nil
	})
	if err != nil {
		return itemsdomain.Item{}, err
	}
	return created, nil
}

func (s *Store) RenameItem(ctx context.Context, id, name string) (renamed itemsdomain.Item, found bool, err error) {
	defer s.observe(opRenameItem, time.Now(), &err)

	if name == "" {
		return itemsdomain.Item{}, false, itemsdomain.ErrNameRequired
	}

	err = s.mutate(ctx, func(db *Database) (bool, error) {
		idx := db.itemIndex(id)
		if idx < 0 {
			return false, nil
		}
		db.Items[idx].Name = name
		renamed = db.Items[idx]
		found = true
		return true, nil
	})
	if err != nil {
		return itemsdomain.Item{}, false, err
	}
	return renamed, found, nil
}

// DeleteItem removes the item and every list entry pointing at it in the
// same write.
func (s *Store) DeleteItem(ctx context.Context, id string) (found bool, err error) {
	defer s.observe(opDeleteItem, time.Now(), &err)

	err = s.mutate(ctx, func(db *Database) (bool, error) {
		idx := db.itemIndex(id)
		if idx < 0 {
			return false, nil
		}
		db.Items = append(db.Items[:idx], db.Items[idx+1:]...)
		for i := range db.Lists {
			kept := db.Lists[i].Items[:0]
			for _, entry := range db.Lists[i].Items {
				if entry.ItemID != id {
					kept = append(kept, entry)
				}
			}
			db.Lists[i].Items = kept
		}
		found = true
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// ListItemsWithUsage returns the catalog and its usage counts from one read.
func (s *Store) ListItemsWithUsage(ctx context.Context) (result []itemsdomain.ItemWithUsage, err error) {
	defer s.observe(opListItems, time.Now(), &err)

	db, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	counts := db.UsageCounts()
	result = make([]itemsdomain.ItemWithUsage, 0, len(db.Items))
	for _, item := range db.Items {
		result = append(result, itemsdomain.ItemWithUsage{Item: item, UsageCount: counts[item.ID]})
	}
	return result, nil
}

func (s *Store) GetItemWithUsage(ctx context.Context, id string) (item itemsdomain.ItemWithUsage, found bool, err error) {
	defer s.observe(opGetItem, time.Now(), &err)

	db, err := s.load(ctx)
	if err != nil {
		return itemsdomain.ItemWithUsage{}, false, err
	}
	idx := db.itemIndex(id)
	if idx < 0 {
		return itemsdomain.ItemWithUsage{}, false, nil
	}
	return itemsdomain.ItemWithUsage{Item: db.Items[idx], UsageCount: db.UsageCount(id)}, true, nil
}

func (s *Store) ItemUsageCount(ctx context.Context, id string) (count int, err error) {
	defer s.observe(opItemUsage, time.Now(), &err)

	db, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return db.UsageCount(id), nil
}

func (s *Store) ItemUsageCounts(ctx context.Context) (counts map[string]int, err error) {
	defer s.observe(opItemUsage, time.Now(), &err)

	db, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return db.UsageCounts(), nil
}

func (s *Store) ListLists(ctx context.Context) (result []listsdomain.List, err error) {
	defer s.observe(opListLists, time.Now(), &err)

	db, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return db.Lists, nil
}

func (s *Store) GetList(ctx context.Context, id string) (list listsdomain.List, found bool, err error) {
	defer s.observe(opGetList, time.Now(), &err)

	db, err := s.load(ctx)
	if err != nil {
		return listsdomain.List{}, false, err
	}
	idx := db.listIndex(id)
	if idx < 0 {
		return listsdomain.List{}, false, nil
	}
	return db.Lists[idx], true, nil
}

// CreateList rejects entries that reference unknown items or repeat an item.
func (s *Store) CreateList(ctx context.Context, childName string, entries []listsdomain.ListItem) (created listsdomain.List, err error) {
	defer s.observe(opCreateList, time.Now(), &err)

	if childName == "" {
		return listsdomain.List{}, listsdomain.ErrChildNameRequired
	}
	entries = clampEntries(entries)

	err = s.mutate(ctx, func(db *Database) (bool, error) {
		if err := db.checkReferences(entries); err != nil {
			return false, err
		}
		id, err := s.allocateID(*db, "")
		if err != nil {
			return false, err
		}
		now := s.now().UTC()
		created = listsdomain.List{
			ID:        id,
			ChildName: childName,
			Items:     entries,
			CreatedAt: now,
			UpdatedAt: now,
		}
		db.Lists = append(db.Lists, cloneList(created))
		return true, nil
	})
	if err != nil {
		return listsdomain.List{}, err
	}
	return created, nil
}

// UpdateList applies the non-nil fields of patch. UpdatedAt never moves
// backwards, even if the clock does.
func (s *Store) UpdateList(ctx context.Context, id string, patch listsdomain.Patch) (updated listsdomain.List, found bool, err error) {
	defer s.observe(opUpdateList, time.Now(), &err)

	if patch.ChildName != nil && *patch.ChildName == "" {
		return listsdomain.List{}, false, listsdomain.ErrChildNameRequired
	}
	var entries []listsdomain.ListItem
	if patch.Items != nil {
		entries = clampEntries(*patch.Items)
	}

	err = s.mutate(ctx, func(db *Database) (bool, error) {
		idx := db.listIndex(id)
		if idx < 0 {
			return false, nil
		}
		list := &db.Lists[idx]
		if patch.Items != nil {
			if err := db.checkReferences(entries); err != nil {
				return false, err
			}
			list.Items = entries
		}
		if patch.ChildName != nil {
			list.ChildName = *patch.ChildName
		}

		now := s.now().UTC()
		if now.Before(list.UpdatedAt) {
			now = list.UpdatedAt
		}
		list.UpdatedAt = now

		updated = cloneList(*list)
		found = true
		return true, nil
	})
	if err != nil {
		return listsdomain.List{}, false, err
	}
	return updated, found, nil
}

func (s *Store) DeleteList(ctx context.Context, id string) (found bool, err error) {
	defer s.observe(opDeleteList, time.Now(), &err)

	err = s.mutate(ctx, func(db *Database) (bool, error) {
		idx := db.listIndex(id)
		if idx < 0 {
			return false, nil
		}
		db.Lists = append(db.Lists[:idx], db.Lists[idx+1:]...)
		found = true
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (s *Store) load(ctx context.Context) (Database, error) {
	s.mu.RLock()
	data, err := s.backend.Read(ctx)
	s.mu.RUnlock()

	if errors.Is(err, ErrDocumentNotFound) {
		return s.initialize(ctx)
	}
	if err != nil {
		return Database{}, err
	}
	return Decode(data)
}

func (s *Store) initialize(ctx context.Context) (Database, error) {
	var db Database
	err := s.mutate(ctx, func(current *Database) (bool, error) {
		db = current.Clone()
		return false, nil
	})
	if err != nil {
		return Database{}, err
	}
	return db, nil
}

// mutate runs fn against the freshly read document and persists it when fn
// reports a change. A missing document is seeded first, and the seed is
// written even if fn changes nothing.
func (s *Store) mutate(ctx context.Context, fn func(db *Database) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.backend.Update(ctx, func(current []byte) ([]byte, error) {
		db := Seed()
		seeded := current == nil
		if !seeded {
			decoded, err := Decode(current)
			if err != nil {
				return nil, err
			}
			db = decoded
		}

		changed, err := fn(&db)
		if err != nil {
			return nil, err
		}
		if !changed && !seeded {
			return nil, nil
		}
		return Encode(db)
	})
}

func (s *Store) allocateID(db Database, prefix string) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := prefix + s.newID()
		if !db.hasID(id) {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

func (s *Store) observe(operation string, started time.Time, err *error) {
	s.metrics.observe(operation, started, *err)
}

func clampEntries(entries []listsdomain.ListItem) []listsdomain.ListItem {
	result := make([]listsdomain.ListItem, len(entries))
	for i, entry := range entries {
		if entry.Quantity < listsdomain.DefaultQuantity {
			entry.Quantity = listsdomain.DefaultQuantity
		}
		result[i] = entry
	}
	return result
}
