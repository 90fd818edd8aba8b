package document

import (
	"encoding/json"
	"fmt"
	"time"

	itemsdomain "bringlist/internal/domain/items"
	listsdomain "bringlist/internal/domain/lists"
)

// Database is the root document: the whole catalog plus every list.
type Database struct {
	Lists []listsdomain.List `json:"lists" yaml:"lists"`
	Items []itemsdomain.Item `json:"items" yaml:"items"`
}

// Seed returns the document written on first access.
func Seed() Database {
	return Database{
		Lists: []listsdomain.List{},
		Items: []itemsdomain.Item{
			{ID: "item-1", Name: "Biberon"},
			{ID: "item-2", Name: "Couches"},
			{ID: "item-3", Name: "Doudou"},
			{ID: "item-4", Name: "Tétine"},
			{ID: "item-5", Name: "Change de vêtements"},
		},
	}
}

// Clone returns a deep copy so callers never share slices with the store.
func (d Database) Clone() Database {
	out := Database{
		Lists: make([]listsdomain.List, len(d.Lists)),
		Items: make([]itemsdomain.Item, len(d.Items)),
	}
	copy(out.Items, d.Items)
	for i, list := range d.Lists {
		out.Lists[i] = cloneList(list)
	}
	return out
}

func (d Database) itemIndex(id string) int {
	for i := range d.Items {
		if d.Items[i].ID == id {
			return i
		}
	}
	return -1
}

func (d Database) listIndex(id string) int {
	for i := range d.Lists {
		if d.Lists[i].ID == id {
			return i
		}
	}
	return -1
}

func (d Database) hasID(id string) bool {
	return d.itemIndex(id) >= 0 || d.listIndex(id) >= 0
}

// UsageCount counts the lists referencing itemID.
func (d Database) UsageCount(itemID string) int {
	count := 0
	for _, list := range d.Lists {
		if list.Contains(itemID) {
			count++
		}
	}
	return count
}

// UsageCounts is UsageCount for every item in one pass.
func (d Database) UsageCounts() map[string]int {
	counts := make(map[string]int, len(d.Items))
	for _, list := range d.Lists {
		seen := make(map[string]struct{}, len(list.Items))
		for _, entry := range list.Items {
			if _, ok := seen[entry.ItemID]; ok {
				continue
			}
			seen[entry.ItemID] = struct{}{}
			counts[entry.ItemID]++
		}
	}
	return counts
}

// checkReferences enforces that every entry points at an existing item once.
func (d Database) checkReferences(entries []listsdomain.ListItem) error {
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if d.itemIndex(entry.ItemID) < 0 {
			return fmt.Errorf("%w: %s", listsdomain.ErrUnknownItem, entry.ItemID)
		}
		if _, ok := seen[entry.ItemID]; ok {
			return fmt.Errorf("%w: %s", listsdomain.ErrDuplicateItem, entry.ItemID)
		}
		seen[entry.ItemID] = struct{}{}
	}
	return nil
}

func cloneList(list listsdomain.List) listsdomain.List {
	entries := make([]listsdomain.ListItem, len(list.Items))
	copy(entries, list.Items)
	list.Items = entries
	return list
}

type rawDatabase struct {
	Lists *[]rawList          `json:"lists"`
	Items *[]itemsdomain.Item `json:"items"`
}

type rawList struct {
	ID        string                  `json:"id"`
	ChildName string                  `json:"childName"`
	Items     *[]listsdomain.ListItem `json:"items"`
	CreatedAt *time.Time              `json:"createdAt"`
	UpdatedAt *time.Time              `json:"updatedAt"`
}

// Decode parses a stored document and rejects anything that does not match
// the expected shape with ErrCorruptStore.
func Decode(data []byte) (Database, error) {
	var raw rawDatabase
	if err := json.Unmarshal(data, &raw); err != nil {
		return Database{}, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	if raw.Items == nil {
		return Database{}, fmt.Errorf("%w: missing items", ErrCorruptStore)
	}
	if raw.Lists == nil {
		return Database{}, fmt.Errorf("%w: missing lists", ErrCorruptStore)
	}

	db := Database{
		Items: *raw.Items,
		Lists: make([]listsdomain.List, 0, len(*raw.Lists)),
	}
	for i, list := range *raw.Lists {
		if list.Items == nil {
			return Database{}, fmt.Errorf("%w: list %d: missing items", ErrCorruptStore, i)
		}
		if list.CreatedAt == nil || list.UpdatedAt == nil {
			return Database{}, fmt.Errorf("%w: list %d: missing timestamps", ErrCorruptStore, i)
		}
		db.Lists = append(db.Lists, listsdomain.List{
			ID:        list.ID,
			ChildName: list.ChildName,
			Items:     *list.Items,
			CreatedAt: *list.CreatedAt,
			UpdatedAt: *list.UpdatedAt,
		})
	}

	if err := db.Validate(); err != nil {
		return Database{}, err
	}
	return db, nil
}

// Validate checks field-level invariants. Dangling item references are
// tolerated here; they can only be produced by editing the file by hand and
// disappear on the next delete of that id.
func (d Database) Validate() error {
	itemIDs := make(map[string]struct{}, len(d.Items))
	for i, item := range d.Items {
		if item.ID == "" {
			return fmt.Errorf("%w: item %d: empty id", ErrCorruptStore, i)
		}
		if item.Name == "" {
			return fmt.Errorf("%w: item %s: empty name", ErrCorruptStore, item.ID)
		}
		if _, ok := itemIDs[item.ID]; ok {
			return fmt.Errorf("%w: item %s: duplicate id", ErrCorruptStore, item.ID)
		}
		itemIDs[item.ID] = struct{}{}
	}

	listIDs := make(map[string]struct{}, len(d.Lists))
	for i, list := range d.Lists {
		if list.ID == "" {
			return fmt.Errorf("%w: list %d: empty id", ErrCorruptStore, i)
		}
		if list.ChildName == "" {
			return fmt.Errorf("%w: list %s: empty childName", ErrCorruptStore, list.ID)
		}
		if _, ok := listIDs[list.ID]; ok {
			return fmt.Errorf("%w: list %s: duplicate id", ErrCorruptStore, list.ID)
		}
		listIDs[list.ID] = struct{}{}
		for _, entry := range list.Items {
			if entry.ItemID == "" {
				return fmt.Errorf("%w: list %s: entry with empty itemId", ErrCorruptStore, list.ID)
			}
			if entry.Quantity < listsdomain.DefaultQuantity {
				return fmt.Errorf("%w: list %s: quantity %d for %s", ErrCorruptStore, list.ID, entry.Quantity, entry.ItemID)
			}
		}
	}
	return nil
}

// Encode validates and serializes the document the way it is stored on disk.
func Encode(db Database) ([]byte, error) {
	db = db.Clone()
	if err := db.Validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(data, '\n'), nil
}
