package lists

import "time"

const DefaultQuantity = 1

// ListItem references a catalog item by ID.
type ListItem struct {
	ItemID   string `json:"itemId" yaml:"itemId"`
	Quantity int    `json:"quantity" yaml:"quantity"`
	Note     string `json:"note" yaml:"note"`
}

type List struct {
	ID        string     `json:"id" yaml:"id"`
	ChildName string     `json:"childName" yaml:"childName"`
	Items     []ListItem `json:"items" yaml:"items"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

// Contains reports whether the list references itemID.
func (l List) Contains(itemID string) bool {
	for _, entry := range l.Items {
		if entry.ItemID == itemID {
			return true
		}
	}
	return false
}

type CreateListInput struct {
	ChildName string
	Items     []ListItem
}

// Patch carries the fields to replace on a list; nil fields are left alone.
type Patch struct {
	ChildName *string
	Items     *[]ListItem
}

type UpdateListInput struct {
	ID        string
	ChildName *string
	Items     *[]ListItem
}
