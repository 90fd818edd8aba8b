package items

// Item is a reusable catalog entry that lists refer to by ID.
type Item struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ItemWithUsage is an Item decorated with the number of lists referencing it.
type ItemWithUsage struct {
	Item
	UsageCount int
}
