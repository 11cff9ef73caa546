package hclgraph

// Item is one `item` block loaded from a grid file. It satisfies
// deplevel.Item[string].
type Item struct {
	Name      string
	DependsOn []string
	// File is the path of the file that declared the block.
	File string
}

// ID returns the item name.
func (i *Item) ID() string { return i.Name }

// Deps returns the names this item depends on.
func (i *Item) Deps() []string { return i.DependsOn }
