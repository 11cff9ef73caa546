package deplevel

// Item is the capability an external value must expose to be ingested.
//
// Pointers to items with value receivers and structs that embed an Item
// satisfy the contract through Go method sets, so wrapped and shared items
// can be passed as they are.
type Item[ID comparable] interface {
	// ID returns the identifier naming this item.
	ID() ID
	// Deps returns the identifiers this item depends on. It may be empty.
	// Duplicates and self-references are accepted.
	Deps() []ID
}
