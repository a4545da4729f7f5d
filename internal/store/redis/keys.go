package redis

const (
	// KeyPrefixItem is the prefix for item keys
	KeyPrefixItem = "spinshelf:item:"
	// KeyAllItems is the key for the set of all item IDs
	KeyAllItems = "spinshelf:items:all"
)

// ItemKey returns the Redis key for an item by ID
func ItemKey(id string) string {
	return KeyPrefixItem + id
}

// AllItemsKey returns the key for the set of all item IDs
func AllItemsKey() string {
	return KeyAllItems
}
