package badger

import (
	"fmt"
	"strings"
)

// Key prefixes for different data types. The primary and index prefixes
// must not be prefixes of each other, so plain prefix iteration never
// crosses into the wrong keyspace.
const (
	catalogEntryPrefix = "catrec"
	itemCodePrefix     = "catcode"
)

// makeCatalogKey generates the primary key for a catalog entry.
func makeCatalogKey(identity string) []byte {
	return []byte(fmt.Sprintf("%s:%s", catalogEntryPrefix, identity))
}

// makeItemCodeKey generates a composite key for the item-code index.
// Format: prefix:code:identity — one index entry per location of a code.
func makeItemCodeKey(itemCode, identity string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", itemCodePrefix, foldItemCode(itemCode), identity))
}

// makePartialItemCodeKey generates the iteration prefix for all locations
// of one item code.
func makePartialItemCodeKey(itemCode string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", itemCodePrefix, foldItemCode(itemCode)))
}

// foldItemCode is the index form of an item code: lookups are
// case-insensitive, stored entries keep the original spelling.
func foldItemCode(itemCode string) string {
	return strings.ToLower(strings.TrimSpace(itemCode))
}
