package badger

import "fmt"

// Key prefixes for stored data
const (
	chunkPrefix = "chunk"
)

// makeChunkKey generates a key for a chunk by ID.
func makeChunkKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", chunkPrefix, id))
}
