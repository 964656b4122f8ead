// Package registry binds the static partition roster to the stores that back
// each partition. The resolver and the aggregation service iterate the set in
// declared order; nothing outside this package decides partition ordering.
package registry

import (
	"gatecheck/internal/registry/models"
	"gatecheck/internal/registry/store"
)

// Entry pairs a partition's metadata with its store capability.
type Entry struct {
	Partition models.Partition
	Store     store.PartitionStore
}

// Set is the fixed, ordered list of partitions for one deployment.
type Set struct {
	entries []Entry
}

// New builds a Set from entries in probe order.
func New(entries ...Entry) *Set {
	return &Set{entries: entries}
}

// Build constructs a Set for the given roster, opening one store per
// partition through the supplied constructor.
func Build(partitions []models.Partition, open func(models.Partition) store.PartitionStore) *Set {
	entries := make([]Entry, 0, len(partitions))
	for _, p := range partitions {
		entries = append(entries, Entry{Partition: p, Store: open(p)})
	}
	return New(entries...)
}

// Entries returns the partitions in declared order.
func (s *Set) Entries() []Entry {
	return s.entries
}

// Len returns the number of partitions.
func (s *Set) Len() int {
	return len(s.entries)
}
