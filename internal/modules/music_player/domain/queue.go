package domain

// Queue holds the entries waiting to be played in insertion order.
// The entry that is currently streaming is never part of the queue.
type Queue struct {
	entries []*QueueEntry
}

// NewQueue creates a new empty Queue.
func NewQueue() Queue {
	return Queue{entries: make([]*QueueEntry, 0)}
}

// Len returns the number of waiting entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

// IsEmpty returns true if nothing is waiting.
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Push appends entries to the tail and returns the new length.
func (q *Queue) Push(entries ...*QueueEntry) int {
	q.entries = append(q.entries, entries...)
	return q.Len()
}

// Pop removes and returns the head, or nil if the queue is empty.
func (q *Queue) Pop() *QueueEntry {
	if q.IsEmpty() {
		return nil
	}
	head := q.entries[0]
	q.entries[0] = nil
	q.entries = q.entries[1:]
	return head
}

// Peek returns the head without removing it, or nil if the queue is empty.
func (q *Queue) Peek() *QueueEntry {
	if q.IsEmpty() {
		return nil
	}
	return q.entries[0]
}

// At returns the entry at the zero-based index, or nil if out of range.
func (q *Queue) At(index int) *QueueEntry {
	if index < 0 || index >= q.Len() {
		return nil
	}
	return q.entries[index]
}

// IndexOf returns the zero-based index of the entry with the given ID, or -1.
func (q *Queue) IndexOf(id EntryID) int {
	for i, e := range q.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// RemoveAt removes and returns the entry at the zero-based index.
// Returns nil and leaves the queue untouched if the index is out of range.
func (q *Queue) RemoveAt(index int) *QueueEntry {
	if index < 0 || index >= q.Len() {
		return nil
	}
	removed := q.entries[index]
	q.entries = append(q.entries[:index], q.entries[index+1:]...)
	return removed
}

// List returns a copy of the waiting entries.
func (q *Queue) List() []*QueueEntry {
	result := make([]*QueueEntry, q.Len())
	copy(result, q.entries)
	return result
}

// Clear removes every waiting entry and returns how many were removed.
func (q *Queue) Clear() int {
	n := q.Len()
	q.entries = make([]*QueueEntry, 0)
	return n
}
