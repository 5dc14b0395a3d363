package zvec

import (
	"slices"

	"github.com/nutsalhan87/zond"
)

// Vec is a growable slice that records every operation performed on it,
// including the ones that only read. Each Vec owns a zond.Collector, so
// each instance logs under its own id and flushes according to its own
// policy.
//
// Every method records its op before touching the contents. A call that
// panics on bad arguments therefore still shows up in the log, and a
// flush triggered by the op precedes the mutation it describes.
//
// Like the slice it wraps, a Vec is not safe for concurrent use.
type Vec[T any] struct {
	items []T
	log   *zond.Collector
}

// New returns an empty Vec logging to consumer under policy. Both may be
// nil; see zond.NewCollector for the defaults. Construction itself is
// recorded.
func New[T any](consumer zond.Consumer, policy zond.Policy) *Vec[T] {
	v := &Vec[T]{log: zond.NewCollector(consumer, policy)}
	v.log.Record(NewOp{})
	return v
}

// WithCapacity is New with room preallocated for capacity elements.
func WithCapacity[T any](capacity int, consumer zond.Consumer, policy zond.Policy) *Vec[T] {
	v := &Vec[T]{
		items: make([]T, 0, capacity),
		log:   zond.NewCollector(consumer, policy),
	}
	v.log.Record(WithCapacityOp{Capacity: capacity})
	return v
}

// ID returns the identifier of the Vec's collector, the id its batches
// are delivered under.
func (v *Vec[T]) ID() uint64 { return v.log.ID() }

// Push appends value to the end.
func (v *Vec[T]) Push(value T) {
	v.log.Record(PushOp[T]{Value: value})
	v.items = append(v.items, value)
}

// Pop removes and returns the last element. The second return is false
// when the Vec is empty; the attempt is recorded either way.
func (v *Vec[T]) Pop() (T, bool) {
	v.log.Record(PopOp{})
	var zero T
	if len(v.items) == 0 {
		return zero, false
	}
	last := len(v.items) - 1
	value := v.items[last]
	v.items[last] = zero // release the slot
	v.items = v.items[:last]
	return value, true
}

// Insert places value at index, shifting later elements right. Panics if
// index is out of range.
func (v *Vec[T]) Insert(index int, value T) {
	v.log.Record(InsertOp[T]{Index: index, Value: value})
	v.items = slices.Insert(v.items, index, value)
}

// Remove deletes and returns the element at index, shifting later
// elements left. Panics if index is out of range.
func (v *Vec[T]) Remove(index int) T {
	v.log.Record(RemoveOp{Index: index})
	value := v.items[index]
	v.items = slices.Delete(v.items, index, index+1)
	return value
}

// SwapRemove deletes and returns the element at index by moving the last
// element into its place. Order is not preserved. Panics if index is out
// of range.
func (v *Vec[T]) SwapRemove(index int) T {
	v.log.Record(SwapRemoveOp{Index: index})
	value := v.items[index]
	last := len(v.items) - 1
	v.items[index] = v.items[last]
	var zero T
	v.items[last] = zero
	v.items = v.items[:last]
	return value
}

// Append appends all values in order. The recorded op holds its own copy
// of values.
func (v *Vec[T]) Append(values ...T) {
	v.log.Record(AppendOp[T]{Values: slices.Clone(values)})
	v.items = append(v.items, values...)
}

// AppendWithin appends a copy of the Vec's own [start, end) range to its
// end. Panics if the range is invalid.
func (v *Vec[T]) AppendWithin(start, end int) {
	v.log.Record(AppendWithinOp{Start: start, End: end})
	if end > len(v.items) {
		panic("zvec: range end out of bounds")
	}
	v.items = append(v.items, v.items[start:end]...)
}

// Delete removes the [start, end) range and returns the removed
// elements. Panics if the range is invalid.
func (v *Vec[T]) Delete(start, end int) []T {
	v.log.Record(DeleteOp{Start: start, End: end})
	removed := slices.Clone(v.items[start:end])
	v.items = slices.Delete(v.items, start, end)
	return removed
}

// Truncate shortens the Vec to length elements. It does nothing when the
// Vec is already short enough, and never touches capacity. Negative
// lengths clear the Vec.
func (v *Vec[T]) Truncate(length int) {
	v.log.Record(TruncateOp{Len: length})
	if length < 0 {
		length = 0
	}
	if length >= len(v.items) {
		return
	}
	v.items = slices.Delete(v.items, length, len(v.items))
}

// Clear removes all elements, keeping capacity.
func (v *Vec[T]) Clear() {
	v.log.Record(ClearOp{})
	v.items = slices.Delete(v.items, 0, len(v.items))
}

// Retain keeps only the elements for which keep returns true, preserving
// their order.
func (v *Vec[T]) Retain(keep func(T) bool) {
	v.log.Record(RetainOp{})
	v.items = slices.DeleteFunc(v.items, func(item T) bool {
		return !keep(item)
	})
}

// DedupFunc removes consecutive elements the eq function reports as
// equivalent, keeping the first of each run.
func (v *Vec[T]) DedupFunc(eq func(a, b T) bool) {
	v.log.Record(DedupFuncOp{})
	v.items = slices.CompactFunc(v.items, eq)
}

// Dedup removes consecutive equal elements of v, keeping the first of
// each run. It is a free function because it needs comparable elements,
// which Vec itself does not require.
func Dedup[T comparable](v *Vec[T]) {
	v.log.Record(DedupOp{})
	v.items = slices.Compact(v.items)
}

// Resize grows or shrinks the Vec to length elements, padding with fill
// when growing.
func (v *Vec[T]) Resize(length int, fill T) {
	v.log.Record(ResizeOp[T]{Len: length, Value: fill})
	if length <= len(v.items) {
		if length < 0 {
			length = 0
		}
		v.items = slices.Delete(v.items, length, len(v.items))
		return
	}
	for len(v.items) < length {
		v.items = append(v.items, fill)
	}
}

// SplitOff removes the tail starting at index at and returns it as a
// plain slice. The returned slice is not instrumented. Panics if at is
// out of range.
func (v *Vec[T]) SplitOff(at int) []T {
	v.log.Record(SplitOffOp{At: at})
	tail := slices.Clone(v.items[at:])
	v.items = slices.Delete(v.items, at, len(v.items))
	return tail
}

// Grow reserves capacity for at least additional more elements.
func (v *Vec[T]) Grow(additional int) {
	v.log.Record(GrowOp{Additional: additional})
	v.items = slices.Grow(v.items, additional)
}

// Clip releases unused capacity.
func (v *Vec[T]) Clip() {
	v.log.Record(ClipOp{})
	v.items = slices.Clip(v.items)
}

// At returns the element at index. The second return is false when index
// is out of range.
func (v *Vec[T]) At(index int) (T, bool) {
	v.log.Record(AtOp{Index: index})
	if index < 0 || index >= len(v.items) {
		var zero T
		return zero, false
	}
	return v.items[index], true
}

// Values returns a copy of the current contents.
func (v *Vec[T]) Values() []T {
	v.log.Record(ValuesOp{})
	return slices.Clone(v.items)
}

// Len returns the number of elements.
func (v *Vec[T]) Len() int {
	v.log.Record(LenOp{})
	return len(v.items)
}

// Cap returns the current capacity.
func (v *Vec[T]) Cap() int {
	v.log.Record(CapOp{})
	return cap(v.items)
}

// IsEmpty reports whether the Vec holds no elements.
func (v *Vec[T]) IsEmpty() bool {
	v.log.Record(IsEmptyOp{})
	return len(v.items) == 0
}

// Close records the close op and retires the collector, delivering
// everything still buffered in one final call to the consumer. The Vec's
// contents stay usable afterwards but nothing is recorded anymore. Close
// is idempotent.
func (v *Vec[T]) Close() error {
	v.log.Record(CloseOp{})
	return v.log.Close()
}
