package zvec

import "github.com/nutsalhan87/zond"

// Op is one vector operation recorded by Vec. The set of implementations
// is closed, so consumers may type-switch over it exhaustively; Kind
// gives the stable name used by serializing sinks.
//
// Payload fields hold the arguments as passed at the call site. Slices
// are copied at record time, so later mutation of the caller's data does
// not rewrite history.
type Op interface {
	zond.Op
	isVecOp()
}

// NewOp records the construction of an empty vector.
type NewOp struct{}

// WithCapacityOp records the construction of an empty vector with
// preallocated capacity.
type WithCapacityOp struct {
	Capacity int `json:"capacity"`
}

// PushOp records an element appended to the end.
type PushOp[T any] struct {
	Value T `json:"value"`
}

// PopOp records an attempt to remove the last element.
type PopOp struct{}

// InsertOp records an element inserted at an index.
type InsertOp[T any] struct {
	Index int `json:"index"`
	Value T   `json:"value"`
}

// RemoveOp records the removal of the element at an index, shifting the
// tail left.
type RemoveOp struct {
	Index int `json:"index"`
}

// SwapRemoveOp records the removal of the element at an index by moving
// the last element into its place.
type SwapRemoveOp struct {
	Index int `json:"index"`
}

// AppendOp records a batch of elements appended to the end.
type AppendOp[T any] struct {
	Values []T `json:"values"`
}

// AppendWithinOp records the vector appending a copy of its own
// [Start, End) range to itself.
type AppendWithinOp struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// DeleteOp records the removal of the [Start, End) range.
type DeleteOp struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// TruncateOp records the vector being shortened to Len elements.
type TruncateOp struct {
	Len int `json:"len"`
}

// ClearOp records the removal of all elements.
type ClearOp struct{}

// RetainOp records a filtering pass that keeps only matching elements.
type RetainOp struct{}

// DedupOp records the removal of consecutive equal elements.
type DedupOp struct{}

// DedupFuncOp records the removal of consecutive elements matched by a
// caller-supplied equivalence function.
type DedupFuncOp struct{}

// ResizeOp records the vector being resized to Len elements, padding
// with Value when growing.
type ResizeOp[T any] struct {
	Len   int `json:"len"`
	Value T   `json:"value"`
}

// SplitOffOp records the tail starting at At being split into a new
// slice.
type SplitOffOp struct {
	At int `json:"at"`
}

// GrowOp records a capacity reservation for Additional more elements.
type GrowOp struct {
	Additional int `json:"additional"`
}

// ClipOp records excess capacity being released.
type ClipOp struct{}

// AtOp records a read of the element at an index.
type AtOp struct {
	Index int `json:"index"`
}

// ValuesOp records a snapshot of the whole contents being taken.
type ValuesOp struct{}

// LenOp records a length query.
type LenOp struct{}

// CapOp records a capacity query.
type CapOp struct{}

// IsEmptyOp records an emptiness query.
type IsEmptyOp struct{}

// CloseOp records the vector being closed.
type CloseOp struct{}

func (NewOp) Kind() string          { return "new" }
func (WithCapacityOp) Kind() string { return "with_capacity" }
func (PushOp[T]) Kind() string      { return "push" }
func (PopOp) Kind() string          { return "pop" }
func (InsertOp[T]) Kind() string    { return "insert" }
func (RemoveOp) Kind() string       { return "remove" }
func (SwapRemoveOp) Kind() string   { return "swap_remove" }
func (AppendOp[T]) Kind() string    { return "append" }
func (AppendWithinOp) Kind() string { return "append_within" }
func (DeleteOp) Kind() string       { return "delete" }
func (TruncateOp) Kind() string     { return "truncate" }
func (ClearOp) Kind() string        { return "clear" }
func (RetainOp) Kind() string       { return "retain" }
func (DedupOp) Kind() string        { return "dedup" }
func (DedupFuncOp) Kind() string    { return "dedup_func" }
func (ResizeOp[T]) Kind() string    { return "resize" }
func (SplitOffOp) Kind() string     { return "split_off" }
func (GrowOp) Kind() string         { return "grow" }
func (ClipOp) Kind() string         { return "clip" }
func (AtOp) Kind() string           { return "at" }
func (ValuesOp) Kind() string       { return "values" }
func (LenOp) Kind() string          { return "len" }
func (CapOp) Kind() string          { return "cap" }
func (IsEmptyOp) Kind() string      { return "is_empty" }
func (CloseOp) Kind() string        { return "close" }

func (NewOp) isVecOp()          {}
func (WithCapacityOp) isVecOp() {}
func (PushOp[T]) isVecOp()      {}
func (PopOp) isVecOp()          {}
func (InsertOp[T]) isVecOp()    {}
func (RemoveOp) isVecOp()       {}
func (SwapRemoveOp) isVecOp()   {}
func (AppendOp[T]) isVecOp()    {}
func (AppendWithinOp) isVecOp() {}
func (DeleteOp) isVecOp()       {}
func (TruncateOp) isVecOp()     {}
func (ClearOp) isVecOp()        {}
func (RetainOp) isVecOp()       {}
func (DedupOp) isVecOp()        {}
func (DedupFuncOp) isVecOp()    {}
func (ResizeOp[T]) isVecOp()    {}
func (SplitOffOp) isVecOp()     {}
func (GrowOp) isVecOp()         {}
func (ClipOp) isVecOp()         {}
func (AtOp) isVecOp()           {}
func (ValuesOp) isVecOp()       {}
func (LenOp) isVecOp()          {}
func (CapOp) isVecOp()          {}
func (IsEmptyOp) isVecOp()      {}
func (CloseOp) isVecOp()        {}

var (
	_ Op = NewOp{}
	_ Op = WithCapacityOp{}
	_ Op = PushOp[int]{}
	_ Op = PopOp{}
	_ Op = InsertOp[int]{}
	_ Op = RemoveOp{}
	_ Op = SwapRemoveOp{}
	_ Op = AppendOp[int]{}
	_ Op = AppendWithinOp{}
	_ Op = DeleteOp{}
	_ Op = TruncateOp{}
	_ Op = ClearOp{}
	_ Op = RetainOp{}
	_ Op = DedupOp{}
	_ Op = DedupFuncOp{}
	_ Op = ResizeOp[int]{}
	_ Op = SplitOffOp{}
	_ Op = GrowOp{}
	_ Op = ClipOp{}
	_ Op = AtOp{}
	_ Op = ValuesOp{}
	_ Op = LenOp{}
	_ Op = CapOp{}
	_ Op = IsEmptyOp{}
	_ Op = CloseOp{}
)
