package dedup

// Option holds a value that may not exist. The zero value is empty.
type Option[T any] struct {
	Exists bool
	Some   T
}

func Some[T any](some T) (opt Option[T]) {
	opt.Exists = true
	opt.Some = some
	return
}

// Result pairs a value with the error that prevented producing it.
type Result[T any] struct {
	OK  T
	Err error
}
