package buf

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"
)

// fixedLayoutCache memoizes the result of checkFixedLayout per type, since
// reflect.Type walking is not something we want to repeat on every call.
var fixedLayoutCache sync.Map // reflect.Type -> error (nil means fixed-layout)

// checkFixedLayout verifies that t contains no pointer, interface, slice,
// map, string, channel, or function anywhere in its representation, the Go
// analogue of C++'s standard-layout/trivially-copyable constraint, which Go
// has no static way to express. The check runs once per type and is cached.
func checkFixedLayout(t reflect.Type) error {
	if cached, ok := fixedLayoutCache.Load(t); ok {
		if cached == nil {
			return nil
		}
		return cached.(error)
	}
	err := walkFixedLayout(t, t)
	if err != nil {
		fixedLayoutCache.Store(t, err)
	} else {
		fixedLayoutCache.Store(t, (error)(nil))
	}
	return err
}

func walkFixedLayout(root, t reflect.Type) error {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return nil
	case reflect.Array:
		return walkFixedLayout(root, t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if err := walkFixedLayout(root, t.Field(i).Type); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("buf: %s is not fixed-layout: field of kind %s", root, t.Kind())
	}
}

// valueBytes reinterprets t's storage as a byte slice without copying. The
// slice is only valid for the lifetime of t and must not be retained past
// the call that produced it.
func valueBytes[T any](t *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(t)), unsafe.Sizeof(*t))
}

// AddBackValue appends t's raw representation, reinterpreted as bytes via
// unsafe.Pointer. T must be fixed-layout (checked via reflect on first use
// per type, then cached); violating that panics. Go has no compile-time
// equivalent of a standard-layout constraint, so this is the closest
// runtime check available.
func AddBackValue[T any](b *Buffer, t T) error {
	if err := checkFixedLayout(reflect.TypeOf(t)); err != nil {
		panic(err)
	}
	return b.AddBack(valueBytes(&t))
}

// SetValue writes t's raw representation starting at it. See AddBackValue
// for the fixed-layout requirement.
func SetValue[T any](b *Buffer, it *Iterator, t T) {
	if err := checkFixedLayout(reflect.TypeOf(t)); err != nil {
		panic(err)
	}
	b.Set(it, valueBytes(&t))
}

// GetValue reads a T's worth of bytes starting at it and reinterprets them
// as T. See AddBackValue for the fixed-layout requirement.
func GetValue[T any](b *Buffer, it *Iterator) T {
	var t T
	if err := checkFixedLayout(reflect.TypeOf(t)); err != nil {
		panic(err)
	}
	b.Get(it, valueBytes(&t))
	return t
}
