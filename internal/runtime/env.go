package runtime

// Ref is an opaque reference to an object living inside the runtime
type Ref uintptr

// MethodID is an opaque method handle resolved by the runtime
type MethodID uintptr

// Value is one call argument in the runtime's argument union layout
type Value uint64

// Bool converts b to a runtime boolean argument
func Bool(b bool) Value {
	if b {
		return 1
	}
	return 0
}

// Object converts r to a runtime object argument
func Object(r Ref) Value {
	return Value(r)
}

// Env is the typed call surface of a runtime thread context. Lookups that
// come back empty return an error wrapping ErrUnavailable.
type Env interface {
	FindClass(name string) (Ref, error)
	GetMethodID(class Ref, name, signature string) (MethodID, error)
	GetStaticMethodID(class Ref, name, signature string) (MethodID, error)

	NewString(s string) (Ref, error)
	NewObjectArray(length int, class Ref) (Ref, error)
	SetObjectArrayElement(array Ref, index int, value Ref) error
	NewObject(class Ref, constructor MethodID, args ...Value) (Ref, error)

	CallStaticVoidMethod(class Ref, method MethodID, args ...Value)

	// ExceptionCheck reports whether an exception is pending
	ExceptionCheck() bool
	// ExceptionDescribe prints the pending exception and clears it
	ExceptionDescribe()
}
