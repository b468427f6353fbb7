package jvm

import (
	"fmt"
	goruntime "runtime"
	"unicode/utf16"
	"unsafe"

	"github.com/joshrwolf/starter/internal/runtime"
)

// Offsets into JNINativeInterface_, see jni.h.
const (
	fnFindClass             = 6
	fnExceptionDescribe     = 16
	fnNewObjectA            = 30
	fnGetMethodID           = 33
	fnGetStaticMethodID     = 113
	fnCallStaticVoidMethodA = 143
	fnNewString             = 163
	fnNewObjectArray        = 172
	fnSetObjectArrayElement = 174
	fnExceptionCheck        = 228
)

// env implements runtime.Env over a JNIEnv pointer. It is only valid on
// the OS thread that created the VM.
type env struct {
	ptr unsafe.Pointer // JNIEnv*
}

func (e *env) fn(index int) uintptr {
	table := *(*unsafe.Pointer)(e.ptr)
	return *(*uintptr)(unsafe.Add(table, uintptr(index)*unsafe.Sizeof(uintptr(0))))
}

func (e *env) invoke(index int, args ...uintptr) uintptr {
	return call(e.fn(index), append([]uintptr{uintptr(e.ptr)}, args...)...)
}

func (e *env) FindClass(name string) (runtime.Ref, error) {
	cname := cstring(name)
	r := e.invoke(fnFindClass, uintptr(unsafe.Pointer(&cname[0])))
	goruntime.KeepAlive(cname)
	if r == 0 {
		return 0, fmt.Errorf("%w: class %s", runtime.ErrUnavailable, name)
	}
	return runtime.Ref(r), nil
}

func (e *env) GetMethodID(class runtime.Ref, name, signature string) (runtime.MethodID, error) {
	return e.methodID(fnGetMethodID, class, name, signature)
}

func (e *env) GetStaticMethodID(class runtime.Ref, name, signature string) (runtime.MethodID, error) {
	return e.methodID(fnGetStaticMethodID, class, name, signature)
}

func (e *env) methodID(index int, class runtime.Ref, name, signature string) (runtime.MethodID, error) {
	cname, csig := cstring(name), cstring(signature)
	r := e.invoke(index, uintptr(class), uintptr(unsafe.Pointer(&cname[0])), uintptr(unsafe.Pointer(&csig[0])))
	goruntime.KeepAlive(cname)
	goruntime.KeepAlive(csig)
	if r == 0 {
		return 0, fmt.Errorf("%w: method %s%s", runtime.ErrUnavailable, name, signature)
	}
	return runtime.MethodID(r), nil
}

// NewString converts s to a java.lang.String. Invalid UTF-8 sequences
// become U+FFFD.
func (e *env) NewString(s string) (runtime.Ref, error) {
	chars := utf16.Encode([]rune(s))
	var ptr uintptr
	if len(chars) > 0 {
		ptr = uintptr(unsafe.Pointer(&chars[0]))
	}
	r := e.invoke(fnNewString, ptr, uintptr(len(chars)))
	goruntime.KeepAlive(chars)
	if r == 0 {
		return 0, fmt.Errorf("%w: string conversion", runtime.ErrUnavailable)
	}
	return runtime.Ref(r), nil
}

func (e *env) NewObjectArray(length int, class runtime.Ref) (runtime.Ref, error) {
	r := e.invoke(fnNewObjectArray, uintptr(length), uintptr(class), 0)
	if r == 0 {
		return 0, fmt.Errorf("%w: object array of length %d", runtime.ErrUnavailable, length)
	}
	return runtime.Ref(r), nil
}

func (e *env) SetObjectArrayElement(array runtime.Ref, index int, value runtime.Ref) error {
	e.invoke(fnSetObjectArrayElement, uintptr(array), uintptr(index), uintptr(value))
	if e.ExceptionCheck() {
		return fmt.Errorf("%w: array element %d", runtime.ErrUnavailable, index)
	}
	return nil
}

func (e *env) NewObject(class runtime.Ref, constructor runtime.MethodID, args ...runtime.Value) (runtime.Ref, error) {
	values := toJValues(args)
	r := e.invoke(fnNewObjectA, uintptr(class), uintptr(constructor), values.pointer())
	goruntime.KeepAlive(values)
	if r == 0 {
		return 0, fmt.Errorf("%w: object construction", runtime.ErrUnavailable)
	}
	return runtime.Ref(r), nil
}

func (e *env) CallStaticVoidMethod(class runtime.Ref, method runtime.MethodID, args ...runtime.Value) {
	values := toJValues(args)
	e.invoke(fnCallStaticVoidMethodA, uintptr(class), uintptr(method), values.pointer())
	goruntime.KeepAlive(values)
}

func (e *env) ExceptionCheck() bool {
	return byte(e.invoke(fnExceptionCheck)) != 0
}

func (e *env) ExceptionDescribe() {
	e.invoke(fnExceptionDescribe)
}

// jvalues is a jvalue array. Every jvalue member fits in the low bytes of
// a 64-bit slot on little-endian targets.
type jvalues []uint64

func (v jvalues) pointer() uintptr {
	if len(v) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&v[0]))
}

func toJValues(args []runtime.Value) jvalues {
	out := make(jvalues, len(args))
	for i, a := range args {
		out[i] = uint64(a)
	}
	return out
}

func cstring(s string) []byte {
	return append([]byte(s), 0)
}

var _ runtime.Env = (*env)(nil)
