// Package runtimetest provides in-memory fakes of the runtime interfaces
// for tests that cannot load a real JVM.
package runtimetest

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/joshrwolf/starter/internal/runtime"
)

// Object is a constructed fake object
type Object struct {
	Class string
	Args  []runtime.Value
}

// Call records one static method invocation
type Call struct {
	Class  string
	Method string
	Args   []runtime.Value
}

// Env is a fake runtime.Env. Only defined classes and methods resolve.
type Env struct {
	// OnCall runs inside CallStaticVoidMethod, e.g. to raise an exception
	OnCall func(env *Env, call Call)

	// Pending is the exception flag reported by ExceptionCheck
	Pending bool

	// Described counts ExceptionDescribe calls
	Described int

	Calls []Call

	next    uintptr
	classes map[string]map[string]bool
	refs    map[runtime.Ref]any
	methods map[runtime.MethodID]string
}

type classRef string

// NewEnv returns an Env that knows java/lang/String
func NewEnv() *Env {
	e := &Env{
		classes: make(map[string]map[string]bool),
		refs:    make(map[runtime.Ref]any),
		methods: make(map[runtime.MethodID]string),
	}
	e.Define("java/lang/String")
	return e
}

// Define makes class resolvable together with methods given as name+signature
func (e *Env) Define(class string, methods ...string) {
	if e.classes[class] == nil {
		e.classes[class] = make(map[string]bool)
	}
	for _, m := range methods {
		e.classes[class][m] = true
	}
}

func (e *Env) alloc(v any) runtime.Ref {
	e.next++
	r := runtime.Ref(e.next)
	e.refs[r] = v
	return r
}

// String returns the text of a string reference
func (e *Env) String(r runtime.Ref) (string, bool) {
	s, ok := e.refs[r].(string)
	return s, ok
}

// Array returns the elements of an array reference
func (e *Env) Array(r runtime.Ref) ([]runtime.Ref, bool) {
	a, ok := e.refs[r].([]runtime.Ref)
	return a, ok
}

// Object returns an object reference created by NewObject
func (e *Env) Object(r runtime.Ref) (*Object, bool) {
	o, ok := e.refs[r].(*Object)
	return o, ok
}

func (e *Env) className(r runtime.Ref) (string, error) {
	c, ok := e.refs[r].(classRef)
	if !ok {
		return "", fmt.Errorf("%w: ref %d is not a class", runtime.ErrUnavailable, r)
	}
	return string(c), nil
}

func (e *Env) FindClass(name string) (runtime.Ref, error) {
	if _, ok := e.classes[name]; !ok {
		e.Pending = true
		return 0, fmt.Errorf("%w: class %s", runtime.ErrUnavailable, name)
	}
	return e.alloc(classRef(name)), nil
}

func (e *Env) GetMethodID(class runtime.Ref, name, signature string) (runtime.MethodID, error) {
	return e.method(class, name, signature)
}

func (e *Env) GetStaticMethodID(class runtime.Ref, name, signature string) (runtime.MethodID, error) {
	return e.method(class, name, signature)
}

func (e *Env) method(class runtime.Ref, name, signature string) (runtime.MethodID, error) {
	c, err := e.className(class)
	if err != nil {
		return 0, err
	}
	if !e.classes[c][name+signature] {
		e.Pending = true
		return 0, fmt.Errorf("%w: method %s%s", runtime.ErrUnavailable, name, signature)
	}
	e.next++
	id := runtime.MethodID(e.next)
	e.methods[id] = name + signature
	return id, nil
}

func (e *Env) NewString(s string) (runtime.Ref, error) {
	return e.alloc(s), nil
}

func (e *Env) NewObjectArray(length int, class runtime.Ref) (runtime.Ref, error) {
	if _, err := e.className(class); err != nil {
		return 0, err
	}
	return e.alloc(make([]runtime.Ref, length)), nil
}

func (e *Env) SetObjectArrayElement(array runtime.Ref, index int, value runtime.Ref) error {
	a, ok := e.Array(array)
	if !ok || index < 0 || index >= len(a) {
		return fmt.Errorf("%w: array element %d", runtime.ErrUnavailable, index)
	}
	a[index] = value
	return nil
}

func (e *Env) NewObject(class runtime.Ref, constructor runtime.MethodID, args ...runtime.Value) (runtime.Ref, error) {
	c, err := e.className(class)
	if err != nil {
		return 0, err
	}
	if _, ok := e.methods[constructor]; !ok {
		return 0, fmt.Errorf("%w: constructor %d", runtime.ErrUnavailable, constructor)
	}
	return e.alloc(&Object{Class: c, Args: append([]runtime.Value(nil), args...)}), nil
}

func (e *Env) CallStaticVoidMethod(class runtime.Ref, method runtime.MethodID, args ...runtime.Value) {
	c, _ := e.className(class)
	call := Call{Class: c, Method: e.methods[method], Args: append([]runtime.Value(nil), args...)}
	e.Calls = append(e.Calls, call)
	if e.OnCall != nil {
		e.OnCall(e, call)
	}
}

func (e *Env) ExceptionCheck() bool {
	return e.Pending
}

func (e *Env) ExceptionDescribe() {
	e.Described++
	e.Pending = false
}

// Instance is a fake runtime.Instance counting Destroy calls
type Instance struct {
	Environment *Env

	mu        sync.Mutex
	destroyed int
}

func (i *Instance) Env() runtime.Env {
	return i.Environment
}

func (i *Instance) Destroy() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.destroyed++
	return nil
}

// Destroyed returns how many times Destroy ran
func (i *Instance) Destroyed() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.destroyed
}

// Platform is a fake runtime.Platform
type Platform struct {
	// Library is returned by FindLibrary unless FindErr is set
	Library string
	FindErr error

	// Instance is returned by Load unless LoadErr is set
	Instance *Instance
	LoadErr  error

	// Loaded records the options of every Load call
	Loaded []runtime.LoadOptions

	// DupErr fails DuplicateStandardStream when set
	DupErr error

	mu         sync.Mutex
	retargeted map[runtime.Stream]*os.File
}

func (p *Platform) FindLibrary(appRoot string) (string, error) {
	if p.FindErr != nil {
		return "", p.FindErr
	}
	return p.Library, nil
}

func (p *Platform) Load(ctx context.Context, library string, opts runtime.LoadOptions) (runtime.Instance, error) {
	p.Loaded = append(p.Loaded, opts)
	if p.LoadErr != nil {
		return nil, p.LoadErr
	}
	return p.Instance, nil
}

func (p *Platform) RetargetStandardStream(stream runtime.Stream, f *os.File) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.retargeted == nil {
		p.retargeted = make(map[runtime.Stream]*os.File)
	}
	p.retargeted[stream] = f
	return nil
}

// DuplicateStandardStream returns a handle on the null device standing in
// for the original stream
func (p *Platform) DuplicateStandardStream(stream runtime.Stream) (*os.File, error) {
	if p.DupErr != nil {
		return nil, p.DupErr
	}
	return os.OpenFile(os.DevNull, os.O_RDWR, 0)
}

// Stream returns the file stream was last pointed at
func (p *Platform) Stream(stream runtime.Stream) *os.File {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.retargeted[stream]
}

var (
	_ runtime.Env      = (*Env)(nil)
	_ runtime.Instance = (*Instance)(nil)
	_ runtime.Platform = (*Platform)(nil)
)
