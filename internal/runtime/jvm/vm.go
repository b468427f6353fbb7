package jvm

import (
	goruntime "runtime"
	"sync"
	"unsafe"

	"github.com/joshrwolf/starter/internal/runtime"
)

const (
	createSymbol  = "JNI_CreateJavaVM"
	destroySymbol = "DestroyJavaVM"
)

// VM is a created Java virtual machine. It holds the library reference for
// the rest of the process: libjvm cannot be unloaded once a VM has started.
type VM struct {
	lib     *library
	destroy uintptr

	vm  unsafe.Pointer // JavaVM*
	env *env

	once sync.Once
}

// createOutputs receives the pointers written by JNI_CreateJavaVM
type createOutputs struct {
	vm  unsafe.Pointer
	env unsafe.Pointer
}

func createVM(lib *library, opts runtime.LoadOptions) (*VM, error) {
	create, err := lib.symbol(createSymbol)
	if err != nil || create == 0 {
		_ = lib.close()
		return nil, &runtime.LoadError{Kind: runtime.SymbolMissing, Library: lib.path, Message: createSymbol}
	}

	args, err := newInitArgs(opts.Options, opts.IgnoreUnrecognized)
	if err != nil {
		_ = lib.close()
		return nil, err
	}

	out := &createOutputs{}
	ret := int32(call(create,
		uintptr(unsafe.Pointer(&out.vm)),
		uintptr(unsafe.Pointer(&out.env)),
		args.pointer(),
	))
	goruntime.KeepAlive(args)
	goruntime.KeepAlive(out)

	if ret != jniOK {
		return nil, &runtime.LoadError{Kind: runtime.InitFailed, Library: lib.path, Code: ret}
	}

	// Older runtimes do not export DestroyJavaVM; destruction is then a no-op.
	destroy, err := lib.symbol(destroySymbol)
	if err != nil {
		destroy = 0
	}

	return &VM{
		lib:     lib,
		destroy: destroy,
		vm:      out.vm,
		env:     &env{ptr: out.env},
	}, nil
}

// Env returns the JNI environment of the thread that created the VM
func (v *VM) Env() runtime.Env {
	return v.env
}

// Destroy calls DestroyJavaVM once. Its status is ignored: the process is
// on its way out and nothing can act on a failure.
func (v *VM) Destroy() error {
	v.once.Do(func() {
		if v.destroy == 0 || v.vm == nil {
			return
		}
		call(v.destroy, uintptr(v.vm))
	})
	return nil
}

var _ runtime.Instance = (*VM)(nil)
