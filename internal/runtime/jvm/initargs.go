package jvm

import (
	"fmt"
	"strings"
	"unsafe"
)

const (
	jniOK        = 0
	jniVersion18 = 0x00010008
)

// javaVMOption mirrors JavaVMOption from jni.h
type javaVMOption struct {
	optionString *byte
	extraInfo    unsafe.Pointer
}

// javaVMInitArgs mirrors JavaVMInitArgs from jni.h
type javaVMInitArgs struct {
	version            int32
	nOptions           int32
	options            *javaVMOption
	ignoreUnrecognized uint8
}

// initArgs owns every buffer referenced by the JavaVMInitArgs block. It
// must stay reachable until JNI_CreateJavaVM returns.
type initArgs struct {
	buffers [][]byte
	options []javaVMOption
	block   javaVMInitArgs
}

func newInitArgs(options []string, ignoreUnrecognized bool) (*initArgs, error) {
	a := &initArgs{
		buffers: make([][]byte, 0, len(options)),
		options: make([]javaVMOption, 0, len(options)),
	}

	for _, opt := range options {
		if strings.IndexByte(opt, 0) >= 0 {
			return nil, fmt.Errorf("jvm option %q contains a NUL byte", opt)
		}
		buf := append([]byte(opt), 0)
		a.buffers = append(a.buffers, buf)
		a.options = append(a.options, javaVMOption{optionString: &buf[0]})
	}

	a.block = javaVMInitArgs{
		version:  jniVersion18,
		nOptions: int32(len(a.options)),
	}
	if len(a.options) > 0 {
		a.block.options = &a.options[0]
	}
	if ignoreUnrecognized {
		a.block.ignoreUnrecognized = 1
	}

	return a, nil
}

func (a *initArgs) pointer() uintptr {
	return uintptr(unsafe.Pointer(&a.block))
}
