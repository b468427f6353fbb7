package logfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/chainguard-dev/clog"
	"github.com/joshrwolf/starter/internal/runtime"
)

// Retargeter points process standard streams at files
type Retargeter interface {
	RetargetStandardStream(stream runtime.Stream, f *os.File) error
	DuplicateStandardStream(stream runtime.Stream) (*os.File, error)
}

// ErrAttached is returned by Shutdown when stdout or stderr could not be
// detached from the pipe. The worker keeps draining in that case.
var ErrAttached = errors.New("standard streams still attached to the log pipe")

var outputs = []runtime.Stream{runtime.Stdout, runtime.Stderr}

var openNull = func() (*os.File, error) {
	return os.OpenFile(os.DevNull, os.O_RDWR, 0)
}

// Options configures a Pipeline
type Options struct {
	// MaxSize is the rotation ceiling in bytes, DefaultMaxSize if zero
	MaxSize int64
}

// Pipeline captures the process stdout and stderr through an OS pipe and
// writes them to a rotating log file from a single background worker.
type Pipeline struct {
	retargeter Retargeter
	writer     *os.File
	null       *os.File
	done       chan struct{}

	closeOnce sync.Once
}

// Start creates the pipe, starts the worker and points stdin at the null
// device and stdout/stderr at the pipe. It returns once the descriptors
// are wired. On error stdout and stderr are put back where they were.
func Start(ctx context.Context, baseDir string, retargeter Retargeter, opts Options) (*Pipeline, error) {
	log := clog.FromContext(ctx)

	reader, writer, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating pipe: %w", err)
	}

	p := &Pipeline{
		retargeter: retargeter,
		writer:     writer,
		done:       make(chan struct{}),
	}

	// The reader must be draining before any descriptor points at the pipe.
	go p.work(reader, baseDir, opts.MaxSize)

	null, err := openNull()
	if err != nil {
		log.Warn("opening null device", "error", err)
	} else {
		p.null = null
		if err := retargeter.RetargetStandardStream(runtime.Stdin, null); err != nil {
			log.Warn("redirecting stdin", "error", err)
		}
	}

	saved := make(map[runtime.Stream]*os.File, len(outputs))
	for _, stream := range outputs {
		f, err := retargeter.DuplicateStandardStream(stream)
		if err != nil {
			log.Warn("saving stream", "stream", stream, "error", err)
			continue
		}
		saved[stream] = f
	}

	var attached []runtime.Stream
	for _, stream := range outputs {
		if err := retargeter.RetargetStandardStream(stream, writer); err != nil {
			p.abort(ctx, attached, saved)
			return nil, fmt.Errorf("redirecting %s: %w", stream, err)
		}
		attached = append(attached, stream)
	}

	for _, f := range saved {
		_ = f.Close()
	}

	log.Debug("redirected output", "dir", baseDir)
	return p, nil
}

// abort points the attached streams back at their saved originals, or at
// the null device, and stops the worker. When a stream stays on the pipe
// the worker keeps running and abort does not wait for it.
func (p *Pipeline) abort(ctx context.Context, attached []runtime.Stream, saved map[runtime.Stream]*os.File) {
	log := clog.FromContext(ctx)

	detached := true
	for _, stream := range attached {
		target := saved[stream]
		if target == nil {
			target = p.null
		}
		if target == nil {
			detached = false
			continue
		}
		if err := p.retargeter.RetargetStandardStream(stream, target); err != nil {
			log.Warn("restoring stream", "stream", stream, "error", err)
			detached = false
			continue
		}
		// the stream may now refer to this very handle
		delete(saved, stream)
	}
	for _, f := range saved {
		_ = f.Close()
	}

	p.closeOnce.Do(func() {
		_ = p.writer.Close()
		if detached {
			<-p.done
		} else {
			log.Warn("output left on the log pipe")
		}
	})
}

func (p *Pipeline) work(reader *os.File, baseDir string, maxSize int64) {
	defer close(p.done)
	defer reader.Close()

	out := NewRotator(baseDir, maxSize)
	defer out.Close()

	_ = Drain(reader, out)
}

// Drain copies r to w line by line until r reaches end of stream or fails
func Drain(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			if _, werr := w.Write(line); werr != nil {
				return werr
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// Shutdown points stdout and stderr at the null device, closes the write
// end and waits for the worker to flush what is left, or for ctx to end.
// The null device stays open for the rest of the process. Without a null
// device the streams cannot be detached and Shutdown returns ErrAttached
// without waiting.
func (p *Pipeline) Shutdown(ctx context.Context) error {
	var err error
	p.closeOnce.Do(func() {
		if p.null == nil {
			_ = p.writer.Close()
			err = ErrAttached
			return
		}
		for _, stream := range outputs {
			_ = p.retargeter.RetargetStandardStream(stream, p.null)
		}
		_ = p.writer.Close()

		select {
		case <-p.done:
		case <-ctx.Done():
			err = ctx.Err()
		}
	})
	return err
}

// Close is Shutdown without a deadline
func (p *Pipeline) Close() error {
	return p.Shutdown(context.Background())
}

// Done is closed once the worker has exited
func (p *Pipeline) Done() <-chan struct{} {
	return p.done
}
