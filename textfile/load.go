package textfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/guiguan/caster"
)

// MaxLineLength is the longest line a file may contain.
const MaxLineLength = 64 * 1024

// ErrNotRegular is returned for paths which do not denote a regular file.
var ErrNotRegular = errors.New("file is not a regular file")

// Line is a single line of a text file, without its line terminator.
type Line struct {
	No   int // 1-based line number
	Text string
}

// EOF is broadcast after the last line of a file. Err is the I/O error
// which ended loading prematurely, if any.
type EOF struct {
	Lines int
	Err   error
}

// File represents an OS file which will be loaded line by line.
type File struct {
	path      string         // file name
	info      os.FileInfo    // result from Stat(path)
	file      *os.File       // file handle
	cast      *caster.Caster // broadcaster for async file loading
	once      sync.Once
	stop      chan struct{} // closed to end loading early
	stopOnce  sync.Once
	mx        sync.Mutex
	lastError error // remember last I/O error
}

// Open opens an OS file and collects some useful information on it,
// checking for error conditions. Loading does not start before Load is
// called, giving clients the chance to subscribe first.
func Open(name string) (*File, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, err
	} else if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, name)
	}
	file, err := os.Open(name) // just open for read access
	if err != nil {
		return nil, err
	}
	tf := &File{
		path: name,
		info: fi,
		file: file,
		cast: caster.New(nil), // we will broadcast messages when lines are loaded
		stop: make(chan struct{}),
	}
	return tf, nil
}

// Path returns the name the file has been opened with.
func (tf *File) Path() string {
	return tf.path
}

// Size returns the size of the file in bytes.
func (tf *File) Size() int64 {
	return tf.info.Size()
}

// Subscribe returns a channel receiving a Line message for every line of
// the file, followed by an EOF message. The subscription ends when ctx is
// done. Subscribe returns false if loading has already finished.
func (tf *File) Subscribe(ctx context.Context) (<-chan interface{}, bool) {
	return tf.cast.Sub(ctx, 64)
}

// Load starts reading the file in the background. Subsequent calls are
// no-ops. The file handle is closed when loading has finished.
func (tf *File) Load() {
	tf.once.Do(func() {
		go tf.loadLines()
	})
}

// Stop ends loading before the end of the file. Subscribers receive no
// further lines and no EOF message; their channels are closed once the
// loader has released the file. Stop may be called more than once.
func (tf *File) Stop() {
	tf.stopOnce.Do(func() {
		close(tf.stop)
	})
}

// Done returns a channel which is closed when loading has ended and all
// subscriber channels are closed.
func (tf *File) Done() <-chan struct{} {
	return tf.cast.Done()
}

// Err returns the last I/O error encountered while loading.
func (tf *File) Err() error {
	tf.mx.Lock()
	defer tf.mx.Unlock()
	return tf.lastError
}

func (tf *File) setError(err error) {
	tf.mx.Lock()
	defer tf.mx.Unlock()
	tf.lastError = err
}

func (tf *File) loadLines() {
	defer tf.cast.Close()
	defer tf.file.Close()
	scanner := bufio.NewScanner(tf.file)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineLength)
	count := 0
	for scanner.Scan() {
		select {
		case <-tf.stop:
			tracer().Debugf("stopped loading %s after line %d", tf.path, count)
			return
		default:
		}
		count++
		tf.cast.Pub(Line{No: count, Text: scanner.Text()})
	}
	eof := EOF{Lines: count}
	if err := scanner.Err(); err != nil {
		eof.Err = fmt.Errorf("error loading %s after line %d: %w", tf.path, count, err)
		tf.setError(eof.Err)
	}
	tracer().Debugf("loaded %d lines from %s", count, tf.path)
	tf.cast.Pub(eof)
}

// ReadLines loads a file and calls fn for every line, in order. Reading
// stops with the first error returned by fn, which is passed through to the
// caller, or when ctx is done. ReadLines returns after the file is closed.
func ReadLines(ctx context.Context, name string, fn func(Line) error) error {
	tf, err := Open(name)
	if err != nil {
		return err
	}
	ch, ok := tf.Subscribe(context.Background())
	if !ok {
		tf.file.Close()
		return fmt.Errorf("cannot subscribe to %s", name)
	}
	tf.Load()
	defer func() {
		tf.Stop()
		for range ch { // the loader may be blocked on a full buffer
		}
		<-tf.Done()
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return tf.Err()
			}
			switch m := msg.(type) {
			case Line:
				if err := fn(m); err != nil {
					return err
				}
			case EOF:
				return m.Err
			}
		}
	}
}
