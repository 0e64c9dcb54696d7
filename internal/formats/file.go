package formats

import "io"

// File is the handle both LoFASM formats return: the source path, the parsed
// header fields, and the underlying readers to release.
type File struct {
	path    string
	header  map[string]string
	closers []io.Closer
}

// Path implements format.Handle.
func (f *File) Path() string { return f.path }

// Header implements format.HeaderHandle.
func (f *File) Header() map[string]string { return f.header }

// Close releases the underlying file, innermost reader first.
func (f *File) Close() error {
	err := closeAll(f.closers)
	f.closers = nil
	return err
}

func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
