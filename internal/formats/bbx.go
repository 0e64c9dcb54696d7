// Package formats implements the LoFASM file formats registered by default:
// BBX filterbank files and legacy raw streams. Each format parses just
// enough header to feed the built-in metadata collectors.
package formats

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/lofasm4/lofodex/pkg/errors"
	"github.com/lofasm4/lofodex/pkg/format"
)

// TagBBX identifies LoFASM BBX filterbank files.
const TagBBX = format.Tag("bbx")

// bbxSigil is the first header line of a BBX file.
const bbxSigil = "%\x02BX"

// BBX is the descriptor for LoFASM filterbank files, plain or gzipped.
type BBX struct{}

// NewBBX returns the BBX format descriptor.
func NewBBX() *BBX { return &BBX{} }

// Tag implements format.Descriptor.
func (f *BBX) Tag() format.Tag { return TagBBX }

// Matches reports whether path looks like a BBX file. Only the extension is
// consulted; Open validates the header sigil.
func (f *BBX) Matches(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".bbx") || strings.HasSuffix(lower, ".bbx.gz")
}

// Open opens a BBX file and parses its header block. The returned handle
// keeps the file open until closed so collectors may read the payload.
func (f *BBX) Open(path string) (format.Handle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}

	var reader io.Reader = file
	closers := []io.Closer{file}
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, errors.WrapParse("gzip", path, err)
		}
		reader = gz
		closers = []io.Closer{gz, file}
	}

	hdr, err := parseBBXHeader(reader)
	if err != nil {
		closeAll(closers)
		return nil, errors.WrapParse("bbx header", path, err)
	}

	return &File{path: path, header: hdr, closers: closers}, nil
}

// parseBBXHeader reads the leading %-prefixed header lines. The first line
// must carry the BBX sigil; the block ends at the first non-% line, where
// the binary payload begins.
func parseBBXHeader(r io.Reader) (map[string]string, error) {
	br := bufio.NewReader(r)

	first, err := br.ReadString('\n')
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(first, bbxSigil) {
		return nil, errors.New("missing BBX sigil")
	}

	hdr := make(map[string]string)
	for {
		peek, err := br.Peek(1)
		if err != nil || peek[0] != '%' {
			// Payload or EOF
			break
		}
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		key, value, found := strings.Cut(strings.TrimPrefix(strings.TrimRight(line, "\r\n"), "%"), ":")
		if found {
			hdr[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
		if err == io.EOF {
			break
		}
	}
	return hdr, nil
}
