package formats

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/lofasm4/lofodex/pkg/errors"
	"github.com/lofasm4/lofodex/pkg/format"
)

// TagLoFASM identifies legacy raw LoFASM stream files.
const TagLoFASM = format.Tag("lofasm")

// lofasmSigil is the first header line of a legacy stream file.
const lofasmSigil = "#LoFASM"

// LoFASM is the descriptor for legacy .lofasm raw streams: a #-prefixed
// ASCII header block closed by "#end", followed by the sample payload.
type LoFASM struct{}

// NewLoFASM returns the legacy stream descriptor.
func NewLoFASM() *LoFASM { return &LoFASM{} }

// Tag implements format.Descriptor.
func (f *LoFASM) Tag() format.Tag { return TagLoFASM }

// Matches implements format.Descriptor.
func (f *LoFASM) Matches(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".lofasm")
}

// Open opens a legacy stream and parses its header block.
func (f *LoFASM) Open(path string) (format.Handle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}

	hdr, err := parseLoFASMHeader(file)
	if err != nil {
		file.Close()
		return nil, errors.WrapParse("lofasm header", path, err)
	}

	return &File{path: path, header: hdr, closers: []io.Closer{file}}, nil
}

// parseLoFASMHeader reads "#key value" lines up to the "#end" marker.
func parseLoFASMHeader(r io.Reader) (map[string]string, error) {
	br := bufio.NewReader(r)

	first, err := br.ReadString('\n')
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(first, lofasmSigil) {
		return nil, errors.New("missing LoFASM sigil")
	}

	hdr := make(map[string]string)
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "#end" {
			return hdr, nil
		}
		if strings.HasPrefix(line, "#") {
			key, value, found := strings.Cut(strings.TrimPrefix(line, "#"), " ")
			if found {
				hdr[key] = strings.TrimSpace(value)
			}
		}
		if err == io.EOF {
			return nil, errors.New("header not terminated by #end")
		}
	}
}
