package lofodex

import (
	"github.com/rs/zerolog"

	"github.com/lofasm4/lofodex/internal/collectors"
	"github.com/lofasm4/lofodex/internal/formats"
	"github.com/lofasm4/lofodex/pkg/catalog"
	"github.com/lofasm4/lofodex/pkg/catalog/ecsv"
	"github.com/lofasm4/lofodex/pkg/collect"
	"github.com/lofasm4/lofodex/pkg/constants"
	"github.com/lofasm4/lofodex/pkg/errors"
	"github.com/lofasm4/lofodex/pkg/format"
	"github.com/lofasm4/lofodex/pkg/logging"
)

// Option is a function that configures a Manager.
type Option func(*config) error

// config holds a Manager's collaborators. Defaults cover the LoFASM formats,
// the built-in collectors, and the ECSV catalog codec.
type config struct {
	formats    *format.Registry
	collectors *collect.Registry
	codec      catalog.Codec
	logger     *zerolog.Logger
	columns    []string
}

// defaultConfig builds the default collaborator set.
func defaultConfig() (*config, error) {
	fr, err := DefaultFormats()
	if err != nil {
		return nil, err
	}
	cr, err := DefaultCollectors()
	if err != nil {
		return nil, err
	}
	return &config{
		formats:    fr,
		collectors: cr,
		codec:      ecsv.New(),
		logger:     logging.Default(),
		columns:    constants.DefaultColumns(),
	}, nil
}

// DefaultFormats returns a registry of the LoFASM formats, most specific
// first.
func DefaultFormats() (*format.Registry, error) {
	return format.NewRegistry(formats.NewBBX(), formats.NewLoFASM())
}

// DefaultCollectors returns a registry of the built-in column collectors.
func DefaultCollectors() (*collect.Registry, error) {
	return collect.NewRegistry(collectors.All()...)
}

// WithFormats replaces the format registry.
func WithFormats(r *format.Registry) Option {
	return func(c *config) error {
		if r == nil {
			return &errors.ValidationError{Field: "formats", Message: "nil registry"}
		}
		c.formats = r
		return nil
	}
}

// WithCollectors replaces the collector registry.
func WithCollectors(r *collect.Registry) Option {
	return func(c *config) error {
		if r == nil {
			return &errors.ValidationError{Field: "collectors", Message: "nil registry"}
		}
		c.collectors = r
		return nil
	}
}

// WithCodec replaces the catalog codec.
func WithCodec(codec catalog.Codec) Option {
	return func(c *config) error {
		if codec == nil {
			return &errors.ValidationError{Field: "codec", Message: "nil codec"}
		}
		c.codec = codec
		return nil
	}
}

// WithLogger sets the diagnostics sink. Scan notes, collection warnings, and
// catalog ambiguity warnings all route through it.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return &errors.ValidationError{Field: "logger", Message: "nil logger"}
		}
		c.logger = logger
		return nil
	}
}

// WithColumns appends extra column names to the default set computed for
// freshly built catalogs. Names without a registered collector are allowed;
// those columns simply stay absent.
func WithColumns(names ...string) Option {
	return func(c *config) error {
		c.columns = append(c.columns, names...)
		return nil
	}
}
