// Package collectors implements the built-in metadata collectors for the
// default column set: station, channel, hdr_type, and start_time. Each
// collector carries per-format extraction methods; a format without a method
// reports not-applicable, which the catalog records as a null cell.
package collectors

import (
	"strconv"
	"strings"

	"github.com/lofasm4/lofodex/internal/formats"
	"github.com/lofasm4/lofodex/pkg/catalog"
	"github.com/lofasm4/lofodex/pkg/errors"
	"github.com/lofasm4/lofodex/pkg/format"
)

// collectFunc extracts one value from an opened handle.
type collectFunc func(h format.Handle) (catalog.Value, error)

// collector dispatches to a per-format extraction method, mirroring how the
// format registry dispatches on tags.
type collector struct {
	column  catalog.Column
	methods map[format.Tag]collectFunc
}

// Column implements catalog.Collector.
func (c *collector) Column() catalog.Column { return c.column }

// Collect implements catalog.Collector.
func (c *collector) Collect(tag format.Tag, h format.Handle) (catalog.Value, error) {
	fn, ok := c.methods[tag]
	if !ok {
		return catalog.Null(), errors.ErrNotApplicable
	}
	return fn(h)
}

// header extracts the parsed header from a handle.
func header(h format.Handle) (map[string]string, error) {
	hh, ok := h.(format.HeaderHandle)
	if !ok {
		return nil, errors.New("handle carries no header")
	}
	return hh.Header(), nil
}

// headerString returns a collectFunc reading one header field as a string.
func headerString(key string) collectFunc {
	return func(h format.Handle) (catalog.Value, error) {
		hdr, err := header(h)
		if err != nil {
			return catalog.Null(), err
		}
		v, ok := hdr[key]
		if !ok {
			return catalog.Null(), errors.New("header field " + key + " missing")
		}
		return catalog.String(v), nil
	}
}

// headerFloat parses a header field's leading token as a float64. BBX
// headers annotate numeric fields with their unit, e.g. "502632462 (s)".
func headerFloat(hdr map[string]string, key string) (float64, error) {
	v, ok := hdr[key]
	if !ok {
		return 0, errors.New("header field " + key + " missing")
	}
	token, _, _ := strings.Cut(strings.TrimSpace(v), " ")
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, errors.WrapParse("header", key, err)
	}
	return f, nil
}

// Station collects the observing station identifier.
func Station() catalog.Collector {
	return &collector{
		column: catalog.Column{Name: "station", Datatype: catalog.TypeString},
		methods: map[format.Tag]collectFunc{
			formats.TagBBX:    headerString("station"),
			formats.TagLoFASM: headerString("station"),
		},
	}
}

// Channel collects the correlation channel, e.g. "CC" or "AB".
func Channel() catalog.Collector {
	return &collector{
		column: catalog.Column{Name: "channel", Datatype: catalog.TypeString},
		methods: map[format.Tag]collectFunc{
			formats.TagBBX:    headerString("channel"),
			formats.TagLoFASM: headerString("channel"),
		},
	}
}

// HeaderType collects the header type declared by BBX files. Legacy streams
// carry none, so their rows hold null here.
func HeaderType() catalog.Collector {
	return &collector{
		column: catalog.Column{Name: "hdr_type", Datatype: catalog.TypeString},
		methods: map[format.Tag]collectFunc{
			formats.TagBBX: headerString("hdr_type"),
		},
	}
}

// StartTime collects the observation start as seconds past J2000.
func StartTime() catalog.Collector {
	return &collector{
		column: catalog.Column{Name: "start_time", Datatype: catalog.TypeFloat64, Unit: "s"},
		methods: map[format.Tag]collectFunc{
			formats.TagBBX: func(h format.Handle) (catalog.Value, error) {
				hdr, err := header(h)
				if err != nil {
					return catalog.Null(), err
				}
				offset, err := headerFloat(hdr, "time_offset_J2000")
				if err != nil {
					return catalog.Null(), err
				}
				start, err := headerFloat(hdr, "dim1_start")
				if err != nil {
					return catalog.Null(), err
				}
				return catalog.Float(offset + start), nil
			},
			formats.TagLoFASM: func(h format.Handle) (catalog.Value, error) {
				hdr, err := header(h)
				if err != nil {
					return catalog.Null(), err
				}
				t, err := headerFloat(hdr, "time_j2000")
				if err != nil {
					return catalog.Null(), err
				}
				return catalog.Float(t), nil
			},
		},
	}
}

// All returns the built-in collectors for the default column set.
func All() []catalog.Collector {
	return []catalog.Collector{Station(), Channel(), HeaderType(), StartTime()}
}
