package service

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"exusiai.dev/tracediag/internal/app/appconfig"
	"exusiai.dev/tracediag/internal/model"
	"exusiai.dev/tracediag/internal/pkg/diagerr"
	"exusiai.dev/tracediag/internal/pkg/flog"
	"exusiai.dev/tracediag/internal/util"
)

type Trace struct {
	Config *appconfig.Config
}

func NewTrace(config *appconfig.Config) *Trace {
	return &Trace{
		Config: config,
	}
}

// LoadDefault loads the trace file configured by TraceDir and TraceFile.
func (s *Trace) LoadDefault(ctx context.Context) (*model.TraceMatrix, error) {
	return s.Load(ctx, s.Config.TracePath())
}

// Load reads the trace file at path and reshapes it into a variable-major matrix.
func (s *Trace) Load(ctx context.Context, path string) (*model.TraceMatrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diagerr.ErrMalformedInput.Msg("failed to read trace file \"%s\"", path).Wrap(err)
	}
	flog.DebugFrom(ctx).Str("path", path).Int("bytes", len(data)).Msg("read trace file")

	raw, err := ParseRawTrace(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse trace file \"%s\"", path)
	}
	raw.Source = path
	matrix, err := model.NewTraceMatrix(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse trace file \"%s\"", path)
	}

	k, n := matrix.Shape()
	flog.InfoFrom(ctx).
		Str("path", path).
		Stringer("kind", matrix.Kind()).
		Int("variables", k).
		Int("samples", n).
		Msg("loaded trace")

	return matrix, nil
}

func (s *Trace) Parse(data []byte) (*model.TraceMatrix, error) {
	raw, err := ParseRawTrace(data)
	if err != nil {
		return nil, err
	}
	return model.NewTraceMatrix(raw)
}

// ParseRawTrace decodes a JSON array of numbers, or a JSON array of equally long
// arrays of numbers. The kind is decided by the first element and every other
// element is validated against it.
func ParseRawTrace(data []byte) (*model.RawTrace, error) {
	if !gjson.ValidBytes(data) {
		return nil, diagerr.ErrMalformedInput.Msg("trace is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, diagerr.ErrMalformedInput.Msg("trace is a JSON %s, expected an array", root.Type)
	}

	elements := root.Array()
	if len(elements) == 0 {
		return nil, diagerr.ErrMalformedInput.Msg("trace array is empty")
	}

	if elements[0].IsArray() {
		return parseNested(elements)
	}
	return parseFlat(elements)
}

func parseFlat(elements []gjson.Result) (*model.RawTrace, error) {
	samples := make([][]float64, len(elements))
	for i, el := range elements {
		if el.IsArray() {
			return nil, malformedElement(i, "is an array but element 0 is a number")
		}
		v, err := number(el, i)
		if err != nil {
			return nil, err
		}
		samples[i] = []float64{v}
	}

	return &model.RawTrace{
		Kind:    model.TraceKindFlat,
		Samples: samples,
	}, nil
}

func parseNested(elements []gjson.Result) (*model.RawTrace, error) {
	width := len(elements[0].Array())
	if width == 0 {
		return nil, malformedElement(0, "is an empty array")
	}

	samples := make([][]float64, len(elements))
	for i, el := range elements {
		if !el.IsArray() {
			return nil, malformedElement(i, "is not an array but element 0 is")
		}
		values := el.Array()
		if len(values) != width {
			return nil, malformedElement(i, "has %d values, expected %d", len(values), width)
		}
		sample := make([]float64, width)
		for j, v := range values {
			f, err := number(v, i)
			if err != nil {
				return nil, err
			}
			sample[j] = f
		}
		samples[i] = sample
	}

	return &model.RawTrace{
		Kind:    model.TraceKindNested,
		Samples: samples,
	}, nil
}

func number(v gjson.Result, index int) (float64, error) {
	if v.Type != gjson.Number {
		return 0, malformedElement(index, "contains a JSON %s, expected a number", v.Type)
	}
	f := v.Float()
	if !util.IsFinite(f) {
		return 0, malformedElement(index, "contains %s, which is not a finite number", v.Raw)
	}
	return f, nil
}

func malformedElement(index int, format string, parts ...interface{}) error {
	return diagerr.ErrMalformedInput.
		Msg("element %d "+format, append([]interface{}{index}, parts...)...).
		WithExtras(diagerr.Extras{"index": index})
}
