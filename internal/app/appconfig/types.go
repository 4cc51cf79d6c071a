package appconfig

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/plot/vg"
)

// PlotLength is a plot dimension read from the environment as a number with a
// unit suffix, e.g. "6in", "15cm", "120mm" or "432pt". A bare number is read as inches.
type PlotLength vg.Length

var plotLengthUnits = []struct {
	suffix string
	unit   vg.Length
}{
	{"in", vg.Inch},
	{"cm", vg.Centimeter},
	{"mm", vg.Millimeter},
	{"pt", vg.Points(1)},
}

func (l *PlotLength) Decode(value string) error {
	value = strings.TrimSpace(value)
	unit := vg.Inch
	for _, u := range plotLengthUnits {
		if strings.HasSuffix(value, u.suffix) {
			value = strings.TrimSpace(strings.TrimSuffix(value, u.suffix))
			unit = u.unit
			break
		}
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid plot length: expect a number with an optional unit of in, cm, mm or pt, but got: %s (%w)", value, err)
	}
	*l = PlotLength(vg.Length(f) * unit)
	return nil
}

func (l PlotLength) Length() vg.Length {
	return vg.Length(l)
}
