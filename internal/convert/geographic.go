// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"github.com/anttiruonakoski/tiiramuunnin/internal/proj"
	"github.com/anttiruonakoski/tiiramuunnin/pkg/types"
)

// Geographic converts ETRS-TM35FIN planar coordinates to WGS-84
// latitude/longitude, merges the municipality into the place name, and
// keeps only the columns useful for mapping tools.
var Geographic Conversion = geographic{}

type geographic struct{}

func (geographic) Name() string { return "geographic_coordinates" }

func (geographic) Description() string {
	return "geographic coordinates: reproject ETRS-TM35FIN to WGS-84, ISO-8601 dates, pruned columns"
}

// outputColumns is the column set after the municipality column is
// folded into the place string. X-koord carries longitude and Y-koord
// latitude on output; column identity survives, units change.
var outputColumns = []string{
	types.ColSpecies,
	types.ColDate1,
	types.ColPlace,
	types.ColEast,
	types.ColNorth,
	types.ColRowType,
	types.ColRowCount,
}

func (geographic) Apply(t types.Table) (types.Table, error) {
	out := types.Table{
		Columns: append([]string(nil), outputColumns...),
		Rows:    make([][]types.Value, 0, t.Len()),
	}

	for r := 0; r < t.Len(); r++ {
		east, ok := t.Cell(r, types.ColEast).AsFloat()
		if !ok {
			return types.Table{}, &RowError{Row: r, Column: types.ColEast,
				Err: fmt.Errorf("not a numeric coordinate")}
		}
		north, ok := t.Cell(r, types.ColNorth).AsFloat()
		if !ok {
			return types.Table{}, &RowError{Row: r, Column: types.ColNorth,
				Err: fmt.Errorf("not a numeric coordinate")}
		}

		// The transformation returns the target axis order, latitude
		// first; latitude lands in the Y column, longitude in X.
		lat, lon := proj.TM35FINToWGS84(east, north)

		place := mergePlace(t.Cell(r, types.ColMunicipality), t.Cell(r, types.ColPlace))

		out.Rows = append(out.Rows, []types.Value{
			t.Cell(r, types.ColSpecies),
			t.Cell(r, types.ColDate1),
			types.String(place),
			types.Float(lon),
			types.Float(lat),
			t.Cell(r, types.ColRowType),
			t.Cell(r, types.ColRowCount),
		})
	}

	return out, nil
}

// mergePlace joins municipality and place with a literal comma-space,
// e.g. "Helsinki" + "Keskuspuisto" → "Helsinki, Keskuspuisto". The
// municipality column itself is dropped from the output; its content
// survives only inside the merged string.
func mergePlace(municipality, place types.Value) string {
	return stringContent(municipality) + ", " + stringContent(place)
}

func stringContent(v types.Value) string {
	if v.Kind() == types.KindString {
		return v.Str()
	}
	return ""
}
