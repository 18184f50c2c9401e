// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Column names of the tiira.fi observation export. The export uses
// Finnish headers; column identity is preserved through the pipeline
// even where the semantic content changes (the coordinate columns hold
// planar values on input and geographic degrees after conversion).
const (
	ColSpecies      = "Laji"
	ColDate1        = "Pvm1"
	ColDate2        = "Pvm2"
	ColMunicipality = "Kunta"
	ColPlace        = "Paikka"
	ColEast         = "X-koord"
	ColNorth        = "Y-koord"
	ColRowType      = "rivityyppi"
	ColRowCount     = "rivejä"
	ColCount        = "Määrä"
	ColSavedAt      = "Tallennusaika"
)
