// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package proj converts ETRS-TM35FIN planar coordinates (EPSG:3067,
// Finland's national grid) to WGS-84 geographic coordinates (EPSG:4326).
//
// ETRS-TM35FIN is the ETRS89 transverse mercator projection on UTM zone
// 35 with the zone's usage area widened to cover all of Finland. The
// inverse projection here is the Krüger series carried to sixth order
// in the third flattening, which is exact to well below a millimeter
// over the projection's usage area.
package proj

import "math"

// GRS80 ellipsoid and ETRS-TM35FIN projection parameters (EPSG:3067).
const (
	semiMajor    = 6378137.0
	flattening   = 1.0 / 298.257222101
	scale        = 0.9996
	falseEasting = 500000.0
	lonOrigin    = 27.0 // central meridian, degrees east
)

var (
	n  = flattening / (2 - flattening) // third flattening
	n2 = n * n
	n3 = n2 * n
	n4 = n3 * n
	n5 = n4 * n
	n6 = n5 * n

	// rectifying radius
	radius = semiMajor / (1 + n) * (1 + n2/4 + n4/64 + n6/256)

	// Krüger series coefficients for the inverse projection.
	beta = [6]float64{
		n/2 - 2*n2/3 + 37*n3/96 - n4/360 - 81*n5/512 + 96199*n6/604800,
		n2/48 + n3/15 - 437*n4/1440 + 46*n5/105 - 1118711*n6/3870720,
		17*n3/480 - 37*n4/840 - 209*n5/4480 + 5569*n6/90720,
		4397*n4/161280 - 11*n5/504 - 830251*n6/7257600,
		4583*n5/161280 - 108847*n6/3991680,
		20648693 * n6 / 638668800,
	}

	e2 = flattening * (2 - flattening) // first eccentricity squared
	e4 = e2 * e2
	e6 = e4 * e2
	e8 = e6 * e2

	// conformal-to-geographic latitude series coefficients
	d2 = e2/2 + 5*e4/24 + e6/12 + 13*e8/360
	d4 = 7*e4/48 + 29*e6/240 + 811*e8/11520
	d6 = 7*e6/120 + 81*e8/1120
	d8 = 4279 * e8 / 161280
)

// TM35FINToWGS84 transforms one planar (easting, northing) pair to
// geographic (latitude, longitude) in degrees. Pure function; no
// validation of the input beyond what the projection math implies.
func TM35FINToWGS84(east, north float64) (lat, lon float64) {
	xi := north / (scale * radius)
	eta := (east - falseEasting) / (scale * radius)

	xiP, etaP := xi, eta
	for j := 1; j <= 6; j++ {
		b := beta[j-1]
		xiP -= b * math.Sin(2*float64(j)*xi) * math.Cosh(2*float64(j)*eta)
		etaP -= b * math.Cos(2*float64(j)*xi) * math.Sinh(2*float64(j)*eta)
	}

	sinhEta := math.Sinh(etaP)
	cosXi := math.Cos(xiP)

	// chi is the conformal latitude; the series below converts it to
	// the geographic latitude on the ellipsoid.
	chi := math.Atan2(math.Sin(xiP), math.Hypot(sinhEta, cosXi))
	lat = chi + d2*math.Sin(2*chi) + d4*math.Sin(4*chi) +
		d6*math.Sin(6*chi) + d8*math.Sin(8*chi)

	lon = lonOrigin*math.Pi/180 + math.Atan2(sinhEta, cosXi)
	return lat * 180 / math.Pi, lon * 180 / math.Pi
}
