// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Observation is one wildlife-sighting row from a tiira.fi export, in
// the shape the local store persists. Planar coordinates keep the
// source ETRS-TM35FIN values; Lat/Lon carry the WGS-84 reprojection.
type Observation struct {
	Species      string    `json:"species" yaml:"species"`
	Date1        time.Time `json:"date1,omitempty" yaml:"date1,omitempty"`
	Date2        time.Time `json:"date2,omitempty" yaml:"date2,omitempty"`
	Municipality string    `json:"municipality" yaml:"municipality"`
	Place        string    `json:"place" yaml:"place"`
	East         float64   `json:"east" yaml:"east"`
	North        float64   `json:"north" yaml:"north"`
	Lat          float64   `json:"lat" yaml:"lat"`
	Lon          float64   `json:"lon" yaml:"lon"`
	RowType      string    `json:"row_type,omitempty" yaml:"row_type,omitempty"`
	RowCount     string    `json:"row_count,omitempty" yaml:"row_count,omitempty"`
	Count        int64     `json:"count" yaml:"count"`
	SavedAt      time.Time `json:"saved_at,omitempty" yaml:"saved_at,omitempty"`
}
