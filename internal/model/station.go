package model

// Station is a stop a train departs from or arrives at.  Stations are
// reference data; the booking flow only reads them.
//
// Fields:
//  ID   – primary key identifier.
//  Code – short unique station code (e.g. "NDLS").
//  Name – human readable station name.
type Station struct {
    ID   uint64 `db:"id" json:"id"`     // station.id
    Code string `db:"code" json:"code"` // station.code
    Name string `db:"name" json:"name"` // station.name
}

// Train identifies the rolling stock a schedule runs with.
type Train struct {
    ID     uint64 `db:"id" json:"id"`         // train.id
    Number string `db:"number" json:"number"` // train.number
    Name   string `db:"name" json:"name"`     // train.name
}
