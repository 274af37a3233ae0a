package model

import "github.com/shopspring/decimal"

// CoachType describes a travel class (sleeper, AC three tier, ...) and the
// static pricing attached to it.  The payable fare for a seat of this class
// is BaseFare × FareMultiplier rounded half-up to two decimals.
//
// Fields:
//  ID             – primary key identifier.
//  Code           – short unique class code (e.g. "3A").
//  Name           – display name.
//  BaseFare       – base fare, DECIMAL(10,2).
//  FareMultiplier – class multiplier, DECIMAL(5,2).
//  Description    – optional marketing text.
type CoachType struct {
    ID             uint64          `db:"id" json:"id"`                           // coachtype.id
    Code           string          `db:"code" json:"code"`                       // coachtype.code
    Name           string          `db:"name" json:"name"`                       // coachtype.name
    BaseFare       decimal.Decimal `db:"base_fare" json:"base_fare"`             // coachtype.base_fare
    FareMultiplier decimal.Decimal `db:"fare_multiplier" json:"fare_multiplier"` // coachtype.fare_multiplier
    Description    *string         `db:"description" json:"description"`         // coachtype.description (nullable)
}
