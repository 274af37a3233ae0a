package model

import "time"

// Schedule is one run of a train between two stations on a travel date.
// AvailableSeats is the ledger counter guarded by the schedule row lock; it
// never drops below zero.
//
// DepartureTime and ArrivalTime hold the MySQL TIME columns as returned by
// the driver ("HH:MM:SS").
type Schedule struct {
    ID              uint64    `db:"schedule_id" json:"schedule_id"`
    TrainName       string    `db:"train_name" json:"train_name"`
    TrainNumber     string    `db:"train_number" json:"train_number"`
    SourceCode      string    `db:"source_code" json:"source_code"`
    SourceName      string    `db:"source_name" json:"source_name"`
    DestinationCode string    `db:"destination_code" json:"destination_code"`
    DestinationName string    `db:"destination_name" json:"destination_name"`
    TravelDate      time.Time `db:"travel_date" json:"travel_date"`
    DepartureTime   string    `db:"departure_time" json:"departure_time"`
    ArrivalTime     string    `db:"arrival_time" json:"arrival_time"`
    AvailableSeats  int       `db:"available_seats" json:"available_seats"`
}
