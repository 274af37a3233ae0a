// Package queue defines message payloads exchanged over the message broker.
package queue

// SettlementQueue is the durable queue settlement events are published to.
const SettlementQueue = "booking.settled"

// BookingSettledEvent is published after a payment settlement commits,
// whether the payment went through or not.  It carries enough information
// for downstream consumers to log or notify without querying the primary
// database.
type BookingSettledEvent struct {
    BookingID  uint64 `json:"booking_id"`
    ScheduleID uint64 `json:"schedule_id"`
    Passenger  string `json:"passenger_name"`
    SeatNumber string `json:"seat_number"`
    Status     string `json:"status"` // CONFIRMED or FAILED
    Amount     string `json:"amount"` // fixed two decimals
    Method     string `json:"method"`
    SeatFreed  bool   `json:"seat_released"` // true when the seat went back to the schedule
    SettledAt  string `json:"settled_at"`    // RFC3339, UTC
}
