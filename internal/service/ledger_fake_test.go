package service

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
	"github.com/iliyamo/railway-seat-reservation/internal/queue"
	"github.com/iliyamo/railway-seat-reservation/internal/repository"
)

// memLedger mimics the InnoDB behaviour the services rely on: row locks
// held until the transaction ends and writes that only become visible on
// commit.
type memLedger struct {
	mu        sync.Mutex
	seats     map[uint64]int
	bookings  map[uint64]model.Booking
	tickets   map[string]model.Ticket
	payments  []model.Payment
	nextID    uint64
	rowLocks  map[string]*sync.Mutex
	failOn    map[string]error
	commitErr error
}

func newMemLedger() *memLedger {
	return &memLedger{
		seats:    map[uint64]int{},
		bookings: map[uint64]model.Booking{},
		tickets:  map[string]model.Ticket{},
		rowLocks: map[string]*sync.Mutex{},
		failOn:   map[string]error{},
	}
}

func (m *memLedger) addSchedule(id uint64, seats int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seats[id] = seats
}

func (m *memLedger) seatsOf(id uint64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seats[id]
}

func (m *memLedger) booking(id uint64) (model.Booking, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	return b, ok
}

func (m *memLedger) counts() (bookings, tickets, payments int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings), len(m.tickets), len(m.payments)
}

func (m *memLedger) paymentsOf(bookingID uint64) []model.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Payment
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			out = append(out, p)
		}
	}
	return out
}

func (m *memLedger) lockFor(key string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.rowLocks[key]
	if !ok {
		l = &sync.Mutex{}
		m.rowLocks[key] = l
	}
	return l
}

func (m *memLedger) fail(step string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failOn[step]
}

func (m *memLedger) InTx(ctx context.Context, fn func(repository.LedgerTx) error) error {
	tx := &memTx{
		m:         m,
		held:      map[string]*sync.Mutex{},
		seatDelta: map[uint64]int{},
		bookings:  map[uint64]model.Booking{},
		tickets:   map[string]model.Ticket{},
	}
	defer tx.release()
	if err := fn(tx); err != nil {
		return err
	}
	if m.commitErr != nil {
		return m.commitErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, d := range tx.seatDelta {
		m.seats[id] += d
	}
	for id, b := range tx.bookings {
		m.bookings[id] = b
	}
	for code, t := range tx.tickets {
		m.tickets[code] = t
	}
	for _, p := range tx.payments {
		p.ID = uint64(len(m.payments) + 1)
		m.payments = append(m.payments, p)
	}
	return nil
}

type memTx struct {
	m         *memLedger
	held      map[string]*sync.Mutex
	seatDelta map[uint64]int
	bookings  map[uint64]model.Booking
	tickets   map[string]model.Ticket
	payments  []model.Payment
}

func (t *memTx) lock(key string) {
	if _, ok := t.held[key]; ok {
		return
	}
	l := t.m.lockFor(key)
	l.Lock()
	t.held[key] = l
}

func (t *memTx) release() {
	for _, l := range t.held {
		l.Unlock()
	}
}

func (t *memTx) findBooking(id uint64) (model.Booking, bool) {
	if b, ok := t.bookings[id]; ok {
		return b, true
	}
	return t.m.booking(id)
}

func (t *memTx) LockScheduleSeats(ctx context.Context, scheduleID uint64) (int, error) {
	if err := t.m.fail("lock schedule"); err != nil {
		return 0, err
	}
	t.m.mu.Lock()
	_, ok := t.m.seats[scheduleID]
	t.m.mu.Unlock()
	if !ok {
		return 0, repository.ErrNotFound
	}
	t.lock(fmt.Sprintf("schedule:%d", scheduleID))
	return t.m.seatsOf(scheduleID) + t.seatDelta[scheduleID], nil
}

func (t *memTx) DebitSeat(ctx context.Context, scheduleID uint64) error {
	if err := t.m.fail("debit seat"); err != nil {
		return err
	}
	if t.m.seatsOf(scheduleID)+t.seatDelta[scheduleID] <= 0 {
		return repository.ErrSeatsExhausted
	}
	t.seatDelta[scheduleID]--
	return nil
}

func (t *memTx) CreateBooking(ctx context.Context, b *model.Booking) error {
	if err := t.m.fail("create booking"); err != nil {
		return err
	}
	t.m.mu.Lock()
	t.m.nextID++
	b.ID = t.m.nextID
	t.m.mu.Unlock()
	b.CreatedAt = time.Now().UTC()
	t.bookings[b.ID] = *b
	return nil
}

func (t *memTx) CreateTicket(ctx context.Context, tk *model.Ticket) error {
	if err := t.m.fail("create ticket"); err != nil {
		return err
	}
	t.m.mu.Lock()
	_, taken := t.m.tickets[tk.PNR]
	t.m.mu.Unlock()
	if _, staged := t.tickets[tk.PNR]; taken || staged {
		return repository.ErrDuplicateReference
	}
	tk.IssuedAt = time.Now().UTC()
	t.tickets[tk.PNR] = *tk
	return nil
}

func (t *memTx) LockBooking(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	if err := t.m.fail("lock booking"); err != nil {
		return nil, err
	}
	t.lock(fmt.Sprintf("booking:%d", bookingID))
	b, ok := t.findBooking(bookingID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (t *memTx) SetBookingStatus(ctx context.Context, bookingID uint64, status model.BookingStatus) error {
	if err := t.m.fail("set status"); err != nil {
		return err
	}
	b, ok := t.findBooking(bookingID)
	if !ok {
		return repository.ErrNotFound
	}
	b.Status = status
	t.bookings[bookingID] = b
	return nil
}

func (t *memTx) CreatePayment(ctx context.Context, p *model.Payment) error {
	if err := t.m.fail("create payment"); err != nil {
		return err
	}
	t.payments = append(t.payments, *p)
	return nil
}

func (t *memTx) CreditSeatForBooking(ctx context.Context, bookingID uint64) error {
	if err := t.m.fail("credit seat"); err != nil {
		return err
	}
	b, ok := t.findBooking(bookingID)
	if !ok {
		return repository.ErrNotFound
	}
	t.lock(fmt.Sprintf("schedule:%d", b.ScheduleID))
	t.seatDelta[b.ScheduleID]++
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.BookingSettledEvent
	err    error
}

func (p *recordingPublisher) PublishSettlement(ctx context.Context, ev queue.BookingSettledEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type stubBookingReader struct {
	byID  map[uint64]*repository.BookingDetail
	byPNR map[string]*repository.BookingDetail
	err   error
}

func (s *stubBookingReader) GetDetail(ctx context.Context, id uint64) (*repository.BookingDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	if d, ok := s.byID[id]; ok {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

func (s *stubBookingReader) GetDetailByPNR(ctx context.Context, pnr string) (*repository.BookingDetail, error) {
	if s.err != nil {
		return nil, s.err
	}
	if d, ok := s.byPNR[pnr]; ok {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

type stubPaymentLister struct{ payments []model.Payment }

func (s *stubPaymentLister) ListByBooking(ctx context.Context, bookingID uint64) ([]model.Payment, error) {
	return s.payments, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestServices(l *memLedger) (*BookingService, *PaymentService, *recordingPublisher) {
	pub := &recordingPublisher{}
	bs := NewBookingService(l, &stubBookingReader{}, &stubPaymentLister{}, quietLogger())
	ps := NewPaymentService(l, pub, quietLogger())
	return bs, ps, pub
}
