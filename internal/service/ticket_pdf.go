package service

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/iliyamo/railway-seat-reservation/internal/model"
	"github.com/iliyamo/railway-seat-reservation/internal/repository"
	"github.com/iliyamo/railway-seat-reservation/internal/utils"
)

// RenderTicketPDF lays out a one-page e-ticket for a confirmed booking,
// with a QR code of the reference code in the summary box.
func RenderTicketPDF(d *repository.BookingDetail) ([]byte, error) {
	if d.Status != model.BookingConfirmed {
		return nil, ErrTicketNotConfirmed
	}
	qr, err := qrcode.Encode(d.PNR, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "RAILWAY e-TICKET")
	pdf.Ln(14)
	pdf.SetDrawColor(220, 220, 220)
	pdf.Line(15, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(6)

	top := pdf.GetY()
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(15, top, 120, 62, "F")
	pdf.SetXY(20, top+6)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, "PNR "+d.PNR)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	email := "-"
	if d.Email != nil {
		email = *d.Email
	}
	lines := []string{
		fmt.Sprintf("Passenger: %s", d.PassengerName),
		fmt.Sprintf("Email: %s", email),
		fmt.Sprintf("Seat: %s (%s)", d.SeatNumber, d.CoachName),
		fmt.Sprintf("Fare paid: %s", utils.FormatAmount(d.FareAmount)),
		fmt.Sprintf("Status: %s", d.Status),
	}
	for _, l := range lines {
		pdf.SetX(20)
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	pdf.RegisterImageOptionsReader("pnr-qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr))
	pdf.ImageOptions("pnr-qr", 145, top+4, 48, 0, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetXY(15, top+70)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "JOURNEY")
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 11)
	journey := []string{
		fmt.Sprintf("Train: %s (%s)", d.TrainName, d.TrainNumber),
		fmt.Sprintf("From: %s", d.SourceName),
		fmt.Sprintf("To: %s", d.DestinationName),
		fmt.Sprintf("Date: %s", d.TravelDate.Format("02 Jan 2006")),
		fmt.Sprintf("Departs %s, arrives %s", d.DepartureTime, d.ArrivalTime),
	}
	for _, l := range journey {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	pdf.SetY(-25)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Issued %s. Carry a photo ID matching the passenger name.", d.IssuedAt.UTC().Format("2006-01-02 15:04 MST")), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
