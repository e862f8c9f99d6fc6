package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"

	"wanderplan/internal/models/request_models"
	"wanderplan/internal/models/response_models"
)

type ItineraryPrinterInterface interface {
	RenderPDF(w io.Writer, req request_models.TravelPlanRequest, plan response_models.TravelPlan) error
}

type ItineraryPrinter struct{}

func NewItineraryPrinter() ItineraryPrinterInterface {
	return ItineraryPrinter{}
}

// RenderPDF writes the full itinerary as an A4 document.
func (ItineraryPrinter) RenderPDF(w io.Writer, req request_models.TravelPlanRequest, plan response_models.TravelPlan) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 9, tr(fmt.Sprintf("%d-day trip to %s", req.Days, req.Destination)), "", "L", false)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Group: %s   Budget: %s", req.GroupType, req.BudgetType)))
	pdf.Ln(11)

	if len(plan.Hotels) > 0 {
		sectionHeading(pdf, tr, "Hotels")
		for _, h := range plan.Hotels {
			pdf.SetFont("Arial", "B", 12)
			pdf.MultiCell(0, 6, tr(h.Name()), "", "L", false)
			pdf.SetFont("Arial", "", 10)
			detailLine(pdf, tr, "Address", h.Address())
			detailLine(pdf, tr, "Price", h.Price())
			detailLine(pdf, tr, "Rating", formatRating(h.Rating))
			pdf.Ln(3)
		}
	}

	for i, day := range plan.Itinerary {
		label := fmt.Sprintf("Day %d", i+1)
		if n, ok := day.Number(); ok {
			label = fmt.Sprintf("Day %d", n)
		}
		sectionHeading(pdf, tr, label)
		if len(day.Places) == 0 {
			pdf.SetFont("Arial", "I", 10)
			pdf.Cell(0, 6, "No places planned.")
			pdf.Ln(8)
			continue
		}
		for _, p := range day.Places {
			pdf.SetFont("Arial", "B", 12)
			pdf.MultiCell(0, 6, tr(p.Name()), "", "L", false)
			pdf.SetFont("Arial", "", 10)
			if desc := p.Description(); desc != "" {
				pdf.MultiCell(0, 5, tr(desc), "", "L", false)
			}
			detailLine(pdf, tr, "Ticket", p.Ticket())
			detailLine(pdf, tr, "Travel time", p.TravelTime())
			detailLine(pdf, tr, "Best time", p.BestTime())
			detailLine(pdf, tr, "Rating", formatRating(p.Rating))
			pdf.Ln(3)
		}
	}

	return pdf.Output(w)
}

func sectionHeading(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 236, 245)
	pdf.CellFormat(0, 8, tr(title), "", 1, "L", true, 0, "")
	pdf.Ln(2)
}

func detailLine(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	pdf.MultiCell(0, 5, tr(label+": "+value), "", "L", false)
}

func formatRating(r float64) string {
	if r == 0 {
		return ""
	}
	return fmt.Sprintf("%.1f / 5", r)
}
