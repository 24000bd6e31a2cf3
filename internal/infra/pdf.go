package infra

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"minakistock/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateSummaryPDF renders an inventory summary as a PDF table and writes it
// under dir, returning the file path.
func GenerateSummaryPDF(dir string, summary *dto.InventorySummaryResponse) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Inventory Summary", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Inventory Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	scope := "all locations"
	if summary.LocationID != nil {
		scope = "location " + *summary.LocationID
	}
	pdf.Cell(0, 6, fmt.Sprintf("Scope: %s", scope))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04 MST")))
	pdf.Ln(10)

	headers := []string{"Product ID", "Type", "Name", "Qty", "Storage"}
	widths := []float64{35, 28, 55, 15, 57}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, p := range summary.Products {
		row := []string{
			p.ProductID,
			p.ProductType,
			truncate(p.ProductName, 40),
			fmt.Sprintf("%d", p.TotalQuantity),
			truncate(strings.Join(p.StorageObjectCodes, ", "), 45),
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	totalUnits := 0
	for _, p := range summary.Products {
		totalUnits += p.TotalQuantity
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Distinct products: %d    Total units: %d",
		len(summary.Products), totalUnits))

	name := fmt.Sprintf("inventory_summary_%s.pdf", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}
	return path, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
