package datatools

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

// WriteSampleData writes a deterministic synthetic sales dataset as an
// .xlsx workbook. The same path always gets the same data (fixed seed),
// including some missing ages and genders so cleaning operations have
// something to do.
func WriteSampleData(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	rng := rand.New(rand.NewSource(42))
	products := []string{"Laptop", "Smartphone", "Tablet", "Monitor", "Headphones"}
	regions := []string{"North", "South", "East", "West", "Central"}
	genders := []string{"M", "F"}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	const records = 1000

	wb := excelize.NewFile()
	defer wb.Close()
	sheet := wb.GetSheetName(0)

	header := []any{"Date", "Product", "Region", "Units_Sold", "Unit_Price", "Customer_Age", "Customer_Gender", "Customer_ID", "Total_Sales"}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	missingAge, missingGender := pickMissing(rng, records, 50, 50)

	for i := 0; i < records; i++ {
		date := start.AddDate(0, 0, rng.Intn(365))
		units := rng.Intn(49) + 1
		price := math.Round((100+rng.Float64()*1400)*100) / 100

		var age any = rng.Intn(52) + 18
		if missingAge[i] {
			age = nil
		}
		var gender any = genders[rng.Intn(len(genders))]
		if missingGender[i] {
			gender = nil
		}

		row := []any{
			date.Format("2006-01-02"),
			products[rng.Intn(len(products))],
			regions[rng.Intn(len(regions))],
			units,
			price,
			age,
			gender,
			fmt.Sprintf("CUST%04d", i+1),
			math.Round(float64(units)*price*100) / 100,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// pickMissing marks two disjoint sets of indices, so a row is missing at
// most one field and row counts after dropna stay predictable.
func pickMissing(rng *rand.Rand, total, a, b int) ([]bool, []bool) {
	first := make([]bool, total)
	second := make([]bool, total)
	perm := rng.Perm(total)
	for _, idx := range perm[:a] {
		first[idx] = true
	}
	for _, idx := range perm[a : a+b] {
		second[idx] = true
	}
	return first, second
}
