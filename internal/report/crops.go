// Package report renders crop records as spreadsheet exports.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"cropdesk/internal/crop"

	"github.com/xuri/excelize/v2"
)

const cropSheet = "Crops"

var cropHeader = []any{
	"ID", "Name", "Variety", "Planted", "Expected harvest", "Area (acres)", "Location",
	"Status", "Health", "Progress (%)", "Last watered", "Notes", "Created", "Updated",
}

// WriteCrops writes an xlsx workbook with one row per crop, in the given order.
func WriteCrops(w io.Writer, crops []crop.Crop) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", cropSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(cropSheet, "A1", &cropHeader); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetRowStyle(cropSheet, 1, 1, bold); err != nil {
		return err
	}

	for i, c := range crops {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			c.ID,
			c.Name,
			c.Variety,
			c.PlantedDate.String(),
			optionalDate(c.ExpectedHarvest),
			c.Area,
			c.Location,
			string(c.Status),
			string(c.HealthStatus),
			math.Round(c.Progress*10) / 10,
			c.LastWatered.String(),
			c.Notes,
			c.CreatedAt.Format(time.RFC3339),
			optionalTime(c.UpdatedAt),
		}
		if err := f.SetSheetRow(cropSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_, err = f.WriteTo(w)
	return err
}

func optionalDate(d *crop.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func optionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
