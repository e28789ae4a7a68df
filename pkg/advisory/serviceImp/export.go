package serviceImp

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"agentrix/entities"
)

const exportSheet = "Advisories"

var exportHeader = []interface{}{
	"ID", "Created", "GPS", "Soil Type", "Lang", "Has Photo",
	"Weather", "Temperature (°C)", "Recommended Crop", "Market Price (₹/quintal)",
	"Disease", "Confidence", "Advice (EN)", "Advice (ML)",
}

// ExportXLSX writes all complete advisories as a single-sheet workbook.
func (s *Svc) ExportXLSX(w io.Writer) error {
	list, err := s.repo.ListByStatus(entities.AdvisoryComplete)
	if err != nil {
		return fmt.Errorf("list advisories: %w", err)
	}

	x := excelize.NewFile()
	defer x.Close()
	if err := x.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	if err := x.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return err
	}
	for i, a := range list {
		row := []interface{}{
			a.AdvisoryID, a.CreatedAt.UTC().Format("2006-01-02 15:04:05"), a.GPS, a.SoilType, a.Lang, a.HasPhoto,
			"", "", a.RecommendedCrop, a.MarketPrice, "", "", a.AdviceEn, a.AdviceMl,
		}
		if a.Weather != nil {
			row[6], row[7] = a.Weather.Description, a.Weather.TemperatureC
		}
		if a.Disease != nil {
			row[10], row[11] = a.Disease.Disease, a.Disease.Confidence
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := x.SetSheetRow(exportSheet, cell, &row); err != nil {
			return err
		}
	}
	_, err = x.WriteTo(w)
	return err
}
