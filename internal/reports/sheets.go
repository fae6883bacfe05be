package reports

import (
	"time"

	"esg-dashboard/ghg-backend/internal/ghg"
	"esg-dashboard/ghg-backend/internal/reports/export"
)

// Sheet names, in workbook order.
const (
	SheetQuestionnaire     = "Questionnaire"
	SheetSummary           = "Summary"
	SheetCalculations      = "Calculations"
	SheetActivityBreakdown = "Activity Breakdown"
	SheetCustomFactors     = "Custom Factors"
)

const notApplicable = "N/A"

// CalculationColumns is the header row of the Calculations sheet.
var CalculationColumns = []string{
	"Scope",
	"Category",
	"Equipment Type",
	"Fuel Category",
	"Fuel Type",
	"Amount",
	"Unit Type",
	"Base Emission Factor (kg CO2e/unit)",
	"Converted Emission Factor (kg CO2e/unit)",
	"Total Emissions (kg CO2e)",
	"Total Emissions (tonnes CO2e)",
	"Calculation Date",
	"Entry ID",
	"Calculation Method",
	"Data Quality",
	"Verification Status",
}

// BuildSheets lays out a snapshot as report sheets. Every export format
// renders this same sheet set.
func BuildSheets(snap ghg.Snapshot, generatedAt time.Time) []export.Sheet {
	sheets := []export.Sheet{
		questionnaireSheet(snap.Questionnaire, generatedAt),
		summarySheet(snap.Summary),
		calculationsSheet(snap.Entries),
		activitySheet(snap.Summary),
	}
	if custom := snap.Factors.CustomFactors(); len(custom) > 0 {
		sheets = append(sheets, customFactorsSheet(custom))
	}
	return sheets
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func orNA(s string) string {
	if s == "" {
		return notApplicable
	}
	return s
}

func questionnaireSheet(q ghg.Questionnaire, generatedAt time.Time) export.Sheet {
	control := notApplicable
	if q.BoundaryApproach == ghg.BoundaryControl {
		control = orNA(q.ControlSubtype)
	}
	reportDate := notApplicable
	if q.Timestamp != nil {
		reportDate = formatTime(*q.Timestamp)
	}

	return export.Sheet{
		Name: SheetQuestionnaire,
		Columns: []string{
			"Organization Name",
			"Organizational Boundary",
			"Control Approach",
			"Operational Boundary",
			"Emission Sources",
			"Report Date",
			"Report Generated",
		},
		Rows: [][]interface{}{{
			q.OrgName,
			q.BoundaryApproach,
			control,
			q.OperationalBoundary,
			q.EmissionSources,
			reportDate,
			formatTime(generatedAt),
		}},
	}
}

func summarySheet(sum ghg.Summary) export.Sheet {
	sheet := export.Sheet{
		Name: SheetSummary,
		Columns: []string{
			"Scope",
			"Total Emissions (kg CO2e)",
			"Total Emissions (tonnes CO2e)",
			"Percentage of Total",
			"Activities",
		},
	}
	for _, g := range sum.ByScope {
		sheet.Rows = append(sheet.Rows, []interface{}{
			g.Key, g.TotalEmissions, g.TotalTonnes, g.Percentage, g.Count,
		})
	}
	sheet.Rows = append(sheet.Rows, []interface{}{
		"Total", sum.TotalEmissions, sum.TotalTonnes, ghg.Percentage(sum.TotalEmissions, sum.TotalEmissions), sum.EntryCount,
	})
	return sheet
}

func calculationsSheet(entries []ghg.EmissionEntry) export.Sheet {
	sheet := export.Sheet{Name: SheetCalculations, Columns: CalculationColumns}
	for _, e := range entries {
		sheet.Rows = append(sheet.Rows, []interface{}{
			e.Scope,
			e.Category,
			e.EquipmentType,
			e.FuelCategory,
			e.FuelType,
			e.Amount,
			e.UnitType,
			e.BaseFactor,
			e.ConvertedFactor,
			e.Emissions,
			e.Tonnes(),
			formatTime(e.Timestamp),
			e.ID.String(),
			"Activity Data × Emission Factor",
			"User Input",
			"Pending Review",
		})
	}
	return sheet
}

func activitySheet(sum ghg.Summary) export.Sheet {
	sheet := export.Sheet{
		Name: SheetActivityBreakdown,
		Columns: []string{
			"Fuel Type",
			"Scope",
			"Category",
			"Fuel Category",
			"Activities",
			"Total Amount",
			"Total Emissions (kg CO2e)",
			"Total Emissions (tonnes CO2e)",
			"Percentage of Total",
		},
	}
	for _, f := range sum.ByFuelType {
		sheet.Rows = append(sheet.Rows, []interface{}{
			f.Key,
			f.Scope,
			f.Category,
			f.FuelCategory,
			f.Count,
			f.TotalAmount,
			f.TotalEmissions,
			f.TotalTonnes,
			f.Percentage,
		})
	}
	return sheet
}

func customFactorsSheet(custom []ghg.CustomFactor) export.Sheet {
	sheet := export.Sheet{
		Name: SheetCustomFactors,
		Columns: []string{
			"Scope",
			"Category",
			"Fuel Category",
			"Fuel Type",
			"Emission Factor (kg CO2e/unit)",
			"Date Added",
		},
	}
	for _, c := range custom {
		added := notApplicable
		if c.AddedAt != nil {
			added = formatTime(*c.AddedAt)
		}
		sheet.Rows = append(sheet.Rows, []interface{}{
			c.Path.Scope,
			c.Path.Category,
			c.Path.FuelCategory,
			c.Name,
			c.Factor,
			added,
		})
	}
	return sheet
}
