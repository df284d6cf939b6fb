// Package report exports the ledger as an xlsx workbook with one sheet per
// table view.
package report

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/tealeg/xlsx/v3"

	"donorledger/internal/core"
	"donorledger/pkg/domain"
)

// Sheet names in workbook order.
const (
	SheetDonors    = "Donors"
	SheetDonations = "Donations"
	SheetInventory = "Inventory"
	SheetSummary   = "Summary"
)

// NeverDonated is shown for donors without a recorded donation.
const NeverDonated = "Never"

// Source is the read side of the ledger consumed by the report.
type Source interface {
	ListDonors() []domain.Donor
	ListInventory() []domain.InventoryItem
	RecentDonations(n int) []domain.Donation
	CountDonationsForDonor(id domain.ID) int
	Summary() core.Summary
}

var (
	donorHeaders     = []string{"ID", "Name", "Age", "Gender", "Blood Type", "Phone", "Email", "Address", "Registered", "Last Donation", "Donations"}
	donationHeaders  = []string{"ID", "Date", "Donor ID", "Donor", "Blood Type", "Units", "Notes"}
	inventoryHeaders = []string{"Blood Type", "Units", "Status", "Last Updated"}
	summaryHeaders   = []string{"Metric", "Value"}
)

// Build assembles the workbook from src.
func Build(src Source) (*xlsx.File, error) {
	file := xlsx.NewFile()

	donors, err := addSheet(file, SheetDonors, donorHeaders)
	if err != nil {
		return nil, err
	}
	for _, d := range src.ListDonors() {
		last := NeverDonated
		if d.LastDonation != nil {
			last = string(*d.LastDonation)
		}
		row := donors.AddRow()
		row.AddCell().SetInt(int(d.ID))
		addStrings(row, d.Name)
		row.AddCell().SetInt(d.Age)
		addStrings(row, d.Gender, string(d.BloodType), d.Phone, d.Email, d.Address, string(d.RegistrationDate), last)
		row.AddCell().SetInt(src.CountDonationsForDonor(d.ID))
	}

	donations, err := addSheet(file, SheetDonations, donationHeaders)
	if err != nil {
		return nil, err
	}
	for _, d := range src.RecentDonations(math.MaxInt) {
		row := donations.AddRow()
		row.AddCell().SetInt(int(d.ID))
		addStrings(row, string(d.Date))
		row.AddCell().SetInt(int(d.DonorID))
		addStrings(row, d.DonorName, string(d.BloodType))
		row.AddCell().SetInt(d.Units)
		addStrings(row, d.Notes)
	}

	inventory, err := addSheet(file, SheetInventory, inventoryHeaders)
	if err != nil {
		return nil, err
	}
	for _, item := range src.ListInventory() {
		row := inventory.AddRow()
		addStrings(row, string(item.BloodType))
		row.AddCell().SetInt(item.Units)
		addStrings(row, item.Status().Label(), string(item.LastUpdated))
	}

	summary, err := addSheet(file, SheetSummary, summaryHeaders)
	if err != nil {
		return nil, err
	}
	sum := src.Summary()
	for _, metric := range []struct {
		name  string
		value int
	}{
		{"Total Donors", sum.TotalDonors},
		{"Total Donations", sum.TotalDonations},
		{"Available Units", sum.TotalUnits},
		{"Critical Types", sum.CriticalTypes},
	} {
		row := summary.AddRow()
		addStrings(row, metric.name)
		row.AddCell().SetInt(metric.value)
	}
	return file, nil
}

// Write builds the workbook and writes it to w.
func Write(w io.Writer, src Source) error {
	file, err := Build(src)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Bytes returns the encoded workbook.
func Bytes(src Source) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, src); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addSheet(file *xlsx.File, name string, headers []string) (*xlsx.Sheet, error) {
	sheet, err := file.AddSheet(name)
	if err != nil {
		return nil, fmt.Errorf("add sheet %s: %w", name, err)
	}
	header := sheet.AddRow()
	for _, h := range headers {
		cell := header.AddCell()
		cell.Value = h
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}
	sheet.SetColWidth(1, len(headers), 15)
	return sheet, nil
}

func addStrings(row *xlsx.Row, values ...string) {
	for _, v := range values {
		row.AddCell().Value = v
	}
}
