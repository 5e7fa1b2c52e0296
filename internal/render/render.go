// Package render produces the text views shared by the CLI and the web
// console. Section ordering is a contract; exact column widths are not.
package render

import (
	"fmt"
	"strings"

	"housetab/internal/core"
	"housetab/internal/services"
)

const (
	heavyRule = "=================================================="
	lightRule = "-----------------------------------"
)

// Report renders the full month summary.
func Report(s core.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "MONTH SUMMARY: %s\n", s.MonthKey)
	b.WriteString(heavyRule + "\n\n")

	b.WriteString("FIXED MONTHLY COSTS:\n")
	fmt.Fprintf(&b, "   Rent:                $%s\n", core.FormatAmount(s.Rent))
	fmt.Fprintf(&b, "   Heating:             $%s\n", core.FormatAmount(s.Heating))
	fmt.Fprintf(&b, "   Electric:            $%s\n", core.FormatAmount(s.Electric))
	fmt.Fprintf(&b, "   Water:               $%s\n", core.FormatAmount(s.Water))
	fmt.Fprintf(&b, "   Internet:            $%s\n", core.FormatAmount(s.Internet))
	b.WriteString(lightRule + "\n")
	fmt.Fprintf(&b, "   Total Utilities:     $%s\n", core.FormatAmount(s.TotalUtilities))
	fmt.Fprintf(&b, "   Your Utilities Share: $%s\n\n", core.FormatAmount(s.UtilitiesShare))

	fmt.Fprintf(&b, "TOTAL HOUSING:       $%s\n\n", core.FormatAmount(s.TotalHousing))

	if len(s.AdditionalCosts) > 0 {
		b.WriteString("ADDITIONAL COSTS:\n")
		for i, c := range s.AdditionalCosts {
			fmt.Fprintf(&b, "   %d. $%s - %s\n", i+1, core.FormatAmount(c.Amount), c.Description)
		}
		fmt.Fprintf(&b, "   TOTAL: $%s\n\n", core.FormatAmount(s.TotalAdditionalCosts))
	} else {
		b.WriteString("ADDITIONAL COSTS: None\n\n")
	}

	b.WriteString(heavyRule + "\n")
	fmt.Fprintf(&b, "TOTAL MONTH DUE:     $%s\n", core.FormatAmount(s.TotalMonthDue))
	b.WriteString(heavyRule + "\n\n")

	if len(s.Payments) > 0 {
		b.WriteString("PAYMENTS:\n")
		for i, p := range s.Payments {
			fmt.Fprintf(&b, "   %d. $%s\n", i+1, core.FormatAmount(p))
		}
		fmt.Fprintf(&b, "   TOTAL PAID: $%s\n\n", core.FormatAmount(s.TotalPaid))
	} else {
		b.WriteString("PAYMENTS: None\n\n")
	}

	fmt.Fprintf(&b, "AMOUNT OWED:         $%s\n", core.FormatAmount(s.AmountOwed))

	return b.String()
}

// MonthList renders one line per month. The caller supplies the order;
// listings arrive newest first.
func MonthList(totals []services.MonthTotal) string {
	if len(totals) == 0 {
		return "No months have been added yet\n"
	}

	var b strings.Builder
	b.WriteString("Listing all months...\n")
	for _, t := range totals {
		fmt.Fprintf(&b, "  %s: $%s\n", t.MonthKey, core.FormatAmount(t.TotalDue))
	}
	return b.String()
}
