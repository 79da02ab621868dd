package present

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dietiestates/estates-web/internal/service"
)

// StatsFilename is the download name of the dashboard export.
const StatsFilename = "property_report.csv"

var statsHeader = []string{"Metric", "Value"}

// StatRow is one line of the dashboard export.
type StatRow struct {
	Metric string `json:"metric"`
	Value  int    `json:"value"`
}

// DashboardRows flattens a dashboard snapshot in display order.
func DashboardRows(s service.DashboardSnapshot) []StatRow {
	return []StatRow{
		{"Total Property Views", s.Stats.Views},
		{"Booked Visits", s.Stats.Visits},
		{"Offers Received", s.Stats.Offers},
		{"Active Listings", s.Stats.ActiveListings},
		{"Pending Offers", s.Offers.Pending},
		{"Accepted Offers", s.Offers.Accepted},
		{"Rejected Offers", s.Offers.Rejected},
		{"Pending Visits", s.Bookings.Pending},
		{"Accepted Visits", s.Bookings.Accepted},
		{"Rejected Visits", s.Bookings.Rejected},
	}
}

// WriteStatsCSV writes rows with a header line.
func WriteStatsCSV(w io.Writer, rows []StatRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(statsHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Metric, strconv.Itoa(r.Value)}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
