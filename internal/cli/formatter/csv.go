package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/attend/internal/domain"
	"github.com/alexanderramin/attend/internal/service"
	"github.com/alexanderramin/attend/internal/timeutil"
	"github.com/shopspring/decimal"
)

const (
	csvSeparator = ';'
	utf8BOM      = "\ufeff"
)

// CSVHeader is the column layout of the spreadsheet export.
var CSVHeader = []string{
	"fecha", "nombre", "rol", "horario_inicio", "horario_fin",
	"break_inicio", "break_fin", "canal_id", "canal_nombre",
	"hh:mm:ss", "intervalo_inicio", "intervalo_fin", "desde", "hasta",
	"horas",
}

var secondsPerHour = decimal.NewFromInt(3600)

// BilledHours converts d to decimal hours rounded to two places.
func BilledHours(d time.Duration) string {
	secs := decimal.NewFromInt(int64(d / time.Second))
	return secs.Div(secondsPerHour).StringFixed(2)
}

// CSVFileName is the default export name for rep.
func CSVFileName(rep *service.Report, cal timeutil.Calendar) string {
	date := cal.FormatDate(rep.From)
	return "reporte_" + strings.NewReplacer("/", "-", ".", "-").Replace(date) + ".csv"
}

// WriteCSV writes rep as a ';'-separated spreadsheet with a UTF-8 BOM.
// Each user contributes one row per day with that day's total, followed by
// one row per billable interval.
func WriteCSV(w io.Writer, rep *service.Report, cal timeutil.Calendar, dir Directory) error {
	dir = directoryOrDefault(dir)

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	// Fields with a leading space or a \r are quoted too, beyond ';', '"' and '\n'.
	cw := csv.NewWriter(w)
	cw.Comma = csvSeparator
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	desde, hasta := cal.FormatDateTime(rep.From), cal.FormatDateTime(rep.To)
	if rep.Rollup != nil {
		for _, agg := range rep.Rollup.Users() {
			for _, row := range userRows(rep, cal, dir, agg, desde, hasta) {
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("writing csv: %w", err)
				}
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

func userRows(rep *service.Report, cal timeutil.Calendar, dir Directory, agg *domain.UserAggregate, desde, hasta string) [][]string {
	name := dir.UserName(rep.Group, agg.UserID)
	role := dir.UserRole(rep.Group, agg.UserID)

	var schedStart, schedEnd, breakStart, breakEnd string
	if s := rep.ScheduleOf(agg.UserID); s != nil {
		schedStart, schedEnd = timeutil.MinutesToHHMM(s.WorkStartMin), timeutil.MinutesToHHMM(s.WorkEndMin)
	}
	if br := rep.BreakOf(agg.UserID); br != nil {
		breakStart, breakEnd = timeutil.MinutesToHHMM(br.BreakStartMin), timeutil.MinutesToHHMM(br.BreakEndMin)
	}

	rows := make([][]string, 0, agg.PerDay.Len()+len(agg.Intervals))
	for _, day := range agg.Days() {
		total := agg.PerDay.Get(day)
		rows = append(rows, []string{
			cal.FormatDate(day.Time()), name, role, schedStart, schedEnd, breakStart, breakEnd,
			"", "", timeutil.FormatHMS(total), "", "",
			desde, hasta, BilledHours(total),
		})
	}
	for _, seg := range agg.Intervals {
		rows = append(rows, []string{
			cal.FormatDate(seg.Day.Time()), name, role, schedStart, schedEnd, breakStart, breakEnd,
			seg.ChannelID, channelLabel(dir, rep.Group, seg.ChannelID, false), timeutil.FormatHMS(seg.Billable),
			cal.FormatDateTime(seg.Start), cal.FormatDateTime(seg.End),
			desde, hasta, BilledHours(seg.Billable),
		})
	}
	return rows
}
