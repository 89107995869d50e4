package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/attend/internal/domain"
	"github.com/alexanderramin/attend/internal/service"
	"github.com/alexanderramin/attend/internal/timeutil"
)

const (
	noSchedule = "No configurado"
	noBreak    = "—"
)

// ReportPeriod renders the header period: the bare date for a single
// calendar day, otherwise "from → to".
func ReportPeriod(rep *service.Report, cal timeutil.Calendar) string {
	if rep.SingleDay {
		return cal.FormatDate(rep.From)
	}
	return cal.FormatDateTime(rep.From) + " → " + cal.FormatDateTime(rep.To)
}

// FormatReport renders a billing report as styled text.
func FormatReport(rep *service.Report, cal timeutil.Calendar, dir Directory) string {
	dir = directoryOrDefault(dir)

	var b strings.Builder
	b.WriteString(Header("Reporte de presencia") + "\n")
	b.WriteString("Periodo: " + ReportPeriod(rep, cal) + "\n\n")

	if rep.Rollup == nil || rep.Rollup.Len() == 0 {
		b.WriteString(Dim("Sin datos en el periodo seleccionado.") + "\n")
		return b.String()
	}

	for _, agg := range rep.Rollup.Users() {
		writeUser(&b, rep, cal, dir, agg)
		b.WriteString("\n")
	}
	return b.String()
}

func writeUser(b *strings.Builder, rep *service.Report, cal timeutil.Calendar, dir Directory, agg *domain.UserAggregate) {
	fmt.Fprintf(b, "%s (rol: %s) Total: %s\n",
		Bold(dir.UserName(rep.Group, agg.UserID)),
		dir.UserRole(rep.Group, agg.UserID),
		StyleGreen.Render(timeutil.FormatHMS(agg.Total)))

	fmt.Fprintf(b, "Horario: %s | Break: %s\n",
		StyleBlue.Render(scheduleText(rep.ScheduleOf(agg.UserID))),
		StyleBlue.Render(breakText(rep.BreakOf(agg.UserID))))

	for _, ch := range agg.PerChannel.Keys() {
		fmt.Fprintf(b, "• %s: %s\n", channelLabel(dir, rep.Group, ch, true), timeutil.FormatHMS(agg.PerChannel.Get(ch)))
	}

	days := agg.Days()
	if len(days) == 0 {
		return
	}
	b.WriteString("\n" + StyleYellow.Render("Por día:") + "\n")
	for _, day := range days {
		fmt.Fprintf(b, "• %s: %s\n", cal.FormatDate(day.Time()), timeutil.FormatHMS(agg.PerDay.Get(day)))
		for _, seg := range agg.IntervalsOn(day) {
			fmt.Fprintf(b, "  · %s–%s (%s)\n",
				cal.FormatTime(seg.Start), cal.FormatTime(seg.End),
				Dim(channelLabel(dir, rep.Group, seg.ChannelID, false)))
		}
	}
}

func scheduleText(s *domain.Schedule) string {
	if s == nil {
		return noSchedule
	}
	return Window(s.WorkStartMin, s.WorkEndMin)
}

func breakText(br *domain.Break) string {
	if br == nil {
		return noBreak
	}
	return Window(br.BreakStartMin, br.BreakEndMin)
}
