package dialog

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/calendar"
	"github.com/example/meetbot/internal/control"
	"github.com/example/meetbot/internal/pager"
)

const displayDate = "02.01.2006"

func (e *Engine) option(label string, a control.Action) Option {
	return Option{Label: label, Token: e.codec.Encode(a)}
}

// rows lays options out perRow per line.
func rows(options []Option, perRow int) [][]Option {
	var out [][]Option
	for len(options) > 0 {
		n := min(perRow, len(options))
		out = append(out, options[:n:n])
		options = options[n:]
	}
	return out
}

func htmlReply(text string, controls [][]Option) Reply {
	return Reply{Text: text, Controls: controls, Format: FormatHTML}
}

func plainReply(text string) Reply {
	return Reply{Text: text}
}

func menuReply(text string, actor application.User) Reply {
	return Reply{Text: text, Menu: mainMenu(actor), Format: FormatHTML}
}

func mainMenu(actor application.User) [][]string {
	menu := [][]string{{LabelAddMeeting}, {LabelBrowse}}
	if actor.IsAdmin() {
		menu = append(menu, []string{LabelManageUsers}, []string{LabelStatistics})
	}
	return menu
}

func (e *Engine) complexControls(complexes []application.Complex) [][]Option {
	options := make([]Option, 0, len(complexes))
	for _, c := range complexes {
		options = append(options, e.option(c.Name, control.PickComplex{ID: c.ID}))
	}
	return rows(options, 2)
}

func (e *Engine) organizationControls(orgs []application.Organization) [][]Option {
	options := make([]Option, 0, len(orgs))
	for _, o := range orgs {
		options = append(options, e.option(o.Name, control.PickOrganization{ID: o.ID}))
	}
	return append(rows(options, 2), []Option{e.option(btnBackToComplexes, control.BackToComplexes{})})
}

// calendarControls renders a month as a keyboard: header, weekday labels,
// day rows, navigation and cancel.
func (e *Engine) calendarControls(ym calendar.YearMonth) [][]Option {
	grid := calendar.Month(ym.Year, ym.Month)
	noop := control.Noop{}

	out := [][]Option{{e.option(grid.Header, noop)}}

	labels := make([]Option, 0, len(calendar.WeekdayLabels))
	for _, l := range calendar.WeekdayLabels {
		labels = append(labels, e.option(l, noop))
	}
	out = append(out, labels)

	for _, week := range grid.Weeks {
		row := make([]Option, 0, len(week))
		for _, cell := range week {
			if cell.Blank() {
				row = append(row, e.option(" ", noop))
				continue
			}
			row = append(row, e.option(strconv.Itoa(cell.Date.Day()), control.PickDay{Date: cell.Date}))
		}
		out = append(out, row)
	}

	out = append(out,
		[]Option{
			e.option(btnPrevMonth, control.ShowMonth{Year: grid.Prev.Year, Month: grid.Prev.Month}),
			e.option(btnToday, control.PickToday{}),
			e.option(btnNextMonth, control.ShowMonth{Year: grid.Next.Year, Month: grid.Next.Month}),
		},
		[]Option{e.option(btnCancel, control.CancelCalendar{})},
	)
	return out
}

func (e *Engine) statusControls() [][]Option {
	options := make([]Option, 0, len(application.Statuses))
	for _, s := range application.Statuses {
		options = append(options, e.option(s.Icon()+" "+s.Label(), control.PickStatus{Code: string(s)}))
	}
	return rows(options, 2)
}

func (e *Engine) confirmControls() [][]Option {
	return [][]Option{{
		e.option(btnConfirmYes, control.Confirm{Accept: true}),
		e.option(btnConfirmNo, control.Confirm{Accept: false}),
	}}
}

func (e *Engine) yearControls(years []int) [][]Option {
	options := make([]Option, 0, len(years))
	for _, y := range years {
		options = append(options, e.option(strconv.Itoa(y), control.PickYear{Year: y}))
	}
	return rows(options, 3)
}

func (e *Engine) monthControls(year int, months []time.Month) [][]Option {
	options := make([]Option, 0, len(months))
	for _, m := range months {
		options = append(options, e.option(calendar.MonthNames[m-1], control.PickMonth{Year: year, Month: m}))
	}
	return append(rows(options, 3), []Option{e.option(btnBackToYears, control.BackToYears{})})
}

func (e *Engine) pageControls(page pager.Page[application.Meeting]) [][]Option {
	var out [][]Option
	for _, m := range page.Items {
		out = append(out, []Option{e.option(listLabel(m), control.OpenMeeting{ID: m.ID})})
	}

	var nav []Option
	if page.HasPrev {
		nav = append(nav, e.option(btnPrevPage, control.ShowPage{Index: page.Index - 1}))
	}
	if page.HasNext {
		nav = append(nav, e.option(btnNextPage, control.ShowPage{Index: page.Index + 1}))
	}
	if len(nav) > 0 {
		out = append(out, nav)
	}
	return append(out, []Option{e.option(btnBackToMonths, control.BackToMonths{})})
}

func (e *Engine) detailsControls(meetingID int64, actor application.User) [][]Option {
	var out [][]Option
	if actor.IsAdmin() {
		out = append(out, []Option{
			e.option(btnEdit, control.StartEdit{MeetingID: meetingID}),
			e.option(btnDelete, control.StartDelete{MeetingID: meetingID}),
		})
	}
	return append(out, []Option{e.option(btnBackToList, control.BackToList{})})
}

func (e *Engine) editControls(meetingID int64) [][]Option {
	field := func(label string, f control.Field) Option {
		return e.option(label, control.EditField{MeetingID: meetingID, Field: f})
	}
	return [][]Option{
		{field(btnEditDate, control.FieldDate), field(btnEditOrg, control.FieldOrganization)},
		{field(btnEditStatus, control.FieldStatus), field(btnEditDuration, control.FieldDuration)},
		{field(btnEditSummary, control.FieldSummary)},
		{e.option(btnCancelEdit, control.CancelEdit{MeetingID: meetingID})},
	}
}

func (e *Engine) deleteControls(meetingID int64) [][]Option {
	return [][]Option{{
		e.option(btnDeleteYes, control.ConfirmDelete{MeetingID: meetingID}),
		e.option(btnDeleteNo, control.CancelDelete{MeetingID: meetingID}),
	}}
}

func (e *Engine) adminControls() [][]Option {
	return [][]Option{
		{e.option(btnListUsers, control.AdminMenu{Item: control.AdminList}), e.option(btnAddUser, control.AdminMenu{Item: control.AdminAdd})},
		{e.option(btnDeleteUser, control.AdminMenu{Item: control.AdminDelete})},
		{e.option(btnToMainMenu, control.AdminMenu{Item: control.AdminBack})},
	}
}

// truncate cuts s to at most limit runes, appending "..." when cut.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "..."
}

// listLabel is "dd.mm.yyyy - organization", shortened to listLabelLimit runes.
func listLabel(m application.Meeting) string {
	label := m.Date.Format(displayDate) + " - " + m.OrganizationName
	if r := []rune(label); len(r) > listLabelLimit {
		return string(r[:listLabelLimit-3]) + "..."
	}
	return label
}

var esc = html.EscapeString

func durationLine(minutes *int) string {
	if minutes == nil {
		return ""
	}
	return fmt.Sprintf("⏱️ <b>Длительность:</b> %d мин\n", *minutes)
}

func draftSummary(d Draft) string {
	var b strings.Builder
	b.WriteString("📋 <b>Сводка встречи:</b>\n\n")
	fmt.Fprintf(&b, "🏛️ <b>Комплекс:</b> %s\n", esc(d.ComplexName))
	fmt.Fprintf(&b, "🏢 <b>Организация:</b> %s\n", esc(d.OrganizationName))
	fmt.Fprintf(&b, "📅 <b>Дата:</b> %s\n", d.Date.Format(displayDate))
	fmt.Fprintf(&b, "📊 <b>Статус:</b> %s %s\n", d.Status.Icon(), d.Status.Label())
	b.WriteString(durationLine(d.DurationMinutes))
	fmt.Fprintf(&b, "📝 <b>Содержание:</b> %s", esc(truncate(d.Summary, summaryPreviewSize)))
	b.WriteString("\n\n✅ <b>Всё верно?</b>")
	return b.String()
}

func meetingDetails(m application.Meeting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>Встреча #%d</b>\n\n", m.Status.Icon(), m.ID)
	fmt.Fprintf(&b, "🏛️ <b>Комплекс:</b> %s\n", esc(m.ComplexName))
	fmt.Fprintf(&b, "🏢 <b>Организация:</b> %s\n", esc(m.OrganizationName))
	fmt.Fprintf(&b, "📅 <b>Дата:</b> %s\n", m.Date.Format(displayDate))
	fmt.Fprintf(&b, "📊 <b>Статус:</b> %s\n", m.Status.Label())
	b.WriteString(durationLine(m.DurationMinutes))
	fmt.Fprintf(&b, "👤 <b>Добавил:</b> %s\n", esc(m.CreatorName))
	fmt.Fprintf(&b, "📝 <b>Содержание:</b>\n%s", esc(m.Summary))
	return b.String()
}

func listHeader(b *Browse) string {
	return fmt.Sprintf("📅 <b>%s</b>\n📋 <b>Найдено встреч:</b> %d\n\n%s",
		calendar.Title(b.Year, b.Month), len(b.Meetings), textPickMeeting)
}

func userList(users []application.User) string {
	var b strings.Builder
	b.WriteString("👥 <b>Список пользователей:</b>\n\n")
	for _, u := range users {
		icon := "👤"
		if u.IsAdmin() {
			icon = "👑"
		}
		fmt.Fprintf(&b, "%s <b>%s</b>\n", icon, esc(u.DisplayName))
		fmt.Fprintf(&b, "   ID: <code>%d</code>\n", u.Identity)
		fmt.Fprintf(&b, "   Роль: %s\n", u.Role.Label())
		fmt.Fprintf(&b, "   Зарегистрирован: %s\n\n", u.RegisteredAt.Format(displayDate))
	}
	return strings.TrimRight(b.String(), "\n")
}

func greeting(actor application.User, name string) string {
	if name == "" {
		name = actor.DisplayName
	}
	var b strings.Builder
	fmt.Fprintf(&b, "👋 Привет, %s!\n\n", esc(name))
	if actor.IsAdmin() {
		b.WriteString("Вы вошли как <b>администратор</b>.\nДоступные функции:\n")
		b.WriteString("• Добавление встреч\n• Просмотр всех встреч\n• Редактирование и удаление встреч\n")
		b.WriteString("• Управление пользователями\n• Просмотр статистики")
	} else {
		b.WriteString("Вы вошли как <b>пользователь</b>.\nДоступные функции:\n")
		b.WriteString("• Добавление встреч\n• Просмотр всех встреч (только чтение)")
	}
	return b.String()
}

func statisticsText(report application.Report, latest *application.Meeting) string {
	var b strings.Builder
	b.WriteString("📊 <b>Статистика встреч</b>\n\n")
	for _, c := range report.Complexes {
		fmt.Fprintf(&b, "🏛️ <b>%s</b>\n", esc(c.Name))
		fmt.Fprintf(&b, "   Всего встреч: %d\n", c.Total)
		b.WriteString("   По статусам:\n")
		for _, s := range application.Statuses {
			if n := c.ByStatus[s]; n > 0 {
				fmt.Fprintf(&b, "     %s %s: %d\n", s.Icon(), s.Label(), n)
			}
		}
		if len(c.Top) > 0 {
			b.WriteString("   Топ организаций:\n")
			for _, o := range c.Top {
				fmt.Fprintf(&b, "     %s: %d\n", esc(o.Name), o.Count)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("📈 <b>Общая статистика:</b>\n")
	fmt.Fprintf(&b, "   Всего встреч в системе: %d\n", report.Total)
	fmt.Fprintf(&b, "   Всего комплексов: %d", len(report.Complexes))
	if latest != nil {
		fmt.Fprintf(&b, "\n   Последняя встреча: %s (%s)", latest.Date.Format(displayDate), esc(latest.OrganizationName))
	}
	return b.String()
}
