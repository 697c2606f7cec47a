package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"cute-todo/internal/config"
	"cute-todo/internal/hooks"
	"cute-todo/internal/logging"
	"cute-todo/internal/report"
	"cute-todo/internal/tasks"
)

type focus int

const (
	focusText focus = iota
	focusDate
	focusSearch
	focusList
)

var focusOrder = []focus{focusText, focusDate, focusSearch, focusList}

type noticeKind int

const (
	noticeSuccess noticeKind = iota
	noticeWarning
	noticeInfo
)

type notice struct {
	kind noticeKind
	text string
	seq  int
}

type actionKind int

const (
	actionDeleteOne actionKind = iota + 1
	actionDeleteAll
)

// pendingAction is what the confirmation modal runs on "y".
type pendingAction struct {
	kind  actionKind
	id    int64
	title string
	body  string
}

type (
	noticeExpiredMsg  struct{ seq int }
	searchDebounceMsg struct{ seq int }
	deleteDueMsg      struct{ id int64 }
	reportDoneMsg     struct {
		path string
		err  error
	}
)

// inbox collects store events between Update calls. It is shared by pointer
// because the model itself is passed around by value.
type inbox struct{ events []tasks.Event }

// Options wires the model to the rest of the program.
type Options struct {
	Config config.Config
	Store  *tasks.Store
	Hooks  *hooks.HookEnv
	Logger *log.Logger
	// Backup snapshots the storage file before delete-all. Nil skips it.
	Backup func() (string, error)
	// LoadErr is the error storage returned at startup, shown as a warning.
	LoadErr error
}

type model struct {
	cfg    config.Config
	store  *tasks.Store
	hooks  *hooks.HookEnv
	log    *log.Logger
	backup func() (string, error)
	inbox  *inbox

	text   textinput.Model
	date   textinput.Model
	search textinput.Model
	list   list.Model
	bar    progress.Model
	help   help.Model
	vp     viewport.Model

	focus   focus
	formErr tasks.FormErrors
	editID  int64 // task the form was filled from, 0 when creating

	notice    notice
	noticeSeq int
	searchSeq int

	modal      *pendingAction
	filterMenu bool
	filterIdx  int
	detail     *tasks.Task
	fading     map[int64]bool

	width, height int
}

func New(opts Options) model {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	text := textinput.New()
	text.Placeholder = "What needs to be done?"
	text.CharLimit = tasks.MaxTextLen * 2
	date := textinput.New()
	date.Placeholder = "YYYY-MM-DD"
	date.CharLimit = 10
	search := textinput.New()
	search.Placeholder = "search tasks..."
	search.Prompt = "🔍 "
	search.CharLimit = 200

	lm := list.New([]list.Item{}, taskDelegate{}, 0, 0)
	lm.SetShowTitle(false)
	lm.SetShowStatusBar(false)
	lm.SetShowHelp(false)
	lm.SetFilteringEnabled(false)
	lm.KeyMap.Quit.SetEnabled(false)
	lm.KeyMap.ForceQuit.SetEnabled(false)

	m := model{
		cfg:    opts.Config,
		store:  opts.Store,
		hooks:  opts.Hooks,
		log:    logger.WithPrefix("tui"),
		backup: opts.Backup,
		inbox:  &inbox{},
		text:   text,
		date:   date,
		search: search,
		list:   lm,
		bar:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(30), progress.WithoutPercentage()),
		help:   help.New(),
		fading: map[int64]bool{},
	}
	ib := m.inbox
	m.store.Subscribe(func(ev tasks.Event) { ib.events = append(ib.events, ev) })
	m.focus = focusText
	m.text.Focus()
	m.refresh()
	if opts.LoadErr != nil {
		m.log.Warn("starting with empty list", "err", opts.LoadErr)
		m.setNotice(noticeWarning, "⚠️ Saved tasks could not be read; starting fresh")
	}
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.expireNotice())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, max(3, msg.Height-chromeHeight))
		m.bar.Width = min(40, max(10, msg.Width-30))
		m.help.Width = msg.Width
		if m.detail != nil {
			m.renderDetail()
		}
		return m, nil
	case noticeExpiredMsg:
		if msg.seq == m.notice.seq {
			m.notice = notice{}
		}
		return m, nil
	case searchDebounceMsg:
		if msg.seq != m.searchSeq {
			return m, nil
		}
		m.applySearch()
		return m, nil
	case deleteDueMsg:
		delete(m.fading, msg.id)
		m.store.Delete(msg.id)
		cmd := m.drainEvents()
		return m, cmd
	case reportDoneMsg:
		if msg.err != nil {
			m.log.Error("report failed", "path", msg.path, "err", msg.err)
			cmd := m.setNotice(noticeWarning, "⚠️ Report failed: "+msg.err.Error())
			return m, cmd
		}
		cmd := m.setNotice(noticeSuccess, "📄 Report saved to "+msg.path)
		return m, cmd
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	if m.detail != nil {
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	cmd = m.updateFocused(msg)
	return m, cmd
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.modal == nil || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	x, y, w, h := m.modalRect()
	inside := msg.X >= x && msg.X < x+w && msg.Y >= y && msg.Y < y+h
	if !inside {
		m.modal = nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.forceQuit) {
		return m, tea.Quit
	}
	switch {
	case m.detail != nil:
		return m.handleDetailKey(msg)
	case m.modal != nil:
		return m.handleModalKey(msg)
	case m.filterMenu:
		return m.handleMenuKey(msg)
	case m.help.ShowAll && (key.Matches(msg, keys.help) || key.Matches(msg, keys.esc)):
		m.help.ShowAll = false
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.search):
		cmd := m.setFocus(focusSearch)
		return m, cmd
	case key.Matches(msg, keys.newTask):
		cmd := m.setFocus(focusText)
		return m, cmd
	case key.Matches(msg, keys.next):
		cmd := m.cycleFocus(1)
		return m, cmd
	case key.Matches(msg, keys.prev):
		cmd := m.cycleFocus(-1)
		return m, cmd
	case key.Matches(msg, keys.esc):
		if _, editing := m.store.Editing(); editing {
			cmd := m.cancelEdit()
			return m, cmd
		}
		cmd := m.setFocus(focusList)
		return m, cmd
	}

	switch m.focus {
	case focusText, focusDate:
		if key.Matches(msg, keys.submit) {
			cmd := m.submit()
			return m, cmd
		}
		cmd := m.updateFocused(msg)
		return m, cmd
	case focusSearch:
		if key.Matches(msg, keys.submit) {
			m.searchSeq++
			m.applySearch()
			cmd := m.setFocus(focusList)
			return m, cmd
		}
		cmd := m.updateFocused(msg)
		return m, cmd
	}
	return m.handleListKey(msg)
}

func (m model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.help):
		m.help.ShowAll = true
		return m, nil
	case key.Matches(msg, keys.delAll):
		if m.store.Len() == 0 {
			cmd := m.setNotice(noticeWarning, "⚠️ No tasks to delete")
			return m, cmd
		}
		m.modal = &pendingAction{
			kind:  actionDeleteAll,
			title: "🗑️ Delete All Tasks",
			body:  "Are you sure you want to delete all tasks? This action cannot be undone.",
		}
		return m, nil
	case key.Matches(msg, keys.filter):
		m.filterMenu = true
		m.filterIdx = indexOf(tasks.Filters, m.store.Query().Filter)
		return m, nil
	case key.Matches(msg, keys.sort):
		cmd := m.setSort(m.store.Query().Sort.Next())
		return m, cmd
	case key.Matches(msg, keys.sortPick):
		n := int(msg.Runes[0] - '1')
		cmd := m.setSort(tasks.SortModes[n])
		return m, cmd
	case key.Matches(msg, keys.report):
		cmd := m.exportReport()
		return m, cmd
	}

	t, ok := m.selected()
	if !ok {
		cmd := m.updateFocused(msg)
		return m, cmd
	}
	switch {
	case key.Matches(msg, keys.toggle):
		if m.fading[t.ID] {
			return m, nil
		}
		m.store.Toggle(t.ID)
		cmd := m.drainEvents()
		return m, cmd
	case key.Matches(msg, keys.edit):
		if m.fading[t.ID] {
			return m, nil
		}
		cmd := m.beginEdit(t.ID)
		return m, cmd
	case key.Matches(msg, keys.del):
		if m.fading[t.ID] {
			return m, nil
		}
		m.modal = &pendingAction{
			kind:  actionDeleteOne,
			id:    t.ID,
			title: "🗑️ Delete Task",
			body:  fmt.Sprintf("Are you sure you want to delete %q?", tasks.DisplayText(t.Text, 60)),
		}
		return m, nil
	case key.Matches(msg, keys.open):
		m.detail = &t
		m.renderDetail()
		return m, nil
	case key.Matches(msg, keys.copy):
		if err := clipboard.WriteAll(t.Text); err != nil {
			m.log.Warn("clipboard", "err", err)
			cmd := m.setNotice(noticeWarning, "⚠️ Copy failed: "+err.Error())
			return m, cmd
		}
		cmd := m.setNotice(noticeInfo, "📋 Copied to clipboard")
		return m, cmd
	}
	cmd := m.updateFocused(msg)
	return m, cmd
}

func (m model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.confirm):
		action := *m.modal
		m.modal = nil
		cmd := m.runAction(action)
		return m, cmd
	case key.Matches(msg, keys.dismiss):
		m.modal = nil
	}
	return m, nil
}

func (m model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc), key.Matches(msg, keys.filter):
		m.filterMenu = false
	case key.Matches(msg, keys.menuUp):
		m.filterIdx = (m.filterIdx + len(tasks.Filters) - 1) % len(tasks.Filters)
	case key.Matches(msg, keys.menuDown):
		m.filterIdx = (m.filterIdx + 1) % len(tasks.Filters)
	case key.Matches(msg, keys.submit):
		m.filterMenu = false
		f := tasks.Filters[m.filterIdx]
		m.store.SetFilter(f)
		m.refresh()
		cmd := m.setNotice(noticeInfo, "🎯 Filter: "+f.Label())
		return m, cmd
	}
	return m, nil
}

func (m model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "h", "enter":
		m.detail = nil
		return m, nil
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

// runAction executes a confirmed modal action.
func (m *model) runAction(a pendingAction) tea.Cmd {
	switch a.kind {
	case actionDeleteOne:
		delay := m.cfg.DeleteDelay()
		if delay <= 0 {
			m.store.Delete(a.id)
			return m.drainEvents()
		}
		m.fading[a.id] = true
		m.refresh()
		id := a.id
		return tea.Tick(delay, func(time.Time) tea.Msg { return deleteDueMsg{id: id} })
	case actionDeleteAll:
		if m.backup != nil {
			if path, err := m.backup(); err != nil {
				m.log.Warn("backup before clear failed", "err", err)
			} else {
				m.log.Info("backup written", "path", path)
			}
		}
		m.fading = map[int64]bool{}
		m.store.Clear()
		m.resetForm()
		return m.drainEvents()
	}
	return nil
}

func (m *model) submit() tea.Cmd {
	text, due, fe := tasks.Validate(m.text.Value(), m.date.Value(), m.store.Today())
	m.formErr = fe
	if !fe.OK() {
		return nil
	}
	m.store.Submit(text, due)
	m.resetForm()
	return tea.Batch(m.drainEvents(), m.setFocus(focusText))
}

func (m *model) beginEdit(id int64) tea.Cmd {
	t, ok := m.store.BeginEdit(id)
	if !ok {
		return nil
	}
	m.editID = t.ID
	m.text.SetValue(t.Text)
	m.date.SetValue(t.DueDate.String())
	m.formErr = tasks.FormErrors{}
	return m.setFocus(focusText)
}

func (m *model) cancelEdit() tea.Cmd {
	m.store.CancelEdit()
	m.resetForm()
	return tea.Batch(m.setNotice(noticeInfo, "✖️ Edit cancelled"), m.setFocus(focusList))
}

func (m *model) resetForm() {
	m.editID = 0
	m.text.SetValue("")
	m.date.SetValue("")
	m.formErr = tasks.FormErrors{}
}

func (m *model) setSort(mode tasks.SortMode) tea.Cmd {
	m.store.SetSort(mode)
	m.refresh()
	return m.setNotice(noticeInfo, "📊 Sorted by: "+mode.Label())
}

func (m *model) applySearch() {
	m.store.SetSearch(m.search.Value())
	m.refresh()
}

func (m *model) exportReport() tea.Cmd {
	path := filepath.Join(m.cfg.ExportRoot(), "cute-todo-"+time.Now().Format("20060102-150405")+".md")
	list, today := m.store.Visible(), m.store.Today()
	return func() tea.Msg {
		return reportDoneMsg{path: path, err: report.WriteFile(path, list, today, nil)}
	}
}

// updateFocused forwards msg to whichever widget has focus. Typing in the
// search field schedules a debounced query.
func (m *model) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.focus {
	case focusText:
		m.text, cmd = m.text.Update(msg)
	case focusDate:
		m.date, cmd = m.date.Update(msg)
	case focusSearch:
		before := m.search.Value()
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			return tea.Batch(cmd, m.debounceSearch())
		}
	case focusList:
		m.list, cmd = m.list.Update(msg)
	}
	return cmd
}

func (m *model) debounceSearch() tea.Cmd {
	m.searchSeq++
	d := m.cfg.SearchDebounce()
	if d <= 0 {
		m.applySearch()
		return nil
	}
	seq := m.searchSeq
	return tea.Tick(d, func(time.Time) tea.Msg { return searchDebounceMsg{seq: seq} })
}

func (m *model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.text.Blur()
	m.date.Blur()
	m.search.Blur()
	switch f {
	case focusText:
		return m.text.Focus()
	case focusDate:
		return m.date.Focus()
	case focusSearch:
		return m.search.Focus()
	}
	return nil
}

func (m *model) cycleFocus(step int) tea.Cmd {
	i := indexOf(focusOrder, m.focus)
	n := len(focusOrder)
	return m.setFocus(focusOrder[((i+step)%n+n)%n])
}

// setNotice replaces the current notice and returns the tick that expires it.
func (m *model) setNotice(kind noticeKind, text string) tea.Cmd {
	m.noticeSeq++
	m.notice = notice{kind: kind, text: text, seq: m.noticeSeq}
	return m.expireNotice()
}

func (m model) expireNotice() tea.Cmd {
	if m.notice.text == "" {
		return nil
	}
	seq := m.notice.seq
	return tea.Tick(m.cfg.NoticeTTL(), func(time.Time) tea.Msg { return noticeExpiredMsg{seq: seq} })
}

// drainEvents turns pending store events into notices and re-renders.
func (m *model) drainEvents() tea.Cmd {
	events := m.inbox.events
	m.inbox.events = nil
	var cmd tea.Cmd
	for _, ev := range events {
		if ev.Err != nil {
			m.log.Error("save failed", "event", ev.Kind, "err", ev.Err)
			cmd = m.setNotice(noticeWarning, "⚠️ Error saving tasks")
			continue
		}
		switch ev.Kind {
		case tasks.EventCreated:
			cmd = m.setNotice(noticeSuccess, "✨ Task added successfully!")
		case tasks.EventUpdated:
			cmd = m.setNotice(noticeSuccess, "✏️ Task updated successfully!")
		case tasks.EventDeleted:
			if m.editID != 0 && ev.Task.ID == m.editID {
				m.resetForm()
			}
			cmd = m.setNotice(noticeSuccess, "🗑️ Task deleted successfully!")
		case tasks.EventCompleted:
			cmd = m.setNotice(noticeSuccess, tasks.CelebrationText(m.hooks, ev.Task, m.store.Today()))
		case tasks.EventCleared:
			cmd = m.setNotice(noticeSuccess, "🗑️ All tasks deleted!")
		case tasks.EventImported:
			cmd = m.setNotice(noticeInfo, fmt.Sprintf("📥 Imported %d tasks", ev.Count))
		}
	}
	m.refresh()
	return cmd
}

// refresh re-derives the visible list, keeping the cursor on the same task
// when it is still visible.
func (m *model) refresh() {
	var keepID int64
	if t, ok := m.selected(); ok {
		keepID = t.ID
	}
	today := m.store.Today()
	visible := m.store.Visible()
	items := make([]list.Item, 0, len(visible))
	idx := 0
	for i, t := range visible {
		if t.ID == keepID {
			idx = i
		}
		items = append(items, item{
			t:      t,
			today:  today,
			badge:  tasks.RowDecoration(m.hooks, t, today),
			fading: m.fading[t.ID],
		})
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(idx)
	}
}

func (m model) selected() (tasks.Task, bool) {
	it, ok := m.list.SelectedItem().(item)
	if !ok {
		return tasks.Task{}, false
	}
	return it.t, true
}

func (m *model) renderDetail() {
	if m.detail == nil {
		return
	}
	m.vp = viewport.New(m.width, max(3, m.height-2))
	m.vp.SetContent(renderMarkdown(detailMarkdown(*m.detail, m.store.Today()), m.width))
}

func indexOf[T comparable](xs []T, v T) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return 0
}

// chromeHeight is the number of lines around the list: header, form, search,
// notice and help.
const chromeHeight = 12

func (m model) View() string {
	if m.detail != nil {
		return "(esc) back\n\n" + m.vp.View()
	}
	if m.modal != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.modalView(),
			lipgloss.WithWhitespaceChars("░"), lipgloss.WithWhitespaceForeground(faded))
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(m.formView())
	b.WriteString("\n")
	b.WriteString(m.search.View())
	q := m.store.Query()
	b.WriteString(statStyle.Render(fmt.Sprintf("   Filter: %s · Sort: %s", q.Filter.Label(), q.Sort.Label())))
	b.WriteString("\n\n")

	switch {
	case m.filterMenu:
		b.WriteString(m.menuView())
	case len(m.list.Items()) == 0:
		b.WriteString(emptyState())
	default:
		b.WriteString(m.list.View())
	}
	b.WriteString("\n")
	if m.notice.text != "" {
		b.WriteString(noticeStyles[m.notice.kind].Render(m.notice.text))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m model) headerView() string {
	st := m.store.Stats()
	stats := statStyle.Render(fmt.Sprintf("Total %d · Completed %d · Pending %d", st.Total, st.Completed, st.Pending))
	return titleStyle.Render("🌸 Cute Todo") + "  " + stats + "\n" +
		m.bar.ViewAs(st.Ratio()) + fmt.Sprintf(" %d%%", st.Percent)
}

func (m model) formView() string {
	var b strings.Builder
	if _, editing := m.store.Editing(); editing {
		b.WriteString(bannerStyle.Render("✏️ Editing · esc to cancel"))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render("Task") + m.text.View())
	if msg := formMessage(m.formErr.Text); msg != "" {
		b.WriteString("\n      " + errStyle.Render(msg))
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Due") + m.date.View())
	if msg := formMessage(m.formErr.Date); msg != "" {
		b.WriteString("\n      " + errStyle.Render(msg))
	}
	b.WriteString("\n")
	return b.String()
}

// formMessage maps validation sentinels to the inline text shown under a field.
func formMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tasks.ErrTextRequired):
		return "⚠️ Please enter a task"
	case errors.Is(err, tasks.ErrTextTooShort):
		return fmt.Sprintf("⚠️ Task must be at least %d characters", tasks.MinTextLen)
	case errors.Is(err, tasks.ErrTextTooLong):
		return fmt.Sprintf("⚠️ Task must be at most %d characters", tasks.MaxTextLen)
	case errors.Is(err, tasks.ErrDateRequired):
		return "⚠️ Please select a date"
	case errors.Is(err, tasks.ErrDateInvalid):
		return "⚠️ Use the YYYY-MM-DD format"
	case errors.Is(err, tasks.ErrDateInPast):
		return "⚠️ Date cannot be in the past"
	}
	return "⚠️ " + err.Error()
}

func (m model) menuView() string {
	var b strings.Builder
	b.WriteString("Filter tasks\n")
	for i, f := range tasks.Filters {
		line := "  " + f.Label()
		if i == m.filterIdx {
			line = selectedStyle.Render("▸ " + f.Label())
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(statStyle.Render("enter select · esc close"))
	return menuStyle.Render(b.String())
}

func (m model) modalView() string {
	if m.modal == nil {
		return ""
	}
	body := titleStyle.Render(m.modal.title) + "\n\n" + m.modal.body + "\n\n" +
		statStyle.Render("y/enter confirm · n/esc cancel")
	return modalStyle.Render(body)
}

// modalRect is where lipgloss.Place puts the modal box in View; clicks
// outside it hit the backdrop.
func (m model) modalRect() (x, y, w, h int) {
	box := m.modalView()
	w, h = lipgloss.Width(box), lipgloss.Height(box)
	x = max(0, (m.width-w)/2)
	y = max(0, (m.height-h)/2)
	return x, y, w, h
}
