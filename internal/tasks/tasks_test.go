package tasks

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// fixed clock: 2026-10-19 10:00 local
func fixedNow() time.Time { return time.Date(2026, 10, 19, 10, 0, 0, 0, time.Local) }

type memSaver struct {
	saved [][]Task
	err   error
}

func (m *memSaver) Save(list []Task) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, list)
	return nil
}

func (m *memSaver) last() []Task {
	if len(m.saved) == 0 {
		return nil
	}
	return m.saved[len(m.saved)-1]
}

// tickingClock advances one second per call so CreatedAt values differ.
func tickingClock() func() time.Time {
	t := fixedNow()
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestStore() (*Store, *memSaver) {
	sv := &memSaver{}
	return NewStore(sv, WithClock(tickingClock())), sv
}

func TestCreateThenQueryAll(t *testing.T) {
	s, sv := newTestStore()
	tomorrow := s.Today().AddDays(1)
	created := s.Create("  Buy milk ", tomorrow)

	got := Apply(s.All(), Query{Filter: FilterAll, Sort: SortDefault}, s.Today())
	if len(got) != 1 {
		t.Fatalf("expected 1 task, got %d", len(got))
	}
	if got[0].Text != "Buy milk" || got[0].DueDate != tomorrow || got[0].Completed {
		t.Fatalf("unexpected task: %+v", got[0])
	}
	if got[0].ID != created.ID || created.ID == 0 {
		t.Fatalf("id mismatch: %d vs %d", got[0].ID, created.ID)
	}
	if len(sv.last()) != 1 {
		t.Fatalf("expected persisted collection of 1, got %d", len(sv.last()))
	}
}

func TestCreateInsertsAtFront(t *testing.T) {
	s, _ := newTestStore()
	d := s.Today()
	a := s.Create("first", d)
	b := s.Create("second", d)
	all := s.All()
	if all[0].ID != b.ID || all[1].ID != a.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}
}

func TestIDsUniqueUnderFrozenClock(t *testing.T) {
	frozen := func() time.Time { return fixedNow() }
	s := NewStore(nil, WithClock(frozen))
	seen := map[int64]bool{}
	for i := 0; i < 50; i++ {
		tk := s.Create("task", s.Today())
		if seen[tk.ID] {
			t.Fatalf("duplicate id %d", tk.ID)
		}
		seen[tk.ID] = true
	}
}

func TestLoadSeedsIDGenerator(t *testing.T) {
	s := NewStore(nil, WithClock(fixedNow))
	future := fixedNow().Add(time.Hour).UnixMilli()
	s.Load([]Task{{ID: future, Text: "from disk", DueDate: s.Today()}})
	tk := s.Create("fresh", s.Today())
	if tk.ID <= future {
		t.Fatalf("expected id above %d, got %d", future, tk.ID)
	}
}

func TestToggleIsItsOwnInverse(t *testing.T) {
	s, _ := newTestStore()
	tk := s.Create("Walk dog", s.Today())
	var kinds []EventKind
	s.Subscribe(func(ev Event) { kinds = append(kinds, ev.Kind) })

	if !s.Toggle(tk.ID) || !s.Toggle(tk.ID) {
		t.Fatal("toggle reported missing task")
	}
	got, _ := s.Get(tk.ID)
	if got.Completed != tk.Completed {
		t.Fatalf("double toggle changed completion: %v", got.Completed)
	}
	if len(kinds) != 2 || kinds[0] != EventCompleted || kinds[1] != EventReopened {
		t.Fatalf("unexpected events: %v", kinds)
	}
}

func TestMissingIDsAreNoOps(t *testing.T) {
	s, sv := newTestStore()
	s.Create("keep me", s.Today())
	saves := len(sv.saved)
	events := 0
	s.Subscribe(func(Event) { events++ })
	if s.Update(42, "zzz", s.Today()) || s.Toggle(42) || s.Delete(42) {
		t.Fatal("expected false for unknown id")
	}
	if len(sv.saved) != saves || events != 0 {
		t.Fatalf("no-ops must not persist or emit (saves %d->%d, events %d)", saves, len(sv.saved), events)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	s, sv := newTestStore()
	tk := s.Create("Buy milk", s.Today())
	if !s.Update(tk.ID, "Buy oat milk", s.Today().AddDays(2)) {
		t.Fatal("update failed")
	}
	got, _ := s.Get(tk.ID)
	if got.Text != "Buy oat milk" || got.DueDate != s.Today().AddDays(2) || !got.CreatedAt.Equal(tk.CreatedAt) {
		t.Fatalf("unexpected update result: %+v", got)
	}
	if !s.Delete(tk.ID) || s.Len() != 0 || len(sv.last()) != 0 {
		t.Fatal("delete did not remove and persist")
	}
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	s, sv := newTestStore()
	sv.err = errors.New("quota exceeded")
	var got Event
	s.Subscribe(func(ev Event) { got = ev })
	tk := s.Create("Buy milk", s.Today())
	if s.Len() != 1 {
		t.Fatal("in-memory state rolled back")
	}
	if got.Kind != EventCreated || got.Err == nil || got.Task.ID != tk.ID {
		t.Fatalf("expected created event carrying the save error, got %+v", got)
	}
}

func TestSubmitEditStateMachine(t *testing.T) {
	s, _ := newTestStore()
	tk := s.Create("Buy milk", s.Today())
	if _, ok := s.BeginEdit(tk.ID); !ok {
		t.Fatal("begin edit failed")
	}
	if id, ok := s.Editing(); !ok || id != tk.ID {
		t.Fatalf("expected editing(%d), got %d %v", tk.ID, id, ok)
	}
	res, created := s.Submit("Buy bread", s.Today())
	if created || res.ID != tk.ID || res.Text != "Buy bread" || s.Len() != 1 {
		t.Fatalf("submit while editing should update: %+v created=%v len=%d", res, created, s.Len())
	}
	if _, ok := s.Editing(); ok {
		t.Fatal("submit should return to idle")
	}
	if _, created := s.Submit("Another", s.Today()); !created || s.Len() != 2 {
		t.Fatal("submit while idle should create")
	}

	s.BeginEdit(tk.ID)
	s.CancelEdit()
	if _, ok := s.Editing(); ok {
		t.Fatal("cancel edit should return to idle")
	}

	s.BeginEdit(tk.ID)
	s.Delete(tk.ID)
	if _, ok := s.Editing(); ok {
		t.Fatal("deleting the edited task should end the edit")
	}
}

func TestClearAndImport(t *testing.T) {
	s, sv := newTestStore()
	s.Create("one two", s.Today())
	s.Clear()
	if s.Len() != 0 || len(sv.last()) != 0 {
		t.Fatal("clear did not empty and persist")
	}
	in := []Task{
		{ID: 10, Text: "valid task", DueDate: s.Today(), CreatedAt: fixedNow()},
		{ID: 11, Text: "no", DueDate: s.Today(), CreatedAt: fixedNow()},
		{ID: 10, Text: "duplicate", DueDate: s.Today(), CreatedAt: fixedNow()},
	}
	if n := s.Import(in); n != 1 || s.Len() != 1 {
		t.Fatalf("expected 1 imported, got %d (len %d)", n, s.Len())
	}
	if n := s.Import([]Task{{ID: 42, Text: "from archive", CreatedAt: fixedNow()}}); n != 0 || s.Len() != 1 {
		t.Fatalf("records without a due date must be skipped, got %d (len %d)", n, s.Len())
	}
}

func TestSubmitForVanishedEditIsNoOp(t *testing.T) {
	s, sv := newTestStore()
	s.Create("Buy milk", s.Today())
	saves := len(sv.saved)
	s.editing = 999
	res, created := s.Submit("Buy bread", s.Today())
	if created || res.ID != 0 || s.Len() != 1 || len(sv.saved) != saves {
		t.Fatalf("submit for a missing task should change nothing: %+v created=%v len=%d", res, created, s.Len())
	}
	if _, ok := s.Editing(); ok {
		t.Fatal("submit should return to idle")
	}
}

func TestScenarioStats(t *testing.T) {
	s, _ := newTestStore()
	tomorrow := s.Today().AddDays(1)
	a := s.Create("Buy milk", tomorrow)
	if st := s.Stats(); st != (Stats{Total: 1, Completed: 0, Pending: 1, Percent: 0}) {
		t.Fatalf("scenario A: %+v", st)
	}
	s.Create("Walk dog", tomorrow)
	s.Toggle(a.ID)
	if st := s.Stats(); st != (Stats{Total: 2, Completed: 1, Pending: 1, Percent: 50}) {
		t.Fatalf("scenario B: %+v", st)
	}
	if st := StatsOf(nil); st.Percent != 0 || st.Ratio() != 0 {
		t.Fatalf("empty stats: %+v", st)
	}
	three := []Task{{Completed: true}, {}, {}}
	if st := StatsOf(three); st.Percent != 33 {
		t.Fatalf("expected 33%%, got %d", st.Percent)
	}
}

func TestScenarioSearch(t *testing.T) {
	s, _ := newTestStore()
	s.Create("Buy milk", s.Today())
	s.Create("Walk dog", s.Today())
	s.SetSearch("  MILK ")
	got := s.Visible()
	if len(got) != 1 || got[0].Text != "Buy milk" {
		t.Fatalf("scenario C: %+v", got)
	}
}

func TestScenarioToday(t *testing.T) {
	s, _ := newTestStore()
	s.Create("due now", s.Today())
	s.Create("due later", s.Today().AddDays(3))
	s.SetFilter(FilterToday)
	got := s.Visible()
	if len(got) != 1 || got[0].Text != "due now" {
		t.Fatalf("scenario E: %+v", got)
	}
}

func TestStatusFilters(t *testing.T) {
	s, _ := newTestStore()
	a := s.Create("done one", s.Today())
	s.Create("open one", s.Today())
	s.Toggle(a.ID)
	if got := FilterBy(s.All(), FilterCompleted, s.Today()); len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("completed filter: %+v", got)
	}
	if got := FilterBy(s.All(), FilterPending, s.Today()); len(got) != 1 || got[0].ID == a.ID {
		t.Fatalf("pending filter: %+v", got)
	}
}

func fixture() []Task {
	base := fixedNow()
	return []Task{
		{ID: 1, Text: "banana", DueDate: MustParseDate("2026-10-22"), CreatedAt: base.Add(1 * time.Minute)},
		{ID: 2, Text: "Apple", DueDate: MustParseDate("2026-10-20"), CreatedAt: base.Add(3 * time.Minute)},
		{ID: 3, Text: "cherry", DueDate: MustParseDate("2026-10-21"), CreatedAt: base.Add(2 * time.Minute)},
		{ID: 4, Text: "apple", DueDate: MustParseDate("2026-10-19"), CreatedAt: base},
	}
}

func ids(list []Task) []int64 {
	out := make([]int64, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortModes(t *testing.T) {
	want := map[SortMode][]int64{
		SortDefault:  {2, 3, 1, 4},
		SortDateAsc:  {4, 2, 3, 1},
		SortDateDesc: {1, 3, 2, 4},
		SortNameAsc:  {4, 2, 1, 3}, // "apple" < "Apple" < banana < cherry
	}
	for mode, w := range want {
		if got := ids(SortBy(fixture(), mode)); !sameIDs(got, w) {
			t.Fatalf("%s: got %v want %v", mode, got, w)
		}
	}
}

func TestSortIsIdempotent(t *testing.T) {
	for _, mode := range SortModes {
		once := SortBy(fixture(), mode)
		twice := SortBy(once, mode)
		if !sameIDs(ids(once), ids(twice)) {
			t.Fatalf("%s not idempotent: %v vs %v", mode, ids(once), ids(twice))
		}
	}
}

func TestApplyIsPure(t *testing.T) {
	in := fixture()
	before := ids(in)
	q := Query{Search: "a", Filter: FilterPending, Sort: SortNameAsc}
	today := Today(fixedNow())
	first := Apply(in, q, today)
	second := Apply(in, q, today)
	if !sameIDs(ids(first), ids(second)) {
		t.Fatalf("not deterministic: %v vs %v", ids(first), ids(second))
	}
	if !sameIDs(ids(in), before) {
		t.Fatalf("input mutated: %v", ids(in))
	}
}

func TestParseAndLabels(t *testing.T) {
	if f, err := ParseFilter("Today"); err != nil || f != FilterToday || f.Label() != "Due Today" {
		t.Fatalf("filter parse: %v %v", f, err)
	}
	if _, err := ParseFilter("tags"); err == nil {
		t.Fatal("expected error for unknown filter")
	}
	if m, err := ParseSort("date-asc"); err != nil || m.Label() != "Date (Old → New)" {
		t.Fatalf("sort parse: %v %v", m, err)
	}
	if SortNameAsc.Next() != SortDefault {
		t.Fatal("sort cycle should wrap")
	}
}

func TestValidateBoundaries(t *testing.T) {
	today := Today(fixedNow())
	cases := []struct {
		text string
		want error
	}{
		{"", ErrTextRequired},
		{"   ", ErrTextRequired},
		{"ab", ErrTextTooShort},
		{"abc", nil},
		{strings.Repeat("x", 100), nil},
		{strings.Repeat("x", 101), ErrTextTooLong},
		{"  " + strings.Repeat("é", 100) + "  ", nil},
	}
	for _, c := range cases {
		if err := ValidateText(c.text); !errors.Is(err, c.want) && err != c.want {
			t.Fatalf("ValidateText(%d chars) = %v, want %v", len(c.text), err, c.want)
		}
	}
	if _, err := ValidateDue("", today); !errors.Is(err, ErrDateRequired) {
		t.Fatalf("empty date: %v", err)
	}
	if _, err := ValidateDue("19/10/2026", today); !errors.Is(err, ErrDateInvalid) {
		t.Fatalf("bad date: %v", err)
	}
	if _, err := ValidateDue("2026-10-18", today); !errors.Is(err, ErrDateInPast) {
		t.Fatalf("past date: %v", err)
	}
	if d, err := ValidateDue("2026-10-19", today); err != nil || d != today {
		t.Fatalf("today should be accepted: %v %v", d, err)
	}
}

func TestValidateReportsBothFields(t *testing.T) {
	_, _, fe := Validate("a", "", Today(fixedNow()))
	if fe.OK() || !errors.Is(fe.Text, ErrTextTooShort) || !errors.Is(fe.Date, ErrDateRequired) {
		t.Fatalf("expected both errors, got %+v", fe)
	}
	if !errors.Is(fe.Err(), ErrDateRequired) {
		t.Fatal("FormErrors should match field sentinels")
	}
	text, due, fe := Validate(" Buy milk ", "2026-10-20", Today(fixedNow()))
	if !fe.OK() || fe.Err() != nil || text != "Buy milk" || due.String() != "2026-10-20" {
		t.Fatalf("valid form rejected: %q %v %+v", text, due, fe)
	}
}

func TestDateJSONAndCompare(t *testing.T) {
	d := MustParseDate("2026-10-19")
	b, err := d.MarshalJSON()
	if err != nil || string(b) != `"2026-10-19"` {
		t.Fatalf("marshal: %s %v", b, err)
	}
	var back Date
	if err := back.UnmarshalJSON([]byte(`"2026-10-19T00:00:00.000Z"`)); err != nil || back != d {
		t.Fatalf("unmarshal timestamp form: %v %v", back, err)
	}
	if err := back.UnmarshalJSON([]byte(`"2026-10-19 08:00:00"`)); err != nil || back != d {
		t.Fatalf("unmarshal space-separated timestamp: %v %v", back, err)
	}
	if err := back.UnmarshalJSON([]byte(`"2026-10-199"`)); err == nil {
		t.Fatal("trailing digits must not be cut off")
	}
	if !d.Before(d.AddDays(1)) || d.Compare(d) != 0 || !d.AddDays(1).After(d) {
		t.Fatal("compare broken")
	}
	if d.AddDays(13).String() != "2026-11-01" {
		t.Fatalf("AddDays across month: %s", d.AddDays(13))
	}
	if d.Pretty() != "Oct 19, 2026" {
		t.Fatalf("pretty: %s", d.Pretty())
	}
}

func TestCleanOneLine(t *testing.T) {
	out, changed, truncated := CleanOneLine("evil\x1b[31m red\nline\t end", 0)
	if out != "evil[31m red line end" || !changed || truncated {
		t.Fatalf("got %q changed=%v truncated=%v", out, changed, truncated)
	}
	if got := DisplayText("abcdef", 3); got != "abc…" {
		t.Fatalf("truncate: %q", got)
	}
	if got := EscapeHTML(`<b>"x"</b>`); got != "&lt;b&gt;&quot;x&quot;&lt;/b&gt;" {
		t.Fatalf("escape html: %q", got)
	}
	if got := EscapeMarkdown("*bold* [x]"); got != `\*bold\* \[x\]` {
		t.Fatalf("escape markdown: %q", got)
	}
}
