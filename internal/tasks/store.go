package tasks

import (
	"time"

	"github.com/charmbracelet/log"

	"cute-todo/internal/logging"
)

// Saver persists the whole collection. storage.Adapter implements it.
type Saver interface {
	Save(list []Task) error
}

// EventKind says which mutation produced an Event.
type EventKind int

const (
	EventCreated EventKind = iota
	EventUpdated
	EventCompleted
	EventReopened
	EventDeleted
	EventCleared
	EventImported
	EventLoaded
)

func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventUpdated:
		return "updated"
	case EventCompleted:
		return "completed"
	case EventReopened:
		return "reopened"
	case EventDeleted:
		return "deleted"
	case EventCleared:
		return "cleared"
	case EventImported:
		return "imported"
	case EventLoaded:
		return "loaded"
	}
	return "unknown"
}

// Event is emitted after every mutation. Err is set when the mutation was
// applied in memory but the write to storage failed.
type Event struct {
	Kind  EventKind
	Task  Task // the affected task, zero for Cleared/Imported/Loaded
	Count int  // number of tasks touched by Imported/Cleared
	Err   error
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *log.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// Store owns the task collection and the current view selections. It is not
// safe for concurrent use: the TUI calls it from its single Update loop.
type Store struct {
	saver Saver
	now   func() time.Time
	log   *log.Logger
	ids   idGen

	tasks   []Task // most recently created first
	query   Query
	editing int64 // 0 when no edit is in progress

	subs    map[int]func(Event)
	nextSub int
}

func NewStore(saver Saver, opts ...StoreOption) *Store {
	s := &Store{
		saver: saver,
		now:   time.Now,
		query: Query{Filter: FilterAll, Sort: SortDefault},
		subs:  map[int]func(Event){},
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	return s
}

// Subscribe registers fn for every Event. The returned func removes it.
func (s *Store) Subscribe(fn func(Event)) func() {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func (s *Store) emit(ev Event) {
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subs[i]; ok {
			fn(ev)
		}
	}
}

func (s *Store) persist() error {
	if s.saver == nil {
		return nil
	}
	if err := s.saver.Save(s.All()); err != nil {
		s.log.Warn("save failed", "err", err, "tasks", len(s.tasks))
		return err
	}
	return nil
}

// Load replaces the collection with list, e.g. what storage returned at
// startup. It does not write back.
func (s *Store) Load(list []Task) {
	s.tasks = make([]Task, len(list))
	copy(s.tasks, list)
	for _, t := range s.tasks {
		s.ids.observe(t.ID)
	}
	s.editing = 0
	s.log.Debug("loaded", "tasks", len(list))
	s.emit(Event{Kind: EventLoaded, Count: len(list)})
}

// Create inserts a new pending task at the front. Callers validate first.
func (s *Store) Create(text string, due Date) Task {
	now := s.now()
	t := Task{
		ID:        s.ids.next(now),
		Text:      normalizeText(text),
		DueDate:   due,
		Completed: false,
		CreatedAt: now,
	}
	s.tasks = append([]Task{t}, s.tasks...)
	err := s.persist()
	s.log.Debug("created", "id", t.ID)
	s.emit(Event{Kind: EventCreated, Task: t, Err: err})
	return t
}

// Update replaces text and due date of id. Missing ids are ignored.
func (s *Store) Update(id int64, text string, due Date) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Text = normalizeText(text)
	s.tasks[i].DueDate = due
	err := s.persist()
	s.emit(Event{Kind: EventUpdated, Task: s.tasks[i], Err: err})
	return true
}

// Toggle flips completion of id. Missing ids are ignored.
func (s *Store) Toggle(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	err := s.persist()
	kind := EventReopened
	if s.tasks[i].Completed {
		kind = EventCompleted
	}
	s.emit(Event{Kind: kind, Task: s.tasks[i], Err: err})
	return true
}

// Delete removes id. Missing ids are ignored. Deleting the task under edit
// ends the edit.
func (s *Store) Delete(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	t := s.tasks[i]
	s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
	if s.editing == id {
		s.editing = 0
	}
	err := s.persist()
	s.emit(Event{Kind: EventDeleted, Task: t, Err: err})
	return true
}

// Clear removes every task.
func (s *Store) Clear() {
	n := len(s.tasks)
	s.tasks = nil
	s.editing = 0
	err := s.persist()
	s.emit(Event{Kind: EventCleared, Count: n, Err: err})
}

// Import merges list into the collection, skipping ids already present,
// records without a due date and records whose text would not pass
// validation. It returns how many were added.
func (s *Store) Import(list []Task) int {
	added := 0
	for _, t := range list {
		if t.ID == 0 || s.index(t.ID) >= 0 || t.DueDate.IsZero() || ValidateText(t.Text) != nil {
			s.log.Debug("import skipped", "id", t.ID)
			continue
		}
		t.Text = normalizeText(t.Text)
		s.tasks = append(s.tasks, t)
		s.ids.observe(t.ID)
		added++
	}
	var err error
	if added > 0 {
		// keep "newest first" so the stored order matches insertion order
		s.tasks = SortBy(s.tasks, SortDefault)
		err = s.persist()
	}
	s.emit(Event{Kind: EventImported, Count: added, Err: err})
	return added
}

func (s *Store) index(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) Get(id int64) (Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// All returns a copy of the collection in stored order.
func (s *Store) All() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) Len() int { return len(s.tasks) }

func (s *Store) Stats() Stats { return StatsOf(s.tasks) }

// Today is the store clock's local calendar date.
func (s *Store) Today() Date { return Today(s.now()) }

func (s *Store) Query() Query { return s.query }

func (s *Store) SetSearch(term string) { s.query.Search = term }
func (s *Store) SetFilter(f Filter)    { s.query.Filter = f }
func (s *Store) SetSort(m SortMode)    { s.query.Sort = m }

// Visible derives the list to display from the collection and selections.
func (s *Store) Visible() []Task { return Apply(s.tasks, s.query, s.Today()) }

// BeginEdit puts the store into editing(id) and returns the task to fill the form with.
func (s *Store) BeginEdit(id int64) (Task, bool) {
	t, ok := s.Get(id)
	if !ok {
		return Task{}, false
	}
	s.editing = id
	return t, true
}

func (s *Store) CancelEdit() { s.editing = 0 }

// Editing returns the id under edit, if any.
func (s *Store) Editing() (int64, bool) { return s.editing, s.editing != 0 }

// Submit runs a validated form: it updates the task under edit, or creates a
// new one when idle, and always leaves the store idle. Submitting an edit
// whose task is gone changes nothing.
func (s *Store) Submit(text string, due Date) (Task, bool) {
	if id, ok := s.Editing(); ok {
		s.editing = 0
		if !s.Update(id, text, due) {
			s.log.Debug("edited task is gone", "id", id)
			return Task{}, false
		}
		t, _ := s.Get(id)
		return t, false
	}
	return s.Create(text, due), true
}
