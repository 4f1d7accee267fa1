package attendance

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hronline/attendance-store/pkg/prefs"
)

// Store is one employee's attendance list, layered over a pinned preferences
// scope. All methods are safe for concurrent use: Append holds a mutex
// around its read-modify-write so two punches cannot overwrite each other's
// addition on the single backing key.
type Store struct {
	bag    prefs.Bag
	Cal    Calendar
	Policy Policy

	mu  sync.Mutex
	now func() time.Time
}

// NewStore wraps a preferences bag with the default calendar and policy.
func NewStore(bag prefs.Bag) *Store {
	return &Store{
		bag:    bag,
		Cal:    DefaultCalendar(),
		Policy: DefaultPolicy(),
		now:    time.Now,
	}
}

// SetClock overrides the time source behind Today and CanCheckOut.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// load reads the stored value, distinguishing an empty store from a failed
// read. The not-found sentinels mean no data has been written yet; any other
// error (a transport failure on the remote bag, say) is reported so a writer
// never mistakes it for an empty list.
func (s *Store) load() (string, error) {
	val, err := s.bag.Get(ListKey)
	switch {
	case err == nil:
		return val, nil
	case errors.Is(err, prefs.ErrKeyNotFound),
		errors.Is(err, prefs.ErrNamespaceNotFound),
		errors.Is(err, prefs.ErrOwnerNotFound):
		return "", nil
	}
	return "", err
}

// raw is the read-only view: queries degrade to an empty list on any read
// error, matching the decode side's drop-don't-fail policy.
func (s *Store) raw() string {
	val, _ := s.load()
	return val
}

// Append adds one record to the end of the stored list, trimming to the
// last 100 entries by append order, and writes the whole value back in a
// single Put. The location is sanitized so it cannot carry a wire delimiter.
// A failed read aborts the append: rewriting the single backing key without
// the existing records would discard them.
func (s *Store) Append(r Record) error {
	r.Location = sanitizeLocation(r.Location)

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.load()
	if err != nil {
		return fmt.Errorf("read attendance list: %w", err)
	}
	records := decodeList(raw)
	records = append(records, r)
	if len(records) > maxRecords {
		records = records[len(records)-maxRecords:]
	}
	return s.bag.Put(ListKey, encodeList(records))
}

// History returns all decodable records, newest first.
func (s *Store) History() []Record {
	records := decodeList(s.raw())
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
	return records
}

// Today returns the records whose date equals today's formatted date.
// Equality is on the date string, not timestamp arithmetic.
func (s *Store) Today() []Record {
	today := s.Cal.FormatDate(s.now())
	var out []Record
	for _, r := range s.History() {
		if r.Date == today {
			out = append(out, r)
		}
	}
	return out
}

// LastCheckIn returns the most recent check-in, if any.
func (s *Store) LastCheckIn() (Record, bool) {
	for _, r := range s.History() {
		if r.Type == TypeCheckIn {
			return r, true
		}
	}
	return Record{}, false
}

// CanCheckOut reports whether today has a check-in but no check-out yet.
func (s *Store) CanCheckOut() bool {
	today := s.Cal.FormatDate(s.now())
	var checkedIn, checkedOut bool
	for _, r := range s.History() {
		if r.Date != today {
			continue
		}
		switch r.Type {
		case TypeCheckIn:
			checkedIn = true
		case TypeCheckOut:
			checkedOut = true
		}
	}
	return checkedIn && !checkedOut
}

// ByMonth returns the records whose date falls in the given calendar month
// (1..12) and year, newest first. Records with unparseable dates are dropped.
func (s *Store) ByMonth(month, year int) []Record {
	var out []Record
	for _, r := range s.History() {
		t, ok := s.Cal.ParseDate(r.Date)
		if !ok {
			continue
		}
		if int(t.Month()) == month && t.Year() == year {
			out = append(out, r)
		}
	}
	return out
}

// GroupByDate buckets records into per-day check-in/check-out pairs. When a
// day holds duplicate punches of one type, the newest wins: with newest-first
// input the first record seen claims the slot and older duplicates are
// ignored.
func GroupByDate(records []Record) map[string]DayPair {
	grouped := make(map[string]DayPair)
	for i := range records {
		r := records[i]
		pair := grouped[r.Date]
		switch r.Type {
		case TypeCheckIn:
			if pair.CheckIn == nil {
				pair.CheckIn = &r
			}
		case TypeCheckOut:
			if pair.CheckOut == nil {
				pair.CheckOut = &r
			}
		}
		grouped[r.Date] = pair
	}
	return grouped
}

// SortedDates returns the grouped map's keys ordered newest first, for
// display. Dates that fail to parse sort last.
func SortedDates(cal Calendar, grouped map[string]DayPair) []string {
	dates := make([]string, 0, len(grouped))
	for d := range grouped {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		ti, oki := cal.ParseDate(dates[i])
		tj, okj := cal.ParseDate(dates[j])
		if oki != okj {
			return oki
		}
		if !oki {
			return dates[i] < dates[j]
		}
		return ti.After(tj)
	})
	return dates
}
