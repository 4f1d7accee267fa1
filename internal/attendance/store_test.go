package attendance

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hronline/attendance-store/pkg/prefs"
)

// testBag is an in-memory prefs.Bag.
type testBag struct {
	data map[string]string
}

func newTestBag() *testBag {
	return &testBag{data: make(map[string]string)}
}

func (b *testBag) Get(key string) (string, error) {
	val, ok := b.data[key]
	if !ok {
		return "", prefs.ErrKeyNotFound
	}
	return val, nil
}

func (b *testBag) Put(key, value string) error {
	b.data[key] = value
	return nil
}

func newTestStore() (*Store, *testBag) {
	bag := newTestBag()
	st := NewStore(bag)
	return st, bag
}

func punchAt(id string, typ Type, date, clock string, ts int64) Record {
	return Record{
		ID: id, Type: typ, Date: date, Time: clock + " WIB",
		Location: "Kantor", Timestamp: ts, FaceVerified: true,
	}
}

func TestAppendAndHistoryRoundTrip(t *testing.T) {
	st, bag := newTestStore()
	r := sampleRecord()
	if err := st.Append(r); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if bag.data[ListKey] != EncodeRecord(r) {
		t.Errorf("Stored value mismatch: %q", bag.data[ListKey])
	}

	history := st.History()
	if len(history) != 1 || history[0] != r {
		t.Errorf("Expected [%v], got %v", r, history)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	st, _ := newTestStore()
	r1 := punchAt("r1", TypeCheckIn, "1 Mei 2025", "08:00", 100)
	r2 := punchAt("r2", TypeCheckIn, "2 Mei 2025", "08:00", 300)
	r3 := punchAt("r3", TypeCheckIn, "3 Mei 2025", "08:00", 200)
	for _, r := range []Record{r1, r2, r3} {
		if err := st.Append(r); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	history := st.History()
	if len(history) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(history))
	}
	if history[0].ID != "r2" || history[1].ID != "r3" || history[2].ID != "r1" {
		t.Errorf("Expected [r2 r3 r1], got %v", history)
	}
}

func TestHistoryEmptyStore(t *testing.T) {
	st, _ := newTestStore()
	if got := st.History(); len(got) != 0 {
		t.Errorf("Empty store should yield empty history, got %v", got)
	}
}

func TestAppendTrimsToLastHundred(t *testing.T) {
	st, _ := newTestStore()
	for i := 1; i <= 101; i++ {
		r := punchAt(fmt.Sprintf("r%d", i), TypeCheckIn, "1 Mei 2025", "08:00", int64(i))
		if err := st.Append(r); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	history := st.History()
	if len(history) != 100 {
		t.Fatalf("Expected 100 records after trim, got %d", len(history))
	}
	min := history[0].Timestamp
	for _, r := range history {
		if r.Timestamp < min {
			min = r.Timestamp
		}
	}
	if min != 2 {
		t.Errorf("Expected oldest timestamp 2 after trim, got %d", min)
	}
}

func TestAppendRetainsLastAppendedByOrder(t *testing.T) {
	st, _ := newTestStore()
	for i := 1; i <= 150; i++ {
		r := punchAt(fmt.Sprintf("r%d", i), TypeCheckIn, "1 Mei 2025", "08:00", int64(i))
		if err := st.Append(r); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	history := st.History()
	if len(history) != 100 {
		t.Fatalf("Expected 100 records, got %d", len(history))
	}
	// The survivors are appends 51..150, newest first.
	if history[0].ID != "r150" || history[99].ID != "r51" {
		t.Errorf("Expected r150..r51, got %s..%s", history[0].ID, history[99].ID)
	}
}

// failingBag fails the next Get with a fixed error, then recovers.
type failingBag struct {
	*testBag
	getErr error
}

func (b *failingBag) Get(key string) (string, error) {
	if b.getErr != nil {
		err := b.getErr
		b.getErr = nil
		return "", err
	}
	return b.testBag.Get(key)
}

func TestAppendAbortsOnReadFailure(t *testing.T) {
	bag := &failingBag{testBag: newTestBag()}
	st := NewStore(bag)

	for i := 1; i <= 10; i++ {
		r := punchAt(fmt.Sprintf("r%d", i), TypeCheckIn, "1 Mei 2025", "08:00", int64(i))
		if err := st.Append(r); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	// A read failure must abort the append, not truncate the stored list.
	bag.getErr = errors.New("connection reset by peer")
	r11 := punchAt("r11", TypeCheckIn, "1 Mei 2025", "08:00", 11)
	if err := st.Append(r11); err == nil {
		t.Fatal("Expected Append to fail while the read fails")
	}
	if got := len(st.History()); got != 10 {
		t.Fatalf("Expected 10 records after aborted append, got %d", got)
	}

	// Once the read recovers, the append goes through on top of the old list.
	if err := st.Append(r11); err != nil {
		t.Fatalf("Append after recovery failed: %v", err)
	}
	if got := len(st.History()); got != 11 {
		t.Errorf("Expected 11 records after recovery, got %d", got)
	}
}

func TestAppendSanitizesLocation(t *testing.T) {
	st, _ := newTestStore()
	r := sampleRecord()
	r.Location = "Jl. A|B;;C"
	if err := st.Append(r); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	history := st.History()
	if history[0].Location != "Jl. A/B, C" {
		t.Errorf("Location not sanitized: %q", history[0].Location)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTodayMatchesDateString(t *testing.T) {
	st, _ := newTestStore()
	now := time.Date(2025, 5, 3, 9, 0, 0, 0, time.Local)
	st.SetClock(fixedClock(now))

	today := st.Cal.FormatDate(now)
	st.Append(punchAt("a", TypeCheckIn, today, "08:00", 100))
	st.Append(punchAt("b", TypeCheckIn, "2 Mei 2025", "08:00", 50))

	got := st.Today()
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("Expected only today's record, got %v", got)
	}
}

func TestLastCheckIn(t *testing.T) {
	st, _ := newTestStore()
	if _, ok := st.LastCheckIn(); ok {
		t.Error("Empty store should have no last check-in")
	}

	st.Append(punchAt("in1", TypeCheckIn, "1 Mei 2025", "08:00", 100))
	st.Append(punchAt("out1", TypeCheckOut, "1 Mei 2025", "17:00", 200))
	st.Append(punchAt("in2", TypeCheckIn, "2 Mei 2025", "08:00", 300))
	st.Append(punchAt("out2", TypeCheckOut, "2 Mei 2025", "17:00", 400))

	last, ok := st.LastCheckIn()
	if !ok || last.ID != "in2" {
		t.Errorf("Expected in2, got %v (ok=%v)", last, ok)
	}
}

func TestCanCheckOutGate(t *testing.T) {
	st, _ := newTestStore()
	now := time.Date(2025, 5, 3, 9, 0, 0, 0, time.Local)
	st.SetClock(fixedClock(now))
	today := st.Cal.FormatDate(now)

	if st.CanCheckOut() {
		t.Error("Empty store: CanCheckOut should be false")
	}

	st.Append(punchAt("in", TypeCheckIn, today, "08:00", 100))
	if !st.CanCheckOut() {
		t.Error("After check-in: CanCheckOut should be true")
	}

	st.Append(punchAt("out", TypeCheckOut, today, "17:00", 200))
	if st.CanCheckOut() {
		t.Error("After check-out: CanCheckOut should be false")
	}
}

func TestByMonthFiltersAndDropsUnparseable(t *testing.T) {
	st, _ := newTestStore()
	st.Append(punchAt("a", TypeCheckIn, "3 Mei 2025", "08:05", 100))
	st.Append(punchAt("b", TypeCheckOut, "3 Mei 2025", "17:10", 200))
	st.Append(punchAt("c", TypeCheckIn, "4 Juni 2025", "08:00", 300))
	st.Append(punchAt("d", TypeCheckIn, "3 Mei 2024", "08:00", 400))
	st.Append(punchAt("e", TypeCheckIn, "not a date", "08:00", 500))

	got := st.ByMonth(5, 2025)
	if len(got) != 2 {
		t.Fatalf("Expected 2 records for Mei 2025, got %d", len(got))
	}
	for _, r := range got {
		if r.Date != "3 Mei 2025" {
			t.Errorf("Unexpected record in month filter: %v", r)
		}
	}
}

func TestGroupByDatePairsByType(t *testing.T) {
	records := []Record{
		punchAt("out", TypeCheckOut, "3 Mei 2025", "17:10", 200),
		punchAt("in", TypeCheckIn, "3 Mei 2025", "08:05", 100),
		punchAt("in2", TypeCheckIn, "4 Mei 2025", "08:00", 300),
	}
	grouped := GroupByDate(records)
	if len(grouped) != 2 {
		t.Fatalf("Expected 2 dates, got %d", len(grouped))
	}

	day := grouped["3 Mei 2025"]
	if day.CheckIn == nil || day.CheckIn.ID != "in" {
		t.Errorf("Expected check-in 'in', got %v", day.CheckIn)
	}
	if day.CheckOut == nil || day.CheckOut.ID != "out" {
		t.Errorf("Expected check-out 'out', got %v", day.CheckOut)
	}

	day4 := grouped["4 Mei 2025"]
	if day4.CheckIn == nil || day4.CheckOut != nil {
		t.Errorf("Expected check-in only for day 4, got %v", day4)
	}
}

func TestGroupByDateNewestWinsOnDuplicates(t *testing.T) {
	// Newest-first input: the first record seen keeps the slot.
	records := []Record{
		punchAt("newest", TypeCheckIn, "3 Mei 2025", "09:00", 300),
		punchAt("older", TypeCheckIn, "3 Mei 2025", "08:00", 100),
	}
	grouped := GroupByDate(records)
	if got := grouped["3 Mei 2025"].CheckIn; got == nil || got.ID != "newest" {
		t.Errorf("Expected newest duplicate to win, got %v", got)
	}
}

func TestSortedDatesNewestFirst(t *testing.T) {
	cal := DefaultCalendar()
	grouped := map[string]DayPair{
		"3 Mei 2025":  {},
		"10 Mei 2025": {},
		"1 Mei 2025":  {},
	}
	dates := SortedDates(cal, grouped)
	want := []string{"10 Mei 2025", "3 Mei 2025", "1 Mei 2025"}
	for i := range want {
		if dates[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, dates)
		}
	}
}

func TestAppendConcurrent(t *testing.T) {
	st, _ := newTestStore()
	done := make(chan struct{})
	for g := 0; g < 4; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 20; i++ {
				r := punchAt(fmt.Sprintf("g%d-%d", g, i), TypeCheckIn, "1 Mei 2025", "08:00", int64(g*100+i))
				st.Append(r)
			}
		}(g)
	}
	for g := 0; g < 4; g++ {
		<-done
	}

	if got := len(st.History()); got != 80 {
		t.Errorf("Expected 80 records after concurrent appends, got %d", got)
	}
}
