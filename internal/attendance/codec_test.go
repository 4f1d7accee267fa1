package attendance

import "testing"

func sampleRecord() Record {
	return Record{
		ID:           "A1",
		Type:         TypeCheckIn,
		Date:         "3 Mei 2025",
		Time:         "08:00 WIB",
		Location:     "Jl. Thamrin, Jakarta",
		Timestamp:    1714694400000,
		FaceVerified: true,
	}
}

func TestEncodeRecord(t *testing.T) {
	got := EncodeRecord(sampleRecord())
	want := "A1|CHECK_IN|3 Mei 2025|08:00 WIB|Jl. Thamrin, Jakarta|1714694400000|true"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	records := []Record{
		sampleRecord(),
		{ID: "B2", Type: TypeCheckOut, Date: "4 Mei 2025", Time: "17:10 WIB",
			Location: "Kantor Pusat", Timestamp: 1714813800000, FaceVerified: false},
	}
	for _, r := range records {
		got, ok := DecodeRecord(EncodeRecord(r))
		if !ok {
			t.Fatalf("Decode failed for %v", r)
		}
		if got != r {
			t.Errorf("Round trip mismatch: expected %v, got %v", r, got)
		}
	}
}

func TestDecodeLegacySixFields(t *testing.T) {
	line := "X|CHECK_IN|1 Januari 2024|08:00 WIB|Office|1704067200000"
	r, ok := DecodeRecord(line)
	if !ok {
		t.Fatal("Legacy line should decode")
	}
	if !r.FaceVerified {
		t.Error("Legacy record should default faceVerified to true")
	}
	if r.ID != "X" || r.Type != TypeCheckIn || r.Timestamp != 1704067200000 {
		t.Errorf("Legacy fields mismatch: %v", r)
	}
}

func TestDecodeRejectsBadLines(t *testing.T) {
	bad := []string{
		"",
		"too|few|fields",
		"A|CHECK_IN|d|t|loc|100|true|extra",
		"A|NAP|1 Mei 2025|08:00 WIB|loc|100|true",
		"A|CHECK_IN|1 Mei 2025|08:00 WIB|loc|notanumber|true",
	}
	for _, line := range bad {
		if _, ok := DecodeRecord(line); ok {
			t.Errorf("Expected decode failure for %q", line)
		}
	}
}

func TestDecodeJSONLine(t *testing.T) {
	line := `{"id":"J1","type":"CHECK_OUT","date":"5 Mei 2025","time":"17:00 WIB","location":"HQ","timestamp":42}`
	r, ok := DecodeRecord(line)
	if !ok {
		t.Fatal("JSON line should decode")
	}
	if r.Type != TypeCheckOut || r.Timestamp != 42 {
		t.Errorf("JSON decode mismatch: %v", r)
	}
	if !r.FaceVerified {
		t.Error("Missing face_verified should default to true")
	}

	if _, ok := DecodeRecord(`{"type":"NAP"}`); ok {
		t.Error("JSON line with bad type should not decode")
	}
}

func TestDecodeListDropsCorruptChunks(t *testing.T) {
	raw := EncodeRecord(sampleRecord()) + ";;garbage;;" +
		"B2|CHECK_OUT|3 Mei 2025|17:10 WIB|Kantor|1714727400000|true"
	records := decodeList(raw)
	if len(records) != 2 {
		t.Fatalf("Expected 2 valid records, got %d", len(records))
	}
	if records[0].ID != "A1" || records[1].ID != "B2" {
		t.Errorf("Unexpected records: %v", records)
	}
}

func TestDecodeListEmpty(t *testing.T) {
	if got := decodeList(""); len(got) != 0 {
		t.Errorf("Empty value should decode to empty list, got %v", got)
	}
}

func TestSanitizeLocation(t *testing.T) {
	got := sanitizeLocation("Jl. A|B;;C")
	if got != "Jl. A/B, C" {
		t.Errorf("Unexpected sanitized location: %q", got)
	}
}
