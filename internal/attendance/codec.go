package attendance

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Wire format: records are pipe-delimited lines joined by ";;" into the
// single stored value. There is no escaping; locations must not contain
// either delimiter (Append sanitizes, the codec does not validate).
const (
	fieldSep  = "|"
	recordSep = ";;"
)

// EncodeRecord produces the flat line
// id|TYPE|date|time|location|timestamp|faceVerified.
func EncodeRecord(r Record) string {
	return strings.Join([]string{
		r.ID,
		string(r.Type),
		r.Date,
		r.Time,
		r.Location,
		strconv.FormatInt(r.Timestamp, 10),
		strconv.FormatBool(r.FaceVerified),
	}, fieldSep)
}

// DecodeRecord parses one stored line. It accepts the 7-field form, the
// legacy 6-field form (faceVerified absent, defaults to true), and, for
// newer writers, a JSON object line. Anything else reports not-ok and the
// caller drops the line.
func DecodeRecord(line string) (Record, bool) {
	if strings.HasPrefix(line, "{") {
		return decodeJSONRecord(line)
	}

	parts := strings.Split(line, fieldSep)
	if len(parts) != 6 && len(parts) != 7 {
		return Record{}, false
	}

	typ, ok := ParseType(parts[1])
	if !ok {
		return Record{}, false
	}
	ts, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil {
		return Record{}, false
	}

	r := Record{
		ID:           parts[0],
		Type:         typ,
		Date:         parts[2],
		Time:         parts[3],
		Location:     parts[4],
		Timestamp:    ts,
		FaceVerified: true,
	}
	if len(parts) == 7 {
		r.FaceVerified = parts[6] == "true"
	}
	return r, true
}

func decodeJSONRecord(line string) (Record, bool) {
	var wire struct {
		ID           string `json:"id"`
		Type         string `json:"type"`
		Date         string `json:"date"`
		Time         string `json:"time"`
		Location     string `json:"location"`
		Timestamp    int64  `json:"timestamp"`
		FaceVerified *bool  `json:"face_verified"`
	}
	if err := json.Unmarshal([]byte(line), &wire); err != nil {
		return Record{}, false
	}
	typ, ok := ParseType(wire.Type)
	if !ok {
		return Record{}, false
	}
	r := Record{
		ID:           wire.ID,
		Type:         typ,
		Date:         wire.Date,
		Time:         wire.Time,
		Location:     wire.Location,
		Timestamp:    wire.Timestamp,
		FaceVerified: true,
	}
	if wire.FaceVerified != nil {
		r.FaceVerified = *wire.FaceVerified
	}
	return r, true
}

// encodeList joins records in list order into the stored value.
func encodeList(records []Record) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, EncodeRecord(r))
	}
	return strings.Join(lines, recordSep)
}

// decodeList splits the stored value and decodes each chunk, silently
// dropping any that fail. Order is preserved (stored order = append order).
func decodeList(raw string) []Record {
	if raw == "" {
		return nil
	}
	var records []Record
	for _, line := range strings.Split(raw, recordSep) {
		if r, ok := DecodeRecord(line); ok {
			records = append(records, r)
		}
	}
	return records
}

// sanitizeLocation strips the two wire delimiters out of a free-form
// location string so a street name can never corrupt the stored list.
func sanitizeLocation(loc string) string {
	loc = strings.ReplaceAll(loc, fieldSep, "/")
	loc = strings.ReplaceAll(loc, recordSep, ", ")
	return loc
}
