package report

import (
	"strconv"
	"time"
)

// TimestampLayout is the format of the first column of every stored row.
const TimestampLayout = "2006-01-02 15:04:05"

// Row is one record appended to the spreadsheet: the sender columns followed
// by the fields of a single report line.
type Row struct {
	Timestamp time.Time
	Handle    string
	SenderID  int64
	Fields    []string
}

// NewRow builds a row for one parsed report line.
func NewRow(ts time.Time, handle string, senderID int64, fields []string) Row {
	return Row{
		Timestamp: ts,
		Handle:    handle,
		SenderID:  senderID,
		Fields:    fields,
	}
}

// Cells renders the row in column order:
// [timestamp, sender_handle, sender_id, field_1, ..., field_n].
func (r Row) Cells() []string {
	cells := make([]string, 0, 3+len(r.Fields))
	cells = append(cells,
		r.Timestamp.Format(TimestampLayout),
		r.Handle,
		strconv.FormatInt(r.SenderID, 10),
	)
	return append(cells, r.Fields...)
}
