// Package importer turns external booking and bank files into records the
// stores can accept. Row-level failures never abort a file: each bad row is
// reported and the rest of the file is processed.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/patcharin/innflow/internal/common"
	"github.com/patcharin/innflow/internal/desk"
	"github.com/patcharin/innflow/internal/model"
)

// Column fallback chains for OTA export files. Agoda, Booking.com, and the
// Thai-localized exports all name their columns differently; the first header
// found in each chain wins.
var (
	guestNameColumns = []string{"Guest Name", "ชื่อแขก"}
	roomColumns      = []string{"Room", "Room Number", "ห้อง"}
	checkInColumns   = []string{"Check In Date", "Check In", "เข้าพัก"}
	checkOutColumns  = []string{"Check Out Date", "Check Out", "ออก"}
	totalColumns     = []string{"Total", "Total Amount", "Payment Total", "ยอดรวม", "ยอดชำระ"}
	phoneColumns     = []string{"Phone", "Phone Number", "เบอร์โทร"}
	confirmColumns   = []string{"Confirmation Number", "Booking ID", "หมายเลขการจอง"}
)

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "01/02/2006", "Jan 2, 2006"}

// RowError records a rejected import row with its 1-based line number.
type RowError struct {
	Line int
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// OTAResult is the outcome of parsing one OTA export file.
type OTAResult struct {
	Rows     []desk.ImportRow
	Rejected []RowError
}

// ParseOTACSV reads an OTA booking export. channel labels the source (for
// example "Agoda") and is stamped onto every accepted row.
func ParseOTACSV(r io.Reader, channel string) (OTAResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return OTAResult{}, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := indexColumns(header)

	guestIdx, ok := cols.find(guestNameColumns)
	if !ok {
		return OTAResult{}, fmt.Errorf("%w: no guest name column found", common.ErrInvalidConfig)
	}
	roomIdx, ok := cols.find(roomColumns)
	if !ok {
		return OTAResult{}, fmt.Errorf("%w: no room column found", common.ErrInvalidConfig)
	}
	inIdx, ok := cols.find(checkInColumns)
	if !ok {
		return OTAResult{}, fmt.Errorf("%w: no check-in column found", common.ErrInvalidConfig)
	}
	outIdx, ok := cols.find(checkOutColumns)
	if !ok {
		return OTAResult{}, fmt.Errorf("%w: no check-out column found", common.ErrInvalidConfig)
	}
	layout := otaLayout{guest: guestIdx, room: roomIdx, in: inIdx, out: outIdx}
	layout.total, layout.hasTotal = cols.find(totalColumns)
	layout.phone, layout.hasPhone = cols.find(phoneColumns)
	layout.confirm, layout.hasConfirm = cols.find(confirmColumns)

	var result OTAResult
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{
				Line: line,
				Err:  fmt.Errorf("%w: %v", common.ErrImportRow, err),
			})
			continue
		}

		row, err := parseOTARow(record, layout)
		if err != nil {
			result.Rejected = append(result.Rejected, RowError{
				Line: line,
				Err:  fmt.Errorf("%w: %v", common.ErrImportRow, err),
			})
			continue
		}

		row.OTAChannel = channel
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// otaLayout records which column each field resolved to for one file.
type otaLayout struct {
	guest, room, in, out           int
	total, phone, confirm          int
	hasTotal, hasPhone, hasConfirm bool
}

func parseOTARow(record []string, layout otaLayout) (desk.ImportRow, error) {
	field := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	guestName := field(layout.guest)
	if guestName == "" {
		return desk.ImportRow{}, fmt.Errorf("empty guest name")
	}

	roomNumber := field(layout.room)
	if roomNumber == "" {
		return desk.ImportRow{}, fmt.Errorf("empty room number")
	}

	checkIn, err := parseDate(field(layout.in))
	if err != nil {
		return desk.ImportRow{}, fmt.Errorf("bad check-in date %q", field(layout.in))
	}
	checkOut, err := parseDate(field(layout.out))
	if err != nil {
		return desk.ImportRow{}, fmt.Errorf("bad check-out date %q", field(layout.out))
	}
	if !checkOut.After(checkIn) {
		return desk.ImportRow{}, fmt.Errorf("check-out %s not after check-in %s",
			checkOut.Format("2006-01-02"), checkIn.Format("2006-01-02"))
	}

	row := desk.ImportRow{
		GuestName:  guestName,
		RoomNumber: roomNumber,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	}

	if layout.hasTotal {
		if raw := field(layout.total); raw != "" {
			amount, err := parseAmount(raw)
			if err != nil {
				return desk.ImportRow{}, fmt.Errorf("bad total amount %q", raw)
			}
			row.TotalAmount = amount
		}
	}
	if layout.hasPhone {
		if phone := field(layout.phone); phone != "" {
			row.Guest = &model.GuestData{FirstNameTH: guestName, Phone: phone}
		}
	}
	if layout.hasConfirm {
		row.ConfirmationNumber = field(layout.confirm)
	}

	return row, nil
}

// columnIndex maps lowercased header names to their positions.
type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	cols := make(columnIndex, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := cols[key]; !exists {
			cols[key] = i
		}
	}
	return cols
}

func (c columnIndex) find(candidates []string) (int, bool) {
	for _, name := range candidates {
		if idx, ok := c[strings.ToLower(name)]; ok {
			return idx, true
		}
	}
	return -1, false
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseAmount handles currency symbols and thousand separators in amount
// fields ("฿4,500.00" and "4500" both parse to 4500).
func parseAmount(s string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, s)
	if cleaned == "" {
		return 0, fmt.Errorf("no digits in %q", s)
	}
	return strconv.ParseFloat(cleaned, 64)
}
