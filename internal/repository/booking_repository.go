package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/arendsv/guesthouse-booking/internal/model"
)

// BookingRepo provides CRUD operations for bookings and their assigned
// rooms.  A booking row lives in the bookings table; its room numbers
// live in booking_rooms, one row per room, carrying the booking date so
// the UNIQUE (booking_date, room_number) key can reject double-booking
// at the storage layer.  All timestamps are stored in UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for health checks.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// mysqlDuplicateEntry is the server error number raised when an insert
// violates a unique key.
const mysqlDuplicateEntry = 1062

// isDuplicateEntry reports whether err is a unique-key violation.  The
// caller maps it onto the sentinel for whichever key its insert can
// violate: the bookings primary key means a duplicate id, the
// booking_rooms uq_date_room key means a double-booked room.
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// scanBookings reads booking rows joined with their room numbers.  The
// query must select id, booking_date, guest_name, room_count, remarks,
// created_at, updated_at, room_number ordered so that rows of the same
// booking are adjacent and room numbers ascend.
func scanBookings(rows *sql.Rows) ([]model.Booking, error) {
	out := make([]model.Booking, 0)
	index := make(map[string]int)
	for rows.Next() {
		var (
			b       model.Booking
			date    time.Time
			remarks sql.NullString
			room    sql.NullInt64
		)
		if err := rows.Scan(&b.ID, &date, &b.GuestName, &b.RoomCount, &remarks, &b.CreatedAt, &b.UpdatedAt, &room); err != nil {
			return nil, err
		}
		b.Date = date.UTC().Format("2006-01-02")
		if remarks.Valid {
			b.Remarks = remarks.String
		}
		i, ok := index[b.ID]
		if !ok {
			b.RoomNumbers = []int{}
			index[b.ID] = len(out)
			out = append(out, b)
			i = index[b.ID]
		}
		if room.Valid {
			out[i].RoomNumbers = append(out[i].RoomNumbers, int(room.Int64))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const bookingSelect = `SELECT b.id, b.booking_date, b.guest_name, b.room_count, b.remarks, b.created_at, b.updated_at, br.room_number
	FROM bookings b
	LEFT JOIN booking_rooms br ON br.booking_id = b.id`

// ListAll returns every booking ordered by date then creation time,
// matching the order the calendar and list views expect.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	q := bookingSelect + ` ORDER BY b.booking_date ASC, b.created_at ASC, b.id, br.room_number ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

// ListByDate returns all bookings stored for one canonical date key,
// optionally excluding a single id.  This is the snapshot the validator
// and allocator decide against.
func (r *BookingRepo) ListByDate(ctx context.Context, date, excludeID string) ([]model.Booking, error) {
	q := bookingSelect + ` WHERE b.booking_date = ?`
	args := []interface{}{date}
	if excludeID != "" {
		q += ` AND b.id != ?`
		args = append(args, excludeID)
	}
	q += ` ORDER BY b.created_at ASC, b.id, br.room_number ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

// GetByID returns a single booking or ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	q := bookingSelect + ` WHERE b.id = ? ORDER BY br.room_number ASC`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrBookingNotFound
	}
	return &list[0], nil
}

// Create persists a new booking and its room rows atomically.  The
// booking's CreatedAt/UpdatedAt are populated from the stored row.  A
// unique-key violation on booking_rooms is reported as ErrRoomConflict
// and nothing is applied.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Truncate(time.Second)
	const ins = `INSERT INTO bookings (id, booking_date, guest_name, room_count, remarks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins, b.ID, b.Date, b.GuestName, b.RoomCount, b.Remarks, now, now); err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateBooking
		}
		return err
	}
	if err := insertRoomsTx(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

// Update rewrites a booking in place.  The row is re-read with a lock
// to distinguish a missing id from a no-op change, then the room rows
// are replaced wholesale so the stored assignment always matches the
// recomputed one.  Returns ErrBookingNotFound when the id is unknown
// and ErrRoomConflict on a double-booked room.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var createdAt time.Time
	err = tx.QueryRowContext(ctx, `SELECT created_at FROM bookings WHERE id = ? FOR UPDATE`, b.ID).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookingNotFound
		}
		return err
	}

	now := time.Now().UTC().Truncate(time.Second)
	const upd = `UPDATE bookings SET booking_date = ?, guest_name = ?, room_count = ?, remarks = ?, updated_at = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, upd, b.Date, b.GuestName, b.RoomCount, b.Remarks, now, b.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM booking_rooms WHERE booking_id = ?`, b.ID); err != nil {
		return err
	}
	if err := insertRoomsTx(ctx, tx, b); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	b.CreatedAt = createdAt.UTC()
	b.UpdatedAt = now
	return nil
}

// Delete removes a booking by id; its room rows cascade.  Freed rooms
// become assignable for that date as soon as the delete commits.
func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// insertRoomsTx inserts one booking_rooms row per assigned room in a
// single statement.
func insertRoomsTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	if len(b.RoomNumbers) == 0 {
		return nil
	}
	query := `INSERT INTO booking_rooms (booking_id, booking_date, room_number) VALUES `
	args := make([]interface{}, 0, len(b.RoomNumbers)*3)
	placeholders := make([]string, 0, len(b.RoomNumbers))
	for _, n := range b.RoomNumbers {
		placeholders = append(placeholders, "(?, ?, ?)")
		args = append(args, b.ID, b.Date, n)
	}
	query += strings.Join(placeholders, ",")
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isDuplicateEntry(err) {
			return ErrRoomConflict
		}
		return err
	}
	return nil
}
