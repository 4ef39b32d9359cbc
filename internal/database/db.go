package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATE/DATETIME -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the booking tables when they do not exist yet.
// The UNIQUE key on (booking_date, room_number) is the storage-level
// backstop against double-booking a room: even a writer outside this
// process cannot commit an overlapping assignment.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const bookings = `CREATE TABLE IF NOT EXISTS bookings (
		id           VARCHAR(36)  NOT NULL,
		booking_date DATE         NOT NULL,
		guest_name   VARCHAR(190) NOT NULL,
		room_count   TINYINT      NOT NULL,
		remarks      TEXT         NULL,
		created_at   DATETIME     NOT NULL,
		updated_at   DATETIME     NOT NULL,
		PRIMARY KEY (id),
		KEY idx_bookings_date (booking_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	const bookingRooms = `CREATE TABLE IF NOT EXISTS booking_rooms (
		booking_id   VARCHAR(36) NOT NULL,
		booking_date DATE        NOT NULL,
		room_number  TINYINT     NOT NULL,
		PRIMARY KEY (booking_id, room_number),
		UNIQUE KEY uq_date_room (booking_date, room_number),
		CONSTRAINT fk_booking_rooms_booking FOREIGN KEY (booking_id)
			REFERENCES bookings (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

	if _, err := db.ExecContext(ctx, bookings); err != nil {
		return fmt.Errorf("create bookings table: %w", err)
	}
	if _, err := db.ExecContext(ctx, bookingRooms); err != nil {
		return fmt.Errorf("create booking_rooms table: %w", err)
	}
	return nil
}
