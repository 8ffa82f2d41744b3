package repository

import (
	"database/sql"
	"time"

	"github.com/riopardo/rides/internal/pkg/models"
)

const rideColumns = `id, passenger_id, driver_id,
	origin_address, origin_lat, origin_lng,
	destination_address, destination_lat, destination_lng,
	status, proposed_price, accepted_price, payment_method, cancelled_by,
	version, created_at, updated_at, write_id`

// rideRow is the flat table representation of a ride request
type rideRow struct {
	ID                 string          `db:"id"`
	PassengerID        string          `db:"passenger_id"`
	DriverID           sql.NullString  `db:"driver_id"`
	OriginAddress      string          `db:"origin_address"`
	OriginLat          sql.NullFloat64 `db:"origin_lat"`
	OriginLng          sql.NullFloat64 `db:"origin_lng"`
	DestinationAddress string          `db:"destination_address"`
	DestinationLat     sql.NullFloat64 `db:"destination_lat"`
	DestinationLng     sql.NullFloat64 `db:"destination_lng"`
	Status             string          `db:"status"`
	ProposedPrice      sql.NullInt64   `db:"proposed_price"`
	AcceptedPrice      sql.NullInt64   `db:"accepted_price"`
	PaymentMethod      sql.NullString  `db:"payment_method"`
	CancelledBy        sql.NullString  `db:"cancelled_by"`
	Version            int64           `db:"version"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
	WriteID            string          `db:"write_id"`
}

func toRow(r *models.RideRequest) rideRow {
	row := rideRow{
		ID:                 r.ID,
		PassengerID:        r.PassengerID,
		DriverID:           nullString(r.DriverID),
		OriginAddress:      r.Origin.Address,
		DestinationAddress: r.Destination.Address,
		Status:             string(r.Status),
		Version:            r.Version,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
		WriteID:            r.WriteID,
	}
	if c := r.Origin.Coordinates; c != nil {
		row.OriginLat = sql.NullFloat64{Float64: c.Latitude, Valid: true}
		row.OriginLng = sql.NullFloat64{Float64: c.Longitude, Valid: true}
	}
	if c := r.Destination.Coordinates; c != nil {
		row.DestinationLat = sql.NullFloat64{Float64: c.Latitude, Valid: true}
		row.DestinationLng = sql.NullFloat64{Float64: c.Longitude, Valid: true}
	}
	if r.ProposedPrice != nil {
		row.ProposedPrice = sql.NullInt64{Int64: r.ProposedPrice.Cents(), Valid: true}
	}
	if r.AcceptedPrice != nil {
		row.AcceptedPrice = sql.NullInt64{Int64: r.AcceptedPrice.Cents(), Valid: true}
	}
	if r.PaymentMethod != nil {
		row.PaymentMethod = nullString(string(*r.PaymentMethod))
	}
	if r.CancelledBy != nil {
		row.CancelledBy = nullString(string(*r.CancelledBy))
	}
	return row
}

func (row rideRow) toModel() *models.RideRequest {
	r := &models.RideRequest{
		ID:          row.ID,
		PassengerID: row.PassengerID,
		DriverID:    row.DriverID.String,
		Origin:      place(row.OriginAddress, row.OriginLat, row.OriginLng),
		Destination: place(row.DestinationAddress, row.DestinationLat, row.DestinationLng),
		Status:      models.RideStatus(row.Status),
		Version:     row.Version,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
		WriteID:     row.WriteID,
	}
	if row.ProposedPrice.Valid {
		r.ProposedPrice = models.MoneyPtr(models.Money(row.ProposedPrice.Int64))
	}
	if row.AcceptedPrice.Valid {
		r.AcceptedPrice = models.MoneyPtr(models.Money(row.AcceptedPrice.Int64))
	}
	if row.PaymentMethod.Valid {
		pm := models.PaymentMethod(row.PaymentMethod.String)
		r.PaymentMethod = &pm
	}
	if row.CancelledBy.Valid {
		role := models.Role(row.CancelledBy.String)
		r.CancelledBy = &role
	}
	return r
}

func (row rideRow) args() []interface{} {
	return []interface{}{
		row.ID, row.PassengerID, row.DriverID,
		row.OriginAddress, row.OriginLat, row.OriginLng,
		row.DestinationAddress, row.DestinationLat, row.DestinationLng,
		row.Status, row.ProposedPrice, row.AcceptedPrice, row.PaymentMethod, row.CancelledBy,
		row.Version, row.CreatedAt, row.UpdatedAt, row.WriteID,
	}
}

// sameWrite reports whether stored is the committed result of write, which is
// how a retried write is told apart from a competing one at the same version
func sameWrite(stored, write *models.RideRequest) bool {
	return write.WriteID != "" && stored.Version == write.Version && stored.WriteID == write.WriteID
}

func place(address string, lat, lng sql.NullFloat64) models.Place {
	p := models.Place{Address: address}
	if lat.Valid && lng.Valid {
		p.Coordinates = &models.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	return p
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func statusStrings(statuses []models.RideStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
