package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"classtrack/internal/model"
)

// ListBeacons returns all beacons.
func (r *Repository) ListBeacons(ctx context.Context) ([]model.Beacon, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, uuid, major, minor, label, created_at FROM beacons ORDER BY label
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var beacons []model.Beacon
	for rows.Next() {
		var b model.Beacon
		if err := rows.Scan(&b.ID, &b.UUID, &b.Major, &b.Minor, &b.Label, &b.CreatedAt); err != nil {
			return nil, err
		}
		beacons = append(beacons, b)
	}
	return beacons, rows.Err()
}

// InsertBeacon registers a beacon.
func (r *Repository) InsertBeacon(ctx context.Context, b model.Beacon) (model.Beacon, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO beacons (id, uuid, major, minor, label, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, b.ID, b.UUID, b.Major, b.Minor, b.Label, b.CreatedAt)
	if err != nil {
		return model.Beacon{}, err
	}
	return b, nil
}

// DeleteBeacon removes a beacon; its assignments cascade.
func (r *Repository) DeleteBeacon(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM beacons WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ListAssignments returns all beacon-course assignments.
func (r *Repository) ListAssignments(ctx context.Context) ([]model.BeaconAssignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, beacon_id, course_code, assigned_at FROM beacon_assignments ORDER BY assigned_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var asgs []model.BeaconAssignment
	for rows.Next() {
		var a model.BeaconAssignment
		if err := rows.Scan(&a.ID, &a.BeaconID, &a.CourseCode, &a.AssignedAt); err != nil {
			return nil, err
		}
		asgs = append(asgs, a)
	}
	return asgs, rows.Err()
}

// InsertAssignment binds a beacon to a course.
func (r *Repository) InsertAssignment(ctx context.Context, beaconID, courseCode string) (model.BeaconAssignment, error) {
	a := model.BeaconAssignment{
		ID:         uuid.NewString(),
		BeaconID:   beaconID,
		CourseCode: courseCode,
		AssignedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO beacon_assignments (id, beacon_id, course_code, assigned_at)
		VALUES ($1,$2,$3,$4)
	`, a.ID, a.BeaconID, a.CourseCode, a.AssignedAt)
	if err != nil {
		return model.BeaconAssignment{}, err
	}
	return a, nil
}

// DeleteAssignment removes one assignment.
func (r *Repository) DeleteAssignment(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM beacon_assignments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
