package apiclient

import (
	"context"
	"net/http"

	"classtrack/internal/model"
)

// BeaconAPI covers BLE beacons and their course assignments.
type BeaconAPI struct {
	c *Client
}

// List returns all registered beacons.
func (a *BeaconAPI) List(ctx context.Context) ([]model.Beacon, error) {
	var out []model.Beacon
	err := a.c.do(ctx, http.MethodGet, "/v1/beacons", nil, nil, &out)
	return out, err
}

// BeaconInput registers a beacon.
type BeaconInput struct {
	UUID  string `json:"uuid"`
	Major int    `json:"major"`
	Minor int    `json:"minor"`
	Label string `json:"label"`
}

// Register adds a beacon.
func (a *BeaconAPI) Register(ctx context.Context, in BeaconInput) (model.Beacon, error) {
	var b model.Beacon
	err := a.c.do(ctx, http.MethodPost, "/v1/beacons", nil, in, &b)
	return b, err
}

// Delete removes a beacon along with its assignments.
func (a *BeaconAPI) Delete(ctx context.Context, id string) error {
	return a.c.do(ctx, http.MethodDelete, "/v1/beacons/"+id, nil, nil, nil)
}

// Assignments returns all beacon-course assignments.
func (a *BeaconAPI) Assignments(ctx context.Context) ([]model.BeaconAssignment, error) {
	var out []model.BeaconAssignment
	err := a.c.do(ctx, http.MethodGet, "/v1/beacon-assignments", nil, nil, &out)
	return out, err
}

// Assign binds a beacon to a course.
func (a *BeaconAPI) Assign(ctx context.Context, beaconID, courseCode string) (model.BeaconAssignment, error) {
	in := struct {
		BeaconID   string `json:"beacon_id"`
		CourseCode string `json:"course_code"`
	}{BeaconID: beaconID, CourseCode: courseCode}
	var asg model.BeaconAssignment
	err := a.c.do(ctx, http.MethodPost, "/v1/beacon-assignments", nil, in, &asg)
	return asg, err
}

// Unassign removes one assignment.
func (a *BeaconAPI) Unassign(ctx context.Context, assignmentID string) error {
	return a.c.do(ctx, http.MethodDelete, "/v1/beacon-assignments/"+assignmentID, nil, nil, nil)
}
