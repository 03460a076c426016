// Package drone implements the per-drone I/O adapter: reading a pose off
// its inbound channel, synthesizing a disturbance record from an
// environment property, and publishing it non-blockingly (spec §4.5).
package drone

import (
	"github.com/hakoniwa-sim/envsim"
)

// Default organization names a drone is expected to expose, per spec §6.
const (
	PosOrg     = "pos"
	DisturbOrg = "disturb"
)

// Vector3 mirrors the {x,y,z: f64} shape used on both the inbound and
// outbound transport channels (spec §6).
type Vector3 struct {
	X, Y, Z float64
}

// Pose is the inbound pose record read off a drone's "pos" channel.
// Angular holds roll/pitch/yaw under the x/y/z keys, matching the wire
// contract in spec §6 (the data-model section's {r,p,y} naming is the same
// fields under friendlier names; the transport contract governs the wire
// shape).
type Pose struct {
	Linear  Vector3
	Angular Vector3
}

// Disturbance is the outbound record written to a drone's "disturb"
// channel (spec §6).
type Disturbance struct {
	Wind        Vector3
	Temperature float64
	SeaLevelAtm float64
}

// IO is one drone's I/O adapter: a name and its two named channels.
type IO struct {
	Name       string
	PosOrg     string
	DisturbOrg string
}

// New returns an IO using the default pos/disturb organization names.
func New(name string) IO {
	return IO{Name: name, PosOrg: PosOrg, DisturbOrg: DisturbOrg}
}

// ReadPose fetches the drone's current pose from t. A false second return
// means the channel hasn't been populated yet — a normal steady state
// during warmup, not an error (spec §4.5, §7 TransportReadAbsent).
func (io IO) ReadPose(t Transport) (Pose, bool) {
	return t.ReadPose(io.Name, io.PosOrg)
}

// WriteDisturbance publishes d non-blockingly. A false return means the
// transport rejected the write; the caller should log it and move on, not
// retry within the tick (spec §4.5, §7 TransportWriteFailed).
func (io IO) WriteDisturbance(t Transport, d Disturbance) bool {
	return t.WriteDisturbance(io.Name, io.DisturbOrg, d)
}

// MakeDisturbance synthesizes a Disturbance from a resolved AreaProperty.
// A nil prop yields the all-zero disturbance (spec §4.5, §8 scenario 6).
func MakeDisturbance(prop *envsim.AreaProperty) Disturbance {
	if prop == nil {
		return Disturbance{}
	}
	return Disturbance{
		Wind: Vector3{
			X: prop.WindVelocity.X,
			Y: prop.WindVelocity.Y,
			Z: prop.WindVelocity.Z,
		},
		Temperature: float64(prop.Temperature),
		SeaLevelAtm: float64(prop.SeaLevelAtm),
	}
}
