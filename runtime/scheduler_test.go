package runtime

import (
	"context"
	"testing"

	"github.com/hakoniwa-sim/envsim"
	"github.com/hakoniwa-sim/envsim/drone"
)

// countedTicks fires exactly n ticks then reports end-of-stream.
type countedTicks struct {
	remaining int
}

func (c *countedTicks) Next(ctx context.Context) bool {
	if c.remaining <= 0 {
		return false
	}
	c.remaining--
	return true
}

func singleAreaEnv(t *testing.T) *envsim.Environment {
	t.Helper()
	areas := []envsim.SpaceArea{
		{AreaId: "a", Bounds: envsim.AABB{Min: envsim.Point3{}, Max: envsim.Point3{X: 10, Y: 10, Z: 10}, Id: "a"}},
	}
	links := []envsim.Link{{AreaId: "a", PropertyId: "p"}}
	props := map[envsim.PropertyId]envsim.AreaProperty{
		"p": {PropertyId: "p", WindVelocity: envsim.Vec3{X: 1, Y: 2, Z: 3}, Temperature: 20, SeaLevelAtm: 1},
	}
	env, err := envsim.NewEnvironment(areas, links, props, envsim.DefaultBuildOptions())
	if err != nil {
		t.Fatalf("NewEnvironment: %v", err)
	}
	return env
}

// TestTickPublishesDisturbanceForPoseInsideArea is spec §4.6's steady-state
// per-drone step: read pose, resolve property, write disturbance.
func TestTickPublishesDisturbanceForPoseInsideArea(t *testing.T) {
	env := singleAreaEnv(t)
	tr := drone.NewMemTransport()
	d := drone.New("drone1")
	tr.SetPose("drone1", drone.PosOrg, drone.Pose{Linear: drone.Vector3{X: 1, Y: 1, Z: 1}})

	sched := New(env, tr, []drone.IO{d}, &countedTicks{remaining: 1}, nil)
	if err := sched.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, ok := tr.LastWritten("drone1", drone.DisturbOrg)
	if !ok {
		t.Fatal("expected a disturbance to have been written")
	}
	want := drone.Disturbance{Wind: drone.Vector3{X: 1, Y: 2, Z: 3}, Temperature: 20, SeaLevelAtm: 1}
	if got != want {
		t.Errorf("disturbance = %+v, want %+v", got, want)
	}
}

// TestTickZeroDisturbanceOnMiss is spec scenario 6.
func TestTickZeroDisturbanceOnMiss(t *testing.T) {
	env := singleAreaEnv(t)
	tr := drone.NewMemTransport()
	d := drone.New("drone1")
	tr.SetPose("drone1", drone.PosOrg, drone.Pose{Linear: drone.Vector3{X: 100, Y: 100, Z: 100}})

	sched := New(env, tr, []drone.IO{d}, &countedTicks{remaining: 1}, nil)
	if err := sched.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got, ok := tr.LastWritten("drone1", drone.DisturbOrg)
	if !ok {
		t.Fatal("expected a zero disturbance to still be written on a miss")
	}
	want := drone.Disturbance{}
	if got != want {
		t.Errorf("disturbance = %+v, want the zero value", got)
	}
}

func TestTickSkipsDroneWithNoPoseYet(t *testing.T) {
	env := singleAreaEnv(t)
	tr := drone.NewMemTransport()
	d := drone.New("drone1")

	sched := New(env, tr, []drone.IO{d}, &countedTicks{remaining: 1}, nil)
	if err := sched.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, ok := tr.LastWritten("drone1", drone.DisturbOrg); ok {
		t.Error("a drone with no pose yet should not get a disturbance write this tick")
	}
}

func TestRunClosesTransportOnEndOfStream(t *testing.T) {
	env := singleAreaEnv(t)
	tr := drone.NewMemTransport()
	tr.SetPose("anything", drone.PosOrg, drone.Pose{})

	sched := New(env, tr, nil, &countedTicks{remaining: 0}, nil)
	if err := sched.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := tr.LastWritten("anything", drone.DisturbOrg); ok {
		t.Error("no ticks should have run")
	}
	if _, ok := tr.ReadPose("anything", drone.PosOrg); ok {
		t.Error("Run should have closed the transport, clearing its buffered poses")
	}
}
