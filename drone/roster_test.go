package drone

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

func TestLoadRosterIncludesDroneDespiteMissingOrgs(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := []byte(`{
		"robots": [
			{"name": "drone1", "shm_pdu_readers": [{"org_name": "pos"}], "shm_pdu_writers": [{"org_name": "disturb"}]},
			{"name": "drone2", "shm_pdu_readers": [], "shm_pdu_writers": []}
		]
	}`)
	if err := afero.WriteFile(fs, "/roster.json", data, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var logBuf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&logBuf)

	drones, err := LoadRoster(fs, "/roster.json", log)
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}
	if len(drones) != 2 {
		t.Fatalf("len(drones) = %d, want 2", len(drones))
	}
	if drones[1].Name != "drone2" {
		t.Errorf("drones[1].Name = %q, want drone2", drones[1].Name)
	}
	if logBuf.Len() == 0 {
		t.Error("expected a warning logged for drone2's missing orgs")
	}
}

func TestLoadRosterSkipsUnnamedEntries(t *testing.T) {
	fs := afero.NewMemMapFs()
	data := []byte(`{"robots": [{"name": "", "shm_pdu_readers": [], "shm_pdu_writers": []}]}`)
	afero.WriteFile(fs, "/roster.json", data, 0o644)

	drones, err := LoadRoster(fs, "/roster.json", nil)
	if err != nil {
		t.Fatalf("LoadRoster: %v", err)
	}
	if len(drones) != 0 {
		t.Errorf("len(drones) = %d, want 0", len(drones))
	}
}
