package drone

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var rosterJSON = jsoniter.ConfigCompatibleWithStandardLibrary

type pduOrgJSON struct {
	OrgName string `json:"org_name"`
}

type robotJSON struct {
	Name          string       `json:"name"`
	ShmPduReaders []pduOrgJSON `json:"shm_pdu_readers"`
	ShmPduWriters []pduOrgJSON `json:"shm_pdu_writers"`
}

type rosterJSONFile struct {
	Robots []robotJSON `json:"robots"`
}

// LoadRoster parses a drone roster config (spec §4.6 step 1, §6). A robot
// missing the "pos" reader org or the "disturb" writer org is logged as a
// warning but still included, so late-binding problems surface at runtime
// rather than silently dropping a drone (spec §4.6 step 1, SPEC_FULL.md
// Supplemented Features item 3).
func LoadRoster(fs afero.Fs, path string, log *logrus.Logger) ([]IO, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	var cfg rosterJSONFile
	if err := rosterJSON.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}

	drones := make([]IO, 0, len(cfg.Robots))
	for _, rob := range cfg.Robots {
		if rob.Name == "" {
			continue
		}

		readers := make(map[string]bool, len(rob.ShmPduReaders))
		for _, r := range rob.ShmPduReaders {
			if r.OrgName != "" {
				readers[r.OrgName] = true
			}
		}
		writers := make(map[string]bool, len(rob.ShmPduWriters))
		for _, w := range rob.ShmPduWriters {
			if w.OrgName != "" {
				writers[w.OrgName] = true
			}
		}

		if !readers[PosOrg] {
			log.WithFields(logrus.Fields{"robot": rob.Name, "missing_org": PosOrg}).
				Warn("robot has no pose reader organization")
		}
		if !writers[DisturbOrg] {
			log.WithFields(logrus.Fields{"robot": rob.Name, "missing_org": DisturbOrg}).
				Warn("robot has no disturbance writer organization")
		}

		drones = append(drones, New(rob.Name))
	}
	return drones, nil
}
