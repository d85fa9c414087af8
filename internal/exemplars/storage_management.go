package exemplars

import (
	"github.com/ethanolivertroy/exemplar-check/internal/exemplar"
	"github.com/ethanolivertroy/exemplar-check/internal/models"
)

// StorageManagement writes caller data into a fixed size account with no
// ownership or capacity check
type StorageManagement struct{ base }

func NewStorageManagement() exemplar.Exemplar {
	return &StorageManagement{base{
		kind: models.StorageManagement,
		file: "storage_management.go",
		info: exemplar.Info{
			Name:           "Storage Management Issues",
			Description:    "Account storage is written without ownership or size checks, corrupting data or writing past allocated space.",
			ExploitExample: "A writer that does not own the account writes past the allocated slots, overrunning storage the program never reserved for it.",
			Platforms:      defaultPlatforms,
			Detection: []string{
				"writes to account data without an owner check",
				"index arithmetic with no capacity check",
			},
			Remediation: []string{
				"verify the writer owns the account",
				"check capacity before every write and reallocate explicitly",
			},
		},
		contains: []exemplar.FailureClass{exemplar.ClassBounds},
	}}
}

type storageAccount struct {
	owner string
	data  []uint64
	used  int
}

func openStorage(setup exemplar.Values) *storageAccount {
	return &storageAccount{owner: setup.Str("owner"), data: make([]uint64, setup.Int("capacity"))}
}

func (s *StorageManagement) Vulnerable(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	acct := openStorage(in.Setup)
	caller := in.Setup.Str("caller") // vuln:source
	for i := range in.Setup.Int("writes") {
		m.Step()
		acct.data[acct.used] = uint64(i) // vuln:sink
		acct.used++
	}
	return exemplar.Values{"foreign_write": caller != acct.owner, "used": acct.used}, nil
}

func (s *StorageManagement) Secure(m *exemplar.Meter, in exemplar.Input) (exemplar.Values, error) {
	acct := openStorage(in.Setup)
	caller := in.Setup.Str("caller")
	if caller != acct.owner {
		return nil, exemplar.Reject("account not owned by caller")
	}
	for i := range in.Setup.Int("writes") {
		m.Step()
		if acct.used >= len(acct.data) {
			return nil, exemplar.Reject("account capacity exceeded")
		}
		acct.data[acct.used] = uint64(i)
		acct.used++
	}
	return exemplar.Values{"foreign_write": false, "used": acct.used}, nil
}
