package organizer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// newOperationID builds the identifier shared by every record of one live
// organize run: a timestamp for readability plus a random component so
// rapid successive runs never collide.
func newOperationID(clock Clock, idgen IDGenerator) string {
	random := idgen.New()
	if len(random) > 8 {
		random = random[:8]
	}
	return fmt.Sprintf("run_%s_%s", clock.Now().Format("20060102_150405"), random)
}
