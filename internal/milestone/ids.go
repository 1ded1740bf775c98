package milestone

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/horizon/internal/domain"
)

// milestoneID is a name-based UUID, so identical runs produce identical ids
func milestoneID(t domain.MilestoneType, subject string, date time.Time) string {
	key := strings.Join([]string{string(t), subject, date.UTC().Format(time.RFC3339)}, "|")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String()
}
