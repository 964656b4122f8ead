package memory

import (
	"fmt"
	"strings"

	"gatecheck/internal/registry/models"
)

// DevRoster returns a small sample roster for one partition so a developer
// can scan something without provisioning real data. Never used when a
// Postgres DSN is configured.
func DevRoster(partition models.Partition) []models.Record {
	prefix := strings.ToUpper(strings.Split(partition.Name, "_")[0])
	records := make([]models.Record, 0, 3)
	for i := 1; i <= 3; i++ {
		records = append(records, models.Record{
			ID:       fmt.Sprintf("%s-dev-%d", partition.Name, i),
			KeyCode:  fmt.Sprintf("%s-DEV-%02d", prefix, i),
			FullName: fmt.Sprintf("Dev %s %d", prefix, i),
			Contact:  "0000000000",
			VIP:      partition.VIP,
		})
	}
	return records
}
