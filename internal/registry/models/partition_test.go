package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPartitionLabel(t *testing.T) {
	t.Run("explicit display label wins", func(t *testing.T) {
		p := Partition{Name: "ggu_students", DisplayLabel: "GGU COLLEGE"}
		require.Equal(t, "GGU COLLEGE", p.Label())
	})

	t.Run("derives a label from the partition name", func(t *testing.T) {
		p := Partition{Name: "maitri_faculty_registrations"}
		require.Equal(t, "MAITRI FACULTY REGISTRATIONS", p.Label())
	})
}

func TestDefaultPartitions(t *testing.T) {
	partitions := DefaultPartitions()
	require.Len(t, partitions, 7)

	// Probe order is the documented duplicate tie-break; keep it stable.
	require.Equal(t, "ggu_students", partitions[0].Name)
	require.Equal(t, "maitri_faculty_registrations", partitions[6].Name)

	vipCount := 0
	for _, p := range partitions {
		require.NotEmpty(t, p.KeyField)
		if p.VIP {
			vipCount++
		}
	}
	require.Equal(t, 1, vipCount)
	require.Equal(t, "maitri_vip_registrations", partitions[5].Name)
	require.True(t, partitions[5].VIP)
}
