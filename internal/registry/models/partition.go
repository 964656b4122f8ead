package models

import "strings"

// Partition describes one independently-administered credential collection.
// The ordered partition list is static per deployment; ordering is the
// documented tie-break when a code is provisioned into two partitions.
type Partition struct {
	Name         string
	KeyField     string
	DisplayLabel string
	VIP          bool
}

// Label returns the human label for the partition, deriving one from the
// partition name when no explicit label is configured.
func (p Partition) Label() string {
	if p.DisplayLabel != "" {
		return p.DisplayLabel
	}
	return strings.ToUpper(strings.ReplaceAll(p.Name, "_", " "))
}

// DefaultPartitions is the deployment roster, in probe order.
func DefaultPartitions() []Partition {
	return []Partition{
		{Name: "ggu_students", KeyField: "pin_number", DisplayLabel: "GGU COLLEGE"},
		{Name: "giet_degree", KeyField: "pin_number", DisplayLabel: "GIET DEGREE"},
		{Name: "giet_engineering", KeyField: "pin_number", DisplayLabel: "GIET ENGINEERING"},
		{Name: "giet_pharmacy", KeyField: "pin_number", DisplayLabel: "GIET PHARMACY"},
		{Name: "giet_polytechnic", KeyField: "pin_number", DisplayLabel: "GIET POLY"},
		{Name: "maitri_vip_registrations", KeyField: "vip_code", DisplayLabel: "VIP GUESTS", VIP: true},
		{Name: "maitri_faculty_registrations", KeyField: "fac_code", DisplayLabel: "FACULTY & STAFF"},
	}
}
