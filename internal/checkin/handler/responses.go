package handler

import (
	"time"

	"gatecheck/internal/checkin/service"
)

// ScanResponse is the HTTP response for POST /scan/check-in.
type ScanResponse struct {
	Status       string     `json:"status"`
	Reason       string     `json:"reason,omitempty"`
	Message      string     `json:"message"`
	ScannedCode  string     `json:"scanned_code"`
	FullName     string     `json:"full_name,omitempty"`
	Block        string     `json:"block,omitempty"`
	VIP          bool       `json:"vip"`
	EnteredAt    *time.Time `json:"entered_at,omitempty"`
	Warning      string     `json:"warning,omitempty"`
	RunningTotal int64      `json:"running_total,omitempty"`
}

// FromResult converts a check-in outcome to an HTTP response.
func FromResult(res service.Result) *ScanResponse {
	out := &ScanResponse{
		Status:       string(res.Status),
		Reason:       string(res.Reason),
		Message:      res.Message,
		ScannedCode:  res.ScannedCode,
		Block:        res.PartitionLabel,
		VIP:          res.VIP,
		EnteredAt:    res.EnteredAt,
		Warning:      res.Warning,
		RunningTotal: res.RunningTotal,
	}
	if res.Record != nil {
		out.FullName = res.Record.FullName
	}
	return out
}
