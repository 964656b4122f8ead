package handler

import (
	"strings"

	derrors "gatecheck/pkg/domain-errors"
)

// ScanRequest is the HTTP request body for POST /scan/check-in.
type ScanRequest struct {
	Code string `json:"code"`
}

// Validate normalizes the scanned text. The core enforces no format beyond
// trimming; length is capped to keep junk scans out of the stores.
func (r *ScanRequest) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	if r.Code == "" {
		return derrors.New(derrors.CodeValidation, "code is required")
	}
	if len(r.Code) > 64 {
		return derrors.New(derrors.CodeValidation, "code must be at most 64 characters")
	}
	return nil
}
