package sheetsync

import "time"

// istLayout mirrors the en-IN timestamp format the sheet has always received.
const istLayout = "02/01/2006, 03:04:05 pm"

var ist = mustLoadIST()

func mustLoadIST() *time.Location {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fixed offset fallback for environments without tzdata.
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

// FormatIST renders t in the sheet's reference timezone.
func FormatIST(t time.Time) string {
	return t.In(ist).Format(istLayout)
}

// IST returns the reference timezone shared with the aggregation service.
func IST() *time.Location {
	return ist
}
