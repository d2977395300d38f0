package remote

import (
	"fmt"
	"math"
)

// FormatTime renders seconds as m:ss. Negative and invalid values render as
// 0:00.
func FormatTime(sec float64) string {
	if sec <= 0 || math.IsNaN(sec) || math.IsInf(sec, 0) {
		return "0:00"
	}
	total := int(math.Floor(sec))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
