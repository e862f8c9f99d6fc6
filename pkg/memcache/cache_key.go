package mem

import (
	"strconv"
	"strings"
)

// keySeparator is the ASCII unit separator. Request validation rejects
// control characters in destinations, and the other key parts are an integer
// and two enums, so the joined key is unambiguous.
const keySeparator = "\x1f"

// PlanCacheKey joins the trip parameters exactly as submitted.
func PlanCacheKey(destination string, days int, groupType, budgetType string) string {
	return strings.Join([]string{destination, strconv.Itoa(days), groupType, budgetType}, keySeparator)
}
