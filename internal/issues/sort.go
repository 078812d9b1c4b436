package issues

import "sort"

// Sort orders issues by severity (ERROR > HIGH > NORMAL > LOW),
// then by file and line ascending.
func Sort(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		oi := issues[i].Severity.order()
		oj := issues[j].Severity.order()
		if oi != oj {
			return oi < oj
		}
		if issues[i].File != issues[j].File {
			return issues[i].File < issues[j].File
		}
		return issues[i].Line < issues[j].Line
	})
}
