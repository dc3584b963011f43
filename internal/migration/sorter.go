package migration

import "sort"

// Sort returns a new slice of migrations sorted by Filename in byte-wise
// lexicographic order. Numeric prefixes are not interpreted, so "10_x.sql"
// sorts before "9_x.sql".
func Sort(migrations []Migration) []Migration {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Filename < sorted[j].Filename
	})

	return sorted
}

// Pending returns the migrations whose Filename is not in applied,
// keeping the order of all.
func Pending(all []Migration, applied []string) []Migration {
	done := make(map[string]struct{}, len(applied))
	for _, name := range applied {
		done[name] = struct{}{}
	}

	var pending []Migration

	for _, m := range all {
		if _, ok := done[m.Filename]; ok {
			continue
		}

		pending = append(pending, m)
	}

	return pending
}

// Orphaned returns ledger entries that have no matching migration file,
// in ledger order.
func Orphaned(all []Migration, applied []string) []string {
	known := make(map[string]struct{}, len(all))
	for _, m := range all {
		known[m.Filename] = struct{}{}
	}

	var orphaned []string

	for _, name := range applied {
		if _, ok := known[name]; !ok {
			orphaned = append(orphaned, name)
		}
	}

	return orphaned
}
