package application

import "sort"

// TopOrganizations is how many organizations a complex report ranks.
const TopOrganizations = 3

// OrganizationCount is an organization with its meeting total.
type OrganizationCount struct {
	Name  string
	Count int
}

// ComplexReport summarizes one complex.
type ComplexReport struct {
	Name     string
	Total    int
	ByStatus map[Status]int
	Top      []OrganizationCount
}

// Report summarizes aggregate rows per complex.
type Report struct {
	Complexes []ComplexReport
	Total     int
}

// BuildReport folds aggregate rows into per-complex totals. Complexes keep
// the order in which they first appear in rows.
func BuildReport(rows []StatRow) Report {
	var report Report
	index := make(map[string]int)
	orgCounts := make(map[string]map[string]int)

	for _, row := range rows {
		i, ok := index[row.ComplexName]
		if !ok {
			i = len(report.Complexes)
			index[row.ComplexName] = i
			report.Complexes = append(report.Complexes, ComplexReport{
				Name:     row.ComplexName,
				ByStatus: make(map[Status]int),
			})
			orgCounts[row.ComplexName] = make(map[string]int)
		}
		c := &report.Complexes[i]
		c.Total += row.Count
		c.ByStatus[row.Status] += row.Count
		orgCounts[row.ComplexName][row.OrganizationName] += row.Count
		report.Total += row.Count
	}

	for i := range report.Complexes {
		c := &report.Complexes[i]
		for name, count := range orgCounts[c.Name] {
			c.Top = append(c.Top, OrganizationCount{Name: name, Count: count})
		}
		sort.Slice(c.Top, func(a, b int) bool {
			if c.Top[a].Count != c.Top[b].Count {
				return c.Top[a].Count > c.Top[b].Count
			}
			return c.Top[a].Name < c.Top[b].Name
		})
		if len(c.Top) > TopOrganizations {
			c.Top = c.Top[:TopOrganizations]
		}
	}
	return report
}
