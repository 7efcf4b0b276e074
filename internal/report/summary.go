// Package report tallies the data-quality flags of a normalized table.
package report

import (
	"sort"
	"strconv"

	"pensionqa/internal/formatter"
	"pensionqa/internal/models"
)

// Outcome is one flag value and how many rows carry it.
type Outcome struct {
	Value string
	Rows  int
}

// CheckTally counts the outcomes of one check column.
type CheckTally struct {
	Column   string
	Outcomes []Outcome
}

// Summary is the per-check breakdown of a run.
type Summary struct {
	Rows   int
	Checks []CheckTally
}

type check struct {
	column string
	value  func(models.CanonicalRecord) string
}

// checks lists the flag columns in output order.
var checks = []check{
	{"Missing DOB?", func(r models.CanonicalRecord) string { return r.MissingDOB }},
	{"Missing Spouse DOB?", func(r models.CanonicalRecord) string { return r.MissingSpouseDOB }},
	{"Member Gender Anomaly", func(r models.CanonicalRecord) string { return r.MemberGenderAnomaly }},
	{"Spouse Gender Anomaly", func(r models.CanonicalRecord) string { return r.SpouseGenderAnomaly }},
	{"Gender Mismatch", func(r models.CanonicalRecord) string { return r.GenderMismatch }},
	{"Postal Code Check", func(r models.CanonicalRecord) string { return r.PostalCodeCheck }},
	{"Pension Amount Check", func(r models.CanonicalRecord) string { return r.PensionCheck }},
	{"Guarantee Check", func(r models.CanonicalRecord) string { return r.GuaranteeCheck }},
	{"Unlocated Check", func(r models.CanonicalRecord) string { return r.UnlocatedCheck }},
	{"Member Name Check", func(r models.CanonicalRecord) string { return r.MemberNameCheck }},
	{"Spouse Name Check", func(r models.CanonicalRecord) string { return r.SpouseNameCheck }},
	{"Beneficiary Name Check", func(r models.CanonicalRecord) string { return r.BeneficiaryNameCheck }},
}

// Summarize counts every flag value per check column. Outcomes are sorted by
// descending row count, then by value.
func Summarize(records []models.CanonicalRecord) Summary {
	summary := Summary{Rows: len(records)}

	for _, c := range checks {
		counts := make(map[string]int)
		for _, rec := range records {
			counts[c.value(rec)]++
		}

		tally := CheckTally{Column: c.column}
		for value, n := range counts {
			tally.Outcomes = append(tally.Outcomes, Outcome{Value: value, Rows: n})
		}

		sort.Slice(tally.Outcomes, func(i, j int) bool {
			a, b := tally.Outcomes[i], tally.Outcomes[j]
			if a.Rows != b.Rows {
				return a.Rows > b.Rows
			}

			return a.Value < b.Value
		})

		summary.Checks = append(summary.Checks, tally)
	}

	return summary
}

// Markdown renders the summary as an aligned markdown table.
func (s Summary) Markdown() string {
	var rows [][]string

	for _, c := range s.Checks {
		for _, o := range c.Outcomes {
			rows = append(rows, []string{c.Column, o.Value, strconv.Itoa(o.Rows)})
		}
	}

	return formatter.RenderTable([]string{"Check", "Outcome", "Rows"}, rows)
}
