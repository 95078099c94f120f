// Package report derives statistics and filtered views from consultation
// lists. The derivations are pure functions over an in-memory slice so they
// can be recomputed freely; only Dashboard touches the database.
package report

import (
	"strings"

	"github.com/mvillanueva/dentaladmin_backend/internal/model"
)

// PageSize is the fixed window applied after filtering.
const PageSize = 5

// StatusFilterAll disables the status predicate in FilterConsultations.
const StatusFilterAll = "all"

// unknownDentist is the bucket for consultations whose dentist relation was
// not resolved.
const unknownDentist = "Unknown"

type StatusCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Complete int `json:"complete"`
}

// DeriveStatusCounts tallies consultations by status, matching
// case-insensitively. Single pass, no side effects.
func DeriveStatusCounts(consultations []model.Consultation) StatusCounts {
	counts := StatusCounts{Total: len(consultations)}
	for _, c := range consultations {
		switch strings.ToLower(c.Status) {
		case model.StatusPending:
			counts.Pending++
		case model.StatusApproved:
			counts.Approved++
		case model.StatusRejected:
			counts.Rejected++
		case model.StatusComplete:
			counts.Complete++
		}
	}
	return counts
}

// DeriveMonthlyTrend buckets consultations into the 12 calendar months of
// AppointmentDate. Year is ignored: consultations from different years land
// in the same month bucket. Index 0 is January.
func DeriveMonthlyTrend(consultations []model.Consultation) [12]int {
	var buckets [12]int
	for _, c := range consultations {
		buckets[int(c.AppointmentDate.Month())-1]++
	}
	return buckets
}

type DentistStats struct {
	Dentist  string `json:"dentist"`
	Total    int    `json:"total"`
	Approved int    `json:"approved"`
	Pending  int    `json:"pending"`
	Rejected int    `json:"rejected"`
}

// DerivePerDentistStats groups consultations by dentist display name, in
// first-seen order. Two dentists sharing a name collapse into one bucket;
// unresolved dentist relations land under "Unknown".
func DerivePerDentistStats(consultations []model.Consultation) []DentistStats {
	index := make(map[string]int)
	stats := make([]DentistStats, 0)

	for _, c := range consultations {
		name := unknownDentist
		if c.Dentist != nil && c.Dentist.Name != "" {
			name = c.Dentist.Name
		}

		i, ok := index[name]
		if !ok {
			i = len(stats)
			index[name] = i
			stats = append(stats, DentistStats{Dentist: name})
		}

		stats[i].Total++
		switch strings.ToLower(c.Status) {
		case model.StatusApproved:
			stats[i].Approved++
		case model.StatusPending:
			stats[i].Pending++
		case model.StatusRejected:
			stats[i].Rejected++
		}
	}
	return stats
}

// FilterConsultations applies a status predicate and a patient-name search,
// composed by AND. statusFilter "all" (or empty) matches every status; the
// search term is trimmed and matched case-insensitively against the patient's
// concatenated first and last name. Idempotent: filtering a filtered result
// with the same predicates returns the identical set.
func FilterConsultations(consultations []model.Consultation, statusFilter, searchTerm string) []model.Consultation {
	statusFilter = strings.ToLower(strings.TrimSpace(statusFilter))
	searchTerm = strings.ToLower(strings.TrimSpace(searchTerm))

	out := make([]model.Consultation, 0, len(consultations))
	for _, c := range consultations {
		if statusFilter != "" && statusFilter != StatusFilterAll &&
			!strings.EqualFold(c.Status, statusFilter) {
			continue
		}
		if searchTerm != "" {
			if c.Patient == nil {
				continue
			}
			fullName := strings.ToLower(c.Patient.FirstName + " " + c.Patient.LastName)
			if !strings.Contains(fullName, searchTerm) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// Paginate returns the 1-based page window of size PageSize. Pages past the
// end are empty.
func Paginate(consultations []model.Consultation, page int) []model.Consultation {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(consultations) {
		return []model.Consultation{}
	}
	end := start + PageSize
	if end > len(consultations) {
		end = len(consultations)
	}
	return consultations[start:end]
}

// TotalPages reports how many pages the list spans; an empty list has one.
func TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}
