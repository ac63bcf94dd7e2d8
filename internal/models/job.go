package models

import (
	"encoding/json"
	"fmt"
)

// NotAvailable marks a text field the provider did not supply.
const NotAvailable = "N/A"

type ApplyOption struct {
	Title string `json:"title,omitempty"`
	Link  string `json:"link,omitempty"`
}

type DetectedExtensions struct {
	PostedAt     string `json:"posted_at,omitempty"`
	ScheduleType string `json:"schedule_type,omitempty"`
	Salary       string `json:"salary,omitempty"`
	WorkFromHome bool   `json:"work_from_home,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// RawJob is one google_jobs result as returned by the provider.
// Keys without a named field are kept in Extra so the record round-trips.
type RawJob struct {
	JobID              string              `json:"job_id,omitempty"`
	Title              string              `json:"title,omitempty"`
	CompanyName        string              `json:"company_name,omitempty"`
	Company            string              `json:"company,omitempty"`
	Location           string              `json:"location,omitempty"`
	Via                string              `json:"via,omitempty"`
	ShareLink          string              `json:"share_link,omitempty"`
	Description        string              `json:"description,omitempty"`
	Extensions         []string            `json:"extensions,omitempty"`
	DetectedExtensions *DetectedExtensions `json:"detected_extensions,omitempty"`
	ApplyOptions       []ApplyOption       `json:"apply_options,omitempty"`
	SearchLocation     string              `json:"search_location,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// CompanyDisplay prefers company_name and falls back to company.
func (r RawJob) CompanyDisplay() string {
	if r.CompanyName != "" {
		return r.CompanyName
	}
	return r.Company
}

// ScheduleType returns detected_extensions.schedule_type or "".
func (r RawJob) ScheduleType() string {
	if r.DetectedExtensions == nil {
		return ""
	}
	return r.DetectedExtensions.ScheduleType
}

type rawJobFields RawJob

func (r *RawJob) UnmarshalJSON(data []byte) error {
	var fields rawJobFields
	extra, err := splitExtra(data, &fields)
	if err != nil {
		return fmt.Errorf("failed to decode job record: %w", err)
	}
	*r = RawJob(fields)
	r.Extra = extra
	return nil
}

func (r RawJob) MarshalJSON() ([]byte, error) {
	return mergeExtra(rawJobFields(r), r.Extra)
}

type detectedFields DetectedExtensions

func (d *DetectedExtensions) UnmarshalJSON(data []byte) error {
	var fields detectedFields
	extra, err := splitExtra(data, &fields)
	if err != nil {
		return fmt.Errorf("failed to decode detected_extensions: %w", err)
	}
	*d = DetectedExtensions(fields)
	d.Extra = extra
	return nil
}

func (d DetectedExtensions) MarshalJSON() ([]byte, error) {
	return mergeExtra(detectedFields(d), d.Extra)
}

// SalaryRange is an annualised salary band.
type SalaryRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Job is the normalized, display-ready view of a RawJob.
type Job struct {
	Title          string       `json:"title"`
	Company        string       `json:"company"`
	Location       string       `json:"location"`
	Link           *string      `json:"link"`
	PostedDate     string       `json:"posted_date"`
	SearchLocation string       `json:"search_location"`
	Salary         *SalaryRange `json:"salary"`
	SalaryRaw      string       `json:"salary_raw"`
}
