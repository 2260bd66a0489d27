package types

// JobStatus is the approval lifecycle of a posting. A job is only ever
// active while approved.
type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusApproved JobStatus = "approved"
	JobStatusDeclined JobStatus = "declined"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusApproved, JobStatusDeclined:
		return true
	}
	return false
}

type ApplicationStatus string

const (
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusReviewed    ApplicationStatus = "reviewed"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusDownloaded  ApplicationStatus = "downloaded"
)

func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusSubmitted, ApplicationStatusReviewed, ApplicationStatusShortlisted,
		ApplicationStatusRejected, ApplicationStatusDownloaded:
		return true
	}
	return false
}

// HealthStatus is the green/amber/red classification of a job's pipeline.
type HealthStatus string

const (
	HealthStatusGreen HealthStatus = "green"
	HealthStatusAmber HealthStatus = "amber"
	HealthStatusRed   HealthStatus = "red"
)
