package domain

import (
	"fmt"
	"strings"
)

// Role names as carried in tokens and the users table. A user may hold both;
// exactly one is active at a time.
const (
	RoleClient     = "Client"
	RoleContractor = "Contractor"
)

// JobStatus is the canonical job lifecycle state. The wire format is the
// string name; legacy numeric codes from earlier API revisions are accepted
// on input only (see ParseJobStatus).
type JobStatus string

const (
	JobPending   JobStatus = "Pending"
	JobAccepted  JobStatus = "Accepted"
	JobDeclined  JobStatus = "Declined"
	JobCompleted JobStatus = "Completed"
)

// ParseJobStatus normalizes a status name or legacy numeric code. The
// historical "Cancelled" variant is deliberately not recognized.
func ParseJobStatus(s string) (JobStatus, error) {
	switch strings.TrimSpace(s) {
	case "Pending", "pending", "0":
		return JobPending, nil
	case "Accepted", "accepted", "1":
		return JobAccepted, nil
	case "Declined", "declined", "2":
		return JobDeclined, nil
	case "Completed", "completed", "3":
		return JobCompleted, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// Terminal reports whether no outbound transition exists from s.
func (s JobStatus) Terminal() bool {
	return s == JobDeclined || s == JobCompleted
}

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	IsClient     bool   `json:"isClient"`
	IsContractor bool   `json:"isContractor"`
	ActiveRole   string `json:"activeRole" enum:"Client,Contractor"`
	CreatedAt    string `json:"created_at" format:"date-time"`
}

// Roles returns the set of roles the user holds, independent of which one is
// currently active.
func (u User) Roles() []string {
	var roles []string
	if u.IsClient {
		roles = append(roles, RoleClient)
	}
	if u.IsContractor {
		roles = append(roles, RoleContractor)
	}
	return roles
}

func (u User) HasRole(role string) bool {
	switch role {
	case RoleClient:
		return u.IsClient
	case RoleContractor:
		return u.IsContractor
	}
	return false
}

type ContractorProfile struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	FullName    string  `json:"fullName"`
	CompanyName string  `json:"companyName,omitempty"`
	Bio         string  `json:"bio,omitempty"`
	Services    string  `json:"services"`
	Location    string  `json:"location"`
	PriceLevel  int     `json:"priceLevel"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	CreatedAt   string  `json:"created_at" format:"date-time"`
	UpdatedAt   string  `json:"updated_at" format:"date-time"`
}

// Job is a unit of work requested by a client from a contractor. Both
// participants are fixed at creation; only status and the decline message
// change afterwards.
type Job struct {
	ID              string    `json:"id"`
	ClientID        string    `json:"clientId"`
	ContractorID    string    `json:"contractorId"`
	Description     string    `json:"description"`
	PreferredDate   string    `json:"preferredDate" format:"date"`
	Status          JobStatus `json:"status" enum:"Pending,Accepted,Declined,Completed"`
	ResponseMessage *string   `json:"responseMessage,omitempty"`
	CreatedAt       string    `json:"created_at" format:"date-time"`
	UpdatedAt       string    `json:"updated_at" format:"date-time"`
}

type Review struct {
	ID          string `json:"id"`
	JobID       string `json:"jobId"`
	ClientID    string `json:"clientId"`
	ClientEmail string `json:"clientEmail,omitempty"`
	Rating      int    `json:"rating" minimum:"1" maximum:"5"`
	Comment     string `json:"comment,omitempty"`
	CreatedAt   string `json:"created_at" format:"date-time"`
}

type Message struct {
	ID          string `json:"id"`
	JobID       string `json:"jobId"`
	SenderID    string `json:"senderId"`
	SenderEmail string `json:"senderEmail,omitempty"`
	Text        string `json:"text"`
	CreatedAt   string `json:"created_at" format:"date-time"`
}

// Photo types on contractor profiles.
const (
	PhotoProfile   = 0
	PhotoPortfolio = 1
)

// Photo is an uploaded image. OwnerKind is "contractor" or "job"; the binary
// payload is stored alongside and omitted from listings.
type Photo struct {
	ID          string `json:"id"`
	OwnerKind   string `json:"-"`
	OwnerID     string `json:"-"`
	Type        int    `json:"type"`
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	UploadedAt  string `json:"uploadedAt" format:"date-time"`
	Data        []byte `json:"-"`
}

type Event struct {
	ID      int64  `json:"id"`
	TS      string `json:"ts" format:"date-time"`
	Type    string `json:"type"`
	JobID   string `json:"job_id,omitempty"`
	ActorID string `json:"actor_id"`
	Payload string `json:"payload_json"`
}

type JobStats struct {
	TotalJobs     int `json:"totalJobs"`
	PendingJobs   int `json:"pendingJobs"`
	AcceptedJobs  int `json:"acceptedJobs"`
	DeclinedJobs  int `json:"declinedJobs"`
	CompletedJobs int `json:"completedJobs"`
}

// ReviewableJob is a completed job still awaiting a review from its client.
type ReviewableJob struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	PreferredDate  string `json:"preferredDate" format:"date"`
	ContractorName string `json:"contractorName"`
}
