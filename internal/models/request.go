package models

import "time"

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type WordRequest struct {
	ID          string        `json:"id"`
	Bangla      string        `json:"bangla"`
	Korean      string        `json:"korean"`
	Notes       string        `json:"notes,omitempty"`
	SubmittedBy string        `json:"submittedBy"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// CanTransition allows only pending -> approved and pending -> rejected.
func (r WordRequest) CanTransition(to RequestStatus) bool {
	return r.Status == RequestPending && (to == RequestApproved || to == RequestRejected)
}

type WordRequestInput struct {
	Bangla      string `json:"bangla" validate:"required,bangla"`
	Korean      string `json:"korean" validate:"required,hangul"`
	SubmittedBy string `json:"submittedBy" validate:"required,submitter"`
}
