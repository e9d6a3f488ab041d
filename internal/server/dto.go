package server

import (
	"zanatli/internal/domain"
	"zanatli/internal/engine"
)

// Request payloads

type RegisterRequest struct {
	Email        string `json:"email" format:"email"`
	Password     string `json:"password" minLength:"8"`
	IsClient     bool   `json:"isClient,omitempty"`
	IsContractor bool   `json:"isContractor,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" format:"email"`
	Password string `json:"password"`
}

type SetActiveRoleRequest struct {
	ActiveRole string `json:"activeRole" enum:"Client,Contractor"`
}

type ProfileRequest struct {
	FullName    string `json:"fullName"`
	CompanyName string `json:"companyName,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Services    string `json:"services"`
	Location    string `json:"location"`
	PriceLevel  int    `json:"priceLevel" minimum:"1" maximum:"3"`
}

type CreateJobRequest struct {
	ContractorID  string `json:"contractorId"`
	Description   string `json:"description"`
	PreferredDate string `json:"preferredDate" format:"date"`
}

type DeclineJobRequest struct {
	Reason string `json:"reason"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" minimum:"1" maximum:"5"`
	Comment string `json:"comment,omitempty"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

// Response payloads

type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type paginatedContractors struct {
	Items    []domain.ContractorProfile `json:"items"`
	Total    int                        `json:"total"`
	Page     int                        `json:"page"`
	PageSize int                        `json:"pageSize"`
}

func profileOptions(r ProfileRequest) engine.ProfileOptions {
	return engine.ProfileOptions{
		FullName:    r.FullName,
		CompanyName: r.CompanyName,
		Bio:         r.Bio,
		Services:    r.Services,
		Location:    r.Location,
		PriceLevel:  r.PriceLevel,
	}
}
