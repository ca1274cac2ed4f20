package handler

import (
	"time"

	"certledger/internal/registry/models"
	"certledger/internal/registry/service"
	"certledger/pkg/domain"
)

type certificateResponse struct {
	ID             domain.TokenID `json:"id"`
	Holder         string         `json:"holder"`
	Issuer         string         `json:"issuer"`
	URI            string         `json:"uri"`
	StudentName    string         `json:"student_name"`
	DegreeName     string         `json:"degree_name"`
	FileHash       string         `json:"file_hash"`
	DateOfBirth    string         `json:"date_of_birth"`
	Classification string         `json:"classification"`
	FormOfTraining string         `json:"form_of_training"`
	GraduationYear string         `json:"graduation_year"`
	IssuedAt       time.Time      `json:"issued_at"`
	Valid          bool           `json:"valid"`
}

func fromCertificate(c models.Certificate) certificateResponse {
	return certificateResponse{
		ID:             c.ID,
		Holder:         c.Holder.String(),
		Issuer:         c.Issuer.String(),
		URI:            c.URI,
		StudentName:    c.StudentName,
		DegreeName:     c.DegreeName,
		FileHash:       c.FileHash.String(),
		DateOfBirth:    c.DateOfBirth,
		Classification: c.Classification,
		FormOfTraining: c.FormOfTraining,
		GraduationYear: c.GraduationYear,
		IssuedAt:       c.IssuedAt,
		Valid:          c.Valid,
	}
}

type certificateListResponse struct {
	TokenIDs []domain.TokenID `json:"token_ids"`
}

type issuerResponse struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type issuerListResponse struct {
	Issuers []issuerResponse `json:"issuers"`
}

type schoolNameResponse struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type roleResponse struct {
	Role    string `json:"role"`
	Address string `json:"address"`
	HasRole bool   `json:"has_role"`
}

type verificationResponse struct {
	Used        bool                 `json:"used"`
	TokenID     domain.TokenID       `json:"token_id,omitempty"`
	SchoolName  string               `json:"school_name,omitempty"`
	Certificate *certificateResponse `json:"certificate,omitempty"`
}

func fromVerification(v *service.Verification) verificationResponse {
	cert := fromCertificate(v.Certificate)
	return verificationResponse{
		Used:        true,
		TokenID:     v.Certificate.ID,
		SchoolName:  v.SchoolName,
		Certificate: &cert,
	}
}

type batchMintResponse struct {
	TokenIDs []domain.TokenID `json:"token_ids"`
}

type eventListResponse struct {
	Events []models.Event `json:"events"`
}
