package handler

import (
	"certledger/internal/registry/models"
	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// Wire shapes. Loosely-typed strings are parsed into ledger values here, at
// the boundary, so the state machine only ever sees well-formed input.

type mintRequest struct {
	Holder         string `json:"holder"`
	URI            string `json:"uri"`
	StudentName    string `json:"student_name"`
	DegreeName     string `json:"degree_name"`
	FileHash       string `json:"file_hash"`
	DateOfBirth    string `json:"date_of_birth"`
	Classification string `json:"classification"`
	FormOfTraining string `json:"form_of_training"`
	GraduationYear string `json:"graduation_year"`
}

func (r mintRequest) toModel() (models.MintRequest, error) {
	holder, err := domain.ParseAddress(r.Holder)
	if err != nil {
		return models.MintRequest{}, dErrors.Wrap(err, dErrors.CodeInvalidArgument, "holder")
	}
	hash, err := domain.ParseHash(r.FileHash)
	if err != nil {
		return models.MintRequest{}, dErrors.Wrap(err, dErrors.CodeInvalidArgument, "file_hash")
	}
	return models.MintRequest{
		Holder:         holder,
		URI:            r.URI,
		StudentName:    r.StudentName,
		DegreeName:     r.DegreeName,
		FileHash:       hash,
		DateOfBirth:    r.DateOfBirth,
		Classification: r.Classification,
		FormOfTraining: r.FormOfTraining,
		GraduationYear: r.GraduationYear,
	}, nil
}

type batchMintRequest struct {
	Holders         []string `json:"holders"`
	URIs            []string `json:"uris"`
	StudentNames    []string `json:"student_names"`
	DegreeNames     []string `json:"degree_names"`
	FileHashes      []string `json:"file_hashes"`
	DatesOfBirth    []string `json:"dates_of_birth"`
	Classifications []string `json:"classifications"`
	FormsOfTraining []string `json:"forms_of_training"`
	GraduationYears []string `json:"graduation_years"`
}

func (r batchMintRequest) toModel() (models.BatchMintRequest, error) {
	batch := models.BatchMintRequest{
		URIs:            r.URIs,
		StudentNames:    r.StudentNames,
		DegreeNames:     r.DegreeNames,
		DatesOfBirth:    r.DatesOfBirth,
		Classifications: r.Classifications,
		FormsOfTraining: r.FormsOfTraining,
		GraduationYears: r.GraduationYears,
	}
	for _, raw := range r.Holders {
		addr, err := domain.ParseAddress(raw)
		if err != nil {
			return models.BatchMintRequest{}, dErrors.Wrap(err, dErrors.CodeInvalidArgument, "holders")
		}
		batch.Holders = append(batch.Holders, addr)
	}
	for _, raw := range r.FileHashes {
		hash, err := domain.ParseHash(raw)
		if err != nil {
			return models.BatchMintRequest{}, dErrors.Wrap(err, dErrors.CodeInvalidArgument, "file_hashes")
		}
		batch.FileHashes = append(batch.FileHashes, hash)
	}
	return batch, nil
}

type addIssuerRequest struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type grantRoleRequest struct {
	Role    string `json:"role"`
	Address string `json:"address"`
}
