// Package models holds the registry's record types and requests. Records are
// owned exclusively by the ledger; everything handed outward is a copy.
package models

import (
	"time"

	"certledger/pkg/domain"
	dErrors "certledger/pkg/domain-errors"
)

// Certificate is the authoritative record of one issued academic credential.
// ID, Issuer, FileHash, and IssuedAt never change after mint. Valid starts
// true and transitions to false exactly once; the record itself is never
// deleted.
type Certificate struct {
	ID             domain.TokenID `json:"id"`
	Holder         domain.Address `json:"holder"`
	Issuer         domain.Address `json:"issuer"`
	URI            string         `json:"uri"`
	StudentName    string         `json:"student_name"`
	DegreeName     string         `json:"degree_name"`
	FileHash       domain.Hash    `json:"file_hash"`
	DateOfBirth    string         `json:"date_of_birth"`
	Classification string         `json:"classification"`
	FormOfTraining string         `json:"form_of_training"`
	GraduationYear string         `json:"graduation_year"`
	IssuedAt       time.Time      `json:"issued_at"`
	Valid          bool           `json:"valid"`
}

// Issuer is a directory entry for an institution authorized to mint.
type Issuer struct {
	Address domain.Address `json:"address"`
	Name    string         `json:"name"`
	AddedAt time.Time      `json:"added_at"`
}

// MintRequest carries the fields of one credential to issue.
type MintRequest struct {
	Holder         domain.Address
	URI            string
	StudentName    string
	DegreeName     string
	FileHash       domain.Hash
	DateOfBirth    string
	Classification string
	FormOfTraining string
	GraduationYear string
}

// Validate rejects malformed rows before any state is touched.
//
// Errors: CodeInvalidArgument only.
func (r MintRequest) Validate() error {
	if r.Holder.IsZero() {
		return dErrors.New(dErrors.CodeInvalidArgument, "holder address is required")
	}
	if r.StudentName == "" {
		return dErrors.New(dErrors.CodeInvalidArgument, "student name is required")
	}
	if r.DegreeName == "" {
		return dErrors.New(dErrors.CodeInvalidArgument, "degree name is required")
	}
	if r.FileHash.IsZero() {
		return dErrors.New(dErrors.CodeInvalidArgument, "file hash is required")
	}
	return nil
}

// BatchMintRequest carries parallel arrays of mint fields, the wire shape the
// issuing frontends submit. All arrays must have equal length.
type BatchMintRequest struct {
	Holders         []domain.Address
	URIs            []string
	StudentNames    []string
	DegreeNames     []string
	FileHashes      []domain.Hash
	DatesOfBirth    []string
	Classifications []string
	FormsOfTraining []string
	GraduationYears []string
}

// Rows converts the parallel arrays into per-credential requests.
//
// Errors: CodeLengthMismatch when any array disagrees on length,
// CodeInvalidArgument when the batch is empty.
func (b BatchMintRequest) Rows() ([]MintRequest, error) {
	n := len(b.Holders)
	if n == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidArgument, "batch is empty")
	}
	for _, l := range []int{
		len(b.URIs), len(b.StudentNames), len(b.DegreeNames), len(b.FileHashes),
		len(b.DatesOfBirth), len(b.Classifications), len(b.FormsOfTraining), len(b.GraduationYears),
	} {
		if l != n {
			return nil, dErrors.New(dErrors.CodeLengthMismatch, "batch arrays must have equal length")
		}
	}
	rows := make([]MintRequest, n)
	for i := range n {
		rows[i] = MintRequest{
			Holder:         b.Holders[i],
			URI:            b.URIs[i],
			StudentName:    b.StudentNames[i],
			DegreeName:     b.DegreeNames[i],
			FileHash:       b.FileHashes[i],
			DateOfBirth:    b.DatesOfBirth[i],
			Classification: b.Classifications[i],
			FormOfTraining: b.FormsOfTraining[i],
			GraduationYear: b.GraduationYears[i],
		}
	}
	return rows, nil
}
