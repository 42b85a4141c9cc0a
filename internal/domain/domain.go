package domain

import (
	"strings"
	"time"
)

// EntityType names one of the three record collections. It doubles as the
// cache namespace and the event topic segment for that collection.
type EntityType string

const (
	EntityDoctor      EntityType = "doctor"
	EntityPatient     EntityType = "patient"
	EntityAppointment EntityType = "appointment"
)

// RecordState is the lifecycle state of a stored record. The only transition
// is active -> deleted; deleted is terminal and no code path may revive a
// record.
type RecordState string

const (
	StateActive  RecordState = "active"
	StateDeleted RecordState = "deleted"
)

type DocumentType string

const (
	DocumentDNI      DocumentType = "DNI"
	DocumentNIE      DocumentType = "NIE"
	DocumentPassport DocumentType = "passport"
)

func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentDNI, DocumentNIE, DocumentPassport:
		return true
	}
	return false
}

// PersonalInformation is the shared identity block carried by doctors and
// patients. Document is the caller-facing natural key, distinct from the
// store-assigned id.
type PersonalInformation struct {
	Name       string       `gorm:"column:name;type:varchar(100)" json:"name"`
	Surname    string       `gorm:"column:surname;type:varchar(100)" json:"surname"`
	BirthDate  time.Time    `gorm:"column:birth_date" json:"birthDate"`
	IDDocument DocumentType `gorm:"column:id_document;type:varchar(20)" json:"idDocument"`
	Document   string       `gorm:"column:document;type:varchar(50)" json:"document"`
}

// Merge overlays the non-zero fields of in onto p.
func (p *PersonalInformation) Merge(in PersonalInformation) {
	if strings.TrimSpace(in.Name) != "" {
		p.Name = in.Name
	}
	if strings.TrimSpace(in.Surname) != "" {
		p.Surname = in.Surname
	}
	if !in.BirthDate.IsZero() {
		p.BirthDate = in.BirthDate
	}
	if in.IDDocument != "" {
		p.IDDocument = in.IDDocument
	}
	if strings.TrimSpace(in.Document) != "" {
		p.Document = in.Document
	}
}

// MaxPageSize is the largest page the transport layer may request. The limit
// belongs to the caller side of the contract; repositories honor whatever
// size they are handed.
const MaxPageSize = 99

const DefaultPageSize = 20

// PageRequest describes pagination for list queries.
type PageRequest struct {
	Page      int
	Size      int
	SortBy    string
	SortOrder string // "asc" | "desc"
}

// Normalize fills defaults without clamping an oversized page; rejecting
// those is the caller's job.
func (p PageRequest) Normalize() PageRequest {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.SortOrder != "desc" {
		p.SortOrder = "asc"
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}
