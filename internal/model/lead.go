// Package model defines the lead, history, and discard types shared across
// the mailing pipeline.
package model

import "time"

// Field names the canonical input columns a source layout can map to.
type Field string

const (
	FieldName         Field = "name"
	FieldEmail        Field = "email"
	FieldCPF          Field = "cpf"
	FieldAge          Field = "age"
	FieldEducation    Field = "education"
	FieldPhone        Field = "phone"
	FieldPhone2       Field = "phone2"
	FieldOriginCity   Field = "origin_city"
	FieldTargetCity   Field = "target_city"
	FieldAddress      Field = "address"
	FieldSource       Field = "source"
	FieldSubmittedAt  Field = "submitted_at"
	FieldEnrollmentID Field = "enrollment_id"
	FieldReferrerName Field = "referrer_name"
)

// RequiredFields must be present in a layout for its source to be ingested.
var RequiredFields = []Field{FieldTargetCity, FieldSubmittedAt}

// RawLead holds the untouched values read from one source row.
// Empty string means the column was absent or blank.
type RawLead struct {
	Name         string
	Email        string
	CPF          string
	Age          string
	Education    string
	Phone        string
	Phone2       string
	OriginCity   string
	TargetCity   string
	Address      string
	Source       string
	SubmittedAt  string
	EnrollmentID string
	ReferrerName string

	SheetKey string // config key of the source sheet the row came from
}

// AgeHint marks yes/no adulthood answers that carry no numeric age.
type AgeHint int

const (
	AgeHintNone AgeHint = iota
	AgeHintAdult
	AgeHintMinor
)

// Age is the canonical form of the age column. Known reports whether Years
// holds a numeric age; Hint covers the "is over 18?" style answers.
type Age struct {
	Years int
	Known bool
	Hint  AgeHint
}

// Underage reports whether the age mandates exclusion. Unknown ages and the
// adult hint pass.
func (a Age) Underage() bool {
	if a.Known && a.Years < 18 {
		return true
	}
	return a.Hint == AgeHintMinor
}

// Education is the canonical education category.
type Education string

const (
	EducationNone                Education = ""
	EducationPostgraduate        Education = "postgraduate"
	EducationMasters             Education = "masters"
	EducationDoctorate           Education = "doctorate"
	EducationHigherComplete      Education = "higher_complete"
	EducationHigherIncomplete    Education = "higher_incomplete"
	EducationSecondaryComplete   Education = "secondary_complete"
	EducationSecondaryIncomplete Education = "secondary_incomplete"
	EducationPrimaryComplete     Education = "primary_complete"
	EducationPrimaryIncomplete   Education = "primary_incomplete"
)

// Primary reports whether the category is primary education, complete or not.
// Only primary education trips the education discard; absent education passes.
func (e Education) Primary() bool {
	return e == EducationPrimaryComplete || e == EducationPrimaryIncomplete
}

// Lead is one candidate submission. Raw fields never change after ingestion;
// normalized mirrors are written once by the normalization pass and derived
// fields by the downstream passes.
type Lead struct {
	Raw   RawLead
	Index int // batch position, fixed at ingestion

	// Normalized mirrors. Empty string means absent.
	Name         string
	Email        string
	CPF          string
	Phone        string
	Phone2       string
	Age          Age
	Education    Education
	OriginCity   string
	TargetCity   string
	Address      string
	EnrollmentID string
	ReferrerName string
	SubmittedAt  time.Time

	// Derived fields.
	City         string // combined city tag: target city, else origin, else default
	SourceTag    string // canonical source tag, empty when unmapped
	CPFOrdinal   int    // 1-based occurrence of the CPF within the batch
	PhoneOrdinal int    // 1-based occurrence of the phone within the batch
	Flags        DiscardSet
	PartitionKey string
}

// Recommended reports whether the lead survives every discard predicate.
func (l *Lead) Recommended() bool {
	return len(l.Flags) == 0
}
