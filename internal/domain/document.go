package domain

import "encoding/json"

// DocumentStatus is independent of the subject-level KYC status.
type DocumentStatus string

const (
	DocumentStatusVerified DocumentStatus = "verified"
	DocumentStatusPending  DocumentStatus = "pending"
	DocumentStatusMissing  DocumentStatus = "missing"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// DetailsKind discriminates the extracted-field variant carried by a document.
type DetailsKind string

const (
	DetailsKindIdentity DetailsKind = "identity"
	DetailsKindAcademic DetailsKind = "academic"
)

// Document is one typed, independently-statused piece of evidence attached to
// a subject. Type is a free-form category such as "Aadhaar Card" or
// "10th Marksheet".
type Document struct {
	Type    string          `json:"type"`
	Status  DocumentStatus  `json:"status"`
	Details DocumentDetails `json:"details,omitempty"`
}

// DocumentDetails is the tagged variant of extracted fields. Exactly one of
// Identity or Academic is set for known kinds; unknown kinds keep their raw
// payload and are inert.
type DocumentDetails struct {
	Kind     DetailsKind      `json:"kind"`
	Identity *IdentityDetails `json:"identity,omitempty"`
	Academic *AcademicDetails `json:"academic,omitempty"`
	Raw      json.RawMessage  `json:"raw,omitempty"`
}

// IdentityDetails carries fields extracted from identity documents.
type IdentityDetails struct {
	IDNumber   string `json:"id_number"`
	HolderName string `json:"holder_name"`
	Gender     string `json:"gender,omitempty"`
	IssuedBy   string `json:"issued_by,omitempty"`
	IssuedOn   string `json:"issued_on,omitempty"`
}

// AcademicDetails carries fields extracted from marksheets and certificates.
type AcademicDetails struct {
	Board       string        `json:"board,omitempty"`
	RollNumber  string        `json:"roll_number,omitempty"`
	HolderName  string        `json:"holder_name,omitempty"`
	PassingYear string        `json:"passing_year,omitempty"`
	Subjects    []SubjectMark `json:"subjects,omitempty"`
}

// SubjectMark is one per-subject performance row from an academic document.
type SubjectMark struct {
	Name  string `json:"name"`
	Marks string `json:"marks"`
	Grade string `json:"grade,omitempty"`
}

// UnmarshalJSON selects the variant from the "kind" discriminator. Unknown
// kinds decode to Raw so that upstream additions never fail the whole list.
func (d *DocumentDetails) UnmarshalJSON(data []byte) error {
	var probe struct {
		Kind DetailsKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}

	d.Kind = probe.Kind
	switch probe.Kind {
	case DetailsKindIdentity:
		var wrapper struct {
			Identity *IdentityDetails `json:"identity"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return err
		}
		d.Identity = wrapper.Identity
	case DetailsKindAcademic:
		var wrapper struct {
			Academic *AcademicDetails `json:"academic"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return err
		}
		d.Academic = wrapper.Academic
	default:
		d.Raw = append(json.RawMessage(nil), data...)
	}
	return nil
}
