package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
)

// Placement status values for a student.
const (
	PlacementNotPlaced = "Not Placed"
	PlacementPlaced    = "Placed"
)

// ExamRecord captures a school-leaving examination (SSLC or HSC).
type ExamRecord struct {
	Institution   string  `json:"institution,omitempty"`
	Board         string  `json:"board,omitempty"`
	Percentage    float64 `json:"percentage,omitempty"`
	YearOfPassing int     `json:"year_of_passing,omitempty"`
}

// DiplomaRecord captures an optional diploma qualification.
type DiplomaRecord struct {
	Institution   string  `json:"institution,omitempty"`
	Branch        string  `json:"branch,omitempty"`
	Percentage    float64 `json:"percentage,omitempty"`
	YearOfPassing int     `json:"year_of_passing,omitempty"`
}

// ParentInfo captures one parent's details.
type ParentInfo struct {
	Name          string `json:"name,omitempty"`
	Occupation    string `json:"occupation,omitempty"`
	ContactNumber string `json:"contact_number,omitempty"`
}

// AddressInfo is the student's postal address.
type AddressInfo struct {
	Street   string `json:"street,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
	State    string `json:"state,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
}

// SemesterGPA is one recorded (semester, gpa) pair. Semesters with no
// entry are simply absent; they never contribute to the CGPA.
type SemesterGPA struct {
	Semester int     `json:"semester"`
	GPA      float64 `json:"gpa"`
}

// SemesterGPAList holds the recorded semester GPA entries in semester
// order.
type SemesterGPAList []SemesterGPA

// CGPA is the arithmetic mean of the recorded semester GPAs, zero
// when none are recorded.
func (l SemesterGPAList) CGPA() float64 {
	if len(l) == 0 {
		return 0
	}
	var sum float64
	for _, entry := range l {
		sum += entry.GPA
	}
	return sum / float64(len(l))
}

// Upsert records or corrects one semester's GPA, keeping the list
// ordered by semester.
func (l SemesterGPAList) Upsert(semester int, gpa float64) SemesterGPAList {
	for i := range l {
		if l[i].Semester == semester {
			l[i].GPA = gpa
			return l
		}
	}
	l = append(l, SemesterGPA{Semester: semester, GPA: gpa})
	sort.Slice(l, func(i, j int) bool { return l[i].Semester < l[j].Semester })
	return l
}

func jsonValue(label string, v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", label, err)
	}
	return data, nil
}

func jsonScan(label string, dst interface{}, value interface{}) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for %s", value, label)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("unmarshal %s: %w", label, err)
	}
	return nil
}

// Value serializes the record for a JSONB column.
func (r ExamRecord) Value() (driver.Value, error) { return jsonValue("exam record", r) }

// Scan reads the record back from a JSONB column.
func (r *ExamRecord) Scan(value interface{}) error { return jsonScan("exam record", r, value) }

func (r DiplomaRecord) Value() (driver.Value, error) { return jsonValue("diploma record", r) }

func (r *DiplomaRecord) Scan(value interface{}) error { return jsonScan("diploma record", r, value) }

func (p ParentInfo) Value() (driver.Value, error) { return jsonValue("parent info", p) }

func (p *ParentInfo) Scan(value interface{}) error { return jsonScan("parent info", p, value) }

func (a AddressInfo) Value() (driver.Value, error) { return jsonValue("address", a) }

func (a *AddressInfo) Scan(value interface{}) error { return jsonScan("address", a, value) }

func (l SemesterGPAList) Value() (driver.Value, error) {
	if l == nil {
		l = SemesterGPAList{}
	}
	return jsonValue("semester gpa list", l)
}

func (l *SemesterGPAList) Scan(value interface{}) error {
	return jsonScan("semester gpa list", l, value)
}

// Student is the full placement profile attached to a student
// principal. Nested document groups are stored as JSONB; scalar fields
// that drives filter on are real columns.
type Student struct {
	PrincipalID         string          `db:"principal_id" json:"id"`
	Username            string          `db:"username" json:"register_number"`
	FullName            string          `db:"full_name" json:"full_name"`
	DateOfBirth         *time.Time      `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Degree              string          `db:"degree" json:"degree"`
	Department          string          `db:"department" json:"department"`
	Gender              string          `db:"gender" json:"gender"`
	TutorName           string          `db:"tutor_name" json:"tutor_name"`
	ContactNumber       string          `db:"contact_number" json:"contact_number"`
	CollegeEmail        string          `db:"college_email" json:"college_email"`
	PersonalEmail       string          `db:"personal_email" json:"personal_email"`
	SSLC                ExamRecord      `db:"sslc" json:"sslc"`
	HSC                 ExamRecord      `db:"hsc" json:"hsc"`
	Diploma             DiplomaRecord   `db:"diploma" json:"diploma"`
	Father              ParentInfo      `db:"father" json:"father"`
	Mother              ParentInfo      `db:"mother" json:"mother"`
	Address             AddressInfo     `db:"address" json:"address"`
	SemesterGPA         SemesterGPAList `db:"semester_gpa" json:"semester_gpa"`
	CGPA                float64         `db:"cgpa" json:"cgpa"`
	DegreeYearOfPassing int             `db:"degree_year_of_passing" json:"degree_year_of_passing"`
	Arrears             string          `db:"arrears" json:"arrears"`
	KeySkills           pq.StringArray  `db:"key_skills" json:"key_skills"`
	Aadhaar             string          `db:"aadhaar" json:"aadhaar"`
	PAN                 string          `db:"pan" json:"pan"`
	BloodGroup          string          `db:"blood_group" json:"blood_group"`
	Accommodation       string          `db:"accommodation" json:"accommodation"`
	GithubProfile       string          `db:"github_profile" json:"github_profile"`
	LinkedinProfile     string          `db:"linkedin_profile" json:"linkedin_profile"`
	ProfilePhoto        string          `db:"profile_photo" json:"profile_photo"`
	Resume              string          `db:"resume" json:"resume"`
	PlacementStatus     string          `db:"placement_status" json:"placement_status"`
	PlacedCompany       string          `db:"placed_company" json:"placed_company"`
	PlacementDate       *time.Time      `db:"placement_date" json:"placement_date,omitempty"`
	ProfileCompleted    bool            `db:"profile_completed" json:"profile_completed"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updated_at"`
}

// StudentProfileUpdate is a sparse profile edit: only non-nil fields
// are applied, and nested groups merge field-by-field into the stored
// document rather than replacing it.
type StudentProfileUpdate struct {
	FullName            *string        `json:"full_name"`
	Degree              *string        `json:"degree"`
	Department          *string        `json:"department"`
	Gender              *string        `json:"gender" validate:"omitempty,oneof=Male Female Other"`
	TutorName           *string        `json:"tutor_name"`
	ContactNumber       *string        `json:"contact_number"`
	CollegeEmail        *string        `json:"college_email" validate:"omitempty,email"`
	PersonalEmail       *string        `json:"personal_email" validate:"omitempty,email"`
	SSLC                *ExamRecord    `json:"sslc"`
	HSC                 *ExamRecord    `json:"hsc"`
	Diploma             *DiplomaRecord `json:"diploma"`
	Father              *ParentInfo    `json:"father"`
	Mother              *ParentInfo    `json:"mother"`
	Address             *AddressInfo   `json:"address"`
	DegreeYearOfPassing *int           `json:"degree_year_of_passing"`
	Arrears             *string        `json:"arrears"`
	KeySkills           *[]string      `json:"key_skills"`
	Aadhaar             *string        `json:"aadhaar"`
	PAN                 *string        `json:"pan"`
	BloodGroup          *string        `json:"blood_group"`
	Accommodation       *string        `json:"accommodation" validate:"omitempty,oneof=Hosteller 'Day Scholar'"`
	GithubProfile       *string        `json:"github_profile"`
	LinkedinProfile     *string        `json:"linkedin_profile"`
}

// SemesterGPAUpdate records or corrects a single semester's GPA.
// Semester is 1-based.
type SemesterGPAUpdate struct {
	Semester int     `json:"semester" validate:"required,min=1,max=8"`
	GPA      float64 `json:"gpa" validate:"min=0,max=10"`
}

// PlacementUpdate flips a student's placement status. Company and date
// are required when marking a student placed and cleared otherwise.
type PlacementUpdate struct {
	PlacementStatus string     `json:"placement_status" validate:"required,oneof='Placed' 'Not Placed'"`
	PlacedCompany   string     `json:"placed_company"`
	PlacementDate   *time.Time `json:"placement_date"`
}

// StudentSummary is the slim listing row used by staff and admin
// views. FeedbackStatus decorates placed-student listings and is empty
// when no feedback row exists.
type StudentSummary struct {
	PrincipalID     string     `db:"principal_id" json:"id"`
	Username        string     `db:"username" json:"register_number"`
	FullName        string     `db:"full_name" json:"full_name"`
	Department      string     `db:"department" json:"department"`
	Degree          string     `db:"degree" json:"degree"`
	CGPA            float64    `db:"cgpa" json:"cgpa"`
	PlacementStatus string     `db:"placement_status" json:"placement_status"`
	PlacedCompany   string     `db:"placed_company" json:"placed_company"`
	PlacementDate   *time.Time `db:"placement_date" json:"placement_date,omitempty"`
	FeedbackStatus  *string    `db:"feedback_status" json:"feedback_status,omitempty"`
}

// StudentFilter narrows staff/admin student listings.
type StudentFilter struct {
	Department      string
	Degree          string
	PlacementStatus string
	Search          string
}
