package model

import (
	"errors"
	"fmt"
)

var (
	ErrLastEntry       = errors.New("at least one entry must remain")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Application is the aggregate holding everything an applicant enters in one session.
// Each embedded section is the field set of one form step; JSON flattens them.
type Application struct {
	PersonalInfo
	ReferralInfo
	CareerInfo
}

type PersonalInfo struct {
	FirstName      string      `json:"firstName" validate:"required"`
	LastName       string      `json:"lastName" validate:"required"`
	DateOfBirth    string      `json:"dateOfBirth" validate:"required,datetime=2006-01-02,notfuture"`
	Gender         string      `json:"gender" validate:"required,oneof=Male Female Other"`
	BirthPlace     string      `json:"birthPlace" validate:"required"`
	MaritalStatus  string      `json:"maritalStatus" validate:"required,oneof=Single Married"`
	CurrentSalary  string      `json:"currentSalary" validate:"required,positive"`
	ExpectedSalary string      `json:"expectedSalary" validate:"required,positive"`
	Skills         []string    `json:"skills" validate:"dive,oneof=Frontend Backend"`
	Interests      string      `json:"interests"`
	Email          string      `json:"email" validate:"required,email"`
	Phone          string      `json:"phone" validate:"required,phone"`
	Skype          string      `json:"skype" validate:"required"`
	LinkedIn       string      `json:"linkedIn" validate:"required,startswith=https://in.linkedin.com/"`
	Address        Address     `json:"address"`
	ProfilePic     *Attachment `json:"profilePic,omitempty"`
	CV             *Attachment `json:"cv,omitempty"`
}

type Address struct {
	HouseNumber string `json:"housenumber"`
	Building    string `json:"building"`
	Street      string `json:"street"`
	Area        string `json:"area"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	Zipcode     string `json:"zipcode"`
}

type ReferralInfo struct {
	ReferredBy       []string `json:"referredBy" validate:"min=1,dive,referral"`
	JobRole          string   `json:"jobRole" validate:"required,oneof=Developer Designer Manager"`
	CoverLetter      string   `json:"coverLetter" validate:"required,max=500"`
	Relationship     string   `json:"relationship" validate:"required"`
	ReferenceName    string   `json:"referenceName" validate:"required"`
	ReferenceDob     string   `json:"referenceDob" validate:"required,datetime=2006-01-02,notfuture"`
	ReferenceJob     string   `json:"referenceJob" validate:"required"`
	ReferenceAddress string   `json:"referenceAddress" validate:"required"`
	ReferencePhone   string   `json:"referencePhone" validate:"required,phone"`
}

type CareerInfo struct {
	WorkDetails        []WorkDetail      `json:"workDetails" validate:"min=1,dive"`
	EducationalDetails []EducationDetail `json:"educationalDetails" validate:"min=1,dive"`
}

type WorkDetail struct {
	FromDate       string `json:"workFromDate" validate:"required,datetime=2006-01-02"`
	ToDate         string `json:"workToDate" validate:"required,datetime=2006-01-02"`
	Company        string `json:"workCompany" validate:"required"`
	Position       string `json:"workPosition" validate:"required"`
	ContactPerson  string `json:"workContactPerson" validate:"required"`
	Salary         string `json:"workSalary" validate:"required,positive"`
	ReasonLeaving  string `json:"workReasonLeaving" validate:"required"`
	JobDescription string `json:"workJobDescription" validate:"required"`
}

type EducationDetail struct {
	FromDate      string `json:"eduFromDate" validate:"required,datetime=2006-01-02"`
	ToDate        string `json:"eduToDate" validate:"required,datetime=2006-01-02"`
	Course        string `json:"eduCourse" validate:"required"`
	TrainingPlace string `json:"eduTrainingPlace" validate:"required"`
	Specialized   string `json:"eduSpecialized" validate:"required"`
	Percentage    string `json:"eduPercentage" validate:"required,percent"`
}

// NewApplication returns an empty aggregate with one blank work and education entry.
func NewApplication() Application {
	return Application{
		PersonalInfo: PersonalInfo{Skills: []string{}},
		ReferralInfo: ReferralInfo{ReferredBy: []string{}},
		CareerInfo: CareerInfo{
			WorkDetails:        []WorkDetail{{}},
			EducationalDetails: []EducationDetail{{}},
		},
	}
}

func (a *Application) AddWorkDetail() int {
	a.WorkDetails = append(a.WorkDetails, WorkDetail{})
	return len(a.WorkDetails) - 1
}

func (a *Application) RemoveWorkDetail(index int) error {
	if index < 0 || index >= len(a.WorkDetails) {
		return fmt.Errorf("work detail %d: %w", index, ErrIndexOutOfRange)
	}
	if len(a.WorkDetails) == 1 {
		return fmt.Errorf("work details: %w", ErrLastEntry)
	}
	a.WorkDetails = append(a.WorkDetails[:index], a.WorkDetails[index+1:]...)
	return nil
}

func (a *Application) AddEducationDetail() int {
	a.EducationalDetails = append(a.EducationalDetails, EducationDetail{})
	return len(a.EducationalDetails) - 1
}

func (a *Application) RemoveEducationDetail(index int) error {
	if index < 0 || index >= len(a.EducationalDetails) {
		return fmt.Errorf("educational detail %d: %w", index, ErrIndexOutOfRange)
	}
	if len(a.EducationalDetails) == 1 {
		return fmt.Errorf("educational details: %w", ErrLastEntry)
	}
	a.EducationalDetails = append(a.EducationalDetails[:index], a.EducationalDetails[index+1:]...)
	return nil
}

func (a *Application) Document(kind DocumentKind) *Attachment {
	switch kind {
	case DocumentProfilePic:
		return a.ProfilePic
	case DocumentCV:
		return a.CV
	}
	return nil
}

func (a *Application) SetDocument(kind DocumentKind, att *Attachment) {
	switch kind {
	case DocumentProfilePic:
		a.ProfilePic = att
	case DocumentCV:
		a.CV = att
	}
}

// WithoutDocuments returns a shallow copy with attachment payloads dropped.
func (a Application) WithoutDocuments() Application {
	a.ProfilePic = nil
	a.CV = nil
	return a
}
