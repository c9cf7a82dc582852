package form

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fadilmartias/jobapply/internal/model"
	"github.com/go-playground/validator/v10"
)

var labels = map[string]string{
	"firstName":          "First Name",
	"lastName":           "Last Name",
	"dateOfBirth":        "Date of Birth",
	"gender":             "Gender",
	"birthPlace":         "Birth Place",
	"maritalStatus":      "Marital Status",
	"currentSalary":      "Current Salary",
	"expectedSalary":     "Expected Salary",
	"skills":             "Skill",
	"email":              "Email",
	"phone":              "Phone",
	"skype":              "Skype Id",
	"linkedIn":           "LinkedIn URL",
	"country":            "Country",
	"state":              "State",
	"city":               "City",
	"profilePic":         "Profile Picture",
	"cv":                 "CV",
	"referredBy":         "Referral method",
	"jobRole":            "Job Role",
	"coverLetter":        "Cover Letter",
	"relationship":       "Relationship",
	"referenceName":      "Reference Name",
	"referenceDob":       "Reference Date of Birth",
	"referenceJob":       "Reference Job",
	"referenceAddress":   "Reference Address",
	"referencePhone":     "Phone",
	"workDetails":        "Work experience",
	"workFromDate":       "Work From Date",
	"workToDate":         "Work To Date",
	"workCompany":        "Company Name",
	"workPosition":       "Position",
	"workContactPerson":  "Contact Person",
	"workSalary":         "Salary",
	"workReasonLeaving":  "Reason for leaving",
	"workJobDescription": "Job Description",
	"educationalDetails": "Education detail",
	"eduFromDate":        "Education From Date",
	"eduToDate":          "Education To Date",
	"eduCourse":          "Course",
	"eduTrainingPlace":   "Training Place",
	"eduSpecialized":     "Specialization",
	"eduPercentage":      "Percentage",
}

var listMinimum = map[string]string{
	"referredBy":         "At least one referral method is required",
	"workDetails":        "At least one work experience is required",
	"educationalDetails": "At least one education detail is required",
}

var indexPattern = regexp.MustCompile(`\[\d+\]`)

func leafName(path string) string {
	if i := strings.LastIndexByte(path, '.'); i >= 0 {
		path = path[i+1:]
	}
	return listRoot(path)
}

func labelFor(name string) string {
	if l, ok := labels[name]; ok {
		return l
	}
	return name
}

func message(path string, fe validator.FieldError) string {
	leaf := leafName(path)
	label := labelFor(leaf)
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		if msg, ok := listMinimum[indexPattern.ReplaceAllString(path, "")]; ok {
			return msg
		}
		return fmt.Sprintf("%s must have at least %s entries", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "email":
		return "Invalid email format"
	case "phone":
		return "Phone number must be exactly 10 digits"
	case "datetime":
		return label + " must be a valid date (YYYY-MM-DD)"
	case "notfuture":
		return "Date cannot be in the future"
	case "positive":
		return "Must be a positive number"
	case "percent":
		return percentMessage(fe.Value())
	case "startswith":
		return fmt.Sprintf("%s must start with %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(fe.Param()), ", "))
	case "referral":
		return fmt.Sprintf("%q is not a known referral method", fe.Value())
	case "daterange":
		return fmt.Sprintf("%s cannot be earlier than %s", label, labelFor(fe.Param()))
	case "location":
		return fmt.Sprintf("%s is not valid for the selected location", label)
	case "filesize":
		return DocumentTooLargeMessage
	case "filetype":
		return unsupportedDocumentMessage(model.DocumentKind(leaf))
	}
	return label + " is invalid"
}

// percentMessage names the bound a percentage broke.
func percentMessage(value any) string {
	n, err := strconv.ParseFloat(fmt.Sprint(value), 64)
	switch {
	case err != nil || math.IsNaN(n):
		return "Percentage must be a number"
	case n < 0:
		return "Minimum 0%"
	default:
		return "Maximum 100%"
	}
}

const DocumentTooLargeMessage = "File size should be less than 1MB"

func unsupportedDocumentMessage(kind model.DocumentKind) string {
	if kind == model.DocumentCV {
		return "Unsupported format. Please upload a PDF file."
	}
	return "Unsupported format. Upload an image file (JPG, PNG)."
}

// DocumentErrors builds the field error shown when an upload is rejected before it reaches the draft.
func DocumentErrors(kind model.DocumentKind, tooLarge bool) FieldErrors {
	if tooLarge {
		return FieldErrors{string(kind): DocumentTooLargeMessage}
	}
	return FieldErrors{string(kind): unsupportedDocumentMessage(kind)}
}
