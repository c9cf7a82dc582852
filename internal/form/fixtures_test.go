package form

import (
	"time"

	"github.com/fadilmartias/jobapply/internal/model"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func testSchema() *Schema {
	return NewSchema(func() time.Time { return fixedNow })
}

func validPersonal() model.PersonalInfo {
	return model.PersonalInfo{
		FirstName:      "Asha",
		LastName:       "Verma",
		DateOfBirth:    "1994-06-21",
		Gender:         "Female",
		BirthPlace:     "Pune",
		MaritalStatus:  "Single",
		CurrentSalary:  "12",
		ExpectedSalary: "18.5",
		Skills:         []string{"Backend"},
		Email:          "asha.verma@example.com",
		Phone:          "9876543210",
		Skype:          "asha.verma",
		LinkedIn:       "https://in.linkedin.com/in/ashaverma",
		Address: model.Address{
			HouseNumber: "12",
			Street:      "King St",
			Country:     "Canada",
			State:       "Ontario",
			City:        "Toronto",
			Zipcode:     "M5H",
		},
	}
}

func validReferral() model.ReferralInfo {
	return model.ReferralInfo{
		ReferredBy:       []string{"LinkedIn"},
		JobRole:          "Developer",
		CoverLetter:      "I build reliable backend services.",
		Relationship:     "Former manager",
		ReferenceName:    "Ravi Kumar",
		ReferenceDob:     "1980-01-15",
		ReferenceJob:     "Engineering Manager",
		ReferenceAddress: "4 Park Road, Pune",
		ReferencePhone:   "9123456780",
	}
}

func validCareer() model.CareerInfo {
	return model.CareerInfo{
		WorkDetails: []model.WorkDetail{{
			FromDate:       "2018-07-01",
			ToDate:         "2023-12-31",
			Company:        "Acme Corp",
			Position:       "Backend Engineer",
			ContactPerson:  "Ravi Kumar",
			Salary:         "12",
			ReasonLeaving:  "Relocation",
			JobDescription: "Built payment APIs.",
		}},
		EducationalDetails: []model.EducationDetail{{
			FromDate:      "2012-07-01",
			ToDate:        "2016-05-31",
			Course:        "B.Tech",
			TrainingPlace: "COEP",
			Specialized:   "Computer Science",
			Percentage:    "78.4",
		}},
	}
}

func validApplication() model.Application {
	return model.Application{
		PersonalInfo: validPersonal(),
		ReferralInfo: validReferral(),
		CareerInfo:   validCareer(),
	}
}
