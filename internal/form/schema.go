package form

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fadilmartias/jobapply/internal/model"
	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// Schema holds the validation rules of every step. Validation is a pure function of the
// aggregate and the clock.
type Schema struct {
	validate *validator.Validate
	now      func() time.Time
}

func NewSchema(now func() time.Time) *Schema {
	if now == nil {
		now = time.Now
	}
	s := &Schema{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      now,
	}
	s.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	mustRegister(s.validate, "notfuture", s.notFuture)
	mustRegister(s.validate, "positive", positive)
	mustRegister(s.validate, "phone", phone)
	mustRegister(s.validate, "percent", percent)
	mustRegister(s.validate, "referral", referral)

	s.validate.RegisterStructValidation(addressLevel, model.Address{})
	s.validate.RegisterStructValidation(documentsLevel, model.PersonalInfo{})
	s.validate.RegisterStructValidation(workRangeLevel, model.WorkDetail{})
	s.validate.RegisterStructValidation(educationRangeLevel, model.EducationDetail{})
	return s
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// ValidateStep checks the aggregate against one step's rules.
func (s *Schema) ValidateStep(app *model.Application, step model.Step) FieldErrors {
	switch step {
	case model.StepPersonal:
		return s.check(app.PersonalInfo)
	case model.StepReferral:
		return s.check(app.ReferralInfo)
	case model.StepCareer:
		return s.check(app.CareerInfo)
	}
	return nil
}

// ValidateAll checks every step; used before submission.
func (s *Schema) ValidateAll(app *model.Application) FieldErrors {
	var out FieldErrors
	for step := model.FirstStep; step <= model.LastStep; step++ {
		if errs := s.ValidateStep(app, step); len(errs) > 0 {
			out = out.merge(errs)
		}
	}
	return out
}

func (s *Schema) check(section any) FieldErrors {
	err := s.validate.Struct(section)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		panic(err)
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		path := trimRoot(fe.Namespace())
		if _, seen := out[path]; seen {
			continue
		}
		out[path] = message(path, fe)
	}
	return out
}

// trimRoot drops the section type name validator puts in front of every namespace.
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func (s *Schema) notFuture(fl validator.FieldLevel) bool {
	d, err := time.Parse(dateLayout, fl.Field().String())
	if err != nil {
		return true
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !d.After(today)
}

func positive(fl validator.FieldLevel) bool {
	n, err := strconv.ParseFloat(fl.Field().String(), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	return n > 0
}

func phone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

func percent(fl validator.FieldLevel) bool {
	n, err := strconv.ParseFloat(fl.Field().String(), 64)
	if err != nil || math.IsNaN(n) {
		return false
	}
	return n >= 0 && n <= 100
}

func referral(fl validator.FieldLevel) bool {
	return isReferralSource(fl.Field().String())
}

func addressLevel(sl validator.StructLevel) {
	addr := sl.Current().Interface().(model.Address)
	if addr.Country == "" {
		return
	}
	states, ok := locations[addr.Country]
	if !ok {
		sl.ReportError(addr.Country, "country", "Country", "location", "")
		return
	}
	if addr.State == "" {
		return
	}
	cities, ok := states[addr.State]
	if !ok {
		sl.ReportError(addr.State, "state", "State", "location", "")
		return
	}
	if addr.City != "" && !contains(cities, addr.City) {
		sl.ReportError(addr.City, "city", "City", "location", "")
	}
}

func documentsLevel(sl validator.StructLevel) {
	info := sl.Current().Interface().(model.PersonalInfo)
	checkDocument(sl, model.DocumentProfilePic, info.ProfilePic, "ProfilePic")
	checkDocument(sl, model.DocumentCV, info.CV, "CV")
}

func checkDocument(sl validator.StructLevel, kind model.DocumentKind, att *model.Attachment, structField string) {
	if att == nil {
		return
	}
	rule := model.DocumentRules[kind]
	if att.Size > rule.MaxBytes {
		sl.ReportError(att.Size, string(kind), structField, "filesize", strconv.FormatInt(rule.MaxBytes, 10))
		return
	}
	if !rule.Accepts(att.ContentType) {
		sl.ReportError(att.ContentType, string(kind), structField, "filetype", strings.Join(rule.ContentTypes, " "))
	}
}

func workRangeLevel(sl validator.StructLevel) {
	w := sl.Current().Interface().(model.WorkDetail)
	if before(w.ToDate, w.FromDate) {
		sl.ReportError(w.ToDate, "workToDate", "ToDate", "daterange", "workFromDate")
	}
}

func educationRangeLevel(sl validator.StructLevel) {
	e := sl.Current().Interface().(model.EducationDetail)
	if before(e.ToDate, e.FromDate) {
		sl.ReportError(e.ToDate, "eduToDate", "ToDate", "daterange", "eduFromDate")
	}
}

// before reports a < b when both are valid dates.
func before(a, b string) bool {
	da, err := time.Parse(dateLayout, a)
	if err != nil {
		return false
	}
	db, err := time.Parse(dateLayout, b)
	if err != nil {
		return false
	}
	return da.Before(db)
}
