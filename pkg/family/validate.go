package family

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperr "github.com/matzehuels/familytree/pkg/errors"
)

var (
	validateOnce sync.Once
	structCheck  *validator.Validate
)

// structValidator returns the shared validator with the "nonblank" rule
// registered. validator.Validate caches struct metadata and is safe for
// concurrent use.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		structCheck = v
	})
	return structCheck
}

// fieldMessages maps "Field.tag" to the message shown to the user.
var fieldMessages = map[string]string{
	"FirstName.nonblank": "First name is required",
	"LastName.nonblank":  "Last name is required",
	"Sex.oneof":          "Sex must be one of M, F, O",
	"Kind.oneof":         "Relationship type must be biological, adopted, or unknown",
}

// collectStructErrors runs tag validation on s and appends one problem per
// failing field to v.
func collectStructErrors(v *apperr.ValidationError, code apperr.Code, s any) {
	err := structValidator().Struct(s)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		v.Add(apperr.ErrCodeInternal, err.Error())
		return
	}
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		v.Add(code, msg)
	}
}

// ValidatePerson checks the field rules of a person: first and last name
// non-empty after trimming, sex in the fixed enumeration, and birth not after
// death when both dates parse. Returns nil or a *errors.ValidationError.
func ValidatePerson(p Person) error {
	v := &apperr.ValidationError{}
	collectStructErrors(v, apperr.ErrCodeInvalidPerson, p)

	birth, okB := ParseDate(p.BirthDate)
	death, okD := ParseDate(p.DeathDate)
	if okB && okD && birth.After(death) {
		v.Add(apperr.ErrCodeInvalidPerson, "Birth date must be before death date")
	}
	return v.Err()
}

// ValidateParentChild checks whether e may be inserted into d. It reports
// every problem it finds: unknown endpoints, a self-loop, a cycle, a
// duplicate, or an unsupported kind tag.
func ValidateParentChild(d *FamilyData, e ParentChildEdge) error {
	v := &apperr.ValidationError{}

	if !d.HasPerson(e.ParentID) {
		v.Add(apperr.ErrCodePersonNotFound, "Unknown parent: "+e.ParentID)
	}
	if !d.HasPerson(e.ChildID) {
		v.Add(apperr.ErrCodePersonNotFound, "Unknown child: "+e.ChildID)
	}
	if e.ParentID == e.ChildID {
		v.Add(apperr.ErrCodeSelfParent, "Cannot create self-parent relationship")
	}
	if WouldCreateCycle(d, e.ParentID, e.ChildID) {
		v.Add(apperr.ErrCodeCycle, "This would create a parent-child cycle")
	}
	if d.HasParentChild(e.ParentID, e.ChildID) {
		v.Add(apperr.ErrCodeDuplicateEdge, "This relationship already exists")
	}
	collectStructErrors(v, apperr.ErrCodeInvalidEdge, e)

	return v.Err()
}

// ValidateSpouse checks whether e may be inserted into d: both partners must
// exist, differ, and not already be paired in either order.
func ValidateSpouse(d *FamilyData, e SpouseEdge) error {
	v := &apperr.ValidationError{}

	if !d.HasPerson(e.AID) {
		v.Add(apperr.ErrCodePersonNotFound, "Unknown spouse: "+e.AID)
	}
	if !d.HasPerson(e.BID) {
		v.Add(apperr.ErrCodePersonNotFound, "Unknown spouse: "+e.BID)
	}
	if e.AID == e.BID {
		v.Add(apperr.ErrCodeSelfSpouse, "Cannot create self-spouse relationship")
	}
	if d.HasSpouse(e.AID, e.BID) {
		v.Add(apperr.ErrCodeDuplicateEdge, "This spouse relationship already exists")
	}
	start, okS := ParseDate(e.StartDate)
	end, okE := ParseDate(e.EndDate)
	if okS && okE && start.After(end) {
		v.Add(apperr.ErrCodeInvalidEdge, "Marriage start date must be before end date")
	}

	return v.Err()
}
