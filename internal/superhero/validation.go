package superhero

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/Aleph-Alpha/superheroes/internal/apperr"
)

var heroNamePattern = regexp.MustCompile(`^[A-Za-z0-9\s-]+$`)

// Field rules applied after the type stage.
const (
	nameRules       = "trimmin=2,trimmax=50,heroname"
	superpowerRules = "min=2,max=200"
	scoreRules      = "min=1,max=10"
	idRules         = "gt=0"
)

var ruleMessages = map[string]string{
	"name.trimmin":      "Hero name must be at least 2 characters",
	"name.trimmax":      "Hero name must not exceed 50 characters",
	"name.heroname":     "Hero name can only contain letters, numbers, spaces, and hyphens",
	"superpower.min":    "Superpower description must be at least 2 characters",
	"superpower.max":    "Superpower description must not exceed 200 characters",
	"humilityScore.min": "Humility score must be between 1 and 10",
	"humilityScore.max": "Humility score must be between 1 and 10",
}

const (
	msgMinHumility = "Minimum humility score must be between 1 and 10"
	msgInvalidID   = "Superhero ID must be a positive integer"
	msgInvalidJSON = "Request body must be a valid JSON object"
)

// RawCreate holds a create payload before type narrowing. Fields are nil when
// absent; JSON numbers arrive as json.Number.
type RawCreate struct {
	Name          any `json:"name"`
	Superpower    any `json:"superpower"`
	HumilityScore any `json:"humilityScore"`
}

// Validator checks create payloads, list queries and path ids.
// It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a Validator with the hero-specific rules registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("heroname", func(fl validator.FieldLevel) bool {
		return heroNamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("trimmin", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= limit
	})
	_ = v.RegisterValidation("trimmax", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) <= limit
	})

	return &Validator{validate: v}
}

// DecodeCreate reads a JSON create payload. Unknown fields are ignored.
// A body that is not a JSON object is reported as a validation failure;
// read errors (including *http.MaxBytesError) are returned as they are.
func DecodeCreate(r io.Reader) (RawCreate, error) {
	var raw RawCreate

	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return RawCreate{}, apperr.Validation(MsgValidationFailed, apperr.Issue{Path: "", Message: msgInvalidJSON})
		}
		return RawCreate{}, err
	}
	return raw, nil
}

// ValidateCreate narrows raw to a CreateInput or returns a validation failure
// listing every offending field. The name is length-checked after trimming
// but returned verbatim.
func (v *Validator) ValidateCreate(raw RawCreate) (CreateInput, error) {
	var (
		in     CreateInput
		issues []apperr.Issue
	)

	name, issue := narrowString(raw.Name, "name", "Hero name")
	if issue != nil {
		issues = append(issues, *issue)
	} else {
		in.Name = name
		issues = append(issues, v.check("name", name, nameRules)...)
	}

	power, issue := narrowString(raw.Superpower, "superpower", "Superpower description")
	if issue != nil {
		issues = append(issues, *issue)
	} else {
		in.Superpower = power
		issues = append(issues, v.check("superpower", power, superpowerRules)...)
	}

	score, issue := narrowInteger(raw.HumilityScore, "humilityScore", "Humility score")
	if issue != nil {
		issues = append(issues, *issue)
	} else {
		in.HumilityScore = score
		issues = append(issues, v.check("humilityScore", score, scoreRules)...)
	}

	if len(issues) > 0 {
		return CreateInput{}, apperr.Validation(MsgValidationFailed, issues...)
	}
	return in, nil
}

// Check applies the field rules to an input that skipped ValidateCreate,
// such as the seeder's fixed heroes.
func (v *Validator) Check(in CreateInput) error {
	var issues []apperr.Issue
	issues = append(issues, v.check("name", in.Name, nameRules)...)
	issues = append(issues, v.check("superpower", in.Superpower, superpowerRules)...)
	issues = append(issues, v.check("humilityScore", in.HumilityScore, scoreRules)...)

	if len(issues) > 0 {
		return apperr.Validation(MsgValidationFailed, issues...)
	}
	return nil
}

// ValidateListQuery returns the minimum humility filter, or nil when the
// minHumility parameter is absent or empty.
func (v *Validator) ValidateListQuery(query url.Values) (*int, error) {
	value := strings.TrimSpace(query.Get("minHumility"))
	if value == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil || v.validate.Var(n, scoreRules) != nil {
		return nil, apperr.Validation(MsgValidationFailed, apperr.Issue{Path: "minHumility", Message: msgMinHumility})
	}
	return &n, nil
}

// ValidateID parses a path id that must be a positive integer.
func (v *Validator) ValidateID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || v.validate.Var(id, idRules) != nil {
		return 0, apperr.Validation(MsgValidationFailed, apperr.Issue{Path: "id", Message: msgInvalidID})
	}
	return id, nil
}

func (v *Validator) check(path string, value any, rules string) []apperr.Issue {
	err := v.validate.Var(value, rules)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []apperr.Issue{{Path: path, Message: err.Error()}}
	}

	issues := make([]apperr.Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg, ok := ruleMessages[path+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		issues = append(issues, apperr.Issue{Path: path, Message: msg})
	}
	return issues
}

func narrowString(value any, path, label string) (string, *apperr.Issue) {
	switch s := value.(type) {
	case nil:
		return "", &apperr.Issue{Path: path, Message: label + " is required"}
	case string:
		return s, nil
	default:
		return "", &apperr.Issue{Path: path, Message: label + " must be a string"}
	}
}

// narrowInteger accepts JSON numbers with no fractional part, so 8 and 8.0 are
// both the integer 8. Values outside the int32 range are reported as out of range.
func narrowInteger(value any, path, label string) (int, *apperr.Issue) {
	var f float64

	switch n := value.(type) {
	case nil:
		return 0, &apperr.Issue{Path: path, Message: label + " is required"}
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, &apperr.Issue{Path: path, Message: label + " must be a number"}
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	default:
		return 0, &apperr.Issue{Path: path, Message: label + " must be a number"}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &apperr.Issue{Path: path, Message: label + " must be a number"}
	}
	if f != math.Trunc(f) {
		return 0, &apperr.Issue{Path: path, Message: label + " must be a whole number"}
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, &apperr.Issue{Path: path, Message: label + " must be between 1 and 10"}
	}
	return int(f), nil
}
