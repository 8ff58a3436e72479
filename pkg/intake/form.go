package intake

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

const (
	// MsgSaveFailed is shown when the server rejects a submission without its own message
	MsgSaveFailed = "Failed to save medical details."
	// MsgNetworkFailed is shown when the server could not be reached
	MsgNetworkFailed = "Error saving medical details. Please try again later."
)

// Field names accepted by Set
const (
	FieldAge               = "age"
	FieldGender            = "gender"
	FieldMedicalConditions = "medical_conditions"
	FieldAllergies         = "allergies"
	FieldMedications       = "medications"
)

var (
	// ErrSubmitInFlight is returned when Submit is called while a submission is pending
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	ErrUnknownField   = errors.New("unknown form field")
	// ErrInvalid wraps client-side constraint failures
	ErrInvalid = errors.New("invalid medical details")
)

var genders = map[string]bool{"Male": true, "Female": true, "Other": true}

// Fields is the draft the user is editing. Every value is text, as typed.
type Fields struct {
	Age               string `json:"age"`
	Gender            string `json:"gender"`
	MedicalConditions string `json:"medical_conditions"`
	Allergies         string `json:"allergies"`
	Medications       string `json:"medications"`
}

// Payload is the JSON body posted to /medical/save
type Payload struct {
	Age               int    `json:"age"`
	Gender            string `json:"gender"`
	MedicalConditions string `json:"medical_conditions"`
	Allergies         string `json:"allergies"`
	Medications       string `json:"medications"`
	Email             string `json:"email,omitempty"`
}

// State is a snapshot of the form
type State struct {
	Fields       Fields
	IsSubmitting bool
	Error        string
}

// IdentitySource returns the signed-in user's email, or "" when there is none
type IdentitySource interface {
	Email() (string, error)
}

// Saver posts a payload. It returns *RejectedError for non-2xx answers and any other error for transport failures.
type Saver interface {
	Save(ctx context.Context, p Payload) error
}

// RejectedError is a non-2xx answer from the save endpoint
type RejectedError struct {
	StatusCode int
	// Message is the server's "error" field, empty when absent
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("save rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("save rejected with status %d: %s", e.StatusCode, e.Message)
}

// Form holds the intake draft and drives one submission at a time
type Form struct {
	mu       sync.Mutex
	state    State
	identity IdentitySource
	saver    Saver
	onDone   func()
}

// NewForm creates an empty form. onDone runs once per successful submission.
func NewForm(identity IdentitySource, saver Saver, onDone func()) *Form {
	return &Form{identity: identity, saver: saver, onDone: onDone}
}

// Set changes one field and leaves the others alone
func (f *Form) Set(field, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldAge:
		f.state.Fields.Age = value
	case FieldGender:
		f.state.Fields.Gender = value
	case FieldMedicalConditions:
		f.state.Fields.MedicalConditions = value
	case FieldAllergies:
		f.state.Fields.Allergies = value
	case FieldMedications:
		f.state.Fields.Medications = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// State returns a snapshot
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// CanSubmit reports whether the submit control is enabled
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.state.IsSubmitting
}

// Validate checks the constraints the form enforces before anything is sent
func (fs Fields) Validate() (Payload, error) {
	age, err := strconv.Atoi(strings.TrimSpace(fs.Age))
	if err != nil {
		return Payload{}, fmt.Errorf("%w: age must be a whole number", ErrInvalid)
	}
	if age < 1 || age > 120 {
		return Payload{}, fmt.Errorf("%w: age must be between 1 and 120", ErrInvalid)
	}
	if !genders[fs.Gender] {
		return Payload{}, fmt.Errorf("%w: gender must be Male, Female or Other", ErrInvalid)
	}

	return Payload{
		Age:               age,
		Gender:            fs.Gender,
		MedicalConditions: fs.MedicalConditions,
		Allergies:         fs.Allergies,
		Medications:       fs.Medications,
	}, nil
}

// Submit validates the draft and posts it once.
// It returns ErrSubmitInFlight without side effects while another Submit is pending.
// Other failures are reported through State().Error and also returned.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state.IsSubmitting {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	f.state.IsSubmitting = true
	f.state.Error = ""
	fields := f.state.Fields
	f.mu.Unlock()

	var (
		errMsg    string
		succeeded bool
	)
	defer func() {
		f.mu.Lock()
		f.state.IsSubmitting = false
		f.state.Error = errMsg
		f.mu.Unlock()

		if succeeded && f.onDone != nil {
			f.onDone()
		}
	}()

	payload, err := fields.Validate()
	if err != nil {
		errMsg = strings.TrimPrefix(err.Error(), ErrInvalid.Error()+": ")
		return err
	}

	if f.identity != nil {
		email, err := f.identity.Email()
		if err != nil {
			errMsg = MsgNetworkFailed
			return fmt.Errorf("read identity: %w", err)
		}
		payload.Email = email
	}

	if err := f.saver.Save(ctx, payload); err != nil {
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			errMsg = rejected.Message
			if errMsg == "" {
				errMsg = MsgSaveFailed
			}
		} else {
			errMsg = MsgNetworkFailed
		}
		return err
	}

	succeeded = true
	return nil
}
