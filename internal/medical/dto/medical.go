package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrNotWholeNumber = errors.New("not a whole number")

// FlexibleInt accepts a JSON number or a numeric string. Form inputs post numbers as strings.
type FlexibleInt int

func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrNotWholeNumber, raw)
	}
	*f = FlexibleInt(n)
	return nil
}

// SaveRequest is the body of POST /medical/save
type SaveRequest struct {
	Email             string      `json:"email" binding:"required,email"`
	Age               FlexibleInt `json:"age" binding:"required,min=1,max=120"`
	Gender            string      `json:"gender" binding:"required,oneof=Male Female Other"`
	MedicalConditions string      `json:"medical_conditions" binding:"max=2000"`
	Allergies         string      `json:"allergies" binding:"max=2000"`
	Medications       string      `json:"medications" binding:"max=2000"`
}

// StatusResponse reports whether a user already submitted the form
type StatusResponse struct {
	Exists bool `json:"exists"`
}
