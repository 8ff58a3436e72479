package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleInt_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    FlexibleInt
		wantErr bool
	}{
		{`45`, 45, false},
		{`"45"`, 45, false},
		{`" 7 "`, 7, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"forty"`, 0, true},
		{`45.5`, 0, true},
		{`true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var req struct {
				Age FlexibleInt `json:"age"`
			}
			err := json.Unmarshal([]byte(`{"age":`+tt.in+`}`), &req)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNotWholeNumber)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Age)
		})
	}
}
