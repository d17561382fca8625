package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmailInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   SendEmailInput
		wantErr bool
	}{
		{
			name:  "ok",
			input: SendEmailInput{To: "user@example.com", Subject: "s", Body: "b"},
		},
		{
			name:    "empty to",
			input:   SendEmailInput{Subject: "s", Body: "b"},
			wantErr: true,
		},
		{
			name:    "empty subject",
			input:   SendEmailInput{To: "user@example.com", Body: "b"},
			wantErr: true,
		},
		{
			name:    "empty body",
			input:   SendEmailInput{To: "user@example.com", Subject: "s"},
			wantErr: true,
		},
		{
			name:    "two at signs",
			input:   SendEmailInput{To: "a@b@c", Subject: "s", Body: "b"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestIsEmailValid(t *testing.T) {
	assert.True(t, IsEmailValid("user@example.com"))
	assert.True(t, IsEmailValid("user@localhost"))
	assert.False(t, IsEmailValid("user"))
	assert.False(t, IsEmailValid("a@b@c"))
	assert.False(t, IsEmailValid(""))
}
