package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"MailDesk/internal/apperrors"
	"MailDesk/internal/models"
)

func TestDispatch_RequiresID(t *testing.T) {
	backend := new(MockBackend)

	_, err := Dispatch(context.Background(), backend, "", true)

	assert.ErrorIs(t, err, ErrNotSaved)
	backend.AssertNotCalled(t, "SendCampaign", mock.Anything, mock.Anything, mock.Anything)
}

func TestDispatch_PassesTestModeVerbatim(t *testing.T) {
	for _, testMode := range []bool{true, false} {
		backend := new(MockBackend)
		backend.On("SendCampaign", mock.Anything, "42", testMode).
			Return(&models.SendResult{Sent: 4, Failed: 1, Message: "Campaign sent to 4 recipients"}, nil)

		outcome, err := Dispatch(context.Background(), backend, "42", testMode)

		require.NoError(t, err)
		assert.Equal(t, Outcome{Sent: 4, Failed: 1, Message: "Campaign sent to 4 recipients", TestMode: testMode}, outcome)
		assert.True(t, outcome.Partial())
		backend.AssertExpectations(t)
	}
}

func TestDispatch_HTTPErrorIsError(t *testing.T) {
	backend := new(MockBackend)
	backend.On("SendCampaign", mock.Anything, "42", false).
		Return(nil, &apperrors.HTTPError{Status: 400, Detail: "Campaign already sent"})

	_, err := Dispatch(context.Background(), backend, "42", false)

	assert.Equal(t, "Campaign already sent", apperrors.Message(err))
}

func TestAssist_RejectsBlankPrompt(t *testing.T) {
	backend := new(MockBackend)

	_, err := Assist(context.Background(), backend, " \t", "OpenAI")

	assert.True(t, apperrors.IsValidation(err))
	backend.AssertNotCalled(t, "GenerateEmailContent", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssist_ForwardsProvider(t *testing.T) {
	backend := new(MockBackend)
	backend.On("GenerateEmailContent", mock.Anything, "spring launch", "OpenAI").
		Return(&models.GeneratedContent{Subject: "Spring"}, nil)

	got, err := Assist(context.Background(), backend, "spring launch", "OpenAI")

	require.NoError(t, err)
	assert.Equal(t, "Spring", got.Subject)
}
