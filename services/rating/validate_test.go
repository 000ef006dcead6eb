package rating

import (
	"strings"
	"testing"

	"interviewhub/models"

	"github.com/stretchr/testify/assert"
)

func TestReviewID(t *testing.T) {
	assert.Equal(t, "iv_cand_bk", ReviewID("iv", "cand", "bk"))
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		in      models.ReviewInput
		wantErr error
	}{
		{"valid", models.ReviewInput{BookingID: "b", Rating: 4}, nil},
		{"rating too low", models.ReviewInput{BookingID: "b", Rating: 0}, ErrInvalidRating},
		{"rating too high", models.ReviewInput{BookingID: "b", Rating: 6}, ErrInvalidRating},
		{
			"category out of range",
			models.ReviewInput{BookingID: "b", Rating: 4, Categories: &models.CategoryScores{Technical: intPtr(7)}},
			ErrInvalidCategory,
		},
		{
			"comment at limit",
			models.ReviewInput{BookingID: "b", Rating: 4, Comment: strings.Repeat("é", maxCommentLength)},
			nil,
		},
		{
			"comment too long",
			models.ReviewInput{BookingID: "b", Rating: 4, Comment: strings.Repeat("a", maxCommentLength+1)},
			ErrCommentTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(tt.in)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
