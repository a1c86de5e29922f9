package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SL-MGx03/userbase/internal/model"
	"github.com/SL-MGx03/userbase/internal/report"
)

func TestIDList(t *testing.T) {
	text, err := report.IDList([]model.User{
		{TelegramID: 111},
		{TelegramID: 222},
	})
	require.NoError(t, err)
	assert.Equal(t, "111, 222", text)
}

func TestIDListSingleUser(t *testing.T) {
	text, err := report.IDList([]model.User{{TelegramID: 42}})
	require.NoError(t, err)
	assert.Equal(t, "42", text)
}

func TestIDListEmpty(t *testing.T) {
	_, err := report.IDList(nil)
	assert.ErrorIs(t, err, report.ErrNoUsers)
}

func TestFull(t *testing.T) {
	tests := []struct {
		name  string
		users []model.User
		want  string
		count int
	}{
		{
			name:  "missing last name and username",
			users: []model.User{{TelegramID: 5, FirstName: "Ann"}},
			want:  "Ann, N/A, 5",
			count: 1,
		},
		{
			name: "full profile",
			users: []model.User{
				{TelegramID: 10, FirstName: "Bob", LastName: "Stone", Username: "bstone"},
			},
			want:  "Bob Stone, @bstone, 10",
			count: 1,
		},
		{
			name: "multiple users keep input order",
			users: []model.User{
				{TelegramID: 2, FirstName: "B"},
				{TelegramID: 1, FirstName: "A", Username: "a"},
			},
			want:  "B, N/A, 2\nA, @a, 1",
			count: 2,
		},
		{
			name:  "empty first name trims to bare line",
			users: []model.User{{TelegramID: 3}},
			want:  ", N/A, 3",
			count: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, count, err := report.Full(tt.users)
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
			assert.Equal(t, tt.count, count)
		})
	}
}

func TestFullEmpty(t *testing.T) {
	_, count, err := report.Full(nil)
	assert.ErrorIs(t, err, report.ErrNoUsers)
	assert.Zero(t, count)
}

func TestRenderingIsDeterministic(t *testing.T) {
	users := []model.User{
		{TelegramID: 1, FirstName: "A", Username: "a"},
		{TelegramID: 2, FirstName: "B", LastName: "C"},
	}

	first, _, err := report.Full(users)
	require.NoError(t, err)
	second, _, err := report.Full(users)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
