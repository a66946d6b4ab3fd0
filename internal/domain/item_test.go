package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vocadrill/vocadrill-api/internal/domain"
)

func TestNewCorpusItem(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	item, err := domain.NewCorpusItem(userID, "break the ice", "打破僵局")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.Equal(t, userID, item.UserID)
	assert.Equal(t, 0, item.MasteryLevel)
	assert.Equal(t, 0, item.PracticeCount)
	assert.WithinDuration(t, time.Now().UTC(), item.NextReviewAt, time.Minute,
		"new items are due immediately")
}

func TestCorpusItemValidate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name    string
		mutate  func(*domain.CorpusItem)
		wantErr error
	}{
		{name: "valid", mutate: func(i *domain.CorpusItem) {}},
		{
			name:    "empty english",
			mutate:  func(i *domain.CorpusItem) { i.English = "" },
			wantErr: domain.ErrItemEnglishEmpty,
		},
		{
			name:    "empty chinese",
			mutate:  func(i *domain.CorpusItem) { i.Chinese = "" },
			wantErr: domain.ErrItemChineseEmpty,
		},
		{
			name:    "mastery below range",
			mutate:  func(i *domain.CorpusItem) { i.MasteryLevel = -1 },
			wantErr: domain.ErrInvalidMasteryLevel,
		},
		{
			name:    "mastery above range",
			mutate:  func(i *domain.CorpusItem) { i.MasteryLevel = 6 },
			wantErr: domain.ErrInvalidMasteryLevel,
		},
		{
			name:    "missing user",
			mutate:  func(i *domain.CorpusItem) { i.UserID = uuid.Nil },
			wantErr: domain.ErrItemUserIDEmpty,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			item, err := domain.NewCorpusItem(userID, "hit the road", "上路")
			require.NoError(t, err)
			tc.mutate(item)

			err = item.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestNewUser(t *testing.T) {
	t.Parallel()

	user, err := domain.NewUser("learner@example.com", "a-long-enough-password")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)

	_, err = domain.NewUser("not-an-email", "a-long-enough-password")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = domain.NewUser("learner@example.com", "short")
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
}

func TestNewScenario(t *testing.T) {
	t.Parallel()

	scenario, err := domain.NewScenario(
		"Let's break the ice.",
		"我们打破僵局吧。",
		[]string{"break the ice"},
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"break the ice"}, scenario.Highlights)

	_, err = domain.NewScenario("", "参考", []string{"break the ice"})
	assert.ErrorIs(t, err, domain.ErrScenarioScriptEmpty)

	_, err = domain.NewScenario("Some script.", "参考", nil)
	assert.ErrorIs(t, err, domain.ErrScenarioNoTargets)
}
