package account

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	t.Run("SuccessfulCreation", func(t *testing.T) {
		before := time.Now().UTC()
		acc, err := NewAccount("4001", "Service Labor", TypeRevenue, "400")
		require.NoError(t, err)
		require.NotNil(t, acc)

		assert.Equal(t, "4001", acc.Code)
		assert.Equal(t, "Service Labor", acc.Name)
		assert.Equal(t, TypeRevenue, acc.Type)
		assert.Equal(t, "400", acc.ParentCode)
		assert.True(t, acc.Active)
		assert.WithinDuration(t, before, acc.CreatedAt, time.Second)
	})

	testCases := []struct {
		name        string
		code        string
		accName     string
		accountType Type
		expectedErr error
	}{
		{"EmptyCode", "  ", "Cash", TypeAsset, ErrEmptyCode},
		{"NonNumericCode", "40A1", "Cash", TypeAsset, ErrInvalidCode},
		{"EmptyName", "1001", "", TypeAsset, ErrEmptyName},
		{"UnknownType", "1001", "Cash", Type("income"), ErrInvalidType},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			acc, err := NewAccount(tc.code, tc.accName, tc.accountType, "")
			assert.Nil(t, acc)
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestAccountErrors_Is(t *testing.T) {
	err := error(ErrAccountNotFound{Code: "9999"})
	assert.True(t, errors.Is(err, ErrAccountNotFound{}))
	assert.True(t, errors.Is(err, ErrAccountNotFound{Code: "9999"}))
	assert.False(t, errors.Is(err, ErrAccountNotFound{Code: "1001"}))
	assert.False(t, errors.Is(err, ErrInactiveAccount{}))

	inactive := error(ErrInactiveAccount{Code: "5301"})
	assert.True(t, errors.Is(inactive, ErrInactiveAccount{}))
	assert.Equal(t, "account is inactive: 5301", inactive.Error())
}

func TestParseRules(t *testing.T) {
	t.Run("EmptyYieldsNil", func(t *testing.T) {
		rules, err := ParseRules("  ")
		require.NoError(t, err)
		assert.Nil(t, rules)
	})

	t.Run("ParsesItems", func(t *testing.T) {
		rules, err := ParseRules("130:prepaid:asset:Prepaid Expenses, 260:leases:liability")
		require.NoError(t, err)
		require.Len(t, rules, 2)
		assert.Equal(t, "130", rules[0].Prefix)
		assert.Equal(t, Bucket{ID: "prepaid", Name: "Prepaid Expenses", Section: SectionAsset}, rules[0].Bucket)
		assert.Equal(t, Bucket{ID: "leases", Name: "leases", Section: SectionLiability}, rules[1].Bucket)
	})

	t.Run("RejectsUnknownSection", func(t *testing.T) {
		_, err := ParseRules("130:prepaid:assets")
		assert.Error(t, err)
	})

	t.Run("RejectsMalformed", func(t *testing.T) {
		_, err := ParseRules("130")
		assert.Error(t, err)
	})
}

func TestParseActivityRules(t *testing.T) {
	rules, err := ParseActivityRules("15:investing,25:financing")
	require.NoError(t, err)
	assert.Equal(t, []ActivityRule{
		{Prefix: "15", Activity: ActivityInvesting},
		{Prefix: "25", Activity: ActivityFinancing},
	}, rules)

	_, err = ParseActivityRules("15:capex")
	assert.Error(t, err)

	_, err = ParseActivityRules(":operating")
	assert.Error(t, err)

	assert.Equal(t, []string{"100", "101"}, ParsePrefixes(" 100 ,101,"))
}
