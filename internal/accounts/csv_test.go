package accounts

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankledger-dev/bankledger/internal/model"
)

func TestRoundTrip(t *testing.T) {
	accounts := []model.Account{
		{Name: Bank, Category: model.CategoryAsset, Cash: true, Description: "Bank current account"},
		{Name: AdminExpense, Category: model.CategoryExpense},
	}

	var buf bytes.Buffer
	err := WriteAccounts(&buf, accounts)
	require.NoError(t, err)

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, accounts[0], got[0])
	assert.Equal(t, accounts[1], got[1])
}

func TestDefaultChartRoundTrip(t *testing.T) {
	chart := DefaultChart()

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, chart))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	assert.Equal(t, chart, got)
}

func TestReadAccounts_Empty(t *testing.T) {
	got, err := ReadAccounts(strings.NewReader(""))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnmarshalAccount_BadCategory(t *testing.T) {
	_, err := UnmarshalAccount([]string{"Suspense", "contra", "false", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestUnmarshalAccount_BadCashFlag(t *testing.T) {
	_, err := UnmarshalAccount([]string{"Cash", "asset", "maybe", ""})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing cash flag")
}

func TestUnmarshalAccount_WrongFieldCount(t *testing.T) {
	_, err := UnmarshalAccount([]string{"Cash", "asset"})
	require.Error(t, err)
}
