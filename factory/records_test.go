package factory_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/lease-engine/factory"
	"github.com/warp/lease-engine/generic"
	"github.com/warp/lease-engine/renewal"
)

func TestParseCSV_Basic(t *testing.T) {
	in := "unitNumber,leaseEndDate\n101,2024-01-15\n102,2024-03-31\n101,2024-01-15\n"

	records, err := factory.ParseCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []renewal.LeaseRecord{
		{UnitNumber: 101, LeaseEndDate: "2024-01-15"},
		{UnitNumber: 102, LeaseEndDate: "2024-03-31"},
		{UnitNumber: 101, LeaseEndDate: "2024-01-15"},
	}, records)
}

func TestParseCSV_ReorderedColumnsAliasesAndExtras(t *testing.T) {
	in := "\ufeffLease_End_Date, tenant ,UNIT_NUMBER\n2024-06-30, Smith , 7 \n\n ,,\n2024-07-01,Jones,8\n"

	records, err := factory.ParseCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []renewal.LeaseRecord{
		{UnitNumber: 7, LeaseEndDate: "2024-06-30"},
		{UnitNumber: 8, LeaseEndDate: "2024-07-01"},
	}, records)
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	records, err := factory.ParseCSV(strings.NewReader("unitNumber,leaseEndDate\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseCSV_MissingColumn(t *testing.T) {
	_, err := factory.ParseCSV(strings.NewReader("unit,date\n1,2024-01-01\n"))
	assert.ErrorIs(t, err, factory.ErrMissingColumn)
	assert.True(t, generic.IsClientError(err))
}

func TestParseCSV_EmptyInput(t *testing.T) {
	_, err := factory.ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, factory.ErrMissingColumn)
}

func TestParseCSV_BadUnitNumber(t *testing.T) {
	in := "unitNumber,leaseEndDate\n101,2024-01-15\n10A,2024-01-16\n"

	_, err := factory.ParseCSV(strings.NewReader(in))
	require.Error(t, err)

	var rowErr *factory.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 3, rowErr.Line)
	assert.Equal(t, "10A", rowErr.Value)
	assert.ErrorIs(t, err, generic.ErrInvalidRecord)
}

func TestParseCSV_BadDatePassesThroughToEngine(t *testing.T) {
	// GIVEN: A row whose date is not a calendar day
	// THEN: Ingestion accepts it; the engine rejects the batch

	records, err := factory.ParseCSV(strings.NewReader("unitNumber,leaseEndDate\n5,2023-02-30\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, err = renewal.Optimize(records, 1)
	var dateErr *generic.InvalidDateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, 5, dateErr.UnitNumber)
}

func TestParseCSV_MissingDateCell(t *testing.T) {
	records, err := factory.ParseCSV(strings.NewReader("unitNumber,leaseEndDate\n9\n"))
	require.NoError(t, err)
	assert.Equal(t, []renewal.LeaseRecord{{UnitNumber: 9, LeaseEndDate: ""}}, records)
}

func TestParseJSON(t *testing.T) {
	in := `[{"unit_number": 101, "lease_end_date": "2024-01-15"}, {"unit_number": "102", "lease_end_date": "2024-02-01"}]`

	records, err := factory.ParseJSON(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []renewal.LeaseRecord{
		{UnitNumber: 101, LeaseEndDate: "2024-01-15"},
		{UnitNumber: 102, LeaseEndDate: "2024-02-01"},
	}, records)
}

func TestParseJSON_FractionalUnit(t *testing.T) {
	_, err := factory.ParseJSON(strings.NewReader(`[{"unit_number": 1.5, "lease_end_date": "2024-01-15"}]`))

	var rowErr *factory.RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Line)
}

func TestParseJSON_Malformed(t *testing.T) {
	_, err := factory.ParseJSON(strings.NewReader(`{"unit_number": 1}`))
	assert.ErrorIs(t, err, generic.ErrInvalidRecord)
}
