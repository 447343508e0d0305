package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/lease-engine/generic"
)

func writeLeases(t *testing.T, name, body string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRun_TextReport(t *testing.T) {
	in := writeLeases(t, "leases.csv", "unitNumber,leaseEndDate\n1,2024-01-15\n2,2024-01-15\n3,2024-01-15\n")
	var out bytes.Buffer

	require.NoError(t, run([]string{"-in", in, "-max", "2"}, &out))

	assert.Contains(t, out.String(), "Lease Optimization Report")
	assert.Contains(t, out.String(), "2025-01-16: 1")
}

func TestRun_JSONFromJSONInput(t *testing.T) {
	in := writeLeases(t, "leases.json", `[{"unit_number": 4, "lease_end_date": "2023-02-28"}]`)
	var out bytes.Buffer

	require.NoError(t, run([]string{"-in", in, "-format", "json"}, &out))

	var got struct {
		Assignments []struct {
			UnitNumber            int    `json:"unitNumber"`
			OptimizedLeaseEndDate string `json:"optimizedLeaseEndDate"`
		} `json:"assignments"`
		Distribution map[string]int `json:"distribution"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got.Assignments, 1)
	assert.Equal(t, "2024-02-28", got.Assignments[0].OptimizedLeaseEndDate)
	assert.Equal(t, map[string]int{"2024-02-28": 1}, got.Distribution)
}

func TestRun_WritesFile(t *testing.T) {
	in := writeLeases(t, "leases.csv", "unitNumber,leaseEndDate\n1,2024-01-15\n")
	outPath := filepath.Join(t.TempDir(), "out.csv")

	require.NoError(t, run([]string{"-in", in, "-format", "csv", "-out", outPath}, &bytes.Buffer{}))

	body, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(body), "1,2024-01-15,2025-01-15,0,false")
}

func TestRun_Errors(t *testing.T) {
	assert.Error(t, run(nil, &bytes.Buffer{}), "missing -in")

	bad := writeLeases(t, "bad.csv", "unitNumber,leaseEndDate\n1,not-a-date\n")
	err := run([]string{"-in", bad}, &bytes.Buffer{})
	assert.ErrorIs(t, err, generic.ErrInvalidDate)

	good := writeLeases(t, "good.csv", "unitNumber,leaseEndDate\n1,2024-01-15\n")
	assert.Error(t, run([]string{"-in", good, "-format", "pdf"}, &bytes.Buffer{}))
}
