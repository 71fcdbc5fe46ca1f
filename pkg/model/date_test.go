package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDate(t *testing.T) {
	fallback := NewDate(2026, 10, 17)
	cases := map[string]Date{
		"2026-03-01":                NewDate(2026, 3, 1),
		"2026-03-01T23:30:00Z":      NewDate(2026, 3, 1),
		"2026-03-01T01:00:00+05:00": NewDate(2026, 3, 1),
		"2026-03-01 08:00":          NewDate(2026, 3, 1),
		"":                          fallback,
		"not a date":                fallback,
		"03/01/2026":                fallback,
	}
	for in, want := range cases {
		assert.True(t, want.Equal(ParseDate(in, fallback)), "%q: want %s got %s", in, want, ParseDate(in, fallback))
	}
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2026, 10, 30)
	assert.Equal(t, "2026-11-02", d.AddDays(3).String())
	assert.Equal(t, 3, d.DaysUntil(d.AddDays(3)))
	assert.Equal(t, -2, d.DaysUntil(d.AddDays(-2)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.Equal(t, "", Date{}.String())
	assert.Equal(t, d, Date{}.Or(d))
	assert.Equal(t, d, DateOf(time.Date(2026, 10, 30, 23, 59, 0, 0, time.FixedZone("X", -8*3600))))
}

func TestDate_JSONIsLenient(t *testing.T) {
	var v struct {
		A Date `json:"a"`
		B Date `json:"b"`
		C Date `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2026-10-17","b":"garbage","c":null}`), &v))
	assert.Equal(t, NewDate(2026, 10, 17), v.A)
	assert.True(t, v.B.IsZero())
	assert.True(t, v.C.IsZero())

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"2026-10-17","b":"","c":""}`, string(out))
}

func TestDate_YAML(t *testing.T) {
	var v struct {
		Start Date `yaml:"start"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("start: 2026-10-17\n"), &v))
	assert.Equal(t, NewDate(2026, 10, 17), v.Start)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(out), "2026-10-17")
}
