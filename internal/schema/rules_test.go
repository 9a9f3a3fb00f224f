package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRules(t *testing.T) {
	assert.Empty(t, String().Check("hello"))
	assert.NotEmpty(t, String().Check(42))

	assert.Empty(t, NonEmptyString().Check("hello"))
	assert.NotEmpty(t, NonEmptyString().Check(""))
	assert.NotEmpty(t, NonEmptyString().Check(nil))
}

func TestBoolRule(t *testing.T) {
	assert.Empty(t, Bool().Check(true))
	assert.NotEmpty(t, Bool().Check("true"))
}

func TestStringArrayRule(t *testing.T) {
	rule := StringArray()
	assert.Empty(t, rule.Check([]string{"a", "b"}))
	assert.Empty(t, rule.Check([]interface{}{"a", "b"}))
	assert.NotEmpty(t, rule.Check([]interface{}{"a", 2}))
	assert.NotEmpty(t, rule.Check("a"))

	// JSON shape normalizes to []string.
	assert.Equal(t, []string{"a", "b"}, rule.Normalize([]interface{}{"a", "b"}))
}

func TestDateRule(t *testing.T) {
	rule := Date()
	assert.Empty(t, rule.Check("2026-09-01"))
	assert.Empty(t, rule.Check("2026-09-01T10:30:00Z"))
	assert.Empty(t, rule.Check(time.Now()))
	assert.NotEmpty(t, rule.Check("tomorrow"))
	assert.NotEmpty(t, rule.Check(20260901))

	normalized := rule.Normalize("2026-09-01T10:30:00Z")
	ts, ok := normalized.(time.Time)
	require.True(t, ok)
	assert.Equal(t, time.UTC, ts.Location())
}

func TestDateStringRule(t *testing.T) {
	rule := DateString()
	assert.Empty(t, rule.Check("1990-05-14"))
	assert.NotEmpty(t, rule.Check("14/05/1990"))
	assert.NotEmpty(t, rule.Check("1990-05-14T00:00:00Z"))
}

func TestEnumRule(t *testing.T) {
	rule := Enum("open", "closed")
	assert.Empty(t, rule.Check("open"))
	assert.NotEmpty(t, rule.Check("pending"))
	assert.NotEmpty(t, rule.Check(1))
}

func TestScheduleRule(t *testing.T) {
	rule := Schedule()

	valid := []interface{}{
		map[string]interface{}{"day": "monday", "start": "09:00", "end": "17:00"},
		map[string]interface{}{"day": "friday", "start": "08:30", "end": "12:00"},
	}
	assert.Empty(t, rule.Check(valid))

	cases := map[string]interface{}{
		"unknown day":      []interface{}{map[string]interface{}{"day": "funday", "start": "09:00", "end": "17:00"}},
		"missing end":      []interface{}{map[string]interface{}{"day": "monday", "start": "09:00"}},
		"bad start":        []interface{}{map[string]interface{}{"day": "monday", "start": "9am", "end": "17:00"}},
		"start not before": []interface{}{map[string]interface{}{"day": "monday", "start": "17:00", "end": "09:00"}},
		"not an array":     "monday 9-5",
	}
	for name, input := range cases {
		assert.NotEmpty(t, rule.Check(input), name)
	}
}

func TestSchemasCoverEveryEntityType(t *testing.T) {
	for _, et := range []EntityType{
		EntityHospital, EntityAdmin, EntityDoctor, EntityPatient,
		EntitySuperAdmin, EntityDevice, EntityAppointment, EntityTest, EntityTicket,
	} {
		sch := For(et)
		require.NotNil(t, sch, string(et))
		assert.NotEmpty(t, sch.Collection, string(et))
		assert.NotEmpty(t, sch.Fields, string(et))
	}
	assert.Nil(t, For(EntityType("bogus")))
}

func TestImmutableFields(t *testing.T) {
	for _, field := range []string{"_id", "id", "role", "createdAt"} {
		assert.True(t, Immutable[field], field)
	}
	assert.False(t, Immutable["updatedAt"])
}
