package identity

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/internal/repository/memory"
	"github.com/caresync/hospital-api/pkg/errors"
)

func TestCheckUniqueNoValues(t *testing.T) {
	svc := NewService(memory.NewStore())
	assert.NoError(t, svc.CheckUnique(context.Background(), FieldEmail, nil, ""))
}

func TestCheckUniqueUnknownField(t *testing.T) {
	svc := NewService(memory.NewStore())
	err := svc.CheckUnique(context.Background(), "name", []string{"x"}, "")
	assert.Equal(t, errors.ErrValidation, errors.CodeOf(err))
}

func TestCheckUniqueScalarConflict(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store)

	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"email": "doc@x.com"}))

	err := svc.CheckUnique(ctx, FieldEmail, []string{"doc@x.com"}, "")
	assert.Equal(t, errors.ErrConflict, errors.CodeOf(err))

	// A different value passes.
	assert.NoError(t, svc.CheckUnique(ctx, FieldEmail, []string{"other@x.com"}, ""))
}

func TestCheckUniqueCrossCollection(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store)

	// A patient holding the number blocks an admin registration too.
	require.NoError(t, store.Insert(ctx, model.CollectionPatients, "p1", model.Document{"mobileNumber": "555-0001"}))

	err := svc.CheckUnique(ctx, FieldMobileNumber, []string{"555-0001"}, "")
	assert.Equal(t, errors.ErrConflict, errors.CodeOf(err))
}

func TestCheckUniqueHospitalArrays(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store)

	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{
		"emails":        []string{"front@hospital.com"},
		"mobileNumbers": []string{"555-0100"},
	}))

	err := svc.CheckUnique(ctx, FieldEmail, []string{"front@hospital.com"}, "")
	assert.Equal(t, errors.ErrConflict, errors.CodeOf(err))

	err = svc.CheckUnique(ctx, FieldMobileNumber, []string{"555-0100"}, "")
	assert.Equal(t, errors.ErrConflict, errors.CodeOf(err))
}

func TestCheckUniquePersIDSkipsHospitals(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store)

	// A hospital array member that happens to look like a persId must not
	// collide: hospitals carry no persId.
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{
		"emails": []string{"PERS-1"},
	}))

	assert.NoError(t, svc.CheckUnique(ctx, FieldPersID, []string{"PERS-1"}, ""))
}

func TestCheckUniqueExcludesSelf(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store)

	require.NoError(t, store.Insert(ctx, model.CollectionAdmins, "a1", model.Document{"email": "a@x.com"}))
	require.NoError(t, store.Insert(ctx, model.CollectionHospitals, "h1", model.Document{"emails": []string{"h@x.com"}}))

	// Re-submitting your own value during an update is not a conflict.
	assert.NoError(t, svc.CheckUnique(ctx, FieldEmail, []string{"a@x.com"}, "a1"))
	assert.NoError(t, svc.CheckUnique(ctx, FieldEmail, []string{"h@x.com"}, "h1"))

	// Anyone else still collides.
	err := svc.CheckUnique(ctx, FieldEmail, []string{"a@x.com"}, "a2")
	assert.Equal(t, errors.ErrConflict, errors.CodeOf(err))
}

func TestCheckUniqueChunksLargeValueSets(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store)

	// More candidates than one query may carry; the conflicting value sits
	// in the last chunk.
	values := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		values = append(values, fmt.Sprintf("user%d@x.com", i))
	}
	require.NoError(t, store.Insert(ctx, model.CollectionDoctors, "d1", model.Document{"email": "user24@x.com"}))

	err := svc.CheckUnique(ctx, FieldEmail, values, "")
	assert.Equal(t, errors.ErrConflict, errors.CodeOf(err))

	require.NoError(t, store.Delete(ctx, model.CollectionDoctors, "d1"))
	assert.NoError(t, svc.CheckUnique(ctx, FieldEmail, values, ""))
}
