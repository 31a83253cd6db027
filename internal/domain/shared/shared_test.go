package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_IsMatchesByCode(t *testing.T) {
	specific := NewDomainError("NOT_FOUND", "Invoice 42 not found")
	wrapped := fmt.Errorf("failed to load invoice: %w", specific)

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.NotErrorIs(t, wrapped, ErrConflict)
	assert.Equal(t, "Invoice 42 not found", specific.Error())

	var de *DomainError
	require.True(t, errors.As(wrapped, &de))
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.OrNil())
	assert.Equal(t, "", errs.First())
	assert.Equal(t, "validation failed", errs.Error())

	errs.Add("name", "Name is required")
	errs.Merge(ValidationErrors{{Field: "mobile", Message: "Mobile must be 10 digits"}})

	err := errs.OrNil()
	require.Error(t, err)
	assert.Equal(t, "Name is required; Mobile must be 10 digits", err.Error())
	assert.Equal(t, "Name is required", errs.First())

	var got ValidationErrors
	require.True(t, errors.As(fmt.Errorf("submit: %w", err), &got))
	assert.Len(t, got, 2)
}

func TestSession_IsAnonymous(t *testing.T) {
	assert.True(t, Session{}.IsAnonymous())
	assert.False(t, Session{Token: "t", UserID: "u-1"}.IsAnonymous())
}

func TestBaseAggregateRoot(t *testing.T) {
	root := NewBaseAggregateRoot()
	assert.NotEqual(t, root.ID.String(), "00000000-0000-0000-0000-000000000000")
	assert.Equal(t, 1, root.Version)
	assert.Equal(t, root.CreatedAt, root.UpdatedAt)

	root.IncrementVersion()
	assert.Equal(t, 2, root.Version)

	before := root.UpdatedAt
	root.Touch()
	assert.False(t, root.UpdatedAt.Before(before))
}
