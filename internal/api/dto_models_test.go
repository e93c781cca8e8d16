package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationRoundsUp(t *testing.T) {
	p := NewPagination(2, 10, 45)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 5, p.TotalPages)
	assert.Equal(t, 45, p.TotalItems)
	assert.Equal(t, 10, p.ItemsPerPage)
}

func TestNewPaginationEmptyResult(t *testing.T) {
	p := NewPagination(1, 20, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.Equal(t, 0, p.TotalItems)
}

func TestLowerFirst(t *testing.T) {
	assert.Equal(t, "petName", lowerFirst("PetName"))
	assert.Equal(t, "", lowerFirst(""))
}
