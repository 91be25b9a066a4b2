package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationError(t *testing.T) {
	p := OperationError(ErrRoomFull)
	assert.Equal(t, CodeRoomFull, p.Code)
	assert.Equal(t, "Room is full", p.Message)

	p = OperationError(fmt.Errorf("start: %w", ErrInsufficientPlayers))
	assert.Equal(t, CodeInsufficientPlayers, p.Code)

	p = OperationError(fmt.Errorf("boom"))
	assert.Equal(t, CodeInternalError, p.Code)
	assert.Equal(t, "Internal server error", p.Message)
}

func TestDescribeInvalidNameIsGeneric(t *testing.T) {
	_, msg := Describe(ErrInvalidName)
	assert.NotRegexp(t, `\d`, msg)
}
