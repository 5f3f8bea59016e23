package model_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/grabble/internal/model"
)

func TestReasonForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want model.ClaimReason
	}{
		{"invalid line", model.ErrInvalidLine, model.ReasonInvalidLine},
		{"not in dictionary", model.ErrNotInDictionary, model.ReasonNotInDictionary},
		{"no new tile", model.ErrNoNewTile, model.ReasonNoNewTile},
		{"already claimed", model.ErrAlreadyClaimed, model.ReasonAlreadyClaimed},
		{"part of invalid word", model.ErrPartOfInvalidWord, model.ReasonPartOfInvalidWord},
		{"wrapped", fmt.Errorf("claim 2: %w", model.ErrNoNewTile), model.ReasonNoNewTile},
		{"cancelled", context.Canceled, model.ReasonCancelled},
		{"deadline", context.DeadlineExceeded, model.ReasonCancelled},
		{"unrelated sentinel", model.ErrColumnFull, model.ReasonUnknown},
		{"unrelated error", errors.New("disk on fire"), model.ReasonUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.ReasonForError(tt.err))
		})
	}
}
