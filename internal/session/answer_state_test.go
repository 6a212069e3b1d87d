package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReinitAnswerState_MultiChoice(t *testing.T) {
	q := multiChoiceQuestion()
	state := newAnswerState(&q)

	reinitAnswerState(&q, state, IdentityShuffler)

	assert.Equal(t, []bool{false, false, false}, state.Selections)
	assert.False(t, isAnswered(&q, state))
}

func TestReinitAnswerState_OrderedSequenceShuffled(t *testing.T) {
	q := orderedQuestion()
	state := newAnswerState(&q)

	reversed := func(n int) []int {
		perm := make([]int, n)
		for i := range perm {
			perm[i] = n - 1 - i
		}
		return perm
	}
	reinitAnswerState(&q, state, reversed)

	assert.Equal(t, []string{"oC", "oB", "oA"}, state.SequenceOrder)
	// a full permutation always exists, so the question counts as answered
	assert.True(t, isAnswered(&q, state))
}

func TestReinitAnswerState_PairingRightOrderFixed(t *testing.T) {
	q := pairingQuestion()
	state := newAnswerState(&q)

	reinitAnswerState(&q, state, IdentityShuffler)

	assert.Equal(t, []string{"Paris", "Rome"}, state.RightOrder)
	assert.Empty(t, state.Pairs)
}

func TestReinitAnswerState_Idempotent(t *testing.T) {
	q := pairingQuestion()
	state := newAnswerState(&q)

	reinitAnswerState(&q, state, IdentityShuffler)
	require.NoError(t, recordPairing(&q, state, "France", "Paris"))

	reinitAnswerState(&q, state, IdentityShuffler)
	assert.Empty(t, state.Pairs)
	assert.Equal(t, []string{"Paris", "Rome"}, state.RightOrder)
}

func TestRecordSelection_WrongTypeFailsFast(t *testing.T) {
	q := pairingQuestion()
	state := newAnswerState(&q)
	reinitAnswerState(&q, state, IdentityShuffler)

	err := recordSelection(&q, state, "Paris")
	var te *StateTransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "record_selection", te.Op)
}

func TestRecordMultiToggle(t *testing.T) {
	q := multiChoiceQuestion()
	state := newAnswerState(&q)
	reinitAnswerState(&q, state, IdentityShuffler)

	require.NoError(t, recordMultiToggle(&q, state, 0, true))
	assert.True(t, isAnswered(&q, state))

	require.NoError(t, recordMultiToggle(&q, state, 0, false))
	assert.False(t, isAnswered(&q, state))

	err := recordMultiToggle(&q, state, 7, true)
	var te *StateTransitionError
	require.ErrorAs(t, err, &te)
}

func TestRecordOrder_RejectsBadPermutations(t *testing.T) {
	q := orderedQuestion()
	state := newAnswerState(&q)
	reinitAnswerState(&q, state, IdentityShuffler)

	assert.Error(t, recordOrder(&q, state, []string{"oA", "oB"}))
	assert.Error(t, recordOrder(&q, state, []string{"oA", "oB", "oX"}))
	assert.Error(t, recordOrder(&q, state, []string{"oA", "oA", "oB"}))
	assert.NoError(t, recordOrder(&q, state, []string{"oC", "oA", "oB"}))
	assert.Equal(t, []string{"oC", "oA", "oB"}, state.SequenceOrder)
}

func TestRecordPairing(t *testing.T) {
	q := pairingQuestion()
	state := newAnswerState(&q)
	reinitAnswerState(&q, state, IdentityShuffler)

	require.NoError(t, recordPairing(&q, state, "France", "Paris"))
	assert.False(t, isAnswered(&q, state), "partial mapping is not answered")

	require.NoError(t, recordPairing(&q, state, "Italy", "Rome"))
	assert.True(t, isAnswered(&q, state))

	assert.Error(t, recordPairing(&q, state, "Germany", "Berlin"))
}

func TestRecordPairing_UnknownTargetRejected(t *testing.T) {
	q := pairingQuestion()
	state := newAnswerState(&q)
	reinitAnswerState(&q, state, IdentityShuffler)

	err := recordPairing(&q, state, "France", "Berlin")
	var te *StateTransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "record_pairing", te.Op)
	assert.Empty(t, state.Pairs, "rejected target must not be stored")
}

func TestIsAnswered_SingleChoice(t *testing.T) {
	q := singleQuestion()
	state := newAnswerState(&q)
	reinitAnswerState(&q, state, IdentityShuffler)

	assert.False(t, isAnswered(&q, state))
	require.NoError(t, recordSelection(&q, state, "Paris"))
	assert.True(t, isAnswered(&q, state))
}
