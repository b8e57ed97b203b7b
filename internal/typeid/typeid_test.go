package typeid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewIDsCarryPrefix(t *testing.T) {
	for prefix, gen := range map[string]func() string{
		PrefixUser:       NewUserID,
		PrefixWorkflow:   NewWorkflowID,
		PrefixNode:       NewNodeID,
		PrefixAnnotation: NewAnnotationID,
		PrefixSnapshot:   NewSnapshotID,
	} {
		id := gen()
		require.NoError(t, Validate(id, prefix), id)
	}
}

func TestValidateRejectsWrongPrefix(t *testing.T) {
	err := Validate(NewWorkflowID(), PrefixUser)
	require.ErrorContains(t, err, `expected prefix "user"`)

	require.Error(t, Validate("not-a-typeid", PrefixUser))
}
