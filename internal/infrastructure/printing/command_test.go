package printing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecRunner_MissingBinary(t *testing.T) {
	res, err := ExecRunner{}.Run(context.Background(), "definitely-not-a-real-print-helper")

	assert.Error(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res.Stdout)
}
