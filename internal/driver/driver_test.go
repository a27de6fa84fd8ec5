package driver

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvahouse/telefwd/internal/alloc"
)

func run(t *testing.T, input string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	d := New(alloc.Unlimited{}, &out, &errOut, nil)
	code = d.Run(strings.NewReader(input))
	return out.String(), errOut.String(), code
}

func TestScenarioLongestPrefixRewrite(t *testing.T) {
	out, errOut, code := run(t, "NEW a 123>456 12345?")
	assert.Equal(t, "45645\n", out)
	assert.Empty(t, errOut)
	assert.Equal(t, 0, code)
}

func TestScenarioReverseFindsSourceAndIdentity(t *testing.T) {
	out, errOut, code := run(t, "NEW a 123>456 1>2 ?2")
	require.Equal(t, 0, code)
	assert.Empty(t, errOut)
	assert.Equal(t, "1\n2\n", out)
}

func TestScenarioRemoveDropsForward(t *testing.T) {
	out, errOut, code := run(t, "NEW a 5>6 DEL 5 5?")
	assert.Equal(t, 0, code)
	assert.Empty(t, errOut)
	assert.Equal(t, "5\n", out)
}

func TestScenarioSwitchingDatabasesIsolatesState(t *testing.T) {
	out, errOut, code := run(t, "NEW a 5>6 NEW b 7>8 5?")
	assert.Equal(t, 0, code)
	assert.Empty(t, errOut)
	assert.Equal(t, "5\n", out)
}

func TestScenarioCommentIsSkippedLikeWhitespace(t *testing.T) {
	out, errOut, code := run(t, "NEW a 12>34 $$ comment $$ 12?")
	assert.Equal(t, 0, code)
	assert.Empty(t, errOut)
	assert.Equal(t, "34\n", out)
}

func TestScenarioNonDigitLeadingOperandIsSyntaxError(t *testing.T) {
	// "foo" tokenises as IDENT, not NUMBER, so it cannot start the
	// NUMBER '>' NUMBER production at all: a genuine syntax error at
	// "foo"'s own offset, not an ADD-stage semantic failure at '>'.
	out, errOut, code := run(t, "NEW a foo>bar")
	assert.NotEqual(t, 0, code)
	assert.Empty(t, out)
	assert.Equal(t, "ERROR 7\n", errOut)
}

func TestEmptyInputEndsImmediately(t *testing.T) {
	out, errOut, code := run(t, "")
	assert.Equal(t, 0, code)
	assert.Empty(t, out)
	assert.Empty(t, errOut)
}

func TestOperationWithoutCurrentDatabaseIsError(t *testing.T) {
	out, errOut, code := run(t, "5?")
	assert.NotEqual(t, 0, code)
	assert.Empty(t, out)
	assert.Equal(t, "ERROR ? 2\n", errOut)
}

func TestDeleteUnboundDatabaseIsError(t *testing.T) {
	out, errOut, code := run(t, "DEL nope")
	assert.NotEqual(t, 0, code)
	assert.Empty(t, out)
	assert.Equal(t, "ERROR DEL 1\n", errOut)
}

func TestSyntaxErrorReportsOffset(t *testing.T) {
	_, errOut, code := run(t, "NEW 123")
	assert.NotEqual(t, 0, code)
	assert.Equal(t, "ERROR 5\n", errOut)
}

func TestUnexpectedEOFReportsEOF(t *testing.T) {
	_, errOut, code := run(t, "NEW")
	assert.NotEqual(t, 0, code)
	assert.Equal(t, "ERROR EOF\n", errOut)
}

func TestAllocationFailureReportsOOMRegardlessOfOperation(t *testing.T) {
	var out, errOut bytes.Buffer
	d := New(&countAllocator{remaining: 2}, &out, &errOut, nil)
	code := d.Run(strings.NewReader("NEW a 123>456"))
	assert.NotEqual(t, 0, code)
	assert.Equal(t, "ERROR OOM\n", errOut.String())
}

type countAllocator struct{ remaining int }

func (c *countAllocator) Alloc() bool {
	if c.remaining <= 0 {
		return false
	}
	c.remaining--
	return true
}

func TestSuccessfulRunNeverLogsEvenWithLoggerWired(t *testing.T) {
	var out, errOut, logBuf bytes.Buffer
	logger := log.New(&logBuf, "", 0)
	d := New(alloc.Unlimited{}, &out, &errOut, logger)
	code := d.Run(strings.NewReader("NEW a 123>456 12345?"))
	assert.Equal(t, 0, code)
	assert.Empty(t, errOut.String())
	assert.Empty(t, logBuf.String())
}

func TestAddReturningFalseIsOpSpecificNotOOM(t *testing.T) {
	// num1 == num2 is a semantic rejection, never an allocation failure.
	out, errOut, code := run(t, "NEW a 1>1")
	assert.NotEqual(t, 0, code)
	assert.Empty(t, out)
	assert.Equal(t, "ERROR > 8\n", errOut)
}
