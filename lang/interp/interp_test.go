package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mna/lox/lang/interp"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	out, _, err := runCaptured(t, src)
	return out, err
}

func runCaptured(t *testing.T, src string) (stdout, stderr string, err error) {
	t.Helper()
	toks, scanErr := scanner.Scan([]byte(src))
	require.NoError(t, scanErr)
	prog, parseErr := parser.Parse(toks)
	require.NoError(t, parseErr)

	var out, errOut bytes.Buffer
	in := interp.New(&out, &errOut, strings.NewReader(""))
	err = in.Run(prog)
	return out.String(), errOut.String(), err
}

func TestArithmeticPrecedence(t *testing.T) {
	out, err := run(t, `print 1 + 2 * 3;`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestStringConcatenation(t *testing.T) {
	out, err := run(t, `print "foo" + "bar";`)
	require.NoError(t, err)
	assert.Equal(t, "foobar\n", out)
}

func TestStringPlusNumberIsRuntimeError(t *testing.T) {
	_, err := run(t, `print "foo" + 1;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operands must be")
}

func TestClosureCounter(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var i = 0;
			fun count() {
				i = i + 1;
				return i;
			}
			return count;
		}
		var counter = makeCounter();
		print counter();
		print counter();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

// TestClosureCapturesShadowingBinding pins the lexical-scoping rule: a
// function defined where an inner binding shadows an outer one keeps
// resolving to the inner binding, and observes writes made to it after the
// closure was created.
func TestClosureCapturesShadowingBinding(t *testing.T) {
	out, err := run(t, `
		var a = 1;
		var g = nil;
		{
			var a = 2;
			fun f() { return a; }
			g = f;
			print g();
			a = 5;
		}
		print g();
		print a;
	`)
	require.NoError(t, err)
	assert.Equal(t, "2\n5\n1\n", out)
}

func TestShortCircuitOr(t *testing.T) {
	out, err := run(t, `
		fun sideEffect() { print "called"; return true; }
		print false or sideEffect();
		print true or sideEffect();
	`)
	require.NoError(t, err)
	assert.Equal(t, "called\ntrue\ntrue\n", out)
}

func TestShortCircuitAnd(t *testing.T) {
	out, err := run(t, `
		fun sideEffect() { print "called"; return true; }
		print true and sideEffect();
		print false and sideEffect();
	`)
	require.NoError(t, err)
	assert.Equal(t, "called\ntrue\nfalse\n", out)
}

func TestShadowing(t *testing.T) {
	out, err := run(t, `
		var x = "global";
		{
			var x = "local";
			print x;
		}
		print x;
	`)
	require.NoError(t, err)
	assert.Equal(t, "local\nglobal\n", out)
}

func TestForLoop(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) print i;
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

// TestForLoopWithoutInitializerResolvesOuterLocal guards against an
// off-by-one in the hop depth computed for names resolved from inside a
// 'for' loop that omits its own initializer clause: the loop header still
// opens a lexical scope (to parse cond/post consistently) even with no
// init, so the runtime must still push a matching frame for it.
func TestForLoopWithoutInitializerResolvesOuterLocal(t *testing.T) {
	out, err := run(t, `
		{
			var i = 0;
			for (; i < 3; i = i + 1) {
				print i;
			}
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestPureProgramIsDeterministic(t *testing.T) {
	const src = `
		fun fact(n) { if (n < 2) return 1; return n * fact(n - 1); }
		print fact(6);
		print "a" + "b";
	`
	first, err := run(t, src)
	require.NoError(t, err)
	second, err := run(t, src)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "720\nab\n", first)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := run(t, `print x;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable")
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	_, err := run(t, `print 1 / 0;`)
	require.Error(t, err)
}

func TestRecursiveFunction(t *testing.T) {
	out, err := run(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	require.NoError(t, err)
	assert.Equal(t, "55\n", out)
}

func TestArityMismatchIsRuntimeError(t *testing.T) {
	_, err := run(t, `
		fun add(a, b) { return a + b; }
		add(1);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 arguments")
}

func TestBuiltinStrAndNum(t *testing.T) {
	out, err := run(t, `
		print str(42);
		print num("3.5") + 1;
	`)
	require.NoError(t, err)
	assert.Equal(t, "42\n4.5\n", out)
}

func TestClockIsNonDecreasing(t *testing.T) {
	out, err := run(t, `
		var before = clock();
		var after = clock();
		print after >= before;
	`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestRandIntStaysWithinInclusiveBounds(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 20; i = i + 1) {
			var n = rand_int(3, 5);
			print n >= 3 and n <= 5;
		}
	`)
	require.NoError(t, err)
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.Equal(t, "true", line)
	}
}

func TestRandIntDegenerateRange(t *testing.T) {
	out, err := run(t, `print rand_int(4, 4);`)
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)
}

func TestNativeFunctionDisplaysWithoutName(t *testing.T) {
	out, err := run(t, `print clock;`)
	require.NoError(t, err)
	assert.Equal(t, "<native fn>\n", out)
}

func TestUserFunctionDisplaysWithName(t *testing.T) {
	out, err := run(t, `fun greet() {} print greet;`)
	require.NoError(t, err)
	assert.Equal(t, "<fn greet>\n", out)
}

// TestBlockRecoverySkipsFailingStatementOnly exercises the recovery
// policy: a runtime error inside a block is reported immediately but
// does not stop the statements after it in the same block, though the
// block as a whole still reports failure to its own caller.
func TestBlockRecoverySkipsFailingStatementOnly(t *testing.T) {
	stdout, stderr, err := runCaptured(t, `
		{
			print "before";
			print 1 + "x";
			print "after";
		}
	`)
	require.Error(t, err)
	assert.Equal(t, "before\nafter\n", stdout)
	assert.Contains(t, stderr, "Operands must be")
}

func TestTopLevelRecoveryContinuesToNextStatement(t *testing.T) {
	stdout, stderr, err := runCaptured(t, `
		print "one";
		print 1 / 0;
		print "two";
	`)
	require.Error(t, err)
	assert.Equal(t, "one\ntwo\n", stdout)
	assert.Contains(t, stderr, "Division by zero")
}

func TestRuntimeErrorTraceIncludesEnclosingExpression(t *testing.T) {
	_, stderr, err := runCaptured(t, `print 1 + -"x";`)
	require.Error(t, err)
	assert.Contains(t, stderr, "Operand must be a number")
	assert.Contains(t, stderr, "in 1 + -x")
}
