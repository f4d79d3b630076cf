package llvm

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type predicateSpec struct {
	Name      string `yaml:"name"`
	Float     bool   `yaml:"float"`
	Swapped   string `yaml:"swapped"`
	Inverse   string `yaml:"inverse"`
	Signed    bool   `yaml:"signed"`
	Unsigned  bool   `yaml:"unsigned"`
	Ordered   bool   `yaml:"ordered"`
	Unordered bool   `yaml:"unordered"`
	Equality  bool   `yaml:"equality"`
}

type predicateFile struct {
	Predicates []predicateSpec `yaml:"predicates"`
}

func loadPredicates(t *testing.T) []predicateSpec {
	t.Helper()

	data, err := os.ReadFile("testdata/predicates.yaml")
	require.NoError(t, err)

	var file predicateFile
	require.NoError(t, yaml.Unmarshal(data, &file))
	require.Len(t, file.Predicates, 26)

	return file.Predicates
}

func mustParsePredicate(t *testing.T, name string, isFloat bool) Predicate {
	t.Helper()

	p, ok := ParsePredicate(name, isFloat)
	require.True(t, ok, "unknown predicate %q (float=%v)", name, isFloat)
	return p
}

func TestPredicateTable(t *testing.T) {
	for _, tc := range loadPredicates(t) {
		family := "icmp"
		if tc.Float {
			family = "fcmp"
		}

		t.Run(family+"_"+tc.Name, func(t *testing.T) {
			p := mustParsePredicate(t, tc.Name, tc.Float)

			require.Equal(t, tc.Name, p.String())
			require.Equal(t, tc.Float, p.IsFPPredicate())
			require.Equal(t, !tc.Float, p.IsIntPredicate())

			require.Equal(t, mustParsePredicate(t, tc.Swapped, tc.Float), p.Swapped())
			require.Equal(t, mustParsePredicate(t, tc.Inverse, tc.Float), p.Inverse())

			require.Equal(t, tc.Signed, p.IsSigned())
			require.Equal(t, tc.Unsigned, p.IsUnsigned())
			require.Equal(t, tc.Ordered, p.IsOrdered())
			require.Equal(t, tc.Unordered, p.IsUnordered())
			require.Equal(t, tc.Equality, p.IsEquality())
		})
	}
}

func TestPredicateInvolutions(t *testing.T) {
	for _, tc := range loadPredicates(t) {
		p := mustParsePredicate(t, tc.Name, tc.Float)

		require.Equal(t, p, p.Swapped().Swapped(), "swap of %s", p)
		require.Equal(t, p, p.Inverse().Inverse(), "inverse of %s", p)

		// Swapping operands never changes the family or the ordering.
		require.Equal(t, p.IsFPPredicate(), p.Swapped().IsFPPredicate())
		require.Equal(t, p.IsSigned(), p.Swapped().IsSigned())
		require.Equal(t, p.IsOrdered(), p.Swapped().IsOrdered())
	}
}

func TestParsePredicateFamilies(t *testing.T) {
	p, ok := ParsePredicate("ugt", false)
	require.True(t, ok)
	require.Equal(t, ICmpUGT, p)

	p, ok = ParsePredicate("ugt", true)
	require.True(t, ok)
	require.Equal(t, FCmpUGT, p)

	_, ok = ParsePredicate("sgt", true)
	require.False(t, ok)

	_, ok = ParsePredicate("bogus", false)
	require.False(t, ok)

	require.Equal(t, "Predicate(99)", Predicate(99).String())
}

func TestComparisonPredicateIsLive(t *testing.T) {
	env := newTestEnv(t)

	i32 := env.ctx.Int32Type()
	fn := env.function("cmp", i32, []Type{i32, i32})
	a, b := fn.Params()[0], fn.Params()[1]

	v, err := env.b.CreateICmp(ICmpSLT, a, b, "lt")
	require.NoError(t, err)

	cmp, ok := Cast[CmpInst](v)
	require.True(t, ok)
	require.Equal(t, ICmpSLT, cmp.Predicate())
	require.True(t, cmp.IsSigned())
	require.Equal(t, ICmpSGT, cmp.SwappedPredicate())
	require.Equal(t, ICmpSGE, cmp.InversePredicate())

	icmp := MustCast[ICmpInst](v)
	require.Equal(t, OpICmp, icmp.Opcode())

	_, err = env.b.CreateICmp(FCmpOLT, a, b, "bad")
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = env.b.CreateFCmp(FCmpOLT, a, b, "bad")
	require.ErrorIs(t, err, ErrInvalidArgument)
}
