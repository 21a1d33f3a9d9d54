package normalization

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testEnum string

const (
	testEnumAlpha testEnum = "alpha"
	testEnumBeta  testEnum = "beta-two"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(map[string]testEnum{
		"alpha":    testEnumAlpha,
		"beta-two": testEnumBeta,
	}, testEnumAlpha)

	tests := []struct {
		name     string
		input    string
		expected testEnum
	}{
		{"exact match", "alpha", testEnumAlpha},
		{"case insensitive", "ALPHA", testEnumAlpha},
		{"underscore alias", " beta_two ", testEnumBeta},
		{"invalid input falls back", "gamma", testEnumAlpha},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_NormalizeWithError(t *testing.T) {
	n := NewNormalizer(map[string]testEnum{
		"alpha":    testEnumAlpha,
		"beta-two": testEnumBeta,
	}, testEnumAlpha)

	v, err := n.NormalizeWithError("")
	require.NoError(t, err)
	require.Equal(t, testEnumAlpha, v)

	v, err = n.NormalizeWithError("Beta-Two")
	require.NoError(t, err)
	require.Equal(t, testEnumBeta, v)

	_, err = n.NormalizeWithError("gamma")
	require.Error(t, err)
	require.Contains(t, err.Error(), "[alpha beta-two]")
	require.Equal(t, []string{"alpha", "beta-two"}, n.ValidKeys())
}
