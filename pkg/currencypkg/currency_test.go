package currencypkg

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestIsSupportedCurrency(t *testing.T) {
	for _, c := range SupportedCurrencies {
		require.True(t, IsSupportedCurrency(c), c)
	}

	require.False(t, IsSupportedCurrency("XXX"))
	require.False(t, IsSupportedCurrency("usd"))
}

func TestValidCurrency(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("currency", ValidCurrency))

	type payload struct {
		Currency string `validate:"currency"`
	}

	require.NoError(t, v.Struct(payload{Currency: EUR}))
	require.Error(t, v.Struct(payload{Currency: "FAIL"}))
}

func TestValidAmount(t *testing.T) {
	v := validator.New()
	require.NoError(t, v.RegisterValidation("amount", ValidAmount))

	type payload struct {
		Amount string `validate:"amount"`
	}

	for _, ok := range []string{"1", "0.01", "99.90", "1000000", "9999999999.99"} {
		require.NoError(t, v.Struct(payload{Amount: ok}), ok)
	}

	for _, bad := range []string{"", "0", "-1", "1.001", "ten", "1e20", "1e2", "10000000000"} {
		require.Error(t, v.Struct(payload{Amount: bad}), bad)
	}
}

func TestParseDecimal(t *testing.T) {
	testCases := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{input: "12.50", want: "12.5", wantOK: true},
		{input: "-3", want: "-3", wantOK: true},
		{input: "1e20"},
		{input: "2E-2"},
		{input: "abc"},
	}

	for _, tc := range testCases {
		got, ok := ParseDecimal(tc.input)
		require.Equal(t, tc.wantOK, ok, tc.input)

		if tc.wantOK {
			require.Equal(t, tc.want, got.String(), tc.input)
		}
	}
}
