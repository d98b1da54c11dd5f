package fee

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFee(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		tests := []struct {
			name    string
			rate    string
			wantErr bool
		}{
			{name: "default rate", rate: "0.30"},
			{name: "zero rate", rate: "0"},
			{name: "almost one", rate: "0.99"},
			{name: "one is too much", rate: "1", wantErr: true},
			{name: "negative", rate: "-0.1", wantErr: true},
			{name: "not a number", rate: "abc", wantErr: true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := New(tt.rate)

				if tt.wantErr {
					require.Error(t, err)
					return
				}
				require.NoError(t, err)
			})
		}
	})

	t.Run("Split", func(t *testing.T) {
		f := MustDefault()

		tests := []struct {
			name           string
			amount         string
			wantPlatform   string
			wantFreelancer string
		}{
			{name: "round amount", amount: "1000.00", wantPlatform: "300.00", wantFreelancer: "700.00"},
			{name: "milestone amount", amount: "400.00", wantPlatform: "120.00", wantFreelancer: "280.00"},
			{name: "odd cents", amount: "0.01", wantPlatform: "0.003", wantFreelancer: "0.007"},
			{name: "zero", amount: "0", wantPlatform: "0", wantFreelancer: "0"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				amount := decimal.RequireFromString(tt.amount)

				platform, freelancer := f.Split(amount)

				require.True(t, platform.Equal(decimal.RequireFromString(tt.wantPlatform)), "platform share should match, got %s", platform)
				require.True(t, freelancer.Equal(decimal.RequireFromString(tt.wantFreelancer)), "freelancer share should match, got %s", freelancer)
				require.True(t, platform.Add(freelancer).Equal(amount), "split must conserve the amount")
			})
		}
	})

	t.Run("Percent", func(t *testing.T) {
		require.InDelta(t, 30.0, MustDefault().Percent(), 0.0001)

		f, err := New("0.15")
		require.NoError(t, err)
		require.InDelta(t, 15.0, f.Percent(), 0.0001)
	})
}
