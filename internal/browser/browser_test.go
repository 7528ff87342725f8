package browser

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/handiism/suno-exporter/internal/model"
	"github.com/stretchr/testify/require"
)

func TestParseSignal(t *testing.T) {
	tests := []struct {
		input   string
		want    Signal
		wantErr bool
	}{
		{"", SignalIdentifiers, false},
		{"identifiers", SignalIdentifiers, false},
		{"height", SignalHeight, false},
		{"count", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSignal(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestProgressScript(t *testing.T) {
	require.Equal(t, scrollHeightJS, progressScript(SignalHeight))

	ids := progressScript(SignalIdentifiers)
	require.True(t, strings.Contains(ids, `a[href*="/song/"]`))
	require.True(t, strings.Contains(ids, `[data-clip-id]`))
	require.True(t, strings.Contains(ids, `{36}`))
}

func TestProgressScript_CountsCanonicalClipIDs(t *testing.T) {
	m := regexp.MustCompile(`/(\^[^/]+\$)/\.test\(id\)`).FindStringSubmatch(countIdentifiersJS)
	require.NotNil(t, m, "data-clip-id values should be filtered")
	clipID := regexp.MustCompile(m[1])

	for _, id := range []string{
		"0b7c6a1e-3f9d-4c55-9b7e-1d2a3c4b5e6f",
		"not-an-id",
		"0b7c6a1e",
		"0B7C6A1E-3F9D-4C55-9B7E-1D2A3C4B5E6F",
		"",
	} {
		require.Equal(t, model.IsSongID(id), clipID.MatchString(id), id)
	}
}

func TestOpen_RequiresURL(t *testing.T) {
	_, err := Open(context.Background(), DefaultOptions())
	require.Error(t, err)
}
