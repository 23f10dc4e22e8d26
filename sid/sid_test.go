package sid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/mseed/errs"
)

func TestParse_Canonical(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Identity
	}{
		{
			name:  "standard channel",
			input: "FDSN:IU_COLA_00_B_H_Z",
			want:  Identity{Network: "IU", Station: "COLA", Location: "00", Channel: "BHZ"},
		},
		{
			name:  "empty location",
			input: "FDSN:XX_TEST__L_H_Z",
			want:  Identity{Network: "XX", Station: "TEST", Location: "", Channel: "LHZ"},
		},
		{
			name:  "extended namespace",
			input: "XFDSN:NL_HGN_02_B_H_Z",
			want:  Identity{Network: "NL", Station: "HGN", Location: "02", Channel: "BHZ"},
		},
		{
			name:  "multi-character source keeps separators",
			input: "FDSN:XX_STA__B_Humidity_Z",
			want:  Identity{Network: "XX", Station: "STA", Location: "", Channel: "B_Humidity_Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	const input = "FDSN:IU_COLA_00_B_H_Z"

	first, err := Parse(input)
	require.NoError(t, err)
	second, err := Parse(input)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, first.Network, second.Network)
	require.Equal(t, first.Station, second.Station)
	require.Equal(t, first.Location, second.Location)
	require.Equal(t, first.Channel, second.Channel)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "no namespace", input: "IU_COLA_00_B_H_Z"},
		{name: "wrong namespace", input: "SEED:IU_COLA_00_B_H_Z"},
		{name: "too few fields", input: "FDSN:IU_COLA_00_BHZ"},
		{name: "too many fields", input: "FDSN:IU_COLA_00_B_H_Z_X"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.ErrorIs(t, err, errs.ErrInvalidSourceID)
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want string
	}{
		{
			name: "standard channel",
			id:   Identity{Network: "IU", Station: "COLA", Location: "00", Channel: "BHZ"},
			want: "FDSN:IU_COLA_00_B_H_Z",
		},
		{
			name: "padded fields trimmed",
			id:   Identity{Network: "IU ", Station: "COLA    ", Location: "  ", Channel: "BHZ"},
			want: "FDSN:IU_COLA__B_H_Z",
		},
		{
			name: "pre-split channel",
			id:   Identity{Network: "XX", Station: "STA", Location: "", Channel: "B_Humidity_Z"},
			want: "FDSN:XX_STA__B_Humidity_Z",
		},
		{
			name: "empty channel",
			id:   Identity{Network: "XX", Station: "STA", Location: ""},
			want: "FDSN:XX_STA____",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Format(tt.id)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)

			// Round trip recovers the trimmed fields.
			back, err := Parse(got)
			require.NoError(t, err)
			require.Equal(t, strings.TrimSpace(tt.id.Network), back.Network)
			require.Equal(t, strings.TrimSpace(tt.id.Station), back.Station)
			require.Equal(t, strings.TrimSpace(tt.id.Channel), back.Channel)
		})
	}
}

func TestFormat_Invalid(t *testing.T) {
	_, err := Format(Identity{Network: "I_U", Station: "COLA", Channel: "BHZ"})
	require.ErrorIs(t, err, errs.ErrInvalidSourceID)

	_, err = Format(Identity{Network: "IU", Station: "COLA", Channel: "BH"})
	require.ErrorIs(t, err, errs.ErrInvalidSourceID)
}

func TestIdentity_String(t *testing.T) {
	id := Identity{Network: "IU", Station: "COLA", Location: "00", Channel: "BHZ"}
	require.Equal(t, "IU_COLA_00_BHZ", id.String())

	empty := Identity{Network: "XX", Station: "TEST", Location: "", Channel: "LHZ"}
	require.Equal(t, "XX_TEST__LHZ", empty.String())
}
