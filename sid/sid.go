// Package sid parses and formats FDSN source identifiers, the compact
// channel identity strings MiniSEED records carry, e.g.
// "FDSN:IU_COLA_00_B_H_Z".
//
// A source identifier encodes network, station, location, and a channel
// split into band, source, and subsource codes. Parse recovers the four
// traditional NSLC fields with all padding removed; Format rebuilds the
// canonical identifier from NSLC fields.
package sid

import (
	"fmt"
	"strings"

	"github.com/arloliu/mseed/errs"
)

// Identity is the decomposed form of a source identifier. All fields are
// trimmed of the fixed-width padding legacy tooling uses; an empty location
// is an empty string, not two spaces.
type Identity struct {
	Network  string
	Station  string
	Location string
	Channel  string
}

// String renders the identity in the underscore-joined NSLC display form,
// e.g. "IU_COLA_00_BHZ".
func (id Identity) String() string {
	return id.Network + "_" + id.Station + "_" + id.Location + "_" + id.Channel
}

// Parse decomposes a source identifier of the form
// "FDSN:NET_STA_LOC_BAND_SOURCE_SUBSOURCE" into its NSLC fields. The
// "XFDSN:" namespace used by extended identifiers is accepted as well.
//
// When band, source, and subsource are each at most one character the
// channel field is their plain concatenation (the traditional 3-character
// SEED channel code); otherwise the underscore separators are kept so no
// information is lost. Parsing is idempotent over the identity fields:
// parsing the same identifier twice yields identical results.
//
// A malformed identifier returns an error wrapping errs.ErrInvalidSourceID.
func Parse(s string) (Identity, error) {
	rest, ok := strings.CutPrefix(s, "FDSN:")
	if !ok {
		rest, ok = strings.CutPrefix(s, "XFDSN:")
	}
	if !ok {
		return Identity{}, fmt.Errorf("%w: %q has no FDSN namespace", errs.ErrInvalidSourceID, s)
	}

	parts := strings.Split(rest, "_")
	if len(parts) != 6 {
		return Identity{}, fmt.Errorf("%w: %q has %d fields, want 6", errs.ErrInvalidSourceID, s, len(parts))
	}

	band, source, subsource := parts[3], parts[4], parts[5]
	var channel string
	if len(band) <= 1 && len(source) <= 1 && len(subsource) <= 1 {
		channel = band + source + subsource
	} else {
		channel = band + "_" + source + "_" + subsource
	}

	return Identity{
		Network:  strings.TrimSpace(parts[0]),
		Station:  strings.TrimSpace(parts[1]),
		Location: strings.TrimSpace(parts[2]),
		Channel:  strings.TrimSpace(channel),
	}, nil
}

// Format builds the canonical "FDSN:" source identifier from NSLC fields.
// A 3-character channel code is split into band, source, and subsource; a
// channel already containing underscores is taken as pre-split. Fields are
// trimmed before assembly so fixed-width padded input round-trips cleanly.
func Format(id Identity) (string, error) {
	net := strings.TrimSpace(id.Network)
	sta := strings.TrimSpace(id.Station)
	loc := strings.TrimSpace(id.Location)
	cha := strings.TrimSpace(id.Channel)

	if strings.ContainsRune(net+sta+loc, '_') {
		return "", fmt.Errorf("%w: NSLC fields must not contain underscores", errs.ErrInvalidSourceID)
	}

	switch {
	case strings.ContainsRune(cha, '_'):
		// Already in extended band_source_subsource form.
	case len(cha) == 3:
		cha = string(cha[0]) + "_" + string(cha[1]) + "_" + string(cha[2])
	case cha == "":
		cha = "__"
	default:
		return "", fmt.Errorf("%w: channel code %q is neither 3 characters nor pre-split", errs.ErrInvalidSourceID, id.Channel)
	}

	return "FDSN:" + net + "_" + sta + "_" + loc + "_" + cha, nil
}
