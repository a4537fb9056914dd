package roadnet

// Tag keys written by the simplifier. All values are stringified integers;
// seg_length_m is a ';'-joined list of them.
const (
	TagLengthMeters    = "length_m"
	TagDurationSeconds = "duration_s"
	TagOrigNodes       = "orig_nodes"
	TagKeptNodes       = "kept_nodes"
	TagSegmentLengths  = "seg_length_m"
)

// Address tag keys extracted by the address pipeline. Any key under the
// prefix marks an element as an address candidate.
const (
	tagAddrPrefix      = "addr:"
	tagAddrStreet      = "addr:street"
	tagAddrHousenumber = "addr:housenumber"
	tagAddrPostcode    = "addr:postcode"
	tagAddrCity        = "addr:city"
)

var (
	// Values of `oneway` which mean the way follows its node order.
	onewayForwardValues = map[string]struct{}{
		"yes":  {},
		"1":    {},
		"true": {},
	}

	// Values of `oneway` which mean the way goes against its node order.
	onewayReverseValues = map[string]struct{}{
		"-1":      {},
		"reverse": {},
	}

	// Values of `junction` implying an implicit oneway.
	junctionOnewayValues = map[string]struct{}{
		"roundabout": {},
	}

	// Access tags which can forbid movement regardless of highway type.
	accessTagKeys = [...]string{"access", "motor_vehicle", "vehicle"}

	// Access values which force a way to be non-routable.
	accessForbiddenValues = map[string]struct{}{
		"no":      {},
		"private": {},
	}
)
