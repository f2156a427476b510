package fixed

// Gain range covered by the dB lookup table.
const (
	MinGainDB = -12
	MaxGainDB = 12
)

// gainTable holds 10^(db/20) in Q16.16 for db in [-12, +12], one entry per
// dB. Table lookup keeps gain deterministic and avoids an exponential in the
// coefficient path; 1 dB resolution is below the audible step size for EQ.
var gainTable = [25]Q16{
	16462,  // -12 dB
	18471,  // -11 dB
	20724,  // -10 dB
	23253,  // -9 dB
	26090,  // -8 dB
	29274,  // -7 dB
	32846,  // -6 dB
	36854,  // -5 dB
	41350,  // -4 dB
	46396,  // -3 dB
	52057,  // -2 dB
	58409,  // -1 dB
	65536,  // 0 dB
	73533,  // +1 dB
	82505,  // +2 dB
	92572,  // +3 dB
	103868, // +4 dB
	116541, // +5 dB
	130762, // +6 dB
	146717, // +7 dB
	164619, // +8 dB
	184706, // +9 dB
	207243, // +10 dB
	232530, // +11 dB
	260904, // +12 dB
}

// DBToLinear returns the linear amplitude for a whole-dB gain. Values outside
// [-12, +12] clamp to the table edges.
func DBToLinear(db int) Q16 {
	if db < MinGainDB {
		db = MinGainDB
	}
	if db > MaxGainDB {
		db = MaxGainDB
	}
	return gainTable[db-MinGainDB]
}
