package region

import "strings"

// Status holds the outcome of a mac-command processor. Every bit reports
// one validated sub-condition.
type Status uint8

// Status bits.
const (
	ChannelOK  Status = 1 << 0 // frequency or channel-mask
	DatarateOK Status = 1 << 1
	ParamOK    Status = 1 << 2 // command specific, e.g. rx1 dr-offset or tx-power

	// Accepted is the status of a fully accepted three-bit command.
	Accepted = ChannelOK | DatarateOK | ParamOK

	// ChannelAccepted is the status of a fully accepted two-bit command
	// (NewChannelReq, DlChannelReq).
	ChannelAccepted = ChannelOK | DatarateOK
)

// Has returns true when all bits of b are set.
func (s Status) Has(b Status) bool {
	return s&b == b
}

func (s Status) String() string {
	var out []string
	for _, b := range []struct {
		bit  Status
		name string
	}{
		{ChannelOK, "channel"},
		{DatarateOK, "datarate"},
		{ParamOK, "param"},
	} {
		if s.Has(b.bit) {
			out = append(out, b.name+"_ok")
		}
	}
	if len(out) == 0 {
		return "rejected"
	}
	return strings.Join(out, "|")
}
