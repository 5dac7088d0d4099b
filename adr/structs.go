// Package adr defines the interface of the device-side adaptive data-rate
// engine.
package adr

// Handler defines the ADR handler interface.
type Handler interface {
	ID() (string, error)
	Name() (string, error)
	Handle(HandleRequest) (HandleResponse, error)
}

// HandleRequest implements the ADR handle request.
type HandleRequest struct {
	// ADR defines if the device has ADR enabled.
	ADR bool

	// DR holds the current uplink data-rate of the device.
	DR int

	// TxPowerIndex holds the current tx-power index of the device.
	TxPowerIndex int

	// AckCounter holds the number of uplinks sent since the last downlink.
	AckCounter uint32

	// UpdateChannelMask defines if the default channels must be re-enabled
	// once the lowest data-rate has been reached.
	UpdateChannelMask bool
}

// HandleResponse implements the ADR handle response.
type HandleResponse struct {
	// DR holds the data-rate the device must use for the next uplink.
	DR int

	// TxPowerIndex holds the tx-power index the device must use for the
	// next uplink.
	TxPowerIndex int

	// AckRequest defines if the ADRACKReq bit must be set.
	AckRequest bool

	// AckCounter holds the ack counter the caller must persist.
	AckCounter uint32
}
