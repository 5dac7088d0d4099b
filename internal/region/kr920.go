package region

import "time"

// KR920 returns the profile of the KR920-923 region.
func KR920() Profile {
	defaultChannel := func(freq uint32) Channel {
		return Channel{Frequency: freq, DRRange: DRRange{Min: 0, Max: 5}, Band: 0}
	}

	return Profile{
		Name:               "KR920",
		MaxChannels:        16,
		NumDefaultChannels: 3,
		NumCFListChannels:  5,
		Channels: []Channel{
			defaultChannel(922100000),
			defaultChannel(922300000),
			defaultChannel(922500000),
			defaultChannel(922700000),
			defaultChannel(922900000),
			defaultChannel(923100000),
			defaultChannel(923300000),
		},
		JoinChannels:        []int{0, 1, 2},
		ADRRecoveryChannels: []int{0, 1, 2},
		Bands: []BandDefinition{
			{DutyCycle: 1, TxMaxPower: 0},
		},
		Frequencies: FrequencyRange{
			Min:  920900000,
			Max:  923300000,
			Step: 200000,
		},

		TxMinDR:         0,
		TxMaxDR:         5,
		RxMinDR:         0,
		RxMaxDR:         5,
		DefaultDR:       0,
		DefaultMaxTxDR:  5,
		MinRX1DROffset:  0,
		MaxRX1DROffset:  5,
		DefaultDROffset: 0,

		MaxTxPower:     0,
		MinTxPower:     7,
		DefaultTxPower: 0,

		EIRP: []EIRPLimit{
			{FromFrequency: 0, MaxEIRP: 10},
			{FromFrequency: 922100000, MaxEIRP: 14},
		},
		DefaultAntennaGain: 2.15,

		DataRates: []DataRate{
			{SpreadingFactor: 12, Bandwidth: 125000},
			{SpreadingFactor: 11, Bandwidth: 125000},
			{SpreadingFactor: 10, Bandwidth: 125000},
			{SpreadingFactor: 9, Bandwidth: 125000},
			{SpreadingFactor: 8, Bandwidth: 125000},
			{SpreadingFactor: 7, Bandwidth: 125000},
		},
		MaxPayload:         []int{51, 51, 51, 115, 242, 242},
		MaxPayloadRepeater: []int{51, 51, 51, 115, 222, 222},

		ADRAckLimit: 64,
		ADRAckDelay: 32,

		DutyCycleEnabled: false,

		MaxRxWindow:      3 * time.Second,
		ReceiveDelay1:    time.Second,
		ReceiveDelay2:    2 * time.Second,
		JoinAcceptDelay1: 5 * time.Second,
		JoinAcceptDelay2: 6 * time.Second,
		AckTimeout:       2 * time.Second,
		AckTimeoutRnd:    time.Second,
		MaxFCntGap:       16384,

		RX2Frequency: 921900000,
		RX2DR:        0,

		NbJoinTrials: 48,

		CarrierSense: CarrierSense{
			Enabled:       false,
			Time:          6 * time.Millisecond,
			RSSIThreshold: -65,
		},
	}
}
