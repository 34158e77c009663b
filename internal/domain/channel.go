package domain

// Channel identifies which contact attribute an OTP flow addressed.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelPhone Channel = "phone"
)
