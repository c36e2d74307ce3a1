package config

// Persistent state keys (Registry)
const (
	KeyMode       = "keyer.mode"
	KeyWPM        = "keyer.wpm"
	KeyPitch      = "keyer.pitch"
	KeyFarnsworth = "keyer.farnsworth"
	KeyPaddleSwap = "keyer.paddle_swap"
	KeySidetone   = "keyer.sidetone"
	KeyTxKey      = "keyer.tx_key"
	KeyTxInvert   = "keyer.tx_invert"
	KeyConfLock   = "keyer.conf_lock"

	// KeyUserPrefix prefixes user scalar slots ("user.1").
	KeyUserPrefix = "user."
)
